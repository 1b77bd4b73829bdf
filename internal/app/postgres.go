package app

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/guttosm/salesreport/config"

	_ "github.com/lib/pq" // PostgreSQL driver for database/sql
)

// InitPostgres opens and verifies a PostgreSQL connection pool from cfg.Postgres.
//
// Behavior:
//   - Opens a database handle with the DSN built by config.PostgresConfig.DSN.
//   - Bounds the pool so ingestion workers and API requests share it fairly.
//   - Pings the database to validate connectivity.
//
// Example usage:
//
//	db, err := app.InitPostgres(config.AppConfig)
//	if err != nil {
//	    log.Fatalf("failed to connect: %v", err)
//	}
//	defer db.Close()
func InitPostgres(cfg config.Config) (*sql.DB, error) {
	db, err := sqlOpener("postgres", cfg.Postgres.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return db, nil
}

// sqlOpener is an indirection for unit testing; defaults to sql.Open
var sqlOpener = sql.Open

// postgresOpener is an indirection used by InitializeApp; overridden in tests to avoid real connections.
var postgresOpener = InitPostgres
