package config

import (
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system:
// the HTTP server, the two upstream services the reports are built from, the
// aggregation fan-out, and the Postgres database that backs the local report rows.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	SALES_API_BASE_URL=http://localhost:8181
//	LINEITEMS_API_BASE_URL=http://localhost:8082
//	UPSTREAM_TIMEOUT=0s
//	REPORT_FANOUT_LIMIT=8
//	POSTGRES_HOST=localhost
//	POSTGRES_DB=salesreport
type Config struct {
	Server    ServerConfig    // HTTP server configuration
	Sales     UpstreamConfig  // Upstream sales service
	LineItems UpstreamConfig  // Upstream line-item service
	Report    ReportConfig    // Aggregation settings
	Postgres  PostgresConfig  // PostgreSQL connection settings
	RateLimit RateLimitConfig // Per-client request limit
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string // The TCP port the HTTP server will listen on (e.g., "8080")
}

// UpstreamConfig describes one upstream HTTP service.
//
// Fields:
//   - BaseURL: absolute http(s) address every request path is appended to.
//   - Timeout: per-request client timeout; zero disables it and leaves the
//     caller's context as the only bound.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

// ReportConfig tunes the aggregation engine.
type ReportConfig struct {
	FanoutLimit int // max concurrent per-sale line-item fetches
}

// RateLimitConfig bounds requests per client IP per minute.
type RateLimitConfig struct {
	PerMinute int
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// DSN builds the postgres:// connection string for database/sql.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.DBName,
		p.SSLMode,
	)
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing or malformed, validateConfig() terminates
//     the app with a descriptive log message.
func LoadConfig() {
	setDefaults()

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = fromViper()

	if problems := validate(AppConfig); len(problems) > 0 {
		log.Fatalf("invalid configuration: %v\n", problems)
	}
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")

	viper.SetDefault("SALES_API_BASE_URL", "http://localhost:8181")
	viper.SetDefault("LINEITEMS_API_BASE_URL", "http://localhost:8082")
	viper.SetDefault("UPSTREAM_TIMEOUT", "0s")
	viper.SetDefault("REPORT_FANOUT_LIMIT", 8)
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 60)

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "salesreport")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
}

func fromViper() Config {
	timeout := viper.GetDuration("UPSTREAM_TIMEOUT")
	cfg := Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Sales: UpstreamConfig{
			BaseURL: viper.GetString("SALES_API_BASE_URL"),
			Timeout: timeout,
		},
		LineItems: UpstreamConfig{
			BaseURL: viper.GetString("LINEITEMS_API_BASE_URL"),
			Timeout: timeout,
		},
		Report: ReportConfig{
			FanoutLimit: viper.GetInt("REPORT_FANOUT_LIMIT"),
		},
		RateLimit: RateLimitConfig{
			PerMinute: viper.GetInt("RATE_LIMIT_PER_MINUTE"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
	}
	cfg.Postgres.URL = cfg.Postgres.DSN()
	return cfg
}

// validate lists every missing or malformed setting in cfg.
func validate(cfg Config) []string {
	var problems []string

	if cfg.Server.Port == "" {
		problems = append(problems, "SERVER_PORT")
	}
	if !isHTTPURL(cfg.Sales.BaseURL) {
		problems = append(problems, "SALES_API_BASE_URL")
	}
	if !isHTTPURL(cfg.LineItems.BaseURL) {
		problems = append(problems, "LINEITEMS_API_BASE_URL")
	}
	if cfg.Sales.Timeout < 0 || cfg.LineItems.Timeout < 0 {
		problems = append(problems, "UPSTREAM_TIMEOUT")
	}
	if cfg.Report.FanoutLimit < 1 {
		problems = append(problems, "REPORT_FANOUT_LIMIT")
	}
	if cfg.Postgres.Host == "" {
		problems = append(problems, "POSTGRES_HOST")
	}
	if cfg.Postgres.Port == 0 {
		problems = append(problems, "POSTGRES_PORT")
	}
	if cfg.Postgres.User == "" {
		problems = append(problems, "POSTGRES_USER")
	}
	if cfg.Postgres.DBName == "" {
		problems = append(problems, "POSTGRES_DB")
	}

	return problems
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
