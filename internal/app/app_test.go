package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/guttosm/salesreport/config"
	"github.com/guttosm/salesreport/internal/domain/dto"
	"github.com/guttosm/salesreport/internal/storage"
)

// TestInitPostgres_InvalidHost expects ping failure.
func TestInitPostgres_InvalidHost(t *testing.T) {
	cfg := config.Config{Postgres: config.PostgresConfig{
		Host:     "127.0.0.1",
		Port:     54329, // unlikely mapped
		User:     "x",
		Password: "y",
		DBName:   "z",
		SSLMode:  "disable",
	}}
	db, err := InitPostgres(cfg)
	if err == nil {
		_ = db.Close()
		t.Fatalf("expected error connecting to invalid DB")
	}
}

// TestInitializeApp_DBFailure ensures InitializeApp returns error when DB cannot connect.
func TestInitializeApp_DBFailure(t *testing.T) {
	old := postgresOpener
	postgresOpener = func(config.Config) (*sql.DB, error) { return nil, errors.New("connection refused") }
	t.Cleanup(func() { postgresOpener = old })

	r, cleanup, err := InitializeApp(context.Background())
	if err == nil || r != nil || cleanup != nil {
		if cleanup != nil {
			cleanup()
		}
		t.Fatalf("expected error from InitializeApp with invalid DB config")
	}
}

func TestInitializeApp_MigrationFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	mock.ExpectClose()

	oldOpen, oldMigrate := postgresOpener, schemaMigrator
	postgresOpener = func(config.Config) (*sql.DB, error) { return db, nil }
	schemaMigrator = func(context.Context, storage.ReportRowsRepository) error { return errors.New("bad migration") }
	t.Cleanup(func() { postgresOpener, schemaMigrator = oldOpen, oldMigrate })

	if _, _, err := InitializeApp(context.Background()); err == nil {
		t.Fatalf("expected migration error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("db not closed after failed migration: %v", err)
	}
}

func TestInitializeApp_HappyPath(t *testing.T) {
	// Upstreams serve empty collections and 404 everything else.
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sales" && r.URL.Path != "/items" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer upstream.Close()

	oldCfg := config.AppConfig
	config.AppConfig = config.Config{
		Sales:     config.UpstreamConfig{BaseURL: upstream.URL},
		LineItems: config.UpstreamConfig{BaseURL: upstream.URL, Timeout: time.Second},
		Report:    config.ReportConfig{FanoutLimit: 2},
		RateLimit: config.RateLimitConfig{PerMinute: 100},
	}

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	mock.ExpectPing()

	oldOpen, oldMigrate := postgresOpener, schemaMigrator
	postgresOpener = func(cfg config.Config) (*sql.DB, error) { return db, nil }
	migrated := false
	schemaMigrator = func(context.Context, storage.ReportRowsRepository) error {
		migrated = true
		return nil
	}
	t.Cleanup(func() {
		postgresOpener, schemaMigrator = oldOpen, oldMigrate
		config.AppConfig = oldCfg
		_ = db.Close()
	})

	router, cleanup, err := InitializeApp(context.Background())
	if err != nil || router == nil || cleanup == nil {
		t.Fatalf("InitializeApp failed: err=%v", err)
	}
	if !migrated {
		t.Fatalf("schema migrations were not applied")
	}

	cases := []struct {
		path string
		want int
	}{
		{"/healthz", http.StatusOK},
		{"/readyz", http.StatusOK},
		{"/api/v1/reports/sales", http.StatusOK},
		{"/api/v1/reports/sales/123", http.StatusNotFound},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if w.Code != tc.want {
			t.Fatalf("%s status=%d want %d (%s)", tc.path, w.Code, tc.want, w.Body.String())
		}
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reports/info", nil))
	var info dto.ServiceInfo
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatalf("info: %v", err)
	}
	if info.Upstreams["sales"] != upstream.URL || info.Version != Version || len(info.Endpoints) == 0 {
		t.Fatalf("unexpected info %+v", info)
	}

	cleanup()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
