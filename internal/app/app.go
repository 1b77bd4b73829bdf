package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/salesreport/config"
	"github.com/guttosm/salesreport/internal/api"
	"github.com/guttosm/salesreport/internal/logger"
	"github.com/guttosm/salesreport/internal/service"
	"github.com/guttosm/salesreport/internal/storage"
)

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Connects to PostgreSQL using InitPostgres() and applies the schema migrations.
//   - Builds the upstream gateways and the aggregation engine (NewReportService).
//   - Initializes the local report repository and service.
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness probes.
//   - Provides a cleanup function to close resources (e.g., DB connection).
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp(ctx context.Context) (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	// indirection for unit testing
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	repo := storage.NewReportRowsRepository(db)
	if err := schemaMigrator(ctx, repo); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	reports := NewReportService(cfg)
	local := service.NewLocalReportService(repo)

	handler := api.NewHandler(reports, local, ServiceInfo(cfg))
	router := api.NewRouter(handler, api.RouterOptions{
		RateLimitPerMinute: cfg.RateLimit.PerMinute,
	})

	api.NewHealthHandler(db.PingContext).Register(router)

	logger.L().Info().
		Str("sales_api", cfg.Sales.BaseURL).
		Str("lineitems_api", cfg.LineItems.BaseURL).
		Int("fanout", cfg.Report.FanoutLimit).
		Msg("application initialized")

	cleanup := func() {
		_ = db.Close()
	}

	return router, cleanup, nil
}

// schemaMigrator is overridden in tests; sqlmock cannot replay goose's bookkeeping queries.
var schemaMigrator = func(ctx context.Context, repo storage.ReportRowsRepository) error {
	return repo.EnsureSchema(ctx)
}
