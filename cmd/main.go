package main

//
//  @title           salesreport API
//  @version         1.0
//  @description     Sales report aggregation over the upstream sales and line-item services.
//  @termsOfService  https://github.com/guttosm/salesreport
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/salesreport
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        reports
//  @tag.description Integrated reports and combined statistics
//
//  @tag.name        sales
//  @tag.description Upstream sales
//
//  @tag.name        items
//  @tag.description Upstream line items
//
//  @tag.name        local
//  @tag.description Locally stored report rows
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guttosm/salesreport/config"
	_ "github.com/guttosm/salesreport/docs" // swagger docs
	"github.com/guttosm/salesreport/internal/app"
	"github.com/guttosm/salesreport/internal/ingestion"
	"github.com/guttosm/salesreport/internal/logger"
	"github.com/guttosm/salesreport/internal/service"
	"github.com/guttosm/salesreport/internal/storage"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// writeReports runs IntegratedReportsByDateRange and prints the result as indented JSON.
func writeReports(ctx context.Context, svc service.ReportService, start, end string, w io.Writer) error {
	reports, err := svc.IntegratedReportsByDateRange(ctx, start, end)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reports); err != nil {
		return fmt.Errorf("encode reports: %w", err)
	}
	return nil
}

// main is the entry point of the salesreport application.
//
// Modes (selected via --mode flag):
//   - api:    Starts the REST API over the upstream services and the local store.
//   - ingest: Loads every *.csv file from --dir into the local report store.
//   - report: Prints the integrated reports for [--start, --end] as JSON and exits.
//
// Flags:
//   - --mode:     Execution mode ("api", "ingest" or "report"). Default: "api".
//   - --dir:      Directory containing .csv input files. Default: "./data/input".
//   - --parallel: Files processed concurrently in ingest mode (0 = auto).
//   - --start, --end: Inclusive YYYY-MM-DD bounds for report mode.
//   - --port:     Port for the API server. Defaults to value from config (SERVER_PORT).
func main() {
	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	mode := flag.String("mode", "api", "Mode: api, ingest or report")
	dir := flag.String("dir", "./data/input", "Directory with .csv files (ingest mode)")
	parallel := flag.Int("parallel", 0, "How many files to process concurrently (0=auto up to CPU, max 8)")
	start := flag.String("start", "", "Start date YYYY-MM-DD (report mode)")
	end := flag.String("end", "", "End date YYYY-MM-DD (report mode)")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	switch *mode {
	case "ingest":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.L().Info().Str("dir", *dir).Msg("running ingestion")

		db, err := app.InitPostgres(config.AppConfig)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("db connect error")
		}
		defer func() { _ = db.Close() }()

		repo := storage.NewReportRowsRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.L().Fatal().Err(err).Msg("schema migration failed")
		}

		n, err := ingestion.ProcessDirectory(ctx, *dir, repo, *parallel)
		if err != nil {
			logger.L().Fatal().Err(err).Int("rows", n).Msg("ingestion failed")
		}
		logger.L().Info().Int("rows", n).Msg("ingestion completed successfully")

	case "report":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if *start == "" || *end == "" {
			logger.L().Fatal().Msg("--start and --end are required in report mode")
		}
		if err := writeReports(ctx, app.NewReportService(config.AppConfig), *start, *end, os.Stdout); err != nil {
			logger.L().Fatal().Err(err).Msg("report failed")
		}

	case "api":
		logger.L().Info().Msg("starting API server")

		ctx := context.Background()
		router, cleanup, err := app.InitializeApp(ctx)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
