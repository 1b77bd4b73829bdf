package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/salesreport/internal/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// DefaultRequestTimeout bounds every API request, upstream fan-out included.
const DefaultRequestTimeout = 10 * time.Second

// RouterOptions tunes the global middlewares.
type RouterOptions struct {
	RateLimitPerMinute int           // <= 0 disables the limiter
	RequestTimeout     time.Duration // <= 0 uses DefaultRequestTimeout
}

// NewRouter creates a Gin engine with routes configured.
// It receives a Handler instance with all business logic already injected.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, RateLimiter).
//   - Adds request timeout handling.
//   - Mounts Swagger docs (/swagger/*any).
//   - Configures the report routes (/api/v1/reports).
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
func NewRouter(handler *Handler, opts RouterOptions) *gin.Engine {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}

	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.RateLimiter(opts.RateLimitPerMinute, time.Minute),
		middleware.Timeout(opts.RequestTimeout),
	)

	// ─── Swagger ──────────────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ─── API v1 ───────────────────────────────────
	reports := router.Group("/api/v1/reports")
	{
		reports.GET("/local", handler.GetLocalReport)
		reports.POST("/local", handler.PostLocalReport)
		reports.GET("/local/all", handler.GetAllLocalRows)

		reports.GET("/sales", handler.GetAllSales)
		reports.GET("/sales/by-date", handler.GetSalesByDate)
		reports.GET("/sales/:id", handler.GetSaleReport)
		reports.GET("/customers/:id/sales", handler.GetCustomerSales)

		reports.GET("/items", handler.GetAllLineItems)
		reports.GET("/items/:id", handler.GetLineItem)

		reports.GET("/integrated", handler.GetIntegratedReports)
		reports.GET("/stats", handler.GetStatistics)
		reports.GET("/info", handler.GetInfo)
	}

	return router
}

// Endpoints lists the report routes, as advertised by GET /info.
func Endpoints() []string {
	return []string{
		"GET /api/v1/reports/local?start=&end=",
		"POST /api/v1/reports/local",
		"GET /api/v1/reports/local/all",
		"GET /api/v1/reports/sales",
		"GET /api/v1/reports/sales/by-date?start=&end=",
		"GET /api/v1/reports/sales/{id}",
		"GET /api/v1/reports/customers/{id}/sales",
		"GET /api/v1/reports/items",
		"GET /api/v1/reports/items/{id}",
		"GET /api/v1/reports/integrated?start=&end=",
		"GET /api/v1/reports/stats",
		"GET /api/v1/reports/info",
	}
}
