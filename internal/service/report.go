package service

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/salesreport/internal/domain/models"
	"github.com/guttosm/salesreport/internal/gateway"
	"github.com/guttosm/salesreport/internal/logger"
)

// DefaultFanoutLimit bounds concurrent per-sale line-item fetches when none is configured.
const DefaultFanoutLimit = 8

// ReportService aggregates the upstream sales and line-item sources.
//
// Upstream failures never surface as errors: they shrink results to empty or
// absent values. The only error returned is models.ErrMalformedDate for bad
// date input.
type ReportService interface {
	ReportWithLineItems(ctx context.Context, saleID int64) (*models.IntegratedReport, bool)
	CombinedStatistics(ctx context.Context) models.CombinedStatistics
	IntegratedReportsByDateRange(ctx context.Context, start, end string) ([]models.IntegratedReport, error)
	SalesByDateRange(ctx context.Context, start, end string) ([]models.Sale, error)

	AllSales(ctx context.Context) []models.Sale
	SaleByID(ctx context.Context, id int64) (models.Sale, bool)
	SalesByCustomer(ctx context.Context, customerID int64) []models.Sale
	AllLineItems(ctx context.Context) []models.LineItem
	LineItemByID(ctx context.Context, id int64) (models.LineItem, bool)
	LineItemsBySale(ctx context.Context, saleID int64) []models.LineItem
}

type reportService struct {
	sales  gateway.SalesSource
	items  gateway.LineItemSource
	fanout int
}

// NewReportService wires the engine to both upstream sources. fanout <= 0 uses
// DefaultFanoutLimit.
func NewReportService(sales gateway.SalesSource, items gateway.LineItemSource, fanout int) ReportService {
	if fanout <= 0 {
		fanout = DefaultFanoutLimit
	}
	return &reportService{sales: sales, items: items, fanout: fanout}
}

// ReportWithLineItems joins one sale with its line items. The line-item call is
// only issued once the sale is known to exist.
func (s *reportService) ReportWithLineItems(ctx context.Context, saleID int64) (*models.IntegratedReport, bool) {
	sale, ok := s.sales.FetchByID(ctx, saleID).Get()
	if !ok {
		return nil, false
	}
	r := s.join(ctx, sale)
	return &r, true
}

func (s *reportService) join(ctx context.Context, sale models.Sale) models.IntegratedReport {
	items := s.items.FetchBySale(ctx, sale.ID).OrEmpty()
	return models.NewIntegratedReport(sale, items)
}

// CombinedStatistics fetches both statistics payloads concurrently and waits for
// both. A failed source leaves a null placeholder.
func (s *reportService) CombinedStatistics(ctx context.Context) models.CombinedStatistics {
	var salesStats, itemStats json.RawMessage

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		salesStats = s.sales.FetchStatistics(gctx).OrEmpty()
		return nil
	})
	g.Go(func() error {
		itemStats = s.items.FetchStatistics(gctx).OrEmpty()
		return nil
	})
	_ = g.Wait() // goroutines never fail

	return models.CombinedStatistics{
		SalesStatistics:    salesStats,
		LineItemStatistics: itemStats,
		Message:            models.CombinedStatisticsMessage,
	}
}

// IntegratedReportsByDateRange builds one report per sale dated inside
// [start, end]. Line-item fetches fan out with at most s.fanout in flight, and
// the result is returned only after every join finished, in sale fetch order.
func (s *reportService) IntegratedReportsByDateRange(ctx context.Context, start, end string) ([]models.IntegratedReport, error) {
	matching, err := s.SalesByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	began := time.Now()
	reports := make([]models.IntegratedReport, len(matching))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanout)
	for i, sale := range matching {
		g.Go(func() error {
			reports[i] = s.join(gctx, sale)
			return nil
		})
	}
	_ = g.Wait()

	logger.FromContext(ctx).Debug().
		Int("sales", len(matching)).
		Int("fanout", s.fanout).
		Dur("elapsed", time.Since(began)).
		Msg("integrated reports joined")

	return reports, nil
}

// SalesByDateRange returns the upstream sales dated inside [start, end].
func (s *reportService) SalesByDateRange(ctx context.Context, start, end string) ([]models.Sale, error) {
	r, err := models.ParseDateRange(start, end)
	if err != nil {
		return nil, err
	}
	all := s.sales.FetchAll(ctx).OrEmpty()
	return models.FilterSales(all, r), nil
}

func (s *reportService) AllSales(ctx context.Context) []models.Sale {
	return s.sales.FetchAll(ctx).OrEmpty()
}

func (s *reportService) SaleByID(ctx context.Context, id int64) (models.Sale, bool) {
	return s.sales.FetchByID(ctx, id).Get()
}

func (s *reportService) SalesByCustomer(ctx context.Context, customerID int64) []models.Sale {
	return s.sales.FetchByCustomer(ctx, customerID).OrEmpty()
}

func (s *reportService) AllLineItems(ctx context.Context) []models.LineItem {
	return s.items.FetchAll(ctx).OrEmpty()
}

func (s *reportService) LineItemByID(ctx context.Context, id int64) (models.LineItem, bool) {
	return s.items.FetchByID(ctx, id).Get()
}

func (s *reportService) LineItemsBySale(ctx context.Context, saleID int64) []models.LineItem {
	return s.items.FetchBySale(ctx, saleID).OrEmpty()
}
