package api

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/guttosm/salesreport/internal/domain/models"
	"github.com/guttosm/salesreport/internal/service"
)

// mockReports implements service.ReportService with canned values.
type mockReports struct {
	sales      []models.Sale
	byDate     []models.Sale
	report     *models.IntegratedReport
	integrated []models.IntegratedReport
	items      []models.LineItem
	item       *models.LineItem
	stats      models.CombinedStatistics
	dateErr    error

	lastID   atomic.Int64
	ctxBound atomic.Bool
}

func (m *mockReports) track(ctx context.Context) {
	if _, ok := ctx.Deadline(); ok {
		m.ctxBound.Store(true)
	}
}

func (m *mockReports) ReportWithLineItems(ctx context.Context, id int64) (*models.IntegratedReport, bool) {
	m.track(ctx)
	m.lastID.Store(id)
	return m.report, m.report != nil
}

func (m *mockReports) CombinedStatistics(ctx context.Context) models.CombinedStatistics {
	m.track(ctx)
	return m.stats
}

func (m *mockReports) IntegratedReportsByDateRange(ctx context.Context, _, _ string) ([]models.IntegratedReport, error) {
	m.track(ctx)
	if m.dateErr != nil {
		return nil, m.dateErr
	}
	return m.integrated, nil
}

func (m *mockReports) SalesByDateRange(ctx context.Context, _, _ string) ([]models.Sale, error) {
	m.track(ctx)
	if m.dateErr != nil {
		return nil, m.dateErr
	}
	return m.byDate, nil
}

func (m *mockReports) AllSales(ctx context.Context) []models.Sale {
	m.track(ctx)
	return m.sales
}

func (m *mockReports) SaleByID(_ context.Context, id int64) (models.Sale, bool) {
	for _, s := range m.sales {
		if s.ID == id {
			return s, true
		}
	}
	return models.Sale{}, false
}

func (m *mockReports) SalesByCustomer(_ context.Context, customerID int64) []models.Sale {
	m.lastID.Store(customerID)
	out := []models.Sale{}
	for _, s := range m.sales {
		if s.CustomerID == customerID {
			out = append(out, s)
		}
	}
	return out
}

func (m *mockReports) AllLineItems(context.Context) []models.LineItem { return m.items }

func (m *mockReports) LineItemByID(_ context.Context, id int64) (models.LineItem, bool) {
	m.lastID.Store(id)
	if m.item == nil {
		return models.LineItem{}, false
	}
	return *m.item, true
}

func (m *mockReports) LineItemsBySale(context.Context, int64) []models.LineItem { return m.items }

// mockLocal implements service.LocalReportService.
type mockLocal struct {
	rows       []models.BasicReportRow
	err        error
	start, end string
}

func (m *mockLocal) RowsByDateRange(_ context.Context, start, end string) ([]models.BasicReportRow, error) {
	m.start, m.end = start, end
	return m.rows, m.err
}

func (m *mockLocal) AllRows(context.Context) ([]models.BasicReportRow, error) {
	return m.rows, m.err
}

var (
	_ service.ReportService      = (*mockReports)(nil)
	_ service.LocalReportService = (*mockLocal)(nil)
)

func rawJSON(s string) json.RawMessage { return json.RawMessage(s) }
