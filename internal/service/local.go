package service

import (
	"context"

	"github.com/guttosm/salesreport/internal/domain/models"
	"github.com/guttosm/salesreport/internal/storage"
)

// LocalReportService serves the locally stored report rows. It is independent
// of the upstream services and never joins with them.
type LocalReportService interface {
	RowsByDateRange(ctx context.Context, start, end string) ([]models.BasicReportRow, error)
	AllRows(ctx context.Context) ([]models.BasicReportRow, error)
}

type localReportService struct {
	repo storage.ReportRowsRepository
}

func NewLocalReportService(repo storage.ReportRowsRepository) LocalReportService {
	return &localReportService{repo: repo}
}

// RowsByDateRange parses the bounds and queries the store. An inverted range
// returns no rows without touching the database.
func (s *localReportService) RowsByDateRange(ctx context.Context, start, end string) ([]models.BasicReportRow, error) {
	r, err := models.ParseDateRange(start, end)
	if err != nil {
		return nil, err
	}
	if r.Start.After(r.End) {
		return []models.BasicReportRow{}, nil
	}
	return s.repo.RowsByDateRange(ctx, r.Start.Time(), r.End.Time())
}

func (s *localReportService) AllRows(ctx context.Context) ([]models.BasicReportRow, error) {
	return s.repo.AllRows(ctx)
}
