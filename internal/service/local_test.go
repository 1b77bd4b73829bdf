package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/salesreport/internal/domain/models"
)

type stubRepo struct {
	rows       []models.BasicReportRow
	err        error
	start, end time.Time
	calls      int
}

func (s *stubRepo) EnsureSchema(context.Context) error { return nil }
func (s *stubRepo) RowsByDateRange(_ context.Context, start, end time.Time) ([]models.BasicReportRow, error) {
	s.calls++
	s.start, s.end = start, end
	return s.rows, s.err
}
func (s *stubRepo) AllRows(context.Context) ([]models.BasicReportRow, error) {
	s.calls++
	return s.rows, s.err
}
func (s *stubRepo) InsertRowsBatch(context.Context, []models.BasicReportRow) error { return nil }

func TestLocalReportService_TableDriven(t *testing.T) {
	cases := []struct {
		name       string
		repo       *stubRepo
		start, end string
		wantErr    bool
		wantCalls  int
		wantLen    int
	}{
		{
			name:      "success",
			repo:      &stubRepo{rows: []models.BasicReportRow{{ID: 1}, {ID: 2}}},
			start:     "2024-01-01",
			end:       "2024-01-31",
			wantCalls: 1,
			wantLen:   2,
		},
		{name: "store error", repo: &stubRepo{err: errors.New("db down")}, start: "2024-01-01", end: "2024-01-31", wantErr: true, wantCalls: 1},
		{name: "malformed", repo: &stubRepo{}, start: "2024-13-01", end: "2024-01-31", wantErr: true},
		{name: "inverted", repo: &stubRepo{}, start: "2024-02-01", end: "2024-01-01", wantLen: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := NewLocalReportService(tc.repo).RowsByDateRange(context.Background(), tc.start, tc.end)
			if tc.wantErr != (err != nil) {
				t.Fatalf("err=%v wantErr=%v", err, tc.wantErr)
			}
			if tc.repo.calls != tc.wantCalls {
				t.Fatalf("repo calls=%d want %d", tc.repo.calls, tc.wantCalls)
			}
			if !tc.wantErr && len(out) != tc.wantLen {
				t.Fatalf("len=%d want %d", len(out), tc.wantLen)
			}
		})
	}
}

func TestLocalReportService_BoundsAndMalformed(t *testing.T) {
	repo := &stubRepo{}
	svc := NewLocalReportService(repo)
	if _, err := svc.RowsByDateRange(context.Background(), "2024-01-01", "2024-01-31"); err != nil {
		t.Fatalf("err: %v", err)
	}
	if repo.start != time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) || repo.end != time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("bounds %v..%v", repo.start, repo.end)
	}
	if _, err := svc.RowsByDateRange(context.Background(), "x", "2024-01-31"); !errors.Is(err, models.ErrMalformedDate) {
		t.Fatalf("expected ErrMalformedDate, got %v", err)
	}
}

func TestLocalReportService_AllRows(t *testing.T) {
	repo := &stubRepo{rows: []models.BasicReportRow{{ID: 9}}}
	out, err := NewLocalReportService(repo).AllRows(context.Background())
	if err != nil || len(out) != 1 || out[0].ID != 9 {
		t.Fatalf("out=%+v err=%v", out, err)
	}
}
