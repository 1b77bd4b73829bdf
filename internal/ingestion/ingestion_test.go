package ingestion

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/guttosm/salesreport/internal/domain/models"
	"github.com/guttosm/salesreport/internal/storage"
)

// fakeRepo records inserted batches; failOn makes InsertRowsBatch fail for any row with that id.
type fakeRepo struct {
	mu      sync.Mutex
	batches [][]models.BasicReportRow
	failOn  int64
}

func (f *fakeRepo) EnsureSchema(context.Context) error { return nil }
func (f *fakeRepo) RowsByDateRange(context.Context, time.Time, time.Time) ([]models.BasicReportRow, error) {
	return nil, nil
}
func (f *fakeRepo) AllRows(context.Context) ([]models.BasicReportRow, error) { return nil, nil }
func (f *fakeRepo) InsertRowsBatch(_ context.Context, rows []models.BasicReportRow) error {
	for _, r := range rows {
		if f.failOn != 0 && r.ID == f.failOn {
			return errors.New("duplicate key")
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, append([]models.BasicReportRow(nil), rows...))
	return nil
}

func (f *fakeRepo) rows() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, b := range f.batches {
		n += len(b)
	}
	return n
}

var _ storage.ReportRowsRepository = (*fakeRepo)(nil)

const header = "id;sale_date;total;salesperson_id\n"

func writeFile(t *testing.T, dir, name string, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func sampleFile(firstID int) string {
	return header +
		fmt.Sprintf("%d;2024-01-05;10,50;3\n", firstID) +
		fmt.Sprintf("%d;2024-01-06;99.90;4\n", firstID+1)
}

func TestProcessDirectory_LoadsAllFiles(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 5; i++ {
		writeFile(t, dir, fmt.Sprintf("export_%02d.csv", i), sampleFile(i*10+1))
	}
	writeFile(t, dir, "notes.txt", "ignored")

	repo := &fakeRepo{}
	n, err := ProcessDirectory(context.Background(), dir, repo, 2)
	if err != nil {
		t.Fatalf("ProcessDirectory err: %v", err)
	}
	if n != 10 || repo.rows() != 10 {
		t.Fatalf("inserted=%d repo=%d, want 10", n, repo.rows())
	}
}

func TestProcessDirectory_NoFiles(t *testing.T) {
	_, err := ProcessDirectory(context.Background(), t.TempDir(), &fakeRepo{}, 0)
	if err == nil || !strings.Contains(err.Error(), "no *.csv files") {
		t.Fatalf("expected no files error, got %v", err)
	}
}

func TestProcessDirectory_FirstErrorWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", sampleFile(1))
	writeFile(t, dir, "b.csv", header+"x;2024-01-01;1;1\n")

	_, err := ProcessDirectory(context.Background(), dir, &fakeRepo{}, 1)
	if err == nil || !strings.Contains(err.Error(), "b.csv") {
		t.Fatalf("expected error naming b.csv, got %v", err)
	}
}

func TestProcessDirectory_StoreError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", sampleFile(1))

	_, err := ProcessDirectory(context.Background(), dir, &fakeRepo{failOn: 2}, 1)
	if err == nil || !strings.Contains(err.Error(), "duplicate key") {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestProcessDirectory_Canceled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", sampleFile(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ProcessDirectory(ctx, dir, &fakeRepo{}, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
