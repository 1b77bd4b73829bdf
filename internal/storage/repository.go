package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"
	"time"

	"github.com/guttosm/salesreport/internal/domain/models"
	pq "github.com/lib/pq"
	goose "github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
)

//go:embed migrations/*.sql
var migrations embed.FS

var migrateMu sync.Mutex

// ReportRowsRepository defines the contract of the local report store.
type ReportRowsRepository interface {
	EnsureSchema(ctx context.Context) error
	RowsByDateRange(ctx context.Context, start, end time.Time) ([]models.BasicReportRow, error)
	AllRows(ctx context.Context) ([]models.BasicReportRow, error)
	InsertRowsBatch(ctx context.Context, rows []models.BasicReportRow) error
}

type reportRowsRepository struct {
	db *sql.DB
}

func NewReportRowsRepository(db *sql.DB) ReportRowsRepository {
	return &reportRowsRepository{db: db}
}

// EnsureSchema applies the embedded goose migrations. Already applied
// versions are skipped.
func (r *reportRowsRepository) EnsureSchema(ctx context.Context) error {
	// goose keeps its base FS and dialect in package globals.
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, r.db, "migrations"); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// RowsByDateRange returns rows with start <= sale_date <= end, oldest first.
func (r *reportRowsRepository) RowsByDateRange(ctx context.Context, start, end time.Time) ([]models.BasicReportRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sale_date, total, salesperson_id
		FROM sales_report_rows
		WHERE sale_date >= $1 AND sale_date <= $2
		ORDER BY sale_date, id`, start, end)
	if err != nil {
		return nil, fmt.Errorf("query rows by date range: %w", err)
	}
	return scanRows(rows)
}

// AllRows returns every locally stored row. It never consults the upstream services.
func (r *reportRowsRepository) AllRows(ctx context.Context) ([]models.BasicReportRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sale_date, total, salesperson_id
		FROM sales_report_rows
		ORDER BY sale_date, id`)
	if err != nil {
		return nil, fmt.Errorf("query all rows: %w", err)
	}
	return scanRows(rows)
}

func scanRows(rows *sql.Rows) ([]models.BasicReportRow, error) {
	defer func() { _ = rows.Close() }()

	out := []models.BasicReportRow{}
	for rows.Next() {
		var (
			row   models.BasicReportRow
			total string
		)
		if err := rows.Scan(&row.ID, &row.SaleDate, &total, &row.SalespersonID); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		d, err := decimal.NewFromString(total)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid total %q: %w", row.ID, total, err)
		}
		row.Total = d
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// InsertRowsBatch bulk-loads rows in a single transaction via COPY.
func (r *reportRowsRepository) InsertRowsBatch(ctx context.Context, rows []models.BasicReportRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	// Small optimization for bulk load
	if _, err := tx.ExecContext(ctx, `SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(
		"sales_report_rows",
		"id",
		"sale_date",
		"total",
		"salesperson_id",
	))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row.ID, row.SaleDate, row.Total.String(), row.SalespersonID); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
