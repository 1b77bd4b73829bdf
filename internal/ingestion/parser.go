package ingestion

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/guttosm/salesreport/internal/domain/models"
	"github.com/guttosm/salesreport/internal/storage"
)

// expectedHeaders enforces strict column ordering for report row exports.
// If the header doesn't match EXACTLY (order + count), ingestion must fail.
var expectedHeaders = []string{
	"id",
	"sale_date",
	"total",
	"salesperson_id",
}

// parseAndPersistFile opens, validates, parses, and persists one file in batches.
// It fails on:
//   - header not matching expected order/length
//   - a record with the wrong column count or an unparsable value
//   - unrecoverable I/O or store errors
//
// Returns the number of rows already flushed to the store, also on failure.
func parseAndPersistFile(ctx context.Context, path string, repo storage.ReportRowsRepository, batch int) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1 // checked explicitly for better messages
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	if len(header) != len(expectedHeaders) {
		return 0, fmt.Errorf("invalid header length: expected %d, got %d", len(expectedHeaders), len(header))
	}
	for i, h := range header {
		// tolerate a UTF-8 BOM on the first column
		h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		if h != expectedHeaders[i] {
			return 0, fmt.Errorf("invalid header at col %d: expected %q, got %q", i+1, expectedHeaders[i], h)
		}
	}

	buf := make([]models.BasicReportRow, 0, batch)
	lineNumber := 1
	total := 0

	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		if err := repo.InsertRowsBatch(ctx, buf); err != nil {
			return err
		}
		total += len(buf)
		buf = buf[:0]
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return total, fmt.Errorf("read line after %d: %w", lineNumber, err)
		}
		lineNumber++

		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue // blank line
		}
		if len(rec) != len(expectedHeaders) {
			return total, fmt.Errorf("invalid column count on line %d: expected %d got %d", lineNumber, len(expectedHeaders), len(rec))
		}

		row, err := recordToRow(rec)
		if err != nil {
			return total, fmt.Errorf("line %d: %w", lineNumber, err)
		}

		buf = append(buf, row)
		if len(buf) >= batch {
			if err := flush(); err != nil {
				return total, fmt.Errorf("flush batch ending line %d: %w", lineNumber, err)
			}
		}
	}

	if err := flush(); err != nil {
		return total, fmt.Errorf("final flush: %w", err)
	}

	return total, nil
}

// recordToRow converts one validated record into a BasicReportRow.
// Every column is required.
//
//	0 id              → ID (int64, > 0)
//	1 sale_date       → SaleDate (YYYY-MM-DD)
//	2 total           → Total (decimal, comma or dot separator)
//	3 salesperson_id  → SalespersonID (int64)
func recordToRow(rec []string) (models.BasicReportRow, error) {
	var row models.BasicReportRow

	id, err := strconv.ParseInt(strings.TrimSpace(rec[0]), 10, 64)
	if err != nil || id <= 0 {
		return row, fmt.Errorf("invalid id %q", rec[0])
	}
	row.ID = id

	d, err := models.ParseDate(strings.TrimSpace(rec[1]))
	if err != nil {
		return row, fmt.Errorf("invalid sale_date: %w", err)
	}
	row.SaleDate = d

	amount := strings.ReplaceAll(strings.TrimSpace(rec[2]), ",", ".")
	total, err := decimal.NewFromString(amount)
	if err != nil {
		return row, fmt.Errorf("invalid total %q: %w", rec[2], err)
	}
	row.Total = total

	sp, err := strconv.ParseInt(strings.TrimSpace(rec[3]), 10, 64)
	if err != nil {
		return row, fmt.Errorf("invalid salesperson_id %q", rec[3])
	}
	row.SalespersonID = sp

	return row, nil
}
