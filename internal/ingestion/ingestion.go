package ingestion

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/salesreport/internal/logger"
	"github.com/guttosm/salesreport/internal/storage"
)

const (
	filePattern      = "*.csv"
	defaultBatchSize = 5000
	maxParallelFiles = 8
)

// ProcessDirectory loads every *.csv file in dir into the local report store.
//
// Parameters:
//   - dir:      directory containing the export files.
//   - repo:     destination store.
//   - parallel: max files processed at once; <= 0 means min(8, NumCPU).
//
// Behavior:
//   - Files are processed in name order, up to parallel at a time.
//   - Each file is validated strictly (see parseAndPersistFile) and inserted in batches.
//   - If any file fails, the rest are canceled and that error is returned.
//
// Returns:
//   - int: rows inserted across all files.
//   - error: first error encountered (if any).
func ProcessDirectory(ctx context.Context, dir string, repo storage.ReportRowsRepository, parallel int) (int, error) {
	files, err := filepath.Glob(filepath.Join(dir, filePattern))
	if err != nil {
		return 0, fmt.Errorf("list %s: %w", dir, err)
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("no %s files found in %s", filePattern, dir)
	}
	sort.Strings(files)

	maxParallel := maxParallelFiles
	if parallel > 0 {
		maxParallel = min(parallel, maxParallelFiles)
	} else if c := runtime.NumCPU(); c < maxParallel {
		maxParallel = c
	}

	log := logger.FromContext(ctx)
	log.Info().Int("files", len(files)).Str("dir", dir).Int("max_parallel", maxParallel).Msg("ingestion start")

	var inserted atomic.Int64

	// errgroup will cancel siblings on first error.
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, maxParallel)

dispatch:
	for i, file := range files {
		select {
		case sem <- struct{}{}:
		case <-gctx.Done():
			break dispatch
		}

		g.Go(func() error {
			defer func() { <-sem }()
			start := time.Now()
			base := filepath.Base(file)
			log.Info().Int("idx", i+1).Int("total", len(files)).Str("file", base).Msg("file start")

			n, err := parseAndPersistFile(gctx, file, repo, defaultBatchSize)
			inserted.Add(int64(n))
			if err != nil {
				log.Error().Str("file", base).Dur("elapsed", time.Since(start)).Err(err).Msg("file failed")
				return fmt.Errorf("file %s: %w", file, err)
			}
			log.Info().Int("idx", i+1).Int("total", len(files)).Str("file", base).Int("rows", n).Dur("elapsed", time.Since(start)).Msg("file done")
			return nil
		})
	}

	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	total := int(inserted.Load())
	if err != nil {
		return total, err
	}
	log.Info().Int("rows", total).Msg("ingestion done")
	return total, nil
}
