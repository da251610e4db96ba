package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sourcegraph/conc/pool"

	"github.com/bekirdag/cragbook/internal/catalog"
)

type parseResult struct {
	index int
	path  string
	seed  *catalog.CragSeed
	err   error
}

// importFiles parses the files concurrently and imports them one at a time
// in the order given, since the catalog takes a single writer. Files that do
// not parse are reported and skipped; the returned error joins them.
func importFiles(ctx context.Context, store *catalog.Store, files []string, workers int, log *slog.Logger) (int, error) {
	p := pool.New().WithMaxGoroutines(max(workers, 1))
	resultsChan := make(chan parseResult, len(files))

	for i, path := range files {
		p.Go(func() {
			seed, err := catalog.LoadSeedFile(path)
			resultsChan <- parseResult{index: i, path: path, seed: seed, err: err}
		})
	}

	p.Wait()
	close(resultsChan)

	results := make([]parseResult, len(files))
	for r := range resultsChan {
		results[r.index] = r
	}

	var (
		errs     []error
		imported int
	)
	for _, r := range results {
		if r.err != nil {
			log.Warn("skipping crag file", slog.String("file", r.path), slog.Any("error", r.err))
			errs = append(errs, r.err)
			continue
		}
		id, err := store.Import(ctx, r.seed)
		if err != nil {
			errs = append(errs, fmt.Errorf("import %s: %w", r.path, err))
			continue
		}
		imported++
		log.Info("crag imported",
			slog.String("file", r.path),
			slog.String("crag", r.seed.Slug),
			slog.String("id", id),
			slog.Int("sectors", len(r.seed.Sectors)),
		)
	}
	return imported, errors.Join(errs...)
}
