// Movie Recommendation Model - Catalog Resolution and Enrichment Service
// Copyright 2026 Harshal Gondaliya
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harshalgondaliya/Movie-Recommendation-Model

package enrich

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/tmdb"
)

// Result is the per-identifier outcome of a batch enrichment. Exactly
// one of Record and Err is set.
type Result struct {
	Record *tmdb.Record
	Err    error
}

// Orchestrator runs batch enrichment over the shared cache with a
// bounded worker pool, so a candidate set of any size opens at most
// Workers concurrent provider fetches.
type Orchestrator struct {
	cache   *Cache
	workers int
	logger  zerolog.Logger
}

// NewOrchestrator creates a batch enricher. workers bounds concurrent
// fetches; values below 1 are treated as 1.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewOrchestrator(cache *Cache, workers int, logger zerolog.Logger) *Orchestrator {
	if workers < 1 {
		workers = 1
	}
	return &Orchestrator{
		cache:   cache,
		workers: workers,
		logger:  logger.With().Str("component", "enrich").Logger(),
	}
}

// EnrichAll resolves records for every identifier in ids and returns
// one Result per distinct id. A failed fetch is isolated to its own
// entry: the remaining ids still carry their records, and the caller
// decides how to degrade.
func (o *Orchestrator) EnrichAll(ctx context.Context, ids []int64) map[int64]Result {
	results := make(map[int64]Result, len(ids))

	jobs := make(chan int64)
	var mu sync.Mutex
	var wg sync.WaitGroup

	workers := o.workers
	if len(ids) < workers {
		workers = len(ids)
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				rec, err := o.cache.GetOrFetch(ctx, id)
				mu.Lock()
				results[id] = Result{Record: rec, Err: err}
				mu.Unlock()
			}
		}()
	}

	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		jobs <- id
	}
	close(jobs)
	wg.Wait()

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	o.logger.Debug().
		Int("requested", len(ids)).
		Int("distinct", len(results)).
		Int("failed", failed).
		Msg("batch enrichment complete")

	return results
}
