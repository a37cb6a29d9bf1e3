// Movie Recommendation Model - Catalog Resolution and Enrichment Service
// Copyright 2026 Harshal Gondaliya
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harshalgondaliya/Movie-Recommendation-Model

package enrich

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/logging"
	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/tmdb"
)

func newTestOrchestrator(fetcher Fetcher, workers int) *Orchestrator {
	cache := newTestCache(fetcher, 0)
	return NewOrchestrator(cache, workers, logging.NewTestLogger(io.Discard))
}

func TestEnrichAllReturnsAllRecords(t *testing.T) {
	ff := &fakeFetcher{fn: succeedAlways}
	orch := newTestOrchestrator(ff, 4)

	ids := []int64{10, 20, 30, 40, 50}
	results := orch.EnrichAll(context.Background(), ids)

	if len(results) != len(ids) {
		t.Fatalf("expected %d results, got %d", len(ids), len(results))
	}
	for _, id := range ids {
		res, ok := results[id]
		if !ok {
			t.Fatalf("missing result for id %d", id)
		}
		if res.Err != nil {
			t.Errorf("id %d: unexpected error: %v", id, res.Err)
		}
		if res.Record == nil {
			t.Errorf("id %d: missing record", id)
		}
	}
}

func TestEnrichAllIsolatesFailures(t *testing.T) {
	ff := &fakeFetcher{fn: func(_ context.Context, id int64) (*tmdb.Record, error) {
		if id == 20 {
			return nil, errors.New("upstream error")
		}
		return recordFor(id), nil
	}}
	orch := newTestOrchestrator(ff, 4)

	results := orch.EnrichAll(context.Background(), []int64{10, 20, 30})

	if res := results[20]; !errors.Is(res.Err, ErrFetchFailed) {
		t.Errorf("id 20: expected ErrFetchFailed, got %v", res.Err)
	}
	for _, id := range []int64{10, 30} {
		if res := results[id]; res.Err != nil || res.Record == nil {
			t.Errorf("id %d should be unaffected by the failure, got %+v", id, res)
		}
	}
}

func TestEnrichAllDeduplicatesIdentifiers(t *testing.T) {
	ff := &fakeFetcher{fn: succeedAlways}
	orch := newTestOrchestrator(ff, 4)

	results := orch.EnrichAll(context.Background(), []int64{1, 2, 1, 3, 2, 1})

	if len(results) != 3 {
		t.Fatalf("expected 3 distinct results, got %d", len(results))
	}
	if got := ff.calls.Load(); got != 3 {
		t.Errorf("expected 3 fetches, got %d", got)
	}
}

func TestEnrichAllBoundsConcurrency(t *testing.T) {
	const workers = 2

	var active, peak atomic.Int64
	ff := &fakeFetcher{fn: func(_ context.Context, id int64) (*tmdb.Record, error) {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		active.Add(-1)
		return recordFor(id), nil
	}}
	orch := newTestOrchestrator(ff, workers)

	orch.EnrichAll(context.Background(), []int64{1, 2, 3, 4, 5, 6})

	if p := peak.Load(); p > workers {
		t.Errorf("expected at most %d concurrent fetches, observed %d", workers, p)
	}
}

func TestEnrichAllEmptyInput(t *testing.T) {
	ff := &fakeFetcher{fn: succeedAlways}
	orch := newTestOrchestrator(ff, 4)

	results := orch.EnrichAll(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected no results for empty input, got %d", len(results))
	}
	if got := ff.calls.Load(); got != 0 {
		t.Errorf("expected no fetches, got %d", got)
	}
}
