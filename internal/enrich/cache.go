// Movie Recommendation Model - Catalog Resolution and Enrichment Service
// Copyright 2026 Harshal Gondaliya
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harshalgondaliya/Movie-Recommendation-Model

// Package enrich memoizes detail-provider fetches in a process-wide
// cache and fans enrichment out across candidate sets with a bounded
// worker pool.
//
// The cache guarantees a single underlying fetch per cold identifier:
// concurrent callers for the same uncached id coalesce onto one
// in-flight fetch and all observe the same record or the same failure.
// Failures are never stored, so a later request may retry.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/metrics"
	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/tmdb"
)

// ErrFetchFailed reports that an enrichment fetch exhausted its retries
// or hit a non-retryable provider error. Callers recover locally by
// proceeding without the affected entry's enrichment.
var ErrFetchFailed = errors.New("enrichment fetch failed")

// Fetcher retrieves the enrichment record for one movie identifier.
// Implemented by the tmdb client.
type Fetcher interface {
	Fetch(ctx context.Context, id int64) (*tmdb.Record, error)
}

// store is the cache's backing map. Implementations are safe for
// concurrent use.
type store interface {
	Get(id int64) (*tmdb.Record, bool)
	Add(id int64, rec *tmdb.Record)
	Len() int
}

// inflightCall is the shared completion handle for one in-progress
// fetch. Waiters block on done and then read rec/err, which are
// written exactly once before done is closed.
type inflightCall struct {
	done chan struct{}
	rec  *tmdb.Record
	err  error
}

// Cache is the process-wide detail cache. Entries are created on first
// successful fetch and never evicted in the baseline configuration;
// set maxEntries > 0 for a bounded LRU store.
type Cache struct {
	fetcher Fetcher
	store   store
	logger  zerolog.Logger

	// mu guards inflight handle creation only, never the network call,
	// so unrelated fetches are not serialized.
	mu       sync.Mutex
	inflight map[int64]*inflightCall
}

// NewCache creates a detail cache backed by the given fetcher.
// maxEntries bounds the cache; 0 means unbounded.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewCache(fetcher Fetcher, maxEntries int, logger zerolog.Logger) *Cache {
	var s store
	if maxEntries > 0 {
		s = newLRUStore(maxEntries)
	} else {
		s = newMapStore()
	}

	return &Cache{
		fetcher:  fetcher,
		store:    s,
		logger:   logger.With().Str("component", "enrich").Logger(),
		inflight: make(map[int64]*inflightCall),
	}
}

// GetOrFetch returns the cached record for id, or fetches it once.
// A cache hit involves no network access. On a miss, exactly one
// caller performs the fetch; the rest wait on its completion handle.
func (c *Cache) GetOrFetch(ctx context.Context, id int64) (*tmdb.Record, error) {
	if rec, ok := c.store.Get(id); ok {
		metrics.CacheHits.Inc()
		return rec, nil
	}

	c.mu.Lock()

	// A fetch may have finished between the lock-free check and here.
	if rec, ok := c.store.Get(id); ok {
		c.mu.Unlock()
		metrics.CacheHits.Inc()
		return rec, nil
	}

	if call, ok := c.inflight[id]; ok {
		c.mu.Unlock()
		metrics.CacheCoalesced.Inc()
		return c.wait(ctx, call)
	}

	call := &inflightCall{done: make(chan struct{})}
	c.inflight[id] = call
	c.mu.Unlock()

	metrics.CacheMisses.Inc()
	c.doFetch(ctx, id, call)
	return result(call)
}

// doFetch runs the single underlying fetch for id and publishes the
// outcome to every waiter. Only successful records are stored; a
// failed or cancelled fetch must not poison the cache.
func (c *Cache) doFetch(ctx context.Context, id int64, call *inflightCall) {
	rec, err := c.fetcher.Fetch(ctx, id)
	if err != nil {
		call.err = fmt.Errorf("%w: movie %d: %v", ErrFetchFailed, id, err)
		metrics.EnrichFetches.WithLabelValues("failure").Inc()
		c.logger.Warn().
			Int64("movie_id", id).
			AnErr("cause", err).
			Msg("enrichment fetch failed")
	} else {
		call.rec = rec
		c.store.Add(id, rec)
		metrics.EnrichFetches.WithLabelValues("success").Inc()
		metrics.CacheEntries.Set(float64(c.store.Len()))
	}

	c.mu.Lock()
	delete(c.inflight, id)
	c.mu.Unlock()

	close(call.done)
}

// wait blocks until the in-flight fetch completes or the waiter's own
// context is done. Leaving early does not disturb the fetch or the
// other waiters.
func (c *Cache) wait(ctx context.Context, call *inflightCall) (*tmdb.Record, error) {
	select {
	case <-call.done:
		return result(call)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// result reads a completed call's outcome.
func result(call *inflightCall) (*tmdb.Record, error) {
	if call.err != nil {
		return nil, call.err
	}
	return call.rec, nil
}

// Len returns the number of cached records.
func (c *Cache) Len() int {
	return c.store.Len()
}

// mapStore is the baseline unbounded backing store.
type mapStore struct {
	mu      sync.RWMutex
	records map[int64]*tmdb.Record
}

func newMapStore() *mapStore {
	return &mapStore{records: make(map[int64]*tmdb.Record)}
}

func (s *mapStore) Get(id int64) (*tmdb.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	return rec, ok
}

func (s *mapStore) Add(id int64, rec *tmdb.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = rec
}

func (s *mapStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
