// Movie Recommendation Model - Catalog Resolution and Enrichment Service
// Copyright 2026 Harshal Gondaliya
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harshalgondaliya/Movie-Recommendation-Model

// Package recommend composes resolution, similarity ranking, and
// enrichment into the two pipeline entry points the API exposes:
// query-driven recommendations and genre-only catalog browsing.
package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/catalog"
	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/config"
	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/enrich"
	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/resolve"
	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/tmdb"
)

// ErrNoMatch reports that a genre filter removed every record from an
// otherwise successful recommendation. It is distinct from
// resolve.ErrNotFound, which means the query matched no catalog title.
var ErrNoMatch = errors.New("no recommendations match the genre filter")

// ErrEmptyFilter reports a genre-only browse with no genres selected.
var ErrEmptyFilter = errors.New("genre browse requires at least one genre")

// KnownGenres lists the genre names the catalog's provider uses. The
// presentation layer offers these as filter choices.
var KnownGenres = []string{
	"Action", "Adventure", "Animation", "Comedy", "Crime", "Documentary",
	"Drama", "Family", "Fantasy", "History", "Horror", "Music", "Mystery",
	"Romance", "Science Fiction", "TV Movie", "Thriller", "War", "Western",
}

// Notice kinds surfaced alongside results.
const (
	NoticeFuzzyMatch  = "fuzzy_match"
	NoticeFetchFailed = "fetch_failed"
)

// Notice is an informational or warning message attached to a result,
// such as a fuzzy title substitution or a degraded record.
type Notice struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	MovieID int64  `json:"movie_id,omitempty"`
}

// MovieRecord merges a catalog entry with its enrichment. When the
// enrichment fetch failed, Enriched is false and the embedded record
// carries catalog-seeded placeholder values.
type MovieRecord struct {
	MovieID  int64  `json:"movie_id"`
	Title    string `json:"title"`
	Enriched bool   `json:"enriched"`

	// ShareText is filled by the presentation layer on demand.
	ShareText string `json:"share_text,omitempty"`

	tmdb.Record
}

// Result is an ordered recommendation outcome. Records[0] is always
// the resolved entry; the rest are similarity-ranked neighbors.
type Result struct {
	Query         string        `json:"query,omitempty"`
	ResolvedTitle string        `json:"resolved_title,omitempty"`
	Records       []MovieRecord `json:"records"`
	Notices       []Notice      `json:"notices,omitempty"`
}

// Catalog is the read-only view of the loaded catalog the pipeline
// needs.
type Catalog interface {
	Len() int
	Entry(index int) (catalog.Entry, error)
	Rank(index, k int) ([]int, error)
}

// Resolver maps a free-text query to a catalog index.
type Resolver interface {
	Resolve(query string) (resolve.Match, error)
}

// Enricher performs batch enrichment. Implemented by
// enrich.Orchestrator.
type Enricher interface {
	EnrichAll(ctx context.Context, ids []int64) map[int64]enrich.Result
}

// Engine is the recommendation pipeline.
type Engine struct {
	catalog  Catalog
	resolver Resolver
	enricher Enricher
	defaultK int
	maxK     int
	logger   zerolog.Logger
}

// NewEngine wires the pipeline stages together.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(cat Catalog, resolver Resolver, enricher Enricher, cfg config.RecommendConfig, logger zerolog.Logger) *Engine {
	return &Engine{
		catalog:  cat,
		resolver: resolver,
		enricher: enricher,
		defaultK: cfg.DefaultK,
		maxK:     cfg.MaxK,
		logger:   logger.With().Str("component", "recommend").Logger(),
	}
}

// Recommend resolves query against the catalog and returns the
// resolved entry followed by its top similarity neighbors, each merged
// with enrichment. Provider failures degrade individual records to
// placeholders with a warning notice; they never fail the request.
// A nonempty genres filter keeps only records whose genre set
// intersects it, the resolved entry included; an emptied result
// reports ErrNoMatch.
func (e *Engine) Recommend(ctx context.Context, query string, genres []string) (*Result, error) {
	match, err := e.resolver.Resolve(query)
	if err != nil {
		return nil, err
	}

	resolved, err := e.catalog.Entry(match.Index)
	if err != nil {
		return nil, fmt.Errorf("resolved entry lookup: %w", err)
	}

	neighbors, err := e.catalog.Rank(match.Index, e.defaultK)
	if err != nil {
		return nil, fmt.Errorf("similarity ranking: %w", err)
	}

	entries := make([]catalog.Entry, 0, len(neighbors)+1)
	entries = append(entries, resolved)
	for _, idx := range neighbors {
		entry, err := e.catalog.Entry(idx)
		if err != nil {
			return nil, fmt.Errorf("neighbor lookup: %w", err)
		}
		entries = append(entries, entry)
	}

	ids := make([]int64, len(entries))
	for i, entry := range entries {
		ids[i] = entry.ID
	}
	enriched := e.enricher.EnrichAll(ctx, ids)

	result := &Result{Query: query, ResolvedTitle: resolved.Title}
	if match.Fuzzy {
		result.Notices = append(result.Notices, Notice{
			Kind:    NoticeFuzzyMatch,
			Message: fmt.Sprintf("showing results for %q instead of %q", resolved.Title, query),
		})
		e.logger.Info().
			Str("query", query).
			Str("resolved_title", resolved.Title).
			Float64("score", match.Score).
			Msg("fuzzy title match substituted")
	}

	filter := genreSet(genres)
	for _, entry := range entries {
		rec := e.merge(entry, enriched[entry.ID], result)
		if len(filter) > 0 && !rec.HasGenre(filter) {
			continue
		}
		result.Records = append(result.Records, rec)
	}

	if len(filter) > 0 && len(result.Records) == 0 {
		return nil, ErrNoMatch
	}
	return result, nil
}

// Browse scans the catalog in index order and collects up to k records
// matching the genre filter. The scan enriches in batches and stops as
// soon as k matches are found, so it is a bounded-cost approximation
// rather than an exhaustive best-k.
func (e *Engine) Browse(ctx context.Context, genres []string, k int) (*Result, error) {
	if len(genres) == 0 {
		return nil, ErrEmptyFilter
	}
	k = e.clampK(k)
	filter := genreSet(genres)

	batch := k
	if batch < e.defaultK {
		batch = e.defaultK
	}

	result := &Result{}
	for start := 0; start < e.catalog.Len() && len(result.Records) < k; start += batch {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + batch
		if end > e.catalog.Len() {
			end = e.catalog.Len()
		}

		entries := make([]catalog.Entry, 0, end-start)
		ids := make([]int64, 0, end-start)
		for idx := start; idx < end; idx++ {
			entry, err := e.catalog.Entry(idx)
			if err != nil {
				return nil, fmt.Errorf("catalog scan: %w", err)
			}
			entries = append(entries, entry)
			ids = append(ids, entry.ID)
		}

		enriched := e.enricher.EnrichAll(ctx, ids)
		for _, entry := range entries {
			if len(result.Records) >= k {
				break
			}
			res := enriched[entry.ID]
			if res.Err != nil {
				// An unenriched entry cannot prove genre membership, so
				// the scan skips it rather than degrading to a placeholder.
				result.Notices = append(result.Notices, fetchNotice(entry))
				continue
			}
			if !res.Record.HasGenre(filter) {
				continue
			}
			result.Records = append(result.Records, MovieRecord{
				MovieID:  entry.ID,
				Title:    entry.Title,
				Enriched: true,
				Record:   *res.Record,
			})
		}
	}

	if len(result.Records) == 0 {
		return nil, ErrNoMatch
	}
	return result, nil
}

// merge combines one catalog entry with its enrichment outcome,
// degrading to a placeholder and recording a warning on failure.
func (e *Engine) merge(entry catalog.Entry, res enrich.Result, result *Result) MovieRecord {
	if res.Err != nil {
		result.Notices = append(result.Notices, fetchNotice(entry))
		return MovieRecord{
			MovieID: entry.ID,
			Title:   entry.Title,
			Record:  placeholderRecord(entry),
		}
	}
	return MovieRecord{
		MovieID:  entry.ID,
		Title:    entry.Title,
		Enriched: true,
		Record:   *res.Record,
	}
}

// placeholderRecord seeds an enrichment-absent record from the fields
// the catalog itself carries.
func placeholderRecord(entry catalog.Entry) tmdb.Record {
	overview := entry.Overview
	if overview == "" {
		overview = "No description available"
	}

	rating := tmdb.Rating{}
	if entry.VoteAverage > 0 {
		rating = tmdb.Rating{Value: entry.VoteAverage, Valid: true}
	}

	return tmdb.Record{
		Overview:    overview,
		ReleaseDate: entry.ReleaseDate,
		Rating:      rating,
		Budget:      "Not available",
		Revenue:     "Not available",
		Runtime:     "Not available",
	}
}

func fetchNotice(entry catalog.Entry) Notice {
	return Notice{
		Kind:    NoticeFetchFailed,
		MovieID: entry.ID,
		Message: fmt.Sprintf("details for %q are temporarily unavailable", entry.Title),
	}
}

func genreSet(genres []string) map[string]struct{} {
	if len(genres) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		set[g] = struct{}{}
	}
	return set
}

func (e *Engine) clampK(k int) int {
	if k <= 0 {
		return e.defaultK
	}
	if k > e.maxK {
		return e.maxK
	}
	return k
}
