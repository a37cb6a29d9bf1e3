// Movie Recommendation Model - Catalog Resolution and Enrichment Service
// Copyright 2026 Harshal Gondaliya
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harshalgondaliya/Movie-Recommendation-Model

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/models"
	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/recommend"
	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/resolve"
)

// Engine is the pipeline surface the handlers depend on.
type Engine interface {
	Recommend(ctx context.Context, query string, genres []string) (*recommend.Result, error)
	Browse(ctx context.Context, genres []string, k int) (*recommend.Result, error)
}

// Catalog exposes the read-only catalog facts the handlers serve
// directly.
type Catalog interface {
	Len() int
	Titles() []string
}

// CacheStats reports the detail cache size for the health endpoint.
type CacheStats interface {
	Len() int
}

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	engine  Engine
	catalog Catalog
	cache   CacheStats
	logger  zerolog.Logger
}

// NewHandler creates the handler set.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHandler(engine Engine, catalog Catalog, cache CacheStats, logger zerolog.Logger) *Handler {
	return &Handler{
		engine:  engine,
		catalog: catalog,
		cache:   cache,
		logger:  logger.With().Str("component", "api").Logger(),
	}
}

// Recommendations handles GET /api/v1/recommendations.
// Query parameters: query (required), genres (optional CSV).
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		rw.BadRequest("query parameter is required")
		return
	}
	genres := parseGenres(r.URL.Query().Get("genres"))

	result, err := h.engine.Recommend(r.Context(), query, genres)
	if err != nil {
		h.respondPipelineError(rw, err)
		return
	}

	attachShareText(result)
	rw.Success(result)
}

// Browse handles GET /api/v1/browse: genre-only catalog scanning.
// Query parameters: genres (required CSV), k (optional).
func (h *Handler) Browse(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	genres := parseGenres(r.URL.Query().Get("genres"))
	if len(genres) == 0 {
		rw.BadRequest("genres parameter is required")
		return
	}

	k := 0
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			rw.BadRequest("k must be an integer")
			return
		}
		k = parsed
	}

	result, err := h.engine.Browse(r.Context(), genres, k)
	if err != nil {
		h.respondPipelineError(rw, err)
		return
	}

	attachShareText(result)
	rw.Success(result)
}

// Genres handles GET /api/v1/genres: the known genre names offered as
// filter choices.
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"genres": recommend.KnownGenres,
	})
}

// Titles handles GET /api/v1/titles: the full catalog title list, used
// by the presentation layer for input suggestions.
func (h *Handler) Titles(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"titles": h.catalog.Titles(),
	})
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(models.HealthStatus{
		Status:       "ok",
		CatalogSize:  h.catalog.Len(),
		CacheEntries: h.cache.Len(),
	})
}

// respondPipelineError maps pipeline errors to HTTP responses.
func (h *Handler) respondPipelineError(rw *ResponseWriter, err error) {
	switch {
	case errors.Is(err, resolve.ErrNotFound):
		rw.NotFound(ErrCodeNotFound, "no catalog entry matches the query")
	case errors.Is(err, recommend.ErrNoMatch):
		rw.NotFound(ErrCodeNoMatch, "no recommendations match the genre filter")
	case errors.Is(err, recommend.ErrEmptyFilter):
		rw.BadRequest("at least one genre is required")
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to write.
	default:
		h.logger.Error().Err(err).Msg("recommendation pipeline failed")
		rw.InternalError("recommendation pipeline failed")
	}
}

// attachShareText decorates each record with its share blurb.
func attachShareText(result *recommend.Result) {
	for i := range result.Records {
		result.Records[i].ShareText = recommend.ShareText(&result.Records[i])
	}
}

// parseGenres splits a CSV genre list, dropping empty items.
func parseGenres(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		if g := strings.TrimSpace(p); g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}
