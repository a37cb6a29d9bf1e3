// Movie Recommendation Model - Catalog Resolution and Enrichment Service
// Copyright 2026 Harshal Gondaliya
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harshalgondaliya/Movie-Recommendation-Model

// Package resolve maps free-text movie queries to catalog indices,
// first by exact lookup and then by fuzzy matching above a similarity
// threshold.
package resolve

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

// ErrNotFound reports that a query does not resolve to any catalog
// entry, even fuzzily.
var ErrNotFound = errors.New("no catalog entry matches the query")

// Match is a successful title resolution.
type Match struct {
	// Index is the resolved catalog index.
	Index int

	// Title is the lowercased catalog title that matched.
	Title string

	// Fuzzy is true when the match was approximate; callers surface the
	// substituted title to the user.
	Fuzzy bool

	// Score is the similarity ratio for fuzzy matches, 1.0 for exact.
	Score float64
}

// Catalog is the subset of the catalog store the resolver reads.
type Catalog interface {
	// LookupTitle returns the index for an exact lowercased title.
	LookupTitle(lowered string) (int, bool)

	// EachTitle iterates entries in catalog insertion order; iteration
	// order determines the fuzzy tie-break (first winner kept).
	EachTitle(fn func(index int, lowered string) bool)
}

// Resolver resolves queries against the catalog's title set.
type Resolver struct {
	catalog   Catalog
	matcher   Matcher
	threshold float64
	logger    zerolog.Logger
}

// New creates a Resolver. A fuzzy match is accepted only when its score
// strictly exceeds threshold.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cat Catalog, matcher Matcher, threshold float64, logger zerolog.Logger) *Resolver {
	if matcher == nil {
		matcher = SequenceMatcher{}
	}
	return &Resolver{
		catalog:   cat,
		matcher:   matcher,
		threshold: threshold,
		logger:    logger.With().Str("component", "resolve").Logger(),
	}
}

// Resolve maps a query to a catalog index. The query is trimmed and
// lowercased; an exact title hit returns immediately. Otherwise every
// indexed title is scored and the best one is accepted only if its
// score strictly exceeds the threshold.
func (r *Resolver) Resolve(query string) (Match, error) {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return Match{}, ErrNotFound
	}

	if idx, ok := r.catalog.LookupTitle(normalized); ok {
		return Match{Index: idx, Title: normalized, Score: 1.0}, nil
	}

	bestIndex := -1
	bestTitle := ""
	bestScore := 0.0

	// Insertion-order scan; a strictly better score is required to take
	// the lead, so the first title with the winning score wins ties.
	r.catalog.EachTitle(func(index int, lowered string) bool {
		if score := r.matcher.Ratio(normalized, lowered); score > bestScore {
			bestIndex, bestTitle, bestScore = index, lowered, score
		}
		return true
	})

	if bestIndex < 0 || bestScore <= r.threshold {
		r.logger.Debug().
			Str("query", normalized).
			Float64("best_score", bestScore).
			Msg("no title above fuzzy threshold")
		return Match{}, ErrNotFound
	}

	r.logger.Info().
		Str("query", normalized).
		Str("matched", bestTitle).
		Float64("score", bestScore).
		Msg("fuzzy title match substituted")

	return Match{Index: bestIndex, Title: bestTitle, Fuzzy: true, Score: bestScore}, nil
}
