// Movie Recommendation Model - Catalog Resolution and Enrichment Service
// Copyright 2026 Harshal Gondaliya
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harshalgondaliya/Movie-Recommendation-Model

// Package catalog holds the read-only movie catalog: entries, the
// lowercased title index, and the precomputed pairwise similarity
// matrix. The catalog is loaded once at startup and never mutated, so
// it is safe for concurrent use without synchronization.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidIndex reports a catalog index outside [0, Len).
// It indicates a programming error in the caller, not bad user input.
var ErrInvalidIndex = errors.New("catalog index out of range")

// Entry is one recommendable catalog item. Immutable after load.
type Entry struct {
	// ID is the provider-side identifier used for enrichment lookups.
	ID int64 `json:"movie_id"`

	Title string `json:"title"`

	// Optional descriptive fields carried by the catalog itself. They
	// seed placeholder records when enrichment is unavailable.
	Overview    string  `json:"overview,omitempty"`
	ReleaseDate string  `json:"release_date,omitempty"`
	VoteAverage float64 `json:"vote_average,omitempty"`

	// Index is the entry's position in the catalog and in every
	// similarity row.
	Index int `json:"-"`
}

// Store is the loaded catalog. All methods are read-only.
type Store struct {
	entries    []Entry
	titles     []string
	titleIndex map[string]int
	similarity [][]float64
}

// newStore assembles a Store from validated artifacts.
// The title index is built from entry titles in catalog order,
// lowercased; later duplicates overwrite earlier ones (last wins).
func newStore(entries []Entry, titles []string, similarity [][]float64) *Store {
	titleIndex := make(map[string]int, len(entries))
	for i := range entries {
		entries[i].Index = i
		titleIndex[strings.ToLower(entries[i].Title)] = i
	}

	return &Store{
		entries:    entries,
		titles:     titles,
		titleIndex: titleIndex,
		similarity: similarity,
	}
}

// Len returns the number of catalog entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Entry returns the entry at the given catalog index.
func (s *Store) Entry(index int) (Entry, error) {
	if index < 0 || index >= len(s.entries) {
		return Entry{}, fmt.Errorf("%w: %d (catalog size %d)", ErrInvalidIndex, index, len(s.entries))
	}
	return s.entries[index], nil
}

// Titles returns the ordered title list loaded at startup. Callers must
// not modify the returned slice.
func (s *Store) Titles() []string {
	return s.titles
}

// LookupTitle returns the catalog index for an exact, lowercased title.
func (s *Store) LookupTitle(lowered string) (int, bool) {
	idx, ok := s.titleIndex[lowered]
	return idx, ok
}

// EachTitle calls fn for every catalog entry in insertion order, with
// the entry's lowercased title. Iteration stops early if fn returns
// false. Insertion order keeps fuzzy matching deterministic.
func (s *Store) EachTitle(fn func(index int, lowered string) bool) {
	for i := range s.entries {
		if !fn(i, strings.ToLower(s.entries[i].Title)) {
			return
		}
	}
}

// Rank returns up to k catalog indices most similar to the entry at
// index, ordered by descending similarity. Ties break by ascending
// index so that ranking is deterministic even with quantized similarity
// values. The first ranked position (the entry itself, highest by
// construction) is dropped.
func (s *Store) Rank(index, k int) ([]int, error) {
	if index < 0 || index >= len(s.entries) {
		return nil, fmt.Errorf("%w: %d (catalog size %d)", ErrInvalidIndex, index, len(s.entries))
	}

	row := s.similarity[index]

	ranked := make([]int, len(row))
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		if row[ranked[a]] != row[ranked[b]] {
			return row[ranked[a]] > row[ranked[b]]
		}
		return ranked[a] < ranked[b]
	})

	// Drop self, keep the next k.
	ranked = ranked[1:]
	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked, nil
}
