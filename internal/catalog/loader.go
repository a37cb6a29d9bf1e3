// Movie Recommendation Model - Catalog Resolution and Enrichment Service
// Copyright 2026 Harshal Gondaliya
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harshalgondaliya/Movie-Recommendation-Model

package catalog

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/config"
	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/logging"
)

// Load reads the three startup artifacts and assembles the catalog.
// Any missing, unreadable, empty, or shape-mismatched artifact is a
// fatal startup error; the service must not serve requests with a
// corrupt catalog.
func Load(cfg config.CatalogConfig) (*Store, error) {
	var entries []Entry
	if err := readJSONArtifact(cfg.MoviesPath, &entries); err != nil {
		return nil, fmt.Errorf("catalog entries: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog entries: %s holds no entries", cfg.MoviesPath)
	}

	var titles []string
	if err := readJSONArtifact(cfg.TitlesPath, &titles); err != nil {
		return nil, fmt.Errorf("title list: %w", err)
	}

	var similarity [][]float64
	if err := readJSONArtifact(cfg.SimilarityPath, &similarity); err != nil {
		return nil, fmt.Errorf("similarity matrix: %w", err)
	}

	if err := validateShapes(entries, titles, similarity); err != nil {
		return nil, err
	}

	store := newStore(entries, titles, similarity)
	logging.Info().
		Str("component", "catalog").
		Int("entries", store.Len()).
		Msg("catalog loaded")

	return store, nil
}

// readJSONArtifact loads one artifact file into out with clear
// diagnostics for the common failure modes.
func readJSONArtifact(path string, out interface{}) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("artifact %s is not accessible: %w", path, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("artifact %s is empty", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read artifact %s: %w", path, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse artifact %s: %w", path, err)
	}

	return nil
}

// validateShapes checks that the three artifacts agree on catalog size.
func validateShapes(entries []Entry, titles []string, similarity [][]float64) error {
	n := len(entries)

	if len(titles) != n {
		return fmt.Errorf("title list size %d does not match catalog size %d", len(titles), n)
	}

	if len(similarity) != n {
		return fmt.Errorf("similarity matrix has %d rows, catalog has %d entries", len(similarity), n)
	}
	for i, row := range similarity {
		if len(row) != n {
			return fmt.Errorf("similarity row %d has %d columns, catalog has %d entries", i, len(row), n)
		}
	}

	return nil
}
