// Movie Recommendation Model - Catalog Resolution and Enrichment Service
// Copyright 2026 Harshal Gondaliya
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harshalgondaliya/Movie-Recommendation-Model

package tmdb

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Record is the assembled enrichment for one catalog entry. Immutable
// once cached.
type Record struct {
	// PosterURL is present only when the provider carries a poster path.
	PosterURL string `json:"poster_url,omitempty"`

	Overview    string `json:"overview"`
	ReleaseDate string `json:"release_date"`
	Rating      Rating `json:"rating"`

	// ProviderURL links to the provider's public page for the entry.
	ProviderURL string `json:"provider_url"`

	// TrailerKey identifies the selected video on the expected host;
	// absent when no suitable trailer exists.
	TrailerKey string `json:"trailer_key,omitempty"`

	// Budget and Revenue are thousands-grouped currency strings, or
	// "Not available" when the provider value is zero.
	Budget  string `json:"budget"`
	Revenue string `json:"revenue"`

	// Runtime is "<minutes> minutes", or "Not available" when zero.
	Runtime string `json:"runtime"`

	// Genres holds provider-order genre names; empty when absent.
	Genres []string `json:"genres"`

	// MainCast holds the first three credited cast members in
	// provider-returned order.
	MainCast []CastMember `json:"main_cast"`
}

// CastMember is one credited actor.
type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character"`

	// PhotoURL is present only when the provider supplied a profile
	// image path.
	PhotoURL string `json:"photo_url,omitempty"`
}

// HasGenre reports whether the record carries any of the given genres.
func (r *Record) HasGenre(genres map[string]struct{}) bool {
	for _, g := range r.Genres {
		if _, ok := genres[g]; ok {
			return true
		}
	}
	return false
}

// Rating is a provider vote average that may be unavailable. It
// marshals as a JSON number, or as the literal string "N/A" when the
// provider did not supply one.
type Rating struct {
	Value float64
	Valid bool
}

// MarshalJSON implements json.Marshaler.
func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte(`"N/A"`), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON implements json.Unmarshaler, accepting either a number
// or the "N/A" marker.
func (r *Rating) UnmarshalJSON(data []byte) error {
	if string(data) == `"N/A"` || string(data) == "null" {
		*r = Rating{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("rating must be a number or \"N/A\": %w", err)
	}
	*r = Rating{Value: v, Valid: true}
	return nil
}

// Provider wire formats. Only the fields the assembly rules read are
// decoded.

type movieResponse struct {
	PosterPath  string  `json:"poster_path"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage *float64 `json:"vote_average"`
	Budget      int64   `json:"budget"`
	Revenue     int64   `json:"revenue"`
	Runtime     int     `json:"runtime"`
	Genres      []struct {
		Name string `json:"name"`
	} `json:"genres"`
}

type creditsResponse struct {
	Cast []struct {
		Name        string `json:"name"`
		Character   string `json:"character"`
		ProfilePath string `json:"profile_path"`
	} `json:"cast"`
}

type videosResponse struct {
	Results []struct {
		Key      string `json:"key"`
		Site     string `json:"site"`
		Type     string `json:"type"`
		Official bool   `json:"official"`
	} `json:"results"`
}
