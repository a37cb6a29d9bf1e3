// Movie Recommendation Model - Catalog Resolution and Enrichment Service
// Copyright 2026 Harshal Gondaliya
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harshalgondaliya/Movie-Recommendation-Model

package recommend

import (
	"fmt"
	"strconv"
)

// shareOverviewLimit caps the overview excerpt in share text.
const shareOverviewLimit = 100

// ShareText renders a record as a short plain-text blurb suitable for
// social sharing: title, release year, rating, and a truncated
// overview.
func ShareText(rec *MovieRecord) string {
	title := rec.Title
	if title == "" {
		title = "Unknown Movie"
	}

	year := "N/A"
	if len(rec.ReleaseDate) >= 4 {
		year = rec.ReleaseDate[:4]
	}

	rating := "N/A"
	if rec.Rating.Valid {
		rating = strconv.FormatFloat(rec.Rating.Value, 'f', -1, 64)
	}

	overview := rec.Overview
	if overview == "" {
		overview = "No description available"
	}
	overview = truncate(overview, shareOverviewLimit)

	return fmt.Sprintf("%s (%s) | Rating: %s/10\n\n%s\n\n#MovieRecommendation #Film",
		title, year, rating, overview)
}

// truncate shortens s to limit runes with an ellipsis marker.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
