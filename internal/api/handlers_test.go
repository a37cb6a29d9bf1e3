// Movie Recommendation Model - Catalog Resolution and Enrichment Service
// Copyright 2026 Harshal Gondaliya
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harshalgondaliya/Movie-Recommendation-Model

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/config"
	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/logging"
	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/models"
	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/recommend"
	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/resolve"
	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/tmdb"
)

type fakeEngine struct {
	result *recommend.Result
	err    error

	gotQuery  string
	gotGenres []string
	gotK      int
}

func (e *fakeEngine) Recommend(_ context.Context, query string, genres []string) (*recommend.Result, error) {
	e.gotQuery = query
	e.gotGenres = genres
	return e.result, e.err
}

func (e *fakeEngine) Browse(_ context.Context, genres []string, k int) (*recommend.Result, error) {
	e.gotGenres = genres
	e.gotK = k
	return e.result, e.err
}

type fakeCatalog struct {
	titles []string
}

func (c *fakeCatalog) Len() int         { return len(c.titles) }
func (c *fakeCatalog) Titles() []string { return c.titles }

type fakeCache struct{ entries int }

func (c *fakeCache) Len() int { return c.entries }

func testRouter(engine Engine) http.Handler {
	handler := NewHandler(engine,
		&fakeCatalog{titles: []string{"Inception", "Interstellar"}},
		&fakeCache{entries: 3},
		logging.NewTestLogger(io.Discard))
	return NewRouter(handler, config.ServerConfig{})
}

func doRequest(t *testing.T, router http.Handler, path string) (*httptest.ResponseRecorder, models.APIResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid json: %v\nbody: %s", err, rec.Body.String())
	}
	return rec, resp
}

func sampleResult() *recommend.Result {
	return &recommend.Result{
		ResolvedTitle: "Inception",
		Records: []recommend.MovieRecord{
			{
				MovieID:  27205,
				Title:    "Inception",
				Enriched: true,
				Record: tmdb.Record{
					Overview:    "A thief who steals corporate secrets.",
					ReleaseDate: "2010-07-16",
					Rating:      tmdb.Rating{Value: 8.4, Valid: true},
				},
			},
		},
	}
}

func TestRecommendationsSuccess(t *testing.T) {
	engine := &fakeEngine{result: sampleResult()}
	router := testRouter(engine)

	rec, resp := doRequest(t, router, "/api/v1/recommendations?query=inception&genres=Action,Drama")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !resp.Success {
		t.Fatalf("expected success envelope, got %+v", resp)
	}
	if engine.gotQuery != "inception" {
		t.Errorf("expected query passed through, got %q", engine.gotQuery)
	}
	if len(engine.gotGenres) != 2 || engine.gotGenres[0] != "Action" || engine.gotGenres[1] != "Drama" {
		t.Errorf("expected parsed genre list, got %v", engine.gotGenres)
	}
	if resp.Meta == nil || resp.Meta.RequestID == "" {
		t.Error("expected a request id in response metadata")
	}
	if got := rec.Header().Get("X-Request-ID"); got == "" {
		t.Error("expected X-Request-ID response header")
	}
}

func TestRecommendationsIncludesShareText(t *testing.T) {
	engine := &fakeEngine{result: sampleResult()}
	router := testRouter(engine)

	rec, _ := doRequest(t, router, "/api/v1/recommendations?query=inception")

	var resp struct {
		Data struct {
			Records []struct {
				ShareText string `json:"share_text"`
			} `json:"records"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data.Records) != 1 || resp.Data.Records[0].ShareText == "" {
		t.Errorf("expected share_text on each record, body: %s", rec.Body.String())
	}
}

func TestRecommendationsRequiresQuery(t *testing.T) {
	router := testRouter(&fakeEngine{})

	rec, resp := doRequest(t, router, "/api/v1/recommendations")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeBadRequest {
		t.Errorf("expected BAD_REQUEST error, got %+v", resp.Error)
	}
}

func TestRecommendationsNotFound(t *testing.T) {
	router := testRouter(&fakeEngine{err: resolve.ErrNotFound})

	rec, resp := doRequest(t, router, "/api/v1/recommendations?query=unknown")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND error, got %+v", resp.Error)
	}
}

func TestRecommendationsNoMatchDistinctFromNotFound(t *testing.T) {
	router := testRouter(&fakeEngine{err: recommend.ErrNoMatch})

	rec, resp := doRequest(t, router, "/api/v1/recommendations?query=inception&genres=Western")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeNoMatch {
		t.Errorf("expected NO_MATCH error, got %+v", resp.Error)
	}
}

func TestBrowseValidation(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing genres", "/api/v1/browse"},
		{"non-integer k", "/api/v1/browse?genres=Action&k=ten"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := testRouter(&fakeEngine{result: sampleResult()})
			rec, resp := doRequest(t, router, tt.path)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if resp.Error == nil || resp.Error.Code != ErrCodeBadRequest {
				t.Errorf("expected BAD_REQUEST, got %+v", resp.Error)
			}
		})
	}
}

func TestBrowsePassesParameters(t *testing.T) {
	engine := &fakeEngine{result: sampleResult()}
	router := testRouter(engine)

	rec, _ := doRequest(t, router, "/api/v1/browse?genres=Horror&k=5")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(engine.gotGenres) != 1 || engine.gotGenres[0] != "Horror" {
		t.Errorf("expected genres [Horror], got %v", engine.gotGenres)
	}
	if engine.gotK != 5 {
		t.Errorf("expected k=5, got %d", engine.gotK)
	}
}

func TestGenresEndpoint(t *testing.T) {
	rec, resp := doRequest(t, testRouter(&fakeEngine{}), "/api/v1/genres")

	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("expected success, got %d", rec.Code)
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected data shape: %T", resp.Data)
	}
	genres, ok := data["genres"].([]interface{})
	if !ok || len(genres) != len(recommend.KnownGenres) {
		t.Errorf("expected %d known genres, got %v", len(recommend.KnownGenres), data["genres"])
	}
}

func TestTitlesEndpoint(t *testing.T) {
	rec, resp := doRequest(t, testRouter(&fakeEngine{}), "/api/v1/titles")

	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("expected success, got %d", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	rec, _ := doRequest(t, testRouter(&fakeEngine{}), "/healthz")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data models.HealthStatus `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Status != "ok" || resp.Data.CatalogSize != 2 || resp.Data.CacheEntries != 3 {
		t.Errorf("unexpected health payload: %+v", resp.Data)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	testRouter(&fakeEngine{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
	}
}

func TestParseGenres(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 0},
		{"Action", 1},
		{"Action,Drama", 2},
		{" Action , , Drama ", 2},
	}
	for _, tt := range tests {
		if got := parseGenres(tt.raw); len(got) != tt.want {
			t.Errorf("parseGenres(%q): expected %d genres, got %v", tt.raw, tt.want, got)
		}
	}
}
