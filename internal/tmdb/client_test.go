// Movie Recommendation Model - Catalog Resolution and Enrichment Service
// Copyright 2026 Harshal Gondaliya
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harshalgondaliya/Movie-Recommendation-Model

package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/config"
	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/logging"
)

const movieBody = `{
	"poster_path": "/poster.jpg",
	"overview": "A thief who steals corporate secrets.",
	"release_date": "2010-07-16",
	"vote_average": 8.4,
	"budget": 160000000,
	"revenue": 836836967,
	"runtime": 148,
	"genres": [{"id": 28, "name": "Action"}, {"id": 878, "name": "Science Fiction"}]
}`

const creditsBody = `{
	"cast": [
		{"name": "Leonardo DiCaprio", "character": "Cobb", "profile_path": "/leo.jpg"},
		{"name": "Joseph Gordon-Levitt", "character": "Arthur", "profile_path": ""},
		{"name": "Elliot Page", "character": "Ariadne", "profile_path": "/ep.jpg"},
		{"name": "Tom Hardy", "character": "Eames", "profile_path": "/th.jpg"}
	]
}`

const videosBody = `{
	"results": [
		{"key": "teaser1", "site": "YouTube", "type": "Teaser", "official": true},
		{"key": "unofficial1", "site": "YouTube", "type": "Trailer", "official": false},
		{"key": "vimeo1", "site": "Vimeo", "type": "Trailer", "official": true},
		{"key": "official1", "site": "YouTube", "type": "Trailer", "official": true}
	]
}`

// fakeProvider serves the three endpoints for movie id 27205.
func fakeProvider(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/27205", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, movieBody)
	})
	mux.HandleFunc("/movie/27205/credits", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, creditsBody)
	})
	mux.HandleFunc("/movie/27205/videos", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, videosBody)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL string) config.TMDBConfig {
	return config.TMDBConfig{
		BaseURL:        baseURL,
		ImageBaseURL:   "https://img.example",
		SiteBaseURL:    "https://site.example",
		APIKey:         "test-key",
		Timeout:        2 * time.Second,
		MaxAttempts:    3,
		RetryBaseDelay: time.Millisecond,
	}
}

func newTestClient(cfg config.TMDBConfig) *Client {
	return NewClient(cfg, logging.NewTestLogger(io.Discard))
}

func TestFetchAssemblesRecord(t *testing.T) {
	srv := fakeProvider(t)
	c := newTestClient(testConfig(srv.URL))

	rec, err := c.Fetch(context.Background(), 27205)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if rec.PosterURL != "https://img.example/w500/poster.jpg" {
		t.Errorf("poster url = %q", rec.PosterURL)
	}
	if rec.Overview != "A thief who steals corporate secrets." {
		t.Errorf("overview = %q", rec.Overview)
	}
	if rec.ReleaseDate != "2010-07-16" {
		t.Errorf("release date = %q", rec.ReleaseDate)
	}
	if !rec.Rating.Valid || rec.Rating.Value != 8.4 {
		t.Errorf("rating = %+v, want 8.4", rec.Rating)
	}
	if rec.ProviderURL != "https://site.example/movie/27205" {
		t.Errorf("provider url = %q", rec.ProviderURL)
	}
	if rec.Budget != "$160,000,000" {
		t.Errorf("budget = %q", rec.Budget)
	}
	if rec.Revenue != "$836,836,967" {
		t.Errorf("revenue = %q", rec.Revenue)
	}
	if rec.Runtime != "148 minutes" {
		t.Errorf("runtime = %q", rec.Runtime)
	}

	wantGenres := []string{"Action", "Science Fiction"}
	if len(rec.Genres) != len(wantGenres) {
		t.Fatalf("genres = %v, want %v", rec.Genres, wantGenres)
	}
	for i := range wantGenres {
		if rec.Genres[i] != wantGenres[i] {
			t.Errorf("genres[%d] = %q, want %q", i, rec.Genres[i], wantGenres[i])
		}
	}
}

func TestFetchTrailerPrefersOfficial(t *testing.T) {
	srv := fakeProvider(t)
	c := newTestClient(testConfig(srv.URL))

	rec, err := c.Fetch(context.Background(), 27205)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	// "official1" beats the earlier unofficial trailer and the
	// non-YouTube official one.
	if rec.TrailerKey != "official1" {
		t.Errorf("trailer key = %q, want official1", rec.TrailerKey)
	}
}

func TestPickTrailerFallbacks(t *testing.T) {
	tests := []struct {
		name   string
		videos videosResponse
		want   string
	}{
		{"no videos", videosResponse{}, ""},
		{
			"only non-official on expected host",
			videosResponse{Results: []struct {
				Key      string `json:"key"`
				Site     string `json:"site"`
				Type     string `json:"type"`
				Official bool   `json:"official"`
			}{
				{Key: "a", Site: "YouTube", Type: "Trailer", Official: false},
				{Key: "b", Site: "YouTube", Type: "Trailer", Official: false},
			}},
			"a",
		},
		{
			"wrong site and wrong type ignored",
			videosResponse{Results: []struct {
				Key      string `json:"key"`
				Site     string `json:"site"`
				Type     string `json:"type"`
				Official bool   `json:"official"`
			}{
				{Key: "x", Site: "Vimeo", Type: "Trailer", Official: true},
				{Key: "y", Site: "YouTube", Type: "Clip", Official: true},
			}},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pickTrailer(tt.videos); got != tt.want {
				t.Errorf("pickTrailer = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetchMainCastLimitAndPhotos(t *testing.T) {
	srv := fakeProvider(t)
	c := newTestClient(testConfig(srv.URL))

	rec, err := c.Fetch(context.Background(), 27205)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if len(rec.MainCast) != 3 {
		t.Fatalf("main cast size = %d, want 3", len(rec.MainCast))
	}
	if rec.MainCast[0].Name != "Leonardo DiCaprio" || rec.MainCast[0].Character != "Cobb" {
		t.Errorf("main cast[0] = %+v", rec.MainCast[0])
	}
	if rec.MainCast[0].PhotoURL != "https://img.example/w200/leo.jpg" {
		t.Errorf("main cast[0] photo = %q", rec.MainCast[0].PhotoURL)
	}
	// Missing profile path means no photo URL.
	if rec.MainCast[1].PhotoURL != "" {
		t.Errorf("main cast[1] photo = %q, want empty", rec.MainCast[1].PhotoURL)
	}
}

func TestFetchRetriesTransientStatuses(t *testing.T) {
	var movieCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/movie/27205", func(w http.ResponseWriter, r *http.Request) {
		// First call 429, second 503, third succeeds.
		switch movieCalls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusTooManyRequests)
		case 2:
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			fmt.Fprint(w, movieBody)
		}
	})
	mux.HandleFunc("/movie/27205/credits", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, creditsBody)
	})
	mux.HandleFunc("/movie/27205/videos", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, videosBody)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(testConfig(srv.URL))
	rec, err := c.Fetch(context.Background(), 27205)
	if err != nil {
		t.Fatalf("Fetch should succeed after retries: %v", err)
	}
	if rec.Overview == "" {
		t.Error("record not assembled after retries")
	}
	if got := movieCalls.Load(); got != 3 {
		t.Errorf("movie endpoint called %d times, want 3", got)
	}
}

func TestFetchExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(testConfig(srv.URL))
	_, err := c.Fetch(context.Background(), 27205)
	if err == nil {
		t.Fatal("expected fetch to fail after exhausting retries")
	}
	if !errors.Is(err, ErrTransient) {
		t.Errorf("error = %v, want ErrTransient", err)
	}
	// Three endpoints, three attempts each.
	if got := calls.Load(); got != 9 {
		t.Errorf("provider called %d times, want 9", got)
	}
}

func TestFetchDoesNotRetryNotFound(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(testConfig(srv.URL))
	_, err := c.Fetch(context.Background(), 99999)
	if err == nil {
		t.Fatal("expected fetch to fail")
	}
	if !errors.Is(err, ErrPermanent) {
		t.Errorf("error = %v, want ErrPermanent", err)
	}
	// No retries on a permanent status: one call per endpoint.
	if got := calls.Load(); got != 3 {
		t.Errorf("provider called %d times, want 3", got)
	}
}

func TestFetchFailsOnMalformedBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/27205", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "{not json")
	})
	mux.HandleFunc("/movie/27205/credits", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, creditsBody)
	})
	mux.HandleFunc("/movie/27205/videos", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, videosBody)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(testConfig(srv.URL))
	if _, err := c.Fetch(context.Background(), 27205); !errors.Is(err, ErrPermanent) {
		t.Errorf("error = %v, want ErrPermanent for malformed body", err)
	}
}

func TestFetchAllOrNothing(t *testing.T) {
	// Credits endpoint missing: the whole fetch must fail even though
	// metadata and videos succeed.
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/27205", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, movieBody)
	})
	mux.HandleFunc("/movie/27205/videos", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, videosBody)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(testConfig(srv.URL))
	if _, err := c.Fetch(context.Background(), 27205); err == nil {
		t.Fatal("expected all-or-nothing failure when one sub-request fails")
	}
}

func TestFetchSendsCredential(t *testing.T) {
	var sawKey atomic.Bool
	mux := http.NewServeMux()
	handler := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("api_key") == "test-key" {
				sawKey.Store(true)
			}
			fmt.Fprint(w, body)
		}
	}
	mux.HandleFunc("/movie/27205", handler(movieBody))
	mux.HandleFunc("/movie/27205/credits", handler(creditsBody))
	mux.HandleFunc("/movie/27205/videos", handler(videosBody))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(testConfig(srv.URL))
	if _, err := c.Fetch(context.Background(), 27205); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !sawKey.Load() {
		t.Error("api_key credential not sent with requests")
	}
}

func TestFetchHonorsContextCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	c := newTestClient(testConfig(srv.URL))
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := c.Fetch(ctx, 27205)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancellation took %s, want prompt return", elapsed)
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "Not available"},
		{-5, "Not available"},
		{1, "$1"},
		{999, "$999"},
		{1000, "$1,000"},
		{1234567, "$1,234,567"},
		{160000000, "$160,000,000"},
	}

	for _, tt := range tests {
		if got := formatCurrency(tt.amount); got != tt.want {
			t.Errorf("formatCurrency(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatRuntime(t *testing.T) {
	if got := formatRuntime(0); got != "Not available" {
		t.Errorf("formatRuntime(0) = %q", got)
	}
	if got := formatRuntime(148); got != "148 minutes" {
		t.Errorf("formatRuntime(148) = %q", got)
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Breaker = config.BreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		Timeout:          time.Minute,
		MaxRequests:      1,
	}
	c := newTestClient(cfg)

	for i := 0; i < 2; i++ {
		if _, err := c.Fetch(context.Background(), 1); err == nil {
			t.Fatal("expected failure")
		}
	}

	// Breaker now open: fails fast without reaching the provider.
	_, err := c.Fetch(context.Background(), 1)
	if err == nil {
		t.Fatal("expected open-breaker failure")
	}
}
