// Movie Recommendation Model - Catalog Resolution and Enrichment Service
// Copyright 2026 Harshal Gondaliya
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harshalgondaliya/Movie-Recommendation-Model

// Package tmdb is the client for the external detail provider. For a
// given movie identifier it issues three independent reads (metadata,
// credits, videos), each with bounded retries and a per-request
// timeout, and assembles the results into an enrichment Record.
// Partial records are never produced: if any of the three reads fails
// after exhausting retries, the whole fetch fails.
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/config"
	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/metrics"
)

// trailerSite is the video host expected for trailer selection.
const trailerSite = "YouTube"

const notAvailable = "Not available"

// ErrTransient marks failures worth retrying: rate limiting, server
// errors, and request timeouts.
var ErrTransient = errors.New("transient provider error")

// ErrPermanent marks failures that must not be retried: client errors
// such as an unknown identifier, and malformed response bodies.
var ErrPermanent = errors.New("permanent provider error")

// Client talks to the detail provider. Safe for concurrent use.
type Client struct {
	cfg        config.TMDBConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[*movieDetails]
	logger     zerolog.Logger
}

// movieDetails carries the three decoded provider responses through the
// circuit breaker.
type movieDetails struct {
	movie   movieResponse
	credits creditsResponse
	videos  videosResponse
}

// NewClient creates a provider client.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewClient(cfg config.TMDBConfig, logger zerolog.Logger) *Client {
	c := &Client{
		cfg: cfg,
		httpClient: &http.Client{
			// Individual requests carry their own context timeout; this
			// is a hard upper bound against leaked connections.
			Timeout: cfg.Timeout + cfg.Timeout/2,
		},
		logger: logger.With().Str("component", "tmdb").Logger(),
	}

	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	if cfg.Breaker.Enabled {
		c.breaker = gobreaker.NewCircuitBreaker[*movieDetails](gobreaker.Settings{
			Name:        "tmdb",
			MaxRequests: cfg.Breaker.MaxRequests,
			Timeout:     cfg.Breaker.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= cfg.Breaker.FailureThreshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				metrics.BreakerState.Set(float64(to))
				c.logger.Warn().
					Str("breaker", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("circuit breaker state change")
			},
		})
	}

	return c
}

// Fetch retrieves and assembles the full enrichment record for one
// movie identifier. The three provider reads run concurrently and the
// fetch fails if any of them fails.
func (c *Client) Fetch(ctx context.Context, id int64) (*Record, error) {
	fetch := func() (*movieDetails, error) {
		return c.fetchDetails(ctx, id)
	}

	var details *movieDetails
	var err error
	if c.breaker != nil {
		details, err = c.breaker.Execute(fetch)
	} else {
		details, err = fetch()
	}
	if err != nil {
		return nil, err
	}

	return c.assemble(id, details), nil
}

// fetchDetails issues the three provider reads concurrently and waits
// for all of them.
func (c *Client) fetchDetails(ctx context.Context, id int64) (*movieDetails, error) {
	details := &movieDetails{}

	requests := []struct {
		name  string
		query url.Values
		out   interface{}
	}{
		{"movie", url.Values{"language": {"en-US"}}, &details.movie},
		{"credits", nil, &details.credits},
		{"videos", url.Values{"language": {"en-US"}}, &details.videos},
	}

	errs := make([]error, len(requests))
	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		go func(idx int, name string, query url.Values, out interface{}) {
			defer wg.Done()
			errs[idx] = c.getJSON(ctx, endpointPath(id, name), name, query, out)
		}(i, req.name, req.query, req.out)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%s request for movie %d: %w", requests[i].name, id, err)
		}
	}

	return details, nil
}

// endpointPath builds the provider path for one of the three reads.
func endpointPath(id int64, name string) string {
	base := "/movie/" + strconv.FormatInt(id, 10)
	if name == "movie" {
		return base
	}
	return base + "/" + name
}

// getJSON executes one provider request with retries. Only rate-limit
// (429) and server-side (5xx) statuses are retried, with exponential
// backoff seeded at the configured base delay; request timeouts count
// as failed attempts under the same policy. Other failures return
// immediately as permanent.
func (c *Client) getJSON(ctx context.Context, path, endpoint string, query url.Values, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt < c.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			metrics.ProviderRetries.WithLabelValues(endpoint).Inc()
			if err := c.sleepBackoff(ctx, attempt, lastErr); err != nil {
				return err
			}
		}

		retryable, err := c.doAttempt(ctx, path, endpoint, query, out)
		if err == nil {
			return nil
		}
		if !retryable {
			metrics.ProviderErrors.WithLabelValues(endpoint, "permanent").Inc()
			return err
		}
		lastErr = err
	}

	metrics.ProviderErrors.WithLabelValues(endpoint, "exhausted").Inc()
	return fmt.Errorf("%w: %d attempts exhausted: %v", ErrTransient, c.cfg.MaxAttempts, lastErr)
}

// doAttempt executes a single request attempt. The boolean reports
// whether the failure is transient and worth another attempt.
func (c *Client) doAttempt(ctx context.Context, path, endpoint string, query url.Values, out interface{}) (retryable bool, err error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	reqURL := c.cfg.BaseURL + path
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return false, fmt.Errorf("%w: create request: %v", ErrPermanent, err)
	}

	q := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("api_key", c.cfg.APIKey)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ProviderRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		// The caller gave up; do not burn further attempts.
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		// Timeouts and transport errors count as failed attempts.
		return true, fmt.Errorf("%w: execute request: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, fmt.Errorf("%w: decode response: %v", ErrPermanent, err)
		}
		return false, nil
	case isRetryableStatus(resp.StatusCode):
		return true, fmt.Errorf("%w: provider returned status %d", ErrTransient, resp.StatusCode)
	default:
		return false, fmt.Errorf("%w: provider returned status %d", ErrPermanent, resp.StatusCode)
	}
}

// isRetryableStatus reports whether a response status belongs to the
// transient class: rate limiting and server-side errors.
func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// sleepBackoff waits before retry number attempt, honoring context
// cancellation. Delay doubles per attempt from the configured base.
func (c *Client) sleepBackoff(ctx context.Context, attempt int, lastErr error) error {
	delay := c.cfg.RetryBaseDelay * (1 << (attempt - 1)) // base, 2*base, 4*base, ...

	c.logger.Warn().
		Dur("retry_delay", delay).
		Int("attempt", attempt+1).
		Int("max_attempts", c.cfg.MaxAttempts).
		AnErr("cause", lastErr).
		Msg("retrying provider request")

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// assemble applies the record assembly rules to the three decoded
// provider responses.
func (c *Client) assemble(id int64, d *movieDetails) *Record {
	rec := &Record{
		Overview:    d.movie.Overview,
		ReleaseDate: d.movie.ReleaseDate,
		ProviderURL: fmt.Sprintf("%s/movie/%d", c.cfg.SiteBaseURL, id),
		Budget:      formatCurrency(d.movie.Budget),
		Revenue:     formatCurrency(d.movie.Revenue),
		Runtime:     formatRuntime(d.movie.Runtime),
		TrailerKey:  pickTrailer(d.videos),
	}

	if d.movie.PosterPath != "" {
		rec.PosterURL = c.cfg.ImageBaseURL + "/w500" + d.movie.PosterPath
	}
	if d.movie.VoteAverage != nil {
		rec.Rating = Rating{Value: *d.movie.VoteAverage, Valid: true}
	}

	rec.Genres = make([]string, 0, len(d.movie.Genres))
	for _, g := range d.movie.Genres {
		rec.Genres = append(rec.Genres, g.Name)
	}

	rec.MainCast = make([]CastMember, 0, 3)
	for _, actor := range d.credits.Cast {
		if len(rec.MainCast) == 3 {
			break
		}
		member := CastMember{Name: actor.Name, Character: actor.Character}
		if actor.ProfilePath != "" {
			member.PhotoURL = c.cfg.ImageBaseURL + "/w200" + actor.ProfilePath
		}
		rec.MainCast = append(rec.MainCast, member)
	}

	return rec
}

// pickTrailer selects the trailer key from the videos list: the first
// official trailer on the expected host wins; failing that, the first
// non-official one; otherwise no trailer.
func pickTrailer(videos videosResponse) string {
	fallback := ""
	for _, v := range videos.Results {
		if v.Type != "Trailer" || v.Site != trailerSite {
			continue
		}
		if v.Official {
			return v.Key
		}
		if fallback == "" {
			fallback = v.Key
		}
	}
	return fallback
}

// formatCurrency renders a provider amount as a thousands-grouped
// dollar string, or "Not available" when the value is not positive.
func formatCurrency(amount int64) string {
	if amount <= 0 {
		return notAvailable
	}

	digits := strconv.FormatInt(amount, 10)
	var grouped []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, d)
	}
	return "$" + string(grouped)
}

// formatRuntime renders a runtime in minutes, or "Not available" when
// the provider reports none.
func formatRuntime(minutes int) string {
	if minutes <= 0 {
		return notAvailable
	}
	return fmt.Sprintf("%d minutes", minutes)
}
