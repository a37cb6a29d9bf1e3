// Movie Recommendation Model - Catalog Resolution and Enrichment Service
// Copyright 2026 Harshal Gondaliya
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harshalgondaliya/Movie-Recommendation-Model

// Command server runs the movie recommendation service: it loads the
// catalog artifacts, wires the resolution and enrichment pipeline, and
// serves the HTTP API under a supervision tree until interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/api"
	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/catalog"
	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/config"
	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/enrich"
	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/logging"
	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/recommend"
	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/resolve"
	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/supervisor"
	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/tmdb"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config errors happen before the configured logger exists.
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logging.Info().
		Str("movies_path", cfg.Catalog.MoviesPath).
		Int("default_k", cfg.Recommend.DefaultK).
		Int("enrich_workers", cfg.Enrich.Workers).
		Msg("configuration loaded")

	store, err := catalog.Load(cfg.Catalog)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load catalog artifacts")
	}

	resolver := resolve.New(store, resolve.SequenceMatcher{}, cfg.Recommend.FuzzyThreshold, logger)
	client := tmdb.NewClient(cfg.TMDB, logger)
	cache := enrich.NewCache(client, cfg.Enrich.CacheMaxEntries, logger)
	orchestrator := enrich.NewOrchestrator(cache, cfg.Enrich.Workers, logger)
	engine := recommend.NewEngine(store, resolver, orchestrator, cfg.Recommend, logger)

	handler := api.NewHandler(engine, store, cache, logger)
	router := api.NewRouter(handler, cfg.Server)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.Config{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.Add(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("http server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor tree error")
		}
	}

	// Drain remaining supervisor errors until it finishes.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor shutdown error")
		}
	}

	logging.Info().Msg("stopped")
}
