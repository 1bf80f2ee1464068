// MovieRec - Movie Recommendation Service
// Copyright 2026 Le Q. Khai (LeQKhai)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeQKhai/MovieRec

// Command server runs the movie recommendation HTTP service. It loads the
// MovieLens dataset, trains the recommendation engine, and serves the API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LeQKhai/MovieRec/internal/api"
	"github.com/LeQKhai/MovieRec/internal/catalog"
	"github.com/LeQKhai/MovieRec/internal/config"
	"github.com/LeQKhai/MovieRec/internal/dataset"
	"github.com/LeQKhai/MovieRec/internal/logging"
	"github.com/LeQKhai/MovieRec/internal/recommend"
	"github.com/LeQKhai/MovieRec/internal/recommend/algorithms"
	"github.com/LeQKhai/MovieRec/internal/tags"
	"github.com/LeQKhai/MovieRec/internal/tmdb"
	"github.com/LeQKhai/MovieRec/internal/vectorize"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("data_dir", cfg.Data.Dir).
		Bool("tmdb_enabled", cfg.TMDB.APIKey != "").
		Msg("Starting MovieRec")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	// Fetch the dataset archive when the data directory is missing.
	if cfg.Data.DownloadURL != "" {
		if err := dataset.EnsureData(ctx, cfg.Data.Dir, cfg.Data.DownloadURL); err != nil {
			return fmt.Errorf("ensure dataset: %w", err)
		}
	}

	loadStart := time.Now()
	tables, err := dataset.Load(cfg.Data.Dir)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	snap := catalog.Build(tables)
	logging.Info().
		Int("movies", snap.Len()).
		Int("ratings", len(snap.Ratings())).
		Dur("duration", time.Since(loadStart)).
		Msg("Catalog loaded")

	fitStart := time.Now()
	model := vectorize.Fit(snap.TagTexts())
	logging.Info().
		Int("vocabulary", model.Dim()).
		Dur("duration", time.Since(fitStart)).
		Msg("Tag vector space fitted")

	logger := logging.Logger()

	engine, err := recommend.NewEngine(
		&recommend.Config{TopK: cfg.Recommend.TopK},
		algorithms.NewCollaborative(algorithms.CollaborativeConfig{
			LikeThreshold:      cfg.Recommend.LikeThreshold,
			MinSimilarFraction: cfg.Recommend.MinSimilarFraction,
		}),
		algorithms.NewContent(),
		logger,
	)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	if err := engine.Train(ctx, snap, model); err != nil {
		return fmt.Errorf("train engine: %w", err)
	}

	matcher := tags.NewMatcher(snap, cfg.Tags.Synonyms, logger)
	posters := tmdb.NewClient(tmdb.Config{
		APIKey:  cfg.TMDB.APIKey,
		BaseURL: cfg.TMDB.BaseURL,
		Timeout: cfg.TMDB.Timeout,
	}, logger)

	router := api.NewRouter(
		api.NewHandler(snap, engine, matcher, posters, cfg.Tags.MinCount),
		api.RouterConfig{
			CORSOrigins:       cfg.Server.CORSOrigins,
			RateLimitRequests: cfg.Server.RateLimitRequests,
			RateLimitWindow:   cfg.Server.RateLimitWindow,
		},
	)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logging.Info().Msg("Server stopped")
	return nil
}
