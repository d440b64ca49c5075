// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

// Package main is the entry point for the Spot-a-Lyst server.
//
// Spot-a-Lyst is a personal Spotify analytics service: it caches the
// user's top tracks, top artists and play history in a local key/value
// store, accumulates a per-day listening-time ledger across fetches, and
// generates AI-backed taste analysis and recommendations.
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered load (defaults < config.yaml < env)
//  2. Logging: zerolog, configured from LOG_LEVEL / LOG_FORMAT
//  3. Store: BadgerDB key/value store (in-memory when BADGER_PATH is empty)
//  4. Spotify client: rate-limited HTTP client behind a circuit breaker
//  5. AI client: Gemini text generation for taste insights
//  6. HTTP server: chi REST API with Prometheus metrics and JWT sessions
//
// A .env file in the working directory is loaded before anything else,
// for development convenience.
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting connections and waits for in-flight requests up to the
// configured shutdown timeout.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/nixvy-13/Spot-a-Lyst/internal/ai"
	"github.com/nixvy-13/Spot-a-Lyst/internal/api"
	"github.com/nixvy-13/Spot-a-Lyst/internal/auth"
	"github.com/nixvy-13/Spot-a-Lyst/internal/config"
	"github.com/nixvy-13/Spot-a-Lyst/internal/logging"
	"github.com/nixvy-13/Spot-a-Lyst/internal/spotify"
	"github.com/nixvy-13/Spot-a-Lyst/internal/stats"
	"github.com/nixvy-13/Spot-a-Lyst/internal/store"
)

func main() {
	// .env is optional; absence is not an error.
	_ = godotenv.Load()

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
		Str("store_path", cfg.Store.Path).
		Str("spotify_base_url", cfg.Spotify.BaseURL).
		Str("ai_model", cfg.AI.Model).
		Msg("Configuration loaded")

	kv, err := store.OpenBadger(cfg.Store.Path)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := kv.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	// Circuit breaker shields the API from hammering Spotify while it
	// is rate limiting or down.
	spotifyClient := spotify.NewCircuitBreakerClient(
		spotify.NewClient(cfg.Spotify.BaseURL, cfg.Spotify.Timeout, cfg.Spotify.SearchRPS),
	)

	generator := ai.NewGeminiClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Timeout)

	gateway := stats.NewGateway(kv, spotifyClient, generator, stats.Options{
		StatsTTL:           cfg.Stats.StatsTTL,
		RecommendationsTTL: cfg.Stats.RecommendationsTTL,
		DedupePlays:        cfg.Stats.DedupePlays,
		RefreshConcurrency: cfg.Stats.RefreshConcurrency,
	})

	jwtManager, err := auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.SessionTimeout)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize session manager")
	}

	router := api.NewRouter(api.NewHandler(gateway), jwtManager, api.RouterConfig{
		CORSOrigins:     cfg.Server.CORSOrigins,
		RateLimitReqs:   cfg.Server.RateLimitReqs,
		RateLimitWindow: cfg.Server.RateLimitWindow,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	} else {
		logging.Info().Msg("Server stopped")
	}
}
