// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nixvy-13/Spot-a-Lyst/internal/auth"
	"github.com/nixvy-13/Spot-a-Lyst/internal/middleware"
)

// RouterConfig tunes the HTTP surface.
type RouterConfig struct {
	CORSOrigins     []string
	RateLimitReqs   int
	RateLimitWindow time.Duration
}

// Router wires handlers, middleware and auth into a chi router.
type Router struct {
	handler    *Handler
	jwtManager *auth.JWTManager
	config     RouterConfig
}

// NewRouter creates a Router.
func NewRouter(handler *Handler, jwtManager *auth.JWTManager, config RouterConfig) *Router {
	if config.RateLimitReqs <= 0 {
		config.RateLimitReqs = 100
	}
	if config.RateLimitWindow <= 0 {
		config.RateLimitWindow = time.Minute
	}
	return &Router{
		handler:    handler,
		jwtManager: jwtManager,
		config:     config,
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)    // X-Request-ID header plus logging context
	r.Use(chimiddleware.RealIP)    // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer) // Recover from panics
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   router.config.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// ========================
	// Health and Metrics
	// ========================
	// Permissive rate limit so monitoring can poll freely.
	r.With(httprate.LimitByIP(1000, time.Minute)).
		Get("/api/v1/health", router.handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// Statistics API
	// ========================
	// All data endpoints require a valid session token.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(router.config.RateLimitReqs, router.config.RateLimitWindow))
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.Compression)
		r.Use(auth.Middleware(router.jwtManager))

		r.Get("/stats/top-tracks", router.handler.TopTracks)
		r.Get("/stats/top-artists", router.handler.TopArtists)
		r.Get("/stats/recently-played", router.handler.RecentlyPlayed)
		r.Get("/stats/listening-time", router.handler.ListeningTime)
		r.Post("/stats/refresh", router.handler.Refresh)

		r.Get("/recommendations", router.handler.Recommendations)

		r.Get("/playlists", router.handler.Playlists)
		r.Get("/playlists/{playlistID}/tracks", router.handler.PlaylistTracks)
	})

	return r
}
