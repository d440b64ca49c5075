// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

// Package api provides HTTP routing and handlers using the Chi router.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/nixvy-13/Spot-a-Lyst/internal/models"
	"github.com/nixvy-13/Spot-a-Lyst/internal/stats"
)

// Gateway is the statistics surface the handlers talk to. Satisfied by
// *stats.Gateway; narrowed to an interface so handler tests can swap a
// fake in.
type Gateway interface {
	TopTracks(ctx context.Context, id stats.Identity, timeRange models.TimeRange, limit int, force bool) ([]models.Track, bool, error)
	TopArtists(ctx context.Context, id stats.Identity, timeRange models.TimeRange, limit int, force bool) ([]models.Artist, bool, error)
	RecentlyPlayed(ctx context.Context, id stats.Identity, limit int, force bool) ([]models.Track, bool, error)
	ListeningTime(ctx context.Context, id stats.Identity, windowDays int, force bool) ([]models.ListeningTimePoint, error)
	Recommendations(ctx context.Context, id stats.Identity, force bool) (*models.Recommendations, bool, error)
	Playlists(ctx context.Context, id stats.Identity, force bool) ([]models.Playlist, bool, error)
	PlaylistTracks(ctx context.Context, id stats.Identity, playlistID string, force bool) ([]models.Track, bool, error)
	RefreshAll(ctx context.Context, id stats.Identity) (*stats.RefreshResult, error)
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, health endpoint
//   - handlers_helpers.go: response envelope and query parsing helpers
//   - handlers_stats.go: top tracks/artists, recently played, listening time, refresh
//   - handlers_library.go: recommendations, playlists
type Handler struct {
	gateway   Gateway
	startTime time.Time
}

// NewHandler creates a new API handler over the statistics gateway.
func NewHandler(gateway Gateway) *Handler {
	return &Handler{
		gateway:   gateway,
		startTime: time.Now(),
	}
}

// Health reports service liveness and uptime. Unauthenticated.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"status":         "healthy",
			"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
