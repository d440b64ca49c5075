// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

package api

import (
	"net/http"
	"time"

	"github.com/nixvy-13/Spot-a-Lyst/internal/logging"
	"github.com/nixvy-13/Spot-a-Lyst/internal/models"
)

// Per-resource defaults for the limit query parameter.
const (
	defaultTopLimit    = 10
	defaultRecentLimit = 20
	defaultDaysWindow  = 30
)

// statsQuery holds the validated query parameters shared by the stats
// endpoints. time_range is not validated here: invalid values normalize
// to medium_term instead of failing the request.
type statsQuery struct {
	Limit int `validate:"min=1,max=50"`
	Days  int `validate:"min=1"`
}

// TopTracks handles GET /api/v1/stats/top-tracks.
func (h *Handler) TopTracks(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required", nil)
		return
	}

	q := statsQuery{Limit: getIntParam(r, "limit", defaultTopLimit), Days: defaultDaysWindow}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}
	timeRange := models.NormalizeTimeRange(r.URL.Query().Get("time_range"))

	tracks, cached, err := h.gateway.TopTracks(r.Context(), id, timeRange, q.Limit, forceParam(r, "force"))
	if err != nil {
		respondForError(w, err)
		return
	}

	respondData(w, tracks, cached)
}

// TopArtists handles GET /api/v1/stats/top-artists.
func (h *Handler) TopArtists(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required", nil)
		return
	}

	q := statsQuery{Limit: getIntParam(r, "limit", defaultTopLimit), Days: defaultDaysWindow}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}
	timeRange := models.NormalizeTimeRange(r.URL.Query().Get("time_range"))

	artists, cached, err := h.gateway.TopArtists(r.Context(), id, timeRange, q.Limit, forceParam(r, "force"))
	if err != nil {
		respondForError(w, err)
		return
	}

	respondData(w, artists, cached)
}

// RecentlyPlayed handles GET /api/v1/stats/recently-played. Repeated
// plays of one track come back as a single entry with a play count.
func (h *Handler) RecentlyPlayed(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required", nil)
		return
	}

	q := statsQuery{Limit: getIntParam(r, "limit", defaultRecentLimit), Days: defaultDaysWindow}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	tracks, cached, err := h.gateway.RecentlyPlayed(r.Context(), id, q.Limit, forceParam(r, "force"))
	if err != nil {
		respondForError(w, err)
		return
	}

	respondData(w, tracks, cached)
}

// ListeningTime handles GET /api/v1/stats/listening-time. Every call
// merges the newest play history into the persisted ledger before
// returning the windowed daily series, so the response is never a pure
// cache read.
func (h *Handler) ListeningTime(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required", nil)
		return
	}

	q := statsQuery{Limit: defaultRecentLimit, Days: getIntParam(r, "days", defaultDaysWindow)}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	series, err := h.gateway.ListeningTime(r.Context(), id, q.Days, forceParam(r, "force"))
	if err != nil {
		respondForError(w, err)
		return
	}

	respondData(w, series, false)
}

// Refresh handles POST /api/v1/stats/refresh: re-fetch every cached
// variant with force semantics, then sweep the user's stale keys while
// preserving the listening-time ledger.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required", nil)
		return
	}

	start := time.Now()
	result, err := h.gateway.RefreshAll(r.Context(), id)
	if err != nil {
		respondForError(w, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int("variants", result.Variants).
		Int("failed", result.Failed).
		Int("keys_deleted", result.KeysDeleted).
		Dur("duration", time.Since(start)).
		Msg("Refresh completed")

	respondData(w, result, false)
}
