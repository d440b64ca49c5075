// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Recommendations handles GET /api/v1/recommendations. Accepts either
// force=true or regenerate=true to bypass the cached analysis.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required", nil)
		return
	}

	recs, cached, err := h.gateway.Recommendations(r.Context(), id, forceParam(r, "force", "regenerate"))
	if err != nil {
		respondForError(w, err)
		return
	}

	respondData(w, recs, cached)
}

// Playlists handles GET /api/v1/playlists.
func (h *Handler) Playlists(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required", nil)
		return
	}

	playlists, cached, err := h.gateway.Playlists(r.Context(), id, forceParam(r, "force"))
	if err != nil {
		respondForError(w, err)
		return
	}

	respondData(w, playlists, cached)
}

// PlaylistTracks handles GET /api/v1/playlists/{playlistID}/tracks.
func (h *Handler) PlaylistTracks(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required", nil)
		return
	}

	playlistID := chi.URLParam(r, "playlistID")
	if playlistID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "playlistID is required", nil)
		return
	}

	tracks, cached, err := h.gateway.PlaylistTracks(r.Context(), id, playlistID, forceParam(r, "force"))
	if err != nil {
		respondForError(w, err)
		return
	}

	respondData(w, tracks, cached)
}
