// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/nixvy-13/Spot-a-Lyst/internal/auth"
	"github.com/nixvy-13/Spot-a-Lyst/internal/logging"
	"github.com/nixvy-13/Spot-a-Lyst/internal/models"
	"github.com/nixvy-13/Spot-a-Lyst/internal/spotify"
	"github.com/nixvy-13/Spot-a-Lyst/internal/stats"
	"github.com/nixvy-13/Spot-a-Lyst/internal/validation"
)

// respondJSON sends a JSON response with proper headers.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	// Responses are per-user; never let shared caches hold them.
	w.Header().Set("Cache-Control", "private, max-age=60")
	w.Header().Set("Vary", "Accept-Encoding")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a simple ETag from data using FNV-1a hash.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondData sends a success envelope carrying data, flagging whether it
// was served from cache.
func respondData(w http.ResponseWriter, data interface{}, cached bool) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
			Cached:    cached,
		},
	})
}

// respondError sends an error envelope.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", code).Err(err).Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondForError classifies a gateway error into the API's error
// taxonomy. Upstream error text is never forwarded verbatim to clients.
func respondForError(w http.ResponseWriter, err error) {
	var storeErr *stats.StoreError
	if errors.As(err, &storeErr) {
		respondError(w, http.StatusInternalServerError, "CACHE_STORE_ERROR", "Statistics store is unavailable", err)
		return
	}

	var aiErr *stats.AIError
	if errors.As(err, &aiErr) {
		respondError(w, http.StatusBadGateway, "AI_ERROR", "Recommendation generation is unavailable", err)
		return
	}

	if spotify.IsAuthError(err) {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Spotify authorization expired", err)
		return
	}

	respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Spotify is unavailable", err)
}

// validateRequest validates a struct using go-playground/validator,
// returning a models.APIError in the VALIDATION_ERROR format.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// identity resolves the authenticated user from the request context.
// The auth middleware guarantees its presence on protected routes; the
// ok==false branch only fires on wiring mistakes.
func identity(r *http.Request) (stats.Identity, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return stats.Identity{}, false
	}
	return stats.Identity{UserID: id.UserID, SpotifyToken: id.SpotifyToken}, true
}

// getIntParam extracts an integer query parameter with a default value.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// forceParam reports whether the caller asked to bypass the cache. Only
// the literal string "true" counts.
func forceParam(r *http.Request, keys ...string) bool {
	for _, key := range keys {
		if r.URL.Query().Get(key) == "true" {
			return true
		}
	}
	return false
}
