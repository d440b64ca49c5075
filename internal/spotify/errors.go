// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

package spotify

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the Spotify Web API. Callers must
// not write cache entries when one of these surfaces: a failed fetch has
// no result worth caching.
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("spotify %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// IsAuthError reports whether err is a Spotify 401/403, meaning the
// user's access token is expired or lacks scope.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}

// IsRateLimited reports whether err is a Spotify 429.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusTooManyRequests
}
