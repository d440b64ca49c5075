// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

package stats

// StoreError marks a key/value store failure so the API layer can
// report CACHE_STORE_ERROR instead of a generic upstream failure.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string { return e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

// AIError marks a text-generation transport failure. Malformed model
// output is not an AIError: it degrades to the fallback payload instead.
type AIError struct {
	Err error
}

func (e *AIError) Error() string { return e.Err.Error() }

func (e *AIError) Unwrap() error { return e.Err }
