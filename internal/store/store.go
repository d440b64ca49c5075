// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

// Package store provides the key-value cache layer backing statistics,
// recommendations, and the listening-time ledger.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get when the key does not exist or its
// entry has expired.
var ErrKeyNotFound = errors.New("store: key not found")

// Store is a byte-oriented key-value store with per-entry TTL. A ttl of
// zero means the entry never expires.
type Store interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key. A ttl of 0 stores the entry without
	// expiry.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// ListKeys returns every key starting with prefix, in unspecified
	// order.
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}
