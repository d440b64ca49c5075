// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

package stats

import (
	"fmt"
	"strings"

	"github.com/nixvy-13/Spot-a-Lyst/internal/models"
)

// Cache key layout. Every key for a user lives under "user:{id}:" so the
// invalidation sweep can list one prefix. Equal parameters always build
// equal keys; the limit and time range are part of the key, so variants
// never collide.
func userPrefix(userID string) string {
	return "user:" + userID + ":"
}

func topTracksKey(userID string, timeRange models.TimeRange, limit int) string {
	return fmt.Sprintf("user:%s:top-tracks:%s:%d", userID, timeRange, limit)
}

func topArtistsKey(userID string, timeRange models.TimeRange, limit int) string {
	return fmt.Sprintf("user:%s:top-artists:%s:%d", userID, timeRange, limit)
}

func recentlyPlayedKey(userID string, limit int) string {
	return fmt.Sprintf("user:%s:recently-played:%d", userID, limit)
}

func listeningTimeKey(userID string) string {
	return "user:" + userID + ":listening-time"
}

// listeningTimeSeenKey holds the set of play-event markers already merged
// into the ledger. It contains "listening-time", so the invalidation
// sweep protects it together with the ledger itself.
func listeningTimeSeenKey(userID string) string {
	return "user:" + userID + ":listening-time:seen"
}

func recommendationsKey(userID string) string {
	return "user:" + userID + ":recommendations"
}

func playlistsKey(userID string) string {
	return "user:" + userID + ":playlists"
}

func playlistTracksKey(userID, playlistID string) string {
	return "user:" + userID + ":playlist-tracks:" + playlistID
}

// isLedgerKey reports whether key belongs to the listening-time ledger
// family and must survive the invalidation sweep. The check is a
// substring match so the seen-marker key is protected too.
func isLedgerKey(key string) bool {
	return strings.Contains(key, "listening-time")
}
