// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

// Package stats implements the cached statistics layer: a read-through
// cache gateway over the Spotify client, the incremental listening-time
// ledger, AI-backed recommendations, and the full-refresh orchestrator
// with its ledger-protecting invalidation sweep.
package stats

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/nixvy-13/Spot-a-Lyst/internal/ai"
	"github.com/nixvy-13/Spot-a-Lyst/internal/logging"
	"github.com/nixvy-13/Spot-a-Lyst/internal/metrics"
	"github.com/nixvy-13/Spot-a-Lyst/internal/models"
	"github.com/nixvy-13/Spot-a-Lyst/internal/spotify"
	"github.com/nixvy-13/Spot-a-Lyst/internal/store"
)

// Default cache lifetimes and fetch limits.
const (
	DefaultStatsTTL           = time.Hour
	DefaultRecommendationsTTL = 24 * time.Hour
	DefaultRecentFetchLimit   = 20
	ForcedRecentFetchLimit    = 50
	DefaultPlaylistLimit      = 50
)

// Options tunes the Gateway. Zero values fall back to the defaults above.
type Options struct {
	StatsTTL           time.Duration
	RecommendationsTTL time.Duration
	// DedupePlays filters recently-played events already merged into the
	// ledger, so overlapping fetch windows do not double-count.
	DedupePlays bool
	// RefreshConcurrency bounds the refresh fan-out. Zero means 8.
	RefreshConcurrency int
}

// Gateway applies one read-through cache policy across every statistics
// resource. The listening-time path is the exception: it always merges
// into the persisted ledger instead of overwriting (see listening_time.go).
type Gateway struct {
	store     store.Store
	spotify   spotify.ClientInterface
	generator ai.GeneratorInterface
	opts      Options

	// ledgerLocks serializes the read-merge-write cycle per user so
	// concurrent listening-time refreshes cannot drop merged batches.
	ledgerLocks sync.Map // userID -> *sync.Mutex

	now func() time.Time
}

// NewGateway creates a Gateway over the given store, Spotify client, and
// insight generator.
func NewGateway(kv store.Store, client spotify.ClientInterface, generator ai.GeneratorInterface, opts Options) *Gateway {
	if opts.StatsTTL <= 0 {
		opts.StatsTTL = DefaultStatsTTL
	}
	if opts.RecommendationsTTL <= 0 {
		opts.RecommendationsTTL = DefaultRecommendationsTTL
	}
	if opts.RefreshConcurrency <= 0 {
		opts.RefreshConcurrency = 8
	}
	return &Gateway{
		store:     kv,
		spotify:   client,
		generator: generator,
		opts:      opts,
		now:       time.Now,
	}
}

// Identity carries the authenticated user through gateway calls. The
// Spotify token is per-user; the gateway never holds credentials.
type Identity struct {
	UserID       string
	SpotifyToken string
}

// readThrough implements the shared cache policy: on a hit (and no
// force), decode the cached JSON; otherwise call fetch, cache the shaped
// result with ttl, and return it. A fetch failure never writes a cache
// entry.
func readThrough[T any](ctx context.Context, g *Gateway, resource, key string, force bool, ttl time.Duration, fetch func() (T, error)) (T, bool, error) {
	var zero T

	if force {
		metrics.CacheForcedRefreshes.WithLabelValues(resource).Inc()
	} else {
		cached, err := g.store.Get(ctx, key)
		if err == nil {
			var value T
			if err := json.Unmarshal(cached, &value); err != nil {
				// A corrupt entry is treated as a miss and overwritten.
				logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Discarding undecodable cache entry")
			} else {
				metrics.RecordCacheRead(resource, true)
				return value, true, nil
			}
		} else if !errors.Is(err, store.ErrKeyNotFound) {
			return zero, false, &StoreError{Err: fmt.Errorf("cache read %q: %w", key, err)}
		}
		metrics.RecordCacheRead(resource, false)
	}

	value, err := fetch()
	if err != nil {
		return zero, false, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return zero, false, fmt.Errorf("encode %s: %w", resource, err)
	}
	if err := g.store.Put(ctx, key, encoded, ttl); err != nil {
		return zero, false, &StoreError{Err: fmt.Errorf("cache write %q: %w", key, err)}
	}
	return value, false, nil
}

// TopTracks returns the user's most played tracks, cached per
// (timeRange, limit) variant.
func (g *Gateway) TopTracks(ctx context.Context, id Identity, timeRange models.TimeRange, limit int, force bool) ([]models.Track, bool, error) {
	key := topTracksKey(id.UserID, timeRange, limit)
	return readThrough(ctx, g, "top-tracks", key, force, g.opts.StatsTTL, func() ([]models.Track, error) {
		start := g.now()
		page, err := g.spotify.GetTopTracks(ctx, id.SpotifyToken, timeRange, limit)
		metrics.RecordSpotifyRequest("top-tracks", time.Since(start), err)
		if err != nil {
			return nil, err
		}
		return shapeTopTracks(page.Items), nil
	})
}

// TopArtists returns the user's most played artists, cached per
// (timeRange, limit) variant.
func (g *Gateway) TopArtists(ctx context.Context, id Identity, timeRange models.TimeRange, limit int, force bool) ([]models.Artist, bool, error) {
	key := topArtistsKey(id.UserID, timeRange, limit)
	return readThrough(ctx, g, "top-artists", key, force, g.opts.StatsTTL, func() ([]models.Artist, error) {
		start := g.now()
		page, err := g.spotify.GetTopArtists(ctx, id.SpotifyToken, timeRange, limit)
		metrics.RecordSpotifyRequest("top-artists", time.Since(start), err)
		if err != nil {
			return nil, err
		}
		return shapeTopArtists(page.Items), nil
	})
}

// RecentlyPlayed returns the user's play history with repeated plays of
// one track grouped into a single entry carrying a play count.
func (g *Gateway) RecentlyPlayed(ctx context.Context, id Identity, limit int, force bool) ([]models.Track, bool, error) {
	key := recentlyPlayedKey(id.UserID, limit)
	return readThrough(ctx, g, "recently-played", key, force, g.opts.StatsTTL, func() ([]models.Track, error) {
		start := g.now()
		page, err := g.spotify.GetRecentlyPlayed(ctx, id.SpotifyToken, limit)
		metrics.RecordSpotifyRequest("recently-played", time.Since(start), err)
		if err != nil {
			return nil, err
		}
		return groupRecentPlays(shapeRecentlyPlayed(page.Items)), nil
	})
}

// Playlists returns the user's playlists.
func (g *Gateway) Playlists(ctx context.Context, id Identity, force bool) ([]models.Playlist, bool, error) {
	key := playlistsKey(id.UserID)
	return readThrough(ctx, g, "playlists", key, force, g.opts.StatsTTL, func() ([]models.Playlist, error) {
		start := g.now()
		page, err := g.spotify.GetPlaylists(ctx, id.SpotifyToken, DefaultPlaylistLimit)
		metrics.RecordSpotifyRequest("playlists", time.Since(start), err)
		if err != nil {
			return nil, err
		}
		return shapePlaylists(page.Items), nil
	})
}

// PlaylistTracks returns the tracks of one playlist.
func (g *Gateway) PlaylistTracks(ctx context.Context, id Identity, playlistID string, force bool) ([]models.Track, bool, error) {
	key := playlistTracksKey(id.UserID, playlistID)
	return readThrough(ctx, g, "playlist-tracks", key, force, g.opts.StatsTTL, func() ([]models.Track, error) {
		start := g.now()
		page, err := g.spotify.GetPlaylistTracks(ctx, id.SpotifyToken, playlistID, 100)
		metrics.RecordSpotifyRequest("playlist-tracks", time.Since(start), err)
		if err != nil {
			return nil, err
		}
		return shapePlaylistTracks(page.Items), nil
	})
}

func (g *Gateway) ledgerLock(userID string) *sync.Mutex {
	lock, _ := g.ledgerLocks.LoadOrStore(userID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
