// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

package spotify

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/nixvy-13/Spot-a-Lyst/internal/logging"
	"github.com/nixvy-13/Spot-a-Lyst/internal/metrics"
	"github.com/nixvy-13/Spot-a-Lyst/internal/models"
)

// CircuitBreakerClient wraps a Spotify client with the circuit breaker
// pattern so that a throttled or unavailable Spotify API fails fast
// instead of stacking up blocked refresh fan-outs.
//
// The breaker uses real time for its interval and timeout calculations.
// Tests exercise the wrapped client directly or stub ClientInterface.
type CircuitBreakerClient struct {
	client ClientInterface
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// Ensure CircuitBreakerClient implements ClientInterface
var _ ClientInterface = (*CircuitBreakerClient)(nil)

// NewCircuitBreakerClient wraps client with a circuit breaker.
// Configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 1 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
func NewCircuitBreakerClient(client ClientInterface) *CircuitBreakerClient {
	cbName := "spotify-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &CircuitBreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

// execute wraps a Spotify API call with circuit breaker protection.
func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()

			counts := cbc.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)

	return result, nil
}

// castResult safely type-casts the circuit breaker result with error checking.
func castResult[T any](result interface{}, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// GetTopTracks retrieves top tracks with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetTopTracks(ctx context.Context, token string, timeRange models.TimeRange, limit int) (*models.SpotifyPaging[models.SpotifyTrack], error) {
	return castResult[models.SpotifyPaging[models.SpotifyTrack]](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetTopTracks(ctx, token, timeRange, limit)
	}))
}

// GetTopArtists retrieves top artists with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetTopArtists(ctx context.Context, token string, timeRange models.TimeRange, limit int) (*models.SpotifyPaging[models.SpotifyArtist], error) {
	return castResult[models.SpotifyPaging[models.SpotifyArtist]](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetTopArtists(ctx, token, timeRange, limit)
	}))
}

// GetRecentlyPlayed retrieves play history with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetRecentlyPlayed(ctx context.Context, token string, limit int) (*models.SpotifyPaging[models.SpotifyPlayHistory], error) {
	return castResult[models.SpotifyPaging[models.SpotifyPlayHistory]](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetRecentlyPlayed(ctx, token, limit)
	}))
}

// GetPlaylists retrieves playlists with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetPlaylists(ctx context.Context, token string, limit int) (*models.SpotifyPaging[models.SpotifyPlaylist], error) {
	return castResult[models.SpotifyPaging[models.SpotifyPlaylist]](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetPlaylists(ctx, token, limit)
	}))
}

// GetPlaylistTracks retrieves playlist tracks with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetPlaylistTracks(ctx context.Context, token, playlistID string, limit int) (*models.SpotifyPaging[models.SpotifyPlaylistTrack], error) {
	return castResult[models.SpotifyPaging[models.SpotifyPlaylistTrack]](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetPlaylistTracks(ctx, token, playlistID, limit)
	}))
}

// GetAudioFeatures retrieves audio features with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetAudioFeatures(ctx context.Context, token string, trackIDs []string) (*models.SpotifyAudioFeaturesResponse, error) {
	return castResult[models.SpotifyAudioFeaturesResponse](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetAudioFeatures(ctx, token, trackIDs)
	}))
}

// Search queries the catalog with circuit breaker protection.
func (cbc *CircuitBreakerClient) Search(ctx context.Context, token, query, kinds string, limit int) (*models.SpotifySearchResponse, error) {
	return castResult[models.SpotifySearchResponse](cbc.execute(func() (interface{}, error) {
		return cbc.client.Search(ctx, token, query, kinds, limit)
	}))
}
