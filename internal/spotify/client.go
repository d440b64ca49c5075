// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

/*
client.go - Spotify Web API Client

This file implements a REST API client for the Spotify Web API.
It provides methods to fetch top tracks/artists, recently played
history, playlists, audio features, and catalog search.

API Reference: https://developer.spotify.com/documentation/web-api
*/

package spotify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/nixvy-13/Spot-a-Lyst/internal/models"
)

// ClientInterface defines the Spotify API operations used by the stats
// and recommendation layers. Both Client and CircuitBreakerClient
// implement this interface.
type ClientInterface interface {
	GetTopTracks(ctx context.Context, token string, timeRange models.TimeRange, limit int) (*models.SpotifyPaging[models.SpotifyTrack], error)
	GetTopArtists(ctx context.Context, token string, timeRange models.TimeRange, limit int) (*models.SpotifyPaging[models.SpotifyArtist], error)
	GetRecentlyPlayed(ctx context.Context, token string, limit int) (*models.SpotifyPaging[models.SpotifyPlayHistory], error)
	GetPlaylists(ctx context.Context, token string, limit int) (*models.SpotifyPaging[models.SpotifyPlaylist], error)
	GetPlaylistTracks(ctx context.Context, token, playlistID string, limit int) (*models.SpotifyPaging[models.SpotifyPlaylistTrack], error)
	GetAudioFeatures(ctx context.Context, token string, trackIDs []string) (*models.SpotifyAudioFeaturesResponse, error)
	Search(ctx context.Context, token, query, kinds string, limit int) (*models.SpotifySearchResponse, error)
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// Client provides access to the Spotify Web API. The caller supplies a
// per-user bearer token on every call; the client itself holds no
// credentials.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	searchLimiter *rate.Limiter
}

// NewClient creates a new Spotify API client.
//
// Parameters:
//   - baseURL: API root, normally https://api.spotify.com/v1 (tests
//     point it at an httptest server)
//   - timeout: per-request timeout
//   - searchRPS: sustained search request rate; the recommendation
//     enrichment fan-out issues many searches in bursts and Spotify
//     throttles aggressively at 429
func NewClient(baseURL string, timeout time.Duration, searchRPS float64) *Client {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if searchRPS <= 0 {
		searchRPS = 10
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		searchLimiter: rate.NewLimiter(rate.Limit(searchRPS), int(searchRPS)),
	}
}

// GetTopTracks retrieves the user's most played tracks for a time range.
func (c *Client) GetTopTracks(ctx context.Context, token string, timeRange models.TimeRange, limit int) (*models.SpotifyPaging[models.SpotifyTrack], error) {
	query := url.Values{
		"time_range": {string(timeRange)},
		"limit":      {strconv.Itoa(limit)},
	}
	var page models.SpotifyPaging[models.SpotifyTrack]
	if err := c.getJSON(ctx, token, "/me/top/tracks", query, &page); err != nil {
		return nil, fmt.Errorf("top tracks: %w", err)
	}
	return &page, nil
}

// GetTopArtists retrieves the user's most played artists for a time range.
func (c *Client) GetTopArtists(ctx context.Context, token string, timeRange models.TimeRange, limit int) (*models.SpotifyPaging[models.SpotifyArtist], error) {
	query := url.Values{
		"time_range": {string(timeRange)},
		"limit":      {strconv.Itoa(limit)},
	}
	var page models.SpotifyPaging[models.SpotifyArtist]
	if err := c.getJSON(ctx, token, "/me/top/artists", query, &page); err != nil {
		return nil, fmt.Errorf("top artists: %w", err)
	}
	return &page, nil
}

// GetRecentlyPlayed retrieves the user's play history, newest first.
// Spotify caps the history window at roughly the last 50 plays, which is
// why the listening ledger accumulates rather than refetches.
func (c *Client) GetRecentlyPlayed(ctx context.Context, token string, limit int) (*models.SpotifyPaging[models.SpotifyPlayHistory], error) {
	query := url.Values{
		"limit": {strconv.Itoa(limit)},
	}
	var page models.SpotifyPaging[models.SpotifyPlayHistory]
	if err := c.getJSON(ctx, token, "/me/player/recently-played", query, &page); err != nil {
		return nil, fmt.Errorf("recently played: %w", err)
	}
	return &page, nil
}

// GetPlaylists retrieves the user's playlists.
func (c *Client) GetPlaylists(ctx context.Context, token string, limit int) (*models.SpotifyPaging[models.SpotifyPlaylist], error) {
	query := url.Values{
		"limit": {strconv.Itoa(limit)},
	}
	var page models.SpotifyPaging[models.SpotifyPlaylist]
	if err := c.getJSON(ctx, token, "/me/playlists", query, &page); err != nil {
		return nil, fmt.Errorf("playlists: %w", err)
	}
	return &page, nil
}

// GetPlaylistTracks retrieves the tracks of one playlist.
func (c *Client) GetPlaylistTracks(ctx context.Context, token, playlistID string, limit int) (*models.SpotifyPaging[models.SpotifyPlaylistTrack], error) {
	query := url.Values{
		"limit": {strconv.Itoa(limit)},
	}
	endpoint := "/playlists/" + url.PathEscape(playlistID) + "/tracks"
	var page models.SpotifyPaging[models.SpotifyPlaylistTrack]
	if err := c.getJSON(ctx, token, endpoint, query, &page); err != nil {
		return nil, fmt.Errorf("playlist tracks: %w", err)
	}
	return &page, nil
}

// GetAudioFeatures retrieves audio features for up to 100 track IDs.
func (c *Client) GetAudioFeatures(ctx context.Context, token string, trackIDs []string) (*models.SpotifyAudioFeaturesResponse, error) {
	query := url.Values{
		"ids": {strings.Join(trackIDs, ",")},
	}
	var features models.SpotifyAudioFeaturesResponse
	if err := c.getJSON(ctx, token, "/audio-features", query, &features); err != nil {
		return nil, fmt.Errorf("audio features: %w", err)
	}
	return &features, nil
}

// Search queries the Spotify catalog. kinds is a comma-separated list of
// item types ("track", "artist", "album"). Search calls pass through a
// rate limiter because the recommendation enricher fans out one search
// per AI suggestion.
func (c *Client) Search(ctx context.Context, token, query, kinds string, limit int) (*models.SpotifySearchResponse, error) {
	if err := c.searchLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("search rate limit: %w", err)
	}

	params := url.Values{
		"q":     {query},
		"type":  {kinds},
		"limit": {strconv.Itoa(limit)},
	}
	var result models.SpotifySearchResponse
	if err := c.getJSON(ctx, token, "/search", params, &result); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return &result, nil
}

// getJSON performs an authenticated GET and decodes the JSON response
// into out. Non-2xx responses become *APIError values carrying the
// upstream status.
func (c *Client) getJSON(ctx context.Context, token, endpoint string, query url.Values, out interface{}) error {
	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if readErr != nil {
			body = []byte("(failed to read body)")
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Body:       string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
