// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

package spotify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second, 100)
}

func TestGetTopTracks(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/top/tracks" {
			t.Errorf("path: got %q, want /me/top/tracks", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("authorization header: got %q", got)
		}
		if got := r.URL.Query().Get("time_range"); got != "short_term" {
			t.Errorf("time_range: got %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "20" {
			t.Errorf("limit: got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [
				{
					"id": "t1",
					"name": "Song One",
					"duration_ms": 180000,
					"popularity": 75,
					"artists": [{"id": "a1", "name": "Artist One"}],
					"album": {"id": "al1", "name": "Album One", "images": [{"url": "https://img/1", "height": 640, "width": 640}]},
					"external_urls": {"spotify": "https://open.spotify.com/track/t1"}
				}
			],
			"limit": 20,
			"total": 1
		}`))
	})

	page, err := client.GetTopTracks(context.Background(), "tok-123", "short_term", 20)
	if err != nil {
		t.Fatalf("GetTopTracks: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("items: got %d, want 1", len(page.Items))
	}

	track := page.Items[0]
	if track.ID != "t1" || track.Name != "Song One" {
		t.Errorf("track: got %+v", track)
	}
	if track.DurationMS != 180000 {
		t.Errorf("duration_ms: got %d, want 180000", track.DurationMS)
	}
	if len(track.Artists) != 1 || track.Artists[0].Name != "Artist One" {
		t.Errorf("artists: got %+v", track.Artists)
	}
	if len(track.Album.Images) != 1 || track.Album.Images[0].URL != "https://img/1" {
		t.Errorf("album images: got %+v", track.Album.Images)
	}
}

func TestGetRecentlyPlayed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/player/recently-played" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "50" {
			t.Errorf("limit: got %q, want 50", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [
				{
					"track": {"id": "t1", "name": "Song", "duration_ms": 60000},
					"played_at": "2024-01-01T10:00:00.000Z"
				}
			]
		}`))
	})

	page, err := client.GetRecentlyPlayed(context.Background(), "tok", 50)
	if err != nil {
		t.Fatalf("GetRecentlyPlayed: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("items: got %d, want 1", len(page.Items))
	}
	if page.Items[0].PlayedAt != "2024-01-01T10:00:00.000Z" {
		t.Errorf("played_at: got %q", page.Items[0].PlayedAt)
	}
	if page.Items[0].Track.DurationMS != 60000 {
		t.Errorf("duration: got %d", page.Items[0].Track.DurationMS)
	}
}

func TestUpstreamErrorSurfacesStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"status": 401, "message": "The access token expired"}}`))
	})

	_, err := client.GetTopArtists(context.Background(), "stale", "medium_term", 20)
	if err == nil {
		t.Fatal("expected error for 401 response")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", apiErr.StatusCode)
	}
	if !IsAuthError(err) {
		t.Error("IsAuthError: got false, want true")
	}
	if IsRateLimited(err) {
		t.Error("IsRateLimited: got true, want false")
	}
}

func TestRateLimitedError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "5")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Search(context.Background(), "tok", "daft punk", "artist", 1)
	if !IsRateLimited(err) {
		t.Errorf("IsRateLimited: got false for %v", err)
	}
}

func TestSearchBuildsQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "discovery daft punk" {
			t.Errorf("q: got %q", q.Get("q"))
		}
		if q.Get("type") != "album" {
			t.Errorf("type: got %q", q.Get("type"))
		}
		if q.Get("limit") != "1" {
			t.Errorf("limit: got %q", q.Get("limit"))
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"albums": {"items": [{"id": "al1", "name": "Discovery", "total_tracks": 14}]}}`))
	})

	result, err := client.Search(context.Background(), "tok", "discovery daft punk", "album", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.Albums == nil || len(result.Albums.Items) != 1 {
		t.Fatalf("albums: got %+v", result.Albums)
	}
	if result.Albums.Items[0].Name != "Discovery" {
		t.Errorf("album name: got %q", result.Albums.Items[0].Name)
	}
}
