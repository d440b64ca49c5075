// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/nixvy-13/Spot-a-Lyst/internal/models"
	"github.com/nixvy-13/Spot-a-Lyst/internal/spotify"
	"github.com/nixvy-13/Spot-a-Lyst/internal/store"
)

var testIdentity = Identity{UserID: "u1", SpotifyToken: "tok"}

func newTestGateway(client *stubSpotify, generator *stubGenerator) (*Gateway, *store.MemoryStore) {
	kv := store.NewMemoryStore()
	if generator == nil {
		generator = &stubGenerator{reply: `{"patterns":[]}`}
	}
	return NewGateway(kv, client, generator, Options{}), kv
}

func TestTopTracksCachePolicy(t *testing.T) {
	ctx := context.Background()
	client := newStubSpotify()
	client.topTracksFn = func(timeRange models.TimeRange, limit int) (*models.SpotifyPaging[models.SpotifyTrack], error) {
		return &models.SpotifyPaging[models.SpotifyTrack]{
			Items: []models.SpotifyTrack{fixtureTrack("t1", "Song", "Artist", "Album")},
		}, nil
	}
	g, kv := newTestGateway(client, nil)

	// Miss: fetches upstream and caches.
	tracks, cached, err := g.TopTracks(ctx, testIdentity, models.TimeRangeShort, 20, false)
	if err != nil {
		t.Fatalf("TopTracks: %v", err)
	}
	if cached {
		t.Error("first call reported cached")
	}
	if len(tracks) != 1 || tracks[0].Name != "Song" {
		t.Fatalf("tracks: got %+v", tracks)
	}
	if client.callCount("top-tracks") != 1 {
		t.Errorf("upstream calls: got %d, want 1", client.callCount("top-tracks"))
	}

	// Hit: no upstream call.
	tracks, cached, err = g.TopTracks(ctx, testIdentity, models.TimeRangeShort, 20, false)
	if err != nil {
		t.Fatalf("TopTracks hit: %v", err)
	}
	if !cached {
		t.Error("second call not served from cache")
	}
	if len(tracks) != 1 {
		t.Errorf("cached tracks: got %+v", tracks)
	}
	if client.callCount("top-tracks") != 1 {
		t.Errorf("upstream calls after hit: got %d, want 1", client.callCount("top-tracks"))
	}

	// Different parameters use a different key.
	if _, _, err := g.TopTracks(ctx, testIdentity, models.TimeRangeShort, 10, false); err != nil {
		t.Fatalf("TopTracks other limit: %v", err)
	}
	if client.callCount("top-tracks") != 2 {
		t.Errorf("upstream calls for new variant: got %d, want 2", client.callCount("top-tracks"))
	}

	// Force bypasses the cached value.
	if _, cached, err = g.TopTracks(ctx, testIdentity, models.TimeRangeShort, 20, true); err != nil {
		t.Fatalf("TopTracks force: %v", err)
	}
	if cached {
		t.Error("forced call reported cached")
	}
	if client.callCount("top-tracks") != 3 {
		t.Errorf("upstream calls after force: got %d, want 3", client.callCount("top-tracks"))
	}

	if kv.Len() == 0 {
		t.Error("no cache entries written")
	}
}

func TestTopTracksShaping(t *testing.T) {
	ctx := context.Background()
	client := newStubSpotify()
	client.topTracksFn = func(models.TimeRange, int) (*models.SpotifyPaging[models.SpotifyTrack], error) {
		track := models.SpotifyTrack{
			ID:   "t1",
			Name: "Collab",
			Artists: []models.SpotifyArtistRef{
				{Name: "First"},
				{Name: "Second"},
			},
			Album:        models.SpotifyAlbum{Name: "NoArt"}, // no images
			DurationMS:   123456,
			Popularity:   42,
			ExternalURLs: models.SpotifyExternalURLs{Spotify: "https://open.spotify.com/track/t1"},
		}
		return &models.SpotifyPaging[models.SpotifyTrack]{Items: []models.SpotifyTrack{track}}, nil
	}
	g, _ := newTestGateway(client, nil)

	tracks, _, err := g.TopTracks(ctx, testIdentity, models.TimeRangeMedium, 10, false)
	if err != nil {
		t.Fatalf("TopTracks: %v", err)
	}

	track := tracks[0]
	if track.Artist != "First, Second" {
		t.Errorf("artist join: got %q, want %q", track.Artist, "First, Second")
	}
	if track.ImageURL != nil {
		t.Errorf("imageUrl: got %v, want nil for missing images", *track.ImageURL)
	}
	if track.Duration != 123456 {
		t.Errorf("duration: got %d", track.Duration)
	}
}

func TestUpstreamFailureDoesNotPoisonCache(t *testing.T) {
	ctx := context.Background()
	client := newStubSpotify()
	client.topArtistsFn = func(models.TimeRange, int) (*models.SpotifyPaging[models.SpotifyArtist], error) {
		return nil, &spotify.APIError{StatusCode: 502, Endpoint: "/me/top/artists"}
	}
	g, kv := newTestGateway(client, nil)

	_, _, err := g.TopArtists(ctx, testIdentity, models.TimeRangeLong, 20, false)
	if err == nil {
		t.Fatal("expected upstream error")
	}
	var apiErr *spotify.APIError
	if !errors.As(err, &apiErr) {
		t.Errorf("error type: got %T, want *spotify.APIError", err)
	}

	if kv.Len() != 0 {
		t.Errorf("cache entries after failed fetch: got %d, want 0", kv.Len())
	}
}

func TestRecentlyPlayedGroupsRepeatPlays(t *testing.T) {
	ctx := context.Background()
	client := newStubSpotify()
	client.recentlyPlayedFn = func(limit int) (*models.SpotifyPaging[models.SpotifyPlayHistory], error) {
		return &models.SpotifyPaging[models.SpotifyPlayHistory]{
			Items: []models.SpotifyPlayHistory{
				fixturePlay("t1", "2024-01-02T10:00:00Z", 60000),
				fixturePlay("t2", "2024-01-02T09:00:00Z", 60000),
				fixturePlay("t1", "2024-01-01T22:00:00Z", 60000),
				fixturePlay("t1", "2024-01-01T21:00:00Z", 60000),
			},
		}, nil
	}
	g, _ := newTestGateway(client, nil)

	tracks, _, err := g.RecentlyPlayed(ctx, testIdentity, 20, false)
	if err != nil {
		t.Fatalf("RecentlyPlayed: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("grouped tracks: got %d, want 2: %+v", len(tracks), tracks)
	}

	// Sorted descending by playedAt; t1 keeps its newest play and the count.
	if tracks[0].ID != "t1" || tracks[0].PlayCount != 3 {
		t.Errorf("tracks[0]: got id=%s playCount=%d, want t1/3", tracks[0].ID, tracks[0].PlayCount)
	}
	if tracks[0].PlayedAt != "2024-01-02T10:00:00Z" {
		t.Errorf("tracks[0].playedAt: got %q", tracks[0].PlayedAt)
	}
	if tracks[1].ID != "t2" || tracks[1].PlayCount != 1 {
		t.Errorf("tracks[1]: got id=%s playCount=%d, want t2/1", tracks[1].ID, tracks[1].PlayCount)
	}
}

func TestPlaylistsShaping(t *testing.T) {
	ctx := context.Background()
	client := newStubSpotify()
	client.playlistsFn = func(limit int) (*models.SpotifyPaging[models.SpotifyPlaylist], error) {
		playlist := models.SpotifyPlaylist{
			ID:          "p1",
			Name:        "Focus",
			Description: "deep work",
			Images:      imageURL("https://img/p1"),
			ExternalURLs: models.SpotifyExternalURLs{
				Spotify: "https://open.spotify.com/playlist/p1",
			},
			URI: "spotify:playlist:p1",
		}
		playlist.Tracks.Total = 42
		return &models.SpotifyPaging[models.SpotifyPlaylist]{Items: []models.SpotifyPlaylist{playlist}}, nil
	}
	g, _ := newTestGateway(client, nil)

	playlists, _, err := g.Playlists(ctx, testIdentity, false)
	if err != nil {
		t.Fatalf("Playlists: %v", err)
	}
	if len(playlists) != 1 {
		t.Fatalf("playlists: got %d", len(playlists))
	}
	if playlists[0].TrackCount != 42 {
		t.Errorf("trackCount: got %d, want 42", playlists[0].TrackCount)
	}
	if playlists[0].ImageURL == nil || *playlists[0].ImageURL != "https://img/p1" {
		t.Errorf("imageUrl: got %v", playlists[0].ImageURL)
	}
}
