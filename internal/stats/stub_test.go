// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

package stats

import (
	"context"
	"sync"

	"github.com/nixvy-13/Spot-a-Lyst/internal/models"
	"github.com/nixvy-13/Spot-a-Lyst/internal/spotify"
)

// stubSpotify implements spotify.ClientInterface with per-method
// function fields and call counting.
type stubSpotify struct {
	mu    sync.Mutex
	calls map[string]int

	topTracksFn      func(timeRange models.TimeRange, limit int) (*models.SpotifyPaging[models.SpotifyTrack], error)
	topArtistsFn     func(timeRange models.TimeRange, limit int) (*models.SpotifyPaging[models.SpotifyArtist], error)
	recentlyPlayedFn func(limit int) (*models.SpotifyPaging[models.SpotifyPlayHistory], error)
	playlistsFn      func(limit int) (*models.SpotifyPaging[models.SpotifyPlaylist], error)
	playlistTracksFn func(playlistID string, limit int) (*models.SpotifyPaging[models.SpotifyPlaylistTrack], error)
	audioFeaturesFn  func(trackIDs []string) (*models.SpotifyAudioFeaturesResponse, error)
	searchFn         func(query, kinds string, limit int) (*models.SpotifySearchResponse, error)
}

var _ spotify.ClientInterface = (*stubSpotify)(nil)

func newStubSpotify() *stubSpotify {
	return &stubSpotify{calls: make(map[string]int)}
}

func (s *stubSpotify) record(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[method]++
}

func (s *stubSpotify) callCount(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

func (s *stubSpotify) GetTopTracks(ctx context.Context, token string, timeRange models.TimeRange, limit int) (*models.SpotifyPaging[models.SpotifyTrack], error) {
	s.record("top-tracks")
	if s.topTracksFn != nil {
		return s.topTracksFn(timeRange, limit)
	}
	return &models.SpotifyPaging[models.SpotifyTrack]{}, nil
}

func (s *stubSpotify) GetTopArtists(ctx context.Context, token string, timeRange models.TimeRange, limit int) (*models.SpotifyPaging[models.SpotifyArtist], error) {
	s.record("top-artists")
	if s.topArtistsFn != nil {
		return s.topArtistsFn(timeRange, limit)
	}
	return &models.SpotifyPaging[models.SpotifyArtist]{}, nil
}

func (s *stubSpotify) GetRecentlyPlayed(ctx context.Context, token string, limit int) (*models.SpotifyPaging[models.SpotifyPlayHistory], error) {
	s.record("recently-played")
	if s.recentlyPlayedFn != nil {
		return s.recentlyPlayedFn(limit)
	}
	return &models.SpotifyPaging[models.SpotifyPlayHistory]{}, nil
}

func (s *stubSpotify) GetPlaylists(ctx context.Context, token string, limit int) (*models.SpotifyPaging[models.SpotifyPlaylist], error) {
	s.record("playlists")
	if s.playlistsFn != nil {
		return s.playlistsFn(limit)
	}
	return &models.SpotifyPaging[models.SpotifyPlaylist]{}, nil
}

func (s *stubSpotify) GetPlaylistTracks(ctx context.Context, token, playlistID string, limit int) (*models.SpotifyPaging[models.SpotifyPlaylistTrack], error) {
	s.record("playlist-tracks")
	if s.playlistTracksFn != nil {
		return s.playlistTracksFn(playlistID, limit)
	}
	return &models.SpotifyPaging[models.SpotifyPlaylistTrack]{}, nil
}

func (s *stubSpotify) GetAudioFeatures(ctx context.Context, token string, trackIDs []string) (*models.SpotifyAudioFeaturesResponse, error) {
	s.record("audio-features")
	if s.audioFeaturesFn != nil {
		return s.audioFeaturesFn(trackIDs)
	}
	return &models.SpotifyAudioFeaturesResponse{}, nil
}

func (s *stubSpotify) Search(ctx context.Context, token, query, kinds string, limit int) (*models.SpotifySearchResponse, error) {
	s.record("search")
	if s.searchFn != nil {
		return s.searchFn(query, kinds, limit)
	}
	return &models.SpotifySearchResponse{}, nil
}

// stubGenerator returns a canned insight reply.
type stubGenerator struct {
	reply string
	err   error
}

func (s *stubGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	return s.reply, s.err
}

// Fixture helpers.

func imageURL(url string) []models.SpotifyImage {
	return []models.SpotifyImage{{URL: url, Height: 640, Width: 640}}
}

func fixtureTrack(id, name, artist, album string) models.SpotifyTrack {
	return models.SpotifyTrack{
		ID:         id,
		Name:       name,
		Artists:    []models.SpotifyArtistRef{{ID: "a-" + id, Name: artist}},
		Album:      models.SpotifyAlbum{ID: "al-" + id, Name: album, Images: imageURL("https://img/" + id)},
		DurationMS: 200000,
		Popularity: 60,
		ExternalURLs: models.SpotifyExternalURLs{
			Spotify: "https://open.spotify.com/track/" + id,
		},
	}
}

func fixturePlay(trackID, playedAt string, durationMS int64) models.SpotifyPlayHistory {
	track := fixtureTrack(trackID, "Track "+trackID, "Artist "+trackID, "Album "+trackID)
	track.DurationMS = durationMS
	return models.SpotifyPlayHistory{Track: track, PlayedAt: playedAt}
}
