// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

// Package models defines the data shapes used across the application: the
// valid subset of Spotify Web API responses decoded at the boundary, the
// small stable public shapes returned to clients, and the generic API
// envelope. Internal code operates only on these validated shapes; raw
// provider JSON never crosses a package boundary.
package models

// SpotifyPaging is the generic paging wrapper Spotify returns for list
// endpoints (top tracks, top artists, recently played, playlists).
type SpotifyPaging[T any] struct {
	Href     string `json:"href"`
	Items    []T    `json:"items"`
	Limit    int    `json:"limit"`
	Next     string `json:"next"`
	Offset   int    `json:"offset"`
	Previous string `json:"previous"`
	Total    int    `json:"total"`
}

// SpotifyImage is one entry of an image set; the first entry is the largest.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyExternalURLs carries provider permalink URLs.
type SpotifyExternalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyArtistRef is the abbreviated artist reference embedded in tracks.
type SpotifyArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum is the album object embedded in tracks.
type SpotifyAlbum struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Images       []SpotifyImage      `json:"images"`
	ReleaseDate  string              `json:"release_date"`
	TotalTracks  int                 `json:"total_tracks"`
	Artists      []SpotifyArtistRef  `json:"artists"`
	ExternalURLs SpotifyExternalURLs `json:"external_urls"`
	URI          string              `json:"uri"`
}

// SpotifyTrack is the full track object returned by top-tracks, search and
// play-history endpoints.
type SpotifyTrack struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Artists      []SpotifyArtistRef  `json:"artists"`
	Album        SpotifyAlbum        `json:"album"`
	DurationMS   int64               `json:"duration_ms"`
	Popularity   int                 `json:"popularity"`
	Explicit     bool                `json:"explicit"`
	PreviewURL   string              `json:"preview_url"`
	ExternalURLs SpotifyExternalURLs `json:"external_urls"`
	URI          string              `json:"uri"`
}

// SpotifyArtist is the full artist object returned by top-artists and search.
type SpotifyArtist struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Genres       []string            `json:"genres"`
	Images       []SpotifyImage      `json:"images"`
	Popularity   int                 `json:"popularity"`
	ExternalURLs SpotifyExternalURLs `json:"external_urls"`
	URI          string              `json:"uri"`
}

// SpotifyPlayHistory is one "recently played" entry: a track plus the
// instant it was played.
type SpotifyPlayHistory struct {
	Track    SpotifyTrack `json:"track"`
	PlayedAt string       `json:"played_at"`
	Context  struct {
		Type string `json:"type"`
		URI  string `json:"uri"`
	} `json:"context"`
}

// SpotifyPlaylist is the simplified playlist object from /me/playlists.
type SpotifyPlaylist struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Images      []SpotifyImage `json:"images"`
	Tracks      struct {
		Href  string `json:"href"`
		Total int    `json:"total"`
	} `json:"tracks"`
	ExternalURLs SpotifyExternalURLs `json:"external_urls"`
	URI          string              `json:"uri"`
}

// SpotifyPlaylistTrack is one playlist entry: a track plus when it was added.
type SpotifyPlaylistTrack struct {
	AddedAt string       `json:"added_at"`
	Track   SpotifyTrack `json:"track"`
}

// SpotifySearchResponse is the tagged wrapper /v1/search returns; only the
// section matching the requested type is populated.
type SpotifySearchResponse struct {
	Artists *SpotifyPaging[SpotifyArtist] `json:"artists,omitempty"`
	Albums  *SpotifyPaging[SpotifyAlbum]  `json:"albums,omitempty"`
	Tracks  *SpotifyPaging[SpotifyTrack]  `json:"tracks,omitempty"`
}

// SpotifyAudioFeatures is the per-track audio analysis summary from
// /v1/audio-features. Only the fields the taste-stats block consumes are
// decoded.
type SpotifyAudioFeatures struct {
	ID           string  `json:"id"`
	Energy       float64 `json:"energy"`
	Danceability float64 `json:"danceability"`
	Valence      float64 `json:"valence"`
	Tempo        float64 `json:"tempo"`
}

// SpotifyAudioFeaturesResponse wraps the batch audio-features endpoint.
type SpotifyAudioFeaturesResponse struct {
	AudioFeatures []SpotifyAudioFeatures `json:"audio_features"`
}
