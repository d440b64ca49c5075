// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

package models

// TimeRange is the Spotify statistics window. It is a closed enumeration;
// any unrecognized input normalizes to medium_term rather than being
// rejected.
type TimeRange string

// Valid time ranges.
const (
	TimeRangeShort  TimeRange = "short_term"
	TimeRangeMedium TimeRange = "medium_term"
	TimeRangeLong   TimeRange = "long_term"
)

// NormalizeTimeRange maps an arbitrary input string onto a valid TimeRange,
// defaulting to medium_term.
func NormalizeTimeRange(s string) TimeRange {
	switch TimeRange(s) {
	case TimeRangeShort, TimeRangeMedium, TimeRangeLong:
		return TimeRange(s)
	default:
		return TimeRangeMedium
	}
}

// Track is the public track shape returned to clients. Artist names are
// joined with ", "; ImageURL is the first album image or null.
type Track struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	Popularity int    `json:"popularity,omitempty"`
	Duration   int64  `json:"duration,omitempty"`
	PreviewURL string `json:"previewUrl,omitempty"`
	SpotifyURL string `json:"spotifyUrl"`
	ImageURL   *string `json:"imageUrl"`
	PlayedAt   string `json:"playedAt,omitempty"`
	PlayCount  int    `json:"playCount,omitempty"`
}

// Artist is the public artist shape returned to clients.
type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
	ImageURL   *string  `json:"imageUrl"`
}

// Playlist is the public playlist shape returned to clients.
type Playlist struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ImageURL    *string `json:"imageUrl"`
	TrackCount  int     `json:"trackCount"`
	SpotifyURL  string  `json:"spotifyUrl"`
	URI         string  `json:"uri"`
}

// PlayEvent is one playback occurrence projected from Spotify's recently
// played history. It is ephemeral; only its (date, duration) projection is
// persisted into the listening ledger.
type PlayEvent struct {
	TrackID    string
	PlayedAt   string
	DurationMS int64
}

// ListeningTimePoint is one day of the listening-time series: an ISO date
// and the whole minutes listened that day.
type ListeningTimePoint struct {
	Date    string `json:"date"`
	Minutes int64  `json:"minutes"`
}

// RecommendedTrack is an AI-recommended track enriched via Spotify search.
// NotFound is set when the search produced no match and only the AI-provided
// name survives.
type RecommendedTrack struct {
	ID         string  `json:"id,omitempty"`
	Name       string  `json:"name"`
	Artist     string  `json:"artist,omitempty"`
	Album      string  `json:"album,omitempty"`
	Popularity int     `json:"popularity,omitempty"`
	Duration   int64   `json:"duration,omitempty"`
	PreviewURL string  `json:"previewUrl,omitempty"`
	SpotifyURL string  `json:"spotifyUrl,omitempty"`
	ImageURL   *string `json:"imageUrl,omitempty"`
	NotFound   bool    `json:"notFound,omitempty"`
}

// RecommendedArtist is an AI-recommended artist enriched via Spotify search.
type RecommendedArtist struct {
	ID         string   `json:"id,omitempty"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres,omitempty"`
	Popularity int      `json:"popularity,omitempty"`
	ImageURL   *string  `json:"imageUrl,omitempty"`
	SpotifyURL string   `json:"spotifyUrl,omitempty"`
	NotFound   bool     `json:"notFound,omitempty"`
}

// RecommendedAlbum is an AI-recommended album enriched via Spotify search.
type RecommendedAlbum struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Artist      string  `json:"artist,omitempty"`
	ReleaseDate string  `json:"releaseDate,omitempty"`
	TotalTracks int     `json:"totalTracks,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	SpotifyURL  string  `json:"spotifyUrl,omitempty"`
	NotFound    bool    `json:"notFound,omitempty"`
}

// TasteStats summarizes the user's top tracks numerically for the
// recommendations payload.
type TasteStats struct {
	AvgPopularity int `json:"avgPopularity"`
	AvgEnergy     int `json:"avgEnergy"`
	ExplicitRatio int `json:"explicitRatio"`
}

// UserTaste is the compact taste summary embedded in the recommendations
// payload and fed to the AI prompt.
type UserTaste struct {
	TopArtists []string    `json:"topArtists"`
	TopTracks  []string    `json:"topTracks"`
	Genres     []string    `json:"genres"`
	Stats      *TasteStats `json:"stats,omitempty"`
}

// Recommendations is the full AI recommendations payload returned to
// clients and cached for 24 hours.
type Recommendations struct {
	Patterns           []string            `json:"patterns"`
	RecommendedArtists []RecommendedArtist `json:"recommendedArtists"`
	RecommendedAlbums  []RecommendedAlbum  `json:"recommendedAlbums"`
	RecommendedTracks  []RecommendedTrack  `json:"recommendedTracks"`
	RecommendedGenres  []string            `json:"recommendedGenres"`
	Roast              string              `json:"roast,omitempty"`
	PersonalityReading string              `json:"personalityReading,omitempty"`
	UserTaste          UserTaste           `json:"userTaste"`
}
