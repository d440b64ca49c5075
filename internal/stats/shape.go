// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

package stats

import (
	"sort"
	"strings"

	"github.com/nixvy-13/Spot-a-Lyst/internal/models"
)

// Field projection from Spotify's wire shapes to the small stable
// contract the presentation layer consumes: artist names joined with
// ", ", image URL taken from the first image element or null.

func joinArtistNames(artists []models.SpotifyArtistRef) string {
	names := make([]string, 0, len(artists))
	for _, artist := range artists {
		names = append(names, artist.Name)
	}
	return strings.Join(names, ", ")
}

func firstImageURL(images []models.SpotifyImage) *string {
	if len(images) == 0 {
		return nil
	}
	url := images[0].URL
	return &url
}

func shapeTopTracks(items []models.SpotifyTrack) []models.Track {
	tracks := make([]models.Track, 0, len(items))
	for _, item := range items {
		tracks = append(tracks, models.Track{
			ID:         item.ID,
			Name:       item.Name,
			Artist:     joinArtistNames(item.Artists),
			Album:      item.Album.Name,
			Popularity: item.Popularity,
			Duration:   item.DurationMS,
			PreviewURL: item.PreviewURL,
			SpotifyURL: item.ExternalURLs.Spotify,
			ImageURL:   firstImageURL(item.Album.Images),
		})
	}
	return tracks
}

func shapeTopArtists(items []models.SpotifyArtist) []models.Artist {
	artists := make([]models.Artist, 0, len(items))
	for _, item := range items {
		genres := item.Genres
		if genres == nil {
			genres = []string{}
		}
		artists = append(artists, models.Artist{
			ID:         item.ID,
			Name:       item.Name,
			Genres:     genres,
			Popularity: item.Popularity,
			ImageURL:   firstImageURL(item.Images),
		})
	}
	return artists
}

func shapeRecentlyPlayed(items []models.SpotifyPlayHistory) []models.Track {
	tracks := make([]models.Track, 0, len(items))
	for _, item := range items {
		tracks = append(tracks, models.Track{
			ID:         item.Track.ID,
			Name:       item.Track.Name,
			Artist:     joinArtistNames(item.Track.Artists),
			Album:      item.Track.Album.Name,
			PlayedAt:   item.PlayedAt,
			Duration:   item.Track.DurationMS,
			SpotifyURL: item.Track.ExternalURLs.Spotify,
			ImageURL:   firstImageURL(item.Track.Album.Images),
		})
	}
	return tracks
}

// groupRecentPlays collapses repeated plays of the same track into one
// entry carrying a play count and the newest playedAt, sorted descending
// by playedAt. Grouping runs after shaping and before caching, so the
// cached JSON already reflects grouped counts.
func groupRecentPlays(tracks []models.Track) []models.Track {
	byID := make(map[string]*models.Track, len(tracks))
	order := make([]string, 0, len(tracks))

	for _, track := range tracks {
		existing, ok := byID[track.ID]
		if !ok {
			grouped := track
			grouped.PlayCount = 1
			byID[track.ID] = &grouped
			order = append(order, track.ID)
			continue
		}
		existing.PlayCount++
		if track.PlayedAt > existing.PlayedAt {
			existing.PlayedAt = track.PlayedAt
		}
	}

	grouped := make([]models.Track, 0, len(order))
	for _, id := range order {
		grouped = append(grouped, *byID[id])
	}
	sort.SliceStable(grouped, func(i, j int) bool {
		return grouped[i].PlayedAt > grouped[j].PlayedAt
	})
	return grouped
}

func shapePlaylists(items []models.SpotifyPlaylist) []models.Playlist {
	playlists := make([]models.Playlist, 0, len(items))
	for _, item := range items {
		playlists = append(playlists, models.Playlist{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			ImageURL:    firstImageURL(item.Images),
			TrackCount:  item.Tracks.Total,
			SpotifyURL:  item.ExternalURLs.Spotify,
			URI:         item.URI,
		})
	}
	return playlists
}

func shapePlaylistTracks(items []models.SpotifyPlaylistTrack) []models.Track {
	tracks := make([]models.Track, 0, len(items))
	for _, item := range items {
		tracks = append(tracks, models.Track{
			ID:         item.Track.ID,
			Name:       item.Track.Name,
			Artist:     joinArtistNames(item.Track.Artists),
			Album:      item.Track.Album.Name,
			Duration:   item.Track.DurationMS,
			SpotifyURL: item.Track.ExternalURLs.Spotify,
			ImageURL:   firstImageURL(item.Track.Album.Images),
		})
	}
	return tracks
}

// playEvents projects play history down to the (track, time, duration)
// triple the ledger pipeline consumes.
func playEvents(items []models.SpotifyPlayHistory) []models.PlayEvent {
	events := make([]models.PlayEvent, 0, len(items))
	for _, item := range items {
		events = append(events, models.PlayEvent{
			TrackID:    item.Track.ID,
			PlayedAt:   item.PlayedAt,
			DurationMS: item.Track.DurationMS,
		})
	}
	return events
}
