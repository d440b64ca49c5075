// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

package stats

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/nixvy-13/Spot-a-Lyst/internal/ai"
	"github.com/nixvy-13/Spot-a-Lyst/internal/logging"
	"github.com/nixvy-13/Spot-a-Lyst/internal/metrics"
	"github.com/nixvy-13/Spot-a-Lyst/internal/models"
)

// tasteSampleSize is how many top tracks/artists seed the AI prompt.
const tasteSampleSize = 5

// Recommendations returns the AI-generated taste analysis with every
// suggestion enriched against the Spotify catalog. Generation is
// expensive (one model call plus up to fifteen catalog searches), so the
// result is cached for a day.
func (g *Gateway) Recommendations(ctx context.Context, id Identity, force bool) (*models.Recommendations, bool, error) {
	key := recommendationsKey(id.UserID)
	return readThrough(ctx, g, "recommendations", key, force, g.opts.RecommendationsTTL, func() (*models.Recommendations, error) {
		return g.generateRecommendations(ctx, id)
	})
}

func (g *Gateway) generateRecommendations(ctx context.Context, id Identity) (*models.Recommendations, error) {
	topTracksPage, err := g.spotify.GetTopTracks(ctx, id.SpotifyToken, models.TimeRangeMedium, tasteSampleSize)
	if err != nil {
		return nil, fmt.Errorf("taste top tracks: %w", err)
	}
	topArtistsPage, err := g.spotify.GetTopArtists(ctx, id.SpotifyToken, models.TimeRangeMedium, tasteSampleSize)
	if err != nil {
		return nil, fmt.Errorf("taste top artists: %w", err)
	}

	taste, userTaste := buildTaste(topTracksPage.Items, topArtistsPage.Items)
	userTaste.Stats = g.tasteStats(ctx, id, topTracksPage.Items)

	start := g.now()
	insights, err := ai.GenerateInsights(ctx, g.generator, taste)
	if err != nil {
		metrics.RecordAIGeneration("failure", time.Since(start))
		return nil, &AIError{Err: fmt.Errorf("ai insights: %w", err)}
	}
	metrics.RecordAIGeneration("success", time.Since(start))

	result := &models.Recommendations{
		Patterns:           insights.Patterns,
		RecommendedArtists: g.enrichArtists(ctx, id, insights.RecommendedArtists),
		RecommendedAlbums:  g.enrichAlbums(ctx, id, insights.RecommendedAlbums),
		RecommendedTracks:  g.enrichTracks(ctx, id, insights.RecommendedTracks),
		RecommendedGenres:  insights.RecommendedGenres,
		Roast:              insights.Roast,
		PersonalityReading: insights.PersonalityReading,
		UserTaste:          userTaste,
	}
	return result, nil
}

// buildTaste summarizes the top tracks and artists for both the AI
// prompt and the response payload. Genres are the first three distinct
// genres across the top artists.
func buildTaste(tracks []models.SpotifyTrack, artists []models.SpotifyArtist) (ai.TasteProfile, models.UserTaste) {
	profile := ai.TasteProfile{}
	userTaste := models.UserTaste{
		TopArtists: []string{},
		TopTracks:  []string{},
		Genres:     []string{},
	}

	seenGenres := make(map[string]struct{})
	for _, artist := range artists {
		profile.TopArtists = append(profile.TopArtists, ai.ArtistSummary{
			Name:       artist.Name,
			Genres:     artist.Genres,
			Popularity: artist.Popularity,
		})
		userTaste.TopArtists = append(userTaste.TopArtists, artist.Name)

		for _, genre := range artist.Genres {
			if _, ok := seenGenres[genre]; ok {
				continue
			}
			seenGenres[genre] = struct{}{}
			if len(userTaste.Genres) < 3 {
				userTaste.Genres = append(userTaste.Genres, genre)
			}
		}
	}

	for _, track := range tracks {
		artist := joinArtistNames(track.Artists)
		profile.TopTracks = append(profile.TopTracks, ai.TrackSummary{
			Name:       track.Name,
			Artist:     artist,
			Popularity: track.Popularity,
		})
		userTaste.TopTracks = append(userTaste.TopTracks, track.Name+" by "+artist)
	}

	return profile, userTaste
}

// tasteStats computes the numeric taste summary. Audio features are a
// best-effort enrichment: Spotify has been restricting that endpoint, so
// a failure drops avgEnergy to zero instead of failing the whole
// recommendation run.
func (g *Gateway) tasteStats(ctx context.Context, id Identity, tracks []models.SpotifyTrack) *models.TasteStats {
	if len(tracks) == 0 {
		return nil
	}

	var popularitySum, explicitCount int
	trackIDs := make([]string, 0, len(tracks))
	for _, track := range tracks {
		popularitySum += track.Popularity
		if track.Explicit {
			explicitCount++
		}
		trackIDs = append(trackIDs, track.ID)
	}

	stats := &models.TasteStats{
		AvgPopularity: int(math.Round(float64(popularitySum) / float64(len(tracks)))),
		ExplicitRatio: int(math.Round(float64(explicitCount) / float64(len(tracks)) * 100)),
	}

	features, err := g.spotify.GetAudioFeatures(ctx, id.SpotifyToken, trackIDs)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Audio features unavailable, omitting energy stat")
		return stats
	}
	var energySum float64
	var energyCount int
	for _, feature := range features.AudioFeatures {
		if feature.ID == "" {
			continue
		}
		energySum += feature.Energy
		energyCount++
	}
	if energyCount > 0 {
		stats.AvgEnergy = int(math.Round(energySum / float64(energyCount) * 100))
	}
	return stats
}

// enrichArtists resolves AI artist names against the catalog. A name with
// no match keeps only the name and is flagged notFound; a search failure
// is treated the same so one throttled request cannot sink the payload.
func (g *Gateway) enrichArtists(ctx context.Context, id Identity, names []string) []models.RecommendedArtist {
	enriched := make([]models.RecommendedArtist, 0, len(names))
	for _, name := range names {
		result, err := g.spotify.Search(ctx, id.SpotifyToken, name, "artist", 1)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("artist", name).Msg("Artist search failed")
			enriched = append(enriched, models.RecommendedArtist{Name: name, NotFound: true})
			continue
		}
		if result.Artists == nil || len(result.Artists.Items) == 0 {
			enriched = append(enriched, models.RecommendedArtist{Name: name, NotFound: true})
			continue
		}

		artist := result.Artists.Items[0]
		enriched = append(enriched, models.RecommendedArtist{
			ID:         artist.ID,
			Name:       artist.Name,
			Genres:     artist.Genres,
			Popularity: artist.Popularity,
			ImageURL:   firstImageURL(artist.Images),
			SpotifyURL: artist.ExternalURLs.Spotify,
		})
	}
	return enriched
}

func (g *Gateway) enrichAlbums(ctx context.Context, id Identity, names []string) []models.RecommendedAlbum {
	enriched := make([]models.RecommendedAlbum, 0, len(names))
	for _, name := range names {
		result, err := g.spotify.Search(ctx, id.SpotifyToken, name, "album", 1)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("album", name).Msg("Album search failed")
			enriched = append(enriched, models.RecommendedAlbum{Name: name, NotFound: true})
			continue
		}
		if result.Albums == nil || len(result.Albums.Items) == 0 {
			enriched = append(enriched, models.RecommendedAlbum{Name: name, NotFound: true})
			continue
		}

		album := result.Albums.Items[0]
		enriched = append(enriched, models.RecommendedAlbum{
			ID:          album.ID,
			Name:        album.Name,
			Artist:      joinArtistNames(album.Artists),
			ReleaseDate: album.ReleaseDate,
			TotalTracks: album.TotalTracks,
			ImageURL:    firstImageURL(album.Images),
			SpotifyURL:  album.ExternalURLs.Spotify,
		})
	}
	return enriched
}

func (g *Gateway) enrichTracks(ctx context.Context, id Identity, suggestions []ai.TrackSuggestion) []models.RecommendedTrack {
	enriched := make([]models.RecommendedTrack, 0, len(suggestions))
	for _, suggestion := range suggestions {
		query := suggestion.Name
		if suggestion.Artist != "" {
			query += " artist:" + suggestion.Artist
		}

		result, err := g.spotify.Search(ctx, id.SpotifyToken, query, "track", 1)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("track", suggestion.Name).Msg("Track search failed")
			enriched = append(enriched, models.RecommendedTrack{Name: suggestion.Name, Artist: suggestion.Artist, NotFound: true})
			continue
		}
		if result.Tracks == nil || len(result.Tracks.Items) == 0 {
			enriched = append(enriched, models.RecommendedTrack{Name: suggestion.Name, Artist: suggestion.Artist, NotFound: true})
			continue
		}

		track := result.Tracks.Items[0]
		enriched = append(enriched, models.RecommendedTrack{
			ID:         track.ID,
			Name:       track.Name,
			Artist:     joinArtistNames(track.Artists),
			Album:      track.Album.Name,
			Popularity: track.Popularity,
			Duration:   track.DurationMS,
			PreviewURL: track.PreviewURL,
			SpotifyURL: track.ExternalURLs.Spotify,
			ImageURL:   firstImageURL(track.Album.Images),
		})
	}
	return enriched
}
