// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-json"

	"github.com/nixvy-13/Spot-a-Lyst/internal/logging"
)

// TrackSuggestion is one AI-suggested track by name, optionally with an
// artist hint for the catalog search that follows.
type TrackSuggestion struct {
	Name   string `json:"name"`
	Artist string `json:"artist,omitempty"`
}

// Insights is the parsed model answer before Spotify enrichment. Artist
// and album suggestions are bare names; the stats layer resolves them
// against the catalog.
type Insights struct {
	Patterns           []string          `json:"patterns"`
	RecommendedTracks  []TrackSuggestion `json:"recommendedTracks"`
	RecommendedArtists []string          `json:"recommendedArtists"`
	RecommendedAlbums  []string          `json:"recommendedAlbums"`
	RecommendedGenres  []string          `json:"recommendedGenres"`
	Roast              string            `json:"roast"`
	PersonalityReading string            `json:"personalityReading"`
}

// TasteProfile is the compact listening summary fed into the prompt.
type TasteProfile struct {
	TopArtists []ArtistSummary `json:"topArtists"`
	TopTracks  []TrackSummary  `json:"topTracks"`
}

// ArtistSummary describes one top artist for the prompt.
type ArtistSummary struct {
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
}

// TrackSummary describes one top track for the prompt.
type TrackSummary struct {
	Name       string `json:"name"`
	Artist     string `json:"artist"`
	Popularity int    `json:"popularity"`
}

// GenerateInsights prompts the model with the user's taste profile and
// parses the reply. A malformed reply degrades to FallbackInsights
// rather than failing the request: the enrichment pipeline and the
// cached payload shape stay intact either way.
func GenerateInsights(ctx context.Context, generator GeneratorInterface, taste TasteProfile) (*Insights, error) {
	prompt, err := buildPrompt(taste)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	raw, err := generator.GenerateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate insights: %w", err)
	}

	insights, err := ParseInsights(raw)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("raw_response", truncate(raw, 512)).Msg("Failed to parse model response, using fallback insights")
		return FallbackInsights(), nil
	}
	return insights, nil
}

func buildPrompt(taste TasteProfile) (string, error) {
	artists, err := json.Marshal(taste.TopArtists)
	if err != nil {
		return "", err
	}
	tracks, err := json.Marshal(taste.TopTracks)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("As a music expert AI, analyze this user's listening preferences:\n\n")
	fmt.Fprintf(&b, "Top Artists: %s\n", artists)
	fmt.Fprintf(&b, "Top Tracks: %s\n\n", tracks)
	b.WriteString(`Based on this data:
1. What musical patterns do you notice in their taste?
2. Recommend 5 specific tracks they might enjoy
3. Recommend 5 specific artists they might enjoy that aren't in their top artists
4. Recommend 5 specific albums they might enjoy
5. Suggest 3-5 genres they might like to explore
6. Write a short playful roast of their music taste
7. Write a short personality reading based on their taste

Return your response as a clean JSON object with these fields only:
{
  "patterns": ["pattern1", "pattern2", ...],
  "recommendedTracks": [{"name": "track name", "artist": "artist name"}, ...],
  "recommendedArtists": ["artist1", "artist2", ...],
  "recommendedAlbums": ["album1", "album2", ...],
  "recommendedGenres": ["genre1", "genre2", ...],
  "roast": "one paragraph",
  "personalityReading": "one paragraph"
}

IMPORTANT: Return ONLY the JSON with no explanations, no backticks, and no markdown formatting.
Just the raw JSON data.
`)
	return b.String(), nil
}

var fencedJSONPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ExtractJSON strips markdown code fences from a model reply. Models
// regularly wrap JSON in ``` fences despite instructions not to, so the
// parser tolerates both fenced and bare output.
func ExtractJSON(text string) string {
	if strings.Contains(text, "```") {
		if match := fencedJSONPattern.FindStringSubmatch(text); len(match) > 1 {
			return strings.TrimSpace(match[1])
		}
	}
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

// ParseInsights decodes a model reply into Insights, tolerating fenced
// output and normalizing nil slices so downstream enrichment never
// range-checks for null.
func ParseInsights(raw string) (*Insights, error) {
	var insights Insights
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &insights); err != nil {
		return nil, fmt.Errorf("parse insights: %w", err)
	}

	if insights.Patterns == nil {
		insights.Patterns = []string{}
	}
	if insights.RecommendedTracks == nil {
		insights.RecommendedTracks = []TrackSuggestion{}
	}
	if insights.RecommendedArtists == nil {
		insights.RecommendedArtists = []string{}
	}
	if insights.RecommendedAlbums == nil {
		insights.RecommendedAlbums = []string{}
	}
	if insights.RecommendedGenres == nil {
		insights.RecommendedGenres = []string{}
	}
	return &insights, nil
}

// FallbackInsights is the payload used when the model's reply cannot be
// parsed. The empty slices keep the response shape stable for clients.
func FallbackInsights() *Insights {
	return &Insights{
		Patterns:           []string{"Based on your listening history"},
		RecommendedTracks:  []TrackSuggestion{},
		RecommendedArtists: []string{},
		RecommendedAlbums:  []string{},
		RecommendedGenres:  []string{},
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
