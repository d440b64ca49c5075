// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

// Package ai generates listening-taste insights through the Google
// Gemini generateContent API and parses the model's loosely formatted
// JSON answers into typed insight payloads.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

// DefaultBaseURL is the Gemini REST endpoint root.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// DefaultModel is the Gemini model used for taste analysis.
const DefaultModel = "gemini-2.0-flash"

// GeneratorInterface is the text-generation surface the insight layer
// depends on. Tests stub it; GeminiClient implements it.
type GeneratorInterface interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Ensure GeminiClient implements GeneratorInterface
var _ GeneratorInterface = (*GeminiClient)(nil)

// GeminiClient calls the Gemini generateContent endpoint.
type GeminiClient struct {
	http  *resty.Client
	model string
}

// NewGeminiClient creates a Gemini client. baseURL normally stays
// DefaultBaseURL; tests point it at an httptest server.
func NewGeminiClient(baseURL, apiKey, model string, timeout time.Duration) *GeminiClient {
	if model == "" {
		model = DefaultModel
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetQueryParam("key", apiKey).
		SetHeader("Content-Type", "application/json")

	return &GeminiClient{
		http:  client,
		model: model,
	}
}

// generateContent request/response wire shapes. Only the fields the
// insight layer reads are declared.
type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateText sends a single-part text prompt and returns the first
// candidate's text.
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	body := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/models/" + c.model + ":generateContent")
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	if resp.IsError() {
		return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var parsed generateContentResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("gemini error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
