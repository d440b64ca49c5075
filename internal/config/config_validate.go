// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// minJWTSecretLength is the minimum acceptable JWT secret length.
// 32 characters gives at least 256 bits of entropy for HS256.
const minJWTSecretLength = 32

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSpotify(); err != nil {
		return err
	}

	if err := c.validateAI(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateStats(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Server.RateLimitReqs)
	}
	if c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.Server.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateSpotify() error {
	if c.Spotify.BaseURL == "" {
		return fmt.Errorf("SPOTIFY_BASE_URL is required")
	}
	if err := validateHTTPURL(c.Spotify.BaseURL, "SPOTIFY_BASE_URL"); err != nil {
		return err
	}
	if c.Spotify.SearchRPS <= 0 {
		return fmt.Errorf("SPOTIFY_SEARCH_RPS must be positive, got %v", c.Spotify.SearchRPS)
	}
	return nil
}

func (c *Config) validateAI() error {
	if c.AI.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.AI.Model == "" {
		return fmt.Errorf("GEMINI_MODEL must not be empty")
	}
	return validateHTTPURL(c.AI.BaseURL, "GEMINI_BASE_URL")
}

func (c *Config) validateSecurity() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters, got %d", minJWTSecretLength, len(c.Security.JWTSecret))
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive, got %s", c.Security.SessionTimeout)
	}
	return nil
}

func (c *Config) validateStats() error {
	if c.Stats.StatsTTL <= 0 {
		return fmt.Errorf("STATS_TTL must be positive, got %s", c.Stats.StatsTTL)
	}
	if c.Stats.RecommendationsTTL <= 0 {
		return fmt.Errorf("RECOMMENDATIONS_TTL must be positive, got %s", c.Stats.RecommendationsTTL)
	}
	if c.Stats.RefreshConcurrency < 1 {
		return fmt.Errorf("REFRESH_CONCURRENCY must be at least 1, got %d", c.Stats.RefreshConcurrency)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, fatal, panic; got %q", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}

	return nil
}

// validateHTTPURL checks that the value parses as an absolute http(s) URL.
func validateHTTPURL(raw, name string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https scheme, got %q", name, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host", name)
	}
	return nil
}
