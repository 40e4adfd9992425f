// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// minJWTSecretLength is the minimum acceptable JWT secret length in bytes.
// 32 bytes matches the HS256 key size.
const minJWTSecretLength = 32

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateFeed(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates HTTP server configuration.
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.API.DefaultPageSize < 1 || c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be between 1 and API_MAX_PAGE_SIZE (%d)", c.API.MaxPageSize)
	}
	return nil
}

// validateSecurity validates authentication configuration.
func (c *Config) validateSecurity() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive")
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	return nil
}

// validateFeed validates realtime feed configuration.
func (c *Config) validateFeed() error {
	if c.Feed.WSURL == "" {
		return fmt.Errorf("WS_URL is required")
	}
	u, err := url.Parse(c.Feed.WSURL)
	if err != nil {
		return fmt.Errorf("WS_URL is invalid: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss", "http", "https":
	default:
		return fmt.Errorf("WS_URL scheme must be ws, wss, http, or https, got %q", u.Scheme)
	}

	if c.Feed.APIBaseURL != "" {
		bu, err := url.Parse(c.Feed.APIBaseURL)
		if err != nil {
			return fmt.Errorf("API_BASE_URL is invalid: %w", err)
		}
		if bu.Scheme != "http" && bu.Scheme != "https" {
			return fmt.Errorf("API_BASE_URL scheme must be http or https, got %q", bu.Scheme)
		}
	}

	if c.Feed.NotificationTTL <= 0 {
		return fmt.Errorf("NOTIFICATION_TTL must be positive")
	}
	if c.Feed.MaxRecommendations < 1 {
		return fmt.Errorf("MAX_RECOMMENDATIONS must be at least 1")
	}
	return nil
}

// validateRecommend validates recommendation engine configuration.
func (c *Config) validateRecommend() error {
	weights := []struct {
		name  string
		value float64
	}{
		{"RECOMMEND_COLLABORATIVE_WEIGHT", c.Recommend.CollaborativeWeight},
		{"RECOMMEND_CONTENT_WEIGHT", c.Recommend.ContentWeight},
		{"RECOMMEND_POPULARITY_WEIGHT", c.Recommend.PopularityWeight},
		{"RECOMMEND_EXPLORE_WEIGHT", c.Recommend.ExploreWeight},
	}

	sum := 0.0
	for _, w := range weights {
		if w.value < 0 {
			return fmt.Errorf("%s must not be negative", w.name)
		}
		sum += w.value
	}
	if sum <= 0 {
		return fmt.Errorf("recommendation method weights must sum to a positive value")
	}

	if c.Recommend.ExploreEpsilon < 0 || c.Recommend.ExploreEpsilon > 1 {
		return fmt.Errorf("RECOMMEND_EXPLORE_EPSILON must be between 0 and 1")
	}
	if c.Recommend.DefaultLimit < 1 || c.Recommend.DefaultLimit > c.Recommend.MaxLimit {
		return fmt.Errorf("RECOMMEND_DEFAULT_LIMIT must be between 1 and RECOMMEND_MAX_LIMIT (%d)", c.Recommend.MaxLimit)
	}
	if c.Recommend.TrendingInterval <= 0 {
		return fmt.Errorf("TRENDING_INTERVAL must be positive")
	}

	switch strings.ToLower(c.Recommend.TrendingPeriod) {
	case "day", "week", "month":
	default:
		return fmt.Errorf("TRENDING_PERIOD must be day, week, or month, got %q", c.Recommend.TrendingPeriod)
	}

	return nil
}

// validateLogging validates logging configuration.
func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error, fatal, disabled")
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}

	return nil
}

// ListenAddr returns the host:port address the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
