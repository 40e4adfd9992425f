// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

// Package config loads and validates the Coursecast configuration from
// layered sources: built-in defaults, an optional YAML file, and
// environment variables (highest priority).
package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Security  SecurityConfig  `koanf:"security"`
	Feed      FeedConfig      `koanf:"feed"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// APIConfig holds API pagination settings.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds authentication and rate-limit settings.
type SecurityConfig struct {
	// JWTSecret signs session tokens. Required; minimum 32 characters.
	JWTSecret      string        `koanf:"jwt_secret"`
	SessionTimeout time.Duration `koanf:"session_timeout"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// FeedConfig holds realtime feed settings, shared by the server's push
// hub and the feedwatch consumer.
type FeedConfig struct {
	// WSURL is the push channel endpoint the consumer connects to.
	WSURL string `koanf:"ws_url"`

	// APIBaseURL is the HTTP API used for initial feed population.
	APIBaseURL string `koanf:"api_base_url"`

	// NotificationTTL is how long a notification stays visible.
	NotificationTTL time.Duration `koanf:"notification_ttl"`

	// MaxRecommendations caps the suggestion list length.
	MaxRecommendations int `koanf:"max_recommendations"`

	HandshakeTimeout time.Duration `koanf:"handshake_timeout"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	// Method weights for hybrid aggregation.
	CollaborativeWeight float64 `koanf:"collaborative_weight"`
	ContentWeight       float64 `koanf:"content_weight"`
	PopularityWeight    float64 `koanf:"popularity_weight"`
	ExploreWeight       float64 `koanf:"explore_weight"`

	// ExploreEpsilon is the random-pick probability of the explore method.
	ExploreEpsilon float64 `koanf:"explore_epsilon"`

	DefaultLimit int           `koanf:"default_limit"`
	MaxLimit     int           `koanf:"max_limit"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`

	// TrendingInterval is how often trending is recomputed and broadcast.
	TrendingInterval time.Duration `koanf:"trending_interval"`

	// TrendingPeriod is the lookback window: day, week, or month.
	TrendingPeriod string `koanf:"trending_period"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all sensible default values.
// Defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Security: SecurityConfig{
			JWTSecret:       "",
			SessionTimeout:  24 * time.Hour,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Feed: FeedConfig{
			WSURL:              "ws://localhost:8000/api/v1/ws",
			APIBaseURL:         "http://localhost:8000",
			NotificationTTL:    5 * time.Second,
			MaxRecommendations: 10,
			HandshakeTimeout:   10 * time.Second,
		},
		Recommend: RecommendConfig{
			CollaborativeWeight: 0.3,
			ContentWeight:       0.2,
			PopularityWeight:    0.2,
			ExploreWeight:       0.3,
			ExploreEpsilon:      0.1,
			DefaultLimit:        10,
			MaxLimit:            50,
			CacheTTL:            5 * time.Minute,
			TrendingInterval:    30 * time.Second,
			TrendingPeriod:      "week",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
