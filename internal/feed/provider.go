// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

package feed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/coursecast/coursecast/internal/models"
)

// Provider supplies the initial feed state before realtime updates
// arrive. Swappable so tests and offline development run without a
// server.
type Provider interface {
	Recommendations(ctx context.Context) ([]models.Course, error)
	Trending(ctx context.Context) ([]models.Course, error)
}

// HTTPProvider fetches the initial state from the Coursecast API.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
	token   string
}

// NewHTTPProvider creates a provider against the given API base URL.
// The token, when set, is sent as a Bearer credential.
func NewHTTPProvider(baseURL, token string) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		token:   token,
	}
}

// Recommendations fetches the personalized suggestion list.
func (p *HTTPProvider) Recommendations(ctx context.Context) ([]models.Course, error) {
	var payload struct {
		Recommendations []models.Course `json:"recommendations"`
	}
	if err := p.get(ctx, "/api/v1/recommendations", &payload); err != nil {
		return nil, err
	}
	return payload.Recommendations, nil
}

// Trending fetches the current trending list.
func (p *HTTPProvider) Trending(ctx context.Context) ([]models.Course, error) {
	var payload struct {
		Trending []models.Course `json:"trending"`
	}
	if err := p.get(ctx, "/api/v1/recommendations/trending", &payload); err != nil {
		return nil, err
	}
	return payload.Trending, nil
}

// get performs a GET and decodes the standard response wrapper's data
// field into out.
func (p *HTTPProvider) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %d", path, resp.StatusCode)
	}

	var wrapper struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wrapper); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if wrapper.Status != "success" {
		return fmt.Errorf("fetch %s: status %q", path, wrapper.Status)
	}

	if err := json.Unmarshal(wrapper.Data, out); err != nil {
		return fmt.Errorf("decode %s data: %w", path, err)
	}
	return nil
}

// StaticProvider serves fixed lists. It backs offline development and
// tests, standing in for the remote API.
type StaticProvider struct {
	RecommendationList []models.Course
	TrendingList       []models.Course

	// Err, when set, is returned by both fetches.
	Err error
}

// Recommendations returns the fixed suggestion list.
func (p *StaticProvider) Recommendations(_ context.Context) ([]models.Course, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return p.RecommendationList, nil
}

// Trending returns the fixed trending list.
func (p *StaticProvider) Trending(_ context.Context) ([]models.Course, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return p.TrendingList, nil
}
