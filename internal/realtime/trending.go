// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

package realtime

import (
	"context"
	"time"

	"github.com/coursecast/coursecast/internal/logging"
	"github.com/coursecast/coursecast/internal/models"
)

// TrendingSource computes the current trending list. Implemented by the
// recommendation engine.
type TrendingSource interface {
	Trending(ctx context.Context, limit int) ([]models.Course, bool, error)
}

// TrendingBroadcaster periodically recomputes the trending list and
// pushes a trending_update envelope through the hub.
type TrendingBroadcaster struct {
	hub      *Hub
	source   TrendingSource
	interval time.Duration
	limit    int
}

// NewTrendingBroadcaster creates the periodic trending push service.
func NewTrendingBroadcaster(hub *Hub, source TrendingSource, interval time.Duration, limit int) *TrendingBroadcaster {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if limit <= 0 {
		limit = 10
	}
	return &TrendingBroadcaster{
		hub:      hub,
		source:   source,
		interval: interval,
		limit:    limit,
	}
}

// Serve implements suture.Service. It broadcasts on every tick until
// the context is cancelled. Compute failures are logged and skipped;
// the next tick retries naturally.
func (b *TrendingBroadcaster) Serve(ctx context.Context) error {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if b.hub.ClientCount() == 0 {
				continue
			}

			trending, _, err := b.source.Trending(ctx, b.limit)
			if err != nil {
				logging.Error().Err(err).Msg("trending recompute failed")
				continue
			}
			b.hub.BroadcastTrendingUpdate(trending)
		}
	}
}

// String identifies the service in supervisor logs.
func (b *TrendingBroadcaster) String() string {
	return "trending-broadcaster"
}
