// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

package algorithms

import (
	"context"
	"math"
	"time"

	"github.com/coursecast/coursecast/internal/recommend"
)

// Popularity scores courses by time-decayed interaction weight. It is
// the cold-start baseline: it needs no user history and always produces
// a full ranking.
//
//	score(c) = sum over interactions i with c of weight(i) * 0.5^(age_days/half_life)
type Popularity struct {
	halfLifeDays float64
	now          func() time.Time
}

// PopularityConfig configures the popularity method.
type PopularityConfig struct {
	// HalfLifeDays is the exponential decay half-life. Default 30.
	HalfLifeDays float64

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// NewPopularity creates the popularity baseline method.
func NewPopularity(cfg PopularityConfig) *Popularity {
	if cfg.HalfLifeDays <= 0 {
		cfg.HalfLifeDays = 30
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Popularity{
		halfLifeDays: cfg.HalfLifeDays,
		now:          cfg.Now,
	}
}

// Name returns the method identifier.
func (a *Popularity) Name() string { return "popularity" }

// Score computes decayed popularity for courses the user has not seen.
func (a *Popularity) Score(ctx context.Context, userID int, data *recommend.Dataset) (map[int]float64, error) {
	now := a.now()

	scores := make(map[int]float64)
	for _, in := range data.Interactions {
		if contextCancelled(ctx) {
			return nil, ctx.Err()
		}
		if data.SeenBy(userID, in.CourseID) {
			continue
		}
		ageDays := now.Sub(in.Timestamp).Hours() / 24
		if ageDays < 0 {
			ageDays = 0
		}
		decay := math.Pow(0.5, ageDays/a.halfLifeDays)
		scores[in.CourseID] += in.Type.Weight() * decay
	}

	return scores, nil
}
