// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

package algorithms

import (
	"context"
	"math/rand"
	"sync"

	"github.com/coursecast/coursecast/internal/recommend"
)

// Explore implements epsilon-greedy diversification. Unseen courses are
// ranked by rating as a quality prior, and with probability epsilon a
// candidate receives a uniform random score instead. Blended into the
// hybrid ranking, this surfaces courses the exploitation methods would
// never show.
type Explore struct {
	epsilon float64

	mu  sync.Mutex
	rng *rand.Rand
}

// ExploreConfig configures the explore method.
type ExploreConfig struct {
	// Epsilon is the random-score probability per candidate (0-1).
	// Default 0.1.
	Epsilon float64

	// Seed fixes the random source, for tests. Zero means a
	// time-derived seed.
	Seed int64
}

// NewExplore creates the epsilon-greedy exploration method.
func NewExplore(cfg ExploreConfig) *Explore {
	if cfg.Epsilon <= 0 || cfg.Epsilon > 1 {
		cfg.Epsilon = 0.1
	}

	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // non-cryptographic use
	} else {
		rng = rand.New(rand.NewSource(rand.Int63())) //nolint:gosec // non-cryptographic use
	}

	return &Explore{
		epsilon: cfg.Epsilon,
		rng:     rng,
	}
}

// Name returns the method identifier.
func (a *Explore) Name() string { return "explore" }

// Score assigns rating-based scores to unseen courses, randomizing a
// fraction of them.
func (a *Explore) Score(ctx context.Context, userID int, data *recommend.Dataset) (map[int]float64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	scores := make(map[int]float64)
	for _, c := range data.Courses {
		if contextCancelled(ctx) {
			return nil, ctx.Err()
		}
		if data.SeenBy(userID, c.ID) {
			continue
		}

		if a.rng.Float64() < a.epsilon {
			scores[c.ID] = a.rng.Float64() * 5
		} else {
			scores[c.ID] = c.Rating
		}
	}

	return scores, nil
}
