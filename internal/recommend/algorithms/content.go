// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

package algorithms

import (
	"context"
	"strings"

	"github.com/coursecast/coursecast/internal/models"
	"github.com/coursecast/coursecast/internal/recommend"
)

// Feature weights for content similarity. Category dominates because it
// is the strongest signal in the catalog metadata.
const (
	categoryWeight   = 0.5
	tagWeight        = 0.3
	difficultyWeight = 0.2
)

// difficultyRank orders difficulties for adjacency scoring.
var difficultyRank = map[string]int{
	"beginner":     0,
	"intermediate": 1,
	"advanced":     2,
}

// Content implements content-based scoring. A user profile is built
// from the metadata of interacted courses (categories, tags, and
// difficulty, weighted by interaction strength), and candidates are
// scored by profile affinity.
type Content struct{}

// NewContent creates the content-based scoring method.
func NewContent() *Content {
	return &Content{}
}

// Name returns the method identifier.
func (a *Content) Name() string { return "content" }

// Score computes metadata affinity scores for unseen courses.
func (a *Content) Score(ctx context.Context, userID int, data *recommend.Dataset) (map[int]float64, error) {
	userItems, ok := data.UserItems[userID]
	if !ok || len(userItems) == 0 {
		return map[int]float64{}, nil
	}

	profile := buildProfile(userItems, data)

	scores := make(map[int]float64)
	for _, c := range data.Courses {
		if contextCancelled(ctx) {
			return nil, ctx.Err()
		}
		if _, seen := userItems[c.ID]; seen {
			continue
		}

		score := categoryWeight*profile.categoryAffinity(c) +
			tagWeight*profile.tagAffinity(c) +
			difficultyWeight*profile.difficultyAffinity(c)
		if score > 0 {
			scores[c.ID] = score
		}
	}

	return scores, nil
}

// userProfile aggregates metadata preferences from interaction history.
type userProfile struct {
	categories map[string]float64
	tags       map[string]float64
	difficulty float64 // weighted mean difficulty rank
	total      float64 // total interaction weight
}

func buildProfile(userItems map[int]float64, data *recommend.Dataset) *userProfile {
	p := &userProfile{
		categories: make(map[string]float64),
		tags:       make(map[string]float64),
	}

	for cid, weight := range userItems {
		c, ok := data.ByID[cid]
		if !ok {
			continue
		}
		p.categories[strings.ToLower(c.Category)] += weight
		for _, tag := range c.Tags {
			p.tags[strings.ToLower(tag)] += weight
		}
		p.difficulty += float64(difficultyRank[strings.ToLower(c.Difficulty)]) * weight
		p.total += weight
	}

	if p.total > 0 {
		p.difficulty /= p.total
	}
	return p
}

// categoryAffinity returns the share of the user's interaction weight in
// the candidate's category (0-1).
func (p *userProfile) categoryAffinity(c models.Course) float64 {
	if p.total == 0 {
		return 0
	}
	return p.categories[strings.ToLower(c.Category)] / p.total
}

// tagAffinity returns the fraction of the candidate's tags the user has
// shown interest in, weighted by interest strength (0-1).
func (p *userProfile) tagAffinity(c models.Course) float64 {
	if len(c.Tags) == 0 || p.total == 0 {
		return 0
	}

	var sum float64
	for _, tag := range c.Tags {
		if w, ok := p.tags[strings.ToLower(tag)]; ok {
			share := w / p.total
			if share > 1 {
				share = 1
			}
			sum += share
		}
	}
	return sum / float64(len(c.Tags))
}

// difficultyAffinity rewards candidates at or one step above the user's
// weighted mean difficulty, modelling natural progression.
func (p *userProfile) difficultyAffinity(c models.Course) float64 {
	rank, ok := difficultyRank[strings.ToLower(c.Difficulty)]
	if !ok {
		return 0
	}

	delta := float64(rank) - p.difficulty
	switch {
	case delta >= 0 && delta <= 1:
		return 1 - delta/2 // same level 1.0, one step up 0.5
	case delta < 0 && delta >= -1:
		return 0.5 // review material, mildly useful
	default:
		return 0
	}
}
