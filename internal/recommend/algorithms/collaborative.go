// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

package algorithms

import (
	"context"
	"math"

	"github.com/coursecast/coursecast/internal/recommend"
)

// Collaborative implements item-based collaborative filtering.
//
// Courses are represented as vectors over users, weighted by interaction
// strength. A candidate course is scored by its cosine similarity to the
// courses the user has already interacted with:
//
//	score(c) = sum over u's courses i of cos(c, i) * weight(u, i)
//
// Users without history get an empty result; the engine falls back to
// the other methods for cold starts.
type Collaborative struct{}

// NewCollaborative creates the item-based collaborative filtering method.
func NewCollaborative() *Collaborative {
	return &Collaborative{}
}

// Name returns the method identifier.
func (a *Collaborative) Name() string { return "collaborative" }

// Score computes similarity-weighted scores for courses the user has not
// yet interacted with.
func (a *Collaborative) Score(ctx context.Context, userID int, data *recommend.Dataset) (map[int]float64, error) {
	userItems, ok := data.UserItems[userID]
	if !ok || len(userItems) == 0 {
		return map[int]float64{}, nil
	}

	// Invert the user-item matrix: courseID -> userID -> weight.
	itemUsers := make(map[int]map[int]float64)
	for uid, items := range data.UserItems {
		for cid, w := range items {
			vec, ok := itemUsers[cid]
			if !ok {
				vec = make(map[int]float64)
				itemUsers[cid] = vec
			}
			vec[uid] = w
		}
	}

	norms := make(map[int]float64, len(itemUsers))
	for cid, vec := range itemUsers {
		norms[cid] = vectorNorm(vec)
	}

	scores := make(map[int]float64)
	for _, c := range data.Courses {
		if contextCancelled(ctx) {
			return nil, ctx.Err()
		}
		if _, seen := userItems[c.ID]; seen {
			continue
		}
		candidate, ok := itemUsers[c.ID]
		if !ok {
			continue // no interactions at all, nothing to correlate
		}

		var score float64
		for cid, weight := range userItems {
			rated, ok := itemUsers[cid]
			if !ok {
				continue
			}
			sim := cosine(candidate, rated, norms[c.ID], norms[cid])
			score += sim * weight
		}
		if score > 0 {
			scores[c.ID] = score
		}
	}

	return scores, nil
}

// cosine computes cosine similarity between two sparse vectors with
// precomputed norms.
func cosine(a, b map[int]float64, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}

	// Iterate the smaller vector.
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot float64
	for k, va := range a {
		if vb, ok := b[k]; ok {
			dot += va * vb
		}
	}
	return dot / (normA * normB)
}

func vectorNorm(v map[int]float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// contextCancelled reports whether the context has been cancelled.
func contextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
