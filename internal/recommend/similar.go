// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

package recommend

import (
	"strings"

	"github.com/coursecast/coursecast/internal/models"
)

// Pairwise similarity weights. Category dominates; tags refine; a small
// difficulty term keeps suggestions at a comparable level.
const (
	simCategoryWeight   = 0.5
	simTagWeight        = 0.3
	simDifficultyWeight = 0.2
)

var difficultyRanks = map[string]int{
	"beginner":     0,
	"intermediate": 1,
	"advanced":     2,
}

// difficultyOrder returns the rank of a difficulty name, 0 for unknown.
func difficultyOrder(difficulty string) int {
	return difficultyRanks[strings.ToLower(difficulty)]
}

// CourseSimilarity computes metadata similarity between two courses in
// [0, 1]: category equality, tag Jaccard overlap, and difficulty
// adjacency.
func CourseSimilarity(a, b models.Course) float64 {
	var score float64

	if strings.EqualFold(a.Category, b.Category) {
		score += simCategoryWeight
	}

	score += simTagWeight * tagJaccard(a.Tags, b.Tags)

	diff := difficultyOrder(a.Difficulty) - difficultyOrder(b.Difficulty)
	if diff < 0 {
		diff = -diff
	}
	switch diff {
	case 0:
		score += simDifficultyWeight
	case 1:
		score += simDifficultyWeight / 2
	}

	return score
}

// tagJaccard computes Jaccard overlap of two tag sets, case-insensitively.
func tagJaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[strings.ToLower(t)] = struct{}{}
	}

	intersection := 0
	for _, t := range b {
		if _, ok := set[strings.ToLower(t)]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
