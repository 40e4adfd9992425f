// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

package algorithms

import (
	"context"
	"testing"
	"time"

	"github.com/coursecast/coursecast/internal/models"
	"github.com/coursecast/coursecast/internal/recommend"
)

func testDataset() *recommend.Dataset {
	courses := []models.Course{
		{ID: 1, Title: "Machine Learning Fundamentals", Category: "Data Science", Difficulty: "beginner", Rating: 4.5, Tags: []string{"ml", "python"}},
		{ID: 2, Title: "Deep Learning with PyTorch", Category: "Data Science", Difficulty: "advanced", Rating: 4.7, Tags: []string{"ml", "pytorch"}},
		{ID: 3, Title: "Intro to Go", Category: "Programming", Difficulty: "beginner", Rating: 4.4, Tags: []string{"go"}},
		{ID: 4, Title: "SQL for Data Analysis", Category: "Data Science", Difficulty: "intermediate", Rating: 4.2, Tags: []string{"sql", "python"}},
		{ID: 5, Title: "UX Design Essentials", Category: "Design", Difficulty: "beginner", Rating: 4.0, Tags: []string{"figma"}},
	}

	now := time.Now()
	interactions := []models.Interaction{
		// User 1 is into Data Science.
		{UserID: 1, CourseID: 1, Type: models.InteractionComplete, Timestamp: now.Add(-48 * time.Hour)},
		// User 2 shares course 1 with user 1 and also likes course 2.
		{UserID: 2, CourseID: 1, Type: models.InteractionEnroll, Timestamp: now.Add(-24 * time.Hour)},
		{UserID: 2, CourseID: 2, Type: models.InteractionComplete, Timestamp: now.Add(-12 * time.Hour)},
		// User 3 only touches Go.
		{UserID: 3, CourseID: 3, Type: models.InteractionView, Timestamp: now.Add(-time.Hour)},
	}

	return recommend.NewDataset(courses, interactions)
}

func TestCollaborativeScoresCoRatedCourses(t *testing.T) {
	data := testDataset()
	method := NewCollaborative()

	scores, err := method.Score(context.Background(), 1, data)
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}

	// User 2 interacted with both course 1 and course 2, so course 2
	// should score for user 1. Course 1 itself is excluded as seen.
	if _, seen := scores[1]; seen {
		t.Error("seen courses must not be scored")
	}
	if scores[2] <= 0 {
		t.Errorf("expected positive score for co-rated course 2, got %f", scores[2])
	}
	// Course 5 has no interactions; no basis for correlation.
	if _, ok := scores[5]; ok {
		t.Error("courses without interactions should be unscored")
	}
}

func TestCollaborativeColdStart(t *testing.T) {
	data := testDataset()
	method := NewCollaborative()

	scores, err := method.Score(context.Background(), 99, data)
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("user without history should get empty scores, got %d", len(scores))
	}
}

func TestContentPrefersProfileCategory(t *testing.T) {
	data := testDataset()
	method := NewContent()

	scores, err := method.Score(context.Background(), 1, data)
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}

	// User 1's profile is pure Data Science. Course 4 (same category,
	// shared python tag, one difficulty step up) should outrank course
	// 5 (different category, no shared tags).
	if scores[4] <= scores[5] {
		t.Errorf("expected course 4 (%f) above course 5 (%f)", scores[4], scores[5])
	}
	if _, seen := scores[1]; seen {
		t.Error("seen courses must not be scored")
	}
}

func TestContentColdStart(t *testing.T) {
	scores, err := NewContent().Score(context.Background(), 99, testDataset())
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("expected empty scores for unknown user, got %d", len(scores))
	}
}

func TestPopularityDecaysWithAge(t *testing.T) {
	now := time.Now()
	courses := []models.Course{{ID: 1}, {ID: 2}}
	interactions := []models.Interaction{
		{UserID: 10, CourseID: 1, Type: models.InteractionEnroll, Timestamp: now.Add(-90 * 24 * time.Hour)},
		{UserID: 11, CourseID: 2, Type: models.InteractionEnroll, Timestamp: now.Add(-time.Hour)},
	}
	data := recommend.NewDataset(courses, interactions)

	method := NewPopularity(PopularityConfig{HalfLifeDays: 30, Now: func() time.Time { return now }})

	scores, err := method.Score(context.Background(), 99, data)
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}

	// Same interaction type, 90 days apart: three half-lives of decay.
	if scores[2] <= scores[1] {
		t.Errorf("recent activity should outscore old: %f vs %f", scores[2], scores[1])
	}
	if scores[1] <= 0 {
		t.Error("old interactions should still contribute a positive score")
	}
}

func TestPopularitySkipsSeenCourses(t *testing.T) {
	data := testDataset()
	method := NewPopularity(PopularityConfig{})

	scores, err := method.Score(context.Background(), 1, data)
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}
	if _, seen := scores[1]; seen {
		t.Error("popularity must skip courses the user has seen")
	}
	if scores[3] <= 0 {
		t.Error("unseen active courses should score")
	}
}

func TestExploreScoresAllUnseen(t *testing.T) {
	data := testDataset()
	method := NewExplore(ExploreConfig{Epsilon: 0.1, Seed: 42})

	scores, err := method.Score(context.Background(), 1, data)
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}

	// All four unseen courses get a score; the seen course 1 does not.
	if len(scores) != 4 {
		t.Errorf("expected 4 scored courses, got %d", len(scores))
	}
	if _, seen := scores[1]; seen {
		t.Error("explore must skip seen courses")
	}
	for cid, s := range scores {
		if s < 0 || s > 5 {
			t.Errorf("course %d: score %f outside the 0-5 range", cid, s)
		}
	}
}

func TestExploreDeterministicWithSeed(t *testing.T) {
	data := testDataset()

	first, err := NewExplore(ExploreConfig{Epsilon: 0.5, Seed: 7}).Score(context.Background(), 1, data)
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}
	second, err := NewExplore(ExploreConfig{Epsilon: 0.5, Seed: 7}).Score(context.Background(), 1, data)
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}

	for cid, s := range first {
		if second[cid] != s {
			t.Errorf("course %d: seeded runs differ (%f vs %f)", cid, s, second[cid])
		}
	}
}

func TestMethodsHonorContextCancellation(t *testing.T) {
	data := testDataset()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	methods := []recommend.Method{
		NewCollaborative(),
		NewContent(),
		NewPopularity(PopularityConfig{}),
		NewExplore(ExploreConfig{}),
	}
	for _, m := range methods {
		// User 1 has history, so every method walks the catalog.
		if _, err := m.Score(ctx, 1, data); err == nil {
			t.Errorf("method %s ignored context cancellation", m.Name())
		}
	}
}
