// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

package recommend

import (
	"context"

	"github.com/coursecast/coursecast/internal/models"
)

// Method scores courses for a user. Implementations live in the
// algorithms subpackage and are registered with the engine along with
// a blend weight.
type Method interface {
	// Name returns the method identifier used in metrics and logs.
	Name() string

	// Score returns courseID -> raw score for the given user. Scores are
	// method-relative; the engine normalizes before blending. A user
	// unknown to the method returns an empty map, not an error.
	Score(ctx context.Context, userID int, data *Dataset) (map[int]float64, error)
}

// Dataset is an immutable snapshot of the catalog and interaction
// history handed to scoring methods. Build one per request via
// NewDataset; methods must not mutate it.
type Dataset struct {
	// Courses is the full catalog.
	Courses []models.Course

	// ByID indexes the catalog by course ID.
	ByID map[int]models.Course

	// Interactions is the full event history, oldest first.
	Interactions []models.Interaction

	// UserItems maps userID -> courseID -> accumulated interaction weight.
	UserItems map[int]map[int]float64
}

// NewDataset builds a Dataset from a catalog and interaction history.
func NewDataset(courses []models.Course, interactions []models.Interaction) *Dataset {
	byID := make(map[int]models.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	userItems := make(map[int]map[int]float64)
	for _, in := range interactions {
		items, ok := userItems[in.UserID]
		if !ok {
			items = make(map[int]float64)
			userItems[in.UserID] = items
		}
		items[in.CourseID] += in.Type.Weight()
	}

	return &Dataset{
		Courses:      courses,
		ByID:         byID,
		Interactions: interactions,
		UserItems:    userItems,
	}
}

// SeenBy reports whether the user has already interacted with the course.
func (d *Dataset) SeenBy(userID, courseID int) bool {
	items, ok := d.UserItems[userID]
	if !ok {
		return false
	}
	_, seen := items[courseID]
	return seen
}

// ScoredCourse pairs a course ID with its blended score.
type ScoredCourse struct {
	CourseID int
	Score    float64
}
