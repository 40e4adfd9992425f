// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

package models

import "time"

// Course represents a course in the catalog.
//
// Rating is on a 0-5 scale. Match is the recommendation confidence
// percentage (0-100) and is only populated when the course was sourced
// from the recommendation channel; it is omitted otherwise.
type Course struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"` // beginner, intermediate, advanced
	Instructor  string   `json:"instructor,omitempty"`
	Duration    int      `json:"duration,omitempty"` // minutes
	Tags        []string `json:"tags,omitempty"`
	Price       float64  `json:"price"`
	Rating      float64  `json:"rating"`
	Students    int      `json:"students"`
	ImageURL    string   `json:"image_url,omitempty"`
	Match       int      `json:"match,omitempty"`
}

// InteractionType classifies user-course interactions for implicit feedback.
type InteractionType string

const (
	InteractionView     InteractionType = "view"
	InteractionEnroll   InteractionType = "enroll"
	InteractionComplete InteractionType = "complete"
	InteractionRate     InteractionType = "rate"
	InteractionBookmark InteractionType = "bookmark"
)

// Weight returns the implicit-feedback weight for this interaction type.
// Higher values indicate stronger positive signal.
func (t InteractionType) Weight() float64 {
	switch t {
	case InteractionComplete:
		return 1.0
	case InteractionRate:
		return 0.8
	case InteractionEnroll:
		return 0.6
	case InteractionBookmark:
		return 0.4
	case InteractionView:
		return 0.2
	default:
		return 0.0
	}
}

// Valid reports whether the interaction type is one of the known kinds.
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionView, InteractionEnroll, InteractionComplete, InteractionRate, InteractionBookmark:
		return true
	default:
		return false
	}
}

// Interaction represents a user-course interaction event.
type Interaction struct {
	UserID    int             `json:"user_id"`
	CourseID  int             `json:"course_id"`
	Type      InteractionType `json:"type"`
	Rating    int             `json:"rating,omitempty"` // 1-5, only for InteractionRate
	Timestamp time.Time       `json:"timestamp"`
}

// LearningProgress tracks a user's progress through an enrolled course.
// Progress is a percentage (0-100); Completed is set when it reaches 100.
type LearningProgress struct {
	UserID     int       `json:"user_id"`
	CourseID   int       `json:"course_id"`
	Progress   int       `json:"progress"`
	Completed  bool      `json:"completed"`
	EnrolledAt time.Time `json:"enrolled_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
