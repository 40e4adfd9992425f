// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

package store

import (
	"time"

	"github.com/coursecast/coursecast/internal/models"
)

// SeedCourses populates the store with the starter catalog. Used for
// local development and as the fallback dataset when no external
// catalog source is configured.
func (s *Store) SeedCourses() {
	for _, c := range sampleCourses() {
		s.CreateCourse(c)
	}
}

// SeedDemoActivity records synthetic interactions spread over the last
// month so the recommendation engine and trending list have signal on a
// fresh instance.
func (s *Store) SeedDemoActivity() {
	now := time.Now()

	// userID -> interacted courseIDs, weighted towards a few popular courses.
	activity := []struct {
		userID   int
		courseID int
		kind     models.InteractionType
		age      time.Duration
	}{
		{101, 1, models.InteractionEnroll, 2 * 24 * time.Hour},
		{101, 2, models.InteractionView, 2 * 24 * time.Hour},
		{101, 5, models.InteractionComplete, 20 * 24 * time.Hour},
		{102, 1, models.InteractionEnroll, 3 * 24 * time.Hour},
		{102, 3, models.InteractionBookmark, 5 * 24 * time.Hour},
		{102, 5, models.InteractionEnroll, 12 * 24 * time.Hour},
		{103, 1, models.InteractionView, 12 * time.Hour},
		{103, 2, models.InteractionEnroll, 36 * time.Hour},
		{103, 7, models.InteractionView, 6 * 24 * time.Hour},
		{104, 4, models.InteractionEnroll, 4 * 24 * time.Hour},
		{104, 6, models.InteractionView, 4 * 24 * time.Hour},
		{104, 1, models.InteractionRate, 8 * 24 * time.Hour},
		{105, 8, models.InteractionEnroll, 24 * time.Hour},
		{105, 9, models.InteractionView, 24 * time.Hour},
		{105, 2, models.InteractionEnroll, 10 * 24 * time.Hour},
	}

	for _, a := range activity {
		_ = s.RecordInteraction(models.Interaction{
			UserID:    a.userID,
			CourseID:  a.courseID,
			Type:      a.kind,
			Timestamp: now.Add(-a.age),
		})
	}
}

func sampleCourses() []models.Course {
	return []models.Course{
		{
			Title:       "Machine Learning Fundamentals",
			Description: "Supervised and unsupervised learning from first principles, with hands-on model building.",
			Category:    "data-science",
			Difficulty:  "intermediate",
			Instructor:  "Dr. Sarah Chen",
			Duration:    720,
			Tags:        []string{"python", "ml", "statistics"},
			Price:       49.99,
			Rating:      4.7,
			Students:    12840,
		},
		{
			Title:       "Deep Learning with PyTorch",
			Description: "Neural networks, CNNs, and transformers built from scratch in PyTorch.",
			Category:    "data-science",
			Difficulty:  "advanced",
			Instructor:  "Dr. Sarah Chen",
			Duration:    960,
			Tags:        []string{"python", "pytorch", "deep-learning"},
			Price:       69.99,
			Rating:      4.8,
			Students:    8430,
		},
		{
			Title:       "Intro to Go",
			Description: "The Go programming language for working developers: syntax, tooling, and concurrency.",
			Category:    "programming",
			Difficulty:  "beginner",
			Instructor:  "Miguel Alvarez",
			Duration:    480,
			Tags:        []string{"go", "backend", "concurrency"},
			Price:       29.99,
			Rating:      4.6,
			Students:    15620,
		},
		{
			Title:       "Intro to Rust",
			Description: "Ownership, borrowing, and fearless concurrency for systems programming newcomers.",
			Category:    "programming",
			Difficulty:  "beginner",
			Instructor:  "Miguel Alvarez",
			Duration:    540,
			Tags:        []string{"rust", "systems", "memory-safety"},
			Price:       29.99,
			Rating:      4.5,
			Students:    9210,
		},
		{
			Title:       "Distributed Systems Design",
			Description: "Consensus, replication, and partition tolerance with real-world case studies.",
			Category:    "programming",
			Difficulty:  "advanced",
			Instructor:  "Priya Raghavan",
			Duration:    840,
			Tags:        []string{"distributed-systems", "architecture", "consensus"},
			Price:       59.99,
			Rating:      4.9,
			Students:    6780,
		},
		{
			Title:       "Kubernetes in Production",
			Description: "Deploying, scaling, and operating containerized workloads on Kubernetes.",
			Category:    "cloud",
			Difficulty:  "intermediate",
			Instructor:  "James Okafor",
			Duration:    600,
			Tags:        []string{"kubernetes", "devops", "containers"},
			Price:       54.99,
			Rating:      4.6,
			Students:    11050,
		},
		{
			Title:       "AWS Solutions Architecture",
			Description: "Designing resilient, cost-effective architectures on AWS core services.",
			Category:    "cloud",
			Difficulty:  "intermediate",
			Instructor:  "James Okafor",
			Duration:    780,
			Tags:        []string{"aws", "cloud", "architecture"},
			Price:       64.99,
			Rating:      4.4,
			Students:    13900,
		},
		{
			Title:       "SQL for Data Analysis",
			Description: "Window functions, CTEs, and query optimization for analytical workloads.",
			Category:    "data-science",
			Difficulty:  "beginner",
			Instructor:  "Elena Petrova",
			Duration:    360,
			Tags:        []string{"sql", "analytics", "databases"},
			Price:       24.99,
			Rating:      4.5,
			Students:    18200,
		},
		{
			Title:       "React and TypeScript",
			Description: "Component architecture, hooks, and type-safe state management in modern React.",
			Category:    "web",
			Difficulty:  "intermediate",
			Instructor:  "Dana Whitfield",
			Duration:    660,
			Tags:        []string{"react", "typescript", "frontend"},
			Price:       44.99,
			Rating:      4.6,
			Students:    14310,
		},
		{
			Title:       "UX Design Essentials",
			Description: "Research, wireframing, and usability testing for product teams.",
			Category:    "design",
			Difficulty:  "beginner",
			Instructor:  "Dana Whitfield",
			Duration:    420,
			Tags:        []string{"ux", "design", "research"},
			Price:       34.99,
			Rating:      4.3,
			Students:    7650,
		},
		{
			Title:       "Applied Cryptography",
			Description: "Symmetric and public-key cryptography, TLS, and common implementation pitfalls.",
			Category:    "security",
			Difficulty:  "advanced",
			Instructor:  "Priya Raghavan",
			Duration:    720,
			Tags:        []string{"cryptography", "security", "tls"},
			Price:       59.99,
			Rating:      4.7,
			Students:    5430,
		},
		{
			Title:       "Data Engineering Pipelines",
			Description: "Batch and streaming pipelines with orchestration, testing, and lineage.",
			Category:    "data-science",
			Difficulty:  "intermediate",
			Instructor:  "Elena Petrova",
			Duration:    690,
			Tags:        []string{"etl", "streaming", "data-engineering"},
			Price:       49.99,
			Rating:      4.5,
			Students:    8910,
		},
	}
}
