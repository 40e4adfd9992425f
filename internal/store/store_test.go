// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

package store

import (
	"errors"
	"testing"
	"time"

	"github.com/coursecast/coursecast/internal/models"
)

func seededStore(t *testing.T) *Store {
	t.Helper()
	s := New()
	s.SeedCourses()
	return s
}

func TestCourseCRUD(t *testing.T) {
	s := New()

	created := s.CreateCourse(models.Course{Title: "Intro to Go", Category: "Programming"})
	if created.ID == 0 {
		t.Fatal("create should assign an ID")
	}

	got, err := s.GetCourse(created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Title != "Intro to Go" {
		t.Errorf("unexpected title %q", got.Title)
	}

	got.Title = "Intro to Go, 2nd Edition"
	if err := s.UpdateCourse(got); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	updated, _ := s.GetCourse(created.ID)
	if updated.Title != "Intro to Go, 2nd Edition" {
		t.Error("update did not persist")
	}

	if err := s.DeleteCourse(created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := s.GetCourse(created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	if err := s.UpdateCourse(models.Course{ID: 999}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown update, got %v", err)
	}
	if err := s.DeleteCourse(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown delete, got %v", err)
	}
}

func TestListCoursesFiltering(t *testing.T) {
	s := seededStore(t)

	all, total := s.ListCourses(CourseFilter{Limit: 100})
	if total != 12 || len(all) != 12 {
		t.Fatalf("expected 12 seeded courses, got %d (total %d)", len(all), total)
	}

	// IDs ascending.
	for i := 1; i < len(all); i++ {
		if all[i].ID <= all[i-1].ID {
			t.Fatal("courses should be ordered by ID")
		}
	}

	beginner, _ := s.ListCourses(CourseFilter{Difficulty: "beginner", Limit: 100})
	for _, c := range beginner {
		if c.Difficulty != "beginner" {
			t.Errorf("difficulty filter leaked course %q (%s)", c.Title, c.Difficulty)
		}
	}

	matches, total := s.ListCourses(CourseFilter{Search: "go", Limit: 100})
	if total == 0 {
		t.Error("search for 'go' should match seeded courses")
	}
	for _, c := range matches {
		if !containsFold(c, "go") {
			t.Errorf("search leaked course %q", c.Title)
		}
	}
}

// containsFold mirrors the search fields used by matchesSearch.
func containsFold(c models.Course, q string) bool {
	return matchesSearch(c, q)
}

func TestListCoursesPagination(t *testing.T) {
	s := seededStore(t)

	page1, total := s.ListCourses(CourseFilter{Limit: 5})
	if total != 12 {
		t.Errorf("total should report all matches, got %d", total)
	}
	if len(page1) != 5 {
		t.Fatalf("expected 5 courses, got %d", len(page1))
	}

	page2, _ := s.ListCourses(CourseFilter{Limit: 5, Offset: 5})
	if len(page2) != 5 {
		t.Fatalf("expected 5 courses on page 2, got %d", len(page2))
	}
	if page1[0].ID == page2[0].ID {
		t.Error("pages should not overlap")
	}

	tail, _ := s.ListCourses(CourseFilter{Limit: 5, Offset: 10})
	if len(tail) != 2 {
		t.Errorf("expected 2 courses on the last page, got %d", len(tail))
	}

	past, _ := s.ListCourses(CourseFilter{Limit: 5, Offset: 50})
	if len(past) != 0 {
		t.Errorf("offset past the end should return empty, got %d", len(past))
	}
}

func TestUserUniqueness(t *testing.T) {
	s := New()

	u, err := s.CreateUser(models.User{Username: "Alice", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	// Username uniqueness is case-insensitive.
	if _, err := s.CreateUser(models.User{Username: "alice"}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	byName, err := s.GetUserByUsername("ALICE")
	if err != nil {
		t.Fatalf("lookup by username failed: %v", err)
	}
	if byName.ID != u.ID {
		t.Error("case-insensitive lookup should find the same user")
	}
}

func TestRecordInteractionValidation(t *testing.T) {
	s := seededStore(t)

	err := s.RecordInteraction(models.Interaction{UserID: 1, CourseID: 1, Type: "view"})
	if err != nil {
		t.Fatalf("valid interaction rejected: %v", err)
	}

	// Timestamp defaults to now.
	all := s.AllInteractions()
	if len(all) != 1 || all[0].Timestamp.IsZero() {
		t.Error("interaction timestamp should default to the current time")
	}

	if err := s.RecordInteraction(models.Interaction{UserID: 1, CourseID: 999, Type: "view"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown course should return ErrNotFound, got %v", err)
	}
	if err := s.RecordInteraction(models.Interaction{UserID: 1, CourseID: 1, Type: "teleport"}); err == nil {
		t.Error("unknown interaction type should be rejected")
	}
}

func TestInteractionsSince(t *testing.T) {
	s := seededStore(t)
	now := time.Now()

	_ = s.RecordInteraction(models.Interaction{UserID: 1, CourseID: 1, Type: "view", Timestamp: now.Add(-48 * time.Hour)})
	_ = s.RecordInteraction(models.Interaction{UserID: 1, CourseID: 2, Type: "view", Timestamp: now.Add(-time.Hour)})

	recent := s.InteractionsSince(now.Add(-24 * time.Hour))
	if len(recent) != 1 || recent[0].CourseID != 2 {
		t.Errorf("expected only the recent interaction, got %+v", recent)
	}
}

func TestLearningListLifecycle(t *testing.T) {
	s := seededStore(t)

	entry, err := s.AddToLearningList(1, 3)
	if err != nil {
		t.Fatalf("enroll failed: %v", err)
	}
	if entry.Progress != 0 || entry.Completed {
		t.Error("new enrollment should start at zero progress")
	}

	if _, err := s.AddToLearningList(1, 3); !errors.Is(err, ErrDuplicate) {
		t.Errorf("double enrollment should return ErrDuplicate, got %v", err)
	}
	if _, err := s.AddToLearningList(1, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown course should return ErrNotFound, got %v", err)
	}

	updated, err := s.UpdateProgress(1, 3, 40)
	if err != nil {
		t.Fatalf("progress update failed: %v", err)
	}
	if updated.Progress != 40 || updated.Completed {
		t.Errorf("unexpected entry after update: %+v", updated)
	}

	done, err := s.UpdateProgress(1, 3, 100)
	if err != nil {
		t.Fatalf("progress update failed: %v", err)
	}
	if !done.Completed {
		t.Error("progress 100 should mark the course completed")
	}

	if _, err := s.UpdateProgress(1, 3, 150); err == nil {
		t.Error("progress above 100 should be rejected")
	}

	list := s.LearningList(1)
	if len(list) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(list))
	}

	if err := s.RemoveFromLearningList(1, 3); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := s.RemoveFromLearningList(1, 3); !errors.Is(err, ErrNotFound) {
		t.Errorf("second remove should return ErrNotFound, got %v", err)
	}
}

func TestCoursesByIDsSkipsUnknown(t *testing.T) {
	s := seededStore(t)

	courses := s.CoursesByIDs([]int{1, 999, 3})
	if len(courses) != 2 {
		t.Errorf("expected 2 known courses, got %d", len(courses))
	}
}

func TestSeedDemoActivity(t *testing.T) {
	s := seededStore(t)
	s.SeedDemoActivity()

	if len(s.AllInteractions()) == 0 {
		t.Error("demo seed should record interactions")
	}
}
