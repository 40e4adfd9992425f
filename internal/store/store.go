// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

// Package store provides the in-memory data layer for the course catalog,
// user accounts, interaction events, and per-user learning lists.
//
// All methods are safe for concurrent use. IDs are assigned by the store
// and are stable for the process lifetime; there is no persistence.
package store

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/coursecast/coursecast/internal/models"
)

var (
	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a unique constraint would be violated.
	ErrDuplicate = errors.New("already exists")
)

// Store is a mutex-guarded in-memory data store.
type Store struct {
	mu sync.RWMutex

	courses      map[int]models.Course
	nextCourseID int

	users       map[int]models.User
	usersByName map[string]int
	nextUserID  int

	interactions []models.Interaction

	// learning maps userID -> courseID -> progress entry.
	learning map[int]map[int]models.LearningProgress
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		courses:      make(map[int]models.Course),
		nextCourseID: 1,
		users:        make(map[int]models.User),
		usersByName:  make(map[string]int),
		nextUserID:   1,
		learning:     make(map[int]map[int]models.LearningProgress),
	}
}

// CourseFilter narrows ListCourses results. Zero values mean "no filter".
type CourseFilter struct {
	Category   string
	Difficulty string
	Search     string
	Limit      int
	Offset     int
}

// CreateCourse adds a course and returns it with its assigned ID.
func (s *Store) CreateCourse(c models.Course) models.Course {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.nextCourseID
	s.nextCourseID++
	s.courses[c.ID] = c
	return c
}

// GetCourse returns the course with the given ID.
func (s *Store) GetCourse(id int) (models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.courses[id]
	if !ok {
		return models.Course{}, ErrNotFound
	}
	return c, nil
}

// UpdateCourse replaces the stored course with the same ID.
func (s *Store) UpdateCourse(c models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[c.ID]; !ok {
		return ErrNotFound
	}
	s.courses[c.ID] = c
	return nil
}

// DeleteCourse removes a course from the catalog.
func (s *Store) DeleteCourse(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[id]; !ok {
		return ErrNotFound
	}
	delete(s.courses, id)
	return nil
}

// ListCourses returns courses matching the filter, ordered by ID, plus
// the total match count before pagination.
func (s *Store) ListCourses(f CourseFilter) ([]models.Course, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.Course, 0, len(s.courses))
	for _, c := range s.courses {
		if f.Category != "" && !strings.EqualFold(c.Category, f.Category) {
			continue
		}
		if f.Difficulty != "" && !strings.EqualFold(c.Difficulty, f.Difficulty) {
			continue
		}
		if f.Search != "" && !matchesSearch(c, f.Search) {
			continue
		}
		matched = append(matched, c)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := len(matched)
	if f.Offset > 0 {
		if f.Offset >= total {
			return []models.Course{}, total
		}
		matched = matched[f.Offset:]
	}
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}

	return matched, total
}

// AllCourses returns every course, ordered by ID.
func (s *Store) AllCourses() []models.Course {
	courses, _ := s.ListCourses(CourseFilter{})
	return courses
}

// CourseCount returns the number of courses in the catalog.
func (s *Store) CourseCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.courses)
}

// CoursesByIDs returns the courses for the given IDs, preserving order.
// Missing IDs are skipped.
func (s *Store) CoursesByIDs(ids []int) []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Course, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

// matchesSearch reports whether the course title, description, or tags
// contain the query, case-insensitively.
func matchesSearch(c models.Course, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(c.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(c.Description), q) {
		return true
	}
	for _, tag := range c.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// CreateUser adds a user. Usernames are unique, case-insensitively.
func (s *Store) CreateUser(u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(u.Username)
	if _, ok := s.usersByName[key]; ok {
		return models.User{}, ErrDuplicate
	}

	u.ID = s.nextUserID
	s.nextUserID++
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	s.users[u.ID] = u
	s.usersByName[key] = u.ID
	return u, nil
}

// GetUser returns the user with the given ID.
func (s *Store) GetUser(id int) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

// GetUserByUsername looks up a user by username, case-insensitively.
func (s *Store) GetUserByUsername(username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByName[strings.ToLower(username)]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return s.users[id], nil
}

// RecordInteraction appends an interaction event. The timestamp defaults
// to now when unset.
func (s *Store) RecordInteraction(in models.Interaction) error {
	if !in.Type.Valid() {
		return errors.New("invalid interaction type")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[in.CourseID]; !ok {
		return ErrNotFound
	}
	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now()
	}
	s.interactions = append(s.interactions, in)
	return nil
}

// InteractionsByUser returns all interactions recorded for a user.
func (s *Store) InteractionsByUser(userID int) []models.Interaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Interaction, 0)
	for _, in := range s.interactions {
		if in.UserID == userID {
			out = append(out, in)
		}
	}
	return out
}

// InteractionsSince returns all interactions at or after the cutoff.
func (s *Store) InteractionsSince(cutoff time.Time) []models.Interaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Interaction, 0)
	for _, in := range s.interactions {
		if !in.Timestamp.Before(cutoff) {
			out = append(out, in)
		}
	}
	return out
}

// AllInteractions returns a copy of every recorded interaction.
func (s *Store) AllInteractions() []models.Interaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Interaction, len(s.interactions))
	copy(out, s.interactions)
	return out
}

// AddToLearningList enrolls a user in a course with zero progress.
func (s *Store) AddToLearningList(userID, courseID int) (models.LearningProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[courseID]; !ok {
		return models.LearningProgress{}, ErrNotFound
	}

	list, ok := s.learning[userID]
	if !ok {
		list = make(map[int]models.LearningProgress)
		s.learning[userID] = list
	}
	if _, ok := list[courseID]; ok {
		return models.LearningProgress{}, ErrDuplicate
	}

	now := time.Now()
	entry := models.LearningProgress{
		UserID:     userID,
		CourseID:   courseID,
		Progress:   0,
		Completed:  false,
		EnrolledAt: now,
		UpdatedAt:  now,
	}
	list[courseID] = entry
	return entry, nil
}

// UpdateProgress sets a learning-list entry's progress (0-100). Progress
// of 100 marks the course completed.
func (s *Store) UpdateProgress(userID, courseID, progress int) (models.LearningProgress, error) {
	if progress < 0 || progress > 100 {
		return models.LearningProgress{}, errors.New("progress must be between 0 and 100")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, ok := s.learning[userID]
	if !ok {
		return models.LearningProgress{}, ErrNotFound
	}
	entry, ok := list[courseID]
	if !ok {
		return models.LearningProgress{}, ErrNotFound
	}

	entry.Progress = progress
	entry.Completed = progress == 100
	entry.UpdatedAt = time.Now()
	list[courseID] = entry
	return entry, nil
}

// RemoveFromLearningList removes a course from a user's learning list.
func (s *Store) RemoveFromLearningList(userID, courseID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, ok := s.learning[userID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := list[courseID]; !ok {
		return ErrNotFound
	}
	delete(list, courseID)
	return nil
}

// LearningList returns a user's learning list ordered by enrollment time.
func (s *Store) LearningList(userID int) []models.LearningProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.learning[userID]
	out := make([]models.LearningProgress, 0, len(list))
	for _, entry := range list {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EnrolledAt.Equal(out[j].EnrolledAt) {
			return out[i].CourseID < out[j].CourseID
		}
		return out[i].EnrolledAt.Before(out[j].EnrolledAt)
	})
	return out
}
