// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/coursecast/coursecast/internal/logging"
	"github.com/coursecast/coursecast/internal/models"
	"github.com/coursecast/coursecast/internal/store"
)

// courseIDParam parses the {id} route parameter. Returns false after
// writing a 400 when the parameter is not a positive integer.
func courseIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "INVALID_PARAMETER", "Course id must be a positive integer", nil)
		return 0, false
	}
	return id, true
}

// CourseRequest is the payload for creating or updating a course.
type CourseRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Category    string   `json:"category" validate:"required,max=100"`
	Difficulty  string   `json:"difficulty" validate:"required,oneof=beginner intermediate advanced"`
	Instructor  string   `json:"instructor" validate:"max=100"`
	Duration    int      `json:"duration" validate:"gte=0"`
	Tags        []string `json:"tags" validate:"max=20,dive,max=50"`
	Price       float64  `json:"price" validate:"gte=0"`
	Rating      float64  `json:"rating" validate:"gte=0,lte=5"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url"`
}

// ListCourses returns the catalog with optional filtering and paging.
//
// Method: GET
// Path: /api/v1/courses
//
// Query parameters:
//   - category: exact category match
//   - difficulty: beginner, intermediate, or advanced
//   - search: substring match on title, description, and tags
//   - limit, offset: paging (limit capped at the configured maximum)
func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	limit := getIntParam(r, "limit", h.cfg.API.DefaultPageSize)
	if limit > h.cfg.API.MaxPageSize {
		limit = h.cfg.API.MaxPageSize
	}

	filter := store.CourseFilter{
		Category:   r.URL.Query().Get("category"),
		Difficulty: r.URL.Query().Get("difficulty"),
		Search:     r.URL.Query().Get("search"),
		Limit:      limit,
		Offset:     getIntParam(r, "offset", 0),
	}

	courses, total := h.store.ListCourses(filter)

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"courses": courses,
		"total":   total,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}

// GetCourse returns a single course by id.
//
// Method: GET
// Path: /api/v1/courses/{id}
func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := courseIDParam(w, r)
	if !ok {
		return
	}

	course, err := h.store.GetCourse(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Course not found", nil)
		return
	}

	respondSuccess(w, http.StatusOK, course)
}

// CreateCourse adds a course to the catalog and pushes it to connected
// clients as a new recommendation.
//
// Method: POST
// Path: /api/v1/courses
func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req CourseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	course := h.store.CreateCourse(models.Course{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Difficulty:  req.Difficulty,
		Instructor:  req.Instructor,
		Duration:    req.Duration,
		Tags:        req.Tags,
		Price:       req.Price,
		Rating:      req.Rating,
		ImageURL:    req.ImageURL,
	})

	h.engine.InvalidateCache()
	h.hub.BroadcastNewRecommendation(course)

	respondSuccess(w, http.StatusCreated, course)
}

// UpdateCourse replaces a course's mutable fields.
//
// Method: PUT
// Path: /api/v1/courses/{id}
func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := courseIDParam(w, r)
	if !ok {
		return
	}

	var req CourseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	existing, err := h.store.GetCourse(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Course not found", nil)
		return
	}

	existing.Title = req.Title
	existing.Description = req.Description
	existing.Category = req.Category
	existing.Difficulty = req.Difficulty
	existing.Instructor = req.Instructor
	existing.Duration = req.Duration
	existing.Tags = req.Tags
	existing.Price = req.Price
	existing.Rating = req.Rating
	existing.ImageURL = req.ImageURL

	if err := h.store.UpdateCourse(existing); err != nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Course not found", nil)
		return
	}

	h.engine.InvalidateCache()

	respondSuccess(w, http.StatusOK, existing)
}

// DeleteCourse removes a course from the catalog.
//
// Method: DELETE
// Path: /api/v1/courses/{id}
func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := courseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteCourse(id); err != nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Course not found", nil)
		return
	}

	h.engine.InvalidateCache()

	respondSuccess(w, http.StatusOK, map[string]interface{}{"deleted": id})
}

// InteractionRequest is the payload for recording an interaction.
type InteractionRequest struct {
	CourseID int    `json:"course_id" validate:"required,gt=0"`
	Type     string `json:"type" validate:"required,oneof=view enroll complete rate bookmark"`
	Rating   int    `json:"rating" validate:"gte=0,lte=5"`
}

// RecordInteraction stores an implicit-feedback event for the
// authenticated user and invalidates cached recommendations so the
// next request reflects it.
//
// Method: POST
// Path: /api/v1/interactions
func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	var req InteractionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	interaction := models.Interaction{
		UserID:    userID,
		CourseID:  req.CourseID,
		Type:      models.InteractionType(req.Type),
		Rating:    req.Rating,
		Timestamp: time.Now(),
	}

	if err := h.store.RecordInteraction(interaction); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Course not found", nil)
			return
		}
		respondError(w, http.StatusBadRequest, "INVALID_INTERACTION", "Interaction could not be recorded", err)
		return
	}

	h.engine.InvalidateCache()

	// Strong signals reshape the user's list; push the fresh leader to
	// connected clients. Views are too noisy to broadcast on.
	if interaction.Type != models.InteractionView {
		go h.pushTopRecommendation(userID)
	}

	respondSuccess(w, http.StatusCreated, interaction)
}

// pushTopRecommendation recomputes the user's recommendations and
// broadcasts the new top course. Failures are logged and dropped; the
// push is best effort.
func (h *Handler) pushTopRecommendation(userID int) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	courses, _, err := h.engine.Recommend(ctx, userID, 1)
	if err != nil {
		logging.Warn().Err(err).Int("user_id", userID).Msg("top recommendation push skipped")
		return
	}
	if len(courses) == 0 {
		return
	}
	h.hub.BroadcastNewRecommendation(courses[0])
}

// LearningList returns the authenticated user's enrolled courses with
// progress.
//
// Method: GET
// Path: /api/v1/learning
func (h *Handler) LearningList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	entries := h.store.LearningList(userID)

	ids := make([]int, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.CourseID)
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"courses": h.store.CoursesByIDs(ids),
	})
}

// AddToLearningList enrolls the authenticated user in a course.
//
// Method: POST
// Path: /api/v1/learning/{id}
func (h *Handler) AddToLearningList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	courseID, ok := courseIDParam(w, r)
	if !ok {
		return
	}

	entry, err := h.store.AddToLearningList(userID, courseID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Course not found", nil)
		case errors.Is(err, store.ErrDuplicate):
			respondError(w, http.StatusConflict, "ALREADY_ENROLLED", "Course is already in the learning list", nil)
		default:
			respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to enroll", err)
		}
		return
	}

	// Enrollment is also an interaction signal for the engine.
	_ = h.store.RecordInteraction(models.Interaction{
		UserID:    userID,
		CourseID:  courseID,
		Type:      models.InteractionEnroll,
		Timestamp: time.Now(),
	})
	h.engine.InvalidateCache()

	respondSuccess(w, http.StatusCreated, entry)
}

// ProgressRequest is the payload for updating course progress.
type ProgressRequest struct {
	Progress int `json:"progress" validate:"gte=0,lte=100"`
}

// UpdateProgress sets the user's completion percentage for a course.
// Reaching 100 marks the course completed and records a completion
// interaction.
//
// Method: PUT
// Path: /api/v1/learning/{id}
func (h *Handler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	courseID, ok := courseIDParam(w, r)
	if !ok {
		return
	}

	var req ProgressRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	entry, err := h.store.UpdateProgress(userID, courseID, req.Progress)
	if err != nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Course is not in the learning list", nil)
		return
	}

	if entry.Completed {
		_ = h.store.RecordInteraction(models.Interaction{
			UserID:    userID,
			CourseID:  courseID,
			Type:      models.InteractionComplete,
			Timestamp: time.Now(),
		})
		h.engine.InvalidateCache()
	}

	respondSuccess(w, http.StatusOK, entry)
}

// RemoveFromLearningList drops a course from the user's learning list.
//
// Method: DELETE
// Path: /api/v1/learning/{id}
func (h *Handler) RemoveFromLearningList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	courseID, ok := courseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.store.RemoveFromLearningList(userID, courseID); err != nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Course is not in the learning list", nil)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{"removed": courseID})
}
