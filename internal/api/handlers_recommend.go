// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/coursecast/coursecast/internal/models"
)

// respondCached is respondSuccess with the cache flag set in metadata
// so clients and tests can tell a cache hit from a fresh computation.
func respondCached(w http.ResponseWriter, data interface{}, cached bool) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
			Cached:    cached,
		},
	})
}

// Recommendations returns the hybrid personalized list for the
// authenticated user.
//
// Method: GET
// Path: /api/v1/recommendations
//
// Query parameters:
//   - limit: number of courses to return (capped by configuration)
//   - method: score with a single registered method instead of the blend
//   - category, difficulty: filter the ranked list
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	limit := getIntParam(r, "limit", 0)

	var (
		courses []models.Course
		cached  bool
		err     error
	)
	if method := r.URL.Query().Get("method"); method != "" {
		courses, err = h.engine.ScoreWith(r.Context(), method, userID, limit)
		if err != nil {
			respondError(w, http.StatusBadRequest, "UNKNOWN_METHOD", "Unknown recommendation method", err)
			return
		}
	} else {
		courses, cached, err = h.engine.Recommend(r.Context(), userID, limit)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "RECOMMEND_ERROR", "Failed to compute recommendations", err)
			return
		}
	}

	courses = filterCourses(courses, r.URL.Query().Get("category"), r.URL.Query().Get("difficulty"))

	respondCached(w, map[string]interface{}{"recommendations": courses}, cached)
}

// filterCourses keeps courses matching the given category and
// difficulty; empty filters match everything. Ranking order is
// preserved.
func filterCourses(courses []models.Course, category, difficulty string) []models.Course {
	if category == "" && difficulty == "" {
		return courses
	}
	out := make([]models.Course, 0, len(courses))
	for _, c := range courses {
		if category != "" && !strings.EqualFold(c.Category, category) {
			continue
		}
		if difficulty != "" && !strings.EqualFold(c.Difficulty, difficulty) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Trending returns the courses with the most recent interaction
// activity, recency weighted over the configured period.
//
// Method: GET
// Path: /api/v1/recommendations/trending
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	limit := getIntParam(r, "limit", 0)

	courses, cached, err := h.engine.Trending(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "RECOMMEND_ERROR", "Failed to compute trending courses", err)
		return
	}

	respondCached(w, map[string]interface{}{"trending": courses}, cached)
}

// SimilarTo returns courses similar to the given course by category,
// tag overlap, and difficulty adjacency.
//
// Method: GET
// Path: /api/v1/recommendations/similar-to/{id}
func (h *Handler) SimilarTo(w http.ResponseWriter, r *http.Request) {
	courseID, ok := courseIDParam(w, r)
	if !ok {
		return
	}

	limit := getIntParam(r, "limit", 0)

	courses, err := h.engine.SimilarTo(r.Context(), courseID, limit)
	if err != nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Course not found", nil)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{"similar": courses})
}

// NextSteps suggests the natural follow-on course per category the
// user is already active in, one difficulty step up.
//
// Method: GET
// Path: /api/v1/recommendations/next-steps
func (h *Handler) NextSteps(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	limit := getIntParam(r, "limit", 0)

	courses, err := h.engine.NextSteps(r.Context(), userID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "RECOMMEND_ERROR", "Failed to compute next steps", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{"next_steps": courses})
}

// Explore returns serendipitous picks from the epsilon-greedy method
// only, for users who want to browse outside their profile.
//
// Method: GET
// Path: /api/v1/recommendations/explore
func (h *Handler) Explore(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	limit := getIntParam(r, "limit", 0)

	courses, err := h.engine.ScoreWith(r.Context(), "explore", userID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "RECOMMEND_ERROR", "Failed to compute explore picks", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{"explore": courses})
}
