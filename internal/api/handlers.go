// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

package api

import (
	"net/http"
	"time"

	"github.com/coursecast/coursecast/internal/auth"
	"github.com/coursecast/coursecast/internal/config"
	"github.com/coursecast/coursecast/internal/realtime"
	"github.com/coursecast/coursecast/internal/recommend"
	"github.com/coursecast/coursecast/internal/store"
)

// Handler holds the dependencies shared by all HTTP endpoints.
type Handler struct {
	cfg     *config.Config
	store   *store.Store
	engine  *recommend.Engine
	hub     *realtime.Hub
	jwt     *auth.JWTManager
	started time.Time
}

// NewHandler creates the endpoint handler set.
func NewHandler(cfg *config.Config, st *store.Store, engine *recommend.Engine, hub *realtime.Hub, jwtManager *auth.JWTManager) *Handler {
	return &Handler{
		cfg:     cfg,
		store:   st,
		engine:  engine,
		hub:     hub,
		jwt:     jwtManager,
		started: time.Now(),
	}
}

// Health reports service liveness plus a few cheap runtime facts.
//
// Method: GET
// Path: /api/v1/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"status":     "healthy",
		"uptime":     time.Since(h.started).Round(time.Second).String(),
		"ws_clients": h.hub.ClientCount(),
	})
}

// Live is a minimal liveness probe.
//
// Method: GET
// Path: /api/v1/health/live
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]interface{}{"status": "alive"})
}

// Ready reports whether the service can answer real traffic. The store
// is seeded at startup, so an empty catalog means startup has not
// finished.
//
// Method: GET
// Path: /api/v1/health/ready
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.store.CourseCount() == 0 {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "Catalog not yet seeded", nil)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{"status": "ready"})
}

// currentUserID resolves the authenticated user from the request
// context. Returns false after writing a 401 when the claims are
// missing or malformed.
func (h *Handler) currentUserID(w http.ResponseWriter, r *http.Request) (int, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		return 0, false
	}

	userID, err := claims.UserID()
	if err != nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token subject", err)
		return 0, false
	}
	return userID, true
}
