// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/coursecast/coursecast/internal/auth"
	"github.com/coursecast/coursecast/internal/logging"
	"github.com/coursecast/coursecast/internal/models"
	"github.com/coursecast/coursecast/internal/store"
)

// Register creates a new account and returns a session token so the
// client is signed in immediately.
//
// Method: POST
// Path: /api/v1/auth/register
//
// Response:
//   - 201: Account created, token returned
//   - 400: Validation failure
//   - 409: Username already taken
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process password", err)
		return
	}

	user, err := h.store.CreateUser(models.User{
		Username:       req.Username,
		Email:          req.Email,
		FullName:       req.FullName,
		Role:           models.RoleStudent,
		HashedPassword: hashed,
		CreatedAt:      time.Now(),
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			respondError(w, http.StatusConflict, "USERNAME_TAKEN", ErrUsernameTaken.Error(), nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create account", err)
		return
	}

	token, expiresAt, err := h.jwt.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue token", err)
		return
	}

	logging.Info().Str("username", sanitizeLogValue(user.Username)).Int("user_id", user.ID).Msg("account created")

	respondSuccess(w, http.StatusCreated, map[string]interface{}{
		"user": user,
		"auth": models.TokenResponse{Token: token, ExpiresAt: expiresAt},
	})
}

// Login authenticates a username/password pair and returns a JWT.
//
// Method: POST
// Path: /api/v1/auth/login
//
// Response:
//   - 200: Token issued
//   - 400: Validation failure
//   - 401: Unknown user or wrong password
//
// Unknown users and wrong passwords return the same error so the
// endpoint does not leak which usernames exist.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	user, err := h.store.GetUserByUsername(req.Username)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", ErrInvalidCredentials.Error(), nil)
		return
	}

	if !auth.CheckPassword(user.HashedPassword, req.Password) {
		logging.Warn().Str("username", sanitizeLogValue(req.Username)).Msg("failed login attempt")
		respondError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", ErrInvalidCredentials.Error(), nil)
		return
	}

	token, expiresAt, err := h.jwt.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue token", err)
		return
	}

	respondSuccess(w, http.StatusOK, models.TokenResponse{Token: token, ExpiresAt: expiresAt})
}

// Me returns the authenticated user's profile.
//
// Method: GET
// Path: /api/v1/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	user, err := h.store.GetUser(userID)
	if err != nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
		return
	}

	respondSuccess(w, http.StatusOK, user)
}
