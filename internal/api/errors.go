// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

package api

import "errors"

// Common API errors
var (
	// ErrInvalidCredentials indicates a failed username/password check.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUsernameTaken indicates a registration conflict.
	ErrUsernameTaken = errors.New("username is already taken")
)
