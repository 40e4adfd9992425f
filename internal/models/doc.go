// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

// Package models defines the shared data types for Coursecast: the course
// catalog entities, user accounts, interaction events, the realtime
// envelope format, and the standard API response wrapper.
//
// Types in this package are plain data with JSON tags and carry no
// behavior beyond small constructors and classification helpers.
package models
