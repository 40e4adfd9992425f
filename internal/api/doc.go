// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

// Package api provides the HTTP surface of Coursecast: the course
// catalog, authentication, the recommendation endpoints, and the
// realtime WebSocket upgrade. Routing uses chi; every endpoint
// responds with the models.APIResponse envelope.
package api
