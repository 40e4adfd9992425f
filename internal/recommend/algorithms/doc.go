// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

// Package algorithms implements the scoring methods blended by the
// hybrid recommendation engine.
//
//   - Collaborative: item-based collaborative filtering (cosine similarity)
//   - Content: metadata affinity from the user's interaction profile
//   - Popularity: time-decayed interaction counts, the cold-start baseline
//   - Explore: epsilon-greedy diversification over unseen courses
//
// Each method implements recommend.Method and is registered with the
// engine together with a blend weight. Methods are stateless between
// calls; all state arrives in the recommend.Dataset snapshot, so they
// are safe for concurrent use.
package algorithms
