// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

// Package recommend implements the hybrid course recommendation engine.
//
// The engine blends the scoring methods registered from the algorithms
// subpackage (collaborative filtering, content affinity, popularity,
// and epsilon-greedy exploration), each max-normalized and combined by
// a configured weight. It also computes the trending list used by the
// realtime broadcaster, metadata-similarity lookups, and difficulty
// progression suggestions.
//
// Rankings are cached with a short TTL and invalidated whenever
// interactions or the catalog change. The engine reads data through the
// DataProvider interface so it carries no dependency on the storage
// layer.
package recommend
