// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

package models

import "github.com/goccy/go-json"

// Envelope kinds pushed over the realtime channel.
const (
	EnvelopeNewRecommendation = "new_recommendation"
	EnvelopeTrendingUpdate    = "trending_update"
	EnvelopePing              = "ping"
	EnvelopePong              = "pong"
)

// Envelope is the discriminated message structure carried over the realtime
// channel. Type identifies the event kind; Data is the kind-specific payload
// (a single course for new_recommendation, an ordered set of courses for
// trending_update). Data is kept raw so unrecognized kinds can be skipped
// without decoding their payload.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewRecommendationEnvelope builds a new_recommendation envelope for a course.
func NewRecommendationEnvelope(course Course) (Envelope, error) {
	data, err := json.Marshal(course)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: EnvelopeNewRecommendation, Data: data}, nil
}

// TrendingUpdateEnvelope builds a trending_update envelope for a course set.
func TrendingUpdateEnvelope(courses []Course) (Envelope, error) {
	data, err := json.Marshal(courses)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: EnvelopeTrendingUpdate, Data: data}, nil
}
