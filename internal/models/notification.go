// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

package models

import (
	"sync/atomic"
	"time"
)

// notificationSeq guarantees unique IDs even when notifications arrive
// within the same clock tick.
var notificationSeq atomic.Int64

// Notification is an ephemeral, self-expiring entry shown to the user when
// a push event arrives. IDs increase in insertion order.
type Notification struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotification creates a notification stamped with the current time.
func NewNotification(message string) Notification {
	return Notification{
		ID:        notificationSeq.Add(1),
		Message:   message,
		CreatedAt: time.Now(),
	}
}
