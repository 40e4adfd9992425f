// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

// Package feed maintains client-side recommendation state from the
// realtime push channel: the AI suggestion list, the trending list, and
// short-lived notifications.
//
// A Feed holds the state, a Consumer pumps envelopes into it from the
// WebSocket endpoint, and a Provider performs the initial population
// over HTTP. The Feed itself is transport-agnostic and fully testable
// without a connection.
package feed

import (
	"context"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/coursecast/coursecast/internal/logging"
	"github.com/coursecast/coursecast/internal/metrics"
	"github.com/coursecast/coursecast/internal/models"
)

const (
	// DefaultMaxRecommendations caps the suggestion list length.
	DefaultMaxRecommendations = 10

	// DefaultNotificationTTL is how long a notification stays visible.
	DefaultNotificationTTL = 5 * time.Second
)

// Feed is the reconciled realtime state. All methods are safe for
// concurrent use.
type Feed struct {
	mu sync.RWMutex

	// recommendations is most-recent-first, capped at maxRecommendations.
	recommendations []models.Course

	// trending is replaced wholesale on every trending_update.
	trending []models.Course

	// notifications is in arrival order; each entry has its own expiry
	// timer so a fresh notification never shortens an older one's life.
	notifications []models.Notification
	timers        map[int64]*time.Timer

	loading bool
	stopped bool

	maxRecommendations int
	notificationTTL    time.Duration
	logger             zerolog.Logger
}

// Options configures a Feed. Zero values take the package defaults.
type Options struct {
	MaxRecommendations int
	NotificationTTL    time.Duration
	Logger             *zerolog.Logger
}

// New creates an empty Feed in the loading state.
func New(opts Options) *Feed {
	if opts.MaxRecommendations <= 0 {
		opts.MaxRecommendations = DefaultMaxRecommendations
	}
	if opts.NotificationTTL <= 0 {
		opts.NotificationTTL = DefaultNotificationTTL
	}

	logger := logging.Logger()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Feed{
		recommendations:    []models.Course{},
		trending:           []models.Course{},
		notifications:      []models.Notification{},
		timers:             make(map[int64]*time.Timer),
		loading:            true,
		maxRecommendations: opts.MaxRecommendations,
		notificationTTL:    opts.NotificationTTL,
		logger:             logger.With().Str("component", "feed").Logger(),
	}
}

// HandleMessage decodes a raw channel message and applies it. Decode
// failures and unknown envelope kinds are logged and otherwise ignored;
// the feed keeps its current state.
func (f *Feed) HandleMessage(data []byte) {
	var env models.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		metrics.FeedEnvelopeErrors.Inc()
		f.logger.Error().Err(err).Msg("failed to decode envelope")
		return
	}
	f.HandleEnvelope(env)
}

// HandleEnvelope applies a typed envelope to the feed state.
func (f *Feed) HandleEnvelope(env models.Envelope) {
	switch env.Type {
	case models.EnvelopeNewRecommendation:
		var course models.Course
		if err := json.Unmarshal(env.Data, &course); err != nil {
			metrics.FeedEnvelopeErrors.Inc()
			f.logger.Error().Err(err).Msg("failed to decode new_recommendation payload")
			return
		}
		metrics.RecordFeedEnvelope(env.Type)
		f.applyNewRecommendation(course)

	case models.EnvelopeTrendingUpdate:
		var trending []models.Course
		if err := json.Unmarshal(env.Data, &trending); err != nil {
			metrics.FeedEnvelopeErrors.Inc()
			f.logger.Error().Err(err).Msg("failed to decode trending_update payload")
			return
		}
		metrics.RecordFeedEnvelope(env.Type)
		f.applyTrendingUpdate(trending)

	default:
		metrics.RecordFeedEnvelope("unknown")
		f.logger.Debug().Str("type", env.Type).Msg("unhandled envelope type")
	}
}

// applyNewRecommendation prepends the course and raises a notification.
func (f *Feed) applyNewRecommendation(course models.Course) {
	f.mu.Lock()
	f.recommendations = append([]models.Course{course}, f.recommendations...)
	if len(f.recommendations) > f.maxRecommendations {
		f.recommendations = f.recommendations[:f.maxRecommendations]
	}
	f.mu.Unlock()

	f.Notify("New course recommendation: " + course.Title)

	f.logger.Info().Int("course_id", course.ID).Str("title", course.Title).
		Msg("recommendation received")
}

// applyTrendingUpdate replaces the trending list.
func (f *Feed) applyTrendingUpdate(trending []models.Course) {
	f.mu.Lock()
	f.trending = trending
	f.mu.Unlock()

	f.logger.Debug().Int("count", len(trending)).Msg("trending list replaced")
}

// Notify raises a notification that expires after the configured TTL.
// Each notification carries its own timer; expiry always removes the
// matching entry, never whichever happens to be oldest.
func (f *Feed) Notify(message string) {
	n := models.NewNotification(message)

	f.mu.Lock()
	if f.stopped {
		f.mu.Unlock()
		return
	}
	f.notifications = append(f.notifications, n)
	f.timers[n.ID] = time.AfterFunc(f.notificationTTL, func() {
		f.expire(n.ID)
	})
	count := len(f.notifications)
	f.mu.Unlock()

	metrics.FeedNotificationsActive.Set(float64(count))
}

// expire removes the notification with the given ID, if still present.
func (f *Feed) expire(id int64) {
	f.mu.Lock()
	removed := f.removeNotificationLocked(id)
	count := len(f.notifications)
	f.mu.Unlock()

	if removed {
		metrics.FeedNotificationsExpired.Inc()
		metrics.FeedNotificationsActive.Set(float64(count))
	}
}

// Dismiss removes the oldest visible notification, as when the user
// clears the banner by hand. Its expiry timer is cancelled.
func (f *Feed) Dismiss() {
	f.mu.Lock()
	if len(f.notifications) == 0 {
		f.mu.Unlock()
		return
	}
	f.removeNotificationLocked(f.notifications[0].ID)
	count := len(f.notifications)
	f.mu.Unlock()

	metrics.FeedNotificationsActive.Set(float64(count))
}

// removeNotificationLocked removes the notification and stops its timer.
// Caller holds f.mu.
func (f *Feed) removeNotificationLocked(id int64) bool {
	if t, ok := f.timers[id]; ok {
		t.Stop()
		delete(f.timers, id)
	}

	for i, n := range f.notifications {
		if n.ID == id {
			f.notifications = append(f.notifications[:i], f.notifications[i+1:]...)
			return true
		}
	}
	return false
}

// Populate performs the initial fetch through the provider. The loading
// flag clears regardless of outcome; a failed fetch is logged and leaves
// the corresponding list empty.
func (f *Feed) Populate(ctx context.Context, p Provider) {
	recs, err := p.Recommendations(ctx)
	if err != nil {
		f.logger.Error().Err(err).Msg("failed to fetch recommendations")
	}
	trending, err := p.Trending(ctx)
	if err != nil {
		f.logger.Error().Err(err).Msg("failed to fetch trending courses")
	}

	f.mu.Lock()
	if recs != nil {
		if len(recs) > f.maxRecommendations {
			recs = recs[:f.maxRecommendations]
		}
		f.recommendations = recs
	}
	if trending != nil {
		f.trending = trending
	}
	f.loading = false
	f.mu.Unlock()
}

// Stop cancels all pending notification timers. The feed remains
// readable; further notifications are dropped.
func (f *Feed) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stopped = true
	for id, t := range f.timers {
		t.Stop()
		delete(f.timers, id)
	}
}

// Recommendations returns a copy of the suggestion list, most recent first.
func (f *Feed) Recommendations() []models.Course {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]models.Course, len(f.recommendations))
	copy(out, f.recommendations)
	return out
}

// Trending returns a copy of the current trending list.
func (f *Feed) Trending() []models.Course {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]models.Course, len(f.trending))
	copy(out, f.trending)
	return out
}

// Notifications returns a copy of the visible notifications, oldest first.
func (f *Feed) Notifications() []models.Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]models.Notification, len(f.notifications))
	copy(out, f.notifications)
	return out
}

// Loading reports whether the initial population has completed.
func (f *Feed) Loading() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.loading
}
