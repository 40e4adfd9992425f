// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/coursecast/coursecast/internal/logging"
	"github.com/coursecast/coursecast/internal/models"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

// newTestFeed creates a feed with a short notification TTL suitable
// for expiry tests.
func newTestFeed(t *testing.T, ttl time.Duration) *Feed {
	t.Helper()
	f := New(Options{NotificationTTL: ttl})
	t.Cleanup(f.Stop)
	return f
}

// envelope builds a raw channel message of the given kind.
func envelope(t *testing.T, kind string, payload interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	raw, err := json.Marshal(models.Envelope{Type: kind, Data: data})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return raw
}

func TestNewFeedStartsLoading(t *testing.T) {
	f := newTestFeed(t, time.Second)

	if !f.Loading() {
		t.Error("new feed should be in loading state")
	}
	if len(f.Recommendations()) != 0 {
		t.Error("new feed should have no recommendations")
	}
	if len(f.Trending()) != 0 {
		t.Error("new feed should have no trending courses")
	}
}

func TestNewRecommendationPrepends(t *testing.T) {
	f := newTestFeed(t, time.Second)

	f.HandleMessage(envelope(t, models.EnvelopeNewRecommendation, models.Course{ID: 4, Title: "Intro to Rust"}))
	f.HandleMessage(envelope(t, models.EnvelopeNewRecommendation, models.Course{ID: 3, Title: "Intro to Go"}))

	recs := f.Recommendations()
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	if recs[0].Title != "Intro to Go" {
		t.Errorf("newest recommendation should be first, got %q", recs[0].Title)
	}
	if recs[1].Title != "Intro to Rust" {
		t.Errorf("older recommendation should be second, got %q", recs[1].Title)
	}
	if got := len(f.Notifications()); got != 2 {
		t.Errorf("expected 2 pending notifications, got %d", got)
	}
}

func TestRecommendationListCapped(t *testing.T) {
	f := New(Options{MaxRecommendations: 10, NotificationTTL: time.Minute})
	defer f.Stop()

	for i := 1; i <= 15; i++ {
		f.HandleEnvelope(mustEnvelope(t, models.EnvelopeNewRecommendation,
			models.Course{ID: i, Title: fmt.Sprintf("Course %d", i)}))
	}

	recs := f.Recommendations()
	if len(recs) != 10 {
		t.Fatalf("expected list capped at 10, got %d", len(recs))
	}
	// Most recent first: 15 down to 6.
	for i, c := range recs {
		want := 15 - i
		if c.ID != want {
			t.Errorf("position %d: expected course %d, got %d", i, want, c.ID)
		}
	}
}

func TestTrendingUpdateReplacesWholesale(t *testing.T) {
	f := newTestFeed(t, time.Minute)

	f.HandleEnvelope(mustEnvelope(t, models.EnvelopeTrendingUpdate,
		[]models.Course{{ID: 1}, {ID: 2}, {ID: 3}}))
	f.HandleEnvelope(mustEnvelope(t, models.EnvelopeTrendingUpdate,
		[]models.Course{{ID: 9}}))

	trending := f.Trending()
	if len(trending) != 1 {
		t.Fatalf("expected trending replaced, got %d entries", len(trending))
	}
	if trending[0].ID != 9 {
		t.Errorf("expected course 9, got %d", trending[0].ID)
	}
}

func TestUnknownEnvelopeKindIgnored(t *testing.T) {
	f := newTestFeed(t, time.Minute)

	f.HandleEnvelope(mustEnvelope(t, models.EnvelopeNewRecommendation, models.Course{ID: 1, Title: "Kept"}))
	f.HandleMessage(envelope(t, "price_drop", map[string]int{"course_id": 7}))

	if len(f.Recommendations()) != 1 {
		t.Error("unknown envelope kind must not change recommendations")
	}
	if len(f.Trending()) != 0 {
		t.Error("unknown envelope kind must not change trending")
	}
	// Only the new_recommendation notification should exist.
	if got := len(f.Notifications()); got != 1 {
		t.Errorf("expected 1 notification, got %d", got)
	}
}

func TestMalformedMessageIgnored(t *testing.T) {
	f := newTestFeed(t, time.Minute)

	f.HandleMessage([]byte(`{not json`))
	f.HandleMessage(envelope(t, models.EnvelopeNewRecommendation, "not a course"))

	if len(f.Recommendations()) != 0 {
		t.Error("malformed messages must not change state")
	}
}

func TestNewRecommendationRaisesNotification(t *testing.T) {
	f := newTestFeed(t, time.Minute)

	f.HandleEnvelope(mustEnvelope(t, models.EnvelopeNewRecommendation,
		models.Course{ID: 4, Title: "Intro to Rust"}))

	notifications := f.Notifications()
	if len(notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifications))
	}
	want := "New course recommendation: Intro to Rust"
	if notifications[0].Message != want {
		t.Errorf("expected %q, got %q", want, notifications[0].Message)
	}
}

func TestNotificationExpiresAfterTTL(t *testing.T) {
	f := newTestFeed(t, 50*time.Millisecond)

	f.Notify("short lived")

	if len(f.Notifications()) != 1 {
		t.Fatal("notification should be visible before TTL")
	}

	deadline := time.Now().Add(time.Second)
	for len(f.Notifications()) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("notification did not expire within TTL")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestEachNotificationExpiresIndependently(t *testing.T) {
	f := newTestFeed(t, 80*time.Millisecond)

	f.Notify("first")
	time.Sleep(50 * time.Millisecond)
	f.Notify("second")

	// The first expires while the second is still within its own TTL.
	deadline := time.Now().Add(time.Second)
	for {
		remaining := f.Notifications()
		if len(remaining) == 1 {
			if remaining[0].Message != "second" {
				t.Fatalf("expected the newer notification to remain, got %q", remaining[0].Message)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected exactly one notification to remain, have %d", len(remaining))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestDismissRemovesOldest(t *testing.T) {
	f := newTestFeed(t, time.Minute)

	f.Notify("oldest")
	f.Notify("newest")

	f.Dismiss()

	remaining := f.Notifications()
	if len(remaining) != 1 {
		t.Fatalf("expected 1 notification after dismiss, got %d", len(remaining))
	}
	if remaining[0].Message != "newest" {
		t.Errorf("dismiss should remove the oldest, kept %q", remaining[0].Message)
	}

	// Dismissing an empty feed is a no-op.
	f.Dismiss()
	f.Dismiss()
}

func TestStopDropsFurtherNotifications(t *testing.T) {
	f := New(Options{NotificationTTL: time.Minute})

	f.Notify("before stop")
	f.Stop()
	f.Notify("after stop")

	// The pre-stop notification stays visible; its timer is cancelled.
	notifications := f.Notifications()
	if len(notifications) != 1 || notifications[0].Message != "before stop" {
		t.Errorf("unexpected notifications after stop: %+v", notifications)
	}

	// Stop is idempotent.
	f.Stop()
}

func TestPopulateFillsFeed(t *testing.T) {
	f := newTestFeed(t, time.Minute)

	f.Populate(context.Background(), &StaticProvider{
		RecommendationList: []models.Course{{ID: 1}, {ID: 2}},
		TrendingList:       []models.Course{{ID: 3}},
	})

	if f.Loading() {
		t.Error("loading should clear after populate")
	}
	if len(f.Recommendations()) != 2 {
		t.Errorf("expected 2 recommendations, got %d", len(f.Recommendations()))
	}
	if len(f.Trending()) != 1 {
		t.Errorf("expected 1 trending course, got %d", len(f.Trending()))
	}
}

func TestPopulateClearsLoadingOnError(t *testing.T) {
	f := newTestFeed(t, time.Minute)

	f.Populate(context.Background(), &StaticProvider{Err: errors.New("api down")})

	if f.Loading() {
		t.Error("loading must clear even when the fetch fails")
	}
	if len(f.Recommendations()) != 0 {
		t.Error("failed fetch should leave recommendations empty")
	}
}

func TestPopulateCapsRecommendations(t *testing.T) {
	f := New(Options{MaxRecommendations: 3, NotificationTTL: time.Minute})
	defer f.Stop()

	many := make([]models.Course, 8)
	for i := range many {
		many[i] = models.Course{ID: i + 1}
	}

	f.Populate(context.Background(), &StaticProvider{RecommendationList: many})

	if got := len(f.Recommendations()); got != 3 {
		t.Errorf("expected populate to cap at 3, got %d", got)
	}
}

// mustEnvelope builds a typed envelope with a marshalled payload.
func mustEnvelope(t *testing.T, kind string, payload interface{}) models.Envelope {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return models.Envelope{Type: kind, Data: data}
}
