// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

package services

import (
	"context"

	"github.com/thejerf/suture/v4"
)

// FeedConsumer matches *feed.Consumer's Run method.
type FeedConsumer interface {
	Run(ctx context.Context) error
}

// FeedConsumerService runs the feed consumer under supervision. The
// consumer makes a single connection attempt per the channel contract;
// any terminal error is wrapped in suture.ErrDoNotRestart so the
// supervisor does not reconnect on its behalf.
type FeedConsumerService struct {
	consumer FeedConsumer
	name     string
}

// NewFeedConsumerService creates the consumer service wrapper.
func NewFeedConsumerService(consumer FeedConsumer) *FeedConsumerService {
	return &FeedConsumerService{
		consumer: consumer,
		name:     "feed-consumer",
	}
}

// Serve implements suture.Service.
func (s *FeedConsumerService) Serve(ctx context.Context) error {
	err := s.consumer.Run(ctx)
	if err == nil || err == context.Canceled {
		return err
	}
	return suture.ErrDoNotRestart
}

// String identifies the service in supervisor logs.
func (s *FeedConsumerService) String() string {
	return s.name
}
