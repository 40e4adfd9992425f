// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

// Package main is the entry point for feedwatch, the Coursecast
// realtime feed client.
//
// feedwatch populates a local suggestion feed from the HTTP API, then
// subscribes to the server's WebSocket push channel and applies
// updates as they arrive: new recommendations are prepended to the
// suggestion list, trending updates replace the trending list, and
// each new recommendation raises a short-lived notification.
//
// The connection is a single attempt. If the channel errors or the
// server closes it, feedwatch logs the reason and exits; it does not
// reconnect.
//
// Configuration mirrors the server: COURSECAST_WS_URL selects the push
// endpoint, COURSECAST_NOTIFICATION_TTL the notification lifetime.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"

	"github.com/coursecast/coursecast/internal/config"
	"github.com/coursecast/coursecast/internal/feed"
	"github.com/coursecast/coursecast/internal/logging"
	"github.com/coursecast/coursecast/internal/supervisor/services"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("ws_url", cfg.Feed.WSURL).
		Dur("notification_ttl", cfg.Feed.NotificationTTL).
		Msg("Starting feedwatch")

	logger := logging.Logger()
	f := feed.New(feed.Options{
		MaxRecommendations: cfg.Feed.MaxRecommendations,
		NotificationTTL:    cfg.Feed.NotificationTTL,
		Logger:             &logger,
	})
	defer f.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	// Initial population over HTTP. A fetch failure is logged inside
	// Populate and leaves the feed empty but usable; the push channel
	// still delivers updates.
	populateCtx, populateCancel := context.WithTimeout(ctx, 15*time.Second)
	provider := feed.NewHTTPProvider(cfg.Feed.APIBaseURL, os.Getenv("COURSECAST_API_TOKEN"))
	f.Populate(populateCtx, provider)
	populateCancel()

	logging.Info().
		Int("recommendations", len(f.Recommendations())).
		Int("trending", len(f.Trending())).
		Msg("Feed populated")

	consumer := feed.NewConsumer(f, feed.ConsumerOptions{
		WSURL:            cfg.Feed.WSURL,
		HandshakeTimeout: cfg.Feed.HandshakeTimeout,
		Logger:           &logger,
	})
	defer consumer.Close()

	if err := consumer.Connect(ctx); err != nil {
		logging.Fatal().Err(err).Str("ws_url", cfg.Feed.WSURL).Msg("Failed to connect to push channel")
	}

	handler := &sutureslog.Handler{Logger: logging.NewSlogLogger()}
	root := suture.New("feedwatch", suture.Spec{
		EventHook: handler.MustHook(),
	})
	root.Add(services.NewFeedConsumerService(consumer))

	go reportLoop(ctx, f)

	err = root.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Feed consumer stopped")
	}

	logging.Info().Msg("feedwatch stopped")
}

// reportLoop periodically logs the feed state so a terminal user can
// watch updates arrive.
func reportLoop(ctx context.Context, f *feed.Feed) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			notifications := f.Notifications()
			event := logging.Info().
				Int("recommendations", len(f.Recommendations())).
				Int("trending", len(f.Trending())).
				Int("notifications", len(notifications))
			if len(notifications) > 0 {
				event = event.Str("latest_notification", notifications[len(notifications)-1].Message)
			}
			event.Msg("Feed state")
		}
	}
}
