// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

// Package main is the entry point for the Coursecast server.
//
// Coursecast serves a course catalog with hybrid personalized
// recommendations and pushes realtime updates (new recommendations,
// trending changes) to connected clients over WebSocket.
//
// Startup order:
//
//  1. Configuration: Koanf v2 layered sources (defaults, config.yaml,
//     environment variables)
//  2. Store: in-memory catalog seeded with sample courses and demo
//     activity
//  3. Recommendation engine: collaborative, content, popularity, and
//     explore methods registered with configured weights
//  4. Realtime hub and trending broadcaster
//  5. HTTP server under a suture supervisor tree
//
// The server shuts down gracefully on SIGINT and SIGTERM: the
// supervisor cancels all services, the HTTP server drains in-flight
// requests, and the hub closes every WebSocket client.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/coursecast/coursecast/internal/api"
	"github.com/coursecast/coursecast/internal/auth"
	"github.com/coursecast/coursecast/internal/config"
	"github.com/coursecast/coursecast/internal/logging"
	"github.com/coursecast/coursecast/internal/realtime"
	"github.com/coursecast/coursecast/internal/recommend"
	"github.com/coursecast/coursecast/internal/recommend/algorithms"
	"github.com/coursecast/coursecast/internal/store"
	"github.com/coursecast/coursecast/internal/supervisor"
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
		Str("listen", cfg.ListenAddr()).
		Str("trending_period", cfg.Recommend.TrendingPeriod).
		Msg("Starting Coursecast server")

	st := store.New()
	st.SeedCourses()
	st.SeedDemoActivity()

	engine := recommend.NewEngine(recommend.Config{
		DefaultLimit:   cfg.Recommend.DefaultLimit,
		MaxLimit:       cfg.Recommend.MaxLimit,
		CacheTTL:       cfg.Recommend.CacheTTL,
		TrendingPeriod: cfg.Recommend.TrendingPeriod,
	}, st, logging.Logger())

	engine.Register(algorithms.NewCollaborative(), cfg.Recommend.CollaborativeWeight)
	engine.Register(algorithms.NewContent(), cfg.Recommend.ContentWeight)
	engine.Register(algorithms.NewPopularity(algorithms.PopularityConfig{}), cfg.Recommend.PopularityWeight)
	engine.Register(algorithms.NewExplore(algorithms.ExploreConfig{
		Epsilon: cfg.Recommend.ExploreEpsilon,
	}), cfg.Recommend.ExploreWeight)

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}

	hub := realtime.NewHub()

	handler := api.NewHandler(cfg, st, engine, hub, jwtManager)
	router := api.NewRouter(cfg, handler, jwtManager)

	server := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeCfg)

	tree.AddRealtimeService(services.NewHubService(hub))
	tree.AddRealtimeService(realtime.NewTrendingBroadcaster(
		hub, engine, cfg.Recommend.TrendingInterval, cfg.Recommend.DefaultLimit))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Coursecast stopped gracefully")
}
