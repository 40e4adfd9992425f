// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coursecast/coursecast/internal/auth"
	"github.com/coursecast/coursecast/internal/config"
	"github.com/coursecast/coursecast/internal/middleware"
)

// Router wires handlers, middleware, and the route tree.
type Router struct {
	handler *Handler
	cfg     *config.Config
	jwt     *auth.JWTManager
}

// NewRouter creates the route builder.
func NewRouter(cfg *config.Config, handler *Handler, jwtManager *auth.JWTManager) *Router {
	return &Router{
		handler: handler,
		cfg:     cfg,
		jwt:     jwtManager,
	}
}

// rateLimit returns an IP-keyed limiter, or a no-op when rate limiting
// is disabled in config.
func (rt *Router) rateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	if rt.cfg.Security.RateLimitDisabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.LimitByIP(requests, window)
}

// Setup builds the full route tree.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.Security.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "ETag"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authenticate := auth.Middleware(rt.jwt)

	// Prometheus scrape endpoint, outside the API middleware stack.
	r.Handle("/metrics", promhttp.Handler())

	// Health gets a permissive limit so monitors can poll freely.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(rt.rateLimit(1000, time.Minute))
		r.Get("/", rt.handler.Health)
		r.Get("/live", rt.handler.Live)
		r.Get("/ready", rt.handler.Ready)
	})

	// Auth endpoints are rate limited hardest; login stricter still to
	// slow brute forcing.
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(rt.rateLimit(30, time.Minute))
		r.Use(middleware.PrometheusMetrics)

		r.With(rt.rateLimit(5, 5*time.Minute)).Post("/login", rt.handler.Login)
		r.Post("/register", rt.handler.Register)
		r.With(authenticate).Get("/me", rt.handler.Me)
	})

	// Public catalog and realtime endpoints.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.rateLimit(rt.cfg.Security.RateLimitReqs, rt.cfg.Security.RateLimitWindow))
		r.Use(middleware.PrometheusMetrics)

		r.Get("/courses", rt.handler.ListCourses)
		r.Get("/courses/{id}", rt.handler.GetCourse)
		r.Get("/recommendations/trending", rt.handler.Trending)
		r.Get("/recommendations/similar-to/{id}", rt.handler.SimilarTo)
		r.Get("/ws", rt.handler.WebSocket)

		// Everything user-specific or mutating requires a token.
		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/courses", rt.handler.CreateCourse)
			r.Put("/courses/{id}", rt.handler.UpdateCourse)
			r.Delete("/courses/{id}", rt.handler.DeleteCourse)

			r.Post("/interactions", rt.handler.RecordInteraction)

			r.Get("/learning", rt.handler.LearningList)
			r.Post("/learning/{id}", rt.handler.AddToLearningList)
			r.Put("/learning/{id}", rt.handler.UpdateProgress)
			r.Delete("/learning/{id}", rt.handler.RemoveFromLearningList)

			r.Get("/recommendations", rt.handler.Recommendations)
			r.Get("/recommendations/next-steps", rt.handler.NextSteps)
			r.Get("/recommendations/explore", rt.handler.Explore)
		})
	})

	return r
}
