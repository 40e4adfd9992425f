// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/coursecast/coursecast/internal/cache"
	"github.com/coursecast/coursecast/internal/metrics"
	"github.com/coursecast/coursecast/internal/models"
)

// DataProvider supplies the catalog and interaction history. Implemented
// by the store package; defined here so the engine stays decoupled from
// the storage layer.
type DataProvider interface {
	AllCourses() []models.Course
	AllInteractions() []models.Interaction
	InteractionsSince(cutoff time.Time) []models.Interaction
}

// Config holds engine tuning parameters.
type Config struct {
	// DefaultLimit is used when a request does not specify a limit.
	DefaultLimit int

	// MaxLimit caps requested limits.
	MaxLimit int

	// CacheTTL bounds how stale a cached recommendation list may be.
	CacheTTL time.Duration

	// TrendingPeriod is the lookback window: day, week, or month.
	TrendingPeriod string
}

// trendingWindow converts a period name to a duration. Unknown periods
// fall back to a week.
func trendingWindow(period string) time.Duration {
	switch strings.ToLower(period) {
	case "day":
		return 24 * time.Hour
	case "month":
		return 30 * 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

// Engine blends registered scoring methods into ranked course lists.
// It is safe for concurrent use.
type Engine struct {
	cfg    Config
	logger zerolog.Logger
	data   DataProvider

	mu      sync.RWMutex
	methods []weightedMethod

	recCache   *cache.Cache
	trendCache *cache.Cache
}

type weightedMethod struct {
	method Method
	weight float64
}

// NewEngine creates an engine with no registered methods.
func NewEngine(cfg Config, data DataProvider, logger zerolog.Logger) *Engine {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 10
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 50
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	return &Engine{
		cfg:        cfg,
		logger:     logger.With().Str("component", "recommend").Logger(),
		data:       data,
		recCache:   cache.New("recommend", cfg.CacheTTL),
		trendCache: cache.New("trending", cfg.CacheTTL),
	}
}

// Register adds a scoring method with its blend weight. Methods with
// non-positive weight are ignored.
func (e *Engine) Register(m Method, weight float64) {
	if weight <= 0 {
		e.logger.Warn().Str("method", m.Name()).Float64("weight", weight).
			Msg("ignoring method with non-positive weight")
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.methods = append(e.methods, weightedMethod{method: m, weight: weight})
	e.logger.Info().Str("method", m.Name()).Float64("weight", weight).Msg("method registered")
}

// InvalidateCache drops all cached rankings. Called after interaction
// or catalog writes.
func (e *Engine) InvalidateCache() {
	e.recCache.Clear()
	e.trendCache.Clear()
}

// Recommend returns the blended hybrid ranking for a user. The second
// return value reports whether the result came from cache.
func (e *Engine) Recommend(ctx context.Context, userID, limit int) ([]models.Course, bool, error) {
	limit = e.clampLimit(limit)
	start := time.Now()

	key := cache.GenerateKey("recommend", struct {
		UserID int
		Limit  int
	}{userID, limit})
	if cached, ok := e.recCache.Get(key); ok {
		return cached.([]models.Course), true, nil
	}

	data := NewDataset(e.data.AllCourses(), e.data.AllInteractions())

	combined, err := e.blend(ctx, userID, data)
	if err != nil {
		return nil, false, err
	}

	courses := e.rank(combined, data, limit)
	e.recCache.Set(key, courses)
	metrics.RecordRecommendation("hybrid", time.Since(start))

	e.logger.Debug().Int("user_id", userID).Int("count", len(courses)).
		Dur("elapsed", time.Since(start)).Msg("recommendations computed")
	return courses, false, nil
}

// blend runs every registered method and combines max-normalized scores
// by weight. A method failure fails the request; partial rankings would
// silently skew the blend.
func (e *Engine) blend(ctx context.Context, userID int, data *Dataset) (map[int]float64, error) {
	e.mu.RLock()
	methods := make([]weightedMethod, len(e.methods))
	copy(methods, e.methods)
	e.mu.RUnlock()

	if len(methods) == 0 {
		return nil, fmt.Errorf("no scoring methods registered")
	}

	combined := make(map[int]float64)
	for _, wm := range methods {
		start := time.Now()
		scores, err := wm.method.Score(ctx, userID, data)
		if err != nil {
			return nil, fmt.Errorf("method %s: %w", wm.method.Name(), err)
		}
		metrics.RecordRecommendation(wm.method.Name(), time.Since(start))

		for cid, score := range normalize(scores) {
			combined[cid] += wm.weight * score
		}
	}

	return combined, nil
}

// rank orders combined scores descending (course ID ascending on ties)
// and resolves them to courses with a 0-100 match percentage relative
// to the top score.
func (e *Engine) rank(combined map[int]float64, data *Dataset, limit int) []models.Course {
	scored := make([]ScoredCourse, 0, len(combined))
	var top float64
	for cid, score := range combined {
		scored = append(scored, ScoredCourse{CourseID: cid, Score: score})
		if score > top {
			top = score
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score == scored[j].Score {
			return scored[i].CourseID < scored[j].CourseID
		}
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	courses := make([]models.Course, 0, len(scored))
	for _, sc := range scored {
		c, ok := data.ByID[sc.CourseID]
		if !ok {
			continue
		}
		if top > 0 {
			c.Match = int(sc.Score/top*100 + 0.5)
		}
		courses = append(courses, c)
	}
	return courses
}

// normalize scales scores so the maximum is 1. Empty input returns the
// map unchanged.
func normalize(scores map[int]float64) map[int]float64 {
	var max float64
	for _, s := range scores {
		if s > max {
			max = s
		}
	}
	if max == 0 {
		return scores
	}

	out := make(map[int]float64, len(scores))
	for cid, s := range scores {
		out[cid] = s / max
	}
	return out
}

// Trending returns the most-interacted courses within the configured
// lookback window. Scores decay linearly with age inside the window so
// today's activity outranks last week's.
func (e *Engine) Trending(ctx context.Context, limit int) ([]models.Course, bool, error) {
	limit = e.clampLimit(limit)

	key := cache.GenerateKey("trending", struct {
		Period string
		Limit  int
	}{e.cfg.TrendingPeriod, limit})
	if cached, ok := e.trendCache.Get(key); ok {
		return cached.([]models.Course), true, nil
	}

	window := trendingWindow(e.cfg.TrendingPeriod)
	now := time.Now()
	interactions := e.data.InteractionsSince(now.Add(-window))

	scores := make(map[int]float64)
	for _, in := range interactions {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		age := now.Sub(in.Timestamp)
		recency := 1.0 - 0.5*float64(age)/float64(window)
		scores[in.CourseID] += in.Type.Weight() * recency
	}

	data := NewDataset(e.data.AllCourses(), nil)
	courses := e.rank(scores, data, limit)
	e.trendCache.Set(key, courses)
	metrics.TrendingRecomputes.Inc()

	e.logger.Debug().Int("count", len(courses)).Str("period", e.cfg.TrendingPeriod).
		Msg("trending recomputed")
	return courses, false, nil
}

// SimilarTo returns the courses most similar to the given course by
// catalog metadata.
func (e *Engine) SimilarTo(ctx context.Context, courseID, limit int) ([]models.Course, error) {
	limit = e.clampLimit(limit)

	data := NewDataset(e.data.AllCourses(), nil)
	base, ok := data.ByID[courseID]
	if !ok {
		return nil, fmt.Errorf("course %d: not found", courseID)
	}

	scores := make(map[int]float64)
	for _, c := range data.Courses {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c.ID == courseID {
			continue
		}
		if sim := CourseSimilarity(base, c); sim > 0 {
			scores[c.ID] = sim
		}
	}

	return e.rank(scores, data, limit), nil
}

// NextSteps suggests progression: unseen courses in the user's active
// categories at the same or next difficulty, ranked by rating.
func (e *Engine) NextSteps(ctx context.Context, userID, limit int) ([]models.Course, error) {
	limit = e.clampLimit(limit)

	data := NewDataset(e.data.AllCourses(), e.data.AllInteractions())
	userItems := data.UserItems[userID]
	if len(userItems) == 0 {
		return []models.Course{}, nil
	}

	// Highest difficulty reached per category.
	reached := make(map[string]int)
	for cid := range userItems {
		c, ok := data.ByID[cid]
		if !ok {
			continue
		}
		cat := strings.ToLower(c.Category)
		if rank := difficultyOrder(c.Difficulty); rank > reached[cat] {
			reached[cat] = rank
		}
	}

	scores := make(map[int]float64)
	for _, c := range data.Courses {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if data.SeenBy(userID, c.ID) {
			continue
		}
		current, active := reached[strings.ToLower(c.Category)]
		if !active {
			continue
		}
		delta := difficultyOrder(c.Difficulty) - current
		if delta < 0 || delta > 1 {
			continue
		}
		// Next level up beats more of the same.
		scores[c.ID] = c.Rating + float64(delta)
	}

	return e.rank(scores, data, limit), nil
}

// ScoreWith ranks courses for a user with a single named method,
// bypassing the blend. Used by the explore endpoint.
func (e *Engine) ScoreWith(ctx context.Context, name string, userID, limit int) ([]models.Course, error) {
	limit = e.clampLimit(limit)

	e.mu.RLock()
	var method Method
	for _, wm := range e.methods {
		if wm.method.Name() == name {
			method = wm.method
			break
		}
	}
	e.mu.RUnlock()

	if method == nil {
		return nil, fmt.Errorf("method %s: not registered", name)
	}

	data := NewDataset(e.data.AllCourses(), e.data.AllInteractions())
	start := time.Now()
	scores, err := method.Score(ctx, userID, data)
	if err != nil {
		return nil, fmt.Errorf("method %s: %w", name, err)
	}
	metrics.RecordRecommendation(name, time.Since(start))

	return e.rank(normalize(scores), data, limit), nil
}

func (e *Engine) clampLimit(limit int) int {
	if limit <= 0 {
		return e.cfg.DefaultLimit
	}
	if limit > e.cfg.MaxLimit {
		return e.cfg.MaxLimit
	}
	return limit
}
