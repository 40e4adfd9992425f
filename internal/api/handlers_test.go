// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/coursecast/coursecast/internal/auth"
	"github.com/coursecast/coursecast/internal/config"
	"github.com/coursecast/coursecast/internal/logging"
	"github.com/coursecast/coursecast/internal/models"
	"github.com/coursecast/coursecast/internal/realtime"
	"github.com/coursecast/coursecast/internal/recommend"
	"github.com/coursecast/coursecast/internal/recommend/algorithms"
	"github.com/coursecast/coursecast/internal/store"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

// testEnv bundles everything a handler test needs.
type testEnv struct {
	server *httptest.Server
	store  *store.Store
	hub    *realtime.Hub
	jwt    *auth.JWTManager
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 8000, Timeout: 30 * time.Second},
		API:    config.APIConfig{DefaultPageSize: 20, MaxPageSize: 100},
		Security: config.SecurityConfig{
			JWTSecret:         "test-secret-that-is-at-least-32-chars!",
			SessionTimeout:    time.Hour,
			RateLimitDisabled: true,
			CORSOrigins:       []string{"*"},
		},
		Feed: config.FeedConfig{
			WSURL:              "ws://localhost:8000/api/v1/ws",
			NotificationTTL:    5 * time.Second,
			MaxRecommendations: 10,
		},
		Recommend: config.RecommendConfig{
			CollaborativeWeight: 0.3,
			ContentWeight:       0.2,
			PopularityWeight:    0.2,
			ExploreWeight:       0.3,
			ExploreEpsilon:      0.1,
			DefaultLimit:        10,
			MaxLimit:            50,
			CacheTTL:            time.Minute,
			TrendingInterval:    30 * time.Second,
			TrendingPeriod:      "week",
		},
		Logging: config.LoggingConfig{Level: "info", Format: "console"},
	}
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := testConfig()

	st := store.New()
	st.SeedCourses()
	st.SeedDemoActivity()

	engine := recommend.NewEngine(recommend.Config{
		DefaultLimit:   cfg.Recommend.DefaultLimit,
		MaxLimit:       cfg.Recommend.MaxLimit,
		CacheTTL:       cfg.Recommend.CacheTTL,
		TrendingPeriod: cfg.Recommend.TrendingPeriod,
	}, st, zerolog.Nop())
	engine.Register(algorithms.NewCollaborative(), cfg.Recommend.CollaborativeWeight)
	engine.Register(algorithms.NewContent(), cfg.Recommend.ContentWeight)
	engine.Register(algorithms.NewPopularity(algorithms.PopularityConfig{}), cfg.Recommend.PopularityWeight)
	engine.Register(algorithms.NewExplore(algorithms.ExploreConfig{Seed: 1}), cfg.Recommend.ExploreWeight)

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("jwt manager: %v", err)
	}

	hub := realtime.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = hub.RunWithContext(ctx) }()
	t.Cleanup(cancel)

	handler := NewHandler(cfg, st, engine, hub, jwtManager)
	srv := httptest.NewServer(NewRouter(cfg, handler, jwtManager).Setup())
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, store: st, hub: hub, jwt: jwtManager}
}

// authToken creates a user directly in the store and returns a token.
func (e *testEnv) authToken(t *testing.T) string {
	t.Helper()

	hashed, err := auth.HashPassword("sup3r-secret-pw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user, err := e.store.CreateUser(models.User{
		Username:       "tester",
		Email:          "tester@example.com",
		Role:           models.RoleStudent,
		HashedPassword: hashed,
		CreatedAt:      time.Now(),
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	token, _, err := e.jwt.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return token
}

// doJSON performs a request and decodes the standard response envelope.
func doJSON(t *testing.T, method, url, token string, body interface{}) (int, *models.APIResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var envelope models.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, &envelope
}

// dataMap extracts the data field as a map.
func dataMap(t *testing.T, resp *models.APIResponse) map[string]interface{} {
	t.Helper()
	m, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("expected object data, got %T", resp.Data)
	}
	return m
}

func TestHealthEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	status, resp := doJSON(t, http.MethodGet, env.server.URL+"/api/v1/health", "", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if resp.Status != "success" {
		t.Errorf("unexpected status %q", resp.Status)
	}
	if dataMap(t, resp)["status"] != "healthy" {
		t.Error("health data should report healthy")
	}

	status, _ = doJSON(t, http.MethodGet, env.server.URL+"/api/v1/health/live", "", nil)
	if status != http.StatusOK {
		t.Errorf("expected 200 live, got %d", status)
	}

	// The store is seeded in setup, so ready reports 200.
	status, _ = doJSON(t, http.MethodGet, env.server.URL+"/api/v1/health/ready", "", nil)
	if status != http.StatusOK {
		t.Errorf("expected 200 ready, got %d", status)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	env := setupTestEnv(t)

	register := map[string]string{
		"username": "newuser1",
		"email":    "new@example.com",
		"password": "longenoughpw",
	}
	status, resp := doJSON(t, http.MethodPost, env.server.URL+"/api/v1/auth/register", "", register)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%+v)", status, resp.Error)
	}

	// Duplicate username conflicts.
	status, resp = doJSON(t, http.MethodPost, env.server.URL+"/api/v1/auth/register", "", register)
	if status != http.StatusConflict {
		t.Errorf("expected 409 for duplicate username, got %d", status)
	}
	if resp.Error == nil || resp.Error.Code != "USERNAME_TAKEN" {
		t.Errorf("unexpected error %+v", resp.Error)
	}

	status, resp = doJSON(t, http.MethodPost, env.server.URL+"/api/v1/auth/login", "",
		map[string]string{"username": "newuser1", "password": "longenoughpw"})
	if status != http.StatusOK {
		t.Fatalf("expected 200 login, got %d", status)
	}
	if dataMap(t, resp)["token"] == "" {
		t.Error("login should return a token")
	}

	status, _ = doJSON(t, http.MethodPost, env.server.URL+"/api/v1/auth/login", "",
		map[string]string{"username": "newuser1", "password": "wrongpassword"})
	if status != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong password, got %d", status)
	}

	// Unknown user gets the same answer as a wrong password.
	status, resp = doJSON(t, http.MethodPost, env.server.URL+"/api/v1/auth/login", "",
		map[string]string{"username": "whoisthis", "password": "wrongpassword"})
	if status != http.StatusUnauthorized {
		t.Errorf("expected 401 for unknown user, got %d", status)
	}
	if resp.Error == nil || resp.Error.Code != "INVALID_CREDENTIALS" {
		t.Errorf("unexpected error %+v", resp.Error)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := setupTestEnv(t)

	status, resp := doJSON(t, http.MethodPost, env.server.URL+"/api/v1/auth/register", "",
		map[string]string{"username": "x", "email": "nope", "password": "short"})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if resp.Error == nil || resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("unexpected error %+v", resp.Error)
	}
}

func TestListAndGetCourses(t *testing.T) {
	env := setupTestEnv(t)

	status, resp := doJSON(t, http.MethodGet, env.server.URL+"/api/v1/courses", "", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	data := dataMap(t, resp)
	if data["total"].(float64) != 12 {
		t.Errorf("expected 12 seeded courses, got %v", data["total"])
	}

	status, resp = doJSON(t, http.MethodGet, env.server.URL+"/api/v1/courses?difficulty=beginner&limit=5", "", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	courses := dataMap(t, resp)["courses"].([]interface{})
	if len(courses) > 5 {
		t.Errorf("limit not applied, got %d courses", len(courses))
	}

	status, _ = doJSON(t, http.MethodGet, env.server.URL+"/api/v1/courses/1", "", nil)
	if status != http.StatusOK {
		t.Errorf("expected 200 for course 1, got %d", status)
	}

	status, _ = doJSON(t, http.MethodGet, env.server.URL+"/api/v1/courses/999", "", nil)
	if status != http.StatusNotFound {
		t.Errorf("expected 404 for unknown course, got %d", status)
	}

	status, _ = doJSON(t, http.MethodGet, env.server.URL+"/api/v1/courses/abc", "", nil)
	if status != http.StatusBadRequest {
		t.Errorf("expected 400 for bad id, got %d", status)
	}
}

func TestCourseMutationsRequireAuth(t *testing.T) {
	env := setupTestEnv(t)

	course := map[string]interface{}{
		"title": "Test Course", "category": "Testing", "difficulty": "beginner",
	}

	status, _ := doJSON(t, http.MethodPost, env.server.URL+"/api/v1/courses", "", course)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}

	token := env.authToken(t)
	status, resp := doJSON(t, http.MethodPost, env.server.URL+"/api/v1/courses", token, course)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%+v)", status, resp.Error)
	}
	created := dataMap(t, resp)
	id := int(created["id"].(float64))
	if id == 0 {
		t.Fatal("created course should have an ID")
	}

	course["title"] = "Renamed Course"
	status, _ = doJSON(t, http.MethodPut, env.server.URL+"/api/v1/courses/"+strconv.Itoa(id), token, course)
	if status != http.StatusOK {
		t.Errorf("expected 200 update, got %d", status)
	}

	status, _ = doJSON(t, http.MethodDelete, env.server.URL+"/api/v1/courses/"+strconv.Itoa(id), token, nil)
	if status != http.StatusOK {
		t.Errorf("expected 200 delete, got %d", status)
	}
	status, _ = doJSON(t, http.MethodDelete, env.server.URL+"/api/v1/courses/"+strconv.Itoa(id), token, nil)
	if status != http.StatusNotFound {
		t.Errorf("expected 404 on double delete, got %d", status)
	}
}

func TestInteractionRecording(t *testing.T) {
	env := setupTestEnv(t)
	token := env.authToken(t)

	status, resp := doJSON(t, http.MethodPost, env.server.URL+"/api/v1/interactions", token,
		map[string]interface{}{"course_id": 3, "type": "view"})
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%+v)", status, resp.Error)
	}

	status, _ = doJSON(t, http.MethodPost, env.server.URL+"/api/v1/interactions", token,
		map[string]interface{}{"course_id": 3, "type": "teleport"})
	if status != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown type, got %d", status)
	}

	status, _ = doJSON(t, http.MethodPost, env.server.URL+"/api/v1/interactions", token,
		map[string]interface{}{"course_id": 999, "type": "view"})
	if status != http.StatusNotFound {
		t.Errorf("expected 404 for unknown course, got %d", status)
	}
}

func TestLearningListFlow(t *testing.T) {
	env := setupTestEnv(t)
	token := env.authToken(t)
	base := env.server.URL + "/api/v1/learning"

	status, resp := doJSON(t, http.MethodPost, base+"/2", token, nil)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 enroll, got %d (%+v)", status, resp.Error)
	}

	status, _ = doJSON(t, http.MethodPost, base+"/2", token, nil)
	if status != http.StatusConflict {
		t.Errorf("expected 409 on double enroll, got %d", status)
	}

	status, resp = doJSON(t, http.MethodPut, base+"/2", token, map[string]int{"progress": 100})
	if status != http.StatusOK {
		t.Fatalf("expected 200 progress, got %d", status)
	}
	if dataMap(t, resp)["completed"] != true {
		t.Error("progress 100 should complete the course")
	}

	status, resp = doJSON(t, http.MethodGet, base, token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 list, got %d", status)
	}
	entries := dataMap(t, resp)["entries"].([]interface{})
	if len(entries) != 1 {
		t.Errorf("expected 1 learning entry, got %d", len(entries))
	}

	status, _ = doJSON(t, http.MethodDelete, base+"/2", token, nil)
	if status != http.StatusOK {
		t.Errorf("expected 200 remove, got %d", status)
	}
}

func TestRecommendationEndpoints(t *testing.T) {
	env := setupTestEnv(t)
	token := env.authToken(t)
	base := env.server.URL + "/api/v1/recommendations"

	status, _ := doJSON(t, http.MethodGet, base, "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}

	status, resp := doJSON(t, http.MethodGet, base, token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d (%+v)", status, resp.Error)
	}
	if _, ok := dataMap(t, resp)["recommendations"]; !ok {
		t.Error("response should carry a recommendations list")
	}

	status, resp = doJSON(t, http.MethodGet, base+"?method=explore", token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for single-method scoring, got %d", status)
	}

	status, _ = doJSON(t, http.MethodGet, base+"?method=quantum", token, nil)
	if status != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown method, got %d", status)
	}

	// Trending is public so the feed client can populate without auth.
	status, resp = doJSON(t, http.MethodGet, base+"/trending", "", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 trending, got %d", status)
	}
	if _, ok := dataMap(t, resp)["trending"]; !ok {
		t.Error("response should carry a trending list")
	}

	status, resp = doJSON(t, http.MethodGet, base+"/similar-to/1", "", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 similar, got %d", status)
	}
	if _, ok := dataMap(t, resp)["similar"]; !ok {
		t.Error("response should carry a similar list")
	}

	status, _ = doJSON(t, http.MethodGet, base+"/similar-to/999", "", nil)
	if status != http.StatusNotFound {
		t.Errorf("expected 404 for unknown course, got %d", status)
	}

	status, resp = doJSON(t, http.MethodGet, base+"/next-steps", token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 next-steps, got %d", status)
	}
	if _, ok := dataMap(t, resp)["next_steps"]; !ok {
		t.Error("response should carry a next_steps list")
	}

	status, resp = doJSON(t, http.MethodGet, base+"/explore", token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 explore, got %d", status)
	}
	if _, ok := dataMap(t, resp)["explore"]; !ok {
		t.Error("response should carry an explore list")
	}
}

func TestRecommendationCachedFlag(t *testing.T) {
	env := setupTestEnv(t)
	token := env.authToken(t)
	url := env.server.URL + "/api/v1/recommendations"

	_, first := doJSON(t, http.MethodGet, url, token, nil)
	if first.Metadata.Cached {
		t.Error("first request should not be served from cache")
	}

	_, second := doJSON(t, http.MethodGet, url, token, nil)
	if !second.Metadata.Cached {
		t.Error("second identical request should be served from cache")
	}
}

func TestWebSocketReceivesBroadcast(t *testing.T) {
	env := setupTestEnv(t)

	wsURL := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/api/v1/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	// Wait for the hub to register the client before broadcasting.
	deadline := time.Now().Add(time.Second)
	for env.hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered with the hub")
		}
		time.Sleep(5 * time.Millisecond)
	}

	env.hub.BroadcastNewRecommendation(models.Course{ID: 4, Title: "Intro to Rust"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Type string        `json:"type"`
		Data models.Course `json:"data"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if msg.Type != models.EnvelopeNewRecommendation {
		t.Errorf("unexpected message type %q", msg.Type)
	}
	if msg.Data.Title != "Intro to Rust" {
		t.Errorf("unexpected course %+v", msg.Data)
	}
}

func TestRequestIDHeader(t *testing.T) {
	env := setupTestEnv(t)

	resp, err := http.Get(env.server.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("responses should carry X-Request-ID")
	}
	if resp.Header.Get("ETag") == "" {
		t.Error("JSON responses should carry an ETag")
	}
}
