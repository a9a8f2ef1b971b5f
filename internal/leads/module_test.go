package leads

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tre_crm/internal/events"
	apphttp "tre_crm/internal/http"
	"tre_crm/internal/leads/repository"
	"tre_crm/platform/logger"
	"tre_crm/platform/validator"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type testConfig struct {
	redisURL string
}

func (c testConfig) GetRedisURL() string                   { return c.redisURL }
func (testConfig) GetRedisTLSInsecure() bool               { return false }
func (testConfig) GetLeadsCacheTTL() time.Duration         { return time.Minute }
func (c testConfig) IsCacheEnabled() bool                  { return c.redisURL != "" }
func (testConfig) GetAgentStatsWindow() time.Duration      { return 30 * 24 * time.Hour }
func (testConfig) GetAgentStatsClosedProbability() float64 { return 0 }
func (testConfig) GetDefaultPhoneRegion() string           { return "NL" }

type memoryRepo struct {
	leadCalls int
}

func (m *memoryRepo) ListLeads(context.Context, repository.LeadFilter) ([]repository.Lead, error) {
	m.leadCalls++
	return []repository.Lead{{ID: "l1", Name: "Lead"}}, nil
}

func (m *memoryRepo) ListAgents(context.Context) ([]repository.Agent, error) {
	return []repository.Agent{{ID: "a1", Name: "Alice", Active: true}}, nil
}

func (m *memoryRepo) GetAgent(_ context.Context, id string) (repository.Agent, error) {
	if id != "a1" {
		return repository.Agent{}, repository.ErrNotFound
	}
	return repository.Agent{ID: "a1", Name: "Alice", Active: true}, nil
}

func TestNewCalculatorUsesConfig(t *testing.T) {
	calc := NewCalculator(testConfig{})
	if calc.Window() != 30*24*time.Hour {
		t.Fatalf("unexpected window %v", calc.Window())
	}
}

func TestModuleRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &memoryRepo{}
	m := newModule(repo, repo, nil, true, validator.New(), testConfig{}, logger.Discard())

	engine := gin.New()
	m.RegisterRoutes(&apphttp.RouterContext{Engine: engine, V1: engine.Group("/api/v1")})

	for path, want := range map[string]int{
		"/api/v1/leads":           http.StatusOK,
		"/api/v1/agents":          http.StatusOK,
		"/api/v1/agents/stats":    http.StatusOK,
		"/api/v1/agents/a1/stats": http.StatusOK,
		"/api/v1/agents/zz/stats": http.StatusNotFound,
	} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != want {
			t.Errorf("GET %s = %d, want %d", path, w.Code, want)
		}
	}
}

func TestDigestEventInvalidatesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repo := &memoryRepo{}
	m := newModule(repo, repo, rdb, true, validator.New(), testConfig{redisURL: "redis://" + mr.Addr()}, logger.Discard())
	if m.cache == nil {
		t.Fatal("expected cached reader when redis is configured")
	}

	ctx := context.Background()
	if _, err := m.Service().Leaderboard(ctx); err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if !mr.Exists(repository.SnapshotCacheKey) {
		t.Fatal("expected snapshot to be cached")
	}

	bus := events.NewInMemoryBus(logger.Discard())
	m.RegisterHandlers(bus)
	err := bus.PublishSync(ctx, events.AgentStatsDigestComputed{BaseEvent: events.NewBaseEvent(), Reason: "test"})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if mr.Exists(repository.SnapshotCacheKey) {
		t.Fatal("expected snapshot to be invalidated after digest")
	}
}

func TestDigestInSchedulerProcessInvalidatesAPISnapshot(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig{redisURL: "redis://" + mr.Addr()}
	ctx := context.Background()

	// API process: its own redis client, bus and read-through cache.
	apiRDB := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = apiRDB.Close() })
	apiRepo := &memoryRepo{}
	api := newModule(apiRepo, apiRepo, apiRDB, true, validator.New(), cfg, logger.Discard())
	api.RegisterHandlers(events.NewInMemoryBus(logger.Discard()))

	if _, err := api.Service().Leaderboard(ctx); err != nil {
		t.Fatalf("api leaderboard: %v", err)
	}
	if !mr.Exists(repository.SnapshotCacheKey) {
		t.Fatal("expected the api to cache the snapshot")
	}

	// Scheduler process: separate client and bus, wired like cmd/scheduler.
	workerRDB := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = workerRDB.Close() })
	workerRepo := &memoryRepo{}
	worker := newModule(workerRepo, workerRepo, workerRDB, false, validator.New(), cfg, logger.Discard())
	workerBus := events.NewInMemoryBus(logger.Discard())
	worker.RegisterHandlers(workerBus)

	board, err := worker.Service().Leaderboard(ctx)
	if err != nil {
		t.Fatalf("worker leaderboard: %v", err)
	}
	if workerRepo.leadCalls != 1 {
		t.Fatalf("digest must read the database, got %d reads", workerRepo.leadCalls)
	}

	err = workerBus.PublishSync(ctx, events.AgentStatsDigestComputed{
		BaseEvent: events.NewBaseEvent(),
		Reason:    "periodic",
		LeadCount: board.LeadCount,
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if mr.Exists(repository.SnapshotCacheKey) {
		t.Fatal("expected the shared snapshot to be dropped by the scheduler process")
	}

	apiCalls := apiRepo.leadCalls
	if _, err := api.Service().Leaderboard(ctx); err != nil {
		t.Fatalf("api leaderboard: %v", err)
	}
	if apiRepo.leadCalls != apiCalls+1 {
		t.Fatal("expected the api to reload the snapshot from the database")
	}
}
