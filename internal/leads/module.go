// Package leads provides the leads and agents bounded context module.
// This file wires the repository, the optional snapshot cache and the stats
// calculator, and mounts the read-only routes.
package leads

import (
	"context"

	"tre_crm/internal/agentstats"
	"tre_crm/internal/events"
	apphttp "tre_crm/internal/http"
	"tre_crm/internal/leads/handler"
	"tre_crm/internal/leads/repository"
	"tre_crm/internal/leads/service"
	"tre_crm/platform/config"
	"tre_crm/platform/logger"
	"tre_crm/platform/phone"
	"tre_crm/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// ModuleConfig is the subset of configuration the leads module reads.
type ModuleConfig interface {
	config.CacheConfig
	config.StatsConfig
	config.PhoneConfig
}

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	cache   *repository.CachedReader
	log     *logger.Logger
}

// NewModule creates the leads module. rdb may be nil, in which case lead
// listings always hit the database.
func NewModule(pool *pgxpool.Pool, rdb *redis.Client, val *validator.Validator, cfg ModuleConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	return newModule(repo, repo, rdb, true, val, cfg, log)
}

// NewDigestModule creates the leads module for the scheduler process. Digests
// read straight from the database; rdb, when set, is only used to drop the
// snapshot the API processes share once a digest is computed.
func NewDigestModule(pool *pgxpool.Pool, rdb *redis.Client, val *validator.Validator, cfg ModuleConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	return newModule(repo, repo, rdb, false, val, cfg, log)
}

func newModule(leads repository.LeadReader, agents repository.AgentReader, rdb *redis.Client, readThrough bool, val *validator.Validator, cfg ModuleConfig, log *logger.Logger) *Module {
	var cached *repository.CachedReader
	if rdb != nil && cfg.IsCacheEnabled() {
		cached = repository.NewCachedReader(leads, rdb, cfg.GetLeadsCacheTTL(), log)
		if readThrough {
			leads = cached
		}
	}

	calc := NewCalculator(cfg)
	svc := service.New(leads, agents, calc, phone.NewFormatter(cfg.GetDefaultPhoneRegion()))

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		cache:   cached,
		log:     log,
	}
}

// NewCalculator builds the stats calculator from configuration.
func NewCalculator(cfg config.StatsConfig) *agentstats.Calculator {
	return agentstats.New(
		agentstats.WithWindow(cfg.GetAgentStatsWindow()),
		agentstats.WithClosedPredicate(agentstats.ClosedWithProbability(cfg.GetAgentStatsClosedProbability(), nil)),
	)
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the leads service for the scheduler and CLI.
func (m *Module) Service() *service.Service {
	return m.service
}

// SetDigestEnqueuer enables POST /agents/stats/digest.
func (m *Module) SetDigestEnqueuer(d service.DigestEnqueuer) {
	m.service.SetDigestEnqueuer(d)
}

// RegisterHandlers subscribes the module to domain events.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.AgentStatsDigestComputed{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.AgentStatsDigestComputed)
		if !ok {
			return nil
		}

		top := ""
		if len(e.Entries) > 0 {
			top = e.Entries[0].AgentID
		}
		m.log.WithContext(ctx).Info("agent stats digest computed",
			"eventId", e.ID(),
			"reason", e.Reason,
			"agents", len(e.Entries),
			"leads", e.LeadCount,
			"topAgentId", top,
		)

		if m.cache != nil {
			if err := m.cache.Invalidate(ctx); err != nil {
				m.log.CacheEvent("invalidate_failed", repository.SnapshotCacheKey, err)
			}
		}
		return nil
	}))
}

// RegisterRoutes mounts leads and agents routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterLeadRoutes(ctx.V1.Group("/leads"))
	m.handler.RegisterAgentRoutes(ctx.V1.Group("/agents"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
