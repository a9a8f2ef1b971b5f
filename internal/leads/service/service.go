// Package service implements the read side of the leads API: lead and agent
// listings proxied from the hosted database, and agent statistics computed
// over one lead snapshot.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"tre_crm/internal/agentstats"
	"tre_crm/internal/leads/repository"
	"tre_crm/internal/leads/transport"
	"tre_crm/platform/apperr"
	"tre_crm/platform/phone"
	"tre_crm/platform/sanitize"

	"golang.org/x/sync/errgroup"
)

// leaderboardWorkers bounds the goroutines computing per-agent stats.
const leaderboardWorkers = 8

// DigestEnqueuer schedules an asynchronous stats digest.
type DigestEnqueuer interface {
	EnqueueAgentStatsDigest(ctx context.Context, reason string) error
}

// Service serves lead listings and agent statistics.
type Service struct {
	leads  repository.LeadReader
	agents repository.AgentReader
	calc   *agentstats.Calculator
	phones *phone.Formatter
	digest DigestEnqueuer
}

// New creates the service. leads may be a cache-backed reader.
func New(leads repository.LeadReader, agents repository.AgentReader, calc *agentstats.Calculator, phones *phone.Formatter) *Service {
	return &Service{
		leads:  leads,
		agents: agents,
		calc:   calc,
		phones: phones,
	}
}

// SetDigestEnqueuer enables RequestDigest. Without it RequestDigest reports unavailable.
func (s *Service) SetDigestEnqueuer(d DigestEnqueuer) {
	s.digest = d
}

// ListLeads proxies a filtered lead listing.
func (s *Service) ListLeads(ctx context.Context, q transport.ListLeadsQuery) (transport.LeadListResponse, error) {
	leads, err := s.leads.ListLeads(ctx, repository.LeadFilter{
		AssignedAgentID: q.AgentID,
		FoundByAgentID:  q.FoundBy,
		Limit:           q.Limit,
	})
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, s.toLeadResponse(lead))
	}
	return transport.LeadListResponse{Items: items, Total: len(items)}, nil
}

// ListAgents proxies the agent listing.
func (s *Service) ListAgents(ctx context.Context) (transport.AgentListResponse, error) {
	agents, err := s.agents.ListAgents(ctx)
	if err != nil {
		return transport.AgentListResponse{}, err
	}

	items := make([]transport.AgentResponse, 0, len(agents))
	for _, agent := range agents {
		items = append(items, toAgentResponse(agent))
	}
	return transport.AgentListResponse{Items: items}, nil
}

// AgentStats computes the counts for one agent over the full lead snapshot.
func (s *Service) AgentStats(ctx context.Context, agentID string) (transport.AgentStatsResponse, error) {
	var (
		agent repository.Agent
		leads []repository.Lead
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := s.agents.GetAgent(gctx, agentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFound("agent not found").WithOp("agentStats")
			}
			return err
		}
		agent = a
		return nil
	})
	g.Go(func() error {
		l, err := s.leads.ListLeads(gctx, repository.LeadFilter{})
		leads = l
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.AgentStatsResponse{}, err
	}

	now := s.calc.Now()
	stats := s.calc.ComputeAt(agent.ID, ToSnapshot(leads), now)
	return s.toStatsResponse(agent, stats, now), nil
}

// Leaderboard computes stats for every agent against the same snapshot and
// evaluation time, ordered by assigned count descending then by name.
func (s *Service) Leaderboard(ctx context.Context) (transport.LeaderboardResponse, error) {
	var (
		agents []repository.Agent
		leads  []repository.Lead
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := s.agents.ListAgents(gctx)
		agents = a
		return err
	})
	g.Go(func() error {
		l, err := s.leads.ListLeads(gctx, repository.LeadFilter{})
		leads = l
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.LeaderboardResponse{}, err
	}

	snapshot := ToSnapshot(leads)
	now := s.calc.Now()
	items := make([]transport.AgentStatsResponse, len(agents))

	cg, cctx := errgroup.WithContext(ctx)
	cg.SetLimit(leaderboardWorkers)
	for i, agent := range agents {
		cg.Go(func() error {
			if err := cctx.Err(); err != nil {
				return err
			}
			items[i] = s.toStatsResponse(agent, s.calc.ComputeAt(agent.ID, snapshot, now), now)
			return nil
		})
	}
	if err := cg.Wait(); err != nil {
		return transport.LeaderboardResponse{}, fmt.Errorf("compute leaderboard: %w", err)
	}

	sort.SliceStable(items, func(a, b int) bool {
		if items[a].Assigned != items[b].Assigned {
			return items[a].Assigned > items[b].Assigned
		}
		return items[a].AgentName < items[b].AgentName
	})

	return transport.LeaderboardResponse{
		Items:       items,
		LeadCount:   len(leads),
		WindowDays:  windowDays(s.calc.Window()),
		EvaluatedAt: now,
	}, nil
}

// RequestDigest queues a digest computation on the scheduler.
func (s *Service) RequestDigest(ctx context.Context, reason string) error {
	if s.digest == nil {
		return apperr.Unavailable("stats digest scheduler is not configured")
	}
	if err := s.digest.EnqueueAgentStatsDigest(ctx, reason); err != nil {
		return fmt.Errorf("enqueue stats digest: %w", err)
	}
	return nil
}

// ToSnapshot converts repository rows into calculator input. Null columns
// become the calculator's absent values.
func ToSnapshot(leads []repository.Lead) []agentstats.Lead {
	out := make([]agentstats.Lead, 0, len(leads))
	for _, lead := range leads {
		item := agentstats.Lead{ID: lead.ID}
		if lead.AssignedAgentID != nil {
			item.AssignedAgentID = *lead.AssignedAgentID
		}
		if lead.FoundByAgentID != nil {
			item.FoundByAgentID = *lead.FoundByAgentID
		}
		if lead.SubmittedAt != nil {
			item.SubmittedAt = *lead.SubmittedAt
		}
		out = append(out, item)
	}
	return out
}

func (s *Service) toLeadResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:              lead.ID,
		Name:            sanitize.DisplayText(lead.Name),
		Email:           lead.Email,
		Phone:           s.phones.E164(lead.Phone),
		Status:          lead.Status,
		Source:          sanitize.DisplayTextPtr(lead.Source),
		AssignedAgentID: lead.AssignedAgentID,
		FoundByAgentID:  lead.FoundByAgentID,
		SubmittedAt:     lead.SubmittedAt,
		CreatedAt:       lead.CreatedAt,
	}
}

func toAgentResponse(agent repository.Agent) transport.AgentResponse {
	return transport.AgentResponse{
		ID:     agent.ID,
		Name:   sanitize.DisplayText(agent.Name),
		Email:  agent.Email,
		Active: agent.Active,
	}
}

func (s *Service) toStatsResponse(agent repository.Agent, stats agentstats.Stats, now time.Time) transport.AgentStatsResponse {
	return transport.AgentStatsResponse{
		AgentID:     agent.ID,
		AgentName:   sanitize.DisplayText(agent.Name),
		Generated:   stats.Generated,
		Assigned:    stats.Assigned,
		Closed:      stats.Closed,
		WindowDays:  windowDays(s.calc.Window()),
		EvaluatedAt: now,
	}
}

func windowDays(d time.Duration) int {
	return int(d / (24 * time.Hour))
}
