package repository

import "context"

// LeadReader lists leads from the hosted database or a cache in front of it.
type LeadReader interface {
	ListLeads(ctx context.Context, filter LeadFilter) ([]Lead, error)
}

// AgentReader reads agents.
type AgentReader interface {
	ListAgents(ctx context.Context) ([]Agent, error)
	GetAgent(ctx context.Context, id string) (Agent, error)
}

var (
	_ LeadReader  = (*Repository)(nil)
	_ AgentReader = (*Repository)(nil)
	_ LeadReader  = (*CachedReader)(nil)
)
