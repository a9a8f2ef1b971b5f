package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("agent not found")

// Lead mirrors a row of the hosted leads table. Nullable columns are pointers.
type Lead struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           *string    `json:"email,omitempty"`
	Phone           string     `json:"phone"`
	Status          string     `json:"status"`
	Source          *string    `json:"source,omitempty"`
	AssignedAgentID *string    `json:"assignedAgentId,omitempty"`
	FoundByAgentID  *string    `json:"foundByAgentId,omitempty"`
	SubmittedAt     *time.Time `json:"submittedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// Agent mirrors a row of the hosted agents table.
type Agent struct {
	ID     string
	Name   string
	Email  string
	Active bool
}

// LeadFilter narrows a lead listing. The zero value lists every lead.
type LeadFilter struct {
	AssignedAgentID string
	FoundByAgentID  string
	Limit           int
}

// IsZero reports whether the filter selects the full snapshot.
func (f LeadFilter) IsZero() bool {
	return f == LeadFilter{}
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `
	id::text, name, email, COALESCE(phone, ''), COALESCE(status, 'new'), source,
	assigned_agent_id::text, found_by_agent_id::text, submitted_at, created_at`

// ListLeads returns leads newest first; leads without submitted_at sort last.
func (r *Repository) ListLeads(ctx context.Context, filter LeadFilter) ([]Lead, error) {
	query, args := buildLeadQuery(filter)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		var lead Lead
		if err := rows.Scan(
			&lead.ID, &lead.Name, &lead.Email, &lead.Phone, &lead.Status, &lead.Source,
			&lead.AssignedAgentID, &lead.FoundByAgentID, &lead.SubmittedAt, &lead.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("list leads: %w", rows.Err())
	}

	return leads, nil
}

func buildLeadQuery(filter LeadFilter) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)

	if filter.AssignedAgentID != "" {
		args = append(args, filter.AssignedAgentID)
		where = append(where, fmt.Sprintf("assigned_agent_id::text = $%d", len(args)))
	}
	if filter.FoundByAgentID != "" {
		args = append(args, filter.FoundByAgentID)
		where = append(where, fmt.Sprintf("found_by_agent_id::text = $%d", len(args)))
	}

	var b strings.Builder
	b.WriteString("SELECT")
	b.WriteString(leadColumns)
	b.WriteString("\n\tFROM leads")
	if len(where) > 0 {
		b.WriteString("\n\tWHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString("\n\tORDER BY submitted_at DESC NULLS LAST, id")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&b, "\n\tLIMIT $%d", len(args))
	}

	return b.String(), args
}

// ListAgents returns every agent ordered by name.
func (r *Repository) ListAgents(ctx context.Context) ([]Agent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, name, COALESCE(email, ''), COALESCE(active, true)
		FROM agents
		ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	agents := make([]Agent, 0)
	for rows.Next() {
		var agent Agent
		if err := rows.Scan(&agent.ID, &agent.Name, &agent.Email, &agent.Active); err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		agents = append(agents, agent)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("list agents: %w", rows.Err())
	}

	return agents, nil
}

// GetAgent returns ErrNotFound when no agent has the given id.
func (r *Repository) GetAgent(ctx context.Context, id string) (Agent, error) {
	var agent Agent
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, name, COALESCE(email, ''), COALESCE(active, true)
		FROM agents
		WHERE id::text = $1
	`, id).Scan(&agent.ID, &agent.Name, &agent.Email, &agent.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Agent{}, ErrNotFound
		}
		return Agent{}, fmt.Errorf("get agent: %w", err)
	}
	return agent, nil
}
