package transport

import "time"

// ListLeadsQuery filters GET /leads.
type ListLeadsQuery struct {
	AgentID string `form:"agentId" validate:"omitempty,opaqueid"`
	FoundBy string `form:"foundBy" validate:"omitempty,opaqueid"`
	Limit   int    `form:"limit" validate:"omitempty,min=1,max=1000"`
}

// AgentIDParam is the :id path segment of agent routes.
type AgentIDParam struct {
	ID string `uri:"id" validate:"required,opaqueid"`
}

type LeadResponse struct {
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

type LeadListResponse struct {
	Items []LeadResponse `json:"items"`
	Total int            `json:"total"`
}

type AgentResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Active bool   `json:"active"`
}

type AgentListResponse struct {
	Items []AgentResponse `json:"items"`
}

// AgentStatsResponse is one agent's counts. Closed is an approximation
// (see agentstats.ClosedPredicate) and is not reproducible across calls.
type AgentStatsResponse struct {
	AgentID     string    `json:"agentId"`
	AgentName   string    `json:"agentName"`
	Generated   int       `json:"generated"`
	Assigned    int       `json:"assigned"`
	Closed      int       `json:"closed"`
	WindowDays  int       `json:"windowDays"`
	EvaluatedAt time.Time `json:"evaluatedAt"`
}

type LeaderboardResponse struct {
	Items       []AgentStatsResponse `json:"items"`
	LeadCount   int                  `json:"leadCount"`
	WindowDays  int                  `json:"windowDays"`
	EvaluatedAt time.Time            `json:"evaluatedAt"`
}

type DigestResponse struct {
	Status string `json:"status"`
}
