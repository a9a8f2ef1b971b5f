package events

import "time"

// AgentStatsEntry is one agent's row in a digest.
type AgentStatsEntry struct {
	AgentID   string `json:"agentId"`
	AgentName string `json:"agentName"`
	Generated int    `json:"generated"`
	Assigned  int    `json:"assigned"`
	Closed    int    `json:"closed"`
}

// AgentStatsDigestComputed is published after the scheduler recomputes stats for every agent.
type AgentStatsDigestComputed struct {
	BaseEvent
	Reason    string            `json:"reason"`
	LeadCount int               `json:"leadCount"`
	WindowEnd time.Time         `json:"windowEnd"`
	Entries   []AgentStatsEntry `json:"entries"`
}

func (AgentStatsDigestComputed) EventName() string { return "agentstats.digest_computed" }
