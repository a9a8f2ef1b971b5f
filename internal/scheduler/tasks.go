package scheduler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const TaskAgentStatsDigest = "agentstats.digest"

// Digest reasons.
const (
	ReasonManual   = "manual"
	ReasonPeriodic = "periodic"
)

type AgentStatsDigestPayload struct {
	RequestedAt time.Time `json:"requestedAt"`
	Reason      string    `json:"reason"`
}

func NewAgentStatsDigestTask(payload AgentStatsDigestPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAgentStatsDigest, data, asynq.MaxRetry(3), asynq.Timeout(2*time.Minute)), nil
}

func ParseAgentStatsDigestPayload(task *asynq.Task) (AgentStatsDigestPayload, error) {
	var payload AgentStatsDigestPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return AgentStatsDigestPayload{}, fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if payload.Reason == "" {
		payload.Reason = ReasonPeriodic
	}
	return payload, nil
}
