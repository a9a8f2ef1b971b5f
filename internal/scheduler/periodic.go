package scheduler

import (
	"context"
	"fmt"
	"time"

	"tre_crm/platform/config"
	"tre_crm/platform/logger"

	"github.com/hibiken/asynq"
)

// Periodic enqueues the agent stats digest on a cron spec.
type Periodic struct {
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

func NewPeriodic(cfg config.SchedulerConfig, log *logger.Logger) (*Periodic, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{
		Location: time.UTC,
		Logger:   asynqLogger{log: log},
		LogLevel: asynq.WarnLevel,
		PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
			if err != nil {
				log.Error("periodic digest enqueue failed", "error", err)
				return
			}
			log.Debug("periodic digest enqueued", "taskId", info.ID, "queue", info.Queue)
		},
	})

	p := &Periodic{scheduler: scheduler, log: log}
	if err := p.register(cfg.GetAgentStatsDigestSpec(), queueName(cfg)); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Periodic) register(spec, queue string) error {
	if spec == "" {
		return fmt.Errorf("digest schedule not configured")
	}

	task, err := NewAgentStatsDigestTask(AgentStatsDigestPayload{Reason: ReasonPeriodic})
	if err != nil {
		return err
	}

	entryID, err := p.scheduler.Register(spec, task, asynq.Queue(queue), asynq.Unique(digestUniqueTTL))
	if err != nil {
		return fmt.Errorf("register digest schedule %q: %w", spec, err)
	}
	p.log.Info("agent stats digest scheduled", "spec", spec, "entryId", entryID)
	return nil
}

// Run blocks until ctx is cancelled.
func (p *Periodic) Run(ctx context.Context) error {
	if err := p.scheduler.Start(); err != nil {
		return fmt.Errorf("start periodic scheduler: %w", err)
	}
	<-ctx.Done()
	p.scheduler.Shutdown()
	return nil
}
