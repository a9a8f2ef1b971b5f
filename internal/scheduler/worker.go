package scheduler

import (
	"context"
	"fmt"

	"tre_crm/internal/events"
	"tre_crm/internal/leads/transport"
	"tre_crm/platform/config"
	"tre_crm/platform/logger"

	"github.com/hibiken/asynq"
)

// LeaderboardProvider computes stats for every agent from one lead snapshot.
type LeaderboardProvider interface {
	Leaderboard(ctx context.Context) (transport.LeaderboardResponse, error)
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	stats  LeaderboardProvider
	bus    events.Bus
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, stats LeaderboardProvider, bus events.Bus, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 5
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
		Logger:   asynqLogger{log: log},
		LogLevel: asynq.WarnLevel,
	})

	w := newWorker(stats, bus, log)
	w.server = server
	return w, nil
}

func newWorker(stats LeaderboardProvider, bus events.Bus, log *logger.Logger) *Worker {
	mux := asynq.NewServeMux()
	w := &Worker{
		mux:   mux,
		stats: stats,
		bus:   bus,
		log:   log,
	}
	mux.HandleFunc(TaskAgentStatsDigest, w.handleAgentStatsDigest)
	return w
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleAgentStatsDigest(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAgentStatsDigestPayload(task)
	if err != nil {
		return err
	}

	board, err := w.stats.Leaderboard(ctx)
	if err != nil {
		return err
	}

	entries := make([]events.AgentStatsEntry, 0, len(board.Items))
	for _, item := range board.Items {
		entries = append(entries, events.AgentStatsEntry{
			AgentID:   item.AgentID,
			AgentName: item.AgentName,
			Generated: item.Generated,
			Assigned:  item.Assigned,
			Closed:    item.Closed,
		})
	}

	w.log.Debug("agent stats digest computed",
		"reason", payload.Reason,
		"requestedAt", payload.RequestedAt,
		"agents", len(entries),
	)

	if w.bus == nil {
		return nil
	}

	return w.bus.PublishSync(ctx, events.AgentStatsDigestComputed{
		BaseEvent: events.NewBaseEvent(),
		Reason:    payload.Reason,
		LeadCount: board.LeadCount,
		WindowEnd: board.EvaluatedAt,
		Entries:   entries,
	})
}

// asynqLogger routes asynq's internal logging through the application logger.
type asynqLogger struct {
	log *logger.Logger
}

func (l asynqLogger) Debug(args ...interface{}) { l.log.Debug(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...interface{})  { l.log.Info(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...interface{})  { l.log.Warn(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...interface{}) { l.log.Error(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...interface{}) { l.log.Error(fmt.Sprint(args...), "fatal", true) }
