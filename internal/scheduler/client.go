package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tre_crm/platform/cache"
	"tre_crm/platform/config"

	"github.com/hibiken/asynq"
)

// digestUniqueTTL collapses repeated digest requests into one queued task.
const digestUniqueTTL = time.Minute

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

type Client struct {
	client taskEnqueuer
	queue  string
	now    func() time.Time
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
		now:    time.Now,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueAgentStatsDigest queues a digest. A digest already waiting in the
// queue absorbs the request.
func (c *Client) EnqueueAgentStatsDigest(ctx context.Context, reason string) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewAgentStatsDigestTask(AgentStatsDigestPayload{
		RequestedAt: c.now().UTC(),
		Reason:      reason,
	})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.Unique(digestUniqueTTL))
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", TaskAgentStatsDigest, err)
	}
	return nil
}

func queueName(cfg config.SchedulerConfig) string {
	if queue := cfg.GetAsynqQueueName(); queue != "" {
		return queue
	}
	return "default"
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := cache.ParseOptions(redisURL, tlsInsecure)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}
