package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tre_crm/internal/events"
	"tre_crm/internal/leads"
	"tre_crm/internal/scheduler"
	"tre_crm/platform/cache"
	"tre_crm/platform/config"
	"tre_crm/platform/db"
	"tre_crm/platform/logger"
	"tre_crm/platform/validator"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "digestSpec", cfg.GetAgentStatsDigestSpec())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	rdb, closeCache := initCache(ctx, cfg, log)
	if closeCache != nil {
		defer closeCache()
	}

	// Worker-side wiring: the digest reads straight from the database and
	// drops the snapshot the API processes cache.
	leadsModule := leads.NewDigestModule(pool, rdb, validator.New(), cfg, log)
	leadsModule.RegisterHandlers(eventBus)

	worker, err := scheduler.NewWorker(cfg, leadsModule.Service(), eventBus, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	periodic, err := scheduler.NewPeriodic(cfg, log)
	if err != nil {
		log.Error("failed to initialize periodic scheduler", "error", err)
		panic("failed to initialize periodic scheduler: " + err.Error())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		worker.Run(gctx)
		stop()
		return nil
	})
	g.Go(func() error {
		return periodic.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		log.Error("scheduler stopped", "error", err)
	}
	eventBus.Wait()
	log.Info("scheduler stopped")
}

func initCache(ctx context.Context, cfg *config.Config, log *logger.Logger) (*redis.Client, func()) {
	if !cfg.IsCacheEnabled() {
		return nil, nil
	}

	rdb, err := cache.NewClient(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to redis; cached lead snapshots expire by TTL only", "error", err)
		return nil, nil
	}

	return rdb, func() {
		_ = rdb.Close()
	}
}
