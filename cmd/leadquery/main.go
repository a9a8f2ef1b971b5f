// Command leadquery inspects leads, agents and agent statistics from the
// hosted database without going through the HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tre_crm/internal/leads/repository"
	"tre_crm/platform/config"
	"tre_crm/platform/db"
	"tre_crm/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{
		out: os.Stdout,
		open: func(ctx context.Context) (store, *config.Config, func(), error) {
			cfg, err := config.Load()
			if err != nil {
				return nil, nil, nil, fmt.Errorf("load config: %w", err)
			}
			log := logger.New(cfg.Env)
			pool, err := db.Connect(ctx, cfg, log)
			if err != nil {
				return nil, nil, nil, err
			}
			return repository.New(pool), cfg, pool.Close, nil
		},
	}

	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
