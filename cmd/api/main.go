package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tre_crm/internal/email"
	"tre_crm/internal/events"
	apphttp "tre_crm/internal/http"
	"tre_crm/internal/http/router"
	"tre_crm/internal/leads"
	"tre_crm/internal/scheduler"
	"tre_crm/platform/cache"
	"tre_crm/platform/config"
	"tre_crm/platform/db"
	"tre_crm/platform/logger"
	"tre_crm/platform/validator"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	pool, err := db.Connect(ctx, cfg, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	rdb, closeCache := initCache(ctx, cfg, log)
	if closeCache != nil {
		defer closeCache()
	}

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	leadsModule := leads.NewModule(pool, rdb, val, cfg, log)
	leadsModule.RegisterHandlers(eventBus)

	digestClient, closeScheduler := initDigestScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
		leadsModule.SetDigestEnqueuer(digestClient)
	}

	emailModule, err := email.NewModule(cfg, val)
	if err != nil {
		log.Error("failed to initialize email module", "error", err)
		panic("failed to initialize email module: " + err.Error())
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: db.NewPoolAdapter(pool),
		Modules: []apphttp.Module{
			leadsModule,
			emailModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initCache(ctx context.Context, cfg *config.Config, log *logger.Logger) (*redis.Client, func()) {
	if !cfg.IsCacheEnabled() {
		log.Warn("REDIS_URL or LEADS_CACHE_TTL not configured; lead snapshot cache disabled")
		return nil, nil
	}

	rdb, err := cache.NewClient(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to redis; lead snapshot cache disabled", "error", err)
		return nil, nil
	}

	log.Info("lead snapshot cache enabled", "ttl", cfg.GetLeadsCacheTTL())
	return rdb, func() {
		_ = rdb.Close()
	}
}

func initDigestScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; agent stats digests disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize digest scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}
