// Package http holds the pieces the router needs from the composition root:
// the App dependencies and the Module contract each bounded context implements.
package http

import (
	"context"

	"tre_crm/platform/config"
	"tre_crm/platform/logger"
)

// HealthChecker backs GET /api/ready.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App is assembled by cmd/api and handed to router.New.
type App struct {
	Config config.HTTPConfig
	Logger *logger.Logger
	// Health may be nil, in which case readiness always succeeds.
	Health  HealthChecker
	Modules []Module
}
