package http

import (
	"tre_crm/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module is a bounded context that mounts its own routes.
type Module interface {
	// Name is used in startup logs.
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext is what a module may mount routes on.
type RouterContext struct {
	Engine *gin.Engine
	// V1 is the /api/v1 group, already rate limited.
	V1          *gin.RouterGroup
	RateLimiter *httpkit.IPRateLimiter
}
