// Package http defines how domain modules plug their routes into the shared
// Gin engine.
package http

import (
	"storefront_backend/platform/config"
	"storefront_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module is a bounded context with HTTP routes. The router calls
// RegisterRoutes once per module at startup; modules stay unaware of each
// other's endpoints.
type Module interface {
	// Name identifies the module in startup logs.
	Name() string
	// RegisterRoutes mounts the module's endpoints on the shared groups.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext bundles the route groups and middleware a module may mount
// its endpoints on, so RegisterRoutes needs a single argument.
type RouterContext struct {
	// Engine is the root engine, for modules needing engine-level routes.
	Engine *gin.Engine
	// V1 is the public /api/v1 group.
	V1 *gin.RouterGroup
	// Protected requires a valid access token.
	Protected *gin.RouterGroup
	// Admin additionally requires the admin role.
	Admin *gin.RouterGroup
	// Config exposes the JWT settings for modules building their own guards.
	Config config.JWTConfig
	// AuthMiddleware is the token-checking middleware behind Protected.
	AuthMiddleware gin.HandlerFunc
	// AuthRateLimiter is the stricter per-IP limiter for credential routes.
	AuthRateLimiter *httpkit.AuthRateLimiter
}
