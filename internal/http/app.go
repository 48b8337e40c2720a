package http

import (
	"context"

	"storefront_backend/platform/config"
	"storefront_backend/platform/logger"
)

// RouterConfig is the slice of configuration the router itself consumes.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker answers readiness probes, typically with a database ping.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App carries everything the router needs, assembled by the composition
// root in cmd/api.
type App struct {
	Config  RouterConfig
	Logger  *logger.Logger
	Health  HealthChecker
	Modules []Module
}
