// Package auth provides the authentication bounded context module.
package auth

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"storefront_backend/internal/auth/handler"
	"storefront_backend/internal/auth/repository"
	"storefront_backend/internal/auth/service"
	"storefront_backend/internal/auth/tokenstore"
	apphttp "storefront_backend/internal/http"
	"storefront_backend/platform/config"
	"storefront_backend/platform/logger"
	"storefront_backend/platform/validator"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the auth module.
func NewModule(pool *pgxpool.Pool, redisClient *redis.Client, cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.NewPostgresRepository(pool)
	tokens := tokenstore.NewRedisStore(redisClient)
	svc := service.NewService(repo, tokens, cfg, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts auth routes on the provided router context. The
// public endpoints carry the stricter auth rate limit.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/auth")
	group.Use(ctx.AuthRateLimiter.RateLimit())

	group.POST("/register", m.handler.Register)
	group.POST("/login", m.handler.Login)
	group.POST("/refresh", m.handler.Refresh)
	group.POST("/logout", m.handler.Logout)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
