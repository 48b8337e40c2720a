// Package cart provides the cart bounded context module.
package cart

import (
	"storefront_backend/internal/cart/handler"
	"storefront_backend/internal/cart/repository"
	"storefront_backend/internal/cart/service"
	apphttp "storefront_backend/internal/http"
	"storefront_backend/platform/logger"
	"storefront_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the cart bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the cart module. The catalog reader is
// injected from the composition root to keep the cart decoupled from the
// catalog's storage types.
func NewModule(pool *pgxpool.Pool, catalog service.CatalogReader, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, catalog, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "cart"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts cart routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/cart", m.handler.GetCart)
	ctx.Protected.POST("/cart", m.handler.AddItem)
	ctx.Protected.PUT("/cart/:productId", m.handler.UpdateItem)
	ctx.Protected.DELETE("/cart/:productId", m.handler.RemoveItem)
	ctx.Protected.DELETE("/cart", m.handler.ClearCart)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
