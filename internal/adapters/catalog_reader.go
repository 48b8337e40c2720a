// Package adapters contains anti-corruption adapters for cross-module
// communication, so each module depends only on interfaces it owns.
package adapters

import (
	"context"

	"github.com/google/uuid"

	"storefront_backend/internal/cart/engine"
	cartservice "storefront_backend/internal/cart/service"
	catalogrepo "storefront_backend/internal/catalog/repository"
	"storefront_backend/platform/apperr"
)

// CatalogProductReader adapts the catalog repository to the cart's
// CatalogReader interface. An absent product is reported as nil/false, not
// as an error; the cart engine owns the ProductNotFound decision.
type CatalogProductReader struct {
	repo catalogrepo.Repository
}

// NewCatalogProductReader creates the catalog→cart adapter.
func NewCatalogProductReader(repo catalogrepo.Repository) *CatalogProductReader {
	return &CatalogProductReader{repo: repo}
}

// Compile-time check that the adapter satisfies the cart's interface.
var _ cartservice.CatalogReader = (*CatalogProductReader)(nil)

// ProductSnapshot returns the current price/stock snapshot, or nil when the
// product does not exist.
func (a *CatalogProductReader) ProductSnapshot(ctx context.Context, productID uuid.UUID) (*engine.Product, error) {
	product, err := a.repo.GetProductByID(ctx, productID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &engine.Product{
		ID:         product.ID,
		PriceCents: product.PriceCents,
		Stock:      product.Stock,
	}, nil
}

// ProductDetails returns display fields for cart hydration.
func (a *CatalogProductReader) ProductDetails(ctx context.Context, productID uuid.UUID) (cartservice.ProductDetails, bool, error) {
	product, err := a.repo.GetProductByID(ctx, productID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return cartservice.ProductDetails{}, false, nil
		}
		return cartservice.ProductDetails{}, false, err
	}

	details := cartservice.ProductDetails{Name: product.Name}
	if len(product.ImageKeys) > 0 {
		details.ImageURL = product.ImageKeys[0]
	}
	return details, true, nil
}
