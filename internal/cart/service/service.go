// Package service orchestrates cart mutations: it fetches a fresh product
// snapshot, lets the engine decide, and persists the outcome through the
// repository's locked read-modify-write cycle.
package service

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"storefront_backend/internal/cart/engine"
	"storefront_backend/internal/cart/repository"
	"storefront_backend/internal/cart/transport"
	"storefront_backend/platform/apperr"
	"storefront_backend/platform/logger"
)

// ProductDetails carries display-only product fields for cart hydration.
type ProductDetails struct {
	Name     string
	ImageURL string
}

// CatalogReader is the cart's view of the catalog. The engine treats the
// snapshot as valid for exactly one operation; nothing here is cached.
type CatalogReader interface {
	// ProductSnapshot returns the current price/stock snapshot, or nil
	// when the product is unknown or deleted.
	ProductSnapshot(ctx context.Context, productID uuid.UUID) (*engine.Product, error)

	// ProductDetails returns display fields for hydrating cart reads.
	ProductDetails(ctx context.Context, productID uuid.UUID) (ProductDetails, bool, error)
}

// Service coordinates the cart engine, the cart store and the catalog.
type Service struct {
	repo    repository.Repository
	catalog CatalogReader
	log     *logger.Logger
}

// New creates a new cart service.
func New(repo repository.Repository, catalog CatalogReader, log *logger.Logger) *Service {
	return &Service{repo: repo, catalog: catalog, log: log}
}

// Get returns the user's cart hydrated with current product display fields.
// A user without a stored cart gets the empty shape, not an error.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (transport.CartResponse, error) {
	cart, found, err := s.repo.Get(ctx, userID)
	if err != nil {
		return transport.CartResponse{}, err
	}
	if !found {
		return transport.EmptyCart(), nil
	}

	response := transport.FromEngine(cart)
	if err := s.hydrate(ctx, response.Items); err != nil {
		return transport.CartResponse{}, err
	}
	return response, nil
}

// AddItem sets the given product's line to the requested quantity, creating
// the cart on first add. The quantity is an absolute set, not an increment.
func (s *Service) AddItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID, quantity int) (transport.CartResponse, error) {
	product, err := s.catalog.ProductSnapshot(ctx, productID)
	if err != nil {
		return transport.CartResponse{}, err
	}

	next, err := s.repo.Mutate(ctx, userID, func(current *engine.Cart) (engine.Cart, error) {
		return engine.Add(current, userID, product, quantity)
	})
	if err != nil {
		s.logRejection("add", userID, err)
		return transport.CartResponse{}, err
	}

	return transport.FromEngine(next), nil
}

// UpdateItem changes an existing line's quantity and refreshes its price
// snapshot to the product's current price.
func (s *Service) UpdateItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID, quantity int) (transport.CartResponse, error) {
	product, err := s.catalog.ProductSnapshot(ctx, productID)
	if err != nil {
		return transport.CartResponse{}, err
	}

	next, err := s.repo.Mutate(ctx, userID, func(current *engine.Cart) (engine.Cart, error) {
		return engine.Update(current, productID, product, quantity)
	})
	if err != nil {
		s.logRejection("update", userID, err)
		return transport.CartResponse{}, err
	}

	return transport.FromEngine(next), nil
}

// RemoveItem drops the product's line if present. Removing an absent line
// succeeds and changes nothing.
func (s *Service) RemoveItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID) (transport.CartResponse, error) {
	next, err := s.repo.Mutate(ctx, userID, func(current *engine.Cart) (engine.Cart, error) {
		return engine.Remove(current, productID)
	})
	if err != nil {
		s.logRejection("remove", userID, err)
		return transport.CartResponse{}, err
	}

	return transport.FromEngine(next), nil
}

// Clear empties the cart in place. The cart row survives with total zero.
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) (transport.CartResponse, error) {
	next, err := s.repo.Mutate(ctx, userID, func(current *engine.Cart) (engine.Cart, error) {
		return engine.Clear(current)
	})
	if err != nil {
		s.logRejection("clear", userID, err)
		return transport.CartResponse{}, err
	}

	return transport.FromEngine(next), nil
}

// hydrate fills display fields from the catalog, fetching concurrently.
// Lines whose product has since disappeared keep their stored snapshot and
// simply stay unhydrated.
func (s *Service) hydrate(ctx context.Context, items []transport.CartItemResponse) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := range items {
		g.Go(func() error {
			details, found, err := s.catalog.ProductDetails(ctx, items[i].ProductID)
			if err != nil {
				return err
			}
			if found {
				items[i].Name = details.Name
				items[i].ImageURL = details.ImageURL
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *Service) logRejection(op string, userID uuid.UUID, err error) {
	if s.log == nil {
		return
	}
	if kind := apperr.GetKind(err); kind == apperr.KindNotFound || kind == apperr.KindValidation {
		s.log.CartRejection(op, userID.String(), err.Error())
	}
}
