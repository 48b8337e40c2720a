package repository

import (
	"context"

	"storefront_backend/internal/cart/engine"

	"github.com/google/uuid"
)

// MutateFunc computes the next cart state from the current one. It receives
// nil when the user has no cart yet. Returning an error aborts the mutation
// and leaves the stored cart untouched.
type MutateFunc func(current *engine.Cart) (engine.Cart, error)

// Repository defines cart storage operations.
//
// Mutate is the only write path. Implementations must run the whole
// read-decide-write cycle under per-user mutual exclusion so that
// concurrent mutations of one user's cart serialize, while carts of
// different users never contend.
type Repository interface {
	// Get returns the user's stored cart. The boolean reports whether a
	// cart row exists; callers synthesize the empty shape themselves.
	Get(ctx context.Context, userID uuid.UUID) (engine.Cart, bool, error)

	// Mutate loads the user's cart (locked), applies fn and persists the
	// result atomically. fn's error is returned unchanged.
	Mutate(ctx context.Context, userID uuid.UUID, fn MutateFunc) (engine.Cart, error)
}
