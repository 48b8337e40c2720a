package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront_backend/internal/cart/engine"
	"storefront_backend/platform/apperr"
)

// Repo implements the cart repository on Postgres.
//
// Concurrency discipline: every mutation runs in a single transaction that
// takes a SELECT ... FOR UPDATE row lock on the user's cart row before the
// decision function runs, and persists the result before commit. Two
// requests racing on the same user's cart serialize on that lock; requests
// for different users touch different rows and never block each other.
// First-ever adds have no row to lock yet; the unique index on user_id makes
// the losing insert fail, and the caller sees a retryable conflict.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new cart repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Get returns the user's stored cart, reporting absence via the boolean.
func (r *Repo) Get(ctx context.Context, userID uuid.UUID) (engine.Cart, bool, error) {
	var cartID uuid.UUID
	var totalCents int64
	err := r.pool.QueryRow(ctx,
		`SELECT id, total_cents FROM carts WHERE user_id = $1`, userID,
	).Scan(&cartID, &totalCents)
	if errors.Is(err, pgx.ErrNoRows) {
		return engine.Cart{}, false, nil
	}
	if err != nil {
		return engine.Cart{}, false, apperr.Unavailable("cart store unavailable", err)
	}

	items, err := r.loadItems(ctx, r.pool, cartID)
	if err != nil {
		return engine.Cart{}, false, apperr.Unavailable("cart store unavailable", err)
	}

	return engine.Cart{UserID: userID, Items: items, TotalCents: totalCents}, true, nil
}

// Mutate runs the read-decide-write cycle for one user under a row lock.
func (r *Repo) Mutate(ctx context.Context, userID uuid.UUID, fn MutateFunc) (engine.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return engine.Cart{}, apperr.Unavailable("cart store unavailable", err)
	}
	defer tx.Rollback(ctx)

	var cartID uuid.UUID
	var totalCents int64
	var current *engine.Cart

	err = tx.QueryRow(ctx,
		`SELECT id, total_cents FROM carts WHERE user_id = $1 FOR UPDATE`, userID,
	).Scan(&cartID, &totalCents)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		current = nil
	case err != nil:
		return engine.Cart{}, apperr.Unavailable("cart store unavailable", err)
	default:
		items, err := r.loadItems(ctx, tx, cartID)
		if err != nil {
			return engine.Cart{}, apperr.Unavailable("cart store unavailable", err)
		}
		current = &engine.Cart{UserID: userID, Items: items, TotalCents: totalCents}
	}

	next, err := fn(current)
	if err != nil {
		// Rejections pass through untouched; rollback leaves the cart as it was.
		return engine.Cart{}, err
	}

	if current == nil {
		if err := tx.QueryRow(ctx,
			`INSERT INTO carts (user_id, total_cents) VALUES ($1, $2) RETURNING id`,
			userID, next.TotalCents,
		).Scan(&cartID); err != nil {
			return engine.Cart{}, apperr.Unavailable("cart store unavailable", err)
		}
	} else {
		if _, err := tx.Exec(ctx,
			`UPDATE carts SET total_cents = $2, updated_at = now() WHERE id = $1`,
			cartID, next.TotalCents,
		); err != nil {
			return engine.Cart{}, apperr.Unavailable("cart store unavailable", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
			return engine.Cart{}, apperr.Unavailable("cart store unavailable", err)
		}
	}

	for position, item := range next.Items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO cart_items (cart_id, product_id, quantity, unit_price_cents, position)
			 VALUES ($1, $2, $3, $4, $5)`,
			cartID, item.ProductID, item.Quantity, item.UnitPriceCents, position,
		); err != nil {
			return engine.Cart{}, apperr.Unavailable("cart store unavailable", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return engine.Cart{}, apperr.Unavailable("cart store unavailable", err)
	}

	return next, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// loadItems reads a cart's lines in insertion order.
func (r *Repo) loadItems(ctx context.Context, q querier, cartID uuid.UUID) ([]engine.LineItem, error) {
	rows, err := q.Query(ctx,
		`SELECT product_id, quantity, unit_price_cents
		 FROM cart_items
		 WHERE cart_id = $1
		 ORDER BY position`, cartID)
	if err != nil {
		return nil, fmt.Errorf("load cart items: %w", err)
	}
	defer rows.Close()

	items := make([]engine.LineItem, 0)
	for rows.Next() {
		var item engine.LineItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.UnitPriceCents); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart items: %w", err)
	}

	return items, nil
}
