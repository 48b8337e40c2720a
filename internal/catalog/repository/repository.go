package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront_backend/platform/apperr"
)

const productNotFoundMessage = "product not found"

// Repo implements the catalog repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// CreateProduct creates a product.
func (r *Repo) CreateProduct(ctx context.Context, params CreateProductParams) (Product, error) {
	query := `
		INSERT INTO products (name, description, brand, category, price_cents, stock)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, description, brand, category, price_cents, stock, image_keys, created_at, updated_at`

	return r.scanProduct(r.pool.QueryRow(ctx, query,
		params.Name, params.Description, params.Brand, params.Category, params.PriceCents, params.Stock,
	), "create product")
}

// UpdateProduct updates a product; nil fields keep their current value.
func (r *Repo) UpdateProduct(ctx context.Context, params UpdateProductParams) (Product, error) {
	query := `
		UPDATE products
		SET name = COALESCE($2, name),
			description = COALESCE($3, description),
			brand = COALESCE($4, brand),
			category = COALESCE($5, category),
			price_cents = COALESCE($6, price_cents),
			stock = COALESCE($7, stock),
			updated_at = now()
		WHERE id = $1
		RETURNING id, name, description, brand, category, price_cents, stock, image_keys, created_at, updated_at`

	return r.scanProduct(r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.Description, params.Brand, params.Category, params.PriceCents, params.Stock,
	), "update product")
}

// DeleteProduct deletes a product.
func (r *Repo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(productNotFoundMessage)
	}
	return nil
}

// GetProductByID retrieves a product by ID.
func (r *Repo) GetProductByID(ctx context.Context, id uuid.UUID) (Product, error) {
	query := `
		SELECT id, name, description, brand, category, price_cents, stock, image_keys, created_at, updated_at
		FROM products
		WHERE id = $1`

	return r.scanProduct(r.pool.QueryRow(ctx, query, id), "get product by id")
}

// AddProductImage appends an image key to the product.
func (r *Repo) AddProductImage(ctx context.Context, id uuid.UUID, imageKey string) (Product, error) {
	query := `
		UPDATE products
		SET image_keys = array_append(image_keys, $2),
			updated_at = now()
		WHERE id = $1
		RETURNING id, name, description, brand, category, price_cents, stock, image_keys, created_at, updated_at`

	return r.scanProduct(r.pool.QueryRow(ctx, query, id, imageKey), "add product image")
}

func (r *Repo) scanProduct(row pgx.Row, op string) (Product, error) {
	var product Product
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&product.ID, &product.Name, &product.Description, &product.Brand, &product.Category,
		&product.PriceCents, &product.Stock, &product.ImageKeys, &createdAt, &updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, apperr.NotFound(productNotFoundMessage)
		}
		return Product{}, fmt.Errorf("%s: %w", op, err)
	}

	product.CreatedAt = createdAt.Format(time.RFC3339)
	product.UpdatedAt = updatedAt.Format(time.RFC3339)
	return product, nil
}
