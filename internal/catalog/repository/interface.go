package repository

import (
	"context"

	"github.com/google/uuid"
)

// Product represents a catalog product. Price is stored in integer cents
// and stock in whole units; both are mutable by catalog admins at any time.
type Product struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	Brand       string    `db:"brand"`
	Category    string    `db:"category"`
	PriceCents  int64     `db:"price_cents"`
	Stock       int       `db:"stock"`
	ImageKeys   []string  `db:"image_keys"`
	CreatedAt   string    `db:"created_at"`
	UpdatedAt   string    `db:"updated_at"`
}

// CreateProductParams contains data for creating a product.
type CreateProductParams struct {
	Name        string
	Description *string
	Brand       string
	Category    string
	PriceCents  int64
	Stock       int
}

// UpdateProductParams contains data for updating a product.
type UpdateProductParams struct {
	ID          uuid.UUID
	Name        *string
	Description *string
	Brand       *string
	Category    *string
	PriceCents  *int64
	Stock       *int
}

// Repository defines catalog storage operations.
type Repository interface {
	CreateProduct(ctx context.Context, params CreateProductParams) (Product, error)
	UpdateProduct(ctx context.Context, params UpdateProductParams) (Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProductByID(ctx context.Context, id uuid.UUID) (Product, error)
	AddProductImage(ctx context.Context, id uuid.UUID, imageKey string) (Product, error)
}
