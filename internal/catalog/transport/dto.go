package transport

import "github.com/google/uuid"

type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Brand       string  `json:"brand" validate:"required,min=1,max=100"`
	Category    string  `json:"category" validate:"required,min=1,max=100"`
	PriceCents  int64   `json:"priceCents" validate:"min=0"`
	Stock       int     `json:"stock" validate:"min=0"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Brand       *string `json:"brand,omitempty" validate:"omitempty,min=1,max=100"`
	Category    *string `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	PriceCents  *int64  `json:"priceCents,omitempty" validate:"omitempty,min=0"`
	Stock       *int    `json:"stock,omitempty" validate:"omitempty,min=0"`
}

type ProductResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Brand       string    `json:"brand"`
	Category    string    `json:"category"`
	PriceCents  int64     `json:"priceCents"`
	Stock       int       `json:"stock"`
	ImageURLs   []string  `json:"imageUrls"`
	CreatedAt   string    `json:"createdAt"`
	UpdatedAt   string    `json:"updatedAt"`
}
