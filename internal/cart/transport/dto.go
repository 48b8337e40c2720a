package transport

import (
	"github.com/google/uuid"

	"storefront_backend/internal/cart/engine"
)

type AddItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type CartItemResponse struct {
	ProductID      uuid.UUID `json:"productId"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	LineTotalCents int64     `json:"lineTotalCents"`
	Name           string    `json:"name,omitempty"`
	ImageURL       string    `json:"imageUrl,omitempty"`
}

type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	TotalCents int64              `json:"totalCents"`
}

// FromEngine converts an engine cart into the wire shape.
func FromEngine(cart engine.Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, CartItemResponse{
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			LineTotalCents: int64(item.Quantity) * item.UnitPriceCents,
		})
	}
	return CartResponse{Items: items, TotalCents: cart.TotalCents}
}

// EmptyCart is the synthesized shape returned when the user has no stored
// cart. It exists only on the wire, never in storage.
func EmptyCart() CartResponse {
	return CartResponse{Items: []CartItemResponse{}, TotalCents: 0}
}
