// Package engine contains the pure decision logic for cart mutations.
// Every operation takes the current cart (possibly absent) plus a fresh
// product snapshot and returns the resulting cart value or a typed
// rejection. The input cart is never mutated and no I/O happens here.
package engine

import (
	"storefront_backend/platform/apperr"

	"github.com/google/uuid"
)

// Rejections returned by the engine. All are caller-correctable and map to
// 404 (not found) or 400 (validation) at the HTTP boundary. On any
// rejection the caller's cart is left exactly as it was.
var (
	ErrProductNotFound   = apperr.NotFound("product not found")
	ErrCartNotFound      = apperr.NotFound("cart not found")
	ErrItemNotFound      = apperr.NotFound("item not found in cart")
	ErrInvalidQuantity   = apperr.Validation("quantity must be at least 1")
	ErrInsufficientStock = apperr.Validation("not enough stock")
)

// Product is a point-in-time snapshot of a catalog product. Price and stock
// are read at decision time and never cached beyond one operation.
type Product struct {
	ID         uuid.UUID
	PriceCents int64
	Stock      int
}

// LineItem is one product's quantity and price-at-add-or-update-time within
// a cart. UnitPriceCents is the snapshot captured when the line was last
// added or updated; later catalog price changes do not touch it.
type LineItem struct {
	ProductID      uuid.UUID
	Quantity       int
	UnitPriceCents int64
}

// Cart is a per-user ordered collection of line items plus a derived total.
// Items keep insertion order and hold at most one line per product.
type Cart struct {
	UserID     uuid.UUID
	Items      []LineItem
	TotalCents int64
}

// Add resolves an add-to-cart request. A missing cart is created with the
// single requested line. When a line for the product already exists its
// quantity is replaced (not incremented) and its price snapshot refreshed.
func Add(cart *Cart, userID uuid.UUID, product *Product, requestedQty int) (Cart, error) {
	if requestedQty < 1 {
		return Cart{}, ErrInvalidQuantity
	}
	if product == nil {
		return Cart{}, ErrProductNotFound
	}
	if requestedQty > product.Stock {
		return Cart{}, ErrInsufficientStock
	}

	if cart == nil {
		items := []LineItem{{
			ProductID:      product.ID,
			Quantity:       requestedQty,
			UnitPriceCents: product.PriceCents,
		}}
		return Cart{UserID: userID, Items: items, TotalCents: totalOf(items)}, nil
	}

	items := cloneItems(cart.Items)
	replaced := false
	for i := range items {
		if items[i].ProductID == product.ID {
			// Absolute set, not an increment.
			items[i].Quantity = requestedQty
			items[i].UnitPriceCents = product.PriceCents
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, LineItem{
			ProductID:      product.ID,
			Quantity:       requestedQty,
			UnitPriceCents: product.PriceCents,
		})
	}

	return Cart{UserID: cart.UserID, Items: items, TotalCents: totalOf(items)}, nil
}

// Update resolves a quantity change for an existing line. The line's price
// snapshot is refreshed to the current product price.
func Update(cart *Cart, productID uuid.UUID, product *Product, requestedQty int) (Cart, error) {
	if cart == nil {
		return Cart{}, ErrCartNotFound
	}
	if product == nil {
		return Cart{}, ErrProductNotFound
	}
	if requestedQty < 1 {
		return Cart{}, ErrInvalidQuantity
	}
	if requestedQty > product.Stock {
		return Cart{}, ErrInsufficientStock
	}

	items := cloneItems(cart.Items)
	found := false
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = requestedQty
			items[i].UnitPriceCents = product.PriceCents
			found = true
			break
		}
	}
	if !found {
		return Cart{}, ErrItemNotFound
	}

	return Cart{UserID: cart.UserID, Items: items, TotalCents: totalOf(items)}, nil
}

// Remove resolves a line removal. Removing a product that has no line is a
// no-op success, matching idempotent-delete semantics.
func Remove(cart *Cart, productID uuid.UUID) (Cart, error) {
	if cart == nil {
		return Cart{}, ErrCartNotFound
	}

	items := make([]LineItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}

	return Cart{UserID: cart.UserID, Items: items, TotalCents: totalOf(items)}, nil
}

// Clear resolves a full cart reset: no items, total zero. The cart row
// itself survives; an empty cart is a valid terminal state.
func Clear(cart *Cart) (Cart, error) {
	if cart == nil {
		return Cart{}, ErrCartNotFound
	}
	return Cart{UserID: cart.UserID, Items: []LineItem{}, TotalCents: 0}, nil
}

// totalOf recomputes the cart total as a full fold over all lines. Totals
// are never adjusted incrementally, which keeps them exact after any
// sequence of mutations.
func totalOf(items []LineItem) int64 {
	var total int64
	for _, item := range items {
		total += int64(item.Quantity) * item.UnitPriceCents
	}
	return total
}

func cloneItems(items []LineItem) []LineItem {
	cloned := make([]LineItem, len(items))
	copy(cloned, items)
	return cloned
}
