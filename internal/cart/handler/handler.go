package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront_backend/internal/cart/service"
	"storefront_backend/internal/cart/transport"
	"storefront_backend/platform/httpkit"
	"storefront_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidProductID = "invalid product id"
)

// Handler handles HTTP requests for the cart.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new cart handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// GetCart returns the authenticated user's cart.
// GET /api/v1/cart
func (h *Handler) GetCart(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Get(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// AddItem sets a product's line in the cart to the requested quantity.
// POST /api/v1/cart
func (h *Handler) AddItem(c *gin.Context) {
	var req transport.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.AddItem(c.Request.Context(), identity.UserID(), req.ProductID, req.Quantity)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// UpdateItem changes the quantity of an existing cart line.
// PUT /api/v1/cart/:productId
func (h *Handler) UpdateItem(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidProductID, nil)
		return
	}

	var req transport.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.UpdateItem(c.Request.Context(), identity.UserID(), productID, req.Quantity)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// RemoveItem removes a product's line from the cart.
// DELETE /api/v1/cart/:productId
func (h *Handler) RemoveItem(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidProductID, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.RemoveItem(c.Request.Context(), identity.UserID(), productID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ClearCart empties the cart.
// DELETE /api/v1/cart
func (h *Handler) ClearCart(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Clear(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
