package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront_backend/internal/cart/engine"
	"storefront_backend/internal/cart/repository"
	"storefront_backend/internal/cart/service"
	"storefront_backend/platform/apperr"
	"storefront_backend/platform/httpkit"
	"storefront_backend/platform/logger"
	"storefront_backend/platform/validator"
)

type memoryRepo struct {
	carts map[uuid.UUID]engine.Cart
	fail  error
}

func (r *memoryRepo) Get(_ context.Context, userID uuid.UUID) (engine.Cart, bool, error) {
	if r.fail != nil {
		return engine.Cart{}, false, r.fail
	}
	cart, ok := r.carts[userID]
	return cart, ok, nil
}

func (r *memoryRepo) Mutate(_ context.Context, userID uuid.UUID, fn repository.MutateFunc) (engine.Cart, error) {
	if r.fail != nil {
		return engine.Cart{}, r.fail
	}
	var current *engine.Cart
	if cart, ok := r.carts[userID]; ok {
		current = &cart
	}
	next, err := fn(current)
	if err != nil {
		return engine.Cart{}, err
	}
	r.carts[userID] = next
	return next, nil
}

type staticCatalog struct {
	products map[uuid.UUID]engine.Product
}

func (c *staticCatalog) ProductSnapshot(_ context.Context, productID uuid.UUID) (*engine.Product, error) {
	product, ok := c.products[productID]
	if !ok {
		return nil, nil
	}
	return &product, nil
}

func (c *staticCatalog) ProductDetails(_ context.Context, productID uuid.UUID) (service.ProductDetails, bool, error) {
	if _, ok := c.products[productID]; !ok {
		return service.ProductDetails{}, false, nil
	}
	return service.ProductDetails{Name: "product"}, true, nil
}

type testEnv struct {
	router  *gin.Engine
	repo    *memoryRepo
	catalog *staticCatalog
	userID  uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &memoryRepo{carts: map[uuid.UUID]engine.Cart{}}
	catalog := &staticCatalog{products: map[uuid.UUID]engine.Product{}}
	svc := service.New(repo, catalog, logger.New("test"))
	h := New(svc, validator.New())

	userID := uuid.New()
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(httpkit.ContextUserIDKey, userID)
		c.Set(httpkit.ContextRolesKey, []string{"customer"})
	})
	router.GET("/cart", h.GetCart)
	router.POST("/cart", h.AddItem)
	router.PUT("/cart/:productId", h.UpdateItem)
	router.DELETE("/cart/:productId", h.RemoveItem)
	router.DELETE("/cart", h.ClearCart)

	return &testEnv{router: router, repo: repo, catalog: catalog, userID: userID}
}

func (e *testEnv) addProduct(priceCents int64, stock int) uuid.UUID {
	id := uuid.New()
	e.catalog.products[id] = engine.Product{ID: id, PriceCents: priceCents, Stock: stock}
	return id
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return payload
}

func TestGetCartSynthesizesEmptyShape(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/cart", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	payload := decodeCart(t, rec)
	items, ok := payload["items"].([]any)
	if !ok {
		t.Fatalf("items missing or not a list: %v", payload["items"])
	}
	if len(items) != 0 {
		t.Fatalf("items = %v, want empty", items)
	}
	if payload["totalCents"] != float64(0) {
		t.Fatalf("totalCents = %v, want 0", payload["totalCents"])
	}
}

func TestAddItemReturnsCreated(t *testing.T) {
	env := newTestEnv(t)
	productID := env.addProduct(500, 10)

	rec := env.do(t, http.MethodPost, "/cart", gin.H{"productId": productID, "quantity": 2})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	payload := decodeCart(t, rec)
	if payload["totalCents"] != float64(1000) {
		t.Fatalf("totalCents = %v, want 1000", payload["totalCents"])
	}
}

func TestAddItemUnknownProductIs404(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/cart", gin.H{"productId": uuid.New(), "quantity": 1})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", rec.Code, rec.Body.String())
	}
}

func TestAddItemZeroQuantityIs400(t *testing.T) {
	env := newTestEnv(t)
	productID := env.addProduct(500, 10)

	rec := env.do(t, http.MethodPost, "/cart", gin.H{"productId": productID, "quantity": 0})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestAddItemBeyondStockIs400(t *testing.T) {
	env := newTestEnv(t)
	productID := env.addProduct(500, 3)

	rec := env.do(t, http.MethodPost, "/cart", gin.H{"productId": productID, "quantity": 4})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateItemMissingLineIs404(t *testing.T) {
	env := newTestEnv(t)
	inCart := env.addProduct(500, 10)
	other := env.addProduct(700, 10)

	if rec := env.do(t, http.MethodPost, "/cart", gin.H{"productId": inCart, "quantity": 1}); rec.Code != http.StatusCreated {
		t.Fatalf("seed add failed: %d", rec.Code)
	}

	rec := env.do(t, http.MethodPut, "/cart/"+other.String(), gin.H{"quantity": 2})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateItemMalformedProductIDIs400(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/cart/not-a-uuid", gin.H{"quantity": 2})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestRemoveMissingItemIs200(t *testing.T) {
	env := newTestEnv(t)
	inCart := env.addProduct(500, 10)

	if rec := env.do(t, http.MethodPost, "/cart", gin.H{"productId": inCart, "quantity": 1}); rec.Code != http.StatusCreated {
		t.Fatalf("seed add failed: %d", rec.Code)
	}

	rec := env.do(t, http.MethodDelete, "/cart/"+uuid.NewString(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestRemoveWithoutCartIs404(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodDelete, "/cart/"+uuid.NewString(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", rec.Code, rec.Body.String())
	}
}

func TestClearCartIs200(t *testing.T) {
	env := newTestEnv(t)
	productID := env.addProduct(500, 10)

	if rec := env.do(t, http.MethodPost, "/cart", gin.H{"productId": productID, "quantity": 2}); rec.Code != http.StatusCreated {
		t.Fatalf("seed add failed: %d", rec.Code)
	}

	rec := env.do(t, http.MethodDelete, "/cart", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	payload := decodeCart(t, rec)
	if payload["totalCents"] != float64(0) {
		t.Fatalf("totalCents = %v, want 0", payload["totalCents"])
	}
}

func TestStoreFaultIs503(t *testing.T) {
	env := newTestEnv(t)
	env.repo.fail = apperr.Unavailable("cart store unavailable", context.DeadlineExceeded)

	rec := env.do(t, http.MethodGet, "/cart", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503: %s", rec.Code, rec.Body.String())
	}
}
