package engine

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func snapshot(id uuid.UUID, priceCents int64, stock int) *Product {
	return &Product{ID: id, PriceCents: priceCents, Stock: stock}
}

func checkTotal(t *testing.T, cart Cart) {
	t.Helper()
	var want int64
	for _, item := range cart.Items {
		want += int64(item.Quantity) * item.UnitPriceCents
	}
	if cart.TotalCents != want {
		t.Fatalf("total invariant broken: total=%d, sum of lines=%d", cart.TotalCents, want)
	}
}

func checkUniqueProducts(t *testing.T, cart Cart) {
	t.Helper()
	seen := make(map[uuid.UUID]bool, len(cart.Items))
	for _, item := range cart.Items {
		if seen[item.ProductID] {
			t.Fatalf("duplicate line for product %s", item.ProductID)
		}
		seen[item.ProductID] = true
	}
}

func TestAdd_CreatesCartOnFirstAdd(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	cart, err := Add(nil, userID, snapshot(productID, 500, 10), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.UserID != userID {
		t.Fatalf("expected owner %s, got %s", userID, cart.UserID)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(cart.Items))
	}
	item := cart.Items[0]
	if item.ProductID != productID || item.Quantity != 2 || item.UnitPriceCents != 500 {
		t.Fatalf("unexpected line: %+v", item)
	}
	if cart.TotalCents != 1000 {
		t.Fatalf("expected total 1000, got %d", cart.TotalCents)
	}
	checkTotal(t, cart)
}

func TestAdd_AppendsNewLinePreservingOrder(t *testing.T) {
	userID := uuid.New()
	first := uuid.New()
	second := uuid.New()

	cart, err := Add(nil, userID, snapshot(first, 500, 10), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cart, err = Add(&cart, userID, snapshot(second, 300, 5), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(cart.Items))
	}
	if cart.Items[0].ProductID != first || cart.Items[1].ProductID != second {
		t.Fatalf("insertion order not preserved: %+v", cart.Items)
	}
	if cart.TotalCents != 1300 {
		t.Fatalf("expected total 1300, got %d", cart.TotalCents)
	}
	checkUniqueProducts(t, cart)
	checkTotal(t, cart)
}

func TestAdd_ExistingLineIsReplacedNotIncremented(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	product := snapshot(productID, 500, 10)

	cart, err := Add(nil, userID, product, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cart, err = Add(&cart, userID, product, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("expected exactly 1 line, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5 (absolute set), got %d", cart.Items[0].Quantity)
	}
	if cart.TotalCents != 2500 {
		t.Fatalf("expected total 2500, got %d", cart.TotalCents)
	}
	checkUniqueProducts(t, cart)
}

func TestAdd_RefreshesPriceSnapshotOnExistingLine(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	cart, err := Add(nil, userID, snapshot(productID, 1000, 10), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Catalog price changed between requests.
	cart, err = Add(&cart, userID, snapshot(productID, 1200, 10), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cart.Items[0].UnitPriceCents != 1200 {
		t.Fatalf("expected refreshed snapshot 1200, got %d", cart.Items[0].UnitPriceCents)
	}
	if cart.TotalCents != 2400 {
		t.Fatalf("expected total 2400, got %d", cart.TotalCents)
	}
}

func TestAdd_Rejections(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	if _, err := Add(nil, userID, snapshot(productID, 500, 10), 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := Add(nil, userID, snapshot(productID, 500, 10), -3); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := Add(nil, userID, nil, 1); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if _, err := Add(nil, userID, snapshot(productID, 500, 3), 4); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
}

func TestAdd_StockCeilingLeavesCartUntouched(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	cart, err := Add(nil, userID, snapshot(productID, 500, 10), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	before := cart

	_, err = Add(&cart, userID, snapshot(productID, 500, 10), 11)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	if len(cart.Items) != len(before.Items) || cart.TotalCents != before.TotalCents {
		t.Fatalf("cart changed after rejected add: before=%+v after=%+v", before, cart)
	}
	if cart.Items[0] != before.Items[0] {
		t.Fatalf("line changed after rejected add: before=%+v after=%+v", before.Items[0], cart.Items[0])
	}
}

func TestUpdate_SetsQuantityAndRefreshesSnapshot(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	cart, err := Add(nil, userID, snapshot(productID, 1000, 10), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Price moved from 1000 to 1200; same quantity still refreshes the snapshot.
	cart, err = Update(&cart, productID, snapshot(productID, 1200, 10), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cart.Items[0].UnitPriceCents != 1200 {
		t.Fatalf("expected snapshot refreshed to 1200, got %d", cart.Items[0].UnitPriceCents)
	}
	if cart.TotalCents != 3600 {
		t.Fatalf("expected total 3600, got %d", cart.TotalCents)
	}
}

func TestUpdate_UnrelatedLineKeepsItsSnapshot(t *testing.T) {
	userID := uuid.New()
	stale := uuid.New()
	fresh := uuid.New()

	cart, err := Add(nil, userID, snapshot(stale, 1000, 10), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cart, err = Add(&cart, userID, snapshot(fresh, 200, 10), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Touching the fresh line must not refresh the stale line's snapshot,
	// even though its catalog price has since changed.
	cart, err = Update(&cart, fresh, snapshot(fresh, 250, 10), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cart.Items[0].UnitPriceCents != 1000 {
		t.Fatalf("untouched line snapshot changed: got %d", cart.Items[0].UnitPriceCents)
	}
	if cart.Items[1].UnitPriceCents != 250 || cart.Items[1].Quantity != 4 {
		t.Fatalf("updated line wrong: %+v", cart.Items[1])
	}
	checkTotal(t, cart)
}

func TestUpdate_Rejections(t *testing.T) {
	userID := uuid.New()
	inCart := uuid.New()
	other := uuid.New()

	cart, err := Add(nil, userID, snapshot(inCart, 500, 10), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := Update(nil, inCart, snapshot(inCart, 500, 10), 1); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
	if _, err := Update(&cart, inCart, nil, 1); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if _, err := Update(&cart, inCart, snapshot(inCart, 500, 10), 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := Update(&cart, inCart, snapshot(inCart, 500, 10), 11); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if _, err := Update(&cart, other, snapshot(other, 300, 10), 1); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestRemove_DropsLineAndRecomputesTotal(t *testing.T) {
	userID := uuid.New()
	keep := uuid.New()
	drop := uuid.New()

	cart, err := Add(nil, userID, snapshot(keep, 500, 10), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cart, err = Add(&cart, userID, snapshot(drop, 300, 10), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cart, err = Remove(&cart, drop)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cart.Items) != 1 || cart.Items[0].ProductID != keep {
		t.Fatalf("unexpected items after remove: %+v", cart.Items)
	}
	if cart.TotalCents != 1000 {
		t.Fatalf("expected total 1000, got %d", cart.TotalCents)
	}
}

func TestRemove_MissingLineIsIdempotentSuccess(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	cart, err := Add(nil, userID, snapshot(productID, 500, 10), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := Remove(&cart, uuid.New())
	if err != nil {
		t.Fatalf("expected idempotent success, got %v", err)
	}
	if len(result.Items) != 1 || result.Items[0] != cart.Items[0] {
		t.Fatalf("items changed by no-op remove: %+v", result.Items)
	}
	if result.TotalCents != cart.TotalCents {
		t.Fatalf("total changed by no-op remove: %d != %d", result.TotalCents, cart.TotalCents)
	}
}

func TestRemove_MissingCartIsRejected(t *testing.T) {
	if _, err := Remove(nil, uuid.New()); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
}

func TestClear_ResetsItemsAndTotal(t *testing.T) {
	userID := uuid.New()

	cart, err := Add(nil, userID, snapshot(uuid.New(), 500, 10), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cart, err = Add(&cart, userID, snapshot(uuid.New(), 750, 10), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cart, err = Clear(&cart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(cart.Items))
	}
	if cart.TotalCents != 0 {
		t.Fatalf("expected total 0, got %d", cart.TotalCents)
	}
	if cart.UserID != userID {
		t.Fatalf("clear must keep the owner, got %s", cart.UserID)
	}

	if _, err := Clear(nil); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
}

func TestOperations_DoNotMutateInputCart(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	original, err := Add(nil, userID, snapshot(productID, 500, 10), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	originalLine := original.Items[0]

	if _, err := Add(&original, userID, snapshot(productID, 900, 10), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Update(&original, productID, snapshot(productID, 900, 10), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Remove(&original, productID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Clear(&original); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if original.Items[0] != originalLine || original.TotalCents != 1000 {
		t.Fatalf("input cart was mutated: %+v", original)
	}
}

// Mirrors the full journey: create via add, replace quantity via add, then a
// rejected update that must leave everything alone.
func TestEndToEndScenario(t *testing.T) {
	userID := uuid.New()
	p1 := uuid.New()

	cart, err := Add(nil, userID, snapshot(p1, 500, 10), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.TotalCents != 1000 {
		t.Fatalf("expected total 1000 after first add, got %d", cart.TotalCents)
	}

	cart, err = Add(&cart, userID, snapshot(p1, 500, 10), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 1 || cart.Items[0].UnitPriceCents != 500 {
		t.Fatalf("expected single line {qty:1, price:500}, got %+v", cart.Items)
	}
	if cart.TotalCents != 500 {
		t.Fatalf("expected total 500, got %d", cart.TotalCents)
	}

	_, err = Update(&cart, p1, snapshot(p1, 500, 10), 20)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 1 || cart.Items[0].UnitPriceCents != 500 {
		t.Fatalf("cart changed by rejected update: %+v", cart.Items)
	}
	if cart.TotalCents != 500 {
		t.Fatalf("total changed by rejected update: %d", cart.TotalCents)
	}
}

func TestTotal_NoDriftAfterRepeatedOperations(t *testing.T) {
	userID := uuid.New()
	a := uuid.New()
	b := uuid.New()

	cart, err := Add(nil, userID, snapshot(a, 199, 1000), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i <= 200; i++ {
		cart, err = Add(&cart, userID, snapshot(a, 199, 1000), i)
		if err != nil {
			t.Fatalf("unexpected error at iteration %d: %v", i, err)
		}
		cart, err = Add(&cart, userID, snapshot(b, 333, 1000), i)
		if err != nil {
			t.Fatalf("unexpected error at iteration %d: %v", i, err)
		}
		checkTotal(t, cart)
		checkUniqueProducts(t, cart)
	}

	if cart.TotalCents != 200*199+200*333 {
		t.Fatalf("unexpected final total %d", cart.TotalCents)
	}
}
