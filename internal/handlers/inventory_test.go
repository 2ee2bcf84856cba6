package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/minimart-io/minimart/internal/db"
	"github.com/minimart-io/minimart/internal/models"
)

// Mock InventoryStore
type mockInventoryStore struct {
	items map[string]*models.InventoryItem
}

func newMockInventoryStore(items ...models.InventoryItem) *mockInventoryStore {
	m := &mockInventoryStore{items: make(map[string]*models.InventoryItem)}
	for i := range items {
		item := items[i]
		m.items[item.SKU] = &item
	}
	return m
}

func (m *mockInventoryStore) GetAll(ctx context.Context) ([]models.InventoryItem, error) {
	var out []models.InventoryItem
	for _, item := range m.items {
		out = append(out, *item)
	}
	return out, nil
}

func (m *mockInventoryStore) AdjustQuantity(ctx context.Context, sku string, delta int) (int, error) {
	item, ok := m.items[sku]
	if !ok {
		return 0, db.ErrItemNotFound
	}
	if item.Quantity+delta < 0 {
		return 0, db.ErrInsufficientStock
	}
	item.Quantity += delta
	return item.Quantity, nil
}

func newInventoryRouter(store InventoryStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewInventoryHandler(store, "http://127.0.0.1:8000", "http://127.0.0.1:8001")

	router := gin.New()
	router.GET("/inventory", h.ListInventory)
	router.PATCH("/inventory/:sku", h.AdjustInventory)
	return router
}

func TestListInventory_JSON(t *testing.T) {
	store := newMockInventoryStore(
		models.InventoryItem{ID: 1, Name: "Apples", SKU: "APL", Quantity: 10, Price: 1.99, Emoji: "🍎"},
	)
	router := newInventoryRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/inventory", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Inventory []models.InventoryItem `json:"inventory"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Inventory) != 1 || body.Inventory[0].SKU != "APL" {
		t.Errorf("unexpected inventory: %+v", body.Inventory)
	}
}

func TestAdjustInventory_Success(t *testing.T) {
	store := newMockInventoryStore(
		models.InventoryItem{SKU: "BAN", Quantity: 5},
	)
	router := newInventoryRouter(store)

	req := httptest.NewRequest(http.MethodPatch, "/inventory/BAN?quantity_delta=-3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result models.AdjustQuantityResponse
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.SKU != "BAN" || result.NewQuantity != 2 {
		t.Errorf("unexpected result: %+v", result)
	}
	if store.items["BAN"].Quantity != 2 {
		t.Errorf("expected stored quantity 2, got %d", store.items["BAN"].Quantity)
	}
}

func TestAdjustInventory_UnknownSKU(t *testing.T) {
	router := newInventoryRouter(newMockInventoryStore())

	req := httptest.NewRequest(http.MethodPatch, "/inventory/ZZZ?quantity_delta=-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestAdjustInventory_WouldGoNegative(t *testing.T) {
	store := newMockInventoryStore(
		models.InventoryItem{SKU: "APL", Quantity: 10},
	)
	router := newInventoryRouter(store)

	req := httptest.NewRequest(http.MethodPatch, "/inventory/APL?quantity_delta=-12", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if store.items["APL"].Quantity != 10 {
		t.Errorf("expected quantity unchanged at 10, got %d", store.items["APL"].Quantity)
	}
}

func TestAdjustInventory_BadDelta(t *testing.T) {
	router := newInventoryRouter(newMockInventoryStore())

	req := httptest.NewRequest(http.MethodPatch, "/inventory/APL?quantity_delta=lots", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
