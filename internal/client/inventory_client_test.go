package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/minimart-io/minimart/internal/models"
)

func newInventoryServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /inventory", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"inventory": [
			{"id": 1, "name": "Apples", "sku": "APL", "quantity": 10, "price": 1.99, "emoji": "🍎"},
			{"id": 2, "name": "Bananas", "sku": "BAN", "quantity": 5, "price": 0.99, "emoji": "🍌"}
		]}`))
	})
	mux.HandleFunc("PATCH /inventory/APL", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sku": "APL", "new_quantity": 7}`))
	})
	mux.HandleFunc("PATCH /inventory/ZZZ", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "Item not found"}`, http.StatusNotFound)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchInventory(t *testing.T) {
	srv := newInventoryServer(t)
	c := NewInventoryClient(srv.URL)

	items, err := c.FetchInventory(context.Background())
	if err != nil {
		t.Fatalf("FetchInventory failed: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].SKU != "APL" || items[0].Quantity != 10 {
		t.Errorf("unexpected first item: %+v", items[0])
	}
}

func TestFetchInventory_Unreachable(t *testing.T) {
	c := NewInventoryClient("http://127.0.0.1:1")

	_, err := c.FetchInventory(context.Background())
	if !errors.Is(err, ErrInventoryUnavailable) {
		t.Errorf("expected ErrInventoryUnavailable, got: %v", err)
	}
}

func TestValidateStock_Success(t *testing.T) {
	srv := newInventoryServer(t)
	c := NewInventoryClient(srv.URL)

	lookup, err := c.ValidateStock(context.Background(), []models.CreateOrderItemRequest{
		{SKU: "APL", Quantity: 3},
		{SKU: "BAN", Quantity: 5},
	})
	if err != nil {
		t.Fatalf("expected success, got: %v", err)
	}

	if lookup["APL"].Name != "Apples" {
		t.Errorf("expected lookup to carry item details, got %+v", lookup["APL"])
	}
}

func TestValidateStock_ErrorKinds(t *testing.T) {
	srv := newInventoryServer(t)
	c := NewInventoryClient(srv.URL)
	ctx := context.Background()

	cases := []struct {
		name  string
		items []models.CreateOrderItemRequest
		want  error
	}{
		{"insufficient stock", []models.CreateOrderItemRequest{{SKU: "APL", Quantity: 12}}, ErrInsufficientStock},
		{"unknown sku", []models.CreateOrderItemRequest{{SKU: "ZZZ", Quantity: 1}}, ErrSKUNotFound},
		{"zero quantity", []models.CreateOrderItemRequest{{SKU: "APL", Quantity: 0}}, ErrInvalidItem},
		{"missing sku", []models.CreateOrderItemRequest{{SKU: "", Quantity: 2}}, ErrInvalidItem},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.ValidateStock(ctx, tc.items)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got: %v", tc.want, err)
			}
		})
	}
}

func TestValidateStock_FailsFast(t *testing.T) {
	srv := newInventoryServer(t)
	c := NewInventoryClient(srv.URL)

	// First violation wins even when later entries are fine
	_, err := c.ValidateStock(context.Background(), []models.CreateOrderItemRequest{
		{SKU: "APL", Quantity: 12},
		{SKU: "ZZZ", Quantity: 1},
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Errorf("expected ErrInsufficientStock, got: %v", err)
	}
}

func TestAdjustQuantity(t *testing.T) {
	srv := newInventoryServer(t)
	c := NewInventoryClient(srv.URL)

	result, err := c.AdjustQuantity(context.Background(), "APL", -3)
	if err != nil {
		t.Fatalf("AdjustQuantity failed: %v", err)
	}

	if result.SKU != "APL" || result.NewQuantity != 7 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestAdjustQuantity_Failure(t *testing.T) {
	srv := newInventoryServer(t)
	c := NewInventoryClient(srv.URL)

	_, err := c.AdjustQuantity(context.Background(), "ZZZ", -1)
	if err == nil {
		t.Fatal("expected error for unknown SKU")
	}
}
