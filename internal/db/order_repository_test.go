package db

import (
	"context"
	"testing"

	"github.com/minimart-io/minimart/internal/models"
)

func TestOrderCreateAndDelete(t *testing.T) {
	database := getTestDB(t)
	defer database.Close()

	ctx := context.Background()
	customers := NewCustomerRepository(database)
	orders := NewOrderRepository(database)

	customer := models.Customer{Name: "Test Customer", Nickname: "tester", Email: "tester@example.com"}
	if err := customers.Create(ctx, &customer); err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	t.Cleanup(func() {
		database.Conn.Exec("DELETE FROM customers WHERE id = $1", customer.ID)
	})

	order := models.Order{
		OrderNumber: "TEST-ORDER-1",
		Status:      "pending",
		CustomerID:  customer.ID,
		Items: []models.OrderLine{
			{SKU: "AAA11111", Quantity: 2, PriceAtOrder: 3.50},
			{SKU: "BBB22222", Quantity: 1, PriceAtOrder: 1.25},
		},
	}

	if err := orders.Create(ctx, &order); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.ID == 0 {
		t.Fatal("order ID not assigned")
	}
	if order.Items[0].ID == 0 || order.Items[0].OrderID != order.ID {
		t.Errorf("line items not linked: %+v", order.Items)
	}

	fetched, err := orders.GetByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched == nil || len(fetched.Items) != 2 {
		t.Fatalf("expected order with 2 items, got %+v", fetched)
	}

	// Compensating delete removes the order and, via cascade, its items
	if err := orders.Delete(ctx, order.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	gone, err := orders.GetByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetByID after delete failed: %v", err)
	}
	if gone != nil {
		t.Error("order still present after delete")
	}

	var itemCount int
	database.Conn.QueryRow("SELECT COUNT(*) FROM order_items WHERE order_id = $1", order.ID).Scan(&itemCount)
	if itemCount != 0 {
		t.Errorf("expected cascade delete of items, %d remain", itemCount)
	}
}

func TestOrderDelete_NotFound(t *testing.T) {
	database := getTestDB(t)
	defer database.Close()

	orders := NewOrderRepository(database)
	if err := orders.Delete(context.Background(), -1); err == nil {
		t.Error("expected error deleting missing order")
	}
}

func TestListWithItems_GroupsLines(t *testing.T) {
	database := getTestDB(t)
	defer database.Close()

	ctx := context.Background()
	customers := NewCustomerRepository(database)
	orders := NewOrderRepository(database)

	customer := models.Customer{Name: "List Tester", Nickname: "lister", Email: "lister@example.com"}
	if err := customers.Create(ctx, &customer); err != nil {
		t.Fatalf("create customer failed: %v", err)
	}

	order := models.Order{
		OrderNumber: "TEST-ORDER-2",
		Status:      "confirmed",
		CustomerID:  customer.ID,
		Items: []models.OrderLine{
			{SKU: "CCC33333", Quantity: 1, PriceAtOrder: 2.00},
			{SKU: "DDD44444", Quantity: 4, PriceAtOrder: 8.00},
		},
	}
	if err := orders.Create(ctx, &order); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	t.Cleanup(func() {
		database.Conn.Exec("DELETE FROM orders WHERE id = $1", order.ID)
		database.Conn.Exec("DELETE FROM customers WHERE id = $1", customer.ID)
	})

	all, err := orders.ListWithItems(ctx)
	if err != nil {
		t.Fatalf("ListWithItems failed: %v", err)
	}

	var found *models.Order
	for i := range all {
		if all[i].ID == order.ID {
			found = &all[i]
			break
		}
	}
	if found == nil {
		t.Fatal("created order missing from listing")
	}
	if len(found.Items) != 2 {
		t.Errorf("expected 2 items grouped onto order, got %d", len(found.Items))
	}
	if found.Customer == nil || found.Customer.Nickname != "lister" {
		t.Errorf("expected customer joined in, got %+v", found.Customer)
	}
}
