package models

import "time"

type Customer struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

type Order struct {
	ID          int         `json:"id"`
	OrderNumber string      `json:"order_number"`
	Status      string      `json:"status"`
	CustomerID  int         `json:"customer_id"`
	Customer    *Customer   `json:"customer,omitempty"`
	Items       []OrderLine `json:"items"`
	CreatedAt   time.Time   `json:"created_at"`
}

// OrderLine snapshots the price at order time, decoupled from live inventory price.
type OrderLine struct {
	ID           int     `json:"id"`
	OrderID      int     `json:"order_id"`
	SKU          string  `json:"sku"`
	Quantity     int     `json:"quantity"`
	PriceAtOrder float64 `json:"price_at_order"`
}

type CreateOrderRequest struct {
	OrderNumber      string                   `json:"order_number"`
	CustomerID       int                      `json:"customer_id"`
	CustomerName     string                   `json:"customer_name"`
	CustomerNickname string                   `json:"customer_nickname"`
	CustomerEmail    string                   `json:"customer_email"`
	Items            []CreateOrderItemRequest `json:"items"`
}

type CreateOrderItemRequest struct {
	SKU      string  `json:"sku"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}
