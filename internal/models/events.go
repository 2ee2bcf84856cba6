package models

// OrderCreatedEvent is broadcast to SSE subscribers and published to the
// order.created queue when an order has been persisted and stock decremented.
type OrderCreatedEvent struct {
	OrderNumber   string           `json:"order_number"`
	Customer      CustomerInfo     `json:"customer"`
	CreatedAt     string           `json:"created_at"`
	Items         []OrderItemEvent `json:"items"`
	HighlightSKUs []string         `json:"highlight_skus"`
}

type CustomerInfo struct {
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

type OrderItemEvent struct {
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Emoji       string  `json:"emoji"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	NewQuantity int     `json:"new_quantity"`
}
