package models

type InventoryItem struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	SKU      string  `json:"sku"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Emoji    string  `json:"emoji"`
}

type AdjustQuantityResponse struct {
	SKU         string `json:"sku"`
	NewQuantity int    `json:"new_quantity"`
}
