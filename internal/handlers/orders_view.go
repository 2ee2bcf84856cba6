package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/minimart-io/minimart/internal/models"
)

type orderView struct {
	OrderNumber string          `json:"order_number"`
	Customer    string          `json:"customer"`
	CreatedAt   string          `json:"created_at"`
	Items       []orderItemView `json:"items"`
}

type orderItemView struct {
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	Emoji    string  `json:"emoji"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrdersWithInventory renders recent orders enriched with live inventory
// names and emojis, as JSON or HTML. An unreachable inventory service is
// non-fatal here: orders render with bare SKUs and the error is included.
func (h *OrderHandler) OrdersWithInventory(c *gin.Context) {
	ctx := c.Request.Context()

	var errMsg string
	inventory, err := h.inventory.FetchInventory(ctx)
	if err != nil {
		errMsg = "Could not reach inventory: " + err.Error()
		log.Printf("⚠️ %s", errMsg)
	}
	if inventory == nil {
		inventory = []models.InventoryItem{}
	}

	lookup := make(map[string]models.InventoryItem, len(inventory))
	for _, item := range inventory {
		lookup[item.SKU] = item
	}

	orders, err := h.orders.ListWithItems(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	views := make([]orderView, 0, len(orders))
	for _, order := range orders {
		view := orderView{
			OrderNumber: order.OrderNumber,
			CreatedAt:   order.CreatedAt.Format("2006-01-02"),
			Items:       []orderItemView{},
		}
		if order.Customer != nil {
			view.Customer = order.Customer.Nickname
		}
		for _, line := range order.Items {
			view.Items = append(view.Items, orderItemView{
				SKU:      line.SKU,
				Name:     lookup[line.SKU].Name,
				Emoji:    lookup[line.SKU].Emoji,
				Quantity: line.Quantity,
				Price:    line.PriceAtOrder,
			})
		}
		views = append(views, view)
	}

	var highlightList []string
	highlight := make(map[string]bool)
	if raw := c.Query("highlight"); raw != "" {
		highlightList = strings.Split(raw, ",")
		for _, sku := range highlightList {
			highlight[sku] = true
		}
	}

	if c.DefaultQuery("format", "html") == "json" {
		c.JSON(http.StatusOK, gin.H{
			"orders":         views,
			"inventory":      inventory,
			"error":          errMsg,
			"highlight_skus": highlightList,
		})
		return
	}

	c.HTML(http.StatusOK, "orders.gohtml", gin.H{
		"Orders":    views,
		"Error":     errMsg,
		"Highlight": highlight,
	})
}
