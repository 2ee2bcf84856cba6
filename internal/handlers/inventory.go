package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/minimart-io/minimart/internal/db"
	"github.com/minimart-io/minimart/internal/models"
)

// InventoryStore is the storage surface the inventory handlers need.
type InventoryStore interface {
	GetAll(ctx context.Context) ([]models.InventoryItem, error)
	AdjustQuantity(ctx context.Context, sku string, delta int) (int, error)
}

type InventoryHandler struct {
	store              InventoryStore
	publicInventoryURL string
	publicOrdersURL    string
}

func NewInventoryHandler(store InventoryStore, publicInventoryURL, publicOrdersURL string) *InventoryHandler {
	return &InventoryHandler{
		store:              store,
		publicInventoryURL: publicInventoryURL,
		publicOrdersURL:    publicOrdersURL,
	}
}

// HealthCheck returns server status
func (h *InventoryHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "inventory-service"})
}

// Index renders the landing page with links to both dashboards
func (h *InventoryHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.gohtml", gin.H{
		"InventoryURL": h.publicInventoryURL,
		"OrdersURL":    h.publicOrdersURL,
	})
}

// ListInventory returns the inventory snapshot as JSON or renders the
// HTML dashboard, depending on the Accept header. The dashboard supports
// ?highlight=SKU1,SKU2 for visual emphasis.
func (h *InventoryHandler) ListInventory(c *gin.Context) {
	items, err := h.store.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if items == nil {
		items = []models.InventoryItem{}
	}

	if strings.Contains(strings.ToLower(c.GetHeader("Accept")), "application/json") {
		c.JSON(http.StatusOK, gin.H{"inventory": items})
		return
	}

	highlight := make(map[string]bool)
	if raw := c.Query("highlight"); raw != "" {
		for _, sku := range strings.Split(raw, ",") {
			highlight[sku] = true
		}
	}

	c.HTML(http.StatusOK, "inventory.gohtml", gin.H{
		"Inventory": items,
		"Highlight": highlight,
	})
}

// AdjustInventory applies a signed quantity delta to one SKU.
// This is the sole mutation path for stock.
func (h *InventoryHandler) AdjustInventory(c *gin.Context) {
	sku := c.Param("sku")

	delta, err := strconv.Atoi(c.Query("quantity_delta"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity_delta must be an integer"})
		return
	}

	newQuantity, err := h.store.AdjustQuantity(c.Request.Context(), sku, delta)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		case errors.Is(err, db.ErrInsufficientStock):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient stock"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, models.AdjustQuantityResponse{SKU: sku, NewQuantity: newQuantity})
}
