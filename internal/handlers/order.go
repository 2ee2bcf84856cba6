package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/minimart-io/minimart/internal/broadcast"
	"github.com/minimart-io/minimart/internal/client"
	"github.com/minimart-io/minimart/internal/models"
)

// OrderStore is the storage surface the order handlers need.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id int) error
	ListWithItems(ctx context.Context) ([]models.Order, error)
	GetByID(ctx context.Context, id int) (*models.Order, error)
	UpdateStatus(ctx context.Context, id int, status string) error
}

type CustomerStore interface {
	GetByID(ctx context.Context, id int) (*models.Customer, error)
	GetByNickname(ctx context.Context, nickname string) (*models.Customer, error)
	GetByEmail(ctx context.Context, email string) (*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
}

// EventPublisher is the optional queue side-channel for order.created events.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event models.OrderCreatedEvent) error
}

type OrderHandler struct {
	orders          OrderStore
	customers       CustomerStore
	inventory       *client.InventoryClient
	broadcaster     *broadcast.Broadcaster
	publisher       EventPublisher // may be nil
	publicOrdersURL string
}

func NewOrderHandler(
	orders OrderStore,
	customers CustomerStore,
	inventory *client.InventoryClient,
	broadcaster *broadcast.Broadcaster,
	publisher EventPublisher,
	publicOrdersURL string,
) *OrderHandler {
	return &OrderHandler{
		orders:          orders,
		customers:       customers,
		inventory:       inventory,
		broadcaster:     broadcaster,
		publisher:       publisher,
		publicOrdersURL: publicOrdersURL,
	}
}

// HealthCheck returns server status
func (h *OrderHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "order-service"})
}

// CreateOrder runs the full order-creation sequence: shape validation,
// customer resolution, stock validation against one snapshot, transactional
// persist, sequential per-SKU decrements, compensating delete on decrement
// failure, and finally the event broadcast.
//
// Decrements already applied for earlier lines are NOT reversed when a later
// line fails; only the order row is deleted. Accepted inconsistency window.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.OrderNumber == "" || len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order number and items are required"})
		return
	}

	customer, err := h.resolveCustomer(ctx, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.inventory.ValidateStock(ctx, req.Items); err != nil {
		c.JSON(stockErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	order := models.Order{
		OrderNumber: req.OrderNumber,
		Status:      "pending",
		CustomerID:  customer.ID,
		Customer:    customer,
	}
	for _, item := range req.Items {
		order.Items = append(order.Items, models.OrderLine{
			SKU:          item.SKU,
			Quantity:     item.Quantity,
			PriceAtOrder: item.Price,
		})
	}

	if err := h.orders.Create(ctx, &order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Decrement stock per SKU, sequentially. No retries. On failure the
	// order row is deleted and the decrement error surfaced.
	updatedStock := make(map[string]int)
	for _, line := range order.Items {
		result, err := h.inventory.AdjustQuantity(ctx, line.SKU, -line.Quantity)
		if err != nil {
			log.Printf("❌ Inventory decrement failed for %s, deleting order #%d: %v", line.SKU, order.ID, err)
			if delErr := h.orders.Delete(ctx, order.ID); delErr != nil {
				log.Printf("⚠️ Compensating delete failed for order #%d: %v", order.ID, delErr)
			}
			c.JSON(stockErrorStatus(err), gin.H{"error": err.Error()})
			return
		}
		updatedStock[result.SKU] = result.NewQuantity
	}

	if err := h.orders.UpdateStatus(ctx, order.ID, "confirmed"); err != nil {
		log.Printf("⚠️ Failed to confirm order #%d: %v", order.ID, err)
	}

	event := h.buildEvent(ctx, &order, updatedStock)
	h.broadcastEvent(ctx, event)

	log.Printf("✅ Order %s created (#%d)", order.OrderNumber, order.ID)

	if strings.Contains(strings.ToLower(c.GetHeader("Accept")), "text/html") {
		highlight := strings.Join(event.HighlightSKUs, ",")
		c.Redirect(http.StatusSeeOther, fmt.Sprintf("%s/orders-with-inventory?highlight=%s", h.publicOrdersURL, highlight))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Order created",
		"order_id":      order.ID,
		"updated_stock": updatedStock,
	})
}

// resolveCustomer finds an existing customer by id, nickname or email,
// creating one from the request fields when no lookup matches.
func (h *OrderHandler) resolveCustomer(ctx context.Context, req models.CreateOrderRequest) (*models.Customer, error) {
	if req.CustomerID != 0 {
		customer, err := h.customers.GetByID(ctx, req.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer != nil {
			return customer, nil
		}
	}

	if req.CustomerNickname != "" {
		customer, err := h.customers.GetByNickname(ctx, req.CustomerNickname)
		if err != nil {
			return nil, err
		}
		if customer != nil {
			return customer, nil
		}
	}

	if req.CustomerEmail != "" {
		customer, err := h.customers.GetByEmail(ctx, req.CustomerEmail)
		if err != nil {
			return nil, err
		}
		if customer != nil {
			return customer, nil
		}
	}

	customer := &models.Customer{
		Name:     req.CustomerName,
		Nickname: req.CustomerNickname,
		Email:    req.CustomerEmail,
	}
	if err := h.customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// buildEvent enriches the order with current names and emojis from a fresh
// inventory fetch. Enrichment failure degrades to bare SKUs, never an error.
func (h *OrderHandler) buildEvent(ctx context.Context, order *models.Order, updatedStock map[string]int) models.OrderCreatedEvent {
	lookup := make(map[string]models.InventoryItem)
	if inventory, err := h.inventory.FetchInventory(ctx); err == nil {
		for _, item := range inventory {
			lookup[item.SKU] = item
		}
	} else {
		log.Printf("⚠️ Could not enrich order event: %v", err)
	}

	event := models.OrderCreatedEvent{
		OrderNumber: order.OrderNumber,
		CreatedAt:   order.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if order.Customer != nil {
		event.Customer = models.CustomerInfo{
			Name:     order.Customer.Name,
			Nickname: order.Customer.Nickname,
			Email:    order.Customer.Email,
		}
	}

	for _, line := range order.Items {
		event.Items = append(event.Items, models.OrderItemEvent{
			SKU:         line.SKU,
			Name:        lookup[line.SKU].Name,
			Emoji:       lookup[line.SKU].Emoji,
			Quantity:    line.Quantity,
			Price:       line.PriceAtOrder,
			NewQuantity: updatedStock[line.SKU],
		})
	}
	for sku := range updatedStock {
		event.HighlightSKUs = append(event.HighlightSKUs, sku)
	}

	return event
}

// broadcastEvent pushes the event to SSE subscribers and, best-effort, to
// the order.created queue. Neither failure fails the request.
func (h *OrderHandler) broadcastEvent(ctx context.Context, event models.OrderCreatedEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("⚠️ Failed to marshal order event: %v", err)
		return
	}

	h.broadcaster.Publish(string(data))

	if h.publisher != nil {
		if err := h.publisher.PublishOrderCreated(ctx, event); err != nil {
			log.Printf("⚠️ Failed to publish event: %v", err)
		}
	}
}

// stockErrorStatus maps inventory client errors to HTTP statuses.
func stockErrorStatus(err error) int {
	switch {
	case errors.Is(err, client.ErrInventoryUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, client.ErrSKUNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// ListOrders returns all orders with their items
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orders.ListWithItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrder returns a single order with items
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
		return
	}

	order, err := h.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus updates the order status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	validStatuses := map[string]bool{
		"pending":   true,
		"confirmed": true,
		"shipped":   true,
		"delivered": true,
		"cancelled": true,
	}
	if !validStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	if err := h.orders.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "order status updated"})
}
