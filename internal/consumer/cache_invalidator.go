package consumer

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/minimart-io/minimart/internal/db"
	"github.com/minimart-io/minimart/internal/models"
)

// CacheInvalidator drops cached inventory entries when an order.created
// event arrives. Stock itself is already decremented synchronously through
// the adjustment endpoint; this consumer only keeps the cache honest.
type CacheInvalidator struct {
	repo *db.CachedInventoryRepository
}

func NewCacheInvalidator(repo *db.CachedInventoryRepository) *CacheInvalidator {
	return &CacheInvalidator{repo: repo}
}

// ProcessOrderCreated handles order.created events
func (c *CacheInvalidator) ProcessOrderCreated(messages <-chan amqp.Delivery) {
	ctx := context.Background()

	for msg := range messages {
		log.Printf("📥 Received order.created event")

		var event models.OrderCreatedEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			log.Printf("❌ Failed to parse event: %v", err)
			msg.Nack(false, false) // Don't requeue bad messages
			continue
		}

		for _, item := range event.Items {
			c.repo.InvalidateSKU(ctx, item.SKU)
			log.Printf("🗑️ Cache invalidated for SKU %s (order %s)", item.SKU, event.OrderNumber)
		}

		msg.Ack(false)
	}
}
