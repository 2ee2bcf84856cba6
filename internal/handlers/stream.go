package handlers

import (
	"io"
	"log"

	"github.com/gin-gonic/gin"
)

// StreamOrders serves the order-created event stream over SSE. The
// subscription lives for as long as the client stays connected and is
// removed when the connection closes. Events fired before the client
// connected are never replayed.
func (h *OrderHandler) StreamOrders(c *gin.Context) {
	sub := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(sub)

	log.Printf("👂 SSE subscriber connected (%d active)", h.broadcaster.SubscriberCount())
	defer log.Printf("👋 SSE subscriber disconnected")

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent("message", msg)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
