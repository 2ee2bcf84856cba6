package handlers

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/minimart-io/minimart/internal/broadcast"
	"github.com/minimart-io/minimart/internal/client"
)

func TestStreamOrders_DeliversEvent(t *testing.T) {
	gin.SetMode(gin.TestMode)

	broadcaster := broadcast.New(4)
	h := NewOrderHandler(
		newMockOrderStore(),
		newMockCustomerStore(),
		client.NewInventoryClient("http://127.0.0.1:1"),
		broadcaster,
		nil,
		"http://127.0.0.1:8001",
	)

	router := gin.New()
	router.GET("/orders/stream", h.StreamOrders)

	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/orders/stream")
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Errorf("expected SSE content type, got %q", ct)
	}

	// Wait for the subscription to register, then publish
	deadline := time.Now().Add(time.Second)
	for broadcaster.SubscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	broadcaster.Publish(`{"order_number":"ORD-42"}`)

	scanner := bufio.NewScanner(resp.Body)
	found := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data:") && strings.Contains(line, "ORD-42") {
			found = true
			break
		}
	}
	if !found {
		t.Error("event never arrived on the stream")
	}
}
