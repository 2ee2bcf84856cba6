package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/minimart-io/minimart/internal/broadcast"
	"github.com/minimart-io/minimart/internal/client"
	"github.com/minimart-io/minimart/internal/config"
	"github.com/minimart-io/minimart/internal/db"
	"github.com/minimart-io/minimart/internal/discovery"
	"github.com/minimart-io/minimart/internal/handlers"
	"github.com/minimart-io/minimart/internal/messaging"
	"github.com/minimart-io/minimart/internal/publisher"
	"github.com/minimart-io/minimart/internal/web"
)

const (
	serviceName = "order-service"
	serviceID   = "order-service-1"
	servicePort = 8001
)

func main() {
	cfg := config.Load()

	// Connect to PostgreSQL
	database, err := db.NewPostgresDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.EnsureOrdersSchema(context.Background()); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	// Connect to RabbitMQ
	rabbitMQ, err := messaging.NewRabbitMQ(cfg.RabbitHost, cfg.RabbitPort, cfg.RabbitUser, cfg.RabbitPassword)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rabbitMQ.Close()

	// Create publisher
	orderPublisher, err := publisher.NewOrderPublisher(rabbitMQ)
	if err != nil {
		log.Fatalf("Failed to create publisher: %v", err)
	}

	// Connect to Consul
	consul, err := discovery.NewConsulClient(cfg.ConsulHost, cfg.ConsulPort)
	if err != nil {
		log.Fatalf("Failed to connect to Consul: %v", err)
	}

	err = consul.Register(discovery.ServiceConfig{
		Name: serviceName,
		ID:   serviceID,
		Port: servicePort,
		Tags: []string{"api", "orders"},
	})
	if err != nil {
		log.Fatalf("Failed to register service: %v", err)
	}

	// Deregister on shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down...")
		consul.Deregister(serviceID)
		os.Exit(0)
	}()

	// Inventory service client (HTTP)
	inventoryClient := client.NewInventoryClient(cfg.InventoryURL)

	// SSE fan-out, injected into handlers
	broadcaster := broadcast.New(16)

	// Create repositories and handler
	orderRepo := db.NewOrderRepository(database)
	customerRepo := db.NewCustomerRepository(database)
	orderHandler := handlers.NewOrderHandler(orderRepo, customerRepo, inventoryClient, broadcaster, orderPublisher, cfg.PublicOrdersURL)

	// Setup router
	router := gin.Default()
	router.SetHTMLTemplate(web.Templates())

	router.GET("/health", orderHandler.HealthCheck)
	router.GET("/orders", orderHandler.ListOrders)
	router.GET("/orders/:id", orderHandler.GetOrder)
	router.POST("/orders", orderHandler.CreateOrder)
	router.PATCH("/orders/:id/status", orderHandler.UpdateOrderStatus)
	router.GET("/orders-with-inventory", orderHandler.OrdersWithInventory)
	router.GET("/orders/stream", orderHandler.StreamOrders)

	// Start server
	log.Printf("🚀 %s starting on http://localhost:%d", serviceName, servicePort)
	log.Println("   Publishing events to RabbitMQ")
	router.Run(":8001")
}
