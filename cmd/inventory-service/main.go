package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/minimart-io/minimart/internal/cache"
	"github.com/minimart-io/minimart/internal/config"
	"github.com/minimart-io/minimart/internal/consumer"
	"github.com/minimart-io/minimart/internal/db"
	"github.com/minimart-io/minimart/internal/discovery"
	"github.com/minimart-io/minimart/internal/handlers"
	"github.com/minimart-io/minimart/internal/messaging"
	"github.com/minimart-io/minimart/internal/publisher"
	"github.com/minimart-io/minimart/internal/web"
)

const (
	serviceName = "inventory-service"
	serviceID   = "inventory-service-1"
	servicePort = 8000
)

func main() {
	cfg := config.Load()

	// Connect to PostgreSQL
	database, err := db.NewPostgresDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.EnsureInventorySchema(context.Background()); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	// Connect to Redis
	redisCache, err := cache.NewRedisCache(cfg.RedisHost, cfg.RedisPort, 5*time.Minute)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisCache.Close()

	// Connect to RabbitMQ
	rabbitMQ, err := messaging.NewRabbitMQ(cfg.RabbitHost, cfg.RabbitPort, cfg.RabbitUser, cfg.RabbitPassword)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rabbitMQ.Close()

	// Connect to Consul
	consul, err := discovery.NewConsulClient(cfg.ConsulHost, cfg.ConsulPort)
	if err != nil {
		log.Fatalf("Failed to connect to Consul: %v", err)
	}

	// Register with Consul
	err = consul.Register(discovery.ServiceConfig{
		Name: serviceName,
		ID:   serviceID,
		Port: servicePort,
		Tags: []string{"api", "inventory"},
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

	// Create repositories
	inventoryRepo := db.NewInventoryRepository(database)
	cachedRepo := db.NewCachedInventoryRepository(inventoryRepo, redisCache)

	// Create handler
	inventoryHandler := handlers.NewInventoryHandler(cachedRepo, cfg.PublicInventoryURL, cfg.PublicOrdersURL)

	// Invalidate cached entries when orders are created elsewhere
	go startCacheInvalidator(rabbitMQ, cachedRepo)

	// Setup router
	router := gin.Default()
	router.SetHTMLTemplate(web.Templates())

	router.GET("/health", inventoryHandler.HealthCheck)
	router.GET("/", inventoryHandler.Index)
	router.GET("/inventory", inventoryHandler.ListInventory)
	router.PATCH("/inventory/:sku", inventoryHandler.AdjustInventory)

	// Start server
	log.Printf("🚀 %s starting on http://localhost:%d", serviceName, servicePort)
	log.Println("   Registered with Consul")
	router.Run(":8000")
}

func startCacheInvalidator(mq *messaging.RabbitMQ, repo *db.CachedInventoryRepository) {
	if err := mq.DeclareQueue(publisher.OrderCreatedQueue); err != nil {
		log.Fatalf("Failed to declare queue: %v", err)
	}

	messages, err := mq.Consume(publisher.OrderCreatedQueue)
	if err != nil {
		log.Fatalf("Failed to consume messages: %v", err)
	}

	invalidator := consumer.NewCacheInvalidator(repo)
	invalidator.ProcessOrderCreated(messages)
}
