package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/minimart-io/minimart/internal/config"
	"github.com/minimart-io/minimart/internal/db"
	"github.com/minimart-io/minimart/internal/models"
)

var emojiByCategory = map[string][]string{
	"tools":       {"🔧", "🪛", "🔨", "⚙️", "🛠️"},
	"electronics": {"💻", "📱", "🖥️", "🖨️", "🔋"},
	"furniture":   {"🪑", "🛏️", "🛋️", "🗄️", "🚪"},
	"toys":        {"🧸", "🎲", "🪀", "🎯", "🪁"},
	"kitchen":     {"🍴", "🥄", "🧂", "🍳", "🫙"},
	"sports":      {"⚽", "🏀", "🏈", "🎾", "🥏"},
	"garden":      {"🌻", "🪴", "🌿", "🧤", "🪓"},
	"clothing":    {"👕", "👖", "🧥", "👗", "🧢"},
	"books":       {"📚", "📖", "📘", "📙", "📕"},
	"pets":        {"🐶", "🐱", "🐹", "🐰", "🐦"},
}

var customerSeeds = []models.Customer{
	{Name: "Alice Johnson", Nickname: "AJ", Email: "alice.j@example.com"},
	{Name: "Robert Smith", Nickname: "Bobby", Email: "robert.smith@example.com"},
	{Name: "Cynthia Lee", Nickname: "Cyn", Email: "cynthia.lee@example.com"},
	{Name: "David Martinez", Nickname: "Dave", Email: "d.martinez@example.com"},
	{Name: "Emily Chen", Nickname: "Em", Email: "emily.chen@example.com"},
	{Name: "Franklin Wright", Nickname: "Frank", Email: "frank.w@example.com"},
	{Name: "Grace Thompson", Nickname: "Gracie", Email: "grace.t@example.com"},
	{Name: "Henry Patel", Nickname: "Hank", Email: "henry.patel@example.com"},
	{Name: "Isabella Nguyen", Nickname: "Izzy", Email: "isabella.n@example.com"},
	{Name: "Jason Kim", Nickname: "Jay", Email: "jason.kim@example.com"},
}

const skuAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func generateSKU(rng *rand.Rand) string {
	b := make([]byte, 8)
	for i := range b {
		b[i] = skuAlphabet[rng.Intn(len(skuAlphabet))]
	}
	return string(b)
}

func generateInventory(rng *rand.Rand, n int) []models.InventoryItem {
	categories := make([]string, 0, len(emojiByCategory))
	for category := range emojiByCategory {
		categories = append(categories, category)
	}

	items := make([]models.InventoryItem, 0, n)
	for i := 0; i < n; i++ {
		category := categories[rng.Intn(len(categories))]
		emojis := emojiByCategory[category]
		items = append(items, models.InventoryItem{
			Name:     fmt.Sprintf("%s item %d", category, rng.Intn(999)+1),
			SKU:      generateSKU(rng),
			Quantity: rng.Intn(500) + 1,
			Price:    float64(rng.Intn(9900)+100) / 100,
			Emoji:    emojis[rng.Intn(len(emojis))],
		})
	}
	return items
}

func main() {
	var (
		itemCount     = flag.Int("items", 200, "number of inventory items to seed")
		customerCount = flag.Int("customers", 20, "number of customers to seed")
		orderCount    = flag.Int("orders", 50, "number of historical orders to seed")
	)
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	database, err := db.NewPostgresDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.EnsureInventorySchema(ctx); err != nil {
		log.Fatalf("Failed to create inventory schema: %v", err)
	}
	if err := database.EnsureOrdersSchema(ctx); err != nil {
		log.Fatalf("Failed to create orders schema: %v", err)
	}

	inventoryRepo := db.NewInventoryRepository(database)
	customerRepo := db.NewCustomerRepository(database)
	orderRepo := db.NewOrderRepository(database)

	// Inventory
	inventory := generateInventory(rng, *itemCount)
	for i := range inventory {
		if err := inventoryRepo.Create(ctx, &inventory[i]); err != nil {
			log.Fatalf("Failed to seed inventory: %v", err)
		}
	}
	log.Printf("✅ Seeded %d inventory items", len(inventory))

	// Customers
	customers := make([]models.Customer, 0, *customerCount)
	for i := 0; i < *customerCount; i++ {
		seed := customerSeeds[i%len(customerSeeds)]
		customer := models.Customer{
			Name:     seed.Name,
			Nickname: fmt.Sprintf("%s%d", seed.Nickname, i),
			Email:    fmt.Sprintf("%d.%s", i, seed.Email),
		}
		if err := customerRepo.Create(ctx, &customer); err != nil {
			log.Fatalf("Failed to seed customer: %v", err)
		}
		customers = append(customers, customer)
	}
	log.Printf("✅ Seeded %d customers", len(customers))

	// Historical orders, one to five lines each
	for i := 0; i < *orderCount; i++ {
		customer := customers[rng.Intn(len(customers))]
		order := models.Order{
			OrderNumber: uuid.NewString()[:8],
			Status:      "confirmed",
			CustomerID:  customer.ID,
		}
		lines := rng.Intn(5) + 1
		for j := 0; j < lines; j++ {
			item := inventory[rng.Intn(len(inventory))]
			order.Items = append(order.Items, models.OrderLine{
				SKU:          item.SKU,
				Quantity:     rng.Intn(3) + 1,
				PriceAtOrder: item.Price,
			})
		}
		if err := orderRepo.Create(ctx, &order); err != nil {
			log.Fatalf("Failed to seed order: %v", err)
		}
	}
	log.Printf("✅ Seeded %d orders", *orderCount)

	log.Println("✅ Seeded inventory, customers, and orders.")
}
