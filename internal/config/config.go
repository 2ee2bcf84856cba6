package config

import (
	"os"
	"strconv"
)

// Config holds everything read from the environment at startup.
// There is no hot reload; services restart to pick up changes.
type Config struct {
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	RedisHost string
	RedisPort int

	RabbitHost     string
	RabbitPort     int
	RabbitUser     string
	RabbitPassword string

	ConsulHost string
	ConsulPort int

	// Service-to-service base URLs.
	InventoryURL string
	OrdersURL    string

	// Publicly reachable URLs used for browser links and redirects.
	PublicInventoryURL string
	PublicOrdersURL    string
}

func Load() Config {
	return Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBUser:     getEnv("DB_USER", "minimart"),
		DBPassword: getEnv("DB_PASSWORD", "minimart123"),
		DBName:     getEnv("DB_NAME", "minimart"),

		RedisHost: getEnv("REDIS_HOST", "localhost"),
		RedisPort: getEnvInt("REDIS_PORT", 6379),

		RabbitHost:     getEnv("RABBITMQ_HOST", "localhost"),
		RabbitPort:     getEnvInt("RABBITMQ_PORT", 5672),
		RabbitUser:     getEnv("RABBITMQ_USER", "guest"),
		RabbitPassword: getEnv("RABBITMQ_PASSWORD", "guest"),

		ConsulHost: getEnv("CONSUL_HOST", "localhost"),
		ConsulPort: getEnvInt("CONSUL_PORT", 8500),

		InventoryURL: getEnv("INVENTORY_URL", "http://localhost:8000"),
		OrdersURL:    getEnv("ORDERS_URL", "http://localhost:8001"),

		PublicInventoryURL: getEnv("PUBLIC_INVENTORY_URL", "http://127.0.0.1:8000"),
		PublicOrdersURL:    getEnv("PUBLIC_ORDERS_URL", "http://127.0.0.1:8001"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
