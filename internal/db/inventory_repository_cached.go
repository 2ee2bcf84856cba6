package db

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/minimart-io/minimart/internal/cache"
	"github.com/minimart-io/minimart/internal/models"
)

type CachedInventoryRepository struct {
	repo  *InventoryRepository
	cache *cache.RedisCache
}

func NewCachedInventoryRepository(repo *InventoryRepository, cache *cache.RedisCache) *CachedInventoryRepository {
	return &CachedInventoryRepository{
		repo:  repo,
		cache: cache,
	}
}

// Cache key helpers
func itemKey(sku string) string {
	return fmt.Sprintf("inventory:%s", sku)
}

func allItemsKey() string {
	return "inventory:all"
}

// GetAll returns the inventory snapshot (with caching)
func (r *CachedInventoryRepository) GetAll(ctx context.Context) ([]models.InventoryItem, error) {
	cacheKey := allItemsKey()

	var items []models.InventoryItem
	err := r.cache.Get(ctx, cacheKey, &items)
	if err == nil {
		log.Println("📦 Cache HIT: inventory snapshot")
		return items, nil
	}

	log.Println("💾 Cache MISS: inventory snapshot - fetching from DB")
	items, err = r.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, cacheKey, items); err != nil {
		log.Printf("⚠️ Failed to cache inventory: %v", err)
	}

	return items, nil
}

// GetBySKU returns a single item (with caching)
func (r *CachedInventoryRepository) GetBySKU(ctx context.Context, sku string) (*models.InventoryItem, error) {
	cacheKey := itemKey(sku)

	var item models.InventoryItem
	err := r.cache.Get(ctx, cacheKey, &item)
	if err == nil {
		log.Printf("📦 Cache HIT: inventory %s", sku)
		return &item, nil
	}

	if err != redis.Nil {
		log.Printf("⚠️ Cache error: %v", err)
	}

	log.Printf("💾 Cache MISS: inventory %s - fetching from DB", sku)
	p, err := r.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}

	if p == nil {
		return nil, nil
	}

	if err := r.cache.Set(ctx, cacheKey, p); err != nil {
		log.Printf("⚠️ Failed to cache inventory item: %v", err)
	}

	return p, nil
}

// AdjustQuantity applies the delta and invalidates affected cache entries
func (r *CachedInventoryRepository) AdjustQuantity(ctx context.Context, sku string, delta int) (int, error) {
	newQuantity, err := r.repo.AdjustQuantity(ctx, sku, delta)
	if err != nil {
		return 0, err
	}

	r.InvalidateSKU(ctx, sku)

	return newQuantity, nil
}

// InvalidateSKU drops the cached entry for one SKU plus the snapshot.
func (r *CachedInventoryRepository) InvalidateSKU(ctx context.Context, sku string) {
	if err := r.cache.Delete(ctx, itemKey(sku)); err != nil {
		log.Printf("⚠️ Failed to invalidate cache for %s: %v", sku, err)
	}
	if err := r.cache.Delete(ctx, allItemsKey()); err != nil {
		log.Printf("⚠️ Failed to invalidate snapshot cache: %v", err)
	}
}
