package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/minimart-io/minimart/internal/models"
)

var (
	// ErrInventoryUnavailable means the inventory service could not be reached.
	ErrInventoryUnavailable = errors.New("inventory service unreachable")

	// Stock validation error kinds. Wrapped with SKU context; match with
	// errors.Is. The sentinel text is part of the user-visible detail string.
	ErrSKUNotFound       = errors.New("not found in inventory")
	ErrInsufficientStock = errors.New("Insufficient stock")
	ErrInvalidItem       = errors.New("Invalid item entry")
)

type InventoryClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewInventoryClient(baseURL string) *InventoryClient {
	return &InventoryClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type inventoryResponse struct {
	Inventory []models.InventoryItem `json:"inventory"`
}

// FetchInventory fetches the full inventory snapshot from the inventory service
func (c *InventoryClient) FetchInventory(ctx context.Context) ([]models.InventoryItem, error) {
	url := fmt.Sprintf("%s/inventory", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInventoryUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: inventory service returned status %d", ErrInventoryUnavailable, resp.StatusCode)
	}

	var body inventoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode inventory response: %w", err)
	}

	return body.Inventory, nil
}

// ValidateStock fetches one inventory snapshot and verifies every requested
// line against it: the SKU must exist, the quantity must be positive, and the
// requested quantity must not exceed the available quantity. Fails fast on the
// first violation. The snapshot can be stale by the time stock is decremented;
// the adjustment endpoint is the final authority.
func (c *InventoryClient) ValidateStock(ctx context.Context, items []models.CreateOrderItemRequest) (map[string]models.InventoryItem, error) {
	inventory, err := c.FetchInventory(ctx)
	if err != nil {
		return nil, err
	}

	lookup := make(map[string]models.InventoryItem, len(inventory))
	for _, item := range inventory {
		lookup[item.SKU] = item
	}

	for _, item := range items {
		if item.SKU == "" || item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: sku=%q quantity=%d", ErrInvalidItem, item.SKU, item.Quantity)
		}
		inv, ok := lookup[item.SKU]
		if !ok {
			return nil, fmt.Errorf("SKU %s %w", item.SKU, ErrSKUNotFound)
		}
		if inv.Quantity < item.Quantity {
			return nil, fmt.Errorf("%w for %s", ErrInsufficientStock, item.SKU)
		}
	}

	return lookup, nil
}

// AdjustQuantity applies a signed delta to one SKU via the inventory
// service's adjustment endpoint and returns the new quantity.
func (c *InventoryClient) AdjustQuantity(ctx context.Context, sku string, delta int) (*models.AdjustQuantityResponse, error) {
	url := fmt.Sprintf("%s/inventory/%s?quantity_delta=%d", c.baseURL, sku, delta)

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInventoryUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("inventory update failed for %s: status %d: %s", sku, resp.StatusCode, detail)
	}

	var result models.AdjustQuantityResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode adjustment response: %w", err)
	}

	return &result, nil
}
