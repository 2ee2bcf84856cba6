package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/minimart-io/minimart/internal/models"
)

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type InventoryRepository struct {
	db *sql.DB
}

func NewInventoryRepository(database *PostgresDB) *InventoryRepository {
	return &InventoryRepository{db: database.Conn}
}

// GetAll returns the full inventory snapshot
func (r *InventoryRepository) GetAll(ctx context.Context) ([]models.InventoryItem, error) {
	query := "SELECT id, name, sku, quantity, price, emoji FROM inventory ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	var items []models.InventoryItem
	for rows.Next() {
		var item models.InventoryItem
		err := rows.Scan(&item.ID, &item.Name, &item.SKU, &item.Quantity, &item.Price, &item.Emoji)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// GetBySKU returns a single item, nil if the SKU is unknown
func (r *InventoryRepository) GetBySKU(ctx context.Context, sku string) (*models.InventoryItem, error) {
	query := "SELECT id, name, sku, quantity, price, emoji FROM inventory WHERE sku = $1"

	var item models.InventoryItem
	err := r.db.QueryRowContext(ctx, query, sku).
		Scan(&item.ID, &item.Name, &item.SKU, &item.Quantity, &item.Price, &item.Emoji)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}

	return &item, nil
}

// AdjustQuantity applies quantity += delta as a single conditional update.
// Same-SKU adjustments serialize on the row; different SKUs never block
// each other. Returns the new quantity, ErrItemNotFound for an unknown
// SKU, or ErrInsufficientStock if the result would go negative (the
// stored quantity is left unchanged in both error cases).
func (r *InventoryRepository) AdjustQuantity(ctx context.Context, sku string, delta int) (int, error) {
	query := `
		UPDATE inventory
		SET quantity = quantity + $1
		WHERE sku = $2 AND quantity + $1 >= 0
		RETURNING quantity
	`

	var newQuantity int
	err := r.db.QueryRowContext(ctx, query, delta, sku).Scan(&newQuantity)
	if err == nil {
		return newQuantity, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to adjust quantity: %w", err)
	}

	// Rejected update: distinguish unknown SKU from a would-be-negative result.
	var exists bool
	if err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM inventory WHERE sku = $1)", sku).Scan(&exists); err != nil {
		return 0, fmt.Errorf("failed to check sku: %w", err)
	}
	if !exists {
		return 0, ErrItemNotFound
	}
	return 0, ErrInsufficientStock
}

// Create inserts a new inventory item
func (r *InventoryRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	query := `
		INSERT INTO inventory (name, sku, quantity, price, emoji)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query, item.Name, item.SKU, item.Quantity, item.Price, item.Emoji).
		Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}

	return nil
}
