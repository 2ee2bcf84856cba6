package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/minimart-io/minimart/internal/models"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(database *PostgresDB) *OrderRepository {
	return &OrderRepository{db: database.Conn}
}

// Create inserts a new order with its line items in one transaction
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	orderQuery := `
		INSERT INTO orders (order_number, status, customer_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err = tx.QueryRowContext(ctx, orderQuery, order.OrderNumber, order.Status, order.CustomerID).
		Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, sku, quantity, price_at_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		err = tx.QueryRowContext(ctx, itemQuery,
			order.ID,
			order.Items[i].SKU,
			order.Items[i].Quantity,
			order.Items[i].PriceAtOrder,
		).Scan(&order.Items[i].ID)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Delete removes an order and, via cascade, its line items. Used as the
// compensating action when a downstream inventory decrement fails.
func (r *OrderRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// ListWithItems returns all orders newest-first, each with its customer
// and line items, assembled from a single join query.
func (r *OrderRepository) ListWithItems(ctx context.Context) ([]models.Order, error) {
	query := `
		SELECT o.id, o.order_number, o.status, o.created_at,
		       c.id, c.name, c.nickname, c.email,
		       i.id, i.sku, i.quantity, i.price_at_order
		FROM orders o
		LEFT JOIN customers c ON c.id = o.customer_id
		LEFT JOIN order_items i ON i.order_id = o.id
		ORDER BY o.created_at DESC, o.id DESC, i.id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	index := make(map[int]int)

	for rows.Next() {
		var o models.Order
		var custID sql.NullInt64
		var custName, custNickname, custEmail sql.NullString
		var itemID, itemQty sql.NullInt64
		var itemSKU sql.NullString
		var itemPrice sql.NullFloat64

		err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.Status, &o.CreatedAt,
			&custID, &custName, &custNickname, &custEmail,
			&itemID, &itemSKU, &itemQty, &itemPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}

		pos, seen := index[o.ID]
		if !seen {
			if custID.Valid {
				o.CustomerID = int(custID.Int64)
				o.Customer = &models.Customer{
					ID:       int(custID.Int64),
					Name:     custName.String,
					Nickname: custNickname.String,
					Email:    custEmail.String,
				}
			}
			orders = append(orders, o)
			pos = len(orders) - 1
			index[o.ID] = pos
		}

		if itemID.Valid {
			orders[pos].Items = append(orders[pos].Items, models.OrderLine{
				ID:           int(itemID.Int64),
				OrderID:      o.ID,
				SKU:          itemSKU.String,
				Quantity:     int(itemQty.Int64),
				PriceAtOrder: itemPrice.Float64,
			})
		}
	}

	return orders, rows.Err()
}

// GetByID returns a single order with its items, nil if not found
func (r *OrderRepository) GetByID(ctx context.Context, id int) (*models.Order, error) {
	orderQuery := `SELECT id, order_number, status, customer_id, created_at FROM orders WHERE id = $1`

	var order models.Order
	var custID sql.NullInt64
	err := r.db.QueryRowContext(ctx, orderQuery, id).
		Scan(&order.ID, &order.OrderNumber, &order.Status, &custID, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	order.CustomerID = int(custID.Int64)

	itemsQuery := `SELECT id, order_id, sku, quantity, price_at_order FROM order_items WHERE order_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderLine
		err := rows.Scan(&item.ID, &item.OrderID, &item.SKU, &item.Quantity, &item.PriceAtOrder)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	return &order, rows.Err()
}

// UpdateStatus updates order status
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	result, err := r.db.ExecContext(ctx, "UPDATE orders SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}
