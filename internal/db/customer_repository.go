package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/minimart-io/minimart/internal/models"
)

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(database *PostgresDB) *CustomerRepository {
	return &CustomerRepository{db: database.Conn}
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int) (*models.Customer, error) {
	return r.getOne(ctx, "SELECT id, name, nickname, email FROM customers WHERE id = $1", id)
}

func (r *CustomerRepository) GetByNickname(ctx context.Context, nickname string) (*models.Customer, error) {
	return r.getOne(ctx, "SELECT id, name, nickname, email FROM customers WHERE nickname = $1", nickname)
}

func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	return r.getOne(ctx, "SELECT id, name, nickname, email FROM customers WHERE email = $1", email)
}

func (r *CustomerRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.Customer, error) {
	var c models.Customer
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&c.ID, &c.Name, &c.Nickname, &c.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &c, nil
}

// Create inserts a new customer
func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	query := `
		INSERT INTO customers (name, nickname, email)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query, c.Name, c.Nickname, c.Email).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}
