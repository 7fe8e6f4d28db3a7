package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/noah-isme/backend-lapak/internal/common"
)

const customerColumns = "id, first_name, last_name, created_at"

// ListCustomers returns a page of customers ordered by last then first name.
func (s *Store) ListCustomers(ctx context.Context, limit, offset int) ([]Customer, error) {
	rows, err := s.Pool.Query(ctx,
		"SELECT "+customerColumns+" FROM customers ORDER BY last_name, first_name LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CountCustomers returns the total number of customers.
func (s *Store) CountCustomers(ctx context.Context) (int, error) {
	var n int
	if err := s.Pool.QueryRow(ctx, "SELECT count(*) FROM customers").Scan(&n); err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}

// GetCustomer fetches one customer by id.
func (s *Store) GetCustomer(ctx context.Context, id uuid.UUID) (Customer, error) {
	var c Customer
	err := s.Pool.QueryRow(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE id = $1", id,
	).Scan(&c.ID, &c.FirstName, &c.LastName, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, common.NotFound("customer not found", err)
	}
	if err != nil {
		return Customer{}, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// CreateCustomer inserts a customer.
func (s *Store) CreateCustomer(ctx context.Context, firstName, lastName string) (Customer, error) {
	var c Customer
	err := s.Pool.QueryRow(ctx,
		"INSERT INTO customers (first_name, last_name) VALUES ($1, $2) RETURNING "+customerColumns,
		firstName, lastName,
	).Scan(&c.ID, &c.FirstName, &c.LastName, &c.CreatedAt)
	if err != nil {
		return Customer{}, fmt.Errorf("create customer: %w", err)
	}
	return c, nil
}
