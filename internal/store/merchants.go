package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/noah-isme/backend-lapak/internal/common"
)

const merchantColumns = "id, name, status, created_at, updated_at"

// ListMerchants returns merchants, optionally filtered to a single status,
// ordered by name.
func (s *Store) ListMerchants(ctx context.Context, status string) ([]Merchant, error) {
	query := "SELECT " + merchantColumns + " FROM merchants"
	args := []any{}
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += " ORDER BY name"

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list merchants: %w", err)
	}
	defer rows.Close()

	var out []Merchant
	for rows.Next() {
		var m Merchant
		if err := rows.Scan(&m.ID, &m.Name, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan merchant: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetMerchant fetches one merchant by id.
func (s *Store) GetMerchant(ctx context.Context, id uuid.UUID) (Merchant, error) {
	var m Merchant
	err := s.Pool.QueryRow(ctx,
		"SELECT "+merchantColumns+" FROM merchants WHERE id = $1", id,
	).Scan(&m.ID, &m.Name, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Merchant{}, common.NotFound("merchant not found", err)
	}
	if err != nil {
		return Merchant{}, fmt.Errorf("get merchant: %w", err)
	}
	return m, nil
}

// CreateMerchant inserts a merchant and returns the stored row.
func (s *Store) CreateMerchant(ctx context.Context, name string) (Merchant, error) {
	var m Merchant
	err := s.Pool.QueryRow(ctx,
		"INSERT INTO merchants (name) VALUES ($1) RETURNING "+merchantColumns, name,
	).Scan(&m.ID, &m.Name, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return Merchant{}, fmt.Errorf("create merchant: %w", err)
	}
	return m, nil
}

// UpdateMerchant renames a merchant.
func (s *Store) UpdateMerchant(ctx context.Context, id uuid.UUID, name string) (Merchant, error) {
	var m Merchant
	err := s.Pool.QueryRow(ctx,
		"UPDATE merchants SET name = $2, updated_at = now() WHERE id = $1 RETURNING "+merchantColumns,
		id, name,
	).Scan(&m.ID, &m.Name, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Merchant{}, common.NotFound("merchant not found", err)
	}
	if err != nil {
		return Merchant{}, fmt.Errorf("update merchant: %w", err)
	}
	return m, nil
}

// SetMerchantStatus toggles a merchant between enabled and disabled.
func (s *Store) SetMerchantStatus(ctx context.Context, id uuid.UUID, status string) (Merchant, error) {
	var m Merchant
	err := s.Pool.QueryRow(ctx,
		"UPDATE merchants SET status = $2, updated_at = now() WHERE id = $1 RETURNING "+merchantColumns,
		id, status,
	).Scan(&m.ID, &m.Name, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Merchant{}, common.NotFound("merchant not found", err)
	}
	if err != nil {
		return Merchant{}, fmt.Errorf("set merchant status: %w", err)
	}
	return m, nil
}

// DeleteMerchant removes a merchant; its discounts cascade with it.
func (s *Store) DeleteMerchant(ctx context.Context, id uuid.UUID) error {
	tag, err := s.Pool.Exec(ctx, "DELETE FROM merchants WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete merchant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("merchant not found", nil)
	}
	return nil
}
