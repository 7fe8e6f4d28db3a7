package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/noah-isme/backend-lapak/internal/common"
)

const itemColumns = "id, merchant_id, name, description, unit_price, status, created_at"

// ListMerchantItems returns a merchant's items ordered by name.
func (s *Store) ListMerchantItems(ctx context.Context, merchantID uuid.UUID) ([]Item, error) {
	if _, err := s.GetMerchant(ctx, merchantID); err != nil {
		return nil, err
	}
	rows, err := s.Pool.Query(ctx,
		"SELECT "+itemColumns+" FROM items WHERE merchant_id = $1 ORDER BY name", merchantID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.MerchantID, &it.Name, &it.Description, &it.UnitPrice, &it.Status, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// GetItem fetches one item by id.
func (s *Store) GetItem(ctx context.Context, id uuid.UUID) (Item, error) {
	var it Item
	err := s.Pool.QueryRow(ctx,
		"SELECT "+itemColumns+" FROM items WHERE id = $1", id,
	).Scan(&it.ID, &it.MerchantID, &it.Name, &it.Description, &it.UnitPrice, &it.Status, &it.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, common.NotFound("item not found", err)
	}
	if err != nil {
		return Item{}, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// CreateItem inserts an item under a merchant.
func (s *Store) CreateItem(ctx context.Context, merchantID uuid.UUID, name, description string, unitPrice int64) (Item, error) {
	if _, err := s.GetMerchant(ctx, merchantID); err != nil {
		return Item{}, err
	}
	var it Item
	err := s.Pool.QueryRow(ctx,
		"INSERT INTO items (merchant_id, name, description, unit_price) VALUES ($1, $2, $3, $4) RETURNING "+itemColumns,
		merchantID, name, description, unitPrice,
	).Scan(&it.ID, &it.MerchantID, &it.Name, &it.Description, &it.UnitPrice, &it.Status, &it.CreatedAt)
	if err != nil {
		return Item{}, fmt.Errorf("create item: %w", err)
	}
	return it, nil
}

// UpdateItem rewrites an item's editable fields.
func (s *Store) UpdateItem(ctx context.Context, id uuid.UUID, name, description string, unitPrice int64) (Item, error) {
	var it Item
	err := s.Pool.QueryRow(ctx,
		"UPDATE items SET name = $2, description = $3, unit_price = $4 WHERE id = $1 RETURNING "+itemColumns,
		id, name, description, unitPrice,
	).Scan(&it.ID, &it.MerchantID, &it.Name, &it.Description, &it.UnitPrice, &it.Status, &it.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, common.NotFound("item not found", err)
	}
	if err != nil {
		return Item{}, fmt.Errorf("update item: %w", err)
	}
	return it, nil
}

// SetItemStatus toggles an item between enabled and disabled.
func (s *Store) SetItemStatus(ctx context.Context, id uuid.UUID, status string) (Item, error) {
	var it Item
	err := s.Pool.QueryRow(ctx,
		"UPDATE items SET status = $2 WHERE id = $1 RETURNING "+itemColumns,
		id, status,
	).Scan(&it.ID, &it.MerchantID, &it.Name, &it.Description, &it.UnitPrice, &it.Status, &it.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, common.NotFound("item not found", err)
	}
	if err != nil {
		return Item{}, fmt.Errorf("set item status: %w", err)
	}
	return it, nil
}
