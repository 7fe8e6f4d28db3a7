package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/noah-isme/backend-lapak/internal/common"
)

const discountColumns = "id, merchant_id, name, percent, threshold, created_at"

// ListMerchantDiscounts returns a merchant's discount catalog. Order carries
// no meaning for resolution; creation order is used for display.
func (s *Store) ListMerchantDiscounts(ctx context.Context, merchantID uuid.UUID) ([]Discount, error) {
	if _, err := s.GetMerchant(ctx, merchantID); err != nil {
		return nil, err
	}
	rows, err := s.Pool.Query(ctx,
		"SELECT "+discountColumns+" FROM discounts WHERE merchant_id = $1 ORDER BY created_at",
		merchantID)
	if err != nil {
		return nil, fmt.Errorf("list discounts: %w", err)
	}
	defer rows.Close()

	var out []Discount
	for rows.Next() {
		var d Discount
		if err := rows.Scan(&d.ID, &d.MerchantID, &d.Name, &d.Percent, &d.Threshold, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan discount: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetDiscount fetches one discount by id.
func (s *Store) GetDiscount(ctx context.Context, id uuid.UUID) (Discount, error) {
	var d Discount
	err := s.Pool.QueryRow(ctx,
		"SELECT "+discountColumns+" FROM discounts WHERE id = $1", id,
	).Scan(&d.ID, &d.MerchantID, &d.Name, &d.Percent, &d.Threshold, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Discount{}, common.NotFound("discount not found", err)
	}
	if err != nil {
		return Discount{}, fmt.Errorf("get discount: %w", err)
	}
	return d, nil
}

// CreateDiscount inserts a discount under a merchant.
func (s *Store) CreateDiscount(ctx context.Context, merchantID uuid.UUID, name string, percent float64, threshold int64) (Discount, error) {
	if _, err := s.GetMerchant(ctx, merchantID); err != nil {
		return Discount{}, err
	}
	var d Discount
	err := s.Pool.QueryRow(ctx,
		"INSERT INTO discounts (merchant_id, name, percent, threshold) VALUES ($1, $2, $3, $4) RETURNING "+discountColumns,
		merchantID, name, percent, threshold,
	).Scan(&d.ID, &d.MerchantID, &d.Name, &d.Percent, &d.Threshold, &d.CreatedAt)
	if err != nil {
		return Discount{}, fmt.Errorf("create discount: %w", err)
	}
	return d, nil
}

// UpdateDiscount rewrites a discount's rule fields.
func (s *Store) UpdateDiscount(ctx context.Context, id uuid.UUID, name string, percent float64, threshold int64) (Discount, error) {
	var d Discount
	err := s.Pool.QueryRow(ctx,
		"UPDATE discounts SET name = $2, percent = $3, threshold = $4 WHERE id = $1 RETURNING "+discountColumns,
		id, name, percent, threshold,
	).Scan(&d.ID, &d.MerchantID, &d.Name, &d.Percent, &d.Threshold, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Discount{}, common.NotFound("discount not found", err)
	}
	if err != nil {
		return Discount{}, fmt.Errorf("update discount: %w", err)
	}
	return d, nil
}

// DeleteDiscount removes one discount.
func (s *Store) DeleteDiscount(ctx context.Context, id uuid.UUID) error {
	tag, err := s.Pool.Exec(ctx, "DELETE FROM discounts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete discount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("discount not found", nil)
	}
	return nil
}
