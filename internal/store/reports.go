package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ItemRevenue is one row of the merchant top-items report.
type ItemRevenue struct {
	ItemID  uuid.UUID `json:"item_id"`
	Name    string    `json:"name"`
	Revenue int64     `json:"revenue"`
}

// MerchantRevenue is one row of the top-merchants report.
type MerchantRevenue struct {
	MerchantID uuid.UUID `json:"merchant_id"`
	Name       string    `json:"name"`
	Revenue    int64     `json:"revenue"`
}

// CustomerActivity is one row of the favourite-customers report.
type CustomerActivity struct {
	CustomerID       uuid.UUID `json:"customer_id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	TransactionCount int64     `json:"transaction_count"`
}

// BestDay is the single best revenue day of a merchant.
type BestDay struct {
	Day     time.Time `json:"day"`
	Revenue int64     `json:"revenue"`
}

// TopItems ranks a merchant's items by revenue across invoices with at least
// one successful transaction.
func (s *Store) TopItems(ctx context.Context, merchantID uuid.UUID, limit int32) ([]ItemRevenue, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT i.id, i.name, sum(li.quantity * li.unit_price) AS revenue
		FROM items i
		JOIN line_items li ON li.item_id = i.id
		JOIN invoices inv ON inv.id = li.invoice_id
		WHERE i.merchant_id = $1
		  AND EXISTS (
			SELECT 1 FROM transactions t
			WHERE t.invoice_id = inv.id AND t.result = 'success'
		  )
		GROUP BY i.id, i.name
		ORDER BY revenue DESC
		LIMIT $2`,
		merchantID, limit)
	if err != nil {
		return nil, fmt.Errorf("top items: %w", err)
	}
	defer rows.Close()

	var out []ItemRevenue
	for rows.Next() {
		var row ItemRevenue
		if err := rows.Scan(&row.ItemID, &row.Name, &row.Revenue); err != nil {
			return nil, fmt.Errorf("scan top item: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// TopMerchants ranks merchants by revenue across invoices with at least one
// successful transaction.
func (s *Store) TopMerchants(ctx context.Context, limit int32) ([]MerchantRevenue, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT m.id, m.name, sum(li.quantity * li.unit_price) AS revenue
		FROM merchants m
		JOIN items i ON i.merchant_id = m.id
		JOIN line_items li ON li.item_id = i.id
		JOIN invoices inv ON inv.id = li.invoice_id
		WHERE EXISTS (
			SELECT 1 FROM transactions t
			WHERE t.invoice_id = inv.id AND t.result = 'success'
		)
		GROUP BY m.id, m.name
		ORDER BY revenue DESC
		LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("top merchants: %w", err)
	}
	defer rows.Close()

	var out []MerchantRevenue
	for rows.Next() {
		var row MerchantRevenue
		if err := rows.Scan(&row.MerchantID, &row.Name, &row.Revenue); err != nil {
			return nil, fmt.Errorf("scan top merchant: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// FavoriteCustomers ranks a merchant's customers by successful transaction
// count.
func (s *Store) FavoriteCustomers(ctx context.Context, merchantID uuid.UUID, limit int32) ([]CustomerActivity, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT c.id, c.first_name, c.last_name, count(t.id) AS transaction_count
		FROM customers c
		JOIN invoices inv ON inv.customer_id = c.id
		JOIN transactions t ON t.invoice_id = inv.id AND t.result = 'success'
		WHERE EXISTS (
			SELECT 1 FROM line_items li
			JOIN items i ON i.id = li.item_id
			WHERE li.invoice_id = inv.id AND i.merchant_id = $1
		)
		GROUP BY c.id, c.first_name, c.last_name
		ORDER BY transaction_count DESC
		LIMIT $2`,
		merchantID, limit)
	if err != nil {
		return nil, fmt.Errorf("favorite customers: %w", err)
	}
	defer rows.Close()

	var out []CustomerActivity
	for rows.Next() {
		var row CustomerActivity
		if err := rows.Scan(&row.CustomerID, &row.FirstName, &row.LastName, &row.TransactionCount); err != nil {
			return nil, fmt.Errorf("scan favorite customer: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// BestDay returns the invoice-creation day with the merchant's highest
// revenue, newest day winning ties. found is false when the merchant has no
// qualifying sales.
func (s *Store) BestDay(ctx context.Context, merchantID uuid.UUID) (BestDay, bool, error) {
	var day BestDay
	err := s.Pool.QueryRow(ctx, `
		SELECT date_trunc('day', inv.created_at) AS day,
		       sum(li.quantity * li.unit_price) AS revenue
		FROM invoices inv
		JOIN line_items li ON li.invoice_id = inv.id
		JOIN items i ON i.id = li.item_id
		WHERE i.merchant_id = $1
		  AND EXISTS (
			SELECT 1 FROM transactions t
			WHERE t.invoice_id = inv.id AND t.result = 'success'
		  )
		GROUP BY day
		ORDER BY revenue DESC, day DESC
		LIMIT 1`,
		merchantID).Scan(&day.Day, &day.Revenue)
	if errors.Is(err, pgx.ErrNoRows) {
		return BestDay{}, false, nil
	}
	if err != nil {
		return BestDay{}, false, fmt.Errorf("best day: %w", err)
	}
	return day, true, nil
}
