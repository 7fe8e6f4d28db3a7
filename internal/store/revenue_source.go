package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-lapak/internal/revenue"
)

// RevenueSource adapts the store to the revenue engine's read interfaces.
// Each call reads current state; no snapshot is held across fields or calls.
type RevenueSource struct {
	DB *Store
}

// MerchantInvoiceEntries returns the invoice's line items whose item belongs
// to the merchant, in entry order. Unknown merchant or invoice ids surface as
// NotFound.
func (r RevenueSource) MerchantInvoiceEntries(ctx context.Context, merchantID, invoiceID uuid.UUID) ([]revenue.LineEntry, error) {
	if _, err := r.DB.GetMerchant(ctx, merchantID); err != nil {
		return nil, err
	}
	if _, err := r.DB.GetInvoice(ctx, invoiceID); err != nil {
		return nil, err
	}
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT li.id, li.item_id, li.quantity, li.unit_price
		FROM line_items li
		JOIN items i ON i.id = li.item_id
		WHERE li.invoice_id = $1 AND i.merchant_id = $2
		ORDER BY li.created_at, li.id`,
		invoiceID, merchantID)
	if err != nil {
		return nil, fmt.Errorf("merchant invoice entries: %w", err)
	}
	defer rows.Close()

	var out []revenue.LineEntry
	for rows.Next() {
		var e revenue.LineEntry
		if err := rows.Scan(&e.ID, &e.ItemID, &e.Quantity, &e.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan line entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// MerchantDiscounts returns the merchant's catalog as engine discounts.
func (r RevenueSource) MerchantDiscounts(ctx context.Context, merchantID uuid.UUID) ([]revenue.Discount, error) {
	records, err := r.DB.ListMerchantDiscounts(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	out := make([]revenue.Discount, 0, len(records))
	for _, d := range records {
		out = append(out, revenue.Discount{
			ID:         d.ID,
			MerchantID: d.MerchantID,
			Name:       d.Name,
			Percent:    d.Percent,
			Threshold:  d.Threshold,
		})
	}
	return out, nil
}
