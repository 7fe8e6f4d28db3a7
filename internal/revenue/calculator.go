package revenue

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Calculator derives a merchant's revenue figures for a single invoice. It is
// a pure read-time computation: each call re-reads whatever line-entry and
// discount state the sources expose and holds no cache across calls.
type Calculator struct {
	Entries   LineEntrySource
	Discounts DiscountSource
	Log       zerolog.Logger
}

// itemBest tracks the winning (savings, discount) pair for one item across its
// independent line entries on the invoice.
type itemBest struct {
	savings  float64
	discount Discount
}

// InvoiceRevenue sums quantity*unitPrice over the merchant's line entries on
// the invoice. Integer by construction, so no rounding applies.
func (c Calculator) InvoiceRevenue(ctx context.Context, merchantID, invoiceID uuid.UUID) (int64, error) {
	entries, err := c.Entries.MerchantInvoiceEntries(ctx, merchantID, invoiceID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, e := range entries {
		total += e.Subtotal()
	}
	return total, nil
}

// DiscountedInvoiceRevenue subtracts the best single-entry savings per item
// from the undiscounted total and rounds the result half-up to a whole
// currency unit. Rounding happens exactly once, on the final figure; rounding
// per entry would not be equivalent.
func (c Calculator) DiscountedInvoiceRevenue(ctx context.Context, merchantID, invoiceID uuid.UUID) (int64, error) {
	entries, err := c.Entries.MerchantInvoiceEntries(ctx, merchantID, invoiceID)
	if err != nil {
		return 0, err
	}
	best, _, err := c.resolve(ctx, merchantID, entries)
	if err != nil {
		return 0, err
	}
	var revenue int64
	for _, e := range entries {
		revenue += e.Subtotal()
	}
	var saved float64
	for _, b := range best {
		saved += b.savings
	}
	return RoundHalfUp(float64(revenue) - saved), nil
}

// AppliedDiscounts reports the distinct discounts that produced the winning
// savings for at least one item, ordered by the first appearance of their item
// in the invoice's entry order. Possibly empty.
func (c Calculator) AppliedDiscounts(ctx context.Context, merchantID, invoiceID uuid.UUID) ([]Discount, error) {
	entries, err := c.Entries.MerchantInvoiceEntries(ctx, merchantID, invoiceID)
	if err != nil {
		return nil, err
	}
	best, order, err := c.resolve(ctx, merchantID, entries)
	if err != nil {
		return nil, err
	}
	applied := make([]Discount, 0, len(order))
	seen := make(map[uuid.UUID]struct{}, len(order))
	for _, itemID := range order {
		d := best[itemID].discount
		if _, dup := seen[d.ID]; dup {
			continue
		}
		seen[d.ID] = struct{}{}
		applied = append(applied, d)
	}
	return applied, nil
}

// resolve runs the per-entry resolver over the entries and keeps, per item,
// the greatest single-entry savings seen so far. Savings of sibling entries
// are never summed; the best one counts. order lists item IDs that won a
// discount, in first-encounter order.
func (c Calculator) resolve(ctx context.Context, merchantID uuid.UUID, entries []LineEntry) (map[uuid.UUID]itemBest, []uuid.UUID, error) {
	catalog, err := c.Discounts.MerchantDiscounts(ctx, merchantID)
	if err != nil {
		return nil, nil, err
	}
	best := make(map[uuid.UUID]itemBest)
	var order []uuid.UUID
	for _, e := range entries {
		d, s, ok, skipped := BestDiscount(e, catalog)
		if skipped > 0 {
			c.Log.Warn().
				Str("merchant_id", merchantID.String()).
				Str("line_entry_id", e.ID.String()).
				Int("skipped", skipped).
				Msg("malformed discounts skipped during resolution")
		}
		if !ok {
			continue
		}
		cur, exists := best[e.ItemID]
		if !exists {
			order = append(order, e.ItemID)
		}
		if !exists || s > cur.savings {
			best[e.ItemID] = itemBest{savings: s, discount: d}
		}
	}
	return best, order, nil
}
