package revenue

import (
	"context"
	"math"

	"github.com/google/uuid"
)

// LineEntry is one purchased-item row on an invoice: the quantity and the unit
// price actually charged for that row. The same item may appear on several
// rows of one invoice; each row is evaluated on its own.
type LineEntry struct {
	ID        uuid.UUID
	ItemID    uuid.UUID
	Quantity  int64
	UnitPrice int64
}

// Subtotal returns the undiscounted amount of the entry.
func (e LineEntry) Subtotal() int64 {
	return e.Quantity * e.UnitPrice
}

// Discount is a quantity-threshold percentage discount owned by a merchant.
type Discount struct {
	ID         uuid.UUID
	MerchantID uuid.UUID
	Name       string
	Percent    float64
	Threshold  int64
}

// Valid reports whether the discount carries usable percent and threshold
// values. Records failing this check should have been rejected upstream; the
// resolver treats them as ineligible rather than failing the whole call.
func (d Discount) Valid() bool {
	if d.Threshold <= 0 {
		return false
	}
	if math.IsNaN(d.Percent) || d.Percent < 0 || d.Percent > 100 {
		return false
	}
	return true
}

// LineEntrySource yields the line entries of one invoice that belong to one
// merchant, in the invoice's natural entry order.
type LineEntrySource interface {
	MerchantInvoiceEntries(ctx context.Context, merchantID, invoiceID uuid.UUID) ([]LineEntry, error)
}

// DiscountSource yields a merchant's discount catalog. No ordering is assumed;
// every candidate is considered.
type DiscountSource interface {
	MerchantDiscounts(ctx context.Context, merchantID uuid.UUID) ([]Discount, error)
}

// Savings returns the monetary reduction the discount would produce on the
// entry, in real-valued arithmetic. Only the integral part of the percent
// participates; fractional percents are stored but do not change the math.
func Savings(entry LineEntry, d Discount) float64 {
	return float64(entry.Quantity) * float64(entry.UnitPrice) * math.Trunc(d.Percent) / 100
}

// BestDiscount picks the single most valuable discount eligible for the entry.
// Eligibility compares the entry's own quantity against the threshold; sibling
// entries of the same item are never summed first. Malformed discounts are
// skipped and counted so the caller can log them. The boolean is false when no
// discount applies.
func BestDiscount(entry LineEntry, catalog []Discount) (best Discount, bestSavings float64, ok bool, skipped int) {
	for _, d := range catalog {
		if !d.Valid() {
			skipped++
			continue
		}
		if entry.Quantity < d.Threshold {
			continue
		}
		s := Savings(entry, d)
		// Strict comparison keeps the first-seen discount on an exact tie.
		if !ok || s > bestSavings {
			best = d
			bestSavings = s
			ok = true
		}
	}
	return best, bestSavings, ok, skipped
}
