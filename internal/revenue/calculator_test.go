package revenue_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-lapak/internal/revenue"
)

// stubSources serves canned per-merchant entries and discounts keyed by
// (merchant, invoice) and merchant respectively.
type stubSources struct {
	entries   map[uuid.UUID]map[uuid.UUID][]revenue.LineEntry
	discounts map[uuid.UUID][]revenue.Discount
	err       error
	calls     int
}

func (s *stubSources) MerchantInvoiceEntries(_ context.Context, merchantID, invoiceID uuid.UUID) ([]revenue.LineEntry, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.entries[merchantID][invoiceID], nil
}

func (s *stubSources) MerchantDiscounts(_ context.Context, merchantID uuid.UUID) ([]revenue.Discount, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.discounts[merchantID], nil
}

func newCalculator(s *stubSources) revenue.Calculator {
	return revenue.Calculator{Entries: s, Discounts: s, Log: zerolog.Nop()}
}

func seed(merchantID, invoiceID uuid.UUID, entries []revenue.LineEntry, discounts []revenue.Discount) *stubSources {
	return &stubSources{
		entries:   map[uuid.UUID]map[uuid.UUID][]revenue.LineEntry{merchantID: {invoiceID: entries}},
		discounts: map[uuid.UUID][]revenue.Discount{merchantID: discounts},
	}
}

func TestDiscountedRevenueBelowThresholdFullPrice(t *testing.T) {
	merchantID, invoiceID, itemID := uuid.New(), uuid.New(), uuid.New()
	src := seed(merchantID, invoiceID,
		[]revenue.LineEntry{{ID: uuid.New(), ItemID: itemID, Quantity: 2, UnitPrice: 120}},
		[]revenue.Discount{{ID: uuid.New(), MerchantID: merchantID, Name: "bulk", Percent: 10, Threshold: 5}},
	)
	calc := newCalculator(src)

	total, err := calc.DiscountedInvoiceRevenue(context.Background(), merchantID, invoiceID)
	require.NoError(t, err)
	require.EqualValues(t, 240, total)

	applied, err := calc.AppliedDiscounts(context.Background(), merchantID, invoiceID)
	require.NoError(t, err)
	require.Empty(t, applied)
}

func TestDiscountedRevenueMeetsThreshold(t *testing.T) {
	merchantID, invoiceID, itemID := uuid.New(), uuid.New(), uuid.New()
	bulk := revenue.Discount{ID: uuid.New(), MerchantID: merchantID, Name: "bulk", Percent: 10, Threshold: 5}
	src := seed(merchantID, invoiceID,
		[]revenue.LineEntry{{ID: uuid.New(), ItemID: itemID, Quantity: 5, UnitPrice: 120}},
		[]revenue.Discount{bulk},
	)
	calc := newCalculator(src)

	total, err := calc.DiscountedInvoiceRevenue(context.Background(), merchantID, invoiceID)
	require.NoError(t, err)
	require.EqualValues(t, 540, total)

	applied, err := calc.AppliedDiscounts(context.Background(), merchantID, invoiceID)
	require.NoError(t, err)
	require.Len(t, applied, 1)
	require.Equal(t, bulk.ID, applied[0].ID)
}

func TestDiscountedRevenueRoundsHalfUpOnce(t *testing.T) {
	// 12% off 8 * 70 = 492.8, rounded half-up once at the end.
	merchantID, invoiceID, itemID := uuid.New(), uuid.New(), uuid.New()
	src := seed(merchantID, invoiceID,
		[]revenue.LineEntry{{ID: uuid.New(), ItemID: itemID, Quantity: 8, UnitPrice: 70}},
		[]revenue.Discount{{ID: uuid.New(), MerchantID: merchantID, Name: "dozen", Percent: 12, Threshold: 7}},
	)
	calc := newCalculator(src)

	total, err := calc.DiscountedInvoiceRevenue(context.Background(), merchantID, invoiceID)
	require.NoError(t, err)
	require.EqualValues(t, 493, total)
}

func TestMerchantsComputedIndependently(t *testing.T) {
	invoiceID := uuid.New()
	merchantA, itemA := uuid.New(), uuid.New()
	merchantB, itemB := uuid.New(), uuid.New()
	src := &stubSources{
		entries: map[uuid.UUID]map[uuid.UUID][]revenue.LineEntry{
			merchantA: {invoiceID: {{ID: uuid.New(), ItemID: itemA, Quantity: 5, UnitPrice: 120}}},
			merchantB: {invoiceID: {{ID: uuid.New(), ItemID: itemB, Quantity: 8, UnitPrice: 70}}},
		},
		discounts: map[uuid.UUID][]revenue.Discount{
			merchantA: {{ID: uuid.New(), MerchantID: merchantA, Name: "ten", Percent: 10, Threshold: 5}},
			merchantB: {{ID: uuid.New(), MerchantID: merchantB, Name: "twelve", Percent: 12, Threshold: 7}},
		},
	}
	calc := newCalculator(src)

	totalA, err := calc.DiscountedInvoiceRevenue(context.Background(), merchantA, invoiceID)
	require.NoError(t, err)
	require.EqualValues(t, 540, totalA)

	totalB, err := calc.DiscountedInvoiceRevenue(context.Background(), merchantB, invoiceID)
	require.NoError(t, err)
	require.EqualValues(t, 493, totalB)
}

func TestSplitEntriesCountBestSavingsNotSum(t *testing.T) {
	// The same item on two rows: each row resolves on its own quantity and
	// only the greater single-row savings is subtracted.
	merchantID, invoiceID, itemID := uuid.New(), uuid.New(), uuid.New()
	src := seed(merchantID, invoiceID,
		[]revenue.LineEntry{
			{ID: uuid.New(), ItemID: itemID, Quantity: 5, UnitPrice: 100},
			{ID: uuid.New(), ItemID: itemID, Quantity: 8, UnitPrice: 100},
		},
		[]revenue.Discount{{ID: uuid.New(), MerchantID: merchantID, Name: "bulk", Percent: 10, Threshold: 5}},
	)
	calc := newCalculator(src)

	// Revenue 1300, best single-row savings 80 (not 50+80).
	total, err := calc.DiscountedInvoiceRevenue(context.Background(), merchantID, invoiceID)
	require.NoError(t, err)
	require.EqualValues(t, 1220, total)
}

func TestAppliedDiscountsDistinctInEntryOrder(t *testing.T) {
	merchantID, invoiceID := uuid.New(), uuid.New()
	itemA, itemB, itemC := uuid.New(), uuid.New(), uuid.New()
	bulk := revenue.Discount{ID: uuid.New(), MerchantID: merchantID, Name: "bulk", Percent: 10, Threshold: 5}
	crate := revenue.Discount{ID: uuid.New(), MerchantID: merchantID, Name: "crate", Percent: 20, Threshold: 20}
	src := seed(merchantID, invoiceID,
		[]revenue.LineEntry{
			{ID: uuid.New(), ItemID: itemA, Quantity: 6, UnitPrice: 50},
			{ID: uuid.New(), ItemID: itemB, Quantity: 25, UnitPrice: 10},
			{ID: uuid.New(), ItemID: itemC, Quantity: 7, UnitPrice: 30},
		},
		[]revenue.Discount{bulk, crate},
	)
	calc := newCalculator(src)

	applied, err := calc.AppliedDiscounts(context.Background(), merchantID, invoiceID)
	require.NoError(t, err)
	require.Len(t, applied, 2)
	require.Equal(t, bulk.ID, applied[0].ID)
	require.Equal(t, crate.ID, applied[1].ID)
}

func TestEmptyCatalogMatchesUndiscountedRevenue(t *testing.T) {
	merchantID, invoiceID := uuid.New(), uuid.New()
	src := seed(merchantID, invoiceID,
		[]revenue.LineEntry{
			{ID: uuid.New(), ItemID: uuid.New(), Quantity: 9, UnitPrice: 33},
			{ID: uuid.New(), ItemID: uuid.New(), Quantity: 2, UnitPrice: 410},
		},
		nil,
	)
	calc := newCalculator(src)

	plain, err := calc.InvoiceRevenue(context.Background(), merchantID, invoiceID)
	require.NoError(t, err)
	discounted, err := calc.DiscountedInvoiceRevenue(context.Background(), merchantID, invoiceID)
	require.NoError(t, err)
	require.Equal(t, plain, discounted)
}

func TestRepeatedCallsDeterministic(t *testing.T) {
	merchantID, invoiceID, itemID := uuid.New(), uuid.New(), uuid.New()
	src := seed(merchantID, invoiceID,
		[]revenue.LineEntry{{ID: uuid.New(), ItemID: itemID, Quantity: 19, UnitPrice: 120}},
		[]revenue.Discount{
			{ID: uuid.New(), MerchantID: merchantID, Name: "ten", Percent: 10, Threshold: 5},
			{ID: uuid.New(), MerchantID: merchantID, Name: "fifteen", Percent: 15, Threshold: 10},
		},
	)
	calc := newCalculator(src)

	first, err := calc.DiscountedInvoiceRevenue(context.Background(), merchantID, invoiceID)
	require.NoError(t, err)
	second, err := calc.DiscountedInvoiceRevenue(context.Background(), merchantID, invoiceID)
	require.NoError(t, err)
	require.EqualValues(t, 1938, first)
	require.Equal(t, first, second)
}

func TestSourceErrorsPropagate(t *testing.T) {
	notFound := errors.New("merchant not found")
	calc := newCalculator(&stubSources{err: notFound})

	_, err := calc.InvoiceRevenue(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, notFound)
	_, err = calc.DiscountedInvoiceRevenue(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, notFound)
	_, err = calc.AppliedDiscounts(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, notFound)
}
