package invoice_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-lapak/internal/common"
	"github.com/noah-isme/backend-lapak/internal/invoice"
	"github.com/noah-isme/backend-lapak/internal/revenue"
	"github.com/noah-isme/backend-lapak/internal/store"
)

// stubQuerier satisfies invoice.Querier; tests override the fields they need.
type stubQuerier struct {
	getInvoiceErr error
	merchants     []uuid.UUID
}

func (s stubQuerier) ListInvoices(context.Context, string) ([]store.Invoice, error) {
	return nil, nil
}
func (s stubQuerier) ListIncompleteInvoices(context.Context) ([]store.Invoice, error) {
	return nil, nil
}
func (s stubQuerier) CreateInvoice(context.Context, uuid.UUID) (store.Invoice, error) {
	return store.Invoice{}, nil
}
func (s stubQuerier) GetInvoice(context.Context, uuid.UUID) (store.Invoice, error) {
	return store.Invoice{}, s.getInvoiceErr
}
func (s stubQuerier) ListInvoiceLineItems(context.Context, uuid.UUID) ([]store.LineItem, error) {
	return nil, nil
}
func (s stubQuerier) SetInvoiceStatus(context.Context, uuid.UUID, string) (store.Invoice, error) {
	return store.Invoice{}, nil
}
func (s stubQuerier) AddLineItem(context.Context, uuid.UUID, uuid.UUID, int64, int64) (store.LineItem, error) {
	return store.LineItem{}, nil
}
func (s stubQuerier) UpdateLineItem(context.Context, uuid.UUID, int64, string) (store.LineItem, error) {
	return store.LineItem{}, nil
}
func (s stubQuerier) RecordTransaction(context.Context, uuid.UUID, string, string) (store.Transaction, error) {
	return store.Transaction{}, nil
}
func (s stubQuerier) InvoiceMerchants(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return s.merchants, nil
}

// stubEntries maps merchant id to that merchant's line entries on the invoice.
type stubEntries struct {
	byMerchant map[uuid.UUID][]revenue.LineEntry
	errs       map[uuid.UUID]error
}

func (s stubEntries) MerchantInvoiceEntries(_ context.Context, merchantID, _ uuid.UUID) ([]revenue.LineEntry, error) {
	if err := s.errs[merchantID]; err != nil {
		return nil, err
	}
	return s.byMerchant[merchantID], nil
}

type stubDiscounts struct {
	byMerchant map[uuid.UUID][]revenue.Discount
}

func (s stubDiscounts) MerchantDiscounts(_ context.Context, merchantID uuid.UUID) ([]revenue.Discount, error) {
	return s.byMerchant[merchantID], nil
}

func getRevenue(t *testing.T, h *invoice.Handler) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("invoiceID", uuid.NewString())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	h.Revenue(rec, req)
	return rec
}

func decodeRevenue(t *testing.T, rec *httptest.ResponseRecorder) (revenueTotal, discounted int64) {
	t.Helper()
	var payload struct {
		Data struct {
			Revenue           int64 `json:"revenue"`
			DiscountedRevenue int64 `json:"discounted_revenue"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload.Data.Revenue, payload.Data.DiscountedRevenue
}

func TestRevenueSumsMerchantsIndependently(t *testing.T) {
	merchantA := uuid.New()
	merchantB := uuid.New()
	tenPercent := revenue.Discount{ID: uuid.New(), MerchantID: merchantB, Name: "bulk ten", Percent: 10, Threshold: 10}

	h := &invoice.Handler{
		DB: stubQuerier{merchants: []uuid.UUID{merchantA, merchantB}},
		Calc: revenue.Calculator{
			Entries: stubEntries{byMerchant: map[uuid.UUID][]revenue.LineEntry{
				merchantA: {{ID: uuid.New(), ItemID: uuid.New(), Quantity: 5, UnitPrice: 100}},
				merchantB: {{ID: uuid.New(), ItemID: uuid.New(), Quantity: 10, UnitPrice: 100}},
			}},
			Discounts: stubDiscounts{byMerchant: map[uuid.UUID][]revenue.Discount{
				merchantB: {tenPercent},
			}},
		},
		Validate: validator.New(),
	}

	rec := getRevenue(t, h)
	require.Equal(t, http.StatusOK, rec.Code)

	total, discounted := decodeRevenue(t, rec)
	require.Equal(t, int64(1500), total)
	require.Equal(t, int64(1400), discounted)
}

func TestRevenueUnknownInvoiceIs404(t *testing.T) {
	h := &invoice.Handler{
		DB:       stubQuerier{getInvoiceErr: common.NotFound("invoice not found", nil)},
		Validate: validator.New(),
	}

	rec := getRevenue(t, h)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, "NOT_FOUND", payload.Error.Code)
}

func TestRevenueSkipsMerchantDeletedMidFlight(t *testing.T) {
	merchantA := uuid.New()
	merchantB := uuid.New()

	h := &invoice.Handler{
		DB: stubQuerier{merchants: []uuid.UUID{merchantA, merchantB}},
		Calc: revenue.Calculator{
			Entries: stubEntries{
				byMerchant: map[uuid.UUID][]revenue.LineEntry{
					merchantB: {{ID: uuid.New(), ItemID: uuid.New(), Quantity: 10, UnitPrice: 100}},
				},
				errs: map[uuid.UUID]error{
					merchantA: common.NotFound("merchant not found", nil),
				},
			},
			Discounts: stubDiscounts{},
		},
		Validate: validator.New(),
	}

	rec := getRevenue(t, h)
	require.Equal(t, http.StatusOK, rec.Code)

	total, discounted := decodeRevenue(t, rec)
	require.Equal(t, int64(1000), total)
	require.Equal(t, int64(1000), discounted)
}

func TestRevenueMalformedInvoiceIDIs400(t *testing.T) {
	h := &invoice.Handler{Validate: validator.New()}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("invoiceID", "not-a-uuid")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	h.Revenue(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
