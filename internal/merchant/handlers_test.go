package merchant_test

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
	"github.com/noah-isme/backend-lapak/internal/merchant"
	"github.com/noah-isme/backend-lapak/internal/revenue"
)

type stubEntries struct {
	entries []revenue.LineEntry
	err     error
}

func (s stubEntries) MerchantInvoiceEntries(context.Context, uuid.UUID, uuid.UUID) ([]revenue.LineEntry, error) {
	return s.entries, s.err
}

type stubDiscounts struct {
	catalog []revenue.Discount
}

func (s stubDiscounts) MerchantDiscounts(context.Context, uuid.UUID) ([]revenue.Discount, error) {
	return s.catalog, nil
}

// getInvoiceRevenue routes a revenue request through chi so both URL params
// resolve; the store is nil because the endpoint reads through the engine only.
func getInvoiceRevenue(t *testing.T, h *merchant.Handler) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("merchantID", uuid.NewString())
	rctx.URLParams.Add("invoiceID", uuid.NewString())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	h.InvoiceRevenue(rec, req)
	return rec
}

func TestInvoiceRevenueReportsFigures(t *testing.T) {
	itemID := uuid.New()
	twenty := revenue.Discount{ID: uuid.New(), Name: "bulk twenty", Percent: 20, Threshold: 10}

	h := &merchant.Handler{
		Calc: revenue.Calculator{
			Entries: stubEntries{entries: []revenue.LineEntry{
				{ID: uuid.New(), ItemID: itemID, Quantity: 10, UnitPrice: 100},
			}},
			Discounts: stubDiscounts{catalog: []revenue.Discount{twenty}},
		},
		Validate: validator.New(),
	}

	rec := getInvoiceRevenue(t, h)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Data struct {
			Revenue           int64 `json:"revenue"`
			DiscountedRevenue int64 `json:"discounted_revenue"`
			AppliedDiscounts  []struct {
				ID      string  `json:"id"`
				Name    string  `json:"name"`
				Percent float64 `json:"percent"`
			} `json:"applied_discounts"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, int64(1000), payload.Data.Revenue)
	require.Equal(t, int64(800), payload.Data.DiscountedRevenue)
	require.Len(t, payload.Data.AppliedDiscounts, 1)
	require.Equal(t, twenty.ID.String(), payload.Data.AppliedDiscounts[0].ID)
	require.Equal(t, "bulk twenty", payload.Data.AppliedDiscounts[0].Name)
}

func TestInvoiceRevenueEmptyCatalogAppliesNothing(t *testing.T) {
	h := &merchant.Handler{
		Calc: revenue.Calculator{
			Entries: stubEntries{entries: []revenue.LineEntry{
				{ID: uuid.New(), ItemID: uuid.New(), Quantity: 4, UnitPrice: 60},
			}},
			Discounts: stubDiscounts{},
		},
		Validate: validator.New(),
	}

	rec := getInvoiceRevenue(t, h)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Data struct {
			Revenue           int64 `json:"revenue"`
			DiscountedRevenue int64 `json:"discounted_revenue"`
			AppliedDiscounts  []any `json:"applied_discounts"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, int64(240), payload.Data.Revenue)
	require.Equal(t, int64(240), payload.Data.DiscountedRevenue)
	require.Empty(t, payload.Data.AppliedDiscounts)
}

func TestInvoiceRevenueUnknownMerchantIs404(t *testing.T) {
	h := &merchant.Handler{
		Calc: revenue.Calculator{
			Entries:   stubEntries{err: common.NotFound("merchant not found", nil)},
			Discounts: stubDiscounts{},
		},
		Validate: validator.New(),
	}

	rec := getInvoiceRevenue(t, h)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, "NOT_FOUND", payload.Error.Code)
}

func TestInvoiceRevenueMalformedMerchantIDIs400(t *testing.T) {
	h := &merchant.Handler{Validate: validator.New()}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("merchantID", "not-a-uuid")
	rctx.URLParams.Add("invoiceID", uuid.NewString())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	h.InvoiceRevenue(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
