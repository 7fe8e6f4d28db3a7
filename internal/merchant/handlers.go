package merchant

import (
	"encoding/json"
	"net/http"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-lapak/internal/common"
	"github.com/noah-isme/backend-lapak/internal/revenue"
	"github.com/noah-isme/backend-lapak/internal/store"
)

// Handler exposes merchant CRUD, status toggles and the per-invoice revenue
// figures computed by the discount engine.
type Handler struct {
	DB       *store.Store
	Calc     revenue.Calculator
	Validate *validator.Validate
}

type upsertRequest struct {
	Name string `json:"name" validate:"required"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=enabled disabled"`
}

// RevenueResponse is the payload of the invoice revenue endpoint.
type RevenueResponse struct {
	Revenue           int64              `json:"revenue"`
	DiscountedRevenue int64              `json:"discounted_revenue"`
	AppliedDiscounts  []AppliedDiscount  `json:"applied_discounts"`
}

// AppliedDiscount is one winning discount in the revenue payload.
type AppliedDiscount struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Percent   float64 `json:"percent"`
	Threshold int64   `json:"threshold"`
}

// List handles GET /api/v1/merchants with an optional status filter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && status != store.MerchantEnabled && status != store.MerchantDisabled {
		common.WriteError(w, common.BadRequest("invalid status filter", nil))
		return
	}
	merchants, err := h.DB.ListMerchants(r.Context(), status)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": merchants})
}

// Create handles POST /api/v1/merchants.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if !h.decode(w, r, &req) {
		return
	}
	m, err := h.DB.CreateMerchant(r.Context(), req.Name)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": m})
}

// Get handles GET /api/v1/merchants/{merchantID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := common.UUIDParam(r, "merchantID")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	m, err := h.DB.GetMerchant(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": m})
}

// Update handles PUT /api/v1/merchants/{merchantID}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := common.UUIDParam(r, "merchantID")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var req upsertRequest
	if !h.decode(w, r, &req) {
		return
	}
	m, err := h.DB.UpdateMerchant(r.Context(), id, req.Name)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": m})
}

// SetStatus handles PATCH /api/v1/merchants/{merchantID}/status.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := common.UUIDParam(r, "merchantID")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var req statusRequest
	if !h.decode(w, r, &req) {
		return
	}
	m, err := h.DB.SetMerchantStatus(r.Context(), id, req.Status)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": m})
}

// Delete handles DELETE /api/v1/merchants/{merchantID}. Discounts owned by
// the merchant are removed with it.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := common.UUIDParam(r, "merchantID")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.DB.DeleteMerchant(r.Context(), id); err != nil {
		common.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// InvoiceRevenue handles
// GET /api/v1/merchants/{merchantID}/invoices/{invoiceID}/revenue.
func (h *Handler) InvoiceRevenue(w http.ResponseWriter, r *http.Request) {
	merchantID, err := common.UUIDParam(r, "merchantID")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	invoiceID, err := common.UUIDParam(r, "invoiceID")
	if err != nil {
		common.WriteError(w, err)
		return
	}

	ctx := r.Context()
	total, err := h.Calc.InvoiceRevenue(ctx, merchantID, invoiceID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	discounted, err := h.Calc.DiscountedInvoiceRevenue(ctx, merchantID, invoiceID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	applied, err := h.Calc.AppliedDiscounts(ctx, merchantID, invoiceID)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	resp := RevenueResponse{
		Revenue:           total,
		DiscountedRevenue: discounted,
		AppliedDiscounts:  make([]AppliedDiscount, 0, len(applied)),
	}
	for _, d := range applied {
		resp.AppliedDiscounts = append(resp.AppliedDiscounts, AppliedDiscount{
			ID:        d.ID.String(),
			Name:      d.Name,
			Percent:   d.Percent,
			Threshold: d.Threshold,
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": resp})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		common.WriteError(w, common.BadRequest("invalid request body", err))
		return false
	}
	if err := h.Validate.Struct(v); err != nil {
		common.WriteError(w, common.Validation("validation failed", err.Error()))
		return false
	}
	return true
}
