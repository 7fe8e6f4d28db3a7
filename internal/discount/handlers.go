package discount

import (
	"encoding/json"
	"net/http"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-lapak/internal/common"
	"github.com/noah-isme/backend-lapak/internal/store"
)

// Handler manages a merchant's bulk-discount catalog. The rule invariants
// enforced here (non-empty name, percent within 0..100, threshold above zero)
// are what the revenue resolver relies on downstream.
type Handler struct {
	DB       *store.Store
	Validate *validator.Validate
}

type upsertRequest struct {
	Name      string  `json:"name" validate:"required"`
	Percent   float64 `json:"percent" validate:"gte=0,lte=100"`
	Threshold int64   `json:"threshold" validate:"required,gt=0"`
}

// ListByMerchant handles GET /api/v1/merchants/{merchantID}/discounts.
func (h *Handler) ListByMerchant(w http.ResponseWriter, r *http.Request) {
	merchantID, err := common.UUIDParam(r, "merchantID")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	discounts, err := h.DB.ListMerchantDiscounts(r.Context(), merchantID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": discounts})
}

// Create handles POST /api/v1/merchants/{merchantID}/discounts.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	merchantID, err := common.UUIDParam(r, "merchantID")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var req upsertRequest
	if !h.decode(w, r, &req) {
		return
	}
	d, err := h.DB.CreateDiscount(r.Context(), merchantID, req.Name, req.Percent, req.Threshold)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": d})
}

// Get handles GET /api/v1/discounts/{discountID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := common.UUIDParam(r, "discountID")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	d, err := h.DB.GetDiscount(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": d})
}

// Update handles PUT /api/v1/discounts/{discountID}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := common.UUIDParam(r, "discountID")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var req upsertRequest
	if !h.decode(w, r, &req) {
		return
	}
	d, err := h.DB.UpdateDiscount(r.Context(), id, req.Name, req.Percent, req.Threshold)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": d})
}

// Delete handles DELETE /api/v1/discounts/{discountID}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := common.UUIDParam(r, "discountID")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.DB.DeleteDiscount(r.Context(), id); err != nil {
		common.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
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
