package reports

import (
	"net/http"

	"github.com/noah-isme/backend-lapak/internal/common"
)

// Handler exposes the reporting endpoints.
type Handler struct {
	Svc *Service
}

// TopItems handles GET /api/v1/merchants/{merchantID}/reports/top_items.
func (h *Handler) TopItems(w http.ResponseWriter, r *http.Request) {
	merchantID, err := common.UUIDParam(r, "merchantID")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	limit := int32(common.AtoiDefault(r.URL.Query().Get("limit"), 0))
	rows, err := h.Svc.TopItems(r.Context(), merchantID, limit)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rows})
}

// TopMerchants handles GET /api/v1/reports/top_merchants.
func (h *Handler) TopMerchants(w http.ResponseWriter, r *http.Request) {
	limit := int32(common.AtoiDefault(r.URL.Query().Get("limit"), 0))
	rows, err := h.Svc.TopMerchants(r.Context(), limit)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rows})
}

// FavoriteCustomers handles GET /api/v1/merchants/{merchantID}/reports/favorite_customers.
func (h *Handler) FavoriteCustomers(w http.ResponseWriter, r *http.Request) {
	merchantID, err := common.UUIDParam(r, "merchantID")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	limit := int32(common.AtoiDefault(r.URL.Query().Get("limit"), 0))
	rows, err := h.Svc.FavoriteCustomers(r.Context(), merchantID, limit)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rows})
}

// BestDay handles GET /api/v1/merchants/{merchantID}/reports/best_day.
func (h *Handler) BestDay(w http.ResponseWriter, r *http.Request) {
	merchantID, err := common.UUIDParam(r, "merchantID")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	day, found, err := h.Svc.BestDay(r.Context(), merchantID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if !found {
		common.JSON(w, http.StatusOK, map[string]any{"data": nil})
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": day})
}
