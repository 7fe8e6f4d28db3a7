package item

import (
	"encoding/json"
	"net/http"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-lapak/internal/common"
	"github.com/noah-isme/backend-lapak/internal/store"
)

// Handler exposes item CRUD under a merchant plus the enable/disable toggle.
type Handler struct {
	DB       *store.Store
	Validate *validator.Validate
}

type upsertRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	UnitPrice   int64  `json:"unit_price" validate:"gte=0"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=enabled disabled"`
}

// ListByMerchant handles GET /api/v1/merchants/{merchantID}/items.
func (h *Handler) ListByMerchant(w http.ResponseWriter, r *http.Request) {
	merchantID, err := common.UUIDParam(r, "merchantID")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	items, err := h.DB.ListMerchantItems(r.Context(), merchantID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": items})
}

// Create handles POST /api/v1/merchants/{merchantID}/items.
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
	it, err := h.DB.CreateItem(r.Context(), merchantID, req.Name, req.Description, req.UnitPrice)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": it})
}

// Get handles GET /api/v1/items/{itemID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := common.UUIDParam(r, "itemID")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	it, err := h.DB.GetItem(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": it})
}

// Update handles PUT /api/v1/items/{itemID}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := common.UUIDParam(r, "itemID")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var req upsertRequest
	if !h.decode(w, r, &req) {
		return
	}
	it, err := h.DB.UpdateItem(r.Context(), id, req.Name, req.Description, req.UnitPrice)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": it})
}

// SetStatus handles PATCH /api/v1/items/{itemID}/status.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := common.UUIDParam(r, "itemID")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var req statusRequest
	if !h.decode(w, r, &req) {
		return
	}
	it, err := h.DB.SetItemStatus(r.Context(), id, req.Status)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": it})
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
