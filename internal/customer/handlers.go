package customer

import (
	"encoding/json"
	"net/http"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-lapak/internal/common"
	"github.com/noah-isme/backend-lapak/internal/store"
)

// Handler exposes the customer directory. Customers own invoices, so they
// cannot be deleted once created.
type Handler struct {
	DB             *store.Store
	Validate       *validator.Validate
	DefaultPerPage int
	MaxPerPage     int
}

type createRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// List handles GET /api/v1/customers with page and limit query parameters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, h.DefaultPerPage, h.MaxPerPage)
	customers, err := h.DB.ListCustomers(r.Context(), perPage, (page-1)*perPage)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	total, err := h.DB.CountCustomers(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       customers,
		"pagination": common.Pagination{Page: page, PerPage: perPage, TotalItems: total},
	})
}

// Create handles POST /api/v1/customers.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, common.BadRequest("invalid request body", err))
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		common.WriteError(w, common.Validation("validation failed", err.Error()))
		return
	}
	c, err := h.DB.CreateCustomer(r.Context(), req.FirstName, req.LastName)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": c})
}

// Get handles GET /api/v1/customers/{customerID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := common.UUIDParam(r, "customerID")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	c, err := h.DB.GetCustomer(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": c})
}
