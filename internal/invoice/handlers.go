package invoice

import (
	"context"
	"encoding/json"
	"net/http"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/noah-isme/backend-lapak/internal/common"
	"github.com/noah-isme/backend-lapak/internal/revenue"
	"github.com/noah-isme/backend-lapak/internal/store"
)

// Querier defines the invoice store access the handlers need.
type Querier interface {
	ListInvoices(ctx context.Context, status string) ([]store.Invoice, error)
	ListIncompleteInvoices(ctx context.Context) ([]store.Invoice, error)
	CreateInvoice(ctx context.Context, customerID uuid.UUID) (store.Invoice, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (store.Invoice, error)
	ListInvoiceLineItems(ctx context.Context, invoiceID uuid.UUID) ([]store.LineItem, error)
	SetInvoiceStatus(ctx context.Context, id uuid.UUID, status string) (store.Invoice, error)
	AddLineItem(ctx context.Context, invoiceID, itemID uuid.UUID, quantity, unitPrice int64) (store.LineItem, error)
	UpdateLineItem(ctx context.Context, id uuid.UUID, quantity int64, status string) (store.LineItem, error)
	RecordTransaction(ctx context.Context, invoiceID uuid.UUID, creditCardNumber, result string) (store.Transaction, error)
	InvoiceMerchants(ctx context.Context, invoiceID uuid.UUID) ([]uuid.UUID, error)
}

// Handler exposes invoice reads, lifecycle updates and line-item mutation.
type Handler struct {
	DB       Querier
	Calc     revenue.Calculator
	Validate *validator.Validate
}

type createRequest struct {
	CustomerID string `json:"customer_id" validate:"required,uuid"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=in_progress cancelled completed"`
}

type addLineItemRequest struct {
	ItemID    string `json:"item_id" validate:"required,uuid"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
	UnitPrice int64  `json:"unit_price" validate:"gte=0"`
}

type updateLineItemRequest struct {
	Quantity int64  `json:"quantity" validate:"required,gt=0"`
	Status   string `json:"status" validate:"required,oneof=pending packaged shipped"`
}

type transactionRequest struct {
	CreditCardNumber string `json:"credit_card_number" validate:"required"`
	Result           string `json:"result" validate:"required,oneof=success failed"`
}

// InvoiceRevenueResponse is the invoice-wide revenue payload: every merchant
// on the invoice computed independently and summed.
type InvoiceRevenueResponse struct {
	Revenue           int64 `json:"revenue"`
	DiscountedRevenue int64 `json:"discounted_revenue"`
}

// List handles GET /api/v1/invoices with an optional status filter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	switch status {
	case "", store.InvoiceInProgress, store.InvoiceCancelled, store.InvoiceCompleted:
	default:
		common.WriteError(w, common.BadRequest("invalid status filter", nil))
		return
	}
	invoices, err := h.DB.ListInvoices(r.Context(), status)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": invoices})
}

// Incomplete handles GET /api/v1/invoices/incomplete: in-progress invoices,
// oldest first.
func (h *Handler) Incomplete(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.DB.ListIncompleteInvoices(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": invoices})
}

// Create handles POST /api/v1/invoices.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !h.decode(w, r, &req) {
		return
	}
	customerID, err := common.ParseUUID(req.CustomerID, "customer_id")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	inv, err := h.DB.CreateInvoice(r.Context(), customerID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": inv})
}

// Get handles GET /api/v1/invoices/{invoiceID}, including line items.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := common.UUIDParam(r, "invoiceID")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	inv, err := h.DB.GetInvoice(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	lineItems, err := h.DB.ListInvoiceLineItems(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"invoice":    inv,
		"line_items": lineItems,
	}})
}

// SetStatus handles PATCH /api/v1/invoices/{invoiceID}/status.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := common.UUIDParam(r, "invoiceID")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var req statusRequest
	if !h.decode(w, r, &req) {
		return
	}
	inv, err := h.DB.SetInvoiceStatus(r.Context(), id, req.Status)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": inv})
}

// AddLineItem handles POST /api/v1/invoices/{invoiceID}/line_items.
func (h *Handler) AddLineItem(w http.ResponseWriter, r *http.Request) {
	invoiceID, err := common.UUIDParam(r, "invoiceID")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var req addLineItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	itemID, err := common.ParseUUID(req.ItemID, "item_id")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	li, err := h.DB.AddLineItem(r.Context(), invoiceID, itemID, req.Quantity, req.UnitPrice)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": li})
}

// UpdateLineItem handles PATCH /api/v1/line_items/{lineItemID}.
func (h *Handler) UpdateLineItem(w http.ResponseWriter, r *http.Request) {
	id, err := common.UUIDParam(r, "lineItemID")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var req updateLineItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	li, err := h.DB.UpdateLineItem(r.Context(), id, req.Quantity, req.Status)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": li})
}

// RecordTransaction handles POST /api/v1/invoices/{invoiceID}/transactions.
func (h *Handler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	invoiceID, err := common.UUIDParam(r, "invoiceID")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var req transactionRequest
	if !h.decode(w, r, &req) {
		return
	}
	tx, err := h.DB.RecordTransaction(r.Context(), invoiceID, req.CreditCardNumber, req.Result)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": tx})
}

// Revenue handles GET /api/v1/invoices/{invoiceID}/revenue: the invoice-wide
// totals, each merchant's figures computed independently and summed.
func (h *Handler) Revenue(w http.ResponseWriter, r *http.Request) {
	invoiceID, err := common.UUIDParam(r, "invoiceID")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	ctx := r.Context()
	if _, err := h.DB.GetInvoice(ctx, invoiceID); err != nil {
		common.WriteError(w, err)
		return
	}
	merchants, err := h.DB.InvoiceMerchants(ctx, invoiceID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var resp InvoiceRevenueResponse
	for _, merchantID := range merchants {
		total, err := h.Calc.InvoiceRevenue(ctx, merchantID, invoiceID)
		if common.IsNotFound(err) {
			// merchant deleted since it was listed; compute over what remains
			continue
		}
		if err != nil {
			common.WriteError(w, err)
			return
		}
		discounted, err := h.Calc.DiscountedInvoiceRevenue(ctx, merchantID, invoiceID)
		if common.IsNotFound(err) {
			continue
		}
		if err != nil {
			common.WriteError(w, err)
			return
		}
		resp.Revenue += total
		resp.DiscountedRevenue += discounted
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
