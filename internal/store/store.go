package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Merchant statuses.
const (
	MerchantDisabled = "disabled"
	MerchantEnabled  = "enabled"
)

// Invoice statuses.
const (
	InvoiceInProgress = "in_progress"
	InvoiceCancelled  = "cancelled"
	InvoiceCompleted  = "completed"
)

// Line item statuses.
const (
	LineItemPending  = "pending"
	LineItemPackaged = "packaged"
	LineItemShipped  = "shipped"
)

// Transaction results.
const (
	TransactionSuccess = "success"
	TransactionFailed  = "failed"
)

// Merchant is a seller owning items and a discount catalog.
type Merchant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Customer places invoices.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Item is a merchant's catalogue entry. UnitPrice here is the reference
// price; the price actually charged lives on each line item.
type Item struct {
	ID          uuid.UUID `json:"id"`
	MerchantID  uuid.UUID `json:"merchant_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	UnitPrice   int64     `json:"unit_price"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Invoice groups purchased line items for a customer.
type Invoice struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// LineItem is one purchased row on an invoice with its own quantity and
// charged unit price.
type LineItem struct {
	ID        uuid.UUID `json:"id"`
	InvoiceID uuid.UUID `json:"invoice_id"`
	ItemID    uuid.UUID `json:"item_id"`
	Quantity  int64     `json:"quantity"`
	UnitPrice int64     `json:"unit_price"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Transaction is one payment attempt against an invoice.
type Transaction struct {
	ID               uuid.UUID `json:"id"`
	InvoiceID        uuid.UUID `json:"invoice_id"`
	CreditCardNumber string    `json:"credit_card_number"`
	Result           string    `json:"result"`
	CreatedAt        time.Time `json:"created_at"`
}

// Discount is a merchant's quantity-threshold percentage discount. Deleting
// the merchant deletes its discounts.
type Discount struct {
	ID         uuid.UUID `json:"id"`
	MerchantID uuid.UUID `json:"merchant_id"`
	Name       string    `json:"name"`
	Percent    float64   `json:"percent"`
	Threshold  int64     `json:"threshold"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store provides database access for all entities.
type Store struct {
	Pool *pgxpool.Pool
}

// New wraps the provided pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

// Ping probes the database within the given timeout.
func (s *Store) Ping(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.Pool.Ping(ctx)
}
