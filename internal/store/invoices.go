package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/noah-isme/backend-lapak/internal/common"
)

const invoiceColumns = "id, customer_id, status, created_at"
const lineItemColumns = "id, invoice_id, item_id, quantity, unit_price, status, created_at"

// ListInvoices returns invoices newest first, optionally filtered by status.
func (s *Store) ListInvoices(ctx context.Context, status string) ([]Invoice, error) {
	query := "SELECT " + invoiceColumns + " FROM invoices"
	args := []any{}
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	return scanInvoices(rows)
}

// ListIncompleteInvoices returns in-progress invoices, oldest first.
func (s *Store) ListIncompleteInvoices(ctx context.Context) ([]Invoice, error) {
	rows, err := s.Pool.Query(ctx,
		"SELECT "+invoiceColumns+" FROM invoices WHERE status = $1 ORDER BY created_at",
		InvoiceInProgress)
	if err != nil {
		return nil, fmt.Errorf("list incomplete invoices: %w", err)
	}
	defer rows.Close()
	return scanInvoices(rows)
}

// GetInvoice fetches one invoice by id.
func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (Invoice, error) {
	var inv Invoice
	err := s.Pool.QueryRow(ctx,
		"SELECT "+invoiceColumns+" FROM invoices WHERE id = $1", id,
	).Scan(&inv.ID, &inv.CustomerID, &inv.Status, &inv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Invoice{}, common.NotFound("invoice not found", err)
	}
	if err != nil {
		return Invoice{}, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// CreateInvoice opens an invoice for a customer.
func (s *Store) CreateInvoice(ctx context.Context, customerID uuid.UUID) (Invoice, error) {
	if _, err := s.GetCustomer(ctx, customerID); err != nil {
		return Invoice{}, err
	}
	var inv Invoice
	err := s.Pool.QueryRow(ctx,
		"INSERT INTO invoices (customer_id) VALUES ($1) RETURNING "+invoiceColumns, customerID,
	).Scan(&inv.ID, &inv.CustomerID, &inv.Status, &inv.CreatedAt)
	if err != nil {
		return Invoice{}, fmt.Errorf("create invoice: %w", err)
	}
	return inv, nil
}

// SetInvoiceStatus moves an invoice through its lifecycle.
func (s *Store) SetInvoiceStatus(ctx context.Context, id uuid.UUID, status string) (Invoice, error) {
	var inv Invoice
	err := s.Pool.QueryRow(ctx,
		"UPDATE invoices SET status = $2 WHERE id = $1 RETURNING "+invoiceColumns,
		id, status,
	).Scan(&inv.ID, &inv.CustomerID, &inv.Status, &inv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Invoice{}, common.NotFound("invoice not found", err)
	}
	if err != nil {
		return Invoice{}, fmt.Errorf("set invoice status: %w", err)
	}
	return inv, nil
}

// ListInvoiceLineItems returns all line items of an invoice in entry order.
func (s *Store) ListInvoiceLineItems(ctx context.Context, invoiceID uuid.UUID) ([]LineItem, error) {
	if _, err := s.GetInvoice(ctx, invoiceID); err != nil {
		return nil, err
	}
	rows, err := s.Pool.Query(ctx,
		"SELECT "+lineItemColumns+" FROM line_items WHERE invoice_id = $1 ORDER BY created_at, id",
		invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list line items: %w", err)
	}
	defer rows.Close()
	return scanLineItems(rows)
}

// AddLineItem records a purchased row on an invoice at the given charged
// unit price, independent of the item's reference price.
func (s *Store) AddLineItem(ctx context.Context, invoiceID, itemID uuid.UUID, quantity, unitPrice int64) (LineItem, error) {
	if _, err := s.GetInvoice(ctx, invoiceID); err != nil {
		return LineItem{}, err
	}
	if _, err := s.GetItem(ctx, itemID); err != nil {
		return LineItem{}, err
	}
	var li LineItem
	err := s.Pool.QueryRow(ctx,
		"INSERT INTO line_items (invoice_id, item_id, quantity, unit_price) VALUES ($1, $2, $3, $4) RETURNING "+lineItemColumns,
		invoiceID, itemID, quantity, unitPrice,
	).Scan(&li.ID, &li.InvoiceID, &li.ItemID, &li.Quantity, &li.UnitPrice, &li.Status, &li.CreatedAt)
	if err != nil {
		return LineItem{}, fmt.Errorf("add line item: %w", err)
	}
	return li, nil
}

// UpdateLineItem changes the quantity and status of a purchased row.
func (s *Store) UpdateLineItem(ctx context.Context, id uuid.UUID, quantity int64, status string) (LineItem, error) {
	var li LineItem
	err := s.Pool.QueryRow(ctx,
		"UPDATE line_items SET quantity = $2, status = $3 WHERE id = $1 RETURNING "+lineItemColumns,
		id, quantity, status,
	).Scan(&li.ID, &li.InvoiceID, &li.ItemID, &li.Quantity, &li.UnitPrice, &li.Status, &li.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return LineItem{}, common.NotFound("line item not found", err)
	}
	if err != nil {
		return LineItem{}, fmt.Errorf("update line item: %w", err)
	}
	return li, nil
}

// InvoiceMerchants lists the distinct merchants with at least one line item
// on the invoice, in first-appearance order.
func (s *Store) InvoiceMerchants(ctx context.Context, invoiceID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT i.merchant_id
		FROM line_items li
		JOIN items i ON i.id = li.item_id
		WHERE li.invoice_id = $1
		GROUP BY i.merchant_id
		ORDER BY min(li.created_at)`,
		invoiceID)
	if err != nil {
		return nil, fmt.Errorf("invoice merchants: %w", err)
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan merchant id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// RecordTransaction stores one payment attempt on an invoice.
func (s *Store) RecordTransaction(ctx context.Context, invoiceID uuid.UUID, creditCardNumber, result string) (Transaction, error) {
	if _, err := s.GetInvoice(ctx, invoiceID); err != nil {
		return Transaction{}, err
	}
	var tx Transaction
	err := s.Pool.QueryRow(ctx,
		"INSERT INTO transactions (invoice_id, credit_card_number, result) VALUES ($1, $2, $3) RETURNING id, invoice_id, credit_card_number, result, created_at",
		invoiceID, creditCardNumber, result,
	).Scan(&tx.ID, &tx.InvoiceID, &tx.CreditCardNumber, &tx.Result, &tx.CreatedAt)
	if err != nil {
		return Transaction{}, fmt.Errorf("record transaction: %w", err)
	}
	return tx, nil
}

func scanInvoices(rows pgx.Rows) ([]Invoice, error) {
	var out []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.ID, &inv.CustomerID, &inv.Status, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func scanLineItems(rows pgx.Rows) ([]LineItem, error) {
	var out []LineItem
	for rows.Next() {
		var li LineItem
		if err := rows.Scan(&li.ID, &li.InvoiceID, &li.ItemID, &li.Quantity, &li.UnitPrice, &li.Status, &li.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		out = append(out, li)
	}
	return out, rows.Err()
}
