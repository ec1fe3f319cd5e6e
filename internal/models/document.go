package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentItem is a row of quote_items or invoice_items. Both tables share the layout.
type DocumentItem struct {
	ItemID      string          `db:"item_id"`
	DocumentID  string          `db:"document_id"` // quote_id or invoice_id
	Position    int             `db:"position"`
	Description string          `db:"description"`
	Quantity    int             `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	Total       decimal.Decimal `db:"total"`
}

// Quote represents a row of the quotes table.
type Quote struct {
	QuoteID            string          `db:"quote_id"`
	Number             string          `db:"number"`
	ClientID           string          `db:"client_id"`
	Date               time.Time       `db:"date"`
	ValidUntil         *time.Time      `db:"valid_until"` // Nullable
	Status             string          `db:"status"`
	Subtotal           decimal.Decimal `db:"subtotal"`
	TaxRate            decimal.Decimal `db:"tax_rate"`
	TaxAmount          decimal.Decimal `db:"tax_amount"`
	Total              decimal.Decimal `db:"total"`
	Notes              string          `db:"notes"`
	TermsAndConditions string          `db:"terms_and_conditions"`
	Version            int64           `db:"version"`
	AuditFields
}

// Invoice represents a row of the invoices table.
type Invoice struct {
	InvoiceID          string          `db:"invoice_id"`
	Number             string          `db:"number"`
	ClientID           string          `db:"client_id"`
	QuoteID            *string         `db:"quote_id"` // Nullable, set when converted from a quote
	Date               time.Time       `db:"date"`
	DueDate            *time.Time      `db:"due_date"`  // Nullable
	PaidDate           *time.Time      `db:"paid_date"` // Nullable
	PaymentMethod      string          `db:"payment_method"`
	PaymentNotes       string          `db:"payment_notes"`
	Status             string          `db:"status"`
	Subtotal           decimal.Decimal `db:"subtotal"`
	TaxRate            decimal.Decimal `db:"tax_rate"`
	TaxAmount          decimal.Decimal `db:"tax_amount"`
	Total              decimal.Decimal `db:"total"`
	Notes              string          `db:"notes"`
	TermsAndConditions string          `db:"terms_and_conditions"`
	Version            int64           `db:"version"`
	AuditFields
}
