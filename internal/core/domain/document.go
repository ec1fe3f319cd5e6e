package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/erp_lite/internal/apperrors"
	"github.com/shopspring/decimal"
)

// DocumentType distinguishes the two numbered document families.
type DocumentType string

const (
	DocumentTypeQuote   DocumentType = "QUOTE"
	DocumentTypeInvoice DocumentType = "INVOICE"
)

// MaxSequence is the largest per-year counter that fits the 4-digit number format.
const MaxSequence = 9999

// Prefix returns the number prefix used for the document type.
func (t DocumentType) Prefix() string {
	switch t {
	case DocumentTypeQuote:
		return "DEV"
	case DocumentTypeInvoice:
		return "FACT"
	default:
		return ""
	}
}

// YearPrefix returns "{PREFIX}-{YYYY}-", the prefix shared by every number of that type and year.
func (t DocumentType) YearPrefix(year int) string {
	return fmt.Sprintf("%s-%04d-", t.Prefix(), year)
}

// FormatDocumentNumber renders {PREFIX}-{YYYY}-{NNNN}. A sequence outside 1..MaxSequence is a
// generation failure, never a silent wraparound.
func FormatDocumentNumber(t DocumentType, year, seq int) (string, error) {
	if t.Prefix() == "" {
		return "", fmt.Errorf("%w: unknown document type %q", apperrors.ErrGeneration, t)
	}
	if seq < 1 || seq > MaxSequence {
		return "", fmt.Errorf("%w: %s sequence %d for year %d is outside 1..%d", apperrors.ErrGeneration, t, seq, year, MaxSequence)
	}
	return fmt.Sprintf("%s%04d", t.YearPrefix(year), seq), nil
}

// ParseDocumentSequence extracts the trailing counter from an existing number. Anything that
// does not match the exact format is reported as corrupt sequence data.
func ParseDocumentSequence(t DocumentType, year int, number string) (int, error) {
	prefix := t.YearPrefix(year)
	if !strings.HasPrefix(number, prefix) {
		return 0, fmt.Errorf("%w: number %q does not start with %q", apperrors.ErrGeneration, number, prefix)
	}
	suffix := number[len(prefix):]
	if len(suffix) != 4 {
		return 0, fmt.Errorf("%w: number %q has a malformed sequence", apperrors.ErrGeneration, number)
	}
	seq, err := strconv.Atoi(suffix)
	if err != nil || seq < 1 {
		return 0, fmt.Errorf("%w: number %q has a malformed sequence", apperrors.ErrGeneration, number)
	}
	return seq, nil
}

// Totals holds the derived money fields shared by quotes and invoices.
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxRate   decimal.Decimal `json:"taxRate"` // percentage, 20.00 = 20%
	TaxAmount decimal.Decimal `json:"taxAmount"`
	Total     decimal.Decimal `json:"total"`
}

// LineItem is one priced entry of a quote or invoice.
type LineItem struct {
	ItemID      string          `json:"itemID"`
	DocumentID  string          `json:"documentID"`
	Position    int             `json:"position"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

// CloneItems deep-copies items for another document, giving each copy a fresh identity while
// keeping description, quantity, unit price and total.
func CloneItems(items []LineItem, documentID string, newID func() string) []LineItem {
	clones := make([]LineItem, len(items))
	for i, item := range items {
		clones[i] = LineItem{
			ItemID:      newID(),
			DocumentID:  documentID,
			Position:    i + 1,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		}
	}
	return clones
}

// DateOf returns the calendar date of t as seen in loc, normalised to midnight UTC. All
// document dates are stored and compared in this form.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
