package dto

import (
	"time"

	"github.com/SscSPs/erp_lite/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateQuoteRequest defines the data needed to create a quote. Subtotal is only used when no
// items are given.
type CreateQuoteRequest struct {
	ClientID           string            `json:"clientID" binding:"required"`
	CreatedByID        string            `json:"createdByID,omitempty"` // defaults to the caller
	Date               *Date             `json:"date,omitempty"`        // defaults to today
	ValidUntil         *Date             `json:"validUntil,omitempty"`
	Status             string            `json:"status,omitempty"` // DRAFT (default) or SENT
	Items              []LineItemRequest `json:"items" binding:"dive"`
	TaxRate            decimal.Decimal   `json:"taxRate"`
	Subtotal           *decimal.Decimal  `json:"subtotal,omitempty"`
	Notes              string            `json:"notes"`
	TermsAndConditions string            `json:"termsAndConditions"`
}

// UpdateQuoteRequest defines the data allowed for updating a quote.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateQuoteRequest struct {
	ClientID           *string            `json:"clientID,omitempty"`
	Date               *Date              `json:"date,omitempty"`
	ValidUntil         *Date              `json:"validUntil,omitempty"`
	Status             *string            `json:"status,omitempty"`
	Items              *[]LineItemRequest `json:"items,omitempty" binding:"omitempty,dive"`
	TaxRate            *decimal.Decimal   `json:"taxRate,omitempty"`
	Subtotal           *decimal.Decimal   `json:"subtotal,omitempty"`
	Notes              *string            `json:"notes,omitempty"`
	TermsAndConditions *string            `json:"termsAndConditions,omitempty"`
	Version            *int64             `json:"version,omitempty"` // rejects the update if the quote changed since
}

// ConvertQuoteRequest carries the optional overrides for the invoice produced from a quote.
type ConvertQuoteRequest struct {
	CreatedByID        string  `json:"createdByID,omitempty"`
	Date               *Date   `json:"date,omitempty"`
	DueDate            *Date   `json:"dueDate,omitempty"`
	Notes              *string `json:"notes,omitempty"`
	TermsAndConditions *string `json:"termsAndConditions,omitempty"`
}

// QuoteResponse defines the data returned for a quote.
type QuoteResponse struct {
	QuoteID            string             `json:"quoteID"`
	Number             string             `json:"number"`
	ClientID           string             `json:"clientID"`
	Date               Date               `json:"date"`
	ValidUntil         *Date              `json:"validUntil,omitempty"`
	Status             domain.QuoteStatus `json:"status"`
	Items              []LineItemResponse `json:"items"`
	Subtotal           decimal.Decimal    `json:"subtotal"`
	TaxRate            decimal.Decimal    `json:"taxRate"`
	TaxAmount          decimal.Decimal    `json:"taxAmount"`
	Total              decimal.Decimal    `json:"total"`
	Notes              string             `json:"notes"`
	TermsAndConditions string             `json:"termsAndConditions"`
	Version            int64              `json:"version"`
	CreatedAt          time.Time          `json:"createdAt"`
	CreatedBy          string             `json:"createdBy"`
	LastUpdatedAt      time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy      string             `json:"lastUpdatedBy"`
}

// ToQuoteResponse converts a domain.Quote to QuoteResponse DTO
func ToQuoteResponse(q *domain.Quote) QuoteResponse {
	return QuoteResponse{
		QuoteID:            q.QuoteID,
		Number:             q.Number,
		ClientID:           q.ClientID,
		Date:               NewDate(q.Date),
		ValidUntil:         DatePtr(q.ValidUntil),
		Status:             q.Status,
		Items:              ToLineItemResponses(q.Items),
		Subtotal:           q.Subtotal,
		TaxRate:            q.TaxRate,
		TaxAmount:          q.TaxAmount,
		Total:              q.Total,
		Notes:              q.Notes,
		TermsAndConditions: q.TermsAndConditions,
		Version:            q.Version,
		CreatedAt:          q.CreatedAt,
		CreatedBy:          q.CreatedBy,
		LastUpdatedAt:      q.LastUpdatedAt,
		LastUpdatedBy:      q.LastUpdatedBy,
	}
}

// ToListQuoteResponse converts a slice of domain.Quote to a slice of QuoteResponse DTOs
func ToListQuoteResponse(quotes []domain.Quote) []QuoteResponse {
	res := make([]QuoteResponse, len(quotes))
	for i := range quotes {
		res[i] = ToQuoteResponse(&quotes[i])
	}
	return res
}
