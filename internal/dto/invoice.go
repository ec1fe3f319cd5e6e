package dto

import (
	"time"

	"github.com/SscSPs/erp_lite/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest defines the data needed to create a standalone invoice.
type CreateInvoiceRequest struct {
	ClientID           string            `json:"clientID" binding:"required"`
	CreatedByID        string            `json:"createdByID,omitempty"`
	Date               *Date             `json:"date,omitempty"`
	DueDate            *Date             `json:"dueDate,omitempty"`
	Status             string            `json:"status,omitempty"` // DRAFT (default) or SENT
	Items              []LineItemRequest `json:"items" binding:"dive"`
	TaxRate            decimal.Decimal   `json:"taxRate"`
	Subtotal           *decimal.Decimal  `json:"subtotal,omitempty"`
	Notes              string            `json:"notes"`
	TermsAndConditions string            `json:"termsAndConditions"`
}

// CreateInvoiceFromQuoteRequest converts the referenced quote into a new invoice.
type CreateInvoiceFromQuoteRequest struct {
	QuoteID string `json:"quoteID" binding:"required"`
	ConvertQuoteRequest
}

// UpdateInvoiceRequest defines the data allowed for updating an invoice.
type UpdateInvoiceRequest struct {
	ClientID           *string            `json:"clientID,omitempty"`
	Date               *Date              `json:"date,omitempty"`
	DueDate            *Date              `json:"dueDate,omitempty"`
	Status             *string            `json:"status,omitempty"`
	PaidDate           *Date              `json:"paidDate,omitempty"` // only with status PAID
	Items              *[]LineItemRequest `json:"items,omitempty" binding:"omitempty,dive"`
	TaxRate            *decimal.Decimal   `json:"taxRate,omitempty"`
	Subtotal           *decimal.Decimal   `json:"subtotal,omitempty"`
	Notes              *string            `json:"notes,omitempty"`
	TermsAndConditions *string            `json:"termsAndConditions,omitempty"`
	Version            *int64             `json:"version,omitempty"`
}

// MarkAsPaidRequest records a payment that settles the invoice.
type MarkAsPaidRequest struct {
	PaidDate      *Date  `json:"paidDate,omitempty"` // defaults to today
	PaymentMethod string `json:"paymentMethod,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID          string               `json:"invoiceID"`
	Number             string               `json:"number"`
	ClientID           string               `json:"clientID"`
	QuoteID            *string              `json:"quoteID,omitempty"`
	Date               Date                 `json:"date"`
	DueDate            *Date                `json:"dueDate,omitempty"`
	PaidDate           *Date                `json:"paidDate,omitempty"`
	PaymentMethod      string               `json:"paymentMethod,omitempty"`
	PaymentNotes       string               `json:"paymentNotes,omitempty"`
	Status             domain.InvoiceStatus `json:"status"`
	Items              []LineItemResponse   `json:"items"`
	Subtotal           decimal.Decimal      `json:"subtotal"`
	TaxRate            decimal.Decimal      `json:"taxRate"`
	TaxAmount          decimal.Decimal      `json:"taxAmount"`
	Total              decimal.Decimal      `json:"total"`
	Notes              string               `json:"notes"`
	TermsAndConditions string               `json:"termsAndConditions"`
	Version            int64                `json:"version"`
	CreatedAt          time.Time            `json:"createdAt"`
	CreatedBy          string               `json:"createdBy"`
	LastUpdatedAt      time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy      string               `json:"lastUpdatedBy"`
}

// ToInvoiceResponse converts a domain.Invoice to InvoiceResponse DTO
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:          inv.InvoiceID,
		Number:             inv.Number,
		ClientID:           inv.ClientID,
		QuoteID:            inv.QuoteID,
		Date:               NewDate(inv.Date),
		DueDate:            DatePtr(inv.DueDate),
		PaidDate:           DatePtr(inv.PaidDate),
		PaymentMethod:      inv.PaymentMethod,
		PaymentNotes:       inv.PaymentNotes,
		Status:             inv.Status,
		Items:              ToLineItemResponses(inv.Items),
		Subtotal:           inv.Subtotal,
		TaxRate:            inv.TaxRate,
		TaxAmount:          inv.TaxAmount,
		Total:              inv.Total,
		Notes:              inv.Notes,
		TermsAndConditions: inv.TermsAndConditions,
		Version:            inv.Version,
		CreatedAt:          inv.CreatedAt,
		CreatedBy:          inv.CreatedBy,
		LastUpdatedAt:      inv.LastUpdatedAt,
		LastUpdatedBy:      inv.LastUpdatedBy,
	}
}

// ToListInvoiceResponse converts a slice of domain.Invoice to a slice of InvoiceResponse DTOs
func ToListInvoiceResponse(invoices []domain.Invoice) []InvoiceResponse {
	res := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		res[i] = ToInvoiceResponse(&invoices[i])
	}
	return res
}
