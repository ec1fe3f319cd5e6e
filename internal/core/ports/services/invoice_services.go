package services

import (
	"context"
	"time"

	"github.com/SscSPs/erp_lite/internal/core/domain"
	"github.com/SscSPs/erp_lite/internal/dto"
)

// InvoiceReaderSvc defines read operations for invoices
type InvoiceReaderSvc interface {
	GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context) ([]domain.Invoice, error)
	ListInvoicesByClient(ctx context.Context, clientID string) ([]domain.Invoice, error)
	ListInvoicesByStatus(ctx context.Context, status domain.InvoiceStatus) ([]domain.Invoice, error)
}

// InvoiceWriterSvc defines write operations for invoices
type InvoiceWriterSvc interface {
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, actorID string) (*domain.Invoice, error)

	// CreateInvoiceFromQuote is the invoices-side entry point of the quote conversion.
	CreateInvoiceFromQuote(ctx context.Context, req dto.CreateInvoiceFromQuoteRequest, actorID string) (*domain.Invoice, error)

	UpdateInvoice(ctx context.Context, invoiceID string, req dto.UpdateInvoiceRequest, actorID string) (*domain.Invoice, error)

	// ChangeInvoiceStatus performs a manual transition. paidDate is used when target is PAID and
	// defaults to today.
	ChangeInvoiceStatus(ctx context.Context, invoiceID string, target domain.InvoiceStatus, paidDate *time.Time, actorID string) (*domain.Invoice, error)

	// MarkInvoiceAsPaid settles the invoice and records the payment details.
	MarkInvoiceAsPaid(ctx context.Context, invoiceID string, req dto.MarkAsPaidRequest, actorID string) (*domain.Invoice, error)

	DeleteInvoice(ctx context.Context, invoiceID string) error
}

// InvoiceSvcFacade combines all invoice-related service interfaces
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
}
