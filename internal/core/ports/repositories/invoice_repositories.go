package repositories

import (
	"context"

	"github.com/SscSPs/erp_lite/internal/core/domain"
)

// InvoiceReader defines read operations for invoices. Returned invoices carry their items.
type InvoiceReader interface {
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context) ([]domain.Invoice, error)
	ListInvoicesByClient(ctx context.Context, clientID string) ([]domain.Invoice, error)
	ListInvoicesByStatus(ctx context.Context, statuses ...domain.InvoiceStatus) ([]domain.Invoice, error)
}

// InvoiceWriter defines write operations for invoices, with the same version guard as QuoteWriter.
type InvoiceWriter interface {
	CreateInvoice(ctx context.Context, invoice domain.Invoice) error
	UpdateInvoice(ctx context.Context, invoice domain.Invoice, replaceItems bool) error
	UpdateInvoiceStatus(ctx context.Context, invoice domain.Invoice) error
	DeleteInvoice(ctx context.Context, invoiceID string) error
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
