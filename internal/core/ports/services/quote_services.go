package services

import (
	"context"

	"github.com/SscSPs/erp_lite/internal/core/domain"
	"github.com/SscSPs/erp_lite/internal/dto"
)

// QuoteReaderSvc defines read operations for quotes
type QuoteReaderSvc interface {
	GetQuoteByID(ctx context.Context, quoteID string) (*domain.Quote, error)
	ListQuotes(ctx context.Context) ([]domain.Quote, error)
	ListQuotesByClient(ctx context.Context, clientID string) ([]domain.Quote, error)
	ListQuotesByStatus(ctx context.Context, status domain.QuoteStatus) ([]domain.Quote, error)
}

// QuoteWriterSvc defines write operations for quotes
type QuoteWriterSvc interface {
	// CreateQuote prices the items, allocates the number and stores the quote in one transaction.
	CreateQuote(ctx context.Context, req dto.CreateQuoteRequest, actorID string) (*domain.Quote, error)

	// UpdateQuote applies a partial update. A status in the request goes through the state machine.
	UpdateQuote(ctx context.Context, quoteID string, req dto.UpdateQuoteRequest, actorID string) (*domain.Quote, error)

	// ChangeQuoteStatus performs a manual transition (send, accept, reject).
	ChangeQuoteStatus(ctx context.Context, quoteID string, target domain.QuoteStatus, actorID string) (*domain.Quote, error)

	DeleteQuote(ctx context.Context, quoteID string) error
}

// QuoteSvcFacade combines all quote-related service interfaces
type QuoteSvcFacade interface {
	QuoteReaderSvc
	QuoteWriterSvc
}

// ConversionSvc turns a quote into an invoice.
type ConversionSvc interface {
	ConvertQuoteToInvoice(ctx context.Context, quoteID string, req dto.ConvertQuoteRequest, actorID string) (*domain.Invoice, error)
}
