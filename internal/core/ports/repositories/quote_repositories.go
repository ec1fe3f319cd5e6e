package repositories

import (
	"context"

	"github.com/SscSPs/erp_lite/internal/core/domain"
)

// QuoteReader defines read operations for quotes. Returned quotes carry their items.
type QuoteReader interface {
	FindQuoteByID(ctx context.Context, quoteID string) (*domain.Quote, error)

	// FindQuoteByIDForUpdate is FindQuoteByID with a row lock held until the surrounding
	// transaction ends.
	FindQuoteByIDForUpdate(ctx context.Context, quoteID string) (*domain.Quote, error)

	ListQuotes(ctx context.Context) ([]domain.Quote, error)
	ListQuotesByClient(ctx context.Context, clientID string) ([]domain.Quote, error)
	ListQuotesByStatus(ctx context.Context, status domain.QuoteStatus) ([]domain.Quote, error)
}

// QuoteWriter defines write operations for quotes. Updates are guarded by quote.Version: the
// row is written only if its stored version still equals quote.Version, and the stored version
// is then incremented. A stale version yields apperrors.ErrConflict.
type QuoteWriter interface {
	CreateQuote(ctx context.Context, quote domain.Quote) error
	UpdateQuote(ctx context.Context, quote domain.Quote, replaceItems bool) error
	UpdateQuoteStatus(ctx context.Context, quote domain.Quote) error
	DeleteQuote(ctx context.Context, quoteID string) error
}

// QuoteRepositoryFacade combines all quote-related repository interfaces
type QuoteRepositoryFacade interface {
	QuoteReader
	QuoteWriter
}
