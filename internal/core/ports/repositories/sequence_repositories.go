package repositories

import (
	"context"

	"github.com/SscSPs/erp_lite/internal/core/domain"
)

// SequenceRepository backs document number allocation. It is only meaningful on repositories
// bound to a transaction: NextSequence locks the counter row until commit, which serialises
// allocators across processes.
type SequenceRepository interface {
	// NextSequence increments the (docType, year) counter, creating it at 1, and returns the new value.
	NextSequence(ctx context.Context, docType domain.DocumentType, year int) (int, error)

	// AdvanceSequence raises the (docType, year) counter to value if it is lower.
	AdvanceSequence(ctx context.Context, docType domain.DocumentType, year int, value int) error

	// FindMaxNumber returns the lexicographically greatest stored number starting with prefix,
	// or "" when there is none.
	FindMaxNumber(ctx context.Context, docType domain.DocumentType, prefix string) (string, error)
}
