package services

import (
	"context"
	"time"

	"github.com/SscSPs/erp_lite/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_lite/internal/core/ports/repositories"
)

// NumberSvc allocates document numbers.
type NumberSvc interface {
	// GenerateQuoteNumber reserves the next quote number in its own transaction. A reservation
	// that is never used leaves a gap; numbers are never reused.
	GenerateQuoteNumber(ctx context.Context) (string, error)

	// GenerateInvoiceNumber is GenerateQuoteNumber for invoices.
	GenerateInvoiceNumber(ctx context.Context) (string, error)

	// Next allocates a number inside the caller's transaction, for the year of at.
	Next(ctx context.Context, seqs portsrepo.SequenceRepository, docType domain.DocumentType, at time.Time) (string, error)
}
