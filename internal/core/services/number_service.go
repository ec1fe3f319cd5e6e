package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/erp_lite/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_lite/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_lite/internal/core/ports/services"
)

// numberService implements the NumberSvc interface
type numberService struct {
	BaseService
	txManager portsrepo.TransactionManager
	settings  DocumentSettings
}

// NewNumberService creates a number service. settings supplies the clock used by the
// standalone Generate* operations.
func NewNumberService(txManager portsrepo.TransactionManager, settings DocumentSettings) portssvc.NumberSvc {
	if settings.Clock == nil {
		settings.Clock = time.Now
	}
	return &numberService{txManager: txManager, settings: settings}
}

// Ensure numberService implements the NumberSvc interface
var _ portssvc.NumberSvc = (*numberService)(nil)

// Next increments the per-year counter and reconciles it with the numbers already stored, so
// rows written before the counter existed are never reissued.
func (s *numberService) Next(ctx context.Context, seqs portsrepo.SequenceRepository, docType domain.DocumentType, at time.Time) (string, error) {
	year := at.Year()
	seq, err := seqs.NextSequence(ctx, docType, year)
	if err != nil {
		return "", fmt.Errorf("failed to allocate %s sequence for %d: %w", docType, year, err)
	}

	latest, err := seqs.FindMaxNumber(ctx, docType, docType.YearPrefix(year))
	if err != nil {
		return "", fmt.Errorf("failed to read latest %s number for %d: %w", docType, year, err)
	}
	if latest != "" {
		existing, err := domain.ParseDocumentSequence(docType, year, latest)
		if err != nil {
			s.LogError(ctx, err, "Stored document number is corrupt", slog.String("number", latest))
			return "", err
		}
		if existing >= seq {
			seq = existing + 1
			if err := seqs.AdvanceSequence(ctx, docType, year, seq); err != nil {
				return "", fmt.Errorf("failed to advance %s sequence for %d: %w", docType, year, err)
			}
		}
	}

	return domain.FormatDocumentNumber(docType, year, seq)
}

func (s *numberService) GenerateQuoteNumber(ctx context.Context) (string, error) {
	return s.reserve(ctx, domain.DocumentTypeQuote)
}

func (s *numberService) GenerateInvoiceNumber(ctx context.Context) (string, error) {
	return s.reserve(ctx, domain.DocumentTypeInvoice)
}

func (s *numberService) reserve(ctx context.Context, docType domain.DocumentType) (string, error) {
	today := domain.DateOf(s.settings.Clock(), s.settings.Location)
	var number string
	err := s.txManager.WithTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		var err error
		number, err = s.Next(ctx, repos.Sequences, docType, today)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to reserve document number", slog.String("document_type", string(docType)))
		return "", err
	}
	s.LogInfo(ctx, "Document number reserved", slog.String("number", number))
	return number, nil
}
