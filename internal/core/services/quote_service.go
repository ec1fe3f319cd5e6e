package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/erp_lite/internal/apperrors"
	"github.com/SscSPs/erp_lite/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_lite/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_lite/internal/core/ports/services"
	"github.com/SscSPs/erp_lite/internal/dto"
)

// quoteService implements the QuoteSvcFacade interface
type quoteService struct {
	documentService
	quoteRepo portsrepo.QuoteRepositoryFacade
	txManager portsrepo.TransactionManager
	numbers   portssvc.NumberSvc
}

// NewQuoteService creates a new quote service with the provided options
func NewQuoteService(repo portsrepo.QuoteRepositoryFacade, txManager portsrepo.TransactionManager, numbers portssvc.NumberSvc, options ...DocumentOption) portssvc.QuoteSvcFacade {
	return &quoteService{
		documentService: newDocumentService(options),
		quoteRepo:       repo,
		txManager:       txManager,
		numbers:         numbers,
	}
}

// Ensure quoteService implements the QuoteSvcFacade interface
var _ portssvc.QuoteSvcFacade = (*quoteService)(nil)

func initialQuoteStatus(raw string) (domain.QuoteStatus, error) {
	if raw == "" {
		return domain.QuoteStatusDraft, nil
	}
	status, err := domain.ParseQuoteStatus(raw)
	if err != nil {
		return "", err
	}
	if status != domain.QuoteStatusDraft && status != domain.QuoteStatusSent {
		return "", fmt.Errorf("%w: a quote can only be created as DRAFT or SENT, got %s", apperrors.ErrValidation, status)
	}
	return status, nil
}

func (s *quoteService) CreateQuote(ctx context.Context, req dto.CreateQuoteRequest, actorID string) (*domain.Quote, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	status, err := initialQuoteStatus(req.Status)
	if err != nil {
		return nil, err
	}
	date, err := s.documentDate(req.Date)
	if err != nil {
		return nil, err
	}
	validUntil := req.ValidUntil.TimePtr()
	if err := checkNotBefore("validUntil", validUntil, date); err != nil {
		return nil, err
	}

	creatorID := actorID
	if req.CreatedByID != "" {
		creatorID = req.CreatedByID
	}
	if err := s.verifyClient(ctx, req.ClientID); err != nil {
		return nil, err
	}
	if err := s.verifyUser(ctx, creatorID); err != nil {
		return nil, err
	}

	quoteID := s.newID()
	items, totals, err := s.price(quoteID, req.Items, req.TaxRate, req.Subtotal)
	if err != nil {
		return nil, err
	}

	now := s.settings.Now()
	quote := domain.Quote{
		QuoteID:            quoteID,
		ClientID:           req.ClientID,
		Date:               date,
		ValidUntil:         validUntil,
		Status:             status,
		Items:              items,
		Totals:             totals,
		Notes:              req.Notes,
		TermsAndConditions: req.TermsAndConditions,
		Version:            1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	today := s.settings.Today()
	err = s.withAllocationRetry(ctx, "create_quote", func() error {
		return s.txManager.WithTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
			number, err := s.numbers.Next(ctx, repos.Sequences, domain.DocumentTypeQuote, today)
			if err != nil {
				return err
			}
			quote.Number = number
			return repos.Quotes.CreateQuote(ctx, quote)
		})
	})
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to create quote", slog.String("quote_id", quoteID))
		return nil, err
	}

	s.LogInfo(ctx, "Quote created", slog.String("quote_id", quote.QuoteID), slog.String("number", quote.Number))
	s.publish(ctx, s.quoteEvent(domain.EventQuoteCreated, quote, "", ""))
	return &quote, nil
}

func (s *quoteService) GetQuoteByID(ctx context.Context, quoteID string) (*domain.Quote, error) {
	quote, err := s.quoteRepo.FindQuoteByID(ctx, quoteID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find quote", slog.String("quote_id", quoteID))
		return nil, err
	}
	return quote, nil
}

func (s *quoteService) ListQuotes(ctx context.Context) ([]domain.Quote, error) {
	quotes, err := s.quoteRepo.ListQuotes(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list quotes")
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	return nonNilQuotes(quotes), nil
}

func (s *quoteService) ListQuotesByClient(ctx context.Context, clientID string) ([]domain.Quote, error) {
	quotes, err := s.quoteRepo.ListQuotesByClient(ctx, clientID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list quotes by client", slog.String("client_id", clientID))
		return nil, fmt.Errorf("failed to list quotes for client %s: %w", clientID, err)
	}
	return nonNilQuotes(quotes), nil
}

func (s *quoteService) ListQuotesByStatus(ctx context.Context, status domain.QuoteStatus) ([]domain.Quote, error) {
	if !status.IsValid() {
		return nil, &domain.StatusParseError{Kind: "quote", Value: string(status)}
	}
	quotes, err := s.quoteRepo.ListQuotesByStatus(ctx, status)
	if err != nil {
		s.LogError(ctx, err, "Failed to list quotes by status", slog.String("status", string(status)))
		return nil, fmt.Errorf("failed to list %s quotes: %w", status, err)
	}
	return nonNilQuotes(quotes), nil
}

func (s *quoteService) UpdateQuote(ctx context.Context, quoteID string, req dto.UpdateQuoteRequest, actorID string) (*domain.Quote, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	var target *domain.QuoteStatus
	if req.Status != nil {
		parsed, err := domain.ParseQuoteStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		target = &parsed
	}

	quote, err := s.quoteRepo.FindQuoteByID(ctx, quoteID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find quote for update", slog.String("quote_id", quoteID))
		return nil, err
	}
	if err := checkVersion(req.Version, quote.Version); err != nil {
		return nil, err
	}

	hasContent := req.ClientID != nil || req.Date != nil || req.ValidUntil != nil || req.Items != nil ||
		req.TaxRate != nil || req.Subtotal != nil || req.Notes != nil || req.TermsAndConditions != nil
	if hasContent && quote.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: quote %s is %s and can no longer be edited", apperrors.ErrInvalidTransition, quote.Number, quote.Status)
	}

	if req.ClientID != nil && *req.ClientID != quote.ClientID {
		if err := s.verifyClient(ctx, *req.ClientID); err != nil {
			return nil, err
		}
		quote.ClientID = *req.ClientID
	}
	if req.Date != nil {
		if quote.Date, err = s.documentDate(req.Date); err != nil {
			return nil, err
		}
	}
	if req.ValidUntil != nil {
		quote.ValidUntil = req.ValidUntil.TimePtr()
	}
	if err := checkNotBefore("validUntil", quote.ValidUntil, quote.Date); err != nil {
		return nil, err
	}
	if req.Notes != nil {
		quote.Notes = *req.Notes
	}
	if req.TermsAndConditions != nil {
		quote.TermsAndConditions = *req.TermsAndConditions
	}

	items, totals, replaceItems, err := s.reprice(quote.QuoteID, quote.Items, quote.Totals, req.Items, req.TaxRate, req.Subtotal)
	if err != nil {
		return nil, err
	}
	quote.Items, quote.Totals = items, totals

	// Restating the current status of an open quote leaves it alone; terminal quotes have no
	// self-transition and are rejected.
	previous := quote.Status
	if target != nil && (*target != quote.Status || quote.Status.IsTerminal()) {
		if err := quote.TransitionTo(*target, domain.TriggerManual); err != nil {
			return nil, err
		}
	}

	quote.LastUpdatedAt = s.settings.Now()
	quote.LastUpdatedBy = actorID

	err = s.txManager.WithTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		return repos.Quotes.UpdateQuote(ctx, *quote, replaceItems)
	})
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to update quote", slog.String("quote_id", quoteID))
		return nil, err
	}
	quote.Version++

	s.LogInfo(ctx, "Quote updated", slog.String("quote_id", quoteID), slog.Bool("items_replaced", replaceItems))
	if quote.Status != previous {
		s.publish(ctx, s.quoteEvent(domain.EventQuoteStatusChanged, *quote, previous, domain.TriggerManual))
	} else {
		s.publish(ctx, s.quoteEvent(domain.EventQuoteUpdated, *quote, previous, domain.TriggerManual))
	}
	return quote, nil
}

func (s *quoteService) ChangeQuoteStatus(ctx context.Context, quoteID string, target domain.QuoteStatus, actorID string) (*domain.Quote, error) {
	quote, err := s.quoteRepo.FindQuoteByID(ctx, quoteID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find quote for status change", slog.String("quote_id", quoteID))
		return nil, err
	}
	previous := quote.Status
	if err := quote.TransitionTo(target, domain.TriggerManual); err != nil {
		return nil, err
	}
	quote.LastUpdatedAt = s.settings.Now()
	quote.LastUpdatedBy = actorID

	if err := s.quoteRepo.UpdateQuoteStatus(ctx, *quote); err != nil {
		s.LogUnexpected(ctx, err, "Failed to update quote status", slog.String("quote_id", quoteID))
		return nil, err
	}
	quote.Version++

	s.LogInfo(ctx, "Quote status changed", slog.String("quote_id", quoteID),
		slog.String("from", string(previous)), slog.String("to", string(target)))
	s.publish(ctx, s.quoteEvent(domain.EventQuoteStatusChanged, *quote, previous, domain.TriggerManual))
	return quote, nil
}

func (s *quoteService) DeleteQuote(ctx context.Context, quoteID string) error {
	if err := s.quoteRepo.DeleteQuote(ctx, quoteID); err != nil {
		s.LogUnexpected(ctx, err, "Failed to delete quote", slog.String("quote_id", quoteID))
		return err
	}
	s.LogInfo(ctx, "Quote deleted", slog.String("quote_id", quoteID))
	s.publish(ctx, s.deletedEvent(domain.EventQuoteDeleted, domain.DocumentTypeQuote, quoteID))
	return nil
}

func nonNilQuotes(quotes []domain.Quote) []domain.Quote {
	if quotes == nil {
		return []domain.Quote{}
	}
	return quotes
}
