package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/erp_lite/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_lite/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_lite/internal/core/ports/services"
	"github.com/SscSPs/erp_lite/internal/dto"
)

// conversionService implements the ConversionSvc interface
type conversionService struct {
	documentService
	txManager portsrepo.TransactionManager
	numbers   portssvc.NumberSvc
}

// NewConversionService creates the quote to invoice conversion service. The eligibility policy
// and the initial invoice status come from the DocumentSettings option.
func NewConversionService(txManager portsrepo.TransactionManager, numbers portssvc.NumberSvc, options ...DocumentOption) portssvc.ConversionSvc {
	return &conversionService{
		documentService: newDocumentService(options),
		txManager:       txManager,
		numbers:         numbers,
	}
}

// Ensure conversionService implements the ConversionSvc interface
var _ portssvc.ConversionSvc = (*conversionService)(nil)

// ConvertQuoteToInvoice locks the quote, allocates the invoice number, stores the invoice and
// marks the quote CONVERTED, all in one transaction.
func (s *conversionService) ConvertQuoteToInvoice(ctx context.Context, quoteID string, req dto.ConvertQuoteRequest, actorID string) (*domain.Invoice, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	date, err := s.documentDate(req.Date)
	if err != nil {
		return nil, err
	}
	dueDate := req.DueDate.TimePtr()
	if err := checkNotBefore("dueDate", dueDate, date); err != nil {
		return nil, err
	}
	if req.CreatedByID != "" {
		if err := s.verifyUser(ctx, req.CreatedByID); err != nil {
			return nil, err
		}
	}

	today := s.settings.Today()
	policy := s.settings.ConversionPolicy

	var (
		invoice  domain.Invoice
		quote    domain.Quote
		previous domain.QuoteStatus
	)
	err = s.withAllocationRetry(ctx, "convert_quote", func() error {
		return s.txManager.WithTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
			q, err := repos.Quotes.FindQuoteByIDForUpdate(ctx, quoteID)
			if err != nil {
				return err
			}
			if err := policy.CheckQuote(q); err != nil {
				return err
			}

			number, err := s.numbers.Next(ctx, repos.Sequences, domain.DocumentTypeInvoice, today)
			if err != nil {
				return err
			}

			inv := s.buildInvoice(q, number, date, req, actorID)
			inv.DueDate = dueDate
			if err := repos.Invoices.CreateInvoice(ctx, inv); err != nil {
				return err
			}

			previous = q.Status
			if err := q.TransitionTo(domain.QuoteStatusConverted, domain.TriggerConversion); err != nil {
				return err
			}
			q.LastUpdatedAt = inv.CreatedAt
			q.LastUpdatedBy = actorID
			if err := repos.Quotes.UpdateQuoteStatus(ctx, *q); err != nil {
				return err
			}
			q.Version++

			invoice, quote = inv, *q
			return nil
		})
	})
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to convert quote to invoice", slog.String("quote_id", quoteID))
		return nil, err
	}

	s.LogInfo(ctx, "Quote converted to invoice",
		slog.String("quote_id", quote.QuoteID),
		slog.String("quote_number", quote.Number),
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("invoice_number", invoice.Number))
	s.publish(ctx,
		s.quoteEvent(domain.EventQuoteConverted, quote, previous, domain.TriggerConversion),
		s.invoiceEvent(domain.EventInvoiceCreated, invoice, "", domain.TriggerConversion),
	)
	return &invoice, nil
}

func (s *conversionService) buildInvoice(q *domain.Quote, number string, date time.Time, req dto.ConvertQuoteRequest, actorID string) domain.Invoice {
	invoiceID := s.newID()
	quoteRef := q.QuoteID

	creatorID := q.CreatedBy
	if req.CreatedByID != "" {
		creatorID = req.CreatedByID
	}
	notes := q.Notes
	if req.Notes != nil {
		notes = *req.Notes
	}
	terms := q.TermsAndConditions
	if req.TermsAndConditions != nil {
		terms = *req.TermsAndConditions
	}

	now := s.settings.Now()
	return domain.Invoice{
		InvoiceID:          invoiceID,
		Number:             number,
		ClientID:           q.ClientID,
		QuoteID:            &quoteRef,
		Date:               date,
		Status:             s.settings.ConversionPolicy.InvoiceStatus,
		Items:              domain.CloneItems(q.Items, invoiceID, s.newID),
		Totals:             q.Totals,
		Notes:              notes,
		TermsAndConditions: terms,
		Version:            1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
}
