package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/erp_lite/internal/apperrors"
	"github.com/SscSPs/erp_lite/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_lite/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_lite/internal/core/ports/services"
	"github.com/SscSPs/erp_lite/internal/dto"
)

// invoiceService implements the InvoiceSvcFacade interface
type invoiceService struct {
	documentService
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	txManager   portsrepo.TransactionManager
	numbers     portssvc.NumberSvc
	conversion  portssvc.ConversionSvc
}

// NewInvoiceService creates a new invoice service. Invoices created from a quote are delegated
// to conversion.
func NewInvoiceService(repo portsrepo.InvoiceRepositoryFacade, txManager portsrepo.TransactionManager, numbers portssvc.NumberSvc, conversion portssvc.ConversionSvc, options ...DocumentOption) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		documentService: newDocumentService(options),
		invoiceRepo:     repo,
		txManager:       txManager,
		numbers:         numbers,
		conversion:      conversion,
	}
}

// Ensure invoiceService implements the InvoiceSvcFacade interface
var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

func initialInvoiceStatus(raw string) (domain.InvoiceStatus, error) {
	if raw == "" {
		return domain.InvoiceStatusDraft, nil
	}
	status, err := domain.ParseInvoiceStatus(raw)
	if err != nil {
		return "", err
	}
	if status != domain.InvoiceStatusDraft && status != domain.InvoiceStatusSent {
		return "", fmt.Errorf("%w: an invoice can only be created as DRAFT or SENT, got %s", apperrors.ErrValidation, status)
	}
	return status, nil
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, actorID string) (*domain.Invoice, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	status, err := initialInvoiceStatus(req.Status)
	if err != nil {
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

	invoiceID := s.newID()
	items, totals, err := s.price(invoiceID, req.Items, req.TaxRate, req.Subtotal)
	if err != nil {
		return nil, err
	}

	now := s.settings.Now()
	invoice := domain.Invoice{
		InvoiceID:          invoiceID,
		ClientID:           req.ClientID,
		Date:               date,
		DueDate:            dueDate,
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
	err = s.withAllocationRetry(ctx, "create_invoice", func() error {
		return s.txManager.WithTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
			number, err := s.numbers.Next(ctx, repos.Sequences, domain.DocumentTypeInvoice, today)
			if err != nil {
				return err
			}
			invoice.Number = number
			return repos.Invoices.CreateInvoice(ctx, invoice)
		})
	})
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to create invoice", slog.String("invoice_id", invoiceID))
		return nil, err
	}

	s.LogInfo(ctx, "Invoice created", slog.String("invoice_id", invoice.InvoiceID), slog.String("number", invoice.Number))
	s.publish(ctx, s.invoiceEvent(domain.EventInvoiceCreated, invoice, "", ""))
	return &invoice, nil
}

func (s *invoiceService) CreateInvoiceFromQuote(ctx context.Context, req dto.CreateInvoiceFromQuoteRequest, actorID string) (*domain.Invoice, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.conversion.ConvertQuoteToInvoice(ctx, req.QuoteID, req.ConvertQuoteRequest, actorID)
}

func (s *invoiceService) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find invoice", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	return invoice, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	invoices, err := s.invoiceRepo.ListInvoices(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices")
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return nonNilInvoices(invoices), nil
}

func (s *invoiceService) ListInvoicesByClient(ctx context.Context, clientID string) ([]domain.Invoice, error) {
	invoices, err := s.invoiceRepo.ListInvoicesByClient(ctx, clientID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices by client", slog.String("client_id", clientID))
		return nil, fmt.Errorf("failed to list invoices for client %s: %w", clientID, err)
	}
	return nonNilInvoices(invoices), nil
}

func (s *invoiceService) ListInvoicesByStatus(ctx context.Context, status domain.InvoiceStatus) ([]domain.Invoice, error) {
	if !status.IsValid() {
		return nil, &domain.StatusParseError{Kind: "invoice", Value: string(status)}
	}
	invoices, err := s.invoiceRepo.ListInvoicesByStatus(ctx, status)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices by status", slog.String("status", string(status)))
		return nil, fmt.Errorf("failed to list %s invoices: %w", status, err)
	}
	return nonNilInvoices(invoices), nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, invoiceID string, req dto.UpdateInvoiceRequest, actorID string) (*domain.Invoice, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	var target *domain.InvoiceStatus
	if req.Status != nil {
		parsed, err := domain.ParseInvoiceStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		target = &parsed
	}
	if req.PaidDate != nil && (target == nil || *target != domain.InvoiceStatusPaid) {
		return nil, fmt.Errorf("%w: paidDate can only be set together with status PAID", apperrors.ErrValidation)
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find invoice for update", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	if err := checkVersion(req.Version, invoice.Version); err != nil {
		return nil, err
	}

	hasContent := req.ClientID != nil || req.Date != nil || req.DueDate != nil || req.Items != nil ||
		req.TaxRate != nil || req.Subtotal != nil || req.Notes != nil || req.TermsAndConditions != nil
	if hasContent && invoice.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: invoice %s is %s and can no longer be edited", apperrors.ErrInvalidTransition, invoice.Number, invoice.Status)
	}

	if req.ClientID != nil && *req.ClientID != invoice.ClientID {
		if err := s.verifyClient(ctx, *req.ClientID); err != nil {
			return nil, err
		}
		invoice.ClientID = *req.ClientID
	}
	if req.Date != nil {
		if invoice.Date, err = s.documentDate(req.Date); err != nil {
			return nil, err
		}
	}
	if req.DueDate != nil {
		invoice.DueDate = req.DueDate.TimePtr()
	}
	if err := checkNotBefore("dueDate", invoice.DueDate, invoice.Date); err != nil {
		return nil, err
	}
	if req.Notes != nil {
		invoice.Notes = *req.Notes
	}
	if req.TermsAndConditions != nil {
		invoice.TermsAndConditions = *req.TermsAndConditions
	}

	items, totals, replaceItems, err := s.reprice(invoice.InvoiceID, invoice.Items, invoice.Totals, req.Items, req.TaxRate, req.Subtotal)
	if err != nil {
		return nil, err
	}
	invoice.Items, invoice.Totals = items, totals

	// Restating the current status of an open invoice leaves it alone, except PARTIALLY_PAID
	// which records another partial payment. Terminal invoices have no self-transition.
	previous := invoice.Status
	if target != nil && (*target != invoice.Status || *target == domain.InvoiceStatusPartiallyPaid || invoice.Status.IsTerminal()) {
		if err := s.transition(invoice, *target, req.PaidDate.TimePtr()); err != nil {
			return nil, err
		}
	}

	invoice.LastUpdatedAt = s.settings.Now()
	invoice.LastUpdatedBy = actorID

	err = s.txManager.WithTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		return repos.Invoices.UpdateInvoice(ctx, *invoice, replaceItems)
	})
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to update invoice", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	invoice.Version++

	s.LogInfo(ctx, "Invoice updated", slog.String("invoice_id", invoiceID), slog.Bool("items_replaced", replaceItems))
	if target != nil && (previous != *target || *target == domain.InvoiceStatusPartiallyPaid) {
		s.publish(ctx, s.invoiceEvent(domain.EventInvoiceStatusChanged, *invoice, previous, domain.TriggerManual))
	} else {
		s.publish(ctx, s.invoiceEvent(domain.EventInvoiceUpdated, *invoice, previous, domain.TriggerManual))
	}
	return invoice, nil
}

func (s *invoiceService) ChangeInvoiceStatus(ctx context.Context, invoiceID string, target domain.InvoiceStatus, paidDate *time.Time, actorID string) (*domain.Invoice, error) {
	if paidDate != nil && target != domain.InvoiceStatusPaid {
		return nil, fmt.Errorf("%w: paidDate can only be set together with status PAID", apperrors.ErrValidation)
	}
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find invoice for status change", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	previous := invoice.Status
	if err := s.transition(invoice, target, paidDate); err != nil {
		return nil, err
	}
	return s.saveStatus(ctx, invoice, previous, actorID)
}

func (s *invoiceService) MarkInvoiceAsPaid(ctx context.Context, invoiceID string, req dto.MarkAsPaidRequest, actorID string) (*domain.Invoice, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find invoice to mark as paid", slog.String("invoice_id", invoiceID))
		return nil, err
	}

	paidDate, err := s.paidDate(req.PaidDate.TimePtr())
	if err != nil {
		return nil, err
	}
	previous := invoice.Status
	if err := invoice.MarkPaid(paidDate, req.PaymentMethod, req.Notes); err != nil {
		return nil, err
	}
	return s.saveStatus(ctx, invoice, previous, actorID)
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, invoiceID string) error {
	if err := s.invoiceRepo.DeleteInvoice(ctx, invoiceID); err != nil {
		s.LogUnexpected(ctx, err, "Failed to delete invoice", slog.String("invoice_id", invoiceID))
		return err
	}
	s.LogInfo(ctx, "Invoice deleted", slog.String("invoice_id", invoiceID))
	s.publish(ctx, s.deletedEvent(domain.EventInvoiceDeleted, domain.DocumentTypeInvoice, invoiceID))
	return nil
}

// transition applies a manual status change. Entering PAID records paidDate, defaulting to today.
func (s *invoiceService) transition(invoice *domain.Invoice, target domain.InvoiceStatus, paidDate *time.Time) error {
	if target != domain.InvoiceStatusPaid {
		return invoice.TransitionTo(target, domain.TriggerManual, s.settings.Today())
	}
	paid, err := s.paidDate(paidDate)
	if err != nil {
		return err
	}
	return invoice.MarkPaid(paid, invoice.PaymentMethod, invoice.PaymentNotes)
}

func (s *invoiceService) paidDate(requested *time.Time) (time.Time, error) {
	today := s.settings.Today()
	if requested == nil {
		return today, nil
	}
	if requested.After(today) {
		return time.Time{}, fmt.Errorf("%w: paid date %s is in the future", apperrors.ErrValidation, requested.Format(time.DateOnly))
	}
	return *requested, nil
}

func (s *invoiceService) saveStatus(ctx context.Context, invoice *domain.Invoice, previous domain.InvoiceStatus, actorID string) (*domain.Invoice, error) {
	invoice.LastUpdatedAt = s.settings.Now()
	invoice.LastUpdatedBy = actorID

	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, *invoice); err != nil {
		s.LogUnexpected(ctx, err, "Failed to update invoice status", slog.String("invoice_id", invoice.InvoiceID))
		return nil, err
	}
	invoice.Version++

	s.LogInfo(ctx, "Invoice status changed", slog.String("invoice_id", invoice.InvoiceID),
		slog.String("from", string(previous)), slog.String("to", string(invoice.Status)))
	s.publish(ctx, s.invoiceEvent(domain.EventInvoiceStatusChanged, *invoice, previous, domain.TriggerManual))
	return invoice, nil
}

func nonNilInvoices(invoices []domain.Invoice) []domain.Invoice {
	if invoices == nil {
		return []domain.Invoice{}
	}
	return invoices
}
