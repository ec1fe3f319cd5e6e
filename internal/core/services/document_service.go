package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/erp_lite/internal/apperrors"
	"github.com/SscSPs/erp_lite/internal/core/domain"
	"github.com/SscSPs/erp_lite/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/erp_lite/internal/core/ports/repositories"
	"github.com/SscSPs/erp_lite/internal/dto"
	"github.com/SscSPs/erp_lite/internal/platform/config"
	"github.com/SscSPs/erp_lite/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SystemActor is recorded as the updater of documents changed by the sweeper.
const SystemActor = "system:sweeper"

// DocumentSettings holds the business parameters shared by the document services.
type DocumentSettings struct {
	// Location defines which calendar day "today" is.
	Location *time.Location
	Clock    func() time.Time

	ConversionPolicy domain.ConversionPolicy

	// AllocationRetries bounds how often a create or convert transaction is replayed after
	// losing a number allocation race.
	AllocationRetries int
}

// DefaultDocumentSettings uses UTC, the wall clock and the default conversion policy.
func DefaultDocumentSettings() DocumentSettings {
	return DocumentSettings{
		Location:          time.UTC,
		Clock:             time.Now,
		ConversionPolicy:  domain.DefaultConversionPolicy(),
		AllocationRetries: 3,
	}
}

// NewDocumentSettings derives the settings from configuration.
func NewDocumentSettings(cfg *config.Config) (DocumentSettings, error) {
	settings := DefaultDocumentSettings()
	policy, err := domain.ParseConversionPolicy(cfg.ConversionEligibleStatuses, cfg.ConvertedInvoiceStatus)
	if err != nil {
		return DocumentSettings{}, fmt.Errorf("invalid conversion policy: %w", err)
	}
	settings.ConversionPolicy = policy
	if cfg.Location != nil {
		settings.Location = cfg.Location
	}
	if cfg.NumberAllocationRetries > 0 {
		settings.AllocationRetries = cfg.NumberAllocationRetries
	}
	return settings, nil
}

// Now returns the current instant in UTC.
func (s DocumentSettings) Now() time.Time {
	return s.Clock().UTC()
}

// Today returns the current calendar date in Location, as midnight UTC.
func (s DocumentSettings) Today() time.Time {
	return domain.DateOf(s.Clock(), s.Location)
}

// documentService carries the collaborators shared by the quote, invoice and conversion
// services.
type documentService struct {
	BaseService
	clients   portsrepo.ClientReader
	users     portsrepo.UserReader
	publisher gateways.EventPublisher
	settings  DocumentSettings
	newID     func() string
}

// DocumentOption is a functional option for configuring the document services
type DocumentOption func(*documentService)

// WithClientLookup makes creation verify that the client exists.
func WithClientLookup(repo portsrepo.ClientReader) DocumentOption {
	return func(s *documentService) {
		s.clients = repo
	}
}

// WithUserLookup makes creation verify that the creator exists.
func WithUserLookup(repo portsrepo.UserReader) DocumentOption {
	return func(s *documentService) {
		s.users = repo
	}
}

// WithEventPublisher sets where committed document events are sent.
func WithEventPublisher(publisher gateways.EventPublisher) DocumentOption {
	return func(s *documentService) {
		s.publisher = publisher
	}
}

// WithDocumentSettings overrides the default settings.
func WithDocumentSettings(settings DocumentSettings) DocumentOption {
	return func(s *documentService) {
		s.settings = settings
	}
}

// WithIDGenerator replaces uuid.NewString for document and item ids.
func WithIDGenerator(newID func() string) DocumentOption {
	return func(s *documentService) {
		s.newID = newID
	}
}

func newDocumentService(options []DocumentOption) documentService {
	svc := documentService{
		settings: DefaultDocumentSettings(),
		newID:    uuid.NewString,
	}
	for _, option := range options {
		option(&svc)
	}
	if svc.settings.Clock == nil {
		svc.settings.Clock = time.Now
	}
	if svc.settings.Location == nil {
		svc.settings.Location = time.UTC
	}
	if len(svc.settings.ConversionPolicy.Eligible()) == 0 {
		svc.settings.ConversionPolicy = domain.DefaultConversionPolicy()
	}
	return svc
}

func (s *documentService) verifyClient(ctx context.Context, clientID string) error {
	if s.clients == nil {
		return nil
	}
	if _, err := s.clients.FindClientByID(ctx, clientID); err != nil {
		return fmt.Errorf("client %s: %w", clientID, err)
	}
	return nil
}

func (s *documentService) verifyUser(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: creator is required", apperrors.ErrValidation)
	}
	if s.users == nil {
		return nil
	}
	if _, err := s.users.FindUserByID(ctx, userID); err != nil {
		return fmt.Errorf("user %s: %w", userID, err)
	}
	return nil
}

// documentDate resolves an optional document date, defaulting to today. Future dates are rejected.
func (s *documentService) documentDate(d *dto.Date) (time.Time, error) {
	today := s.settings.Today()
	if d == nil {
		return today, nil
	}
	if d.After(today) {
		return time.Time{}, fmt.Errorf("%w: date %s is in the future", apperrors.ErrValidation, d.Format(time.DateOnly))
	}
	return d.Time, nil
}

func checkNotBefore(field string, value *time.Time, date time.Time) error {
	if value != nil && value.Before(date) {
		return fmt.Errorf("%w: %s %s is before the document date %s",
			apperrors.ErrValidation, field, value.Format(time.DateOnly), date.Format(time.DateOnly))
	}
	return nil
}

// price computes the items and totals of a new item set. Without items the manual subtotal is
// kept and tax and total are derived from it.
func (s *documentService) price(documentID string, reqItems []dto.LineItemRequest, taxRate decimal.Decimal, manualSubtotal *decimal.Decimal) ([]domain.LineItem, domain.Totals, error) {
	if len(reqItems) == 0 {
		subtotal := decimal.Zero
		if manualSubtotal != nil {
			subtotal = *manualSubtotal
		}
		totals, err := accounting.ManualTotals(subtotal, taxRate)
		return []domain.LineItem{}, totals, err
	}
	items, totals, err := accounting.CalculateTotals(dto.ToLineItems(reqItems), taxRate)
	if err != nil {
		return nil, domain.Totals{}, err
	}
	for i := range items {
		items[i].ItemID = s.newID()
		items[i].DocumentID = documentID
	}
	return items, totals, nil
}

// reprice applies the item and tax fields of a partial update. replaced reports whether the
// stored items must be swapped for the returned ones.
func (s *documentService) reprice(documentID string, current []domain.LineItem, totals domain.Totals,
	reqItems *[]dto.LineItemRequest, taxRate, manualSubtotal *decimal.Decimal) (items []domain.LineItem, newTotals domain.Totals, replaced bool, err error) {
	rate := totals.TaxRate
	if taxRate != nil {
		rate = *taxRate
	}

	switch {
	case reqItems != nil:
		items, newTotals, err = s.price(documentID, *reqItems, rate, manualSubtotal)
		return items, newTotals, true, err
	case len(current) > 0:
		if taxRate == nil {
			return current, totals, false, nil
		}
		items, newTotals, err = accounting.CalculateTotals(current, rate)
		return items, newTotals, false, err
	case taxRate != nil || manualSubtotal != nil:
		subtotal := totals.Subtotal
		if manualSubtotal != nil {
			subtotal = *manualSubtotal
		}
		newTotals, err = accounting.ManualTotals(subtotal, rate)
		return current, newTotals, false, err
	default:
		return current, totals, false, nil
	}
}

// withAllocationRetry replays fn while it fails with apperrors.ErrConflict, at most
// AllocationRetries times in total.
func (s *documentService) withAllocationRetry(ctx context.Context, operation string, fn func() error) error {
	attempts := s.settings.AllocationRetries
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, apperrors.ErrConflict) || ctx.Err() != nil {
			return err
		}
		s.GetLogger(ctx).Warn("Retrying after allocation conflict",
			slog.String("operation", operation),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
	}
	return err
}

// publish hands events to the publisher. Events describe committed state, so a delivery
// failure is logged and never undoes the operation.
func (s *documentService) publish(ctx context.Context, events ...domain.DocumentEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.LogError(ctx, err, "Failed to publish document events", slog.Int("count", len(events)))
	}
}

func (s *documentService) quoteEvent(eventType domain.DocumentEventType, q domain.Quote, previous domain.QuoteStatus, trigger domain.TransitionTrigger) domain.DocumentEvent {
	return domain.DocumentEvent{
		EventID:        s.newID(),
		Type:           eventType,
		OccurredAt:     s.settings.Now(),
		DocumentType:   domain.DocumentTypeQuote,
		DocumentID:     q.QuoteID,
		Number:         q.Number,
		PreviousStatus: string(previous),
		Status:         string(q.Status),
		Trigger:        trigger,
		Quote:          &q,
	}
}

func (s *documentService) invoiceEvent(eventType domain.DocumentEventType, inv domain.Invoice, previous domain.InvoiceStatus, trigger domain.TransitionTrigger) domain.DocumentEvent {
	return domain.DocumentEvent{
		EventID:        s.newID(),
		Type:           eventType,
		OccurredAt:     s.settings.Now(),
		DocumentType:   domain.DocumentTypeInvoice,
		DocumentID:     inv.InvoiceID,
		Number:         inv.Number,
		PreviousStatus: string(previous),
		Status:         string(inv.Status),
		Trigger:        trigger,
		Invoice:        &inv,
	}
}

// deletedEvent carries only the identity of a removed document.
func (s *documentService) deletedEvent(eventType domain.DocumentEventType, documentType domain.DocumentType, documentID string) domain.DocumentEvent {
	return domain.DocumentEvent{
		EventID:      s.newID(),
		Type:         eventType,
		OccurredAt:   s.settings.Now(),
		DocumentType: documentType,
		DocumentID:   documentID,
	}
}

func checkVersion(expected *int64, actual int64) error {
	if expected != nil && *expected != actual {
		return fmt.Errorf("%w: document is at version %d, update was based on %d", apperrors.ErrConflict, actual, *expected)
	}
	return nil
}
