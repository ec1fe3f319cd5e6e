package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/erp_lite/internal/apperrors"
	"github.com/SscSPs/erp_lite/internal/core/domain"
	"github.com/SscSPs/erp_lite/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/erp_lite/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_lite/internal/core/ports/services"
)

// ErrSweepInProgress is returned when a sweep of the same kind is already running, in this
// process or, with a Locker, in any other.
var ErrSweepInProgress = errors.New("sweep already in progress")

// DefaultSweepLockTTL bounds how long a crashed sweeper can block the next cycle.
const DefaultSweepLockTTL = 10 * time.Minute

// sweeperService implements the SweeperSvc interface
type sweeperService struct {
	documentService
	quoteRepo   portsrepo.QuoteRepositoryFacade
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	locker      gateways.Locker
	lockTTL     time.Duration
	recorder    gateways.SweepRecorder

	quoteMu   sync.Mutex
	invoiceMu sync.Mutex
}

// SweeperOption is a functional option for configuring the sweeper
type SweeperOption func(*sweeperService)

// WithSweepLocker adds a distributed lock so only one process sweeps at a time.
func WithSweepLocker(locker gateways.Locker, ttl time.Duration) SweeperOption {
	return func(s *sweeperService) {
		s.locker = locker
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

// WithSweepRecorder reports every pass to recorder.
func WithSweepRecorder(recorder gateways.SweepRecorder) SweeperOption {
	return func(s *sweeperService) {
		s.recorder = recorder
	}
}

// WithSweepDocumentOptions applies document options (settings, publisher) to the sweeper.
func WithSweepDocumentOptions(options ...DocumentOption) SweeperOption {
	return func(s *sweeperService) {
		for _, option := range options {
			option(&s.documentService)
		}
	}
}

// NewSweeperService creates the status sweeper.
func NewSweeperService(quoteRepo portsrepo.QuoteRepositoryFacade, invoiceRepo portsrepo.InvoiceRepositoryFacade, options ...SweeperOption) portssvc.SweeperSvc {
	svc := &sweeperService{
		documentService: newDocumentService(nil),
		quoteRepo:       quoteRepo,
		invoiceRepo:     invoiceRepo,
		lockTTL:         DefaultSweepLockTTL,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure sweeperService implements the SweeperSvc interface
var _ portssvc.SweeperSvc = (*sweeperService)(nil)

func (s *sweeperService) SweepExpiredQuotes(ctx context.Context) (domain.SweepResult, error) {
	return s.sweep(ctx, domain.DocumentTypeQuote, &s.quoteMu, s.expireQuotes)
}

func (s *sweeperService) SweepOverdueInvoices(ctx context.Context) (domain.SweepResult, error) {
	return s.sweep(ctx, domain.DocumentTypeInvoice, &s.invoiceMu, s.flagOverdueInvoices)
}

// Run performs both sweeps. A failure of one does not prevent the other.
func (s *sweeperService) Run(ctx context.Context) ([]domain.SweepResult, error) {
	quotes, quoteErr := s.SweepExpiredQuotes(ctx)
	invoices, invoiceErr := s.SweepOverdueInvoices(ctx)
	return []domain.SweepResult{quotes, invoices}, errors.Join(quoteErr, invoiceErr)
}

func (s *sweeperService) sweep(ctx context.Context, kind domain.DocumentType, mu *sync.Mutex,
	pass func(ctx context.Context, today time.Time) (domain.SweepResult, error)) (domain.SweepResult, error) {
	logger := s.GetLogger(ctx).With(slog.String("sweep", strings.ToLower(string(kind))))

	if !mu.TryLock() {
		logger.Warn("Sweep skipped, previous cycle still running")
		return domain.SweepResult{Kind: kind}, ErrSweepInProgress
	}
	defer mu.Unlock()

	if s.locker != nil {
		key := "erp:sweeper:" + strings.ToLower(string(kind))
		lease, acquired, err := s.locker.TryLock(ctx, key, s.lockTTL)
		if err != nil {
			return domain.SweepResult{Kind: kind}, fmt.Errorf("failed to acquire sweep lock %s: %w", key, err)
		}
		if !acquired {
			logger.Warn("Sweep skipped, lock held by another process", slog.String("lock", key))
			return domain.SweepResult{Kind: kind}, ErrSweepInProgress
		}
		var stopRefresh func()
		ctx, stopRefresh = s.keepLease(ctx, logger.With(slog.String("lock", key)), lease)
		defer func() {
			stopRefresh()
			if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
				logger.Error("Failed to release sweep lock", slog.String("lock", key), slog.String("error", err.Error()))
			}
		}()
	}

	start := time.Now()
	result, err := pass(ctx, s.settings.Today())
	if cause := context.Cause(ctx); err != nil && errors.Is(cause, gateways.ErrLockLost) {
		err = fmt.Errorf("sweep aborted: %w", cause)
	}
	result.Kind = kind
	if s.recorder != nil {
		s.recorder.RecordSweep(result, time.Since(start), err)
	}
	logger.Info("Sweep finished",
		slog.Int("examined", result.Examined),
		slog.Int("updated", result.Updated),
		slog.Int("failed", result.Failed))
	return result, err
}

// keepLease refreshes lease every third of the lock TTL until stop is called. When the lease
// is lost the returned context is cancelled with gateways.ErrLockLost as its cause, so the
// pass stops before another process starts sweeping the same documents.
func (s *sweeperService) keepLease(ctx context.Context, logger *slog.Logger, lease gateways.Lease) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(ctx)
	interval := s.lockTTL / 3
	if interval <= 0 {
		interval = time.Millisecond
	}
	stopped := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stopped:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				err := lease.Refresh(ctx, s.lockTTL)
				switch {
				case err == nil:
				case errors.Is(err, gateways.ErrLockLost):
					logger.Error("Sweep lock lost, aborting pass")
					cancel(err)
					return
				default:
					logger.Warn("Failed to refresh sweep lock", slog.String("error", err.Error()))
				}
			}
		}
	}()
	return ctx, func() {
		close(stopped)
		<-done
		cancel(nil)
	}
}

func (s *sweeperService) expireQuotes(ctx context.Context, today time.Time) (domain.SweepResult, error) {
	var result domain.SweepResult
	quotes, err := s.quoteRepo.ListQuotesByStatus(ctx, domain.QuoteStatusSent)
	if err != nil {
		return result, fmt.Errorf("failed to list sent quotes: %w", err)
	}
	result.Examined = len(quotes)

	var events []domain.DocumentEvent
	for i := range quotes {
		if err := ctx.Err(); err != nil {
			s.publish(ctx, events...)
			return result, err
		}
		quote := &quotes[i]
		if !quote.IsExpirable(today) {
			continue
		}
		previous := quote.Status
		if err := quote.TransitionTo(domain.QuoteStatusExpired, domain.TriggerSweep); err != nil {
			result.Failed++
			s.logSkipped(ctx, err, "quote", quote.QuoteID, quote.Number)
			continue
		}
		quote.LastUpdatedAt = s.settings.Now()
		quote.LastUpdatedBy = SystemActor
		if err := s.quoteRepo.UpdateQuoteStatus(ctx, *quote); err != nil {
			result.Failed++
			s.logSkipped(ctx, err, "quote", quote.QuoteID, quote.Number)
			continue
		}
		quote.Version++
		result.Updated++
		events = append(events, s.quoteEvent(domain.EventQuoteStatusChanged, *quote, previous, domain.TriggerSweep))
	}
	s.publish(ctx, events...)
	return result, nil
}

func (s *sweeperService) flagOverdueInvoices(ctx context.Context, today time.Time) (domain.SweepResult, error) {
	var result domain.SweepResult
	invoices, err := s.invoiceRepo.ListInvoicesByStatus(ctx, domain.InvoiceStatusSent, domain.InvoiceStatusPartiallyPaid)
	if err != nil {
		return result, fmt.Errorf("failed to list unpaid invoices: %w", err)
	}
	result.Examined = len(invoices)

	var events []domain.DocumentEvent
	for i := range invoices {
		if err := ctx.Err(); err != nil {
			s.publish(ctx, events...)
			return result, err
		}
		invoice := &invoices[i]
		if !invoice.IsOverdue(today) {
			continue
		}
		previous := invoice.Status
		if err := invoice.TransitionTo(domain.InvoiceStatusOverdue, domain.TriggerSweep, today); err != nil {
			result.Failed++
			s.logSkipped(ctx, err, "invoice", invoice.InvoiceID, invoice.Number)
			continue
		}
		invoice.LastUpdatedAt = s.settings.Now()
		invoice.LastUpdatedBy = SystemActor
		if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, *invoice); err != nil {
			result.Failed++
			s.logSkipped(ctx, err, "invoice", invoice.InvoiceID, invoice.Number)
			continue
		}
		invoice.Version++
		result.Updated++
		events = append(events, s.invoiceEvent(domain.EventInvoiceStatusChanged, *invoice, previous, domain.TriggerSweep))
	}
	s.publish(ctx, events...)
	return result, nil
}

func (s *sweeperService) logSkipped(ctx context.Context, err error, kind, id, number string) {
	level := slog.LevelError
	if errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrNotFound) {
		// Changed or deleted since it was listed; the next cycle sees the new state.
		level = slog.LevelWarn
	}
	s.GetLogger(ctx).Log(ctx, level, "Sweep skipped document",
		slog.String("document_type", kind),
		slog.String("document_id", id),
		slog.String("number", number),
		slog.String("error", err.Error()))
}
