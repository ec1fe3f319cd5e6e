package services_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/erp_lite/internal/apperrors"
	"github.com/SscSPs/erp_lite/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_lite/internal/core/ports/repositories"
	"github.com/SscSPs/erp_lite/internal/core/services"
)

// memStore is an in-memory document store with the transactional behaviour of the SQL one:
// transactions are serialised, roll back on error, enforce unique numbers and check versions.
type memStore struct {
	mu       sync.Mutex
	quotes   map[string]domain.Quote
	invoices map[string]domain.Invoice
	seqs     map[string]int

	// failures injected by tests, keyed by operation name
	failures map[string]error
	once     map[string]error
	txCount  int
}

func newMemStore() *memStore {
	return &memStore{
		quotes:   map[string]domain.Quote{},
		invoices: map[string]domain.Invoice{},
		seqs:     map[string]int{},
		failures: map[string]error{},
		once:     map[string]error{},
	}
}

func (s *memStore) failOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// failOnce makes the next call of op fail with err.
func (s *memStore) failOnce(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.once[op] = err
}

func (s *memStore) transactions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txCount
}

func (s *memStore) quoteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.quotes)
}

// WithTx implements portsrepo.TransactionManager.
func (s *memStore) WithTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txCount++

	quotes, invoices, seqs := s.snapshot()
	view := &memView{s: s}
	if err := fn(ctx, portsrepo.TxRepositories{Quotes: view, Invoices: view, Sequences: view}); err != nil {
		s.quotes, s.invoices, s.seqs = quotes, invoices, seqs
		return err
	}
	return nil
}

func (s *memStore) snapshot() (map[string]domain.Quote, map[string]domain.Invoice, map[string]int) {
	quotes := make(map[string]domain.Quote, len(s.quotes))
	for k, v := range s.quotes {
		v.Items = append([]domain.LineItem(nil), v.Items...)
		quotes[k] = v
	}
	invoices := make(map[string]domain.Invoice, len(s.invoices))
	for k, v := range s.invoices {
		v.Items = append([]domain.LineItem(nil), v.Items...)
		invoices[k] = v
	}
	seqs := make(map[string]int, len(s.seqs))
	for k, v := range s.seqs {
		seqs[k] = v
	}
	return quotes, invoices, seqs
}

// repo returns the pool-level repositories; every call is its own transaction.
func (s *memStore) repo() *memPool {
	return &memPool{s: s}
}

func (s *memStore) quote(id string) domain.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quotes[id]
}

func (s *memStore) invoice(id string) domain.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invoices[id]
}

func (s *memStore) invoiceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.invoices)
}

func (s *memStore) sequence(docType domain.DocumentType, year int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seqs[seqKey(docType, year)]
}

func (s *memStore) putQuote(q domain.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[q.QuoteID] = q
}

func (s *memStore) putInvoice(inv domain.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[inv.InvoiceID] = inv
}

func seqKey(docType domain.DocumentType, year int) string {
	return fmt.Sprintf("%s/%d", docType, year)
}

// memView operates on the store while its lock is held.
type memView struct {
	s *memStore
}

var (
	_ portsrepo.QuoteRepositoryFacade   = (*memView)(nil)
	_ portsrepo.InvoiceRepositoryFacade = (*memView)(nil)
	_ portsrepo.SequenceRepository      = (*memView)(nil)
)

func (v *memView) injected(op string) error {
	if err, ok := v.s.once[op]; ok {
		delete(v.s.once, op)
		return err
	}
	return v.s.failures[op]
}

func (v *memView) NextSequence(_ context.Context, docType domain.DocumentType, year int) (int, error) {
	if err := v.injected("NextSequence"); err != nil {
		return 0, err
	}
	key := seqKey(docType, year)
	v.s.seqs[key]++
	return v.s.seqs[key], nil
}

func (v *memView) AdvanceSequence(_ context.Context, docType domain.DocumentType, year int, value int) error {
	key := seqKey(docType, year)
	if v.s.seqs[key] < value {
		v.s.seqs[key] = value
	}
	return nil
}

func (v *memView) FindMaxNumber(_ context.Context, docType domain.DocumentType, prefix string) (string, error) {
	max := ""
	consider := func(number string) {
		if strings.HasPrefix(number, prefix) && number > max {
			max = number
		}
	}
	if docType == domain.DocumentTypeQuote {
		for _, q := range v.s.quotes {
			consider(q.Number)
		}
	} else {
		for _, inv := range v.s.invoices {
			consider(inv.Number)
		}
	}
	return max, nil
}

func (v *memView) FindQuoteByID(_ context.Context, quoteID string) (*domain.Quote, error) {
	q, ok := v.s.quotes[quoteID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	q.Items = append([]domain.LineItem(nil), q.Items...)
	return &q, nil
}

func (v *memView) FindQuoteByIDForUpdate(ctx context.Context, quoteID string) (*domain.Quote, error) {
	return v.FindQuoteByID(ctx, quoteID)
}

func (v *memView) ListQuotes(_ context.Context) ([]domain.Quote, error) {
	return v.filterQuotes(func(domain.Quote) bool { return true }), nil
}

func (v *memView) ListQuotesByClient(_ context.Context, clientID string) ([]domain.Quote, error) {
	return v.filterQuotes(func(q domain.Quote) bool { return q.ClientID == clientID }), nil
}

func (v *memView) ListQuotesByStatus(_ context.Context, status domain.QuoteStatus) ([]domain.Quote, error) {
	if err := v.injected("ListQuotesByStatus"); err != nil {
		return nil, err
	}
	return v.filterQuotes(func(q domain.Quote) bool { return q.Status == status }), nil
}

func (v *memView) filterQuotes(keep func(domain.Quote) bool) []domain.Quote {
	out := []domain.Quote{}
	for _, q := range v.s.quotes {
		if keep(q) {
			q.Items = append([]domain.LineItem(nil), q.Items...)
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func (v *memView) CreateQuote(_ context.Context, quote domain.Quote) error {
	if err := v.injected("CreateQuote"); err != nil {
		return err
	}
	for _, existing := range v.s.quotes {
		if existing.Number == quote.Number {
			return fmt.Errorf("duplicate quote number %s: %w", quote.Number, apperrors.ErrConflict)
		}
	}
	quote.Items = append([]domain.LineItem(nil), quote.Items...)
	v.s.quotes[quote.QuoteID] = quote
	return nil
}

func (v *memView) UpdateQuote(_ context.Context, quote domain.Quote, replaceItems bool) error {
	stored, err := v.checkQuoteVersion(quote)
	if err != nil {
		return err
	}
	if !replaceItems {
		quote.Items = stored.Items
	}
	quote.Number = stored.Number
	quote.Version = stored.Version + 1
	v.s.quotes[quote.QuoteID] = quote
	return nil
}

func (v *memView) UpdateQuoteStatus(_ context.Context, quote domain.Quote) error {
	if err := v.injected("UpdateQuoteStatus"); err != nil {
		return err
	}
	stored, err := v.checkQuoteVersion(quote)
	if err != nil {
		return err
	}
	stored.Status = quote.Status
	stored.LastUpdatedAt = quote.LastUpdatedAt
	stored.LastUpdatedBy = quote.LastUpdatedBy
	stored.Version++
	v.s.quotes[quote.QuoteID] = stored
	return nil
}

func (v *memView) checkQuoteVersion(quote domain.Quote) (domain.Quote, error) {
	stored, ok := v.s.quotes[quote.QuoteID]
	if !ok {
		return domain.Quote{}, apperrors.ErrNotFound
	}
	if stored.Version != quote.Version {
		return domain.Quote{}, fmt.Errorf("quote %s version %d != %d: %w", quote.QuoteID, stored.Version, quote.Version, apperrors.ErrConflict)
	}
	return stored, nil
}

func (v *memView) DeleteQuote(_ context.Context, quoteID string) error {
	if _, ok := v.s.quotes[quoteID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(v.s.quotes, quoteID)
	return nil
}

func (v *memView) FindInvoiceByID(_ context.Context, invoiceID string) (*domain.Invoice, error) {
	inv, ok := v.s.invoices[invoiceID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	inv.Items = append([]domain.LineItem(nil), inv.Items...)
	return &inv, nil
}

func (v *memView) ListInvoices(_ context.Context) ([]domain.Invoice, error) {
	return v.filterInvoices(func(domain.Invoice) bool { return true }), nil
}

func (v *memView) ListInvoicesByClient(_ context.Context, clientID string) ([]domain.Invoice, error) {
	return v.filterInvoices(func(inv domain.Invoice) bool { return inv.ClientID == clientID }), nil
}

func (v *memView) ListInvoicesByStatus(_ context.Context, statuses ...domain.InvoiceStatus) ([]domain.Invoice, error) {
	return v.filterInvoices(func(inv domain.Invoice) bool {
		for _, s := range statuses {
			if inv.Status == s {
				return true
			}
		}
		return false
	}), nil
}

func (v *memView) filterInvoices(keep func(domain.Invoice) bool) []domain.Invoice {
	out := []domain.Invoice{}
	for _, inv := range v.s.invoices {
		if keep(inv) {
			inv.Items = append([]domain.LineItem(nil), inv.Items...)
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func (v *memView) CreateInvoice(_ context.Context, invoice domain.Invoice) error {
	if err := v.injected("CreateInvoice"); err != nil {
		return err
	}
	for _, existing := range v.s.invoices {
		if existing.Number == invoice.Number {
			return fmt.Errorf("duplicate invoice number %s: %w", invoice.Number, apperrors.ErrConflict)
		}
	}
	invoice.Items = append([]domain.LineItem(nil), invoice.Items...)
	v.s.invoices[invoice.InvoiceID] = invoice
	return nil
}

func (v *memView) UpdateInvoice(_ context.Context, invoice domain.Invoice, replaceItems bool) error {
	stored, err := v.checkInvoiceVersion(invoice)
	if err != nil {
		return err
	}
	if !replaceItems {
		invoice.Items = stored.Items
	}
	invoice.Number = stored.Number
	invoice.Version = stored.Version + 1
	v.s.invoices[invoice.InvoiceID] = invoice
	return nil
}

func (v *memView) UpdateInvoiceStatus(_ context.Context, invoice domain.Invoice) error {
	if err := v.injected("UpdateInvoiceStatus"); err != nil {
		return err
	}
	stored, err := v.checkInvoiceVersion(invoice)
	if err != nil {
		return err
	}
	stored.Status = invoice.Status
	stored.PaidDate = invoice.PaidDate
	stored.PaymentMethod = invoice.PaymentMethod
	stored.PaymentNotes = invoice.PaymentNotes
	stored.LastUpdatedAt = invoice.LastUpdatedAt
	stored.LastUpdatedBy = invoice.LastUpdatedBy
	stored.Version++
	v.s.invoices[invoice.InvoiceID] = stored
	return nil
}

func (v *memView) checkInvoiceVersion(invoice domain.Invoice) (domain.Invoice, error) {
	stored, ok := v.s.invoices[invoice.InvoiceID]
	if !ok {
		return domain.Invoice{}, apperrors.ErrNotFound
	}
	if stored.Version != invoice.Version {
		return domain.Invoice{}, fmt.Errorf("invoice %s version %d != %d: %w", invoice.InvoiceID, stored.Version, invoice.Version, apperrors.ErrConflict)
	}
	return stored, nil
}

func (v *memView) DeleteInvoice(_ context.Context, invoiceID string) error {
	if _, ok := v.s.invoices[invoiceID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(v.s.invoices, invoiceID)
	return nil
}

// memPool runs each repository call in its own short transaction.
type memPool struct {
	s *memStore
}

var (
	_ portsrepo.QuoteRepositoryFacade   = (*memPool)(nil)
	_ portsrepo.InvoiceRepositoryFacade = (*memPool)(nil)
)

func (p *memPool) view() (*memView, func()) {
	p.s.mu.Lock()
	return &memView{s: p.s}, p.s.mu.Unlock
}

func (p *memPool) FindQuoteByID(ctx context.Context, id string) (*domain.Quote, error) {
	v, done := p.view()
	defer done()
	return v.FindQuoteByID(ctx, id)
}

func (p *memPool) FindQuoteByIDForUpdate(ctx context.Context, id string) (*domain.Quote, error) {
	return p.FindQuoteByID(ctx, id)
}

func (p *memPool) ListQuotes(ctx context.Context) ([]domain.Quote, error) {
	v, done := p.view()
	defer done()
	return v.ListQuotes(ctx)
}

func (p *memPool) ListQuotesByClient(ctx context.Context, clientID string) ([]domain.Quote, error) {
	v, done := p.view()
	defer done()
	return v.ListQuotesByClient(ctx, clientID)
}

func (p *memPool) ListQuotesByStatus(ctx context.Context, status domain.QuoteStatus) ([]domain.Quote, error) {
	v, done := p.view()
	defer done()
	return v.ListQuotesByStatus(ctx, status)
}

func (p *memPool) CreateQuote(ctx context.Context, quote domain.Quote) error {
	v, done := p.view()
	defer done()
	return v.CreateQuote(ctx, quote)
}

func (p *memPool) UpdateQuote(ctx context.Context, quote domain.Quote, replaceItems bool) error {
	v, done := p.view()
	defer done()
	return v.UpdateQuote(ctx, quote, replaceItems)
}

func (p *memPool) UpdateQuoteStatus(ctx context.Context, quote domain.Quote) error {
	v, done := p.view()
	defer done()
	return v.UpdateQuoteStatus(ctx, quote)
}

func (p *memPool) DeleteQuote(ctx context.Context, id string) error {
	v, done := p.view()
	defer done()
	return v.DeleteQuote(ctx, id)
}

func (p *memPool) FindInvoiceByID(ctx context.Context, id string) (*domain.Invoice, error) {
	v, done := p.view()
	defer done()
	return v.FindInvoiceByID(ctx, id)
}

func (p *memPool) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	v, done := p.view()
	defer done()
	return v.ListInvoices(ctx)
}

func (p *memPool) ListInvoicesByClient(ctx context.Context, clientID string) ([]domain.Invoice, error) {
	v, done := p.view()
	defer done()
	return v.ListInvoicesByClient(ctx, clientID)
}

func (p *memPool) ListInvoicesByStatus(ctx context.Context, statuses ...domain.InvoiceStatus) ([]domain.Invoice, error) {
	v, done := p.view()
	defer done()
	return v.ListInvoicesByStatus(ctx, statuses...)
}

func (p *memPool) CreateInvoice(ctx context.Context, invoice domain.Invoice) error {
	v, done := p.view()
	defer done()
	return v.CreateInvoice(ctx, invoice)
}

func (p *memPool) UpdateInvoice(ctx context.Context, invoice domain.Invoice, replaceItems bool) error {
	v, done := p.view()
	defer done()
	return v.UpdateInvoice(ctx, invoice, replaceItems)
}

func (p *memPool) UpdateInvoiceStatus(ctx context.Context, invoice domain.Invoice) error {
	v, done := p.view()
	defer done()
	return v.UpdateInvoiceStatus(ctx, invoice)
}

func (p *memPool) DeleteInvoice(ctx context.Context, id string) error {
	v, done := p.view()
	defer done()
	return v.DeleteInvoice(ctx, id)
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.DocumentEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, events ...domain.DocumentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return p.err
}

func (p *recordingPublisher) types() []domain.DocumentEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.DocumentEventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// fixedNow is the instant every document test runs at.
var fixedNow = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

func fixedSettings() services.DocumentSettings {
	settings := services.DefaultDocumentSettings()
	settings.Clock = func() time.Time { return fixedNow }
	return settings
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}
