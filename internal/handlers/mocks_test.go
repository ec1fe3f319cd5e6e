package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/erp_lite/internal/core/domain"
	portssvc "github.com/SscSPs/erp_lite/internal/core/ports/services"
	"github.com/SscSPs/erp_lite/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock QuoteService ---
type MockQuoteService struct {
	mock.Mock
}

func (m *MockQuoteService) quote(args mock.Arguments) (*domain.Quote, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

func (m *MockQuoteService) quotes(args mock.Arguments) ([]domain.Quote, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Quote), args.Error(1)
}

func (m *MockQuoteService) GetQuoteByID(ctx context.Context, quoteID string) (*domain.Quote, error) {
	return m.quote(m.Called(ctx, quoteID))
}
func (m *MockQuoteService) ListQuotes(ctx context.Context) ([]domain.Quote, error) {
	return m.quotes(m.Called(ctx))
}
func (m *MockQuoteService) ListQuotesByClient(ctx context.Context, clientID string) ([]domain.Quote, error) {
	return m.quotes(m.Called(ctx, clientID))
}
func (m *MockQuoteService) ListQuotesByStatus(ctx context.Context, status domain.QuoteStatus) ([]domain.Quote, error) {
	return m.quotes(m.Called(ctx, status))
}
func (m *MockQuoteService) CreateQuote(ctx context.Context, req dto.CreateQuoteRequest, actorID string) (*domain.Quote, error) {
	return m.quote(m.Called(ctx, req, actorID))
}
func (m *MockQuoteService) UpdateQuote(ctx context.Context, quoteID string, req dto.UpdateQuoteRequest, actorID string) (*domain.Quote, error) {
	return m.quote(m.Called(ctx, quoteID, req, actorID))
}
func (m *MockQuoteService) ChangeQuoteStatus(ctx context.Context, quoteID string, target domain.QuoteStatus, actorID string) (*domain.Quote, error) {
	return m.quote(m.Called(ctx, quoteID, target, actorID))
}
func (m *MockQuoteService) DeleteQuote(ctx context.Context, quoteID string) error {
	return m.Called(ctx, quoteID).Error(0)
}

// Ensure mock implements the interface
var _ portssvc.QuoteSvcFacade = (*MockQuoteService)(nil)

// --- Mock ConversionService ---
type MockConversionService struct {
	mock.Mock
}

func (m *MockConversionService) ConvertQuoteToInvoice(ctx context.Context, quoteID string, req dto.ConvertQuoteRequest, actorID string) (*domain.Invoice, error) {
	args := m.Called(ctx, quoteID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

var _ portssvc.ConversionSvc = (*MockConversionService)(nil)

// --- Mock InvoiceService ---
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) invoice(args mock.Arguments) (*domain.Invoice, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) invoices(args mock.Arguments) ([]domain.Invoice, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return m.invoice(m.Called(ctx, invoiceID))
}
func (m *MockInvoiceService) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	return m.invoices(m.Called(ctx))
}
func (m *MockInvoiceService) ListInvoicesByClient(ctx context.Context, clientID string) ([]domain.Invoice, error) {
	return m.invoices(m.Called(ctx, clientID))
}
func (m *MockInvoiceService) ListInvoicesByStatus(ctx context.Context, status domain.InvoiceStatus) ([]domain.Invoice, error) {
	return m.invoices(m.Called(ctx, status))
}
func (m *MockInvoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, actorID string) (*domain.Invoice, error) {
	return m.invoice(m.Called(ctx, req, actorID))
}
func (m *MockInvoiceService) CreateInvoiceFromQuote(ctx context.Context, req dto.CreateInvoiceFromQuoteRequest, actorID string) (*domain.Invoice, error) {
	return m.invoice(m.Called(ctx, req, actorID))
}
func (m *MockInvoiceService) UpdateInvoice(ctx context.Context, invoiceID string, req dto.UpdateInvoiceRequest, actorID string) (*domain.Invoice, error) {
	return m.invoice(m.Called(ctx, invoiceID, req, actorID))
}
func (m *MockInvoiceService) ChangeInvoiceStatus(ctx context.Context, invoiceID string, target domain.InvoiceStatus, paidDate *time.Time, actorID string) (*domain.Invoice, error) {
	return m.invoice(m.Called(ctx, invoiceID, target, paidDate, actorID))
}
func (m *MockInvoiceService) MarkInvoiceAsPaid(ctx context.Context, invoiceID string, req dto.MarkAsPaidRequest, actorID string) (*domain.Invoice, error) {
	return m.invoice(m.Called(ctx, invoiceID, req, actorID))
}
func (m *MockInvoiceService) DeleteInvoice(ctx context.Context, invoiceID string) error {
	return m.Called(ctx, invoiceID).Error(0)
}

var _ portssvc.InvoiceSvcFacade = (*MockInvoiceService)(nil)

// --- Mock ClientService ---
type MockClientService struct {
	mock.Mock
}

func (m *MockClientService) GetClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
func (m *MockClientService) ListClients(ctx context.Context) ([]domain.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}
func (m *MockClientService) CreateClient(ctx context.Context, req dto.CreateClientRequest, actorID string) (*domain.Client, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
func (m *MockClientService) UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest, actorID string) (*domain.Client, error) {
	args := m.Called(ctx, clientID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
func (m *MockClientService) DeleteClient(ctx context.Context, clientID string) error {
	return m.Called(ctx, clientID).Error(0)
}

var _ portssvc.ClientSvcFacade = (*MockClientService)(nil)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) CreateUser(ctx context.Context, req dto.CreateUserRequest, actorID string) (*domain.User, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardStats), args.Error(1)
}
func (m *MockReportingService) GetMonthlyRevenue(ctx context.Context, year int) ([]domain.MonthlyRevenue, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyRevenue), args.Error(1)
}
func (m *MockReportingService) GetTopClients(ctx context.Context, limit int) ([]domain.TopClient, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TopClient), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

// --- Mock Sweeper ---
type MockSweeper struct {
	mock.Mock
}

func (m *MockSweeper) SweepExpiredQuotes(ctx context.Context) (domain.SweepResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.SweepResult), args.Error(1)
}
func (m *MockSweeper) SweepOverdueInvoices(ctx context.Context) (domain.SweepResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.SweepResult), args.Error(1)
}
func (m *MockSweeper) Run(ctx context.Context) ([]domain.SweepResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SweepResult), args.Error(1)
}

var _ portssvc.SweeperSvc = (*MockSweeper)(nil)
