package handlers_test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/erp_lite/internal/apperrors"
	"github.com/SscSPs/erp_lite/internal/core/domain"
	"github.com/SscSPs/erp_lite/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func sampleInvoice(status domain.InvoiceStatus) *domain.Invoice {
	due := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	return &domain.Invoice{
		InvoiceID: uuid.NewString(),
		Number:    "FACT-2024-0007",
		ClientID:  "client-1",
		Date:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:   &due,
		Status:    status,
		Items:     []domain.LineItem{},
		Totals: domain.Totals{
			Subtotal:  decimal.RequireFromString("100"),
			TaxRate:   decimal.Zero,
			TaxAmount: decimal.Zero,
			Total:     decimal.RequireFromString("100"),
		},
		Version: 1,
	}
}

func (suite *HandlerTestSuite) TestCreateInvoice_Success() {
	created := sampleInvoice(domain.InvoiceStatusDraft)
	suite.invoices.On("CreateInvoice", mock.Anything,
		mock.MatchedBy(func(req dto.CreateInvoiceRequest) bool {
			return req.ClientID == "client-1" && req.DueDate != nil && req.DueDate.Format(time.DateOnly) == "2024-03-31"
		}),
		suite.userID,
	).Return(created, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices", map[string]any{
		"clientID": "client-1",
		"dueDate":  "2024-03-31",
		"items":    []map[string]any{{"description": "Support", "quantity": 1, "unitPrice": 100}},
	})

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	var res dto.InvoiceResponse
	suite.decode(w, &res)
	suite.Equal("FACT-2024-0007", res.Number)
	suite.Require().NotNil(res.DueDate)
	suite.Equal("2024-03-31", res.DueDate.Format(time.DateOnly))
}

func (suite *HandlerTestSuite) TestCreateInvoice_BadDate() {
	w := suite.do(http.MethodPost, "/api/v1/invoices", map[string]any{
		"clientID": "client-1",
		"date":     "31/03/2024",
		"items":    []any{},
	})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestCreateInvoiceFromQuote() {
	invoice := sampleInvoice(domain.InvoiceStatusSent)
	suite.invoices.On("CreateInvoiceFromQuote", mock.Anything,
		mock.MatchedBy(func(req dto.CreateInvoiceFromQuoteRequest) bool { return req.QuoteID == "q-1" }),
		suite.userID,
	).Return(invoice, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices/from-quote", map[string]any{"quoteID": "q-1"})

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
}

func (suite *HandlerTestSuite) TestCreateInvoiceFromQuote_MissingQuote() {
	w := suite.do(http.MethodPost, "/api/v1/invoices/from-quote", map[string]any{})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestListInvoices_ByStatus() {
	overdue := sampleInvoice(domain.InvoiceStatusOverdue)
	suite.invoices.On("ListInvoicesByStatus", mock.Anything, domain.InvoiceStatusOverdue).Return([]domain.Invoice{*overdue}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/invoices?status=OVERDUE", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res []dto.InvoiceResponse
	suite.decode(w, &res)
	suite.Require().Len(res, 1)
	suite.Equal(domain.InvoiceStatusOverdue, res[0].Status)
}

func (suite *HandlerTestSuite) TestGetInvoice() {
	invoice := sampleInvoice(domain.InvoiceStatusSent)
	suite.invoices.On("GetInvoiceByID", mock.Anything, invoice.InvoiceID).Return(invoice, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/invoices/"+invoice.InvoiceID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.InvoiceResponse
	suite.decode(w, &res)
	suite.Equal(invoice.InvoiceID, res.InvoiceID)
}

func (suite *HandlerTestSuite) TestUpdateInvoice_Locked() {
	suite.invoices.On("UpdateInvoice", mock.Anything, "inv-1", mock.Anything, suite.userID).
		Return(nil, fmt.Errorf("%w: invoice FACT-2024-0007 is PAID", apperrors.ErrInvalidTransition)).Once()

	w := suite.do(http.MethodPatch, "/api/v1/invoices/inv-1", map[string]any{"notes": "late fee"})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlerTestSuite) TestChangeInvoiceStatus_PaidWithDate() {
	paid := sampleInvoice(domain.InvoiceStatusPaid)
	suite.invoices.On("ChangeInvoiceStatus", mock.Anything, "inv-1", domain.InvoiceStatusPaid,
		mock.MatchedBy(func(d *time.Time) bool {
			return d != nil && d.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
		}),
		suite.userID,
	).Return(paid, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices/inv-1/status", map[string]any{"status": "PAID", "paidDate": "2024-03-10"})

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
}

func (suite *HandlerTestSuite) TestChangeInvoiceStatus_WithoutDate() {
	sent := sampleInvoice(domain.InvoiceStatusSent)
	suite.invoices.On("ChangeInvoiceStatus", mock.Anything, "inv-1", domain.InvoiceStatusSent, (*time.Time)(nil), suite.userID).
		Return(sent, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices/inv-1/status", map[string]any{"status": "sent"})

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestMarkInvoiceAsPaid_NoBody() {
	paid := sampleInvoice(domain.InvoiceStatusPaid)
	suite.invoices.On("MarkInvoiceAsPaid", mock.Anything, "inv-1", dto.MarkAsPaidRequest{}, suite.userID).Return(paid, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices/inv-1/mark-paid", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.InvoiceResponse
	suite.decode(w, &res)
	suite.Equal(domain.InvoiceStatusPaid, res.Status)
}

func (suite *HandlerTestSuite) TestMarkInvoiceAsPaid_WithPayment() {
	paid := sampleInvoice(domain.InvoiceStatusPaid)
	paid.PaymentMethod = "transfer"
	suite.invoices.On("MarkInvoiceAsPaid", mock.Anything, "inv-1",
		mock.MatchedBy(func(req dto.MarkAsPaidRequest) bool {
			return req.PaymentMethod == "transfer" && req.PaidDate != nil
		}),
		suite.userID,
	).Return(paid, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices/inv-1/mark-paid", map[string]any{"paymentMethod": "transfer", "paidDate": "2024-03-05"})

	suite.Equal(http.StatusOK, w.Code)
	var res dto.InvoiceResponse
	suite.decode(w, &res)
	suite.Equal("transfer", res.PaymentMethod)
}

func (suite *HandlerTestSuite) TestMarkInvoiceAsPaid_AlreadyCancelled() {
	suite.invoices.On("MarkInvoiceAsPaid", mock.Anything, "inv-1", mock.Anything, suite.userID).
		Return(nil, fmt.Errorf("%w: invoice FACT-2024-0007 cannot move from CANCELLED to PAID (manual)", apperrors.ErrInvalidTransition)).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices/inv-1/mark-paid", nil)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteInvoice_NotFound() {
	suite.invoices.On("DeleteInvoice", mock.Anything, "inv-9").Return(apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodDelete, "/api/v1/invoices/inv-9", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}
