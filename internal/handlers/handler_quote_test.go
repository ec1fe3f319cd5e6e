package handlers_test

import (
	"errors"
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

func sampleQuote(status domain.QuoteStatus) *domain.Quote {
	id := uuid.NewString()
	return &domain.Quote{
		QuoteID:  id,
		Number:   "DEV-2024-0001",
		ClientID: "client-1",
		Date:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:   status,
		Items: []domain.LineItem{
			{ItemID: uuid.NewString(), DocumentID: id, Position: 1, Description: "Audit", Quantity: 2, UnitPrice: decimal.RequireFromString("50"), Total: decimal.RequireFromString("100")},
		},
		Totals: domain.Totals{
			Subtotal:  decimal.RequireFromString("100"),
			TaxRate:   decimal.RequireFromString("20"),
			TaxAmount: decimal.RequireFromString("20"),
			Total:     decimal.RequireFromString("120"),
		},
		Version: 1,
	}
}

func (suite *HandlerTestSuite) TestCreateQuote_Success() {
	created := sampleQuote(domain.QuoteStatusDraft)
	suite.quotes.On("CreateQuote", mock.Anything,
		mock.MatchedBy(func(req dto.CreateQuoteRequest) bool {
			return req.ClientID == "client-1" && len(req.Items) == 1 && req.TaxRate.Equal(decimal.NewFromInt(20))
		}),
		suite.userID,
	).Return(created, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/quotes", map[string]any{
		"clientID": "client-1",
		"taxRate":  "20",
		"items":    []map[string]any{{"description": "Audit", "quantity": 2, "unitPrice": "50"}},
	})

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	var res dto.QuoteResponse
	suite.decode(w, &res)
	suite.Equal(created.QuoteID, res.QuoteID)
	suite.Equal("DEV-2024-0001", res.Number)
	suite.True(res.Total.Equal(decimal.NewFromInt(120)))
	suite.Equal("2024-03-01", res.Date.Format(time.DateOnly))
}

func (suite *HandlerTestSuite) TestCreateQuote_InvalidBody() {
	w := suite.do(http.MethodPost, "/api/v1/quotes", `{"items": []}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.errorMessage(w), "Invalid request format")
	suite.quotes.AssertNotCalled(suite.T(), "CreateQuote", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestCreateQuote_ItemWithoutQuantity() {
	w := suite.do(http.MethodPost, "/api/v1/quotes", map[string]any{
		"clientID": "client-1",
		"items":    []map[string]any{{"description": "Audit", "quantity": 0, "unitPrice": "50"}},
	})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestCreateQuote_ServiceValidationError() {
	suite.quotes.On("CreateQuote", mock.Anything, mock.Anything, suite.userID).
		Return(nil, fmt.Errorf("%w: valid until precedes the quote date", apperrors.ErrValidation)).Once()

	w := suite.do(http.MethodPost, "/api/v1/quotes", map[string]any{"clientID": "client-1", "items": []any{}})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.errorMessage(w), "valid until precedes the quote date")
}

func (suite *HandlerTestSuite) TestCreateQuote_InternalErrorHidesDetail() {
	suite.quotes.On("CreateQuote", mock.Anything, mock.Anything, suite.userID).
		Return(nil, errors.New("pq: connection reset by peer")).Once()

	w := suite.do(http.MethodPost, "/api/v1/quotes", map[string]any{"clientID": "client-1", "items": []any{}})

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Equal("Failed to create quote", suite.errorMessage(w))
}

func (suite *HandlerTestSuite) TestGetQuote_NotFound() {
	suite.quotes.On("GetQuoteByID", mock.Anything, "missing").
		Return(nil, fmt.Errorf("%w: quote missing", apperrors.ErrNotFound)).Once()

	w := suite.do(http.MethodGet, "/api/v1/quotes/missing", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestListQuotes_Filters() {
	sent := sampleQuote(domain.QuoteStatusSent)
	suite.quotes.On("ListQuotesByStatus", mock.Anything, domain.QuoteStatusSent).Return([]domain.Quote{*sent}, nil).Once()
	suite.quotes.On("ListQuotesByClient", mock.Anything, "client-9").Return([]domain.Quote{}, nil).Once()
	suite.quotes.On("ListQuotes", mock.Anything).Return([]domain.Quote{*sent, *sent}, nil).Once()

	var res []dto.QuoteResponse
	w := suite.do(http.MethodGet, "/api/v1/quotes?status=sent", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.decode(w, &res)
	suite.Len(res, 1)

	w = suite.do(http.MethodGet, "/api/v1/quotes?clientID=client-9", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`[]`, w.Body.String())

	w = suite.do(http.MethodGet, "/api/v1/quotes", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.decode(w, &res)
	suite.Len(res, 2)
}

func (suite *HandlerTestSuite) TestListQuotes_UnknownStatus() {
	w := suite.do(http.MethodGet, "/api/v1/quotes?status=LOST", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.errorMessage(w), "LOST")
}

func (suite *HandlerTestSuite) TestUpdateQuote_Conflict() {
	suite.quotes.On("UpdateQuote", mock.Anything, "q-1",
		mock.MatchedBy(func(req dto.UpdateQuoteRequest) bool {
			return req.Notes != nil && *req.Notes == "updated" && req.Version != nil && *req.Version == 3
		}),
		suite.userID,
	).Return(nil, fmt.Errorf("%w: quote q-1 was modified", apperrors.ErrConflict)).Once()

	w := suite.do(http.MethodPatch, "/api/v1/quotes/q-1", map[string]any{"notes": "updated", "version": 3})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestChangeQuoteStatus() {
	accepted := sampleQuote(domain.QuoteStatusAccepted)
	suite.quotes.On("ChangeQuoteStatus", mock.Anything, "q-1", domain.QuoteStatusAccepted, suite.userID).Return(accepted, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/quotes/q-1/status", map[string]any{"status": "accepted"})

	suite.Equal(http.StatusOK, w.Code)
	var res dto.QuoteResponse
	suite.decode(w, &res)
	suite.Equal(domain.QuoteStatusAccepted, res.Status)
}

func (suite *HandlerTestSuite) TestChangeQuoteStatus_InvalidTransition() {
	suite.quotes.On("ChangeQuoteStatus", mock.Anything, "q-1", domain.QuoteStatusExpired, suite.userID).
		Return(nil, fmt.Errorf("%w: quote DEV-2024-0001 cannot move from DRAFT to EXPIRED (manual)", apperrors.ErrInvalidTransition)).Once()

	w := suite.do(http.MethodPost, "/api/v1/quotes/q-1/status", map[string]any{"status": "EXPIRED"})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlerTestSuite) TestChangeQuoteStatus_UnknownStatus() {
	w := suite.do(http.MethodPost, "/api/v1/quotes/q-1/status", map[string]any{"status": "WON"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.quotes.AssertNotCalled(suite.T(), "ChangeQuoteStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestConvertQuote_WithoutBody() {
	invoice := sampleInvoice(domain.InvoiceStatusSent)
	suite.conversion.On("ConvertQuoteToInvoice", mock.Anything, "q-1", dto.ConvertQuoteRequest{}, suite.userID).Return(invoice, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/quotes/q-1/convert", nil)

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	var res dto.InvoiceResponse
	suite.decode(w, &res)
	suite.Equal(invoice.Number, res.Number)
	suite.Equal(domain.InvoiceStatusSent, res.Status)
}

func (suite *HandlerTestSuite) TestConvertQuote_WithOverrides() {
	invoice := sampleInvoice(domain.InvoiceStatusSent)
	suite.conversion.On("ConvertQuoteToInvoice", mock.Anything, "q-1",
		mock.MatchedBy(func(req dto.ConvertQuoteRequest) bool {
			return req.DueDate != nil && req.DueDate.Format(time.DateOnly) == "2024-04-30"
		}),
		suite.userID,
	).Return(invoice, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/quotes/q-1/convert", map[string]any{"dueDate": "2024-04-30"})

	suite.Equal(http.StatusCreated, w.Code)
}

func (suite *HandlerTestSuite) TestConvertQuote_NotEligible() {
	suite.conversion.On("ConvertQuoteToInvoice", mock.Anything, "q-1", mock.Anything, suite.userID).
		Return(nil, fmt.Errorf("%w: quote DEV-2024-0001 is DRAFT", apperrors.ErrInvalidTransition)).Once()

	w := suite.do(http.MethodPost, "/api/v1/quotes/q-1/convert", nil)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteQuote() {
	suite.quotes.On("DeleteQuote", mock.Anything, "q-1").Return(nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/quotes/q-1", nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.Empty(w.Body.String())
}
