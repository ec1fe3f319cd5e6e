package handlers_test

import (
	"fmt"
	"net/http"

	"github.com/SscSPs/erp_lite/internal/apperrors"
	"github.com/SscSPs/erp_lite/internal/core/domain"
	"github.com/SscSPs/erp_lite/internal/dto"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestCreateClient() {
	suite.clients.On("CreateClient", mock.Anything, dto.CreateClientRequest{Name: "Acme", Email: "billing@acme.test"}, suite.userID).
		Return(&domain.Client{ClientID: "client-1", Name: "Acme", Email: "billing@acme.test"}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/clients", map[string]any{"name": "Acme", "email": "billing@acme.test"})

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	var res dto.ClientResponse
	suite.decode(w, &res)
	suite.Equal("client-1", res.ClientID)
}

func (suite *HandlerTestSuite) TestCreateClient_InvalidEmail() {
	w := suite.do(http.MethodPost, "/api/v1/clients", map[string]any{"name": "Acme", "email": "not-an-email"})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestUpdateClient_NotFound() {
	suite.clients.On("UpdateClient", mock.Anything, "client-9", mock.Anything, suite.userID).
		Return(nil, fmt.Errorf("%w: client client-9", apperrors.ErrNotFound)).Once()

	w := suite.do(http.MethodPatch, "/api/v1/clients/client-9", map[string]any{"phone": "+33 1 23 45 67 89"})

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteClient_StillReferenced() {
	suite.clients.On("DeleteClient", mock.Anything, "client-1").
		Return(fmt.Errorf("%w: client client-1 still has documents", apperrors.ErrConflict)).Once()

	w := suite.do(http.MethodDelete, "/api/v1/clients/client-1", nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestListClients() {
	suite.clients.On("ListClients", mock.Anything).Return([]domain.Client{{ClientID: "a", Name: "A"}, {ClientID: "b", Name: "B"}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/clients", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res []dto.ClientResponse
	suite.decode(w, &res)
	suite.Len(res, 2)
}

func (suite *HandlerTestSuite) TestClientDocuments() {
	suite.quotes.On("ListQuotesByClient", mock.Anything, "client-1").Return([]domain.Quote{*sampleQuote(domain.QuoteStatusSent)}, nil).Once()
	suite.invoices.On("ListInvoicesByClient", mock.Anything, "client-1").Return([]domain.Invoice{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/clients/client-1/quotes", nil)
	suite.Equal(http.StatusOK, w.Code)
	var quotes []dto.QuoteResponse
	suite.decode(w, &quotes)
	suite.Len(quotes, 1)

	w = suite.do(http.MethodGet, "/api/v1/clients/client-1/invoices", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`[]`, w.Body.String())
}
