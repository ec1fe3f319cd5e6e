package handlers_test

import (
	"errors"
	"net/http"
	"time"

	"github.com/SscSPs/erp_lite/internal/core/domain"
	"github.com/SscSPs/erp_lite/internal/core/services"
	"github.com/SscSPs/erp_lite/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestDashboardStats() {
	suite.reporting.On("GetDashboardStats", mock.Anything).Return(&domain.DashboardStats{
		TotalRevenue:         decimal.RequireFromString("1250.50"),
		UnpaidInvoicesCount:  2,
		UnpaidInvoicesAmount: decimal.RequireFromString("300"),
		ActiveQuotesCount:    4,
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/dashboard/stats", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.DashboardStatsResponse
	suite.decode(w, &res)
	suite.True(res.TotalRevenue.Equal(decimal.RequireFromString("1250.5")))
	suite.EqualValues(2, res.UnpaidInvoicesCount)
	suite.EqualValues(4, res.ActiveQuotesCount)
}

func (suite *HandlerTestSuite) TestMonthlyRevenue_DefaultsToCurrentYear() {
	year := time.Now().UTC().Year()
	suite.reporting.On("GetMonthlyRevenue", mock.Anything, year).Return([]domain.MonthlyRevenue{
		{Year: year, Month: 1, Revenue: decimal.NewFromInt(100)},
		{Year: year, Month: 2, Revenue: decimal.NewFromInt(50)},
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/dashboard/monthly-revenue", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.MonthlyRevenueResponse
	suite.decode(w, &res)
	suite.Equal(year, res.Year)
	suite.True(res.Total.Equal(decimal.NewFromInt(150)))
}

func (suite *HandlerTestSuite) TestMonthlyRevenue_InvalidYear() {
	w := suite.do(http.MethodGet, "/api/v1/dashboard/monthly-revenue?year=last", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestTopClients_PassesLimit() {
	suite.reporting.On("GetTopClients", mock.Anything, 5).Return([]domain.TopClient{
		{ClientID: "a", ClientName: "Acme", TotalRevenue: decimal.NewFromInt(900), InvoiceCount: 3},
	}, nil).Once()
	suite.reporting.On("GetTopClients", mock.Anything, 0).Return([]domain.TopClient{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/dashboard/top-clients?limit=5", nil)
	suite.Equal(http.StatusOK, w.Code)
	var res []dto.TopClientResponse
	suite.decode(w, &res)
	suite.Len(res, 1)

	w = suite.do(http.MethodGet, "/api/v1/dashboard/top-clients", nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/dashboard/top-clients?limit=ten", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestAdminSweep() {
	suite.sweeper.On("Run", mock.Anything).Return([]domain.SweepResult{
		{Kind: domain.DocumentTypeQuote, Examined: 3, Updated: 1},
		{Kind: domain.DocumentTypeInvoice, Examined: 5, Updated: 2},
	}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/admin/sweep", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res []dto.SweepResultResponse
	suite.decode(w, &res)
	suite.Require().Len(res, 2)
	suite.Equal(2, res[1].Updated)
}

func (suite *HandlerTestSuite) TestAdminSweep_SingleKind() {
	suite.sweeper.On("SweepOverdueInvoices", mock.Anything).Return(domain.SweepResult{Kind: domain.DocumentTypeInvoice, Examined: 1, Updated: 1}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/admin/sweep?kind=invoices", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.sweeper.AssertNotCalled(suite.T(), "SweepExpiredQuotes", mock.Anything)
}

func (suite *HandlerTestSuite) TestAdminSweep_InProgress() {
	suite.sweeper.On("SweepExpiredQuotes", mock.Anything).Return(domain.SweepResult{Kind: domain.DocumentTypeQuote}, services.ErrSweepInProgress).Once()

	w := suite.do(http.MethodPost, "/api/v1/admin/sweep?kind=quotes", nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestAdminSweep_PartialFailure() {
	suite.sweeper.On("Run", mock.Anything).Return([]domain.SweepResult{{Kind: domain.DocumentTypeQuote}, {Kind: domain.DocumentTypeInvoice}},
		errors.Join(nil, errors.New("failed to list unpaid invoices: timeout"))).Once()

	w := suite.do(http.MethodPost, "/api/v1/admin/sweep", nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Equal("Sweep failed", suite.errorMessage(w))
}

func (suite *HandlerTestSuite) TestAdminSweep_UnknownKind() {
	w := suite.do(http.MethodPost, "/api/v1/admin/sweep?kind=clients", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}
