package dto

import (
	"github.com/SscSPs/erp_lite/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DashboardStatsResponse represents the dashboard summary response
type DashboardStatsResponse struct {
	TotalRevenue         decimal.Decimal `json:"totalRevenue"`
	UnpaidInvoicesCount  int64           `json:"unpaidInvoicesCount"`
	UnpaidInvoicesAmount decimal.Decimal `json:"unpaidInvoicesAmount"`
	ActiveQuotesCount    int64           `json:"activeQuotesCount"`
	TotalClientsCount    int64           `json:"totalClientsCount"`
	TotalQuotesCount     int64           `json:"totalQuotesCount"`
	TotalInvoicesCount   int64           `json:"totalInvoicesCount"`
}

// MonthlyRevenueRowResponse represents one month of the revenue report
type MonthlyRevenueRowResponse struct {
	Month   int             `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// MonthlyRevenueResponse represents the revenue report for one year
type MonthlyRevenueResponse struct {
	Year   int                         `json:"year"`
	Months []MonthlyRevenueRowResponse `json:"months"`
	Total  decimal.Decimal             `json:"total"`
}

// TopClientResponse represents a row of the top clients ranking
type TopClientResponse struct {
	ClientID     string          `json:"clientID"`
	ClientName   string          `json:"clientName"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	InvoiceCount int             `json:"invoiceCount"`
}

// SweepResultResponse reports one sweeper pass
type SweepResultResponse struct {
	Kind     domain.DocumentType `json:"kind"`
	Examined int                 `json:"examined"`
	Updated  int                 `json:"updated"`
	Failed   int                 `json:"failed"`
}

func ToDashboardStatsResponse(s *domain.DashboardStats) DashboardStatsResponse {
	return DashboardStatsResponse{
		TotalRevenue:         s.TotalRevenue,
		UnpaidInvoicesCount:  s.UnpaidInvoicesCount,
		UnpaidInvoicesAmount: s.UnpaidInvoicesAmount,
		ActiveQuotesCount:    s.ActiveQuotesCount,
		TotalClientsCount:    s.TotalClientsCount,
		TotalQuotesCount:     s.TotalQuotesCount,
		TotalInvoicesCount:   s.TotalInvoicesCount,
	}
}

// ToMonthlyRevenueResponse expects one row per month, as produced by the reporting service.
func ToMonthlyRevenueResponse(year int, rows []domain.MonthlyRevenue) MonthlyRevenueResponse {
	res := MonthlyRevenueResponse{Year: year, Months: make([]MonthlyRevenueRowResponse, len(rows)), Total: decimal.Zero}
	for i, row := range rows {
		res.Months[i] = MonthlyRevenueRowResponse{Month: row.Month, Revenue: row.Revenue}
		res.Total = res.Total.Add(row.Revenue)
	}
	return res
}

func ToTopClientResponses(rows []domain.TopClient) []TopClientResponse {
	res := make([]TopClientResponse, len(rows))
	for i, row := range rows {
		res[i] = TopClientResponse(row)
	}
	return res
}

func ToSweepResultResponse(r domain.SweepResult) SweepResultResponse {
	return SweepResultResponse(r)
}
