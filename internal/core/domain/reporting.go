package domain

import (
	"github.com/shopspring/decimal"
)

// DashboardStats summarises revenue and document counts.
type DashboardStats struct {
	TotalRevenue         decimal.Decimal `json:"totalRevenue"`         // sum of PAID invoice totals
	UnpaidInvoicesCount  int64           `json:"unpaidInvoicesCount"`  // SENT, PARTIALLY_PAID, OVERDUE
	UnpaidInvoicesAmount decimal.Decimal `json:"unpaidInvoicesAmount"` // totals of the same set
	ActiveQuotesCount    int64           `json:"activeQuotesCount"`    // not CONVERTED, REJECTED or EXPIRED
	TotalClientsCount    int64           `json:"totalClientsCount"`
	TotalQuotesCount     int64           `json:"totalQuotesCount"`
	TotalInvoicesCount   int64           `json:"totalInvoicesCount"`
}

// MonthlyRevenue is the PAID revenue of one calendar month, keyed by invoice date.
type MonthlyRevenue struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// TopClient ranks a client by PAID revenue.
type TopClient struct {
	ClientID     string          `json:"clientID"`
	ClientName   string          `json:"clientName"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	InvoiceCount int             `json:"invoiceCount"`
}
