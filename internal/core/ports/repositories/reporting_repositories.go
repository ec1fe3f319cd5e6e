package repositories

import (
	"context"

	"github.com/SscSPs/erp_lite/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepository provides the aggregates behind the dashboard.
type ReportingRepository interface {
	// PaidRevenue sums the totals of PAID invoices.
	PaidRevenue(ctx context.Context) (decimal.Decimal, error)

	// UnpaidInvoices counts SENT, PARTIALLY_PAID and OVERDUE invoices and sums their totals.
	UnpaidInvoices(ctx context.Context) (int64, decimal.Decimal, error)

	// CountActiveQuotes counts quotes that are not CONVERTED, REJECTED or EXPIRED.
	CountActiveQuotes(ctx context.Context) (int64, error)

	// CountEntities returns the number of clients, quotes and invoices.
	CountEntities(ctx context.Context) (clients, quotes, invoices int64, err error)

	// MonthlyRevenue returns PAID revenue per month of year for the months that have any.
	MonthlyRevenue(ctx context.Context, year int) ([]domain.MonthlyRevenue, error)

	// TopClients ranks clients by PAID revenue.
	TopClients(ctx context.Context, limit int) ([]domain.TopClient, error)
}
