package services

import (
	"context"

	"github.com/SscSPs/erp_lite/internal/core/domain"
)

// SweeperSvc applies the time-driven status changes.
type SweeperSvc interface {
	// SweepExpiredQuotes moves SENT quotes past their validity date to EXPIRED.
	SweepExpiredQuotes(ctx context.Context) (domain.SweepResult, error)

	// SweepOverdueInvoices moves SENT and PARTIALLY_PAID invoices past their due date to OVERDUE.
	SweepOverdueInvoices(ctx context.Context) (domain.SweepResult, error)

	// Run performs both sweeps.
	Run(ctx context.Context) ([]domain.SweepResult, error)
}
