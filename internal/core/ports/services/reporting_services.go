package services

import (
	"context"

	"github.com/SscSPs/erp_lite/internal/core/domain"
)

// ReportingService defines operations for the dashboard reports
type ReportingService interface {
	// GetDashboardStats returns revenue and document counts
	GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error)

	// GetMonthlyRevenue returns PAID revenue for each of the 12 months of year
	GetMonthlyRevenue(ctx context.Context, year int) ([]domain.MonthlyRevenue, error)

	// GetTopClients ranks clients by PAID revenue
	GetTopClients(ctx context.Context, limit int) ([]domain.TopClient, error)
}
