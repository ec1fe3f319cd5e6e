package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/SscSPs/erp_lite/internal/apperrors"
	"github.com/SscSPs/erp_lite/internal/core/domain"
	"github.com/SscSPs/erp_lite/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/erp_lite/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_lite/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTopClientsLimit = 10
	MaxTopClientsLimit     = 100
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	cache         gateways.Cache
	cacheTTL      time.Duration
	loads         singleflight.Group
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingCache caches report results for ttl.
func WithReportingCache(cache gateways.Cache, ttl time.Duration) ReportingServiceOption {
	return func(s *reportingService) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.ReportingRepository, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		reportingRepo: repo,
		cacheTTL:      time.Minute,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// GetDashboardStats runs the independent aggregates concurrently.
func (s *reportingService) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	stats, err := cachedLoad(ctx, s, "dashboard:stats", func(ctx context.Context) (domain.DashboardStats, error) {
		var stats domain.DashboardStats
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			revenue, err := s.reportingRepo.PaidRevenue(ctx)
			stats.TotalRevenue = revenue
			return err
		})
		g.Go(func() error {
			count, amount, err := s.reportingRepo.UnpaidInvoices(ctx)
			stats.UnpaidInvoicesCount, stats.UnpaidInvoicesAmount = count, amount
			return err
		})
		g.Go(func() error {
			count, err := s.reportingRepo.CountActiveQuotes(ctx)
			stats.ActiveQuotesCount = count
			return err
		})
		g.Go(func() error {
			clients, quotes, invoices, err := s.reportingRepo.CountEntities(ctx)
			stats.TotalClientsCount, stats.TotalQuotesCount, stats.TotalInvoicesCount = clients, quotes, invoices
			return err
		})
		return stats, g.Wait()
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to compute dashboard stats")
		return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
	}
	return &stats, nil
}

// GetMonthlyRevenue always returns 12 rows; months without PAID invoices have zero revenue.
func (s *reportingService) GetMonthlyRevenue(ctx context.Context, year int) ([]domain.MonthlyRevenue, error) {
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("%w: year %d is out of range", apperrors.ErrValidation, year)
	}
	key := "dashboard:monthly_revenue:" + strconv.Itoa(year)
	rows, err := cachedLoad(ctx, s, key, func(ctx context.Context) ([]domain.MonthlyRevenue, error) {
		found, err := s.reportingRepo.MonthlyRevenue(ctx, year)
		if err != nil {
			return nil, err
		}
		months := make([]domain.MonthlyRevenue, 12)
		for i := range months {
			months[i] = domain.MonthlyRevenue{Year: year, Month: i + 1, Revenue: decimal.Zero}
		}
		for _, row := range found {
			if row.Month >= 1 && row.Month <= 12 {
				months[row.Month-1].Revenue = row.Revenue
			}
		}
		return months, nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to compute monthly revenue", slog.Int("year", year))
		return nil, fmt.Errorf("failed to compute monthly revenue: %w", err)
	}
	return rows, nil
}

func (s *reportingService) GetTopClients(ctx context.Context, limit int) ([]domain.TopClient, error) {
	if limit <= 0 {
		limit = DefaultTopClientsLimit
	}
	if limit > MaxTopClientsLimit {
		limit = MaxTopClientsLimit
	}
	key := "dashboard:top_clients:" + strconv.Itoa(limit)
	rows, err := cachedLoad(ctx, s, key, func(ctx context.Context) ([]domain.TopClient, error) {
		rows, err := s.reportingRepo.TopClients(ctx, limit)
		if rows == nil && err == nil {
			rows = []domain.TopClient{}
		}
		return rows, err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to compute top clients", slog.Int("limit", limit))
		return nil, fmt.Errorf("failed to compute top clients: %w", err)
	}
	return rows, nil
}

// cachedLoad serves key from the cache when possible. Concurrent misses for the same key share
// a single load. Cache failures degrade to a direct load.
func cachedLoad[T any](ctx context.Context, s *reportingService, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if s.cache != nil {
		var cached T
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.GetLogger(ctx).Warn("Report cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		} else if hit {
			return cached, nil
		}
	}

	ch := s.loads.DoChan(key, func() (interface{}, error) {
		// Detached so one caller's cancellation does not fail the others sharing this load.
		loadCtx := context.WithoutCancel(ctx)
		value, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(loadCtx, key, value, s.cacheTTL); err != nil {
				s.GetLogger(ctx).Warn("Report cache write failed", slog.String("key", key), slog.String("error", err.Error()))
			}
		}
		return value, nil
	})
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}
