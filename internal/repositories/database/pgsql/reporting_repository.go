package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/erp_lite/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_lite/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxReportingRepository computes dashboard aggregates directly in SQL.
type PgxReportingRepository struct {
	db *pgxpool.Pool
}

func newPgxReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{db: db}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

func (r *PgxReportingRepository) PaidRevenue(ctx context.Context) (decimal.Decimal, error) {
	var revenue decimal.Decimal
	query := `SELECT COALESCE(SUM(total), 0) FROM invoices WHERE status = 'PAID';`
	if err := r.db.QueryRow(ctx, query).Scan(&revenue); err != nil {
		return decimal.Zero, translateError(err, "failed to sum paid revenue")
	}
	return revenue, nil
}

func (r *PgxReportingRepository) UnpaidInvoices(ctx context.Context) (int64, decimal.Decimal, error) {
	var (
		count  int64
		amount decimal.Decimal
	)
	query := `
		SELECT COUNT(*), COALESCE(SUM(total), 0)
		FROM invoices
		WHERE status IN ('SENT', 'PARTIALLY_PAID', 'OVERDUE');
	`
	if err := r.db.QueryRow(ctx, query).Scan(&count, &amount); err != nil {
		return 0, decimal.Zero, translateError(err, "failed to sum unpaid invoices")
	}
	return count, amount, nil
}

func (r *PgxReportingRepository) CountActiveQuotes(ctx context.Context) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM quotes WHERE status NOT IN ('CONVERTED', 'REJECTED', 'EXPIRED');`
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, translateError(err, "failed to count active quotes")
	}
	return count, nil
}

func (r *PgxReportingRepository) CountEntities(ctx context.Context) (clients, quotes, invoices int64, err error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM clients),
			(SELECT COUNT(*) FROM quotes),
			(SELECT COUNT(*) FROM invoices);
	`
	if err = r.db.QueryRow(ctx, query).Scan(&clients, &quotes, &invoices); err != nil {
		return 0, 0, 0, translateError(err, "failed to count entities")
	}
	return clients, quotes, invoices, nil
}

// MonthlyRevenue groups PAID invoices by the month of their invoice date.
func (r *PgxReportingRepository) MonthlyRevenue(ctx context.Context, year int) ([]domain.MonthlyRevenue, error) {
	query := `
		SELECT EXTRACT(MONTH FROM date)::int AS month, SUM(total)
		FROM invoices
		WHERE status = 'PAID' AND EXTRACT(YEAR FROM date)::int = $1
		GROUP BY month
		ORDER BY month;
	`
	rows, err := r.db.Query(ctx, query, year)
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("failed to query revenue for %d", year))
	}
	defer rows.Close()

	var months []domain.MonthlyRevenue
	for rows.Next() {
		m := domain.MonthlyRevenue{Year: year}
		if err := rows.Scan(&m.Month, &m.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan revenue row: %w", err)
		}
		months = append(months, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating revenue rows: %w", err)
	}
	return months, nil
}

func (r *PgxReportingRepository) TopClients(ctx context.Context, limit int) ([]domain.TopClient, error) {
	query := `
		SELECT c.client_id, c.name, SUM(i.total) AS revenue, COUNT(i.invoice_id)
		FROM invoices i
		JOIN clients c ON c.client_id = i.client_id
		WHERE i.status = 'PAID'
		GROUP BY c.client_id, c.name
		ORDER BY revenue DESC, c.name
		LIMIT $1;
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, translateError(err, "failed to query top clients")
	}
	defer rows.Close()

	var clients []domain.TopClient
	for rows.Next() {
		var c domain.TopClient
		if err := rows.Scan(&c.ClientID, &c.ClientName, &c.TotalRevenue, &c.InvoiceCount); err != nil {
			return nil, fmt.Errorf("failed to scan top client row: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top client rows: %w", err)
	}
	return clients, nil
}
