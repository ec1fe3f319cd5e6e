package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/erp_lite/internal/apperrors"
	"github.com/SscSPs/erp_lite/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_lite/internal/core/ports/repositories"
	"github.com/SscSPs/erp_lite/internal/models"
	"github.com/SscSPs/erp_lite/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const invoiceColumns = `
	invoice_id, number, client_id, quote_id, date, due_date, paid_date,
	payment_method, payment_notes, status,
	subtotal, tax_rate, tax_amount, total, notes, terms_and_conditions, version,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxInvoiceRepository implements the InvoiceRepositoryFacade interface using pgx.
type PgxInvoiceRepository struct {
	db querier
}

// NewPgxInvoiceRepository creates an invoice repository running on the pool.
func NewPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return newPgxInvoiceRepository(pool)
}

func newPgxInvoiceRepository(db querier) *PgxInvoiceRepository {
	return &PgxInvoiceRepository{db: db}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

func scanInvoice(row pgx.Row) (models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.Number,
		&m.ClientID,
		&m.QuoteID,
		&m.Date,
		&m.DueDate,
		&m.PaidDate,
		&m.PaymentMethod,
		&m.PaymentNotes,
		&m.Status,
		&m.Subtotal,
		&m.TaxRate,
		&m.TaxAmount,
		&m.Total,
		&m.Notes,
		&m.TermsAndConditions,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindInvoiceByID retrieves an invoice and its items.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`
	m, err := scanInvoice(r.db.QueryRow(ctx, query, invoiceID))
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("failed to find invoice %s", invoiceID))
	}
	items, err := invoiceItems.load(ctx, r.db, []string{m.InvoiceID})
	if err != nil {
		return nil, err
	}
	invoice := mapping.ToDomainInvoice(m, items[m.InvoiceID])
	return &invoice, nil
}

func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	return r.list(ctx, `SELECT `+invoiceColumns+` FROM invoices ORDER BY date DESC, number DESC;`)
}

func (r *PgxInvoiceRepository) ListInvoicesByClient(ctx context.Context, clientID string) ([]domain.Invoice, error) {
	return r.list(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE client_id = $1 ORDER BY date DESC, number DESC;`, clientID)
}

// ListInvoicesByStatus returns invoices in any of statuses, oldest first.
func (r *PgxInvoiceRepository) ListInvoicesByStatus(ctx context.Context, statuses ...domain.InvoiceStatus) ([]domain.Invoice, error) {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}
	return r.list(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE status = ANY($1) ORDER BY date, number;`, values)
}

func (r *PgxInvoiceRepository) list(ctx context.Context, query string, args ...any) ([]domain.Invoice, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "failed to query invoices")
	}
	defer rows.Close()

	var ms []models.Invoice
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice rows: %w", err)
	}
	rows.Close()

	ids := make([]string, len(ms))
	for i, m := range ms {
		ids[i] = m.InvoiceID
	}
	items, err := invoiceItems.load(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}

	invoices := make([]domain.Invoice, len(ms))
	for i, m := range ms {
		invoices[i] = mapping.ToDomainInvoice(m, items[m.InvoiceID])
	}
	return invoices, nil
}

// CreateInvoice inserts the invoice and its items atomically. A duplicate number yields ErrConflict.
func (r *PgxInvoiceRepository) CreateInvoice(ctx context.Context, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)
	return withinTx(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO invoices (` + invoiceColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
		`
		_, err := tx.Exec(ctx, query,
			m.InvoiceID, m.Number, m.ClientID, m.QuoteID, m.Date, m.DueDate, m.PaidDate,
			m.PaymentMethod, m.PaymentNotes, m.Status,
			m.Subtotal, m.TaxRate, m.TaxAmount, m.Total, m.Notes, m.TermsAndConditions, m.Version,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			return translateError(err, fmt.Sprintf("failed to insert invoice %s", m.Number))
		}
		return invoiceItems.insert(ctx, tx, invoice.Items)
	})
}

// UpdateInvoice writes every editable column. With replaceItems the stored items are replaced by invoice.Items.
func (r *PgxInvoiceRepository) UpdateInvoice(ctx context.Context, invoice domain.Invoice, replaceItems bool) error {
	m := mapping.ToModelInvoice(invoice)
	return withinTx(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			UPDATE invoices
			SET client_id = $1, date = $2, due_date = $3, paid_date = $4,
				payment_method = $5, payment_notes = $6, status = $7,
				subtotal = $8, tax_rate = $9, tax_amount = $10, total = $11,
				notes = $12, terms_and_conditions = $13,
				last_updated_at = $14, last_updated_by = $15, version = version + 1
			WHERE invoice_id = $16 AND version = $17;
		`
		cmdTag, err := tx.Exec(ctx, query,
			m.ClientID, m.Date, m.DueDate, m.PaidDate,
			m.PaymentMethod, m.PaymentNotes, m.Status,
			m.Subtotal, m.TaxRate, m.TaxAmount, m.Total,
			m.Notes, m.TermsAndConditions,
			m.LastUpdatedAt, m.LastUpdatedBy,
			m.InvoiceID, m.Version,
		)
		if err != nil {
			return translateError(err, fmt.Sprintf("failed to update invoice %s", m.InvoiceID))
		}
		if cmdTag.RowsAffected() == 0 {
			return staleOrMissing(ctx, tx, "invoices", "invoice_id", m.InvoiceID)
		}
		if !replaceItems {
			return nil
		}
		if err := invoiceItems.deleteAll(ctx, tx, m.InvoiceID); err != nil {
			return err
		}
		return invoiceItems.insert(ctx, tx, invoice.Items)
	})
}

// UpdateInvoiceStatus writes the status together with the payment columns it governs.
func (r *PgxInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoice domain.Invoice) error {
	query := `
		UPDATE invoices
		SET status = $1, paid_date = $2, payment_method = $3, payment_notes = $4,
			last_updated_at = $5, last_updated_by = $6, version = version + 1
		WHERE invoice_id = $7 AND version = $8;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		string(invoice.Status), invoice.PaidDate, invoice.PaymentMethod, invoice.PaymentNotes,
		invoice.LastUpdatedAt, invoice.LastUpdatedBy, invoice.InvoiceID, invoice.Version)
	if err != nil {
		return translateError(err, fmt.Sprintf("failed to update status of invoice %s", invoice.InvoiceID))
	}
	if cmdTag.RowsAffected() == 0 {
		return staleOrMissing(ctx, r.db, "invoices", "invoice_id", invoice.InvoiceID)
	}
	return nil
}

func (r *PgxInvoiceRepository) DeleteInvoice(ctx context.Context, invoiceID string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE invoice_id = $1;`, invoiceID)
	if err != nil {
		return translateError(err, fmt.Sprintf("failed to delete invoice %s", invoiceID))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("invoice %s: %w", invoiceID, apperrors.ErrNotFound)
	}
	return nil
}
