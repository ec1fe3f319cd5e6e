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

const quoteColumns = `
	quote_id, number, client_id, date, valid_until, status,
	subtotal, tax_rate, tax_amount, total, notes, terms_and_conditions, version,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxQuoteRepository implements the QuoteRepositoryFacade interface using pgx.
type PgxQuoteRepository struct {
	db querier
}

// NewPgxQuoteRepository creates a quote repository running on the pool.
func NewPgxQuoteRepository(pool *pgxpool.Pool) portsrepo.QuoteRepositoryFacade {
	return newPgxQuoteRepository(pool)
}

func newPgxQuoteRepository(db querier) *PgxQuoteRepository {
	return &PgxQuoteRepository{db: db}
}

// Ensure PgxQuoteRepository implements the portsrepo.QuoteRepositoryFacade interface
var _ portsrepo.QuoteRepositoryFacade = (*PgxQuoteRepository)(nil)

func scanQuote(row pgx.Row) (models.Quote, error) {
	var m models.Quote
	err := row.Scan(
		&m.QuoteID,
		&m.Number,
		&m.ClientID,
		&m.Date,
		&m.ValidUntil,
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

func (r *PgxQuoteRepository) findOne(ctx context.Context, query string, quoteID string) (*domain.Quote, error) {
	m, err := scanQuote(r.db.QueryRow(ctx, query, quoteID))
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("failed to find quote %s", quoteID))
	}
	items, err := quoteItems.load(ctx, r.db, []string{m.QuoteID})
	if err != nil {
		return nil, err
	}
	quote := mapping.ToDomainQuote(m, items[m.QuoteID])
	return &quote, nil
}

// FindQuoteByID retrieves a quote and its items.
func (r *PgxQuoteRepository) FindQuoteByID(ctx context.Context, quoteID string) (*domain.Quote, error) {
	return r.findOne(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE quote_id = $1;`, quoteID)
}

// FindQuoteByIDForUpdate locks the quote row until the surrounding transaction ends.
func (r *PgxQuoteRepository) FindQuoteByIDForUpdate(ctx context.Context, quoteID string) (*domain.Quote, error) {
	return r.findOne(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE quote_id = $1 FOR UPDATE;`, quoteID)
}

func (r *PgxQuoteRepository) ListQuotes(ctx context.Context) ([]domain.Quote, error) {
	return r.list(ctx, `SELECT `+quoteColumns+` FROM quotes ORDER BY date DESC, number DESC;`)
}

func (r *PgxQuoteRepository) ListQuotesByClient(ctx context.Context, clientID string) ([]domain.Quote, error) {
	return r.list(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE client_id = $1 ORDER BY date DESC, number DESC;`, clientID)
}

func (r *PgxQuoteRepository) ListQuotesByStatus(ctx context.Context, status domain.QuoteStatus) ([]domain.Quote, error) {
	return r.list(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE status = $1 ORDER BY date, number;`, string(status))
}

func (r *PgxQuoteRepository) list(ctx context.Context, query string, args ...any) ([]domain.Quote, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "failed to query quotes")
	}
	defer rows.Close()

	var ms []models.Quote
	for rows.Next() {
		m, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quote row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quote rows: %w", err)
	}
	rows.Close()

	ids := make([]string, len(ms))
	for i, m := range ms {
		ids[i] = m.QuoteID
	}
	items, err := quoteItems.load(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}

	quotes := make([]domain.Quote, len(ms))
	for i, m := range ms {
		quotes[i] = mapping.ToDomainQuote(m, items[m.QuoteID])
	}
	return quotes, nil
}

// CreateQuote inserts the quote and its items atomically. A duplicate number yields ErrConflict.
func (r *PgxQuoteRepository) CreateQuote(ctx context.Context, quote domain.Quote) error {
	m := mapping.ToModelQuote(quote)
	return withinTx(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO quotes (` + quoteColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
		`
		_, err := tx.Exec(ctx, query,
			m.QuoteID, m.Number, m.ClientID, m.Date, m.ValidUntil, m.Status,
			m.Subtotal, m.TaxRate, m.TaxAmount, m.Total, m.Notes, m.TermsAndConditions, m.Version,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			return translateError(err, fmt.Sprintf("failed to insert quote %s", m.Number))
		}
		return quoteItems.insert(ctx, tx, quote.Items)
	})
}

// UpdateQuote writes every editable column. With replaceItems the stored items are replaced by quote.Items.
func (r *PgxQuoteRepository) UpdateQuote(ctx context.Context, quote domain.Quote, replaceItems bool) error {
	m := mapping.ToModelQuote(quote)
	return withinTx(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			UPDATE quotes
			SET client_id = $1, date = $2, valid_until = $3, status = $4,
				subtotal = $5, tax_rate = $6, tax_amount = $7, total = $8,
				notes = $9, terms_and_conditions = $10,
				last_updated_at = $11, last_updated_by = $12, version = version + 1
			WHERE quote_id = $13 AND version = $14;
		`
		cmdTag, err := tx.Exec(ctx, query,
			m.ClientID, m.Date, m.ValidUntil, m.Status,
			m.Subtotal, m.TaxRate, m.TaxAmount, m.Total,
			m.Notes, m.TermsAndConditions,
			m.LastUpdatedAt, m.LastUpdatedBy,
			m.QuoteID, m.Version,
		)
		if err != nil {
			return translateError(err, fmt.Sprintf("failed to update quote %s", m.QuoteID))
		}
		if cmdTag.RowsAffected() == 0 {
			return staleOrMissing(ctx, tx, "quotes", "quote_id", m.QuoteID)
		}
		if !replaceItems {
			return nil
		}
		if err := quoteItems.deleteAll(ctx, tx, m.QuoteID); err != nil {
			return err
		}
		return quoteItems.insert(ctx, tx, quote.Items)
	})
}

// UpdateQuoteStatus writes only the status and audit columns.
func (r *PgxQuoteRepository) UpdateQuoteStatus(ctx context.Context, quote domain.Quote) error {
	query := `
		UPDATE quotes
		SET status = $1, last_updated_at = $2, last_updated_by = $3, version = version + 1
		WHERE quote_id = $4 AND version = $5;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		string(quote.Status), quote.LastUpdatedAt, quote.LastUpdatedBy, quote.QuoteID, quote.Version)
	if err != nil {
		return translateError(err, fmt.Sprintf("failed to update status of quote %s", quote.QuoteID))
	}
	if cmdTag.RowsAffected() == 0 {
		return staleOrMissing(ctx, r.db, "quotes", "quote_id", quote.QuoteID)
	}
	return nil
}

// DeleteQuote removes a quote. Its items cascade; invoices converted from it keep a NULL quote_id.
func (r *PgxQuoteRepository) DeleteQuote(ctx context.Context, quoteID string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM quotes WHERE quote_id = $1;`, quoteID)
	if err != nil {
		return translateError(err, fmt.Sprintf("failed to delete quote %s", quoteID))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("quote %s: %w", quoteID, apperrors.ErrNotFound)
	}
	return nil
}

// staleOrMissing explains a versioned update that touched no rows.
func staleOrMissing(ctx context.Context, db querier, table, idColumn, id string) error {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1);`, table, idColumn)
	if err := db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return translateError(err, fmt.Sprintf("failed to check %s %s", table, id))
	}
	if !exists {
		return fmt.Errorf("%s %s: %w", table, id, apperrors.ErrNotFound)
	}
	return fmt.Errorf("%s %s was modified concurrently: %w", table, id, apperrors.ErrConflict)
}

