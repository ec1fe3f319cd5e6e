package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/erp_lite/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_lite/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

// PgxSequenceRepository keeps one counter row per document type and year. It is only handed
// out bound to a transaction: the upsert locks the row until commit.
type PgxSequenceRepository struct {
	db querier
}

func newPgxSequenceRepository(db querier) *PgxSequenceRepository {
	return &PgxSequenceRepository{db: db}
}

var _ portsrepo.SequenceRepository = (*PgxSequenceRepository)(nil)

func (r *PgxSequenceRepository) NextSequence(ctx context.Context, docType domain.DocumentType, year int) (int, error) {
	query := `
		INSERT INTO document_sequences (document_type, year, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (document_type, year)
		DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value;
	`
	var value int
	if err := r.db.QueryRow(ctx, query, string(docType), year).Scan(&value); err != nil {
		return 0, translateError(err, fmt.Sprintf("failed to increment %s sequence for %d", docType, year))
	}
	return value, nil
}

func (r *PgxSequenceRepository) AdvanceSequence(ctx context.Context, docType domain.DocumentType, year int, value int) error {
	query := `
		INSERT INTO document_sequences (document_type, year, last_value)
		VALUES ($1, $2, $3)
		ON CONFLICT (document_type, year)
		DO UPDATE SET last_value = GREATEST(document_sequences.last_value, EXCLUDED.last_value);
	`
	if _, err := r.db.Exec(ctx, query, string(docType), year, value); err != nil {
		return translateError(err, fmt.Sprintf("failed to advance %s sequence for %d", docType, year))
	}
	return nil
}

// FindMaxNumber relies on the fixed width of the sequence part: within one prefix the
// lexicographic maximum is the numeric maximum.
func (r *PgxSequenceRepository) FindMaxNumber(ctx context.Context, docType domain.DocumentType, prefix string) (string, error) {
	var table string
	switch docType {
	case domain.DocumentTypeQuote:
		table = "quotes"
	case domain.DocumentTypeInvoice:
		table = "invoices"
	default:
		return "", fmt.Errorf("unknown document type %q", docType)
	}

	query := fmt.Sprintf(`SELECT number FROM %s WHERE number LIKE $1 ORDER BY number DESC LIMIT 1;`, table)
	var number string
	err := r.db.QueryRow(ctx, query, prefix+"%").Scan(&number)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", translateError(err, fmt.Sprintf("failed to read latest %s number", docType))
	}
	return number, nil
}
