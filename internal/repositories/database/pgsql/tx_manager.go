package pgsql

import (
	"context"
	"fmt"

	portsrepo "github.com/SscSPs/erp_lite/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxTransactionManager runs units of work on a single pgx transaction.
type PgxTransactionManager struct {
	BaseRepository
}

// NewPgxTransactionManager creates a transaction manager on the pool.
func NewPgxTransactionManager(pool *pgxpool.Pool) portsrepo.TransactionManager {
	return &PgxTransactionManager{BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionManager = (*PgxTransactionManager)(nil)

// WithTx commits when fn returns nil and rolls back otherwise. Errors from fn are returned unwrapped.
func (m *PgxTransactionManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) (err error) {
	tx, err := m.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = m.Rollback(ctx, tx)
			panic(p)
		}
		if err != nil {
			if rbErr := m.Rollback(ctx, tx); rbErr != nil {
				err = fmt.Errorf("%w (rollback: %v)", err, rbErr)
			}
		}
	}()

	repos := portsrepo.TxRepositories{
		Quotes:    newPgxQuoteRepository(tx),
		Invoices:  newPgxInvoiceRepository(tx),
		Sequences: newPgxSequenceRepository(tx),
	}
	if err = fn(ctx, repos); err != nil {
		return err
	}
	return m.Commit(ctx, tx)
}
