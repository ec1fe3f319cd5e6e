package pgsql

import (
	portsrepo "github.com/SscSPs/erp_lite/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgx repository onto one pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:     NewPgxTransactionManager(pool),
		QuoteRepo:     NewPgxQuoteRepository(pool),
		InvoiceRepo:   NewPgxInvoiceRepository(pool),
		ClientRepo:    newPgxClientRepository(pool),
		UserRepo:      newPgxUserRepository(pool),
		ReportingRepo: newPgxReportingRepository(pool),
	}
}
