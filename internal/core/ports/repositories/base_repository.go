package repositories

import (
	"context"
)

// TxRepositories are repositories bound to one open database transaction. Everything done
// through them commits or rolls back together.
type TxRepositories struct {
	Quotes    QuoteRepositoryFacade
	Invoices  InvoiceRepositoryFacade
	Sequences SequenceRepository
}

// TransactionManager defines methods for transaction management
type TransactionManager interface {
	// WithTx runs fn inside a single database transaction. The transaction commits when fn
	// returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}
