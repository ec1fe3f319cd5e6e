package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/erp_lite/internal/core/domain"
	"github.com/SscSPs/erp_lite/internal/models"
	"github.com/SscSPs/erp_lite/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

// itemTable names a line item table and its document foreign key. Only the two constants below
// are ever interpolated into SQL.
type itemTable struct {
	table string
	fk    string
}

var (
	quoteItems   = itemTable{table: "quote_items", fk: "quote_id"}
	invoiceItems = itemTable{table: "invoice_items", fk: "invoice_id"}
)

// insert writes items with a single batch round trip.
func (t itemTable) insert(ctx context.Context, db querier, items []domain.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (item_id, %s, position, description, quantity, unit_price, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`, t.table, t.fk)

	batch := &pgx.Batch{}
	for _, item := range mapping.ToModelItems(items) {
		batch.Queue(query, item.ItemID, item.DocumentID, item.Position, item.Description, item.Quantity, item.UnitPrice, item.Total)
	}
	results := db.SendBatch(ctx, batch)
	for range items {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return translateError(err, "failed to insert "+t.table)
		}
	}
	if err := results.Close(); err != nil {
		return translateError(err, "failed to insert "+t.table)
	}
	return nil
}

func (t itemTable) deleteAll(ctx context.Context, db querier, documentID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1;`, t.table, t.fk)
	if _, err := db.Exec(ctx, query, documentID); err != nil {
		return translateError(err, "failed to delete "+t.table)
	}
	return nil
}

// load fetches the items of several documents in one query, grouped by document.
func (t itemTable) load(ctx context.Context, db querier, documentIDs []string) (map[string][]models.DocumentItem, error) {
	grouped := make(map[string][]models.DocumentItem, len(documentIDs))
	if len(documentIDs) == 0 {
		return grouped, nil
	}
	query := fmt.Sprintf(`
		SELECT item_id, %s, position, description, quantity, unit_price, total
		FROM %s
		WHERE %s = ANY($1)
		ORDER BY %s, position;
	`, t.fk, t.table, t.fk, t.fk)

	rows, err := db.Query(ctx, query, documentIDs)
	if err != nil {
		return nil, translateError(err, "failed to query "+t.table)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.DocumentItem
		if err := rows.Scan(
			&item.ItemID,
			&item.DocumentID,
			&item.Position,
			&item.Description,
			&item.Quantity,
			&item.UnitPrice,
			&item.Total,
		); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", t.table, err)
		}
		grouped[item.DocumentID] = append(grouped[item.DocumentID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", t.table, err)
	}
	return grouped, nil
}
