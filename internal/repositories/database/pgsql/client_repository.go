package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/erp_lite/internal/apperrors"
	"github.com/SscSPs/erp_lite/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_lite/internal/core/ports/repositories"
	"github.com/SscSPs/erp_lite/internal/models"
	"github.com/SscSPs/erp_lite/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxClientRepository struct {
	db *pgxpool.Pool
}

func newPgxClientRepository(db *pgxpool.Pool) portsrepo.ClientRepositoryFacade {
	return &PgxClientRepository{db: db}
}

// Ensure PgxClientRepository implements portsrepo.ClientRepositoryFacade
var _ portsrepo.ClientRepositoryFacade = (*PgxClientRepository)(nil)

func (r *PgxClientRepository) SaveClient(ctx context.Context, client domain.Client) error {
	m := mapping.ToModelClient(client)
	query := `
		INSERT INTO clients (client_id, name, company, email, phone, address, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.db.Exec(ctx, query,
		m.ClientID, m.Name, m.Company, m.Email, m.Phone, m.Address,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if isPgError(err, codeUniqueViolation) {
		return fmt.Errorf("client %s: %w", m.ClientID, apperrors.ErrDuplicate)
	}
	if err != nil {
		return translateError(err, "failed to save client")
	}
	return nil
}

func (r *PgxClientRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	query := `
		SELECT client_id, name, company, email, phone, address, created_at, created_by, last_updated_at, last_updated_by
		FROM clients
		WHERE client_id = $1;
	`
	var m models.Client
	err := r.db.QueryRow(ctx, query, clientID).Scan(
		&m.ClientID, &m.Name, &m.Company, &m.Email, &m.Phone, &m.Address,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("failed to find client %s", clientID))
	}
	client := mapping.ToDomainClient(m)
	return &client, nil
}

func (r *PgxClientRepository) ListClients(ctx context.Context) ([]domain.Client, error) {
	query := `
		SELECT client_id, name, company, email, phone, address, created_at, created_by, last_updated_at, last_updated_by
		FROM clients
		ORDER BY name;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, translateError(err, "failed to query clients")
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var m models.Client
		if err := rows.Scan(
			&m.ClientID, &m.Name, &m.Company, &m.Email, &m.Phone, &m.Address,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan client row: %w", err)
		}
		clients = append(clients, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating client rows: %w", err)
	}
	return mapping.ToDomainClientSlice(clients), nil
}

func (r *PgxClientRepository) UpdateClient(ctx context.Context, client domain.Client) error {
	m := mapping.ToModelClient(client)
	query := `
		UPDATE clients
		SET name = $1, company = $2, email = $3, phone = $4, address = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE client_id = $8;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		m.Name, m.Company, m.Email, m.Phone, m.Address,
		m.LastUpdatedAt, m.LastUpdatedBy, m.ClientID,
	)
	if err != nil {
		return translateError(err, fmt.Sprintf("failed to update client %s", m.ClientID))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("client %s: %w", m.ClientID, apperrors.ErrNotFound)
	}
	return nil
}

// DeleteClient refuses to remove a client that documents still reference.
func (r *PgxClientRepository) DeleteClient(ctx context.Context, clientID string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM clients WHERE client_id = $1;`, clientID)
	if isPgError(err, codeForeignKeyViolation) {
		return fmt.Errorf("client %s has quotes or invoices: %w", clientID, apperrors.ErrConflict)
	}
	if err != nil {
		return translateError(err, fmt.Sprintf("failed to delete client %s", clientID))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("client %s: %w", clientID, apperrors.ErrNotFound)
	}
	return nil
}
