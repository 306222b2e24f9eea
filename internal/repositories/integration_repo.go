package repositories

import (
	"context"
	"fmt"

	"github.com/arusops/arus/internal/database"
	"github.com/arusops/arus/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type IntegrationRepository struct {
	pool *pgxpool.Pool
}

func NewIntegrationRepository(db *database.DB) *IntegrationRepository {
	return &IntegrationRepository{pool: db.Pool}
}

const integrationColumns = "id, account_id, type, name, is_connected, config, created_at, updated_at"

func scanIntegrationRow(scanner rowScanner) (*models.Integration, error) {
	var integration models.Integration

	err := scanner.Scan(
		&integration.ID, &integration.AccountID, &integration.Type, &integration.Name,
		&integration.IsConnected, &integration.Config, &integration.CreatedAt, &integration.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &integration, nil
}

// ListByAccount returns the account's integrations, newest first
func (r *IntegrationRepository) ListByAccount(ctx context.Context, accountID int64) ([]*models.Integration, error) {
	query := `
		SELECT ` + integrationColumns + `
		FROM integrations WHERE account_id = $1 ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query integrations: %w", err)
	}
	defer rows.Close()

	integrations := make([]*models.Integration, 0)
	for rows.Next() {
		integration, err := scanIntegrationRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan integration: %w", err)
		}
		integrations = append(integrations, integration)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return integrations, nil
}

func (r *IntegrationRepository) Create(ctx context.Context, accountID int64, integrationType, name string, config map[string]string) (*models.Integration, error) {
	query := `
		INSERT INTO integrations (account_id, type, name, config)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + integrationColumns

	if config == nil {
		config = map[string]string{}
	}

	return scanIntegrationRow(r.pool.QueryRow(ctx, query, accountID, integrationType, name, config))
}

// IntegrationPatch holds the optional fields of an integration update
type IntegrationPatch struct {
	Name        *string
	IsConnected *bool
	Config      map[string]string
}

// Update patches an integration owned by the account; not-owned ids yield ErrNotFound
func (r *IntegrationRepository) Update(ctx context.Context, accountID, id int64, patch IntegrationPatch) (*models.Integration, error) {
	query := `
		UPDATE integrations
		SET name = COALESCE($1, name),
		    is_connected = COALESCE($2, is_connected),
		    config = COALESCE($3, config),
		    updated_at = NOW()
		WHERE id = $4 AND account_id = $5
		RETURNING ` + integrationColumns

	var config any
	if patch.Config != nil {
		config = patch.Config
	}

	return scanIntegrationRow(r.pool.QueryRow(ctx, query,
		patch.Name, patch.IsConnected, config, id, accountID,
	))
}

// Delete removes an integration owned by the account; not-owned ids yield ErrNotFound
func (r *IntegrationRepository) Delete(ctx context.Context, accountID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM integrations WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
