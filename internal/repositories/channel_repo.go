package repositories

import (
	"context"
	"fmt"

	"github.com/arusops/arus/internal/database"
	"github.com/arusops/arus/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ChannelRepository struct {
	pool *pgxpool.Pool
}

func NewChannelRepository(db *database.DB) *ChannelRepository {
	return &ChannelRepository{pool: db.Pool}
}

const channelColumns = "id, account_id, name, icon, enabled, created_at"

func scanChannelRow(scanner rowScanner) (*models.SalesChannel, error) {
	var channel models.SalesChannel

	err := scanner.Scan(
		&channel.ID, &channel.AccountID, &channel.Name,
		&channel.Icon, &channel.Enabled, &channel.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &channel, nil
}

func (r *ChannelRepository) ListByAccount(ctx context.Context, accountID int64) ([]*models.SalesChannel, error) {
	query := `
		SELECT ` + channelColumns + `
		FROM sales_channels WHERE account_id = $1 ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query channels: %w", err)
	}
	defer rows.Close()

	channels := make([]*models.SalesChannel, 0)
	for rows.Next() {
		channel, err := scanChannelRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan channel: %w", err)
		}
		channels = append(channels, channel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return channels, nil
}

func (r *ChannelRepository) Create(ctx context.Context, accountID int64, name, icon string) (*models.SalesChannel, error) {
	query := `
		INSERT INTO sales_channels (account_id, name, icon)
		VALUES ($1, $2, $3)
		RETURNING ` + channelColumns

	return scanChannelRow(r.pool.QueryRow(ctx, query, accountID, name, icon))
}

// ChannelPatch holds the optional fields of a channel update
type ChannelPatch struct {
	Name    *string
	Icon    *string
	Enabled *bool
}

// Update patches a channel owned by the account; not-owned ids yield ErrNotFound
func (r *ChannelRepository) Update(ctx context.Context, accountID, id int64, patch ChannelPatch) (*models.SalesChannel, error) {
	query := `
		UPDATE sales_channels
		SET name = COALESCE($1, name),
		    icon = COALESCE($2, icon),
		    enabled = COALESCE($3, enabled)
		WHERE id = $4 AND account_id = $5
		RETURNING ` + channelColumns

	return scanChannelRow(r.pool.QueryRow(ctx, query, patch.Name, patch.Icon, patch.Enabled, id, accountID))
}

// Delete removes a channel owned by the account; not-owned ids yield ErrNotFound
func (r *ChannelRepository) Delete(ctx context.Context, accountID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sales_channels WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// CreateManyTx bulk-inserts channels inside a transaction (seed bootstrap)
func (r *ChannelRepository) CreateManyTx(ctx context.Context, tx pgx.Tx, accountID int64, channels []models.SalesChannel) error {
	query := `
		INSERT INTO sales_channels (account_id, name, icon, enabled)
		VALUES ($1, $2, $3, $4)
	`

	for _, channel := range channels {
		if _, err := tx.Exec(ctx, query, accountID, channel.Name, channel.Icon, channel.Enabled); err != nil {
			return fmt.Errorf("failed to insert channel %q: %w", channel.Name, database.MapPostgresError(err))
		}
	}

	return nil
}
