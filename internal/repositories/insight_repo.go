package repositories

import (
	"context"
	"fmt"

	"github.com/arusops/arus/internal/database"
	"github.com/arusops/arus/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InsightRepository struct {
	pool *pgxpool.Pool
}

func NewInsightRepository(db *database.DB) *InsightRepository {
	return &InsightRepository{pool: db.Pool}
}

const insightColumns = "id, account_id, title, type, message, action, created_at"

func scanInsightRow(scanner rowScanner) (*models.Insight, error) {
	var insight models.Insight

	err := scanner.Scan(
		&insight.ID, &insight.AccountID, &insight.Title,
		&insight.Type, &insight.Message, &insight.Action, &insight.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &insight, nil
}

// ListRecent returns the account's newest insights, capped at limit
func (r *InsightRepository) ListRecent(ctx context.Context, accountID int64, limit int) ([]*models.Insight, error) {
	query := `
		SELECT ` + insightColumns + `
		FROM insights WHERE account_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query insights: %w", err)
	}
	defer rows.Close()

	insights := make([]*models.Insight, 0)
	for rows.Next() {
		insight, err := scanInsightRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan insight: %w", err)
		}
		insights = append(insights, insight)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return insights, nil
}

// CreateMany stores a batch of insights and returns the created rows
func (r *InsightRepository) CreateMany(ctx context.Context, accountID int64, insights []models.Insight) ([]*models.Insight, error) {
	query := `
		INSERT INTO insights (account_id, title, type, message, action)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + insightColumns

	created := make([]*models.Insight, 0, len(insights))
	for _, in := range insights {
		row, err := scanInsightRow(r.pool.QueryRow(ctx, query, accountID, in.Title, in.Type, in.Message, in.Action))
		if err != nil {
			return nil, fmt.Errorf("failed to insert insight: %w", err)
		}
		created = append(created, row)
	}

	return created, nil
}

// CreateManyTx bulk-inserts insights inside a transaction (seed bootstrap)
func (r *InsightRepository) CreateManyTx(ctx context.Context, tx pgx.Tx, accountID int64, insights []models.Insight) error {
	query := `
		INSERT INTO insights (account_id, title, type, message, action)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, in := range insights {
		if _, err := tx.Exec(ctx, query, accountID, in.Title, in.Type, in.Message, in.Action); err != nil {
			return fmt.Errorf("failed to insert insight: %w", database.MapPostgresError(err))
		}
	}

	return nil
}
