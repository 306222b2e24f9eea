package repositories

import (
	"context"
	"fmt"

	"github.com/arusops/arus/internal/database"
	"github.com/arusops/arus/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RevenueRepository struct {
	pool *pgxpool.Pool
}

func NewRevenueRepository(db *database.DB) *RevenueRepository {
	return &RevenueRepository{pool: db.Pool}
}

const revenueColumns = "id, account_id, month, year, revenue, cost, orders, created_at, updated_at"

func scanRevenueRow(scanner rowScanner) (*models.RevenueRecord, error) {
	var rec models.RevenueRecord

	err := scanner.Scan(
		&rec.ID, &rec.AccountID, &rec.Month, &rec.Year,
		&rec.Revenue, &rec.Cost, &rec.Orders, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &rec, nil
}

func scanRevenueRows(rows pgx.Rows) ([]*models.RevenueRecord, error) {
	defer rows.Close()

	records := make([]*models.RevenueRecord, 0)
	for rows.Next() {
		rec, err := scanRevenueRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan revenue record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

// ListByYear returns the account's records for one year in insertion order
func (r *RevenueRepository) ListByYear(ctx context.Context, accountID int64, year int) ([]*models.RevenueRecord, error) {
	query := `
		SELECT ` + revenueColumns + `
		FROM revenue_records WHERE account_id = $1 AND year = $2 ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, accountID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue records: %w", err)
	}

	return scanRevenueRows(rows)
}

// ListByAccount returns all of the account's records, for dashboard aggregation
func (r *RevenueRepository) ListByAccount(ctx context.Context, accountID int64) ([]*models.RevenueRecord, error) {
	query := `
		SELECT ` + revenueColumns + `
		FROM revenue_records WHERE account_id = $1 ORDER BY year, id
	`

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue records: %w", err)
	}

	return scanRevenueRows(rows)
}

// RevenuePatch carries the optional figures of an upsert; nil fields keep
// the stored value (or default to zero when the row is first created).
type RevenuePatch struct {
	Revenue *int64
	Cost    *int64
	Orders  *int
}

// Upsert writes the (account, month, year) row, creating it with zero
// defaults for absent fields and otherwise patching only the given ones.
func (r *RevenueRepository) Upsert(ctx context.Context, accountID int64, month string, year int, patch RevenuePatch) (*models.RevenueRecord, error) {
	query := `
		INSERT INTO revenue_records (account_id, month, year, revenue, cost, orders)
		VALUES ($1, $2, $3, COALESCE($4, 0), COALESCE($5, 0), COALESCE($6, 0))
		ON CONFLICT (account_id, month, year) DO UPDATE
		SET revenue = COALESCE($4, revenue_records.revenue),
		    cost = COALESCE($5, revenue_records.cost),
		    orders = COALESCE($6, revenue_records.orders),
		    updated_at = NOW()
		RETURNING ` + revenueColumns

	return scanRevenueRow(r.pool.QueryRow(ctx, query,
		accountID, month, year, patch.Revenue, patch.Cost, patch.Orders,
	))
}

// CreateMonthsTx seeds empty month rows for a new account inside a transaction
func (r *RevenueRepository) CreateMonthsTx(ctx context.Context, tx pgx.Tx, accountID int64, months []string, year int) error {
	query := `
		INSERT INTO revenue_records (account_id, month, year)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id, month, year) DO NOTHING
	`

	for _, month := range months {
		if _, err := tx.Exec(ctx, query, accountID, month, year); err != nil {
			return fmt.Errorf("failed to insert month %q: %w", month, database.MapPostgresError(err))
		}
	}

	return nil
}

// CreateSeedMonthsTx inserts pre-filled demo figures (seed bootstrap only)
func (r *RevenueRepository) CreateSeedMonthsTx(ctx context.Context, tx pgx.Tx, records []models.RevenueRecord) error {
	query := `
		INSERT INTO revenue_records (account_id, month, year, revenue, cost, orders)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (account_id, month, year) DO NOTHING
	`

	for _, rec := range records {
		if _, err := tx.Exec(ctx, query, rec.AccountID, rec.Month, rec.Year, rec.Revenue, rec.Cost, rec.Orders); err != nil {
			return fmt.Errorf("failed to insert seed month %q: %w", rec.Month, database.MapPostgresError(err))
		}
	}

	return nil
}
