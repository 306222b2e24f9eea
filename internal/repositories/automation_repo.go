package repositories

import (
	"context"
	"fmt"

	"github.com/arusops/arus/internal/database"
	"github.com/arusops/arus/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AutomationRepository struct {
	pool *pgxpool.Pool
}

func NewAutomationRepository(db *database.DB) *AutomationRepository {
	return &AutomationRepository{pool: db.Pool}
}

const recipeColumns = "id, account_id, title, category, config, enabled, created_at, updated_at"

func scanRecipeRow(scanner rowScanner) (*models.AutomationRecipe, error) {
	var recipe models.AutomationRecipe

	err := scanner.Scan(
		&recipe.ID, &recipe.AccountID, &recipe.Title, &recipe.Category,
		&recipe.Config, &recipe.Enabled, &recipe.CreatedAt, &recipe.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &recipe, nil
}

func scanRecipeRows(rows pgx.Rows) ([]*models.AutomationRecipe, error) {
	defer rows.Close()

	recipes := make([]*models.AutomationRecipe, 0)
	for rows.Next() {
		recipe, err := scanRecipeRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return recipes, nil
}

// ListByAccount returns all recipes for the account, most recently touched first
func (r *AutomationRepository) ListByAccount(ctx context.Context, accountID int64) ([]*models.AutomationRecipe, error) {
	query := `
		SELECT ` + recipeColumns + `
		FROM automation_recipes WHERE account_id = $1 ORDER BY updated_at DESC
	`

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}

	return scanRecipeRows(rows)
}

// ListRecent returns the most recently updated recipes, for the dashboard activity feed
func (r *AutomationRepository) ListRecent(ctx context.Context, accountID int64, limit int) ([]*models.AutomationRecipe, error) {
	query := `
		SELECT ` + recipeColumns + `
		FROM automation_recipes WHERE account_id = $1 ORDER BY updated_at DESC LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent recipes: %w", err)
	}

	return scanRecipeRows(rows)
}

// RecipePatch holds the optional fields of a recipe update; nil leaves the
// stored value unchanged.
type RecipePatch struct {
	Title    *string
	Category *string
	Config   map[string]any
	Enabled  *bool
}

// Update applies a partial update to a recipe owned by the account.
// A recipe that does not exist or belongs to another account yields
// models.ErrNotFound.
func (r *AutomationRepository) Update(ctx context.Context, accountID, id int64, patch RecipePatch) (*models.AutomationRecipe, error) {
	query := `
		UPDATE automation_recipes
		SET title = COALESCE($1, title),
		    category = COALESCE($2, category),
		    config = COALESCE($3, config),
		    enabled = COALESCE($4, enabled),
		    updated_at = NOW()
		WHERE id = $5 AND account_id = $6
		RETURNING ` + recipeColumns

	var config any
	if patch.Config != nil {
		config = patch.Config
	}

	return scanRecipeRow(r.pool.QueryRow(ctx, query,
		patch.Title, patch.Category, config, patch.Enabled, id, accountID,
	))
}

// CreateManyTx bulk-inserts recipes inside a transaction (registration and seed)
func (r *AutomationRepository) CreateManyTx(ctx context.Context, tx pgx.Tx, accountID int64, recipes []models.AutomationRecipe) error {
	query := `
		INSERT INTO automation_recipes (account_id, title, category, config, enabled)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, recipe := range recipes {
		if _, err := tx.Exec(ctx, query, accountID, recipe.Title, recipe.Category, recipe.Config, recipe.Enabled); err != nil {
			return fmt.Errorf("failed to insert recipe %q: %w", recipe.Title, database.MapPostgresError(err))
		}
	}

	return nil
}
