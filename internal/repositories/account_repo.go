package repositories

import (
	"context"
	"fmt"

	"github.com/arusops/arus/internal/database"
	"github.com/arusops/arus/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{pool: db.Pool}
}

const accountColumns = "id, email, password_hash, business_name, country, created_at, updated_at"

// rowScanner is satisfied by pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanAccountRow handles the nullable password_hash column
func scanAccountRow(scanner rowScanner) (*models.Account, error) {
	var account models.Account
	var passwordHash *string

	err := scanner.Scan(
		&account.ID, &account.Email, &passwordHash,
		&account.BusinessName, &account.Country,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if passwordHash != nil {
		account.PasswordHash = *passwordHash
	}

	return &account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccountRow(r.pool.QueryRow(ctx, query, id))
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return getAccountByEmail(ctx, r.pool, email)
}

// GetByEmailTx is the transactional variant used by the registration flow
func (r *AccountRepository) GetByEmailTx(ctx context.Context, tx pgx.Tx, email string) (*models.Account, error) {
	return getAccountByEmail(ctx, tx, email)
}

func getAccountByEmail(ctx context.Context, q querier, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return scanAccountRow(q.QueryRow(ctx, query, email))
}

func (r *AccountRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

// Create inserts an account. An empty passwordHash stores NULL, marking the
// account as provisioned but not yet registered.
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	return createAccount(ctx, r.pool, account)
}

func (r *AccountRepository) CreateTx(ctx context.Context, tx pgx.Tx, account *models.Account) (*models.Account, error) {
	return createAccount(ctx, tx, account)
}

func createAccount(ctx context.Context, q querier, account *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (email, password_hash, business_name, country)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + accountColumns

	var passwordHash *string
	if account.PasswordHash != "" {
		passwordHash = &account.PasswordHash
	}

	return scanAccountRow(q.QueryRow(ctx, query,
		account.Email, passwordHash, account.BusinessName, account.Country,
	))
}

// UpsertRegistrationTx sets the credential and profile for email, creating
// the row when absent. Runs inside the registration transaction so the
// check-then-create sequence serializes on the unique email index.
func (r *AccountRepository) UpsertRegistrationTx(ctx context.Context, tx pgx.Tx, email, passwordHash, businessName, country string) (*models.Account, error) {
	query := `
		INSERT INTO accounts (email, password_hash, business_name, country)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    business_name = EXCLUDED.business_name,
		    country = EXCLUDED.country,
		    updated_at = NOW()
		RETURNING ` + accountColumns

	return scanAccountRow(tx.QueryRow(ctx, query, email, passwordHash, businessName, country))
}

// UpdateProfile applies a partial profile update; nil fields are left unchanged
func (r *AccountRepository) UpdateProfile(ctx context.Context, id int64, businessName, country *string) (*models.Account, error) {
	query := `
		UPDATE accounts
		SET business_name = COALESCE($1, business_name),
		    country = COALESCE($2, country),
		    updated_at = NOW()
		WHERE id = $3
		RETURNING ` + accountColumns

	return scanAccountRow(r.pool.QueryRow(ctx, query, businessName, country, id))
}
