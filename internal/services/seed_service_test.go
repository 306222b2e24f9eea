package services

import (
	"context"
	"testing"
	"time"

	"github.com/arusops/arus/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_FreshDatabase(t *testing.T) {
	var seededRecipes []models.AutomationRecipe
	var seededRevenue []models.RevenueRecord
	var seededInsights []models.Insight

	accounts := &mockAccountRepo{
		CountFunc: func(ctx context.Context) (int64, error) { return 0, nil },
		CreateTxFunc: func(ctx context.Context, tx pgx.Tx, account *models.Account) (*models.Account, error) {
			assert.Equal(t, "demo@arus.local", account.Email)
			assert.Equal(t, "Demo SME", account.BusinessName)
			assert.Empty(t, account.PasswordHash, "demo account starts without a credential")
			created := *account
			created.ID = 1
			return &created, nil
		},
	}
	recipes := &mockRecipeStore{
		CreateManyTxFunc: func(ctx context.Context, tx pgx.Tx, accountID int64, batch []models.AutomationRecipe) error {
			assert.Equal(t, int64(1), accountID)
			seededRecipes = batch
			return nil
		},
	}
	revenue := &mockRevenueStore{
		CreateSeedMonthsTxFunc: func(ctx context.Context, tx pgx.Tx, records []models.RevenueRecord) error {
			seededRevenue = records
			return nil
		},
	}
	insights := &mockInsightStore{
		CreateManyTxFunc: func(ctx context.Context, tx pgx.Tx, accountID int64, batch []models.Insight) error {
			seededInsights = batch
			return nil
		},
	}

	service := NewSeedService(&mockTxRunner{}, accounts, recipes, revenue, insights, testLogger())

	result, err := service.Seed(context.Background())

	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, "Seed completed", result.Message)
	assert.Equal(t, int64(1), result.AccountID)

	require.Len(t, seededRecipes, 5)
	assert.Equal(t, "Auto-Reply WhatsApp", seededRecipes[0].Title)
	assert.False(t, seededRecipes[2].Enabled, "Flash Sale Trigger starts disabled")

	year := time.Now().Year()
	require.Len(t, seededRevenue, 6)
	assert.Equal(t, "Jan", seededRevenue[0].Month)
	assert.Equal(t, year, seededRevenue[0].Year)
	assert.Equal(t, int64(45000), seededRevenue[0].Revenue)
	assert.Equal(t, int64(20000), seededRevenue[0].Cost)
	assert.Equal(t, int64(70000), seededRevenue[5].Revenue)
	assert.Equal(t, int64(35000), seededRevenue[5].Cost)

	require.Len(t, seededInsights, 3)
	assert.Equal(t, "15 customers inactive > 30 days.", seededInsights[0].Message)
}

func TestSeed_SkipsWhenAccountsExist(t *testing.T) {
	accounts := &mockAccountRepo{
		CountFunc: func(ctx context.Context) (int64, error) { return 3, nil },
		CreateTxFunc: func(ctx context.Context, tx pgx.Tx, account *models.Account) (*models.Account, error) {
			t.Fatal("seed must not create accounts when any exist")
			return nil, nil
		},
	}

	service := NewSeedService(&mockTxRunner{}, accounts, &mockRecipeStore{}, &mockRevenueStore{}, &mockInsightStore{}, testLogger())

	result, err := service.Seed(context.Background())

	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, "Seed skipped: users already exist", result.Message)
	assert.Zero(t, result.AccountID)
}

func TestSeed_TransactionFailure(t *testing.T) {
	service := NewSeedService(&mockTxRunner{Err: assert.AnError}, &mockAccountRepo{}, &mockRecipeStore{}, &mockRevenueStore{}, &mockInsightStore{}, testLogger())

	result, err := service.Seed(context.Background())

	assert.ErrorIs(t, err, models.ErrInternalServer)
	assert.Nil(t, result)
}
