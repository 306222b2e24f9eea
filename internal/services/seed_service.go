package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/arusops/arus/internal/models"
	"github.com/jackc/pgx/v5"
)

// SeedAccountRepository defines the account operations used by SeedService
type SeedAccountRepository interface {
	Count(ctx context.Context) (int64, error)
	CreateTx(ctx context.Context, tx pgx.Tx, account *models.Account) (*models.Account, error)
}

// SeedRevenueRepository inserts pre-filled demo revenue rows
type SeedRevenueRepository interface {
	CreateSeedMonthsTx(ctx context.Context, tx pgx.Tx, records []models.RevenueRecord) error
}

// SeedInsightRepository inserts demo insights
type SeedInsightRepository interface {
	CreateManyTx(ctx context.Context, tx pgx.Tx, accountID int64, insights []models.Insight) error
}

// SeedResult reports the outcome of a seed attempt
type SeedResult struct {
	OK        bool   `json:"ok"`
	Message   string `json:"message"`
	AccountID int64  `json:"userId,omitempty"`
}

// SeedService bootstraps a demo account on an empty database. The demo
// account has no credential; someone claims it by registering with its email.
type SeedService struct {
	db       TxRunner
	accounts SeedAccountRepository
	recipes  RecipeSeeder
	revenue  SeedRevenueRepository
	insights SeedInsightRepository
	logger   *slog.Logger
}

// NewSeedService creates a new SeedService
func NewSeedService(db TxRunner, accounts SeedAccountRepository, recipes RecipeSeeder, revenue SeedRevenueRepository, insights SeedInsightRepository, logger *slog.Logger) *SeedService {
	return &SeedService{
		db:       db,
		accounts: accounts,
		recipes:  recipes,
		revenue:  revenue,
		insights: insights,
		logger:   logger,
	}
}

// Seed provisions the demo dataset when no accounts exist yet
func (s *SeedService) Seed(ctx context.Context) (*SeedResult, error) {
	count, err := s.accounts.Count(ctx)
	if err != nil {
		s.logger.Error("failed to count accounts", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	if count > 0 {
		return &SeedResult{OK: true, Message: "Seed skipped: users already exist"}, nil
	}

	var accountID int64
	err = s.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		account, err := s.accounts.CreateTx(ctx, tx, &models.Account{
			Email:        "demo@arus.local",
			BusinessName: "Demo SME",
		})
		if err != nil {
			return err
		}
		accountID = account.ID

		if err := s.recipes.CreateManyTx(ctx, tx, accountID, seedRecipes()); err != nil {
			return err
		}
		if err := s.revenue.CreateSeedMonthsTx(ctx, tx, seedRevenue(accountID)); err != nil {
			return err
		}
		return s.insights.CreateManyTx(ctx, tx, accountID, seedInsights())
	})
	if err != nil {
		s.logger.Error("seed transaction failed", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("demo data seeded", slog.Int64("account_id", accountID))

	return &SeedResult{OK: true, Message: "Seed completed", AccountID: accountID}, nil
}

func seedRecipes() []models.AutomationRecipe {
	return []models.AutomationRecipe{
		{Title: "Auto-Reply WhatsApp", Category: "Communication", Config: map[string]any{"message": "Thanks! We'll reply soon.", "delay": 1}, Enabled: true},
		{Title: "Low Stock Alert", Category: "Inventory", Config: map[string]any{"threshold": 10, "channels": []string{"email", "whatsapp"}}, Enabled: true},
		{Title: "Flash Sale Trigger", Category: "Sales", Config: map[string]any{"threshold": 30, "delay": 15}, Enabled: false},
		{Title: "Order Confirmation SMS", Category: "Orders", Config: map[string]any{"message": "Order confirmed", "channels": []string{"sms", "whatsapp"}}, Enabled: true},
		{Title: "Shipping Status Updates", Category: "Shipping", Config: map[string]any{"channels": []string{"sms", "email"}, "frequency": "On status change"}, Enabled: true},
	}
}

func seedRevenue(accountID int64) []models.RevenueRecord {
	year := time.Now().Year()
	records := make([]models.RevenueRecord, 0, len(starterMonths))
	for i, month := range starterMonths {
		records = append(records, models.RevenueRecord{
			AccountID: accountID,
			Month:     month,
			Year:      year,
			Revenue:   int64(45000 + i*5000),
			Cost:      int64(20000 + i*3000),
		})
	}
	return records
}

func seedInsights() []models.Insight {
	return []models.Insight{
		{Title: "Churn Risk", Type: "warning", Message: "15 customers inactive > 30 days.", Action: "Auto-Draft Promo"},
		{Title: "Price Optimization", Type: "success", Message: "Increase Kopi price by 5% on weekend.", Action: "Apply"},
		{Title: "Demand Forecast", Type: "info", Message: "High demand expected for Electronics next week.", Action: "Stock Up"},
	}
}
