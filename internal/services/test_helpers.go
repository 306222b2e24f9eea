package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/arusops/arus/internal/models"
	"github.com/arusops/arus/internal/repositories"
	pkglogger "github.com/arusops/arus/pkg/logger"
	"github.com/jackc/pgx/v5"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAuditLogger() *pkglogger.AuditLogger {
	return pkglogger.NewAuditLogger(testLogger())
}

// mockTxRunner runs the transaction body with a nil tx. The mocked
// repositories never touch it.
type mockTxRunner struct {
	Err error
}

func (m *mockTxRunner) WithTransaction(ctx context.Context, fn func(pgx.Tx) error) error {
	if m.Err != nil {
		return m.Err
	}
	return fn(nil)
}

// mockAccountRepo covers both the auth and seed account interfaces
type mockAccountRepo struct {
	GetByIDFunc              func(ctx context.Context, id int64) (*models.Account, error)
	GetByEmailFunc           func(ctx context.Context, email string) (*models.Account, error)
	GetByEmailTxFunc         func(ctx context.Context, tx pgx.Tx, email string) (*models.Account, error)
	UpsertRegistrationTxFunc func(ctx context.Context, tx pgx.Tx, email, passwordHash, businessName, country string) (*models.Account, error)
	UpdateProfileFunc        func(ctx context.Context, id int64, businessName, country *string) (*models.Account, error)
	CountFunc                func(ctx context.Context) (int64, error)
	CreateTxFunc             func(ctx context.Context, tx pgx.Tx, account *models.Account) (*models.Account, error)
}

func (m *mockAccountRepo) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	if m.GetByIDFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *mockAccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	if m.GetByEmailFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetByEmailFunc(ctx, email)
}

func (m *mockAccountRepo) GetByEmailTx(ctx context.Context, tx pgx.Tx, email string) (*models.Account, error) {
	if m.GetByEmailTxFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetByEmailTxFunc(ctx, tx, email)
}

func (m *mockAccountRepo) UpsertRegistrationTx(ctx context.Context, tx pgx.Tx, email, passwordHash, businessName, country string) (*models.Account, error) {
	if m.UpsertRegistrationTxFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.UpsertRegistrationTxFunc(ctx, tx, email, passwordHash, businessName, country)
}

func (m *mockAccountRepo) UpdateProfile(ctx context.Context, id int64, businessName, country *string) (*models.Account, error) {
	if m.UpdateProfileFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateProfileFunc(ctx, id, businessName, country)
}

func (m *mockAccountRepo) Count(ctx context.Context) (int64, error) {
	if m.CountFunc == nil {
		return 0, nil
	}
	return m.CountFunc(ctx)
}

func (m *mockAccountRepo) CreateTx(ctx context.Context, tx pgx.Tx, account *models.Account) (*models.Account, error) {
	if m.CreateTxFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.CreateTxFunc(ctx, tx, account)
}

// mockRecipeStore covers RecipeSeeder, AutomationStore and RecentRecipeLister
type mockRecipeStore struct {
	CreateManyTxFunc  func(ctx context.Context, tx pgx.Tx, accountID int64, recipes []models.AutomationRecipe) error
	ListByAccountFunc func(ctx context.Context, accountID int64) ([]*models.AutomationRecipe, error)
	ListRecentFunc    func(ctx context.Context, accountID int64, limit int) ([]*models.AutomationRecipe, error)
	UpdateFunc        func(ctx context.Context, accountID, id int64, patch repositories.RecipePatch) (*models.AutomationRecipe, error)
}

func (m *mockRecipeStore) CreateManyTx(ctx context.Context, tx pgx.Tx, accountID int64, recipes []models.AutomationRecipe) error {
	if m.CreateManyTxFunc == nil {
		return nil
	}
	return m.CreateManyTxFunc(ctx, tx, accountID, recipes)
}

func (m *mockRecipeStore) ListByAccount(ctx context.Context, accountID int64) ([]*models.AutomationRecipe, error) {
	if m.ListByAccountFunc == nil {
		return []*models.AutomationRecipe{}, nil
	}
	return m.ListByAccountFunc(ctx, accountID)
}

func (m *mockRecipeStore) ListRecent(ctx context.Context, accountID int64, limit int) ([]*models.AutomationRecipe, error) {
	if m.ListRecentFunc == nil {
		return []*models.AutomationRecipe{}, nil
	}
	return m.ListRecentFunc(ctx, accountID, limit)
}

func (m *mockRecipeStore) Update(ctx context.Context, accountID, id int64, patch repositories.RecipePatch) (*models.AutomationRecipe, error) {
	if m.UpdateFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateFunc(ctx, accountID, id, patch)
}

// mockRevenueStore covers MonthSeeder, RevenueStore, RevenueLister and
// SeedRevenueRepository
type mockRevenueStore struct {
	CreateMonthsTxFunc     func(ctx context.Context, tx pgx.Tx, accountID int64, months []string, year int) error
	CreateSeedMonthsTxFunc func(ctx context.Context, tx pgx.Tx, records []models.RevenueRecord) error
	ListByYearFunc         func(ctx context.Context, accountID int64, year int) ([]*models.RevenueRecord, error)
	ListByAccountFunc      func(ctx context.Context, accountID int64) ([]*models.RevenueRecord, error)
	UpsertFunc             func(ctx context.Context, accountID int64, month string, year int, patch repositories.RevenuePatch) (*models.RevenueRecord, error)
}

func (m *mockRevenueStore) CreateMonthsTx(ctx context.Context, tx pgx.Tx, accountID int64, months []string, year int) error {
	if m.CreateMonthsTxFunc == nil {
		return nil
	}
	return m.CreateMonthsTxFunc(ctx, tx, accountID, months, year)
}

func (m *mockRevenueStore) CreateSeedMonthsTx(ctx context.Context, tx pgx.Tx, records []models.RevenueRecord) error {
	if m.CreateSeedMonthsTxFunc == nil {
		return nil
	}
	return m.CreateSeedMonthsTxFunc(ctx, tx, records)
}

func (m *mockRevenueStore) ListByYear(ctx context.Context, accountID int64, year int) ([]*models.RevenueRecord, error) {
	if m.ListByYearFunc == nil {
		return []*models.RevenueRecord{}, nil
	}
	return m.ListByYearFunc(ctx, accountID, year)
}

func (m *mockRevenueStore) ListByAccount(ctx context.Context, accountID int64) ([]*models.RevenueRecord, error) {
	if m.ListByAccountFunc == nil {
		return []*models.RevenueRecord{}, nil
	}
	return m.ListByAccountFunc(ctx, accountID)
}

func (m *mockRevenueStore) Upsert(ctx context.Context, accountID int64, month string, year int, patch repositories.RevenuePatch) (*models.RevenueRecord, error) {
	if m.UpsertFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.UpsertFunc(ctx, accountID, month, year, patch)
}

// mockChannelStore implements ChannelStore
type mockChannelStore struct {
	ListByAccountFunc func(ctx context.Context, accountID int64) ([]*models.SalesChannel, error)
	CreateFunc        func(ctx context.Context, accountID int64, name, icon string) (*models.SalesChannel, error)
	UpdateFunc        func(ctx context.Context, accountID, id int64, patch repositories.ChannelPatch) (*models.SalesChannel, error)
	DeleteFunc        func(ctx context.Context, accountID, id int64) error
}

func (m *mockChannelStore) ListByAccount(ctx context.Context, accountID int64) ([]*models.SalesChannel, error) {
	if m.ListByAccountFunc == nil {
		return []*models.SalesChannel{}, nil
	}
	return m.ListByAccountFunc(ctx, accountID)
}

func (m *mockChannelStore) Create(ctx context.Context, accountID int64, name, icon string) (*models.SalesChannel, error) {
	if m.CreateFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.CreateFunc(ctx, accountID, name, icon)
}

func (m *mockChannelStore) Update(ctx context.Context, accountID, id int64, patch repositories.ChannelPatch) (*models.SalesChannel, error) {
	if m.UpdateFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateFunc(ctx, accountID, id, patch)
}

func (m *mockChannelStore) Delete(ctx context.Context, accountID, id int64) error {
	if m.DeleteFunc == nil {
		return models.ErrNotFound
	}
	return m.DeleteFunc(ctx, accountID, id)
}

// mockIntegrationStore implements IntegrationStore
type mockIntegrationStore struct {
	ListByAccountFunc func(ctx context.Context, accountID int64) ([]*models.Integration, error)
	CreateFunc        func(ctx context.Context, accountID int64, integrationType, name string, config map[string]string) (*models.Integration, error)
	UpdateFunc        func(ctx context.Context, accountID, id int64, patch repositories.IntegrationPatch) (*models.Integration, error)
	DeleteFunc        func(ctx context.Context, accountID, id int64) error
}

func (m *mockIntegrationStore) ListByAccount(ctx context.Context, accountID int64) ([]*models.Integration, error) {
	if m.ListByAccountFunc == nil {
		return []*models.Integration{}, nil
	}
	return m.ListByAccountFunc(ctx, accountID)
}

func (m *mockIntegrationStore) Create(ctx context.Context, accountID int64, integrationType, name string, config map[string]string) (*models.Integration, error) {
	if m.CreateFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.CreateFunc(ctx, accountID, integrationType, name, config)
}

func (m *mockIntegrationStore) Update(ctx context.Context, accountID, id int64, patch repositories.IntegrationPatch) (*models.Integration, error) {
	if m.UpdateFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateFunc(ctx, accountID, id, patch)
}

func (m *mockIntegrationStore) Delete(ctx context.Context, accountID, id int64) error {
	if m.DeleteFunc == nil {
		return models.ErrNotFound
	}
	return m.DeleteFunc(ctx, accountID, id)
}

// mockInsightStore covers InsightStore, RecentInsightLister and
// SeedInsightRepository
type mockInsightStore struct {
	ListRecentFunc   func(ctx context.Context, accountID int64, limit int) ([]*models.Insight, error)
	CreateManyFunc   func(ctx context.Context, accountID int64, insights []models.Insight) ([]*models.Insight, error)
	CreateManyTxFunc func(ctx context.Context, tx pgx.Tx, accountID int64, insights []models.Insight) error
}

func (m *mockInsightStore) ListRecent(ctx context.Context, accountID int64, limit int) ([]*models.Insight, error) {
	if m.ListRecentFunc == nil {
		return []*models.Insight{}, nil
	}
	return m.ListRecentFunc(ctx, accountID, limit)
}

func (m *mockInsightStore) CreateMany(ctx context.Context, accountID int64, insights []models.Insight) ([]*models.Insight, error) {
	if m.CreateManyFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.CreateManyFunc(ctx, accountID, insights)
}

func (m *mockInsightStore) CreateManyTx(ctx context.Context, tx pgx.Tx, accountID int64, insights []models.Insight) error {
	if m.CreateManyTxFunc == nil {
		return nil
	}
	return m.CreateManyTxFunc(ctx, tx, accountID, insights)
}

// recordingMailer captures welcome email sends for assertion
type recordingMailer struct {
	sent chan string
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{sent: make(chan string, 1)}
}

func (m *recordingMailer) SendWelcomeEmail(ctx context.Context, email, businessName string) error {
	m.sent <- email
	return nil
}
