package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/arusops/arus/internal/auth"
	"github.com/arusops/arus/internal/models"
	pkgauth "github.com/arusops/arus/pkg/auth"
	pkglogger "github.com/arusops/arus/pkg/logger"
	"github.com/jackc/pgx/v5"
)

// TxRunner runs a function inside a database transaction
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(pgx.Tx) error) error
}

// AccountRepository defines the account storage operations used by AuthService
type AccountRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByEmailTx(ctx context.Context, tx pgx.Tx, email string) (*models.Account, error)
	UpsertRegistrationTx(ctx context.Context, tx pgx.Tx, email, passwordHash, businessName, country string) (*models.Account, error)
	UpdateProfile(ctx context.Context, id int64, businessName, country *string) (*models.Account, error)
}

// RecipeSeeder provisions the default automation recipes for a new account
type RecipeSeeder interface {
	CreateManyTx(ctx context.Context, tx pgx.Tx, accountID int64, recipes []models.AutomationRecipe) error
}

// MonthSeeder provisions the empty revenue months for a new account
type MonthSeeder interface {
	CreateMonthsTx(ctx context.Context, tx pgx.Tx, accountID int64, months []string, year int) error
}

// AuthService handles registration, login and profile business logic
type AuthService struct {
	db          TxRunner
	accounts    AccountRepository
	recipes     RecipeSeeder
	revenue     MonthSeeder
	tm          *auth.TokenManager
	mailer      WelcomeMailer
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewAuthService creates a new AuthService
func NewAuthService(db TxRunner, accounts AccountRepository, recipes RecipeSeeder, revenue MonthSeeder, tm *auth.TokenManager, mailer WelcomeMailer, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *AuthService {
	return &AuthService{
		db:          db,
		accounts:    accounts,
		recipes:     recipes,
		revenue:     revenue,
		tm:          tm,
		mailer:      mailer,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// AccountResponse is the sanitized account projection returned to clients.
// The password digest never leaves the service layer.
type AccountResponse struct {
	ID           int64   `json:"id"`
	Email        string  `json:"email"`
	BusinessName string  `json:"businessName"`
	Country      string  `json:"country"`
	CreatedAt    *string `json:"createdAt,omitempty"`
}

// AuthResult carries the session token alongside the account projection
type AuthResult struct {
	Token string
	User  *AccountResponse
}

// RegisterInput is the validated registration payload
type RegisterInput struct {
	Email        string
	Password     string
	BusinessName string
	Country      string
}

// Register upserts the account credential and profile. Accounts that were
// provisioned without a credential (seed rows) can claim their email by
// registering; an email that already holds a credential conflicts. New
// accounts get the default recipes and the current year's empty months in
// the same transaction as the upsert, so a crash never leaves a
// half-provisioned account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput, ipAddress string) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	passwordHash, err := pkgauth.HashPassword(input.Password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	var account *models.Account
	var isNewAccount bool

	err = s.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		existing, err := s.accounts.GetByEmailTx(ctx, tx, email)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return err
		}
		if existing != nil && existing.Registered() {
			return models.ErrConflict
		}

		isNewAccount = existing == nil

		account, err = s.accounts.UpsertRegistrationTx(ctx, tx, email, passwordHash, input.BusinessName, input.Country)
		if err != nil {
			return err
		}

		if isNewAccount {
			if err := s.recipes.CreateManyTx(ctx, tx, account.ID, defaultRecipes()); err != nil {
				return err
			}
			if err := s.revenue.CreateMonthsTx(ctx, tx, account.ID, starterMonths, time.Now().Year()); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
				EventType:     "register_failed",
				IPAddress:     ipAddress,
				FailureReason: "email_taken",
				Success:       false,
			})
			return nil, models.ErrConflict
		}
		s.logger.Error("registration transaction failed", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	token, err := s.tm.Sign(account.ID, account.Email)
	if err != nil {
		s.logger.Error("failed to sign session token", slog.Int64("account_id", account.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("account registered", slog.Int64("account_id", account.ID), slog.Bool("new_account", isNewAccount))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "register_success",
		AccountID: account.ID,
		IPAddress: ipAddress,
		Success:   true,
	})

	if isNewAccount {
		// Best effort; registration never waits on or fails with email delivery
		go func(email, businessName string) {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			_ = s.mailer.SendWelcomeEmail(ctx, email, businessName)
		}(account.Email, account.BusinessName)
	}

	return &AuthResult{
		Token: token,
		User:  accountToResponse(account, false),
	}, nil
}

// Login verifies the credential and mints a session token. A missing account
// and an unclaimed (credential-less) account fail the same way so the two are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password, ipAddress string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
				EventType:     "login_failed",
				IPAddress:     ipAddress,
				FailureReason: "account_not_found",
				Success:       false,
			})
			return nil, models.ErrAccountNotFound
		}
		s.logger.Error("failed to get account by email", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if !account.Registered() {
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			AccountID:     account.ID,
			IPAddress:     ipAddress,
			FailureReason: "account_not_registered",
			Success:       false,
		})
		return nil, models.ErrAccountNotFound
	}

	if err := pkgauth.ComparePassword(account.PasswordHash, password); err != nil {
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			AccountID:     account.ID,
			IPAddress:     ipAddress,
			FailureReason: "incorrect_password",
			Success:       false,
		})
		return nil, models.ErrIncorrectPassword
	}

	token, err := s.tm.Sign(account.ID, account.Email)
	if err != nil {
		s.logger.Error("failed to sign session token", slog.Int64("account_id", account.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("account logged in", slog.Int64("account_id", account.ID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "login_success",
		AccountID: account.ID,
		IPAddress: ipAddress,
		Success:   true,
	})

	return &AuthResult{
		Token: token,
		User:  accountToResponse(account, false),
	}, nil
}

// GetAccount returns the full profile projection for the account
func (s *AuthService) GetAccount(ctx context.Context, id int64) (*AccountResponse, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get account", slog.Int64("account_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return accountToResponse(account, true), nil
}

// UpdateProfile applies a partial profile update; nil fields are left unchanged
func (s *AuthService) UpdateProfile(ctx context.Context, id int64, businessName, country *string, ipAddress string) (*AccountResponse, error) {
	account, err := s.accounts.UpdateProfile(ctx, id, businessName, country)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update profile", slog.Int64("account_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.auditLogger.LogAccountAction("profile_updated", id, ipAddress, nil)

	return accountToResponse(account, false), nil
}

func accountToResponse(account *models.Account, withCreatedAt bool) *AccountResponse {
	resp := &AccountResponse{
		ID:           account.ID,
		Email:        account.Email,
		BusinessName: account.BusinessName,
		Country:      account.Country,
	}
	if withCreatedAt {
		created := account.CreatedAt.Format(time.RFC3339)
		resp.CreatedAt = &created
	}
	return resp
}
