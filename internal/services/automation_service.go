package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/arusops/arus/internal/models"
	"github.com/arusops/arus/internal/repositories"
)

// AutomationStore defines the recipe storage operations used by AutomationService
type AutomationStore interface {
	ListByAccount(ctx context.Context, accountID int64) ([]*models.AutomationRecipe, error)
	Update(ctx context.Context, accountID, id int64, patch repositories.RecipePatch) (*models.AutomationRecipe, error)
}

// AutomationService handles automation recipe business logic
type AutomationService struct {
	store  AutomationStore
	logger *slog.Logger
}

// NewAutomationService creates a new AutomationService
func NewAutomationService(store AutomationStore, logger *slog.Logger) *AutomationService {
	return &AutomationService{store: store, logger: logger}
}

// List returns the account's recipes, most recently touched first
func (s *AutomationService) List(ctx context.Context, accountID int64) ([]*models.AutomationRecipe, error) {
	recipes, err := s.store.ListByAccount(ctx, accountID)
	if err != nil {
		s.logger.Error("failed to list recipes", slog.Int64("account_id", accountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return recipes, nil
}

// Update applies a partial update to a recipe the account owns. A recipe
// owned by another account is reported as missing, not forbidden.
func (s *AutomationService) Update(ctx context.Context, accountID, id int64, patch repositories.RecipePatch) (*models.AutomationRecipe, error) {
	recipe, err := s.store.Update(ctx, accountID, id, patch)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update recipe", slog.Int64("account_id", accountID), slog.Int64("recipe_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return recipe, nil
}

// Toggle flips only the enabled flag of a recipe the account owns
func (s *AutomationService) Toggle(ctx context.Context, accountID, id int64, enabled bool) (*models.AutomationRecipe, error) {
	return s.Update(ctx, accountID, id, repositories.RecipePatch{Enabled: &enabled})
}
