package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/arusops/arus/internal/models"
	"github.com/arusops/arus/internal/repositories"
)

// ErrInvalidIntegrationType reports a type outside the supported catalog
var ErrInvalidIntegrationType = errors.New("invalid integration type")

// IntegrationStore defines the integration storage operations used by IntegrationService
type IntegrationStore interface {
	ListByAccount(ctx context.Context, accountID int64) ([]*models.Integration, error)
	Create(ctx context.Context, accountID int64, integrationType, name string, config map[string]string) (*models.Integration, error)
	Update(ctx context.Context, accountID, id int64, patch repositories.IntegrationPatch) (*models.Integration, error)
	Delete(ctx context.Context, accountID, id int64) error
}

// IntegrationListing pairs the account's integrations with the static catalog
type IntegrationListing struct {
	Integrations   []*models.Integration             `json:"integrations"`
	AvailableTypes map[string]models.IntegrationType `json:"availableTypes"`
}

// IntegrationService handles integration business logic. Integrations are
// stored configuration only; nothing connects to the named services.
type IntegrationService struct {
	store  IntegrationStore
	logger *slog.Logger
}

// NewIntegrationService creates a new IntegrationService
func NewIntegrationService(store IntegrationStore, logger *slog.Logger) *IntegrationService {
	return &IntegrationService{store: store, logger: logger}
}

// List returns the account's integrations plus the available type catalog
func (s *IntegrationService) List(ctx context.Context, accountID int64) (*IntegrationListing, error) {
	integrations, err := s.store.ListByAccount(ctx, accountID)
	if err != nil {
		s.logger.Error("failed to list integrations", slog.Int64("account_id", accountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return &IntegrationListing{
		Integrations:   integrations,
		AvailableTypes: models.IntegrationTypes,
	}, nil
}

// Create stores a new integration after checking the type against the catalog
func (s *IntegrationService) Create(ctx context.Context, accountID int64, integrationType, name string, config map[string]string) (*models.Integration, error) {
	if _, ok := models.IntegrationTypes[integrationType]; !ok {
		return nil, ErrInvalidIntegrationType
	}

	integration, err := s.store.Create(ctx, accountID, integrationType, name, config)
	if err != nil {
		s.logger.Error("failed to create integration", slog.Int64("account_id", accountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return integration, nil
}

// Update patches an integration the account owns
func (s *IntegrationService) Update(ctx context.Context, accountID, id int64, patch repositories.IntegrationPatch) (*models.Integration, error) {
	integration, err := s.store.Update(ctx, accountID, id, patch)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update integration", slog.Int64("account_id", accountID), slog.Int64("integration_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return integration, nil
}

// Delete removes an integration the account owns
func (s *IntegrationService) Delete(ctx context.Context, accountID, id int64) error {
	err := s.store.Delete(ctx, accountID, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete integration", slog.Int64("account_id", accountID), slog.Int64("integration_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}
	return nil
}
