package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/arusops/arus/internal/models"
	"github.com/arusops/arus/internal/repositories"
)

// RevenueStore defines the revenue storage operations used by BusinessService
type RevenueStore interface {
	ListByYear(ctx context.Context, accountID int64, year int) ([]*models.RevenueRecord, error)
	Upsert(ctx context.Context, accountID int64, month string, year int, patch repositories.RevenuePatch) (*models.RevenueRecord, error)
}

// ChannelStore defines the sales channel storage operations used by BusinessService
type ChannelStore interface {
	ListByAccount(ctx context.Context, accountID int64) ([]*models.SalesChannel, error)
	Create(ctx context.Context, accountID int64, name, icon string) (*models.SalesChannel, error)
	Update(ctx context.Context, accountID, id int64, patch repositories.ChannelPatch) (*models.SalesChannel, error)
	Delete(ctx context.Context, accountID, id int64) error
}

// DefaultChannelIcon is used when a channel is created without one
const DefaultChannelIcon = "🛒"

// BusinessService handles revenue and sales channel business logic
type BusinessService struct {
	revenue  RevenueStore
	channels ChannelStore
	logger   *slog.Logger
}

// NewBusinessService creates a new BusinessService
func NewBusinessService(revenue RevenueStore, channels ChannelStore, logger *slog.Logger) *BusinessService {
	return &BusinessService{revenue: revenue, channels: channels, logger: logger}
}

// ListRevenue returns the account's revenue rows for one year
func (s *BusinessService) ListRevenue(ctx context.Context, accountID int64, year int) ([]*models.RevenueRecord, error) {
	records, err := s.revenue.ListByYear(ctx, accountID, year)
	if err != nil {
		s.logger.Error("failed to list revenue", slog.Int64("account_id", accountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return records, nil
}

// UpsertRevenue writes the (month, year) row for the account, creating it
// with zero defaults and otherwise patching only the supplied figures
func (s *BusinessService) UpsertRevenue(ctx context.Context, accountID int64, month string, year int, patch repositories.RevenuePatch) (*models.RevenueRecord, error) {
	record, err := s.revenue.Upsert(ctx, accountID, month, year, patch)
	if err != nil {
		s.logger.Error("failed to upsert revenue", slog.Int64("account_id", accountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return record, nil
}

// ListChannels returns the account's channels, oldest first
func (s *BusinessService) ListChannels(ctx context.Context, accountID int64) ([]*models.SalesChannel, error) {
	channels, err := s.channels.ListByAccount(ctx, accountID)
	if err != nil {
		s.logger.Error("failed to list channels", slog.Int64("account_id", accountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return channels, nil
}

// CreateChannel creates a channel, defaulting the icon when absent
func (s *BusinessService) CreateChannel(ctx context.Context, accountID int64, name, icon string) (*models.SalesChannel, error) {
	if icon == "" {
		icon = DefaultChannelIcon
	}

	channel, err := s.channels.Create(ctx, accountID, name, icon)
	if err != nil {
		s.logger.Error("failed to create channel", slog.Int64("account_id", accountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return channel, nil
}

// UpdateChannel patches a channel the account owns
func (s *BusinessService) UpdateChannel(ctx context.Context, accountID, id int64, patch repositories.ChannelPatch) (*models.SalesChannel, error) {
	channel, err := s.channels.Update(ctx, accountID, id, patch)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update channel", slog.Int64("account_id", accountID), slog.Int64("channel_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return channel, nil
}

// DeleteChannel removes a channel the account owns
func (s *BusinessService) DeleteChannel(ctx context.Context, accountID, id int64) error {
	err := s.channels.Delete(ctx, accountID, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete channel", slog.Int64("account_id", accountID), slog.Int64("channel_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}
	return nil
}
