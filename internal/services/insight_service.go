package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arusops/arus/internal/models"
)

// InsightStore defines the insight storage operations used by InsightService
type InsightStore interface {
	ListRecent(ctx context.Context, accountID int64, limit int) ([]*models.Insight, error)
	CreateMany(ctx context.Context, accountID int64, insights []models.Insight) ([]*models.Insight, error)
}

// AnalysisResult is the outcome of a dataset upload
type AnalysisResult struct {
	Inserted int               `json:"inserted"`
	Insights []*models.Insight `json:"insights"`
}

// InsightService produces analysis insights from uploaded datasets. The
// analysis itself is canned: only the reported dataset size varies.
type InsightService struct {
	store  InsightStore
	logger *slog.Logger
}

// NewInsightService creates a new InsightService
func NewInsightService(store InsightStore, logger *slog.Logger) *InsightService {
	return &InsightService{store: store, logger: logger}
}

// Analyze records the three insights for an uploaded dataset of sizeBytes
// and returns them alongside the account's latest ten
func (s *InsightService) Analyze(ctx context.Context, accountID int64, sizeBytes int64) (*AnalysisResult, error) {
	sizeKB := (sizeBytes + 512) / 1024

	batch := []models.Insight{
		{
			Title:   "Churn Risk",
			Type:    "warning",
			Message: fmt.Sprintf("Detected inactive customers from dataset (%dKB).", sizeKB),
			Action:  "Auto-Draft Promo",
		},
		{
			Title:   "Price Optimization",
			Type:    "success",
			Message: "Consider +5% weekend pricing for top-sellers.",
			Action:  "Apply",
		},
		{
			Title:   "Demand Forecast",
			Type:    "info",
			Message: "High demand expected for Electronics next week.",
			Action:  "Stock Up",
		},
	}

	created, err := s.store.CreateMany(ctx, accountID, batch)
	if err != nil {
		s.logger.Error("failed to store insights", slog.Int64("account_id", accountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	latest, err := s.store.ListRecent(ctx, accountID, activityFeedSize)
	if err != nil {
		s.logger.Error("failed to list insights", slog.Int64("account_id", accountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("dataset analyzed",
		slog.Int64("account_id", accountID),
		slog.Int64("size_kb", sizeKB),
		slog.Int("inserted", len(created)))

	return &AnalysisResult{
		Inserted: len(created),
		Insights: latest,
	}, nil
}
