package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arusops/arus/internal/models"
)

// activityFeedSize caps the recipe and insight slices on the dashboard
const activityFeedSize = 10

// RevenueLister returns every revenue row for an account
type RevenueLister interface {
	ListByAccount(ctx context.Context, accountID int64) ([]*models.RevenueRecord, error)
}

// RecentRecipeLister returns the most recently updated recipes
type RecentRecipeLister interface {
	ListRecent(ctx context.Context, accountID int64, limit int) ([]*models.AutomationRecipe, error)
}

// RecentInsightLister returns the newest insights
type RecentInsightLister interface {
	ListRecent(ctx context.Context, accountID int64, limit int) ([]*models.Insight, error)
}

// ActivityItem is one row of the dashboard activity feed, derived from a
// recipe's last state change
type ActivityItem struct {
	ID     int64     `json:"id"`
	Action string    `json:"action"`
	Time   time.Time `json:"time"`
}

// DashboardResponse is the aggregate the dashboard renders in one request
type DashboardResponse struct {
	Revenue  []*models.RevenueRecord `json:"revenue"`
	Activity []ActivityItem          `json:"activity"`
	Insights []*models.Insight       `json:"insights"`
}

// DashboardService aggregates revenue, activity and insights
type DashboardService struct {
	revenue  RevenueLister
	recipes  RecentRecipeLister
	insights RecentInsightLister
	logger   *slog.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(revenue RevenueLister, recipes RecentRecipeLister, insights RecentInsightLister, logger *slog.Logger) *DashboardService {
	return &DashboardService{revenue: revenue, recipes: recipes, insights: insights, logger: logger}
}

// Get builds the dashboard aggregate for the account
func (s *DashboardService) Get(ctx context.Context, accountID int64) (*DashboardResponse, error) {
	revenue, err := s.revenue.ListByAccount(ctx, accountID)
	if err != nil {
		s.logger.Error("failed to list revenue for dashboard", slog.Int64("account_id", accountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	recent, err := s.recipes.ListRecent(ctx, accountID, activityFeedSize)
	if err != nil {
		s.logger.Error("failed to list recent recipes", slog.Int64("account_id", accountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	insights, err := s.insights.ListRecent(ctx, accountID, activityFeedSize)
	if err != nil {
		s.logger.Error("failed to list insights", slog.Int64("account_id", accountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	activity := make([]ActivityItem, 0, len(recent))
	for _, recipe := range recent {
		verb := "Disabled"
		if recipe.Enabled {
			verb = "Enabled"
		}
		activity = append(activity, ActivityItem{
			ID:     recipe.ID,
			Action: fmt.Sprintf("%s %s", verb, recipe.Title),
			Time:   recipe.UpdatedAt,
		})
	}

	return &DashboardResponse{
		Revenue:  revenue,
		Activity: activity,
		Insights: insights,
	}, nil
}
