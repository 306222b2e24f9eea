package services

import (
	"context"
	"testing"
	"time"

	"github.com/arusops/arus/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardGet_ActivityFromRecipeState(t *testing.T) {
	now := time.Now()

	revenue := &mockRevenueStore{
		ListByAccountFunc: func(ctx context.Context, accountID int64) ([]*models.RevenueRecord, error) {
			return []*models.RevenueRecord{{ID: 1, Month: "Jan", Year: 2026, Revenue: 45000}}, nil
		},
	}
	recipes := &mockRecipeStore{
		ListRecentFunc: func(ctx context.Context, accountID int64, limit int) ([]*models.AutomationRecipe, error) {
			assert.Equal(t, 10, limit)
			return []*models.AutomationRecipe{
				{ID: 2, Title: "Low Stock Alert", Enabled: true, UpdatedAt: now},
				{ID: 3, Title: "Flash Sale Trigger", Enabled: false, UpdatedAt: now.Add(-time.Hour)},
			}, nil
		},
	}
	insights := &mockInsightStore{
		ListRecentFunc: func(ctx context.Context, accountID int64, limit int) ([]*models.Insight, error) {
			return []*models.Insight{{ID: 4, Title: "Demand Forecast", Type: "info"}}, nil
		},
	}

	service := NewDashboardService(revenue, recipes, insights, testLogger())

	dashboard, err := service.Get(context.Background(), 4)

	require.NoError(t, err)
	assert.Len(t, dashboard.Revenue, 1)
	require.Len(t, dashboard.Activity, 2)
	assert.Equal(t, "Enabled Low Stock Alert", dashboard.Activity[0].Action)
	assert.Equal(t, now, dashboard.Activity[0].Time)
	assert.Equal(t, "Disabled Flash Sale Trigger", dashboard.Activity[1].Action)
	assert.Len(t, dashboard.Insights, 1)
}

func TestDashboardGet_EmptyAccount(t *testing.T) {
	service := NewDashboardService(&mockRevenueStore{}, &mockRecipeStore{}, &mockInsightStore{}, testLogger())

	dashboard, err := service.Get(context.Background(), 4)

	require.NoError(t, err)
	assert.Empty(t, dashboard.Revenue)
	assert.NotNil(t, dashboard.Activity, "activity must serialize as an array, not null")
	assert.Empty(t, dashboard.Activity)
	assert.Empty(t, dashboard.Insights)
}

func TestDashboardGet_RevenueFailure(t *testing.T) {
	revenue := &mockRevenueStore{
		ListByAccountFunc: func(ctx context.Context, accountID int64) ([]*models.RevenueRecord, error) {
			return nil, assert.AnError
		},
	}
	service := NewDashboardService(revenue, &mockRecipeStore{}, &mockInsightStore{}, testLogger())

	dashboard, err := service.Get(context.Background(), 4)

	assert.ErrorIs(t, err, models.ErrInternalServer)
	assert.Nil(t, dashboard)
}
