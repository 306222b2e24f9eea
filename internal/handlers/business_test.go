package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arusops/arus/internal/models"
	"github.com/arusops/arus/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRevenue_DefaultsToCurrentYear(t *testing.T) {
	service := &MockBusinessService{
		ListRevenueFunc: func(ctx context.Context, accountID int64, year int) ([]*models.RevenueRecord, error) {
			assert.Equal(t, time.Now().Year(), year)
			return []*models.RevenueRecord{{ID: 1, Month: "Jan", Year: year}}, nil
		},
	}
	handler := NewBusinessHandler(service)

	req := WithSessionContext(httptest.NewRequest("GET", "/business/revenue", nil), 4, "owner@example.com")
	w := httptest.NewRecorder()
	handler.ListRevenue(w, req)

	var resp map[string][]models.RevenueRecord
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Len(t, resp["revenues"], 1)
}

func TestListRevenue_YearParam(t *testing.T) {
	service := &MockBusinessService{
		ListRevenueFunc: func(ctx context.Context, accountID int64, year int) ([]*models.RevenueRecord, error) {
			assert.Equal(t, 2024, year)
			return []*models.RevenueRecord{}, nil
		},
	}
	handler := NewBusinessHandler(service)

	req := WithSessionContext(httptest.NewRequest("GET", "/business/revenue?year=2024", nil), 4, "owner@example.com")
	w := httptest.NewRecorder()
	handler.ListRevenue(w, req)

	var resp map[string][]models.RevenueRecord
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.NotNil(t, resp["revenues"], "empty result is an empty array, not null")
}

func TestUpsertRevenue_PartialFields(t *testing.T) {
	service := &MockBusinessService{
		UpsertRevenueFunc: func(ctx context.Context, accountID int64, month string, year int, patch repositories.RevenuePatch) (*models.RevenueRecord, error) {
			assert.Equal(t, "Mar", month)
			assert.Equal(t, 2026, year)
			require.NotNil(t, patch.Revenue)
			assert.Equal(t, int64(52000), *patch.Revenue)
			assert.Nil(t, patch.Cost, "absent fields must not overwrite stored values")
			assert.Nil(t, patch.Orders)
			return &models.RevenueRecord{ID: 3, Month: month, Year: year, Revenue: *patch.Revenue}, nil
		},
	}
	handler := NewBusinessHandler(service)

	req := NewTestRequest(t, "PUT", "/business/revenue", map[string]any{
		"month": "Mar", "year": 2026, "revenue": 52000,
	})
	req = WithSessionContext(req, 4, "owner@example.com")

	w := httptest.NewRecorder()
	handler.UpsertRevenue(w, req)

	var resp map[string]models.RevenueRecord
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, int64(52000), resp["revenue"].Revenue)
}

func TestUpsertRevenue_RejectsNegative(t *testing.T) {
	handler := NewBusinessHandler(&MockBusinessService{})

	req := NewTestRequest(t, "PUT", "/business/revenue", map[string]any{
		"month": "Mar", "year": 2026, "revenue": -5,
	})
	req = WithSessionContext(req, 4, "owner@example.com")

	w := httptest.NewRecorder()
	handler.UpsertRevenue(w, req)

	AssertErrorResponse(t, w, http.StatusBadRequest, MsgInvalidData)
}

func TestUpsertRevenue_MissingMonth(t *testing.T) {
	handler := NewBusinessHandler(&MockBusinessService{})

	req := NewTestRequest(t, "PUT", "/business/revenue", map[string]any{"year": 2026})
	req = WithSessionContext(req, 4, "owner@example.com")

	w := httptest.NewRecorder()
	handler.UpsertRevenue(w, req)

	AssertErrorResponse(t, w, http.StatusBadRequest, MsgInvalidData)
}

func TestCreateChannel_DefaultIcon(t *testing.T) {
	service := &MockBusinessService{
		CreateChannelFunc: func(ctx context.Context, accountID int64, name, icon string) (*models.SalesChannel, error) {
			return &models.SalesChannel{ID: 1, Name: name, Icon: icon, Enabled: true}, nil
		},
	}
	handler := NewBusinessHandler(service)

	req := NewTestRequest(t, "POST", "/business/channels", map[string]string{"name": "Shopee"})
	req = WithSessionContext(req, 4, "owner@example.com")

	w := httptest.NewRecorder()
	handler.CreateChannel(w, req)

	var resp map[string]models.SalesChannel
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, "Shopee", resp["channel"].Name)
}

func TestCreateChannel_NameRequired(t *testing.T) {
	handler := NewBusinessHandler(&MockBusinessService{})

	req := NewTestRequest(t, "POST", "/business/channels", map[string]string{"icon": "🛒"})
	req = WithSessionContext(req, 4, "owner@example.com")

	w := httptest.NewRecorder()
	handler.CreateChannel(w, req)

	AssertErrorResponse(t, w, http.StatusBadRequest, MsgInvalidData)
}

func TestUpdateChannel_NotOwned(t *testing.T) {
	service := &MockBusinessService{
		UpdateChannelFunc: func(ctx context.Context, accountID, id int64, patch repositories.ChannelPatch) (*models.SalesChannel, error) {
			return nil, models.ErrNotFound
		},
	}
	handler := NewBusinessHandler(service)

	req := NewTestRequest(t, "PUT", "/business/channels", map[string]any{"id": 42, "enabled": false})
	req = WithSessionContext(req, 4, "owner@example.com")

	w := httptest.NewRecorder()
	handler.UpdateChannel(w, req)

	AssertErrorResponse(t, w, http.StatusNotFound, "Channel not found")
}

func TestDeleteChannel(t *testing.T) {
	service := &MockBusinessService{
		DeleteChannelFunc: func(ctx context.Context, accountID, id int64) error {
			assert.Equal(t, int64(5), id)
			return nil
		},
	}
	handler := NewBusinessHandler(service)

	req := WithSessionContext(httptest.NewRequest("DELETE", "/business/channels?id=5", nil), 4, "owner@example.com")
	w := httptest.NewRecorder()
	handler.DeleteChannel(w, req)

	var resp map[string]bool
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.True(t, resp["success"])
}

func TestDeleteChannel_MissingID(t *testing.T) {
	handler := NewBusinessHandler(&MockBusinessService{})

	req := WithSessionContext(httptest.NewRequest("DELETE", "/business/channels", nil), 4, "owner@example.com")
	w := httptest.NewRecorder()
	handler.DeleteChannel(w, req)

	AssertErrorResponse(t, w, http.StatusBadRequest, "Missing id")
}
