package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arusops/arus/internal/auth"
	"github.com/arusops/arus/internal/models"
	"github.com/arusops/arus/internal/repositories"
	"github.com/arusops/arus/internal/services"
	pkghttp "github.com/arusops/arus/pkg/http"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithSessionContext adds session claims to the request context, as
// RequireSession would for an authenticated request
func WithSessionContext(req *http.Request, accountID int64, email string) *http.Request {
	claims := &models.SessionClaims{
		AccountID: accountID,
		Email:     email,
	}
	ctx := context.WithValue(req.Context(), auth.SessionContextKey, claims)
	return req.WithContext(ctx)
}

// WithCSRF attaches a matching csrf cookie/header pair to the request
func WithCSRF(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: auth.CSRFCookieName, Value: token})
	req.Header.Set(auth.CSRFHeaderName, token)
	return req
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks status and the error message body
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error message mismatch")
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	RegisterFunc      func(ctx context.Context, input services.RegisterInput, ipAddress string) (*services.AuthResult, error)
	LoginFunc         func(ctx context.Context, email, password, ipAddress string) (*services.AuthResult, error)
	GetAccountFunc    func(ctx context.Context, id int64) (*services.AccountResponse, error)
	UpdateProfileFunc func(ctx context.Context, id int64, businessName, country *string, ipAddress string) (*services.AccountResponse, error)
}

func (m *MockAuthService) Register(ctx context.Context, input services.RegisterInput, ipAddress string) (*services.AuthResult, error) {
	if m.RegisterFunc == nil {
		return nil, models.ErrConflict
	}
	return m.RegisterFunc(ctx, input, ipAddress)
}

func (m *MockAuthService) Login(ctx context.Context, email, password, ipAddress string) (*services.AuthResult, error) {
	if m.LoginFunc == nil {
		return nil, models.ErrAccountNotFound
	}
	return m.LoginFunc(ctx, email, password, ipAddress)
}

func (m *MockAuthService) GetAccount(ctx context.Context, id int64) (*services.AccountResponse, error) {
	if m.GetAccountFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetAccountFunc(ctx, id)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, id int64, businessName, country *string, ipAddress string) (*services.AccountResponse, error) {
	if m.UpdateProfileFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateProfileFunc(ctx, id, businessName, country, ipAddress)
}

// MockAutomationService implements AutomationServiceInterface for testing
type MockAutomationService struct {
	ListFunc   func(ctx context.Context, accountID int64) ([]*models.AutomationRecipe, error)
	UpdateFunc func(ctx context.Context, accountID, id int64, patch repositories.RecipePatch) (*models.AutomationRecipe, error)
	ToggleFunc func(ctx context.Context, accountID, id int64, enabled bool) (*models.AutomationRecipe, error)
}

func (m *MockAutomationService) List(ctx context.Context, accountID int64) ([]*models.AutomationRecipe, error) {
	if m.ListFunc == nil {
		return []*models.AutomationRecipe{}, nil
	}
	return m.ListFunc(ctx, accountID)
}

func (m *MockAutomationService) Update(ctx context.Context, accountID, id int64, patch repositories.RecipePatch) (*models.AutomationRecipe, error) {
	if m.UpdateFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateFunc(ctx, accountID, id, patch)
}

func (m *MockAutomationService) Toggle(ctx context.Context, accountID, id int64, enabled bool) (*models.AutomationRecipe, error) {
	if m.ToggleFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.ToggleFunc(ctx, accountID, id, enabled)
}

// MockBusinessService implements BusinessServiceInterface for testing
type MockBusinessService struct {
	ListRevenueFunc   func(ctx context.Context, accountID int64, year int) ([]*models.RevenueRecord, error)
	UpsertRevenueFunc func(ctx context.Context, accountID int64, month string, year int, patch repositories.RevenuePatch) (*models.RevenueRecord, error)
	ListChannelsFunc  func(ctx context.Context, accountID int64) ([]*models.SalesChannel, error)
	CreateChannelFunc func(ctx context.Context, accountID int64, name, icon string) (*models.SalesChannel, error)
	UpdateChannelFunc func(ctx context.Context, accountID, id int64, patch repositories.ChannelPatch) (*models.SalesChannel, error)
	DeleteChannelFunc func(ctx context.Context, accountID, id int64) error
}

func (m *MockBusinessService) ListRevenue(ctx context.Context, accountID int64, year int) ([]*models.RevenueRecord, error) {
	if m.ListRevenueFunc == nil {
		return []*models.RevenueRecord{}, nil
	}
	return m.ListRevenueFunc(ctx, accountID, year)
}

func (m *MockBusinessService) UpsertRevenue(ctx context.Context, accountID int64, month string, year int, patch repositories.RevenuePatch) (*models.RevenueRecord, error) {
	if m.UpsertRevenueFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.UpsertRevenueFunc(ctx, accountID, month, year, patch)
}

func (m *MockBusinessService) ListChannels(ctx context.Context, accountID int64) ([]*models.SalesChannel, error) {
	if m.ListChannelsFunc == nil {
		return []*models.SalesChannel{}, nil
	}
	return m.ListChannelsFunc(ctx, accountID)
}

func (m *MockBusinessService) CreateChannel(ctx context.Context, accountID int64, name, icon string) (*models.SalesChannel, error) {
	if m.CreateChannelFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.CreateChannelFunc(ctx, accountID, name, icon)
}

func (m *MockBusinessService) UpdateChannel(ctx context.Context, accountID, id int64, patch repositories.ChannelPatch) (*models.SalesChannel, error) {
	if m.UpdateChannelFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateChannelFunc(ctx, accountID, id, patch)
}

func (m *MockBusinessService) DeleteChannel(ctx context.Context, accountID, id int64) error {
	if m.DeleteChannelFunc == nil {
		return models.ErrNotFound
	}
	return m.DeleteChannelFunc(ctx, accountID, id)
}

// MockIntegrationService implements IntegrationServiceInterface for testing
type MockIntegrationService struct {
	ListFunc   func(ctx context.Context, accountID int64) (*services.IntegrationListing, error)
	CreateFunc func(ctx context.Context, accountID int64, integrationType, name string, config map[string]string) (*models.Integration, error)
	UpdateFunc func(ctx context.Context, accountID, id int64, patch repositories.IntegrationPatch) (*models.Integration, error)
	DeleteFunc func(ctx context.Context, accountID, id int64) error
}

func (m *MockIntegrationService) List(ctx context.Context, accountID int64) (*services.IntegrationListing, error) {
	if m.ListFunc == nil {
		return &services.IntegrationListing{
			Integrations:   []*models.Integration{},
			AvailableTypes: models.IntegrationTypes,
		}, nil
	}
	return m.ListFunc(ctx, accountID)
}

func (m *MockIntegrationService) Create(ctx context.Context, accountID int64, integrationType, name string, config map[string]string) (*models.Integration, error) {
	if m.CreateFunc == nil {
		return nil, services.ErrInvalidIntegrationType
	}
	return m.CreateFunc(ctx, accountID, integrationType, name, config)
}

func (m *MockIntegrationService) Update(ctx context.Context, accountID, id int64, patch repositories.IntegrationPatch) (*models.Integration, error) {
	if m.UpdateFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateFunc(ctx, accountID, id, patch)
}

func (m *MockIntegrationService) Delete(ctx context.Context, accountID, id int64) error {
	if m.DeleteFunc == nil {
		return models.ErrNotFound
	}
	return m.DeleteFunc(ctx, accountID, id)
}

// MockInsightService implements InsightServiceInterface for testing
type MockInsightService struct {
	AnalyzeFunc func(ctx context.Context, accountID int64, sizeBytes int64) (*services.AnalysisResult, error)
}

func (m *MockInsightService) Analyze(ctx context.Context, accountID int64, sizeBytes int64) (*services.AnalysisResult, error) {
	if m.AnalyzeFunc == nil {
		return &services.AnalysisResult{}, nil
	}
	return m.AnalyzeFunc(ctx, accountID, sizeBytes)
}

// MockDashboardService implements DashboardServiceInterface for testing
type MockDashboardService struct {
	GetFunc func(ctx context.Context, accountID int64) (*services.DashboardResponse, error)
}

func (m *MockDashboardService) Get(ctx context.Context, accountID int64) (*services.DashboardResponse, error) {
	if m.GetFunc == nil {
		return &services.DashboardResponse{}, nil
	}
	return m.GetFunc(ctx, accountID)
}

// MockSeedService implements SeedServiceInterface for testing
type MockSeedService struct {
	SeedFunc func(ctx context.Context) (*services.SeedResult, error)
}

func (m *MockSeedService) Seed(ctx context.Context) (*services.SeedResult, error) {
	if m.SeedFunc == nil {
		return &services.SeedResult{OK: true}, nil
	}
	return m.SeedFunc(ctx)
}
