package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/arusops/arus/internal/auth"
	"github.com/arusops/arus/internal/database"
	"github.com/arusops/arus/internal/handlers"
	middlewareCustom "github.com/arusops/arus/internal/middleware"
	"github.com/arusops/arus/internal/ratelimit"
	"github.com/arusops/arus/internal/repositories"
	"github.com/arusops/arus/internal/routes"
	"github.com/arusops/arus/internal/services"
	pkghttp "github.com/arusops/arus/pkg/http"
	pkglogger "github.com/arusops/arus/pkg/logger"
)

const testSessionSecret = "integration-test-secret-0123456789abcdef"

// TestServer wraps httptest.Server with the full application stack on a real
// database. Email stays a no-op; everything else is the production wiring.
type TestServer struct {
	Server       *httptest.Server
	DB           *database.DB
	TokenManager *auth.TokenManager
	Limiter      *ratelimit.Limiter
}

// NewTestServer assembles repositories, services, handlers and routes the way
// main does and serves them from an httptest.Server
func NewTestServer(db *database.DB, authAttempts int) *TestServer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	accountRepo := repositories.NewAccountRepository(db)
	automationRepo := repositories.NewAutomationRepository(db)
	revenueRepo := repositories.NewRevenueRepository(db)
	channelRepo := repositories.NewChannelRepository(db)
	integrationRepo := repositories.NewIntegrationRepository(db)
	insightRepo := repositories.NewInsightRepository(db)

	tokenManager := auth.NewTokenManager(testSessionSecret, time.Hour)
	auditLogger := pkglogger.NewAuditLogger(logger)
	limiter := ratelimit.NewLimiter(authAttempts, time.Minute)

	authService := services.NewAuthService(db, accountRepo, automationRepo, revenueRepo, tokenManager, services.NoopMailer{}, logger, auditLogger)
	automationService := services.NewAutomationService(automationRepo, logger)
	businessService := services.NewBusinessService(revenueRepo, channelRepo, logger)
	dashboardService := services.NewDashboardService(revenueRepo, automationRepo, insightRepo, logger)
	integrationService := services.NewIntegrationService(integrationRepo, logger)
	insightService := services.NewInsightService(insightRepo, logger)
	seedService := services.NewSeedService(db, accountRepo, automationRepo, revenueRepo, insightRepo, logger)

	cookieConfig := auth.CookieConfig{Secure: false}
	ipConfig := &pkghttp.IPConfig{}

	authHandler := handlers.NewAuthHandler(authService, tokenManager, cookieConfig, 3600, ipConfig)
	automationHandler := handlers.NewAutomationHandler(automationService)
	businessHandler := handlers.NewBusinessHandler(businessService)
	integrationHandler := handlers.NewIntegrationHandler(integrationService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	brainHandler := handlers.NewBrainHandler(insightService)
	seedHandler := handlers.NewSeedHandler(seedService)

	router := chi.NewRouter()
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: "test"}))
	router.Use(chiMiddleware.Recoverer)

	routes.RegisterRoutes(router,
		authHandler, automationHandler, businessHandler, integrationHandler,
		dashboardHandler, brainHandler, seedHandler,
		tokenManager, limiter, ipConfig,
	)

	return &TestServer{
		Server:       httptest.NewServer(router),
		DB:           db,
		TokenManager: tokenManager,
		Limiter:      limiter,
	}
}

// Close shuts the HTTP server down
func (ts *TestServer) Close() {
	ts.Server.Close()
}

// Client carries a cookie jar across requests, so the session and CSRF
// cookies flow like they would in a browser
type Client struct {
	http    *http.Client
	baseURL string
	csrf    string
}

// NewClient creates a cookie-aware client against the test server
func (ts *TestServer) NewClient() (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		http:    &http.Client{Jar: jar},
		baseURL: ts.Server.URL,
	}, nil
}

// FetchCSRF obtains a fresh CSRF token; the matching cookie lands in the jar
func (c *Client) FetchCSRF() error {
	resp, err := c.http.Get(c.baseURL + "/auth/csrf")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("csrf endpoint returned %d", resp.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return err
	}
	c.csrf = body.Token
	return nil
}

// Do sends a JSON request. The CSRF header is attached when a token has been
// fetched; state-changing auth endpoints reject the request without it.
func (c *Client) Do(method, path string, body any) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequest(method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.csrf != "" {
		req.Header.Set(auth.CSRFHeaderName, c.csrf)
	}

	return c.http.Do(req)
}

// DecodeJSON drains and decodes a response body
func DecodeJSON(resp *http.Response, target any) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(target)
}

// Register runs the CSRF fetch plus registration for the given credentials
func (c *Client) Register(email, password, businessName string) (*http.Response, error) {
	if err := c.FetchCSRF(); err != nil {
		return nil, err
	}
	return c.Do(http.MethodPost, "/auth/register", map[string]string{
		"email":        email,
		"password":     password,
		"businessName": businessName,
	})
}

// Login runs the CSRF fetch plus login for the given credentials
func (c *Client) Login(email, password string) (*http.Response, error) {
	if err := c.FetchCSRF(); err != nil {
		return nil, err
	}
	return c.Do(http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}
