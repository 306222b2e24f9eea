package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arusops/arus/internal/auth"
	"github.com/arusops/arus/internal/config"
	"github.com/arusops/arus/internal/database"
	"github.com/arusops/arus/internal/handlers"
	middlewareCustom "github.com/arusops/arus/internal/middleware"
	"github.com/arusops/arus/internal/ratelimit"
	"github.com/arusops/arus/internal/repositories"
	"github.com/arusops/arus/internal/routes"
	"github.com/arusops/arus/internal/services"
	pkghttp "github.com/arusops/arus/pkg/http"
	pkglogger "github.com/arusops/arus/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Apply pending schema migrations
	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Migrate(migrateCtx); err != nil {
		migrateCancel()
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	migrateCancel()

	// Initialize repositories
	accountRepo := repositories.NewAccountRepository(db)
	automationRepo := repositories.NewAutomationRepository(db)
	revenueRepo := repositories.NewRevenueRepository(db)
	channelRepo := repositories.NewChannelRepository(db)
	integrationRepo := repositories.NewIntegrationRepository(db)
	insightRepo := repositories.NewInsightRepository(db)

	// Initialize token manager and audit logging
	tokenManager := auth.NewTokenManager(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL)
	auditLogger := pkglogger.NewAuditLogger(logger)

	// Per-operation rate limiter with background bucket eviction
	limiter := ratelimit.NewLimiter(cfg.RateLimit.MaxAttempts, cfg.RateLimit.RefillWindow)
	janitorCtx, janitorCancel := context.WithCancel(context.Background())
	defer janitorCancel()
	go limiter.StartJanitor(janitorCtx, logger)

	// Welcome email via AWS SES when configured, otherwise a no-op
	var mailer services.WelcomeMailer = services.NoopMailer{}
	if cfg.Email.Enabled {
		sesMailer, err := services.NewAWSSESEmailService(cfg.Email.AWSRegion, cfg.Email.FromAddress, logger)
		if err != nil {
			logger.Error("failed to initialize email service", slog.Any("error", err))
			os.Exit(1)
		}
		mailer = sesMailer
	}

	// Initialize services
	authService := services.NewAuthService(db, accountRepo, automationRepo, revenueRepo, tokenManager, mailer, logger, auditLogger)
	automationService := services.NewAutomationService(automationRepo, logger)
	businessService := services.NewBusinessService(revenueRepo, channelRepo, logger)
	dashboardService := services.NewDashboardService(revenueRepo, automationRepo, insightRepo, logger)
	integrationService := services.NewIntegrationService(integrationRepo, logger)
	insightService := services.NewInsightService(insightRepo, logger)
	seedService := services.NewSeedService(db, accountRepo, automationRepo, revenueRepo, insightRepo, logger)

	// Initialize handlers
	cookieConfig := auth.CookieConfig{Secure: cfg.Server.Env == "production"}
	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}
	sessionMaxAge := int(cfg.Auth.SessionTTL.Seconds())

	authHandler := handlers.NewAuthHandler(authService, tokenManager, cookieConfig, sessionMaxAge, ipConfig)
	automationHandler := handlers.NewAutomationHandler(automationService)
	businessHandler := handlers.NewBusinessHandler(businessService)
	integrationHandler := handlers.NewIntegrationHandler(integrationService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	brainHandler := handlers.NewBrainHandler(insightService)
	seedHandler := handlers.NewSeedHandler(seedService)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(middlewareCustom.RateLimitByIP(cfg.RateLimit.GlobalPerMin))

	// Register routes
	routes.RegisterRoutes(router,
		authHandler, automationHandler, businessHandler, integrationHandler,
		dashboardHandler, brainHandler, seedHandler,
		tokenManager, limiter, ipConfig,
	)

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	janitorCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
