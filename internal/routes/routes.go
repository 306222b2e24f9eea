package routes

import (
	"github.com/arusops/arus/internal/auth"
	"github.com/arusops/arus/internal/handlers"
	"github.com/arusops/arus/internal/middleware"
	"github.com/arusops/arus/internal/ratelimit"
	pkghttp "github.com/arusops/arus/pkg/http"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	automationHandler *handlers.AutomationHandler,
	businessHandler *handlers.BusinessHandler,
	integrationHandler *handlers.IntegrationHandler,
	dashboardHandler *handlers.DashboardHandler,
	brainHandler *handlers.BrainHandler,
	seedHandler *handlers.SeedHandler,
	tokenManager *auth.TokenManager,
	limiter *ratelimit.Limiter,
	ipConfig *pkghttp.IPConfig,
) {
	// Public routes - no session required
	router.Get("/auth/csrf", authHandler.CSRFToken)
	router.Get("/seed", seedHandler.Seed)
	router.Get("/auth/me", authHandler.Me)
	router.Post("/auth/logout", authHandler.Logout)

	// Credential endpoints - per-operation rate limits, CSRF checked in-handler
	// after validation so a malformed body reports 400 before 403
	router.With(middleware.RateLimitByOperation(limiter, "login", ipConfig)).
		Post("/auth/login", authHandler.Login)
	router.With(middleware.RateLimitByOperation(limiter, "register", ipConfig)).
		Post("/auth/register", authHandler.Register)

	// Protected routes - session required
	router.Group(func(r chi.Router) {
		r.Use(auth.RequireSession(tokenManager))

		r.Get("/auth/profile", authHandler.Profile)
		r.Put("/auth/profile", authHandler.UpdateProfile)

		r.Get("/automations", automationHandler.List)
		r.Put("/automations", automationHandler.Update)
		r.Patch("/automations", automationHandler.Toggle)

		r.Get("/business/revenue", businessHandler.ListRevenue)
		r.Put("/business/revenue", businessHandler.UpsertRevenue)

		r.Get("/business/channels", businessHandler.ListChannels)
		r.Post("/business/channels", businessHandler.CreateChannel)
		r.Put("/business/channels", businessHandler.UpdateChannel)
		r.Delete("/business/channels", businessHandler.DeleteChannel)

		r.Get("/integrations", integrationHandler.List)
		r.Post("/integrations", integrationHandler.Create)
		r.Put("/integrations", integrationHandler.Update)
		r.Delete("/integrations", integrationHandler.Delete)

		r.Get("/dashboard", dashboardHandler.Get)
		r.Post("/brain/analyze", brainHandler.Analyze)
	})
}
