package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/arusops/arus/internal/auth"
	"github.com/arusops/arus/internal/models"
	"github.com/arusops/arus/internal/repositories"
	pkghttp "github.com/arusops/arus/pkg/http"
)

// AutomationServiceInterface defines the interface for recipe business logic
type AutomationServiceInterface interface {
	List(ctx context.Context, accountID int64) ([]*models.AutomationRecipe, error)
	Update(ctx context.Context, accountID, id int64, patch repositories.RecipePatch) (*models.AutomationRecipe, error)
	Toggle(ctx context.Context, accountID, id int64, enabled bool) (*models.AutomationRecipe, error)
}

// AutomationHandler handles automation recipe HTTP requests
type AutomationHandler struct {
	service AutomationServiceInterface
}

// NewAutomationHandler creates a new AutomationHandler
func NewAutomationHandler(service AutomationServiceInterface) *AutomationHandler {
	return &AutomationHandler{service: service}
}

// UpdateRecipeRequest represents the request body for a partial recipe update
type UpdateRecipeRequest struct {
	ID       int64          `json:"id" validate:"required,gt=0"`
	Enabled  *bool          `json:"enabled"`
	Title    *string        `json:"title" validate:"omitempty,min=1"`
	Category *string        `json:"category" validate:"omitempty,min=1"`
	Config   map[string]any `json:"config"`
}

// ToggleRecipeRequest represents the request body for a recipe toggle
type ToggleRecipeRequest struct {
	ID      int64 `json:"id" validate:"required,gt=0"`
	Enabled *bool `json:"enabled" validate:"required"`
}

// List returns the account's recipes. Responses are per-account, so caching
// is private to the requesting client.
func (h *AutomationHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := auth.SessionFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, MsgUnauthorized)
		return
	}

	recipes, err := h.service.List(r.Context(), claims.AccountID)
	if err != nil {
		pkghttp.WriteInternalError(w, MsgInternalError)
		return
	}

	w.Header().Set("Cache-Control", "private, max-age=30")
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"recipes": recipes})
}

// Update applies a partial update to one recipe
func (h *AutomationHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := auth.SessionFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, MsgUnauthorized)
		return
	}

	var req UpdateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, MsgInvalidData)
		return
	}

	if err := validate.Struct(req); err != nil {
		pkghttp.WriteBadRequest(w, MsgInvalidData)
		return
	}

	recipe, err := h.service.Update(r.Context(), claims.AccountID, req.ID, repositories.RecipePatch{
		Title:    req.Title,
		Category: req.Category,
		Config:   req.Config,
		Enabled:  req.Enabled,
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Recipe not found")
			return
		}
		pkghttp.WriteInternalError(w, MsgInternalError)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"recipe": recipe})
}

// Toggle flips the enabled flag of one recipe
func (h *AutomationHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	claims := auth.SessionFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, MsgUnauthorized)
		return
	}

	var req ToggleRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, MsgInvalidData)
		return
	}

	if err := validate.Struct(req); err != nil {
		pkghttp.WriteBadRequest(w, MsgInvalidData)
		return
	}

	recipe, err := h.service.Toggle(r.Context(), claims.AccountID, req.ID, *req.Enabled)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Recipe not found")
			return
		}
		pkghttp.WriteInternalError(w, MsgInternalError)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"recipe": recipe})
}
