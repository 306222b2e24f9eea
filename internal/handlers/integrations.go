package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/arusops/arus/internal/auth"
	"github.com/arusops/arus/internal/models"
	"github.com/arusops/arus/internal/repositories"
	"github.com/arusops/arus/internal/services"
	pkghttp "github.com/arusops/arus/pkg/http"
)

// IntegrationServiceInterface defines the interface for integration logic
type IntegrationServiceInterface interface {
	List(ctx context.Context, accountID int64) (*services.IntegrationListing, error)
	Create(ctx context.Context, accountID int64, integrationType, name string, config map[string]string) (*models.Integration, error)
	Update(ctx context.Context, accountID, id int64, patch repositories.IntegrationPatch) (*models.Integration, error)
	Delete(ctx context.Context, accountID, id int64) error
}

// IntegrationHandler handles integration HTTP requests
type IntegrationHandler struct {
	service IntegrationServiceInterface
}

// NewIntegrationHandler creates a new IntegrationHandler
func NewIntegrationHandler(service IntegrationServiceInterface) *IntegrationHandler {
	return &IntegrationHandler{service: service}
}

// CreateIntegrationRequest represents the request body for integration creation
type CreateIntegrationRequest struct {
	Type   string            `json:"type" validate:"required,min=1"`
	Name   string            `json:"name" validate:"required,min=1"`
	Config map[string]string `json:"config" validate:"required"`
}

// UpdateIntegrationRequest represents the request body for an integration update
type UpdateIntegrationRequest struct {
	ID          int64             `json:"id" validate:"required,gt=0"`
	Name        *string           `json:"name" validate:"omitempty,min=1"`
	Config      map[string]string `json:"config"`
	IsConnected *bool             `json:"isConnected"`
}

// List returns the account's integrations and the supported type catalog
func (h *IntegrationHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := auth.SessionFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, MsgUnauthorized)
		return
	}

	listing, err := h.service.List(r.Context(), claims.AccountID)
	if err != nil {
		pkghttp.WriteInternalError(w, MsgInternalError)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, listing)
}

// Create stores a new integration configuration
func (h *IntegrationHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := auth.SessionFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, MsgUnauthorized)
		return
	}

	var req CreateIntegrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, MsgInvalidData)
		return
	}

	if err := validate.Struct(req); err != nil {
		pkghttp.WriteBadRequest(w, MsgInvalidData)
		return
	}

	integration, err := h.service.Create(r.Context(), claims.AccountID, req.Type, req.Name, req.Config)
	if err != nil {
		if errors.Is(err, services.ErrInvalidIntegrationType) {
			pkghttp.WriteBadRequest(w, "Invalid integration type")
			return
		}
		pkghttp.WriteInternalError(w, MsgInternalError)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"integration": integration})
}

// Update patches an integration the account owns
func (h *IntegrationHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := auth.SessionFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, MsgUnauthorized)
		return
	}

	var req UpdateIntegrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, MsgInvalidData)
		return
	}

	if err := validate.Struct(req); err != nil {
		pkghttp.WriteBadRequest(w, MsgInvalidData)
		return
	}

	integration, err := h.service.Update(r.Context(), claims.AccountID, req.ID, repositories.IntegrationPatch{
		Name:        req.Name,
		IsConnected: req.IsConnected,
		Config:      req.Config,
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Integration not found")
			return
		}
		pkghttp.WriteInternalError(w, MsgInternalError)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"integration": integration})
}

// Delete removes an integration the account owns
func (h *IntegrationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := auth.SessionFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, MsgUnauthorized)
		return
	}

	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		pkghttp.WriteBadRequest(w, "ID required")
		return
	}

	if err := h.service.Delete(r.Context(), claims.AccountID, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Integration not found")
			return
		}
		pkghttp.WriteInternalError(w, MsgInternalError)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
