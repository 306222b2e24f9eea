package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/arusops/arus/internal/auth"
	"github.com/arusops/arus/internal/models"
	"github.com/arusops/arus/internal/repositories"
	pkghttp "github.com/arusops/arus/pkg/http"
)

// BusinessServiceInterface defines the interface for revenue and channel logic
type BusinessServiceInterface interface {
	ListRevenue(ctx context.Context, accountID int64, year int) ([]*models.RevenueRecord, error)
	UpsertRevenue(ctx context.Context, accountID int64, month string, year int, patch repositories.RevenuePatch) (*models.RevenueRecord, error)
	ListChannels(ctx context.Context, accountID int64) ([]*models.SalesChannel, error)
	CreateChannel(ctx context.Context, accountID int64, name, icon string) (*models.SalesChannel, error)
	UpdateChannel(ctx context.Context, accountID, id int64, patch repositories.ChannelPatch) (*models.SalesChannel, error)
	DeleteChannel(ctx context.Context, accountID, id int64) error
}

// BusinessHandler handles revenue and sales channel HTTP requests
type BusinessHandler struct {
	service BusinessServiceInterface
}

// NewBusinessHandler creates a new BusinessHandler
func NewBusinessHandler(service BusinessServiceInterface) *BusinessHandler {
	return &BusinessHandler{service: service}
}

// UpsertRevenueRequest represents the request body for a revenue upsert
type UpsertRevenueRequest struct {
	Month   string `json:"month" validate:"required,min=1"`
	Year    int    `json:"year" validate:"required,gt=0"`
	Revenue *int64 `json:"revenue" validate:"omitempty,gte=0"`
	Cost    *int64 `json:"cost" validate:"omitempty,gte=0"`
	Orders  *int   `json:"orders" validate:"omitempty,gte=0"`
}

// CreateChannelRequest represents the request body for channel creation
type CreateChannelRequest struct {
	Name string `json:"name" validate:"required,min=1"`
	Icon string `json:"icon"`
}

// UpdateChannelRequest represents the request body for a channel update
type UpdateChannelRequest struct {
	ID      int64   `json:"id" validate:"required,gt=0"`
	Name    *string `json:"name" validate:"omitempty,min=1"`
	Icon    *string `json:"icon"`
	Enabled *bool   `json:"enabled"`
}

// ListRevenue returns the account's revenue rows for the requested year,
// defaulting to the current one
func (h *BusinessHandler) ListRevenue(w http.ResponseWriter, r *http.Request) {
	claims := auth.SessionFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, MsgUnauthorized)
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year <= 0 {
		year = time.Now().Year()
	}

	records, err := h.service.ListRevenue(r.Context(), claims.AccountID, year)
	if err != nil {
		pkghttp.WriteInternalError(w, MsgInternalError)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"revenues": records})
}

// UpsertRevenue writes one (month, year) revenue row
func (h *BusinessHandler) UpsertRevenue(w http.ResponseWriter, r *http.Request) {
	claims := auth.SessionFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, MsgUnauthorized)
		return
	}

	var req UpsertRevenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, MsgInvalidData)
		return
	}

	if err := validate.Struct(req); err != nil {
		pkghttp.WriteBadRequest(w, MsgInvalidData)
		return
	}

	record, err := h.service.UpsertRevenue(r.Context(), claims.AccountID, req.Month, req.Year, repositories.RevenuePatch{
		Revenue: req.Revenue,
		Cost:    req.Cost,
		Orders:  req.Orders,
	})
	if err != nil {
		pkghttp.WriteInternalError(w, MsgInternalError)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"revenue": record})
}

// ListChannels returns the account's sales channels
func (h *BusinessHandler) ListChannels(w http.ResponseWriter, r *http.Request) {
	claims := auth.SessionFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, MsgUnauthorized)
		return
	}

	channels, err := h.service.ListChannels(r.Context(), claims.AccountID)
	if err != nil {
		pkghttp.WriteInternalError(w, MsgInternalError)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"channels": channels})
}

// CreateChannel adds a sales channel for the account
func (h *BusinessHandler) CreateChannel(w http.ResponseWriter, r *http.Request) {
	claims := auth.SessionFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, MsgUnauthorized)
		return
	}

	var req CreateChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, MsgInvalidData)
		return
	}

	if err := validate.Struct(req); err != nil {
		pkghttp.WriteBadRequest(w, MsgInvalidData)
		return
	}

	channel, err := h.service.CreateChannel(r.Context(), claims.AccountID, req.Name, req.Icon)
	if err != nil {
		pkghttp.WriteInternalError(w, MsgInternalError)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"channel": channel})
}

// UpdateChannel patches a channel the account owns
func (h *BusinessHandler) UpdateChannel(w http.ResponseWriter, r *http.Request) {
	claims := auth.SessionFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, MsgUnauthorized)
		return
	}

	var req UpdateChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, MsgInvalidData)
		return
	}

	if err := validate.Struct(req); err != nil {
		pkghttp.WriteBadRequest(w, MsgInvalidData)
		return
	}

	channel, err := h.service.UpdateChannel(r.Context(), claims.AccountID, req.ID, repositories.ChannelPatch{
		Name:    req.Name,
		Icon:    req.Icon,
		Enabled: req.Enabled,
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Channel not found")
			return
		}
		pkghttp.WriteInternalError(w, MsgInternalError)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"channel": channel})
}

// DeleteChannel removes a channel the account owns; the id arrives as a
// query parameter
func (h *BusinessHandler) DeleteChannel(w http.ResponseWriter, r *http.Request) {
	claims := auth.SessionFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, MsgUnauthorized)
		return
	}

	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		pkghttp.WriteBadRequest(w, "Missing id")
		return
	}

	if err := h.service.DeleteChannel(r.Context(), claims.AccountID, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Channel not found")
			return
		}
		pkghttp.WriteInternalError(w, MsgInternalError)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
