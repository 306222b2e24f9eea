package handlers

import (
	"context"
	"net/http"

	"github.com/arusops/arus/internal/auth"
	"github.com/arusops/arus/internal/services"
	pkghttp "github.com/arusops/arus/pkg/http"
)

// DashboardServiceInterface defines the interface for the dashboard aggregate
type DashboardServiceInterface interface {
	Get(ctx context.Context, accountID int64) (*services.DashboardResponse, error)
}

// DashboardHandler handles the dashboard aggregate request
type DashboardHandler struct {
	service DashboardServiceInterface
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(service DashboardServiceInterface) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Get returns the revenue, activity and insight aggregate for the session
// account. The payload is account-specific, so shared caches must not hold it.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := auth.SessionFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, MsgUnauthorized)
		return
	}

	dashboard, err := h.service.Get(r.Context(), claims.AccountID)
	if err != nil {
		pkghttp.WriteInternalError(w, MsgInternalError)
		return
	}

	w.Header().Set("Cache-Control", "private, max-age=60")
	pkghttp.WriteJSON(w, http.StatusOK, dashboard)
}
