package handlers

import (
	"context"
	"net/http"

	"github.com/arusops/arus/internal/services"
	pkghttp "github.com/arusops/arus/pkg/http"
)

// SeedServiceInterface defines the interface for demo data bootstrap
type SeedServiceInterface interface {
	Seed(ctx context.Context) (*services.SeedResult, error)
}

// SeedHandler handles the demo bootstrap request
type SeedHandler struct {
	service SeedServiceInterface
}

// NewSeedHandler creates a new SeedHandler
func NewSeedHandler(service SeedServiceInterface) *SeedHandler {
	return &SeedHandler{service: service}
}

// Seed provisions the demo dataset. Safe to call repeatedly: any existing
// account makes it a no-op.
func (h *SeedHandler) Seed(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Seed(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, MsgInternalError)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, result)
}
