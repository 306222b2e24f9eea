package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/arusops/arus/internal/auth"
	"github.com/arusops/arus/internal/services"
	pkghttp "github.com/arusops/arus/pkg/http"
)

// maxUploadBytes caps dataset uploads at 10MB
const maxUploadBytes = 10 << 20

// InsightServiceInterface defines the interface for dataset analysis
type InsightServiceInterface interface {
	Analyze(ctx context.Context, accountID int64, sizeBytes int64) (*services.AnalysisResult, error)
}

// BrainHandler handles dataset upload and analysis requests
type BrainHandler struct {
	service InsightServiceInterface
}

// NewBrainHandler creates a new BrainHandler
func NewBrainHandler(service InsightServiceInterface) *BrainHandler {
	return &BrainHandler{service: service}
}

// Analyze accepts a multipart dataset upload and returns generated insights.
// The file content is measured, never parsed or stored.
func (h *BrainHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	claims := auth.SessionFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, MsgUnauthorized)
		return
	}

	// One extra byte so an exactly-at-limit upload still reads fully while
	// anything larger trips the cap
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			pkghttp.WritePayloadTooLarge(w, "File too large")
			return
		}
		pkghttp.WriteBadRequest(w, "No file uploaded")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		pkghttp.WriteBadRequest(w, "No file uploaded")
		return
	}
	defer file.Close()

	size, err := io.Copy(io.Discard, file)
	if err != nil {
		pkghttp.WriteInternalError(w, MsgInternalError)
		return
	}
	if size > maxUploadBytes {
		pkghttp.WritePayloadTooLarge(w, "File too large")
		return
	}

	result, err := h.service.Analyze(r.Context(), claims.AccountID, size)
	if err != nil {
		pkghttp.WriteInternalError(w, MsgInternalError)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, result)
}
