package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/arusops/arus/internal/auth"
	"github.com/arusops/arus/internal/models"
	"github.com/arusops/arus/internal/services"
	pkghttp "github.com/arusops/arus/pkg/http"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Register(ctx context.Context, input services.RegisterInput, ipAddress string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password, ipAddress string) (*services.AuthResult, error)
	GetAccount(ctx context.Context, id int64) (*services.AccountResponse, error)
	UpdateProfile(ctx context.Context, id int64, businessName, country *string, ipAddress string) (*services.AccountResponse, error)
}

// AuthHandler handles authentication and profile HTTP requests
type AuthHandler struct {
	service       AuthServiceInterface
	tm            *auth.TokenManager
	cookieConfig  auth.CookieConfig
	sessionMaxAge int
	ipConfig      *pkghttp.IPConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface, tm *auth.TokenManager, cookieConfig auth.CookieConfig, sessionMaxAge int, ipConfig *pkghttp.IPConfig) *AuthHandler {
	return &AuthHandler{
		service:       service,
		tm:            tm,
		cookieConfig:  cookieConfig,
		sessionMaxAge: sessionMaxAge,
		ipConfig:      ipConfig,
	}
}

// Request DTOs

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	BusinessName string `json:"businessName" validate:"required,min=1,max=100"`
	Country      string `json:"country" validate:"max=50"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest represents the request body for profile updates
type UpdateProfileRequest struct {
	BusinessName *string `json:"businessName" validate:"omitempty,min=1,max=100"`
	Country      *string `json:"country" validate:"omitempty,min=1,max=50"`
}

// CSRFToken issues a fresh CSRF token cookie and echoes the token so the
// client can send it back in the X-CSRF-Token header
func (h *AuthHandler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	token, err := auth.GenerateCSRFToken()
	if err != nil {
		pkghttp.WriteInternalError(w, MsgInternalError)
		return
	}

	auth.SetCSRFTokenCookie(w, token, auth.CSRFTokenTTLSeconds, h.cookieConfig)
	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Register handles account registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, MsgInvalidData)
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if !auth.VerifyCSRF(r) {
		pkghttp.WriteForbidden(w, MsgCSRFFailed)
		return
	}

	ipAddress := pkghttp.ExtractClientIP(r, h.ipConfig)

	result, err := h.service.Register(r.Context(), services.RegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		BusinessName: req.BusinessName,
		Country:      req.Country,
	}, ipAddress)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			pkghttp.WriteConflict(w, "Email already registered. Please login instead.")
			return
		}
		pkghttp.WriteInternalError(w, MsgInternalError)
		return
	}

	auth.SetSessionCookie(w, result.Token, h.sessionMaxAge, h.cookieConfig)
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"user": result.User})
}

// Login handles account login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, MsgInvalidData)
		return
	}

	// Login reports one generic validation message, unlike registration
	if err := validate.Struct(req); err != nil {
		pkghttp.WriteBadRequest(w, MsgInvalidData)
		return
	}

	if !auth.VerifyCSRF(r) {
		pkghttp.WriteForbidden(w, MsgCSRFFailed)
		return
	}

	ipAddress := pkghttp.ExtractClientIP(r, h.ipConfig)

	result, err := h.service.Login(r.Context(), req.Email, req.Password, ipAddress)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAccountNotFound):
			pkghttp.WriteUnauthorized(w, "No account found with this email. Please register first.")
		case errors.Is(err, models.ErrIncorrectPassword):
			pkghttp.WriteUnauthorized(w, "Incorrect password. Please try again.")
		default:
			pkghttp.WriteInternalError(w, MsgInternalError)
		}
		return
	}

	auth.SetSessionCookie(w, result.Token, h.sessionMaxAge, h.cookieConfig)
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"user": result.User})
}

// Logout clears the session cookie. Stateless sessions have no server-side
// state to revoke, so logout always succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.cookieConfig)
	pkghttp.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Me returns the session identity, or 401 with a null user. The null-user
// body lets clients treat "not signed in" as data rather than an exception.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := auth.SessionFromRequest(r, h.tm)
	if claims == nil {
		pkghttp.WriteJSON(w, http.StatusUnauthorized, map[string]any{"user": nil})
		return
	}

	account, err := h.service.GetAccount(r.Context(), claims.AccountID)
	if err != nil {
		pkghttp.WriteJSON(w, http.StatusUnauthorized, map[string]any{"user": nil})
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":           account.ID,
			"email":        account.Email,
			"businessName": account.BusinessName,
		},
	})
}

// Profile returns the full profile projection for the session account
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims := auth.SessionFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, MsgUnauthorized)
		return
	}

	account, err := h.service.GetAccount(r.Context(), claims.AccountID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		pkghttp.WriteInternalError(w, MsgInternalError)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"user": account})
}

// UpdateProfile applies a partial profile update for the session account
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := auth.SessionFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, MsgUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, MsgInvalidData)
		return
	}

	if err := validate.Struct(req); err != nil {
		pkghttp.WriteBadRequest(w, MsgInvalidData)
		return
	}

	if !auth.VerifyCSRF(r) {
		pkghttp.WriteForbidden(w, MsgCSRFFailed)
		return
	}

	ipAddress := pkghttp.ExtractClientIP(r, h.ipConfig)

	account, err := h.service.UpdateProfile(r.Context(), claims.AccountID, req.BusinessName, req.Country, ipAddress)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		pkghttp.WriteInternalError(w, MsgInternalError)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"user": account})
}
