package auth

import (
	"net/http"
)

const (
	// SessionCookieName is the http-only cookie carrying the signed session token
	SessionCookieName = "arus_session"
	// CSRFCookieName is the client-readable cookie used for double-submit checks
	CSRFCookieName = "csrf_token"
)

// CookieConfig holds cookie transport settings
type CookieConfig struct {
	Secure bool // HTTPS only; enabled in production
}

// SetSessionCookie writes the session token into an httpOnly cookie.
// HttpOnly keeps the token away from page scripts; SameSite=Lax limits
// cross-site sends to top-level navigations.
func SetSessionCookie(w http.ResponseWriter, token string, maxAge int, config CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie deletes the session cookie
func ClearSessionCookie(w http.ResponseWriter, config CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetSessionCookie returns the raw session cookie value. It does not verify
// the token; callers must pass it through the TokenManager.
func GetSessionCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// SetCSRFTokenCookie sets the CSRF token in a readable cookie (not httpOnly).
// The client reads it and echoes it back in the X-CSRF-Token header.
func SetCSRFTokenCookie(w http.ResponseWriter, csrfToken string, maxAge int, config CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    csrfToken,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: false,
		Secure:   config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetCSRFTokenCookie retrieves the CSRF token from cookies
func GetCSRFTokenCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(CSRFCookieName)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}
