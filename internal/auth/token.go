package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/arusops/arus/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenManager signs and verifies the session claims carried in the session
// cookie. Sessions are stateless: verification needs only the server secret,
// and there is no revocation before expiry. Logout deletes the cookie
// client-side; a copied token stays valid elsewhere until it expires.
type TokenManager struct {
	secret     string
	sessionTTL time.Duration
}

// NewTokenManager creates a new TokenManager
func NewTokenManager(secret string, sessionTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     secret,
		sessionTTL: sessionTTL,
	}
}

// Sign mints a session token for the account with the configured expiry.
func (tm *TokenManager) Sign(accountID int64, email string) (string, error) {
	now := time.Now()
	claims := &models.SessionClaims{
		AccountID: accountID,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   strconv.FormatInt(accountID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(tm.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// Verify checks signature and expiry and returns the claims. Expired,
// tampered and malformed tokens all fail identically: callers get a nil
// claims pointer and must treat the request as having no session.
func (tm *TokenManager) Verify(tokenString string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tm.secret), nil
	})

	if err != nil {
		return nil, models.ErrUnauthorized
	}

	if !token.Valid || claims.AccountID == 0 {
		return nil, models.ErrUnauthorized
	}

	return claims, nil
}
