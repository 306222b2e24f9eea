package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload carried inside the signed session cookie.
// Sessions are stateless: there is no server-side record and no revocation
// before the 7-day expiry; logout only deletes the client-held cookie.
type SessionClaims struct {
	AccountID int64  `json:"account_id"`
	Email     string `json:"email,omitempty"`
	jwt.RegisteredClaims
}
