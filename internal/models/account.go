package models

import (
	"time"
)

// Account is a registered business on the platform. PasswordHash is empty
// for accounts that were provisioned ahead of registration (e.g. by the
// demo seed); such accounts claim their password on first register.
type Account struct {
	ID           int64
	Email        string
	PasswordHash string // empty = provisioned but not yet registered
	BusinessName string
	Country      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Registered reports whether the account has completed registration.
func (a *Account) Registered() bool {
	return a.PasswordHash != ""
}
