package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// User-facing messages shared across handlers
const (
	MsgInvalidData     = "Invalid data"
	MsgCSRFFailed      = "Session expired. Please refresh the page."
	MsgRateLimited     = "Too many attempts. Please try again later."
	MsgInternalError   = "Internal server error"
	MsgUnauthorized    = "Unauthorized"
	MsgInvalidEmail    = "Please enter a valid email address"
	MsgPasswordTooWeak = "Password must be at least 8 characters"
	MsgBusinessNameReq = "Business name is required"
)

// Global validator instance (reused across all handlers)
var validate = validator.New()

// ValidateRequest validates a request struct. The returned error carries the
// user-facing message for the first failing field.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return errors.New(fieldMessage(ve[0]))
		}
		return errors.New(MsgInvalidData)
	}
	return nil
}

// fieldMessage maps a failing field to the message the UI expects
func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Email":
		return MsgInvalidEmail
	case "Password":
		return MsgPasswordTooWeak
	case "BusinessName":
		return MsgBusinessNameReq
	default:
		return MsgInvalidData
	}
}
