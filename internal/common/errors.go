// Package common defines shared constants and sentinel errors used across
// the job portal backend. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound  = errors.New("not found")
	ErrorDuplicate = errors.New("duplicate key")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")
	ErrorUpstream   = errors.New("upstream failure")

	// Access errors. Unauthorized means the caller is anonymous,
	// Forbidden means the caller is authenticated but lacks the role.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Workflow-specific errors.
	ErrorAlreadyApplied      = errors.New("already applied")
	ErrorApplicationNotFound = errors.New("application not found")

	// ErrorOTPInvalid covers both a wrong code and an expired one; the two
	// cases are deliberately indistinguishable to the caller.
	ErrorOTPInvalid = errors.New("invalid or expired otp")
)
