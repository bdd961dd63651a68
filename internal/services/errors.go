package services

import (
	"errors"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrEmployeeNoTaken    = errors.New("employee number already in use")
	ErrInvalidStatus      = errors.New("status must be one of: active, inactive")
	ErrNoEmployees        = errors.New("at least one employee must be selected")
)

// ValidationError carries field-level messages for malformed input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, field+": "+msg)
	}
	return strings.Join(msgs, "; ")
}

// IsValidation reports whether err is input the caller can fix (4xx),
// as opposed to an unexpected failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	return errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrEmployeeNoTaken) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrNoEmployees)
}
