package errors

import (
	"errors"
	"strings"
)

var (
	ErrAlreadyExists     = errors.New("already exists")
	ErrNotFound          = errors.New("not found")
	ErrQuotaExhausted    = errors.New("verification quota exhausted or expired")
	ErrValidation        = errors.New("validation failed")
	ErrUnknownCheck      = errors.New("unknown verification check")
	ErrInvalidOrder      = errors.New("invalid order")
	ErrInvalidTransition = errors.New("invalid payment status transition")
)

// ValidationError reports request fields that are missing or empty.
type ValidationError struct {
	Fields  []string
	Message string
}

// MissingFields builds the error returned when required fields are absent.
func MissingFields(fields ...string) *ValidationError {
	return &ValidationError{
		Fields:  fields,
		Message: strings.Join(fields, ", ") + " are required",
	}
}

// MissingConsent builds the error returned when mandatory consent is absent.
func MissingConsent() *ValidationError {
	return &ValidationError{Fields: []string{"consent"}, Message: "consent is required"}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// QuotaError names every check type that was tried before giving up.
type QuotaError struct {
	Types []string
}

func (e *QuotaError) Error() string {
	msg := "Verification quota exhausted or expired"
	if len(e.Types) == 0 {
		return msg
	}
	msg += " for " + e.Types[0]
	if len(e.Types) > 1 {
		msg += " or " + strings.Join(e.Types[1:], ", ")
	}
	return msg
}

func (e *QuotaError) Unwrap() error {
	return ErrQuotaExhausted
}

// ProviderError is a failure reported by (or on the way to) the upstream verification provider.
type ProviderError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}
	return e.Message
}
