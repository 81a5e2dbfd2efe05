package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors - wrap with fmt.Errorf("...: %w", err) and match with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
)

// Completion provider failure kinds. A missing credential is detected locally
// before any request is sent; an unauthorized error means the provider
// rejected the credential we sent.
var (
	ErrMissingCredential    = errors.New("completion provider credential not configured")
	ErrProviderUnauthorized = errors.New("completion provider rejected credential")
)

// CompletionError is a non-2xx response from the completion provider that is
// not a credential problem. Status is the provider's HTTP status code.
type CompletionError struct {
	Status  int
	Message string
}

func (e *CompletionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("completion provider error: status %d", e.Status)
	}
	return fmt.Sprintf("completion provider error: %d - %s", e.Status, e.Message)
}
