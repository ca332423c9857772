package api

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors for engine operations
var (
	// ErrNoEligibleExecutor is returned when resolution leaves no executor to
	// serve an ability. Callers branch on it rather than treat it as a fault.
	ErrNoEligibleExecutor = errors.New("no eligible executor")

	ErrAbilityNotFound  = errors.New("ability not found")
	ErrExecutorNotFound = errors.New("executor not found")
	ErrUnknownProvider  = errors.New("no adapter registered for provider")
	ErrInvalidDocument  = errors.New("invalid document")
)

// ValidationError represents a caller-visible validation failure raised
// before any network call is made.
type ValidationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error in field '%s': %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(field, format string, args ...interface{}) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var messages []string
	for _, err := range e {
		messages = append(messages, err.Error())
	}

	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// IsValidationError reports whether err is, or wraps, a validation failure.
func IsValidationError(err error) bool {
	var single ValidationError
	var multi ValidationErrors
	return errors.As(err, &single) || errors.As(err, &multi)
}

// ProviderError reports a failed or timed-out provider call.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Timeout    bool
	Err        error
}

// GenericProviderMessage is used when the provider body carries nothing
// parseable.
const GenericProviderMessage = "request failed"

func (e *ProviderError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = GenericProviderMessage
	}
	switch {
	case e.Timeout:
		return fmt.Sprintf("provider %s: timeout: %s", e.Provider, msg)
	case e.StatusCode > 0:
		return fmt.Sprintf("provider %s: status %d: %s", e.Provider, e.StatusCode, msg)
	default:
		return fmt.Sprintf("provider %s: %s", e.Provider, msg)
	}
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err is a provider timeout.
func IsTimeout(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Timeout
}
