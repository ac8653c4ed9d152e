package usecase

import (
	"errors"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
)

// Sentinel errors for use case layer
var (
	// Input errors
	ErrValidation = errors.New("validation error")

	// Not found errors
	ErrActionNotFound     = errors.New("action not found")
	ErrSuggestionNotFound = errors.New("suggestion not found")

	// State errors
	ErrConflict = errors.New("conflict")

	// Collaborator errors
	ErrNotConnected      = errors.New("not connected")
	ErrIntegration       = errors.New("integration error")
	ErrUnknownActionType = errors.New("unknown action type")

	// Access control errors
	ErrUnauthorized = errors.New("unauthorized")
)

// Context keys for error values
const (
	ActionIDKey     = "action_id"
	SuggestionIDKey = "suggestion_id"
	OrgIDKey        = "org_id"
	SessionIDKey    = "session_id"
	StatusKey       = "status"
)

// ErrorCategory is the machine readable class of an error reported to API
// callers.
type ErrorCategory string

const (
	CategoryValidation   ErrorCategory = "validation"
	CategoryNotFound     ErrorCategory = "not_found"
	CategoryConflict     ErrorCategory = "conflict"
	CategoryNotConnected ErrorCategory = "not_connected"
	CategoryIntegration  ErrorCategory = "integration"
	CategoryUnknownType  ErrorCategory = "unknown_type"
	CategoryUnauthorized ErrorCategory = "unauthorized"
	CategoryInternal     ErrorCategory = "internal"
)

// Category classifies err by the sentinel it wraps.
func Category(err error) ErrorCategory {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return CategoryValidation
	case errors.Is(err, ErrActionNotFound), errors.Is(err, ErrSuggestionNotFound), errors.Is(err, interfaces.ErrNotFound):
		return CategoryNotFound
	case errors.Is(err, ErrConflict):
		return CategoryConflict
	case errors.Is(err, ErrNotConnected), errors.Is(err, interfaces.ErrNotConnected):
		return CategoryNotConnected
	case errors.Is(err, ErrUnknownActionType):
		return CategoryUnknownType
	case errors.Is(err, ErrIntegration):
		return CategoryIntegration
	case errors.Is(err, ErrUnauthorized):
		return CategoryUnauthorized
	default:
		return CategoryInternal
	}
}
