package domain

import "errors"

// Common errors used throughout the application.
var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrUnknownVariant   = errors.New("unknown variant")
	ErrDuplicateAppName = errors.New("duplicate app name")
	ErrMissingParameter = errors.New("missing parameter declaration")
	ErrIncompleteChain  = errors.New("incomplete chain")
	ErrInvalidState     = errors.New("invalid builder state")
)

// APIError represents an error response from the API.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}
