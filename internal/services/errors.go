// Package services provides the business logic layer between handlers and
// the counting core. Services validate input, run the pipeline and translate
// failures into ServiceErrors.
package services

import "errors"

// Error codes returned to API clients
const (
	CodeInvalidConfiguration = "INVALID_CONFIGURATION"
	CodeInvalidSeries        = "INVALID_SERIES"
	CodeSeriesTooLarge       = "SERIES_TOO_LARGE"
	CodeRequestCancelled     = "REQUEST_CANCELLED"
)

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// AsServiceError extracts a ServiceError from err's chain
func AsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr, true
	}
	return nil, false
}
