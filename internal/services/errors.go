// Package services orchestrates the analytics packages for the HTTP bridge,
// the queue worker and the CLI. Callers pass decoded requests and get wire
// views back.
package services

// Error codes carried by ServiceError
const (
	CodeInvalidArgument  = "INVALID_ARGUMENT"
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeInternal         = "INTERNAL_ERROR"
)

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
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

func invalidArgument(message string) *ServiceError {
	return NewServiceError(CodeInvalidArgument, message)
}
