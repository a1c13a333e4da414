package api

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/toptenapp/topten-server/internal/errors"
	"github.com/toptenapp/topten-server/internal/http/response"
)

// APIError is a custom error type that implements huma.StatusError.
// Errors huma raises itself (bad params, body schema failures) come out as APIError.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler configures huma to use domain errors.
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler() {
	huma.NewError = newAPIError
}

func newAPIError(status int, message string, errs ...error) huma.StatusError {
	var details map[string]string
	for _, err := range errs {
		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) {
			return &APIError{
				status:  domainErr.HTTPStatus(),
				Code:    string(domainErr.Code),
				Message: domainErr.Message,
				Details: domainErr.Details,
			}
		}

		var detail *huma.ErrorDetail
		if errors.As(err, &detail) {
			if details == nil {
				details = make(map[string]string)
			}
			details[detail.Location] = detail.Message
		}
	}

	apiErr := &APIError{
		status:  status,
		Code:    response.CodeForStatus(status),
		Message: message,
	}
	if details != nil {
		apiErr.Details = details
	}
	return apiErr
}
