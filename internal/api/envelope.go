package api

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/toptenapp/topten-server/internal/errors"
	"github.com/toptenapp/topten-server/internal/http/response"
)

// EnvelopeVersion is sent as "v" on every response.
const EnvelopeVersion = response.Version

// APIEnvelope wraps successful responses and uncoded errors.
type APIEnvelope = response.Envelope

// APIErrorEnvelope wraps errors that carry a code.
type APIErrorEnvelope = response.ErrorEnvelope

// EnvelopeTransformer wraps every huma response body in the envelope.
// It is registered as the last transformer so it sees the final body.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	err, ok := v.(error)
	if !ok {
		return APIEnvelope{Version: EnvelopeVersion, Success: true, Data: v}, nil
	}

	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		return APIErrorEnvelope{
			Version: EnvelopeVersion,
			Error:   domainErr.Message,
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
			Details: domainErr.Details,
		}, nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Code != "" {
		return APIErrorEnvelope{
			Version: EnvelopeVersion,
			Error:   apiErr.Message,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}, nil
	}

	return APIEnvelope{Version: EnvelopeVersion, Error: err.Error()}, nil
}
