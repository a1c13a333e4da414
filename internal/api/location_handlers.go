package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/toptenapp/topten-server/internal/domain"
)

func (s *Server) registerLocationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getLocation",
		Method:      http.MethodGet,
		Path:        "/api/v1/location",
		Summary:     "Detected location",
		Description: "Returns the approximate location from the public IP, cached for a week. " +
			"location is null when detection is disabled or has never succeeded.",
		Tags: []string{"Location"},
	}, s.handleGetLocation)
}

// LocationResponse holds the detected location, if any.
type LocationResponse struct {
	Location *domain.DetectedLocation `json:"location"`
}

// LocationOutput wraps the location.
type LocationOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         LocationResponse
}

func (s *Server) handleGetLocation(ctx context.Context, _ *struct{}) (*LocationOutput, error) {
	if s.services.Location == nil {
		return &LocationOutput{CacheControl: CacheNoStore}, nil
	}
	loc, err := s.services.Location.Detect(ctx)
	if err != nil {
		return nil, err
	}
	return &LocationOutput{CacheControl: CacheNoStore, Body: LocationResponse{Location: loc}}, nil
}
