package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/toptenapp/topten-server/internal/domain"
)

func (s *Server) registerFeaturedRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listFeatured",
		Method:      http.MethodGet,
		Path:        "/api/v1/featured",
		Summary:     "List featured lists",
		Description: "Returns the editorial lists with a viewed flag",
		Tags:        []string{"Featured"},
	}, s.handleListFeatured)

	huma.Register(s.api, huma.Operation{
		OperationID: "getFeatured",
		Method:      http.MethodGet,
		Path:        "/api/v1/featured/{id}",
		Summary:     "Get featured list",
		Tags:        []string{"Featured"},
	}, s.handleGetFeatured)

	huma.Register(s.api, huma.Operation{
		OperationID:   "markFeaturedViewed",
		Method:        http.MethodPost,
		Path:          "/api/v1/featured/{id}/viewed",
		Summary:       "Mark featured list viewed",
		Tags:          []string{"Featured"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleMarkViewed)
}

// FeaturedResponse is a featured list with the user's viewed flag.
type FeaturedResponse struct {
	domain.FeaturedList
	Viewed bool `json:"viewed"`
}

// FeaturedListOutput contains all featured lists.
type FeaturedListOutput struct {
	Body []FeaturedResponse
}

// FeaturedOutput contains one featured list.
type FeaturedOutput struct {
	Body FeaturedResponse
}

// FeaturedIDInput identifies a featured list.
type FeaturedIDInput struct {
	ID string `path:"id" doc:"Featured list ID"`
}

func (s *Server) handleListFeatured(_ context.Context, _ *struct{}) (*FeaturedListOutput, error) {
	svc := s.services.Featured
	lists := svc.List()
	out := make([]FeaturedResponse, len(lists))
	for i, l := range lists {
		out[i] = FeaturedResponse{FeaturedList: l, Viewed: svc.Viewed(l.ID)}
	}
	return &FeaturedListOutput{Body: out}, nil
}

func (s *Server) handleGetFeatured(_ context.Context, input *FeaturedIDInput) (*FeaturedOutput, error) {
	l, err := s.services.Featured.Get(input.ID)
	if err != nil {
		return nil, err
	}
	return &FeaturedOutput{Body: FeaturedResponse{FeaturedList: l, Viewed: s.services.Featured.Viewed(l.ID)}}, nil
}

func (s *Server) handleMarkViewed(_ context.Context, input *FeaturedIDInput) (*struct{}, error) {
	return nil, s.services.Featured.MarkViewed(input.ID)
}
