package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/toptenapp/topten-server/internal/domain"
	domainerrors "github.com/toptenapp/topten-server/internal/errors"
	"github.com/toptenapp/topten-server/internal/suggest"
)

func (s *Server) registerSuggestionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSuggestions",
		Method:      http.MethodGet,
		Path:        "/api/v1/suggestions",
		Summary:     "Suggest items",
		Description: "Searches the content source for the category. " +
			"An empty query returns the curated list; backend failures fall back to it.",
		Tags:        []string{"Suggestions"},
		Middlewares: huma.Middlewares{withHTTPMiddleware(RateLimitMiddleware(s.suggestLimiter, s.trustProxy, s.logger))},
	}, s.handleSuggestions)
}

// SuggestionsInput holds the suggestion query.
type SuggestionsInput struct {
	Category  string `query:"category" required:"true" doc:"Category id, e.g. movies"`
	Query     string `query:"q" maxLength:"200" doc:"Search text; empty returns the curated list"`
	ListTitle string `query:"list_title" maxLength:"200" doc:"Title of the list being edited, used to route custom lists"`
}

// SuggestionsResponse contains at most ten suggestions.
type SuggestionsResponse struct {
	Category    domain.Category     `json:"category" doc:"Category the query was routed by"`
	Suggestions []domain.Suggestion `json:"suggestions"`
}

// SuggestionsOutput wraps the suggestions.
type SuggestionsOutput struct {
	Body SuggestionsResponse
}

func (s *Server) handleSuggestions(ctx context.Context, input *SuggestionsInput) (*SuggestionsOutput, error) {
	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return nil, domainerrors.ValidationWithDetails("unknown category", map[string]string{"category": input.Category})
	}
	if s.services.Suggest == nil {
		return nil, domainerrors.Unavailable("suggestions are not configured")
	}

	q := suggest.Query{
		Category:  category,
		Text:      strings.TrimSpace(input.Query),
		ListTitle: input.ListTitle,
	}
	results := s.services.Suggest.Suggest(ctx, q)
	if results == nil {
		results = []domain.Suggestion{}
	}

	return &SuggestionsOutput{Body: SuggestionsResponse{
		Category:    suggest.EffectiveCategory(q),
		Suggestions: results,
	}}, nil
}
