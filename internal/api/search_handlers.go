package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/toptenapp/topten-server/internal/errors"
	"github.com/toptenapp/topten-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search catalog",
		Description: "Full-text search across featured and community lists",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// === DTOs ===

// SearchInput contains parameters for searching the catalog.
type SearchInput struct {
	Query string `query:"q" maxLength:"200" doc:"Search query"`
	Kinds string `query:"kinds" doc:"Comma-separated kinds to search (featured,community). Omit for all."`
	Limit int    `query:"limit" minimum:"0" maximum:"50" doc:"Max results (default 20)"`
}

// SearchHitResult is a single search hit.
type SearchHitResult struct {
	ID         string            `json:"id" doc:"List ID"`
	Kind       string            `json:"kind" doc:"featured or community"`
	Title      string            `json:"title" doc:"List title"`
	Category   string            `json:"category,omitempty" doc:"Category id"`
	Score      float64           `json:"score" doc:"Search relevance score"`
	Highlights map[string]string `json:"highlights,omitempty" doc:"Highlighted matches"`
}

// SearchResponse contains search results.
type SearchResponse struct {
	Query  string            `json:"query" doc:"Original search query"`
	Total  uint64            `json:"total" doc:"Total matches"`
	TookMs int64             `json:"took_ms" doc:"Search duration in milliseconds"`
	Hits   []SearchHitResult `json:"hits" doc:"Search results"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body SearchResponse
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if s.services.Search == nil {
		return nil, domainerrors.Unavailable("search is not configured")
	}

	params := search.Params{Query: input.Query, Limit: input.Limit}
	for k := range strings.SplitSeq(input.Kinds, ",") {
		switch kind := search.Kind(strings.TrimSpace(k)); kind {
		case "":
		case search.KindFeatured, search.KindCommunity:
			params.Kinds = append(params.Kinds, kind)
		default:
			return nil, domainerrors.ValidationWithDetails("unknown search kind", map[string]string{"kinds": string(kind)})
		}
	}

	result, err := s.services.Search.SearchParams(ctx, params)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "search failed")
	}

	hits := make([]SearchHitResult, len(result.Hits))
	for i, h := range result.Hits {
		hits[i] = SearchHitResult{
			ID:         h.ID,
			Kind:       string(h.Kind),
			Title:      h.Title,
			Category:   string(h.Category),
			Score:      h.Score,
			Highlights: h.Highlights,
		}
	}

	return &SearchOutput{Body: SearchResponse{
		Query:  result.Query,
		Total:  result.Total,
		TookMs: result.TookMs,
		Hits:   hits,
	}}, nil
}
