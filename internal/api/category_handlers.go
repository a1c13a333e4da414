package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/toptenapp/topten-server/internal/domain"
)

func (s *Server) registerCategoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List categories",
		Description: "Returns every supported category with its display metadata, in display order",
		Tags:        []string{"Categories"},
	}, s.handleListCategories)
}

// CategoryResponse is a category with display metadata.
type CategoryResponse struct {
	ID domain.Category `json:"id" doc:"Category id used in requests"`
	domain.CategoryMeta
}

// CategoriesOutput contains the categories. The set is static, so it is cacheable.
type CategoriesOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         []CategoryResponse
}

func (s *Server) handleListCategories(_ context.Context, _ *struct{}) (*CategoriesOutput, error) {
	cats := domain.Categories()
	out := make([]CategoryResponse, len(cats))
	for i, c := range cats {
		out[i] = CategoryResponse{ID: c, CategoryMeta: c.Meta()}
	}
	return &CategoriesOutput{CacheControl: CacheOneDay, Body: out}, nil
}
