package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/toptenapp/topten-server/internal/domain"
)

func (s *Server) registerListRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listLists",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists",
		Summary:     "List lists",
		Description: "Returns the user's lists in display order",
		Tags:        []string{"Lists"},
	}, s.handleListLists)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createList",
		Method:        http.MethodPost,
		Path:          "/api/v1/lists",
		Summary:       "Create list",
		Description:   "Creates an empty list in a category and appends it to the end",
		Tags:          []string{"Lists"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateList)

	huma.Register(s.api, huma.Operation{
		OperationID: "reorderLists",
		Method:      http.MethodPut,
		Path:        "/api/v1/lists/order",
		Summary:     "Reorder lists",
		Description: "Replaces the display order. The ids must be a permutation of the existing lists.",
		Tags:        []string{"Lists"},
	}, s.handleReorderLists)

	huma.Register(s.api, huma.Operation{
		OperationID: "getList",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists/{id}",
		Summary:     "Get list",
		Description: "Returns a list with its resolved cover image",
		Tags:        []string{"Lists"},
	}, s.handleGetList)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateList",
		Method:      http.MethodPatch,
		Path:        "/api/v1/lists/{id}",
		Summary:     "Update list",
		Description: "Updates list metadata. Omitted fields are unchanged.",
		Tags:        []string{"Lists"},
	}, s.handleUpdateList)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteList",
		Method:        http.MethodDelete,
		Path:          "/api/v1/lists/{id}",
		Summary:       "Delete list",
		Description:   "Deletes a list. Deleting an unknown id succeeds.",
		Tags:          []string{"Lists"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteList)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateListItems",
		Method:      http.MethodPut,
		Path:        "/api/v1/lists/{id}/items",
		Summary:     "Replace list items",
		Description: "Replaces the ranked items. When two items share a rank the later one wins.",
		Tags:        []string{"Lists"},
	}, s.handleUpdateListItems)

	huma.Register(s.api, huma.Operation{
		OperationID: "moveList",
		Method:      http.MethodPost,
		Path:        "/api/v1/lists/{id}/move",
		Summary:     "Move list",
		Description: "Moves a list up (negative delta) or down. The position is clamped to the ends.",
		Tags:        []string{"Lists"},
	}, s.handleMoveList)
}

// === DTOs ===

// ListResponse is a list as returned by the API.
type ListResponse struct {
	domain.TopTenList
	EffectiveIcon string               `json:"effective_icon" doc:"Custom icon if set, otherwise the category icon"`
	Slots         []*domain.TopTenItem `json:"slots" doc:"All ten positions in rank order, null where unfilled"`
	CoverURL      string               `json:"cover_url,omitempty" doc:"Resolved cover image, only on single-list reads"`
}

func toListResponse(l domain.TopTenList) ListResponse {
	return ListResponse{TopTenList: l, EffectiveIcon: l.EffectiveIcon(), Slots: l.Slots()}
}

// ListIDInput identifies a list.
type ListIDInput struct {
	ID string `path:"id" doc:"List ID"`
}

// ListsOutput contains all lists.
type ListsOutput struct {
	Body []ListResponse
}

// ListOutput contains one list.
type ListOutput struct {
	Body ListResponse
}

// CreateListRequest is the body for creating a list.
type CreateListRequest struct {
	Category    string `json:"category" validate:"required,category" doc:"Category id, e.g. movies"`
	Title       string `json:"title,omitempty" validate:"max=100" doc:"Title. Defaults to 'My Top 10 <category>'"`
	Description string `json:"description,omitempty" doc:"Up to 120 characters"`
}

// CreateListInput wraps the create request.
type CreateListInput struct {
	Body CreateListRequest
}

// UpdateListRequest is a partial metadata update.
type UpdateListRequest struct {
	Title           *string `json:"title,omitempty" validate:"omitempty,max=100" doc:"New title"`
	Description     *string `json:"description,omitempty" doc:"New description, up to 120 characters"`
	CustomIcon      *string `json:"custom_icon,omitempty" doc:"Icon override; empty string clears it"`
	Category        *string `json:"category,omitempty" validate:"omitempty,category" doc:"New category; resets the icon"`
	ProfileImageURI *string `json:"profile_image_uri,omitempty" doc:"User-chosen cover image"`
}

// UpdateListInput wraps the update request.
type UpdateListInput struct {
	ID   string `path:"id" doc:"List ID"`
	Body UpdateListRequest
}

// ItemRequest is one ranked item.
type ItemRequest struct {
	ID       string `json:"id,omitempty" doc:"Item ID; generated when omitted"`
	Rank     int    `json:"rank" validate:"rank" doc:"Rank from 1 to 10"`
	Title    string `json:"title" validate:"required" doc:"Item title"`
	ImageURL string `json:"image_url,omitempty" doc:"Item image"`
}

// UpdateItemsRequest replaces all items of a list.
type UpdateItemsRequest struct {
	Items []ItemRequest `json:"items" validate:"dive" doc:"Ranked items"`
}

// UpdateItemsInput wraps the items request.
type UpdateItemsInput struct {
	ID   string `path:"id" doc:"List ID"`
	Body UpdateItemsRequest
}

// ReorderRequest carries the new display order.
type ReorderRequest struct {
	IDs []string `json:"ids" doc:"Every list id exactly once, in the new order"`
}

// ReorderInput wraps the reorder request.
type ReorderInput struct {
	Body ReorderRequest
}

// MoveRequest moves a list by delta positions.
type MoveRequest struct {
	Delta int `json:"delta" doc:"Positions to move; negative moves towards the top"`
}

// MoveInput wraps the move request.
type MoveInput struct {
	ID   string `path:"id" doc:"List ID"`
	Body MoveRequest
}

// === Handlers ===

func (s *Server) handleListLists(_ context.Context, _ *struct{}) (*ListsOutput, error) {
	return &ListsOutput{Body: s.listResponses()}, nil
}

func (s *Server) handleCreateList(_ context.Context, input *CreateListInput) (*ListOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	id, err := s.services.Lists.AddList(domain.Category(input.Body.Category), input.Body.Title, input.Body.Description)
	if err != nil {
		return nil, err
	}

	list, err := s.services.Lists.GetList(id)
	if err != nil {
		return nil, err
	}
	return &ListOutput{Body: toListResponse(list)}, nil
}

func (s *Server) handleGetList(ctx context.Context, input *ListIDInput) (*ListOutput, error) {
	list, err := s.services.Lists.GetList(input.ID)
	if err != nil {
		return nil, err
	}

	resp := toListResponse(list)
	if s.services.Images != nil {
		resp.CoverURL = s.services.Images.CoverFor(ctx, list)
	}
	return &ListOutput{Body: resp}, nil
}

func (s *Server) handleUpdateList(ctx context.Context, input *UpdateListInput) (*ListOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	body := input.Body
	patch := domain.ListPatch{
		Title:           body.Title,
		Description:     body.Description,
		CustomIcon:      body.CustomIcon,
		ProfileImageURI: body.ProfileImageURI,
	}
	if body.Category != nil {
		c := domain.Category(*body.Category)
		patch.Category = &c
	}

	list, err := s.services.Lists.UpdateListMeta(input.ID, patch)
	if err != nil {
		return nil, err
	}

	// The cover is looked up by title.
	if body.Title != nil && s.services.Images != nil {
		s.services.Images.Invalidate(ctx, list.ID)
	}
	return &ListOutput{Body: toListResponse(list)}, nil
}

func (s *Server) handleDeleteList(_ context.Context, input *ListIDInput) (*struct{}, error) {
	s.services.Lists.DeleteList(input.ID)
	return nil, nil
}

func (s *Server) handleUpdateListItems(_ context.Context, input *UpdateItemsInput) (*ListOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	items := make([]domain.TopTenItem, len(input.Body.Items))
	for i, it := range input.Body.Items {
		items[i] = domain.TopTenItem{ID: it.ID, Rank: it.Rank, Title: it.Title, ImageURL: it.ImageURL}
	}

	list, err := s.services.Lists.UpdateListItems(input.ID, items)
	if err != nil {
		return nil, err
	}
	return &ListOutput{Body: toListResponse(list)}, nil
}

func (s *Server) handleReorderLists(_ context.Context, input *ReorderInput) (*ListsOutput, error) {
	if err := s.services.Lists.ReorderLists(input.Body.IDs); err != nil {
		return nil, err
	}
	return &ListsOutput{Body: s.listResponses()}, nil
}

func (s *Server) handleMoveList(_ context.Context, input *MoveInput) (*ListsOutput, error) {
	if err := s.services.Lists.MoveList(input.ID, input.Body.Delta); err != nil {
		return nil, err
	}
	return &ListsOutput{Body: s.listResponses()}, nil
}

func (s *Server) listResponses() []ListResponse {
	lists := s.services.Lists.Lists()
	out := make([]ListResponse, len(lists))
	for i, l := range lists {
		out[i] = toListResponse(l)
	}
	return out
}
