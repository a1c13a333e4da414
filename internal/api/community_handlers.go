package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/toptenapp/topten-server/internal/domain"
)

func (s *Server) registerCommunityRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCommunityLists",
		Method:      http.MethodGet,
		Path:        "/api/v1/community",
		Summary:     "List community lists",
		Description: "Returns the community catalog with the user's ranking state for each list",
		Tags:        []string{"Community"},
	}, s.handleListCommunity)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCommunityList",
		Method:      http.MethodGet,
		Path:        "/api/v1/community/{id}",
		Summary:     "Get community list",
		Description: "Returns the list, the user's ranking and items ordered by live score",
		Tags:        []string{"Community"},
	}, s.handleGetCommunity)

	huma.Register(s.api, huma.Operation{
		OperationID: "setCommunitySlots",
		Method:      http.MethodPut,
		Path:        "/api/v1/community/{id}/slots",
		Summary:     "Set ranking slots",
		Description: "Overwrites the user's ten slots. A submitted ranking stays submitted.",
		Tags:        []string{"Community"},
	}, s.handleSetSlots)

	huma.Register(s.api, huma.Operation{
		OperationID: "submitCommunityRanking",
		Method:      http.MethodPost,
		Path:        "/api/v1/community/{id}/submit",
		Summary:     "Submit ranking",
		Description: "Marks the ranking submitted so it counts towards live scores",
		Tags:        []string{"Community"},
	}, s.handleSubmitRanking)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCommunityScores",
		Method:      http.MethodGet,
		Path:        "/api/v1/community/{id}/scores",
		Summary:     "Live scores",
		Description: "Returns seed scores plus the user's submitted contribution",
		Tags:        []string{"Community"},
	}, s.handleGetScores)
}

// === DTOs ===

// CommunitySummary is a catalog entry.
type CommunitySummary struct {
	domain.CommunityList
	State domain.RankingState `json:"state" doc:"unranked, drafting or submitted"`
}

// CommunityListsOutput contains the catalog.
type CommunityListsOutput struct {
	Body []CommunitySummary
}

// CommunityIDInput identifies a community list.
type CommunityIDInput struct {
	ID string `path:"id" doc:"Community list ID"`
}

// CommunityDetail is one list with the user's ranking.
type CommunityDetail struct {
	List    domain.CommunityList        `json:"list"`
	Ranking domain.UserCommunityRanking `json:"ranking"`
	State   domain.RankingState         `json:"state" doc:"unranked, drafting or submitted"`
	Ranked  []domain.ScoredItem         `json:"ranked" doc:"Items ordered by live score"`
}

// CommunityDetailOutput wraps a community detail.
type CommunityDetailOutput struct {
	Body CommunityDetail
}

// SlotsRequest carries the user's slots; slot 0 is rank 1.
type SlotsRequest struct {
	Slots []string `json:"slots" validate:"max=10" doc:"Up to ten titles, empty strings for unfilled slots"`
}

// SlotsInput wraps the slots request.
type SlotsInput struct {
	ID   string `path:"id" doc:"Community list ID"`
	Body SlotsRequest
}

// RankingResponse is the user's ranking after a change.
type RankingResponse struct {
	Ranking domain.UserCommunityRanking `json:"ranking"`
	State   domain.RankingState         `json:"state"`
}

// RankingOutput wraps a ranking.
type RankingOutput struct {
	Body RankingResponse
}

// ScoresResponse holds live scores keyed by item id.
type ScoresResponse struct {
	Scores map[string]int      `json:"scores" doc:"Item id to live score"`
	Ranked []domain.ScoredItem `json:"ranked" doc:"Items ordered by live score"`
}

// ScoresOutput wraps live scores.
type ScoresOutput struct {
	Body ScoresResponse
}

// === Handlers ===

func (s *Server) handleListCommunity(_ context.Context, _ *struct{}) (*CommunityListsOutput, error) {
	lists := s.services.Community.Lists()
	out := make([]CommunitySummary, 0, len(lists))
	for _, l := range lists {
		state, err := s.services.Community.State(l.ID)
		if err != nil {
			// The catalog was swapped by a seed reload between the two calls.
			continue
		}
		out = append(out, CommunitySummary{CommunityList: l, State: state})
	}
	return &CommunityListsOutput{Body: out}, nil
}

func (s *Server) handleGetCommunity(_ context.Context, input *CommunityIDInput) (*CommunityDetailOutput, error) {
	svc := s.services.Community

	list, err := svc.List(input.ID)
	if err != nil {
		return nil, err
	}
	ranking, err := svc.Ranking(input.ID)
	if err != nil {
		return nil, err
	}
	state, err := svc.State(input.ID)
	if err != nil {
		return nil, err
	}
	ranked, err := svc.RankedItems(input.ID)
	if err != nil {
		return nil, err
	}

	return &CommunityDetailOutput{Body: CommunityDetail{
		List:    list,
		Ranking: ranking,
		State:   state,
		Ranked:  ranked,
	}}, nil
}

func (s *Server) handleSetSlots(_ context.Context, input *SlotsInput) (*RankingOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	var slots [domain.MaxItems]string
	copy(slots[:], input.Body.Slots)

	ranking, err := s.services.Community.SetUserSlots(input.ID, slots)
	if err != nil {
		return nil, err
	}
	return s.rankingOutput(input.ID, ranking)
}

func (s *Server) handleSubmitRanking(_ context.Context, input *CommunityIDInput) (*RankingOutput, error) {
	ranking, err := s.services.Community.SubmitRanking(input.ID)
	if err != nil {
		return nil, err
	}
	return s.rankingOutput(input.ID, ranking)
}

func (s *Server) handleGetScores(_ context.Context, input *CommunityIDInput) (*ScoresOutput, error) {
	scores, err := s.services.Community.GetLiveScores(input.ID)
	if err != nil {
		return nil, err
	}
	ranked, err := s.services.Community.RankedItems(input.ID)
	if err != nil {
		return nil, err
	}
	return &ScoresOutput{Body: ScoresResponse{Scores: scores, Ranked: ranked}}, nil
}

func (s *Server) rankingOutput(listID string, ranking domain.UserCommunityRanking) (*RankingOutput, error) {
	state, err := s.services.Community.State(listID)
	if err != nil {
		return nil, err
	}
	return &RankingOutput{Body: RankingResponse{Ranking: ranking, State: state}}, nil
}
