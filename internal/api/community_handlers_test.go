package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toptenapp/topten-server/internal/domain"
)

const comfortFoods = "community-comfort-foods"

func TestListCommunity(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/community")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[[]CommunitySummary](t, resp)
	require.NotEmpty(t, env.Data)
	for _, l := range env.Data {
		assert.Equal(t, domain.RankingUnranked, l.State, l.ID)
		assert.Len(t, l.Items, domain.MaxItems, l.ID)
	}
}

func TestGetCommunity_DefaultRanking(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/community/" + comfortFoods)
	require.Equal(t, http.StatusOK, resp.Code)

	detail := decodeEnvelope[CommunityDetail](t, resp).Data
	assert.Equal(t, comfortFoods, detail.List.ID)
	assert.Equal(t, domain.RankingUnranked, detail.State)
	assert.False(t, detail.Ranking.Submitted)
	assert.Equal(t, "Pizza", detail.Ranking.Slots[0], "default ranking follows seed order")
	require.Len(t, detail.Ranked, domain.MaxItems)
	assert.Equal(t, "cf-pizza", detail.Ranked[0].ID)
	assert.Equal(t, 1, detail.Ranked[0].Rank)
}

func TestCommunity_SlotsSubmitScores(t *testing.T) {
	ts := setupTestServer(t)
	base := "/api/v1/community/" + comfortFoods

	resp := ts.api.Put(base+"/slots", map[string]any{"slots": []string{"ramen", "", "PIZZA"}})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	ranking := decodeEnvelope[RankingResponse](t, resp).Data
	assert.Equal(t, domain.RankingDrafting, ranking.State)
	assert.Equal(t, "ramen", ranking.Ranking.Slots[0])
	assert.Empty(t, ranking.Ranking.Slots[9])

	// Drafts don't count.
	resp = ts.api.Get(base + "/scores")
	require.Equal(t, http.StatusOK, resp.Code)
	scores := decodeEnvelope[ScoresResponse](t, resp).Data
	assert.Equal(t, 92, scores.Scores["cf-ramen"])

	resp = ts.api.Post(base + "/submit")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, domain.RankingSubmitted, decodeEnvelope[RankingResponse](t, resp).Data.State)

	resp = ts.api.Get(base + "/scores")
	require.Equal(t, http.StatusOK, resp.Code)
	scores = decodeEnvelope[ScoresResponse](t, resp).Data
	assert.Equal(t, 92+10, scores.Scores["cf-ramen"], "slot 0 adds 10")
	assert.Equal(t, 98+8, scores.Scores["cf-pizza"], "slot 2 adds 8, matched case-insensitively")
	assert.Equal(t, 95, scores.Scores["cf-mac-cheese"])
	assert.Equal(t, "cf-pizza", scores.Ranked[0].ID)
	assert.Equal(t, "cf-ramen", scores.Ranked[1].ID)

	// Editing after submission keeps the ranking submitted.
	resp = ts.api.Put(base+"/slots", map[string]any{"slots": []string{"Pancakes"}})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, domain.RankingSubmitted, decodeEnvelope[RankingResponse](t, resp).Data.State)
}

func TestCommunity_Validation(t *testing.T) {
	ts := setupTestServer(t)

	slots := make([]string, domain.MaxItems+1)
	resp := ts.api.Put("/api/v1/community/"+comfortFoods+"/slots", map[string]any{"slots": slots})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, decodeEnvelope[any](t, resp).Details, "slots")
}

func TestCommunity_UnknownList(t *testing.T) {
	ts := setupTestServer(t)

	for _, call := range []func() int{
		func() int { return ts.api.Get("/api/v1/community/nope").Code },
		func() int { return ts.api.Get("/api/v1/community/nope/scores").Code },
		func() int { return ts.api.Post("/api/v1/community/nope/submit").Code },
		func() int {
			return ts.api.Put("/api/v1/community/nope/slots", map[string]any{"slots": []string{"x"}}).Code
		},
	} {
		assert.Equal(t, http.StatusNotFound, call())
	}
}
