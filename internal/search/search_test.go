package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toptenapp/topten-server/internal/domain"
	"github.com/toptenapp/topten-server/internal/logger"
	"github.com/toptenapp/topten-server/internal/seed"
)

func setupSeedIndex(t *testing.T) (*Index, *seed.Seed) {
	t.Helper()

	sd := seed.MustLoad()
	idx, err := NewFromSeed(sd, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx, sd
}

func hitIDs(hits []Hit) []string {
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	return ids
}

func TestNew_Empty(t *testing.T) {
	idx, err := New(nil)
	require.NoError(t, err)
	defer idx.Close()

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestNewFromSeed_IndexesCatalog(t *testing.T) {
	idx, sd := setupSeedIndex(t)

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(len(sd.Featured)+len(sd.Community)), count)
}

func TestSearch_ByItemTitle(t *testing.T) {
	idx, _ := setupSeedIndex(t)

	hits, err := idx.Search(context.Background(), "pizza", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "community-comfort-foods", hits[0].ID)
	assert.Equal(t, KindCommunity, hits[0].Kind)
	assert.Equal(t, domain.CategoryFood, hits[0].Category)
	assert.Equal(t, "Ultimate Comfort Foods", hits[0].Title)
	assert.Positive(t, hits[0].Score)
}

func TestSearch_ByListTitle(t *testing.T) {
	idx, _ := setupSeedIndex(t)

	hits, err := idx.Search(context.Background(), "road trip", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "featured-road-trip-songs", hits[0].ID)
	assert.Equal(t, KindFeatured, hits[0].Kind)
}

func TestSearch_ByCategory(t *testing.T) {
	idx, _ := setupSeedIndex(t)

	hits, err := idx.Search(context.Background(), "movies", 10)
	require.NoError(t, err)

	ids := hitIDs(hits)
	assert.Contains(t, ids, "community-greatest-movies")
	assert.Contains(t, ids, "featured-oscar-winners")
}

func TestSearch_FuzzyTitle(t *testing.T) {
	idx, _ := setupSeedIndex(t)

	hits, err := idx.Search(context.Background(), "buckat", 10)
	require.NoError(t, err)
	assert.Contains(t, hitIDs(hits), "featured-bucket-list-cities")
}

func TestSearch_BlankQuery(t *testing.T) {
	idx, _ := setupSeedIndex(t)

	hits, err := idx.Search(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.NotNil(t, hits)
	assert.Empty(t, hits)
}

func TestSearch_Limit(t *testing.T) {
	idx, _ := setupSeedIndex(t)

	hits, err := idx.Search(context.Background(), "greatest", 1)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestSearchParams_KindFilter(t *testing.T) {
	idx, _ := setupSeedIndex(t)

	res, err := idx.SearchParams(context.Background(), Params{
		Query: "movies",
		Kinds: []Kind{KindFeatured},
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Hits)
	for _, h := range res.Hits {
		assert.Equal(t, KindFeatured, h.Kind)
	}
	assert.Equal(t, "movies", res.Query)
}

func TestIndex_DeleteDocument(t *testing.T) {
	idx, _ := setupSeedIndex(t)

	require.NoError(t, idx.DeleteDocument(KindCommunity, "community-comfort-foods"))

	hits, err := idx.Search(context.Background(), "pizza", 10)
	require.NoError(t, err)
	assert.NotContains(t, hitIDs(hits), "community-comfort-foods")
}

func TestIndex_Rebuild(t *testing.T) {
	idx, _ := setupSeedIndex(t)

	replacement := &seed.Seed{
		Community: []domain.CommunityList{{
			ID:       "community-board-games",
			Title:    "Best Board Games",
			Category: domain.CategoryGames,
			Items: []domain.CommunityItem{
				{ID: "bg-1", Title: "Catan", SeedScore: 90},
				{ID: "bg-2", Title: "Ticket to Ride", SeedScore: 80},
			},
		}},
	}
	require.NoError(t, idx.Rebuild(replacement))

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	hits, err := idx.Search(context.Background(), "catan", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "community-board-games", hits[0].ID)

	hits, err = idx.Search(context.Background(), "pizza", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestDocument_ToMap(t *testing.T) {
	doc := FeaturedDocument(domain.FeaturedList{
		ID:       "f1",
		Title:    "Title",
		Category: domain.CategoryMusic,
		Curator:  "Desk",
		Items:    []domain.FeaturedItem{{Rank: 1, Title: "Song"}},
	})

	m := doc.ToMap()
	assert.Equal(t, "f1", m["id"])
	assert.Equal(t, "featured", m["kind"])
	assert.Equal(t, "music", m["category"])
	assert.Equal(t, []string{"Song"}, m["items"])
	assert.Equal(t, "Desk", m["curator"])
	assert.NotContains(t, m, "description")
	assert.Equal(t, "featured/f1", doc.docID())
}
