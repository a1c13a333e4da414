package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toptenapp/topten-server/internal/domain"
)

func TestSuggestionCache(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	ttl := time.Hour

	// Initially empty
	cached, err := s.GetCachedSuggestions(ctx, "tmdb", "alien", ttl)
	require.NoError(t, err)
	assert.Nil(t, cached)

	results := []domain.Suggestion{{Title: "Alien", Year: "1979"}, {Title: "Aliens", Year: "1986"}}
	require.NoError(t, s.SetCachedSuggestions(ctx, "tmdb", "alien", results))

	cached, err = s.GetCachedSuggestions(ctx, "tmdb", "alien", ttl)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, results, cached.Results)
	assert.Equal(t, "tmdb", cached.Backend)

	// Different backend = miss
	cached, err = s.GetCachedSuggestions(ctx, "itunes", "alien", ttl)
	require.NoError(t, err)
	assert.Nil(t, cached)

	// Expired = miss
	cached, err = s.GetCachedSuggestions(ctx, "tmdb", "alien", -time.Second)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestSuggestionCache_Purge(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetCachedSuggestions(ctx, "tmdb", "a", nil))
	require.NoError(t, s.SetCachedSuggestions(ctx, "itunes", "b", nil))
	require.NoError(t, s.SaveLists(ctx, nil))

	n, err := s.PurgeSuggestionCache(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	lists, err := s.GetLists(ctx)
	require.NoError(t, err)
	assert.Empty(t, lists)
}
