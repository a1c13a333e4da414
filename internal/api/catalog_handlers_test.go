package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toptenapp/topten-server/internal/domain"
	"github.com/toptenapp/topten-server/internal/logger"
	"github.com/toptenapp/topten-server/internal/service"
	"github.com/toptenapp/topten-server/internal/suggest"
)

func TestFeatured(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/featured")
	require.Equal(t, http.StatusOK, resp.Code)
	lists := decodeEnvelope[[]FeaturedResponse](t, resp).Data
	require.Len(t, lists, 3)
	assert.Equal(t, "featured-oscar-winners", lists[0].ID)
	assert.False(t, lists[0].Viewed)

	resp = ts.api.Post("/api/v1/featured/featured-road-trip-songs/viewed")
	assert.Equal(t, http.StatusNoContent, resp.Code)
	resp = ts.api.Post("/api/v1/featured/featured-road-trip-songs/viewed")
	assert.Equal(t, http.StatusNoContent, resp.Code, "marking twice is fine")

	resp = ts.api.Get("/api/v1/featured/featured-road-trip-songs")
	require.Equal(t, http.StatusOK, resp.Code)
	list := decodeEnvelope[FeaturedResponse](t, resp).Data
	assert.True(t, list.Viewed)
	assert.Equal(t, "TopTen Editors", list.Curator)
	assert.Len(t, list.Items, domain.MaxItems)

	ts.flush(t)
	viewed, err := ts.store.GetViewedFeatured(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"featured-road-trip-songs"}, viewed)

	assert.Equal(t, http.StatusNotFound, ts.api.Get("/api/v1/featured/nope").Code)
	assert.Equal(t, http.StatusNotFound, ts.api.Post("/api/v1/featured/nope/viewed").Code)
}

func TestSettings_NotificationPrefs(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/settings/notifications")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, domain.DefaultNotificationPrefs(), decodeEnvelope[domain.NotificationPrefs](t, resp).Data)

	want := domain.NotificationPrefs{CommunityUpdates: false, FeaturedDrops: true, WeeklyDigest: true}
	resp = ts.api.Put("/api/v1/settings/notifications", want)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, want, decodeEnvelope[domain.NotificationPrefs](t, resp).Data)

	ts.flush(t)
	stored, err := ts.store.GetNotificationPrefs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, stored)
}

func TestSettings_DataContribution(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/settings/data-contribution")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.False(t, decodeEnvelope[domain.DataContribution](t, resp).Data.OptedIn)

	resp = ts.api.Put("/api/v1/settings/data-contribution", map[string]any{"opted_in": true})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	first := decodeEnvelope[domain.DataContribution](t, resp).Data
	assert.True(t, first.OptedIn)
	assert.False(t, first.UpdatedAt.IsZero())

	resp = ts.api.Put("/api/v1/settings/data-contribution", map[string]any{"opted_in": true})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, first.UpdatedAt.Equal(decodeEnvelope[domain.DataContribution](t, resp).Data.UpdatedAt))
}

func TestSearch(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/search?q=pizza")
	require.Equal(t, http.StatusOK, resp.Code)
	result := decodeEnvelope[SearchResponse](t, resp).Data
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "community-comfort-foods", result.Hits[0].ID)
	assert.Equal(t, "community", result.Hits[0].Kind)

	resp = ts.api.Get("/api/v1/search?q=movies&kinds=featured")
	require.Equal(t, http.StatusOK, resp.Code)
	for _, h := range decodeEnvelope[SearchResponse](t, resp).Data.Hits {
		assert.Equal(t, "featured", h.Kind)
	}

	resp = ts.api.Get("/api/v1/search?q=")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decodeEnvelope[SearchResponse](t, resp).Data.Hits)

	resp = ts.api.Get("/api/v1/search?q=pizza&kinds=users")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, decodeEnvelope[any](t, resp).Details, "kinds")

	resp = ts.api.Get("/api/v1/search?q=pizza&limit=500")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, "VALIDATION", decodeEnvelope[any](t, resp).Code)
}

func TestSuggestions_Static(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/suggestions?category=movies")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	out := decodeEnvelope[SuggestionsResponse](t, resp).Data
	assert.Equal(t, domain.CategoryMovies, out.Category)
	require.Len(t, out.Suggestions, 10)
	assert.Equal(t, "The Godfather", out.Suggestions[0].Title)

	resp = ts.api.Get("/api/v1/suggestions?category=movies&q=godfather")
	require.Equal(t, http.StatusOK, resp.Code)
	out = decodeEnvelope[SuggestionsResponse](t, resp).Data
	require.Len(t, out.Suggestions, 1)
	assert.Equal(t, "The Godfather", out.Suggestions[0].Title)
}

func TestSuggestions_CustomListUsesTitleHint(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/suggestions?category=custom&list_title=Best%20Cocktails")
	require.Equal(t, http.StatusOK, resp.Code)
	out := decodeEnvelope[SuggestionsResponse](t, resp).Data
	assert.Equal(t, domain.CategoryCocktails, out.Category)
	assert.Equal(t, "Margarita", out.Suggestions[0].Title)
}

func TestSuggestions_Backend(t *testing.T) {
	calls := 0
	books := suggest.NewBackend("fake-books", func(_ context.Context, q string) ([]domain.Suggestion, error) {
		calls++
		if q == "broken" {
			return nil, errors.New("upstream 503")
		}
		return []domain.Suggestion{{Title: "Dune", Year: "1965"}, {Title: "dune"}, {Title: "Dune Messiah", Year: "1969"}}, nil
	})
	ts := setupTestServer(t, withSuggestRoutes(suggest.Routes{domain.CategoryBooks: books}))

	resp := ts.api.Get("/api/v1/suggestions?category=books&q=dune")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	out := decodeEnvelope[SuggestionsResponse](t, resp).Data
	require.Len(t, out.Suggestions, 2, "case-folded duplicates removed")
	assert.Equal(t, "1965", out.Suggestions[0].Year)

	resp = ts.api.Get("/api/v1/suggestions?category=books&q=broken")
	require.Equal(t, http.StatusOK, resp.Code, "backend failures are not errors")
	assert.NotNil(t, decodeEnvelope[SuggestionsResponse](t, resp).Data.Suggestions)
	assert.Equal(t, 2, calls)
}

func TestSuggestions_Validation(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/suggestions?category=podcasts")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION", decodeEnvelope[any](t, resp).Code)

	resp = ts.api.Get("/api/v1/suggestions")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code, "category is required")
}

func TestSuggestions_RateLimited(t *testing.T) {
	ts := setupTestServer(t, withOptions(func(o *Options) {
		o.SuggestPerMinute = 1
		o.SuggestBurst = 2
	}))

	for range 2 {
		assert.Equal(t, http.StatusOK, ts.api.Get("/api/v1/suggestions?category=movies").Code)
	}

	resp := ts.api.Get("/api/v1/suggestions?category=movies")
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, "RATE_LIMITED", decodeEnvelope[any](t, resp).Code)
	assert.Equal(t, "1", resp.Header().Get("Retry-After"))

	// Other routes are not limited.
	assert.Equal(t, http.StatusOK, ts.api.Get("/api/v1/categories").Code)
}

func TestSuggestions_RateLimitIgnoresForwardedHeaders(t *testing.T) {
	ts := setupTestServer(t, withOptions(func(o *Options) {
		o.SuggestPerMinute = 1
		o.SuggestBurst = 1
	}))

	codes := map[int]int{}
	for i := range 20 {
		resp := ts.api.Get("/api/v1/suggestions?category=movies",
			fmt.Sprintf("X-Forwarded-For: 203.0.113.%d", i),
			fmt.Sprintf("X-Real-IP: 198.51.100.%d", i),
		)
		codes[resp.Code]++
	}
	assert.Equal(t, 1, codes[http.StatusOK], "all requests share the peer address")
	assert.Equal(t, 19, codes[http.StatusTooManyRequests])
}

func TestSuggestions_RateLimitTrustedProxy(t *testing.T) {
	ts := setupTestServer(t, withOptions(func(o *Options) {
		o.SuggestPerMinute = 1
		o.SuggestBurst = 1
		o.TrustProxyHeaders = true
	}))

	assert.Equal(t, http.StatusOK, ts.api.Get("/api/v1/suggestions?category=movies", "X-Forwarded-For: 203.0.113.1").Code)
	assert.Equal(t, http.StatusOK, ts.api.Get("/api/v1/suggestions?category=movies", "X-Forwarded-For: 203.0.113.2").Code)
	assert.Equal(t, http.StatusTooManyRequests, ts.api.Get("/api/v1/suggestions?category=movies", "X-Forwarded-For: 203.0.113.1").Code)
}

type stubLocator struct {
	loc *domain.DetectedLocation
	err error
}

func (s stubLocator) Locate(context.Context) (*domain.DetectedLocation, error) {
	return s.loc, s.err
}

func withLocator(loc service.Locator) testOption {
	return func(s *Services, _ *Options) {
		s.Location = service.NewLocationService(s.Store, s.Persister, loc, logger.Discard(), service.LocationOptions{Enabled: true})
	}
}

func TestLocation(t *testing.T) {
	ts := setupTestServer(t, withLocator(stubLocator{loc: &domain.DetectedLocation{
		City:        "Lisbon",
		CountryCode: "PT",
		DetectedAt:  time.Now(),
	}}))

	resp := ts.api.Get("/api/v1/location")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, CacheNoStore, resp.Header().Get("Cache-Control"))

	loc := decodeEnvelope[LocationResponse](t, resp).Data.Location
	require.NotNil(t, loc)
	assert.Equal(t, "Lisbon", loc.City)

	ts.flush(t)
	stored, err := ts.store.GetDetectedLocation(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "PT", stored.CountryCode)
}

func TestLocation_FailureIsNotAnError(t *testing.T) {
	ts := setupTestServer(t, withLocator(stubLocator{err: errors.New("offline")}))

	resp := ts.api.Get("/api/v1/location")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Nil(t, decodeEnvelope[LocationResponse](t, resp).Data.Location)
}

func TestLocation_NotConfigured(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/location")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Nil(t, decodeEnvelope[LocationResponse](t, resp).Data.Location)
}
