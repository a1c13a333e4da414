// Package tmdb searches The Movie Database for films and TV series.
package tmdb

import (
	"context"
	"net/url"

	"github.com/toptenapp/topten-server/internal/domain"
	"github.com/toptenapp/topten-server/internal/metadata"
)

// Backend is the rate-limit and cache key for this client.
const Backend = "tmdb"

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	imageBaseURL   = "https://image.tmdb.org/t/p/w342"
	maxResults     = 10
)

// Client is a TMDB v3 API client. It needs an API key.
type Client struct {
	http    *metadata.HTTP
	apiKey  string
	baseURL string
}

// New creates a client. An empty key leaves the client unconfigured.
func New(h *metadata.HTTP, apiKey string) *Client {
	return &Client{http: h, apiKey: apiKey, baseURL: defaultBaseURL}
}

// WithBaseURL points the client at another host, for tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// SearchMovies returns films matching query.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]domain.Suggestion, error) {
	return c.search(ctx, "/search/movie", "title", "release_date", query)
}

// SearchTV returns series matching query.
func (c *Client) SearchTV(ctx context.Context, query string) ([]domain.Suggestion, error) {
	return c.search(ctx, "/search/tv", "name", "first_air_date", query)
}

func (c *Client) search(ctx context.Context, path, titleField, dateField, query string) ([]domain.Suggestion, error) {
	if !c.Configured() {
		return nil, metadata.WrapError(Backend, "search", metadata.ErrNotConfigured)
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", query)
	params.Set("include_adult", "false")

	res, err := c.http.GetJSON(ctx, Backend, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, metadata.WrapError(Backend, "search", err)
	}

	var out []domain.Suggestion
	for _, r := range res.Get("results").Array() {
		if len(out) == maxResults {
			break
		}
		title := r.Get(titleField).String()
		if title == "" {
			continue
		}
		s := domain.Suggestion{
			Title: title,
			Year:  metadata.Year(r.Get(dateField).String()),
		}
		if poster := r.Get("poster_path").String(); poster != "" {
			s.ImageURL = imageBaseURL + poster
		}
		out = append(out, s)
	}
	return out, nil
}
