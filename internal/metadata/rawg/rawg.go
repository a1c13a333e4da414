// Package rawg searches the RAWG video game database.
package rawg

import (
	"context"
	"net/url"
	"strconv"

	"github.com/toptenapp/topten-server/internal/domain"
	"github.com/toptenapp/topten-server/internal/metadata"
)

// Backend is the rate-limit and cache key for this client.
const Backend = "rawg"

const (
	defaultBaseURL = "https://api.rawg.io/api"
	maxResults     = 10
)

// Client is a RAWG API client. It needs an API key.
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

// Search returns games matching query.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Suggestion, error) {
	if !c.Configured() {
		return nil, metadata.WrapError(Backend, "search", metadata.ErrNotConfigured)
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("search", query)
	params.Set("page_size", strconv.Itoa(maxResults))

	res, err := c.http.GetJSON(ctx, Backend, c.baseURL+"/games?"+params.Encode(), nil)
	if err != nil {
		return nil, metadata.WrapError(Backend, "search", err)
	}

	var out []domain.Suggestion
	for _, g := range res.Get("results").Array() {
		name := g.Get("name").String()
		if name == "" {
			continue
		}
		out = append(out, domain.Suggestion{
			Title:    name,
			ImageURL: g.Get("background_image").String(),
			Year:     metadata.Year(g.Get("released").String()),
		})
	}
	return out, nil
}
