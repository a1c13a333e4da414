// Package photos finds a representative stock photo for a phrase via the Pexels API.
package photos

import (
	"context"
	"net/http"
	"net/url"

	"github.com/toptenapp/topten-server/internal/metadata"
)

// Backend is the rate-limit key for this client.
const Backend = "pexels"

const defaultBaseURL = "https://api.pexels.com/v1"

// Client is a Pexels API client. It needs an API key.
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

// Find returns the URL of the best photo for query, or "" if nothing matched.
func (c *Client) Find(ctx context.Context, query string) (string, error) {
	if !c.Configured() {
		return "", metadata.WrapError(Backend, "search", metadata.ErrNotConfigured)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", "1")
	params.Set("orientation", "landscape")

	header := http.Header{"Authorization": {c.apiKey}}
	res, err := c.http.GetJSON(ctx, Backend, c.baseURL+"/search?"+params.Encode(), header)
	if err != nil {
		return "", metadata.WrapError(Backend, "search", err)
	}

	return res.Get("photos.0.src.large").String(), nil
}
