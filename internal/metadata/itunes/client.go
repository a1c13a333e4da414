package itunes

import (
	"github.com/toptenapp/topten-server/internal/metadata"
)

// Backend is the rate-limit and cache key for this client.
const Backend = "itunes"

const defaultBaseURL = "https://itunes.apple.com"

// Client provides access to the iTunes Search API for music suggestions.
type Client struct {
	http    *metadata.HTTP
	baseURL string
}

// NewClient creates a new iTunes client on the shared HTTP plumbing.
func NewClient(h *metadata.HTTP) *Client {
	return &Client{http: h, baseURL: defaultBaseURL}
}

// WithBaseURL points the client at another host, for tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}
