// Package wikipedia uses the MediaWiki API for title search and page images.
package wikipedia

import (
	"context"
	"net/url"
	"strconv"

	"github.com/toptenapp/topten-server/internal/domain"
	"github.com/toptenapp/topten-server/internal/metadata"
)

// Backend is the rate-limit and cache key for this client.
const Backend = "wikipedia"

const (
	defaultBaseURL = "https://en.wikipedia.org/w/api.php"
	maxResults     = 10
	thumbSize      = 600
)

// Client is a MediaWiki API client for English Wikipedia.
type Client struct {
	http    *metadata.HTTP
	baseURL string
}

// New creates a client.
func New(h *metadata.HTTP) *Client {
	return &Client{http: h, baseURL: defaultBaseURL}
}

// WithBaseURL points the client at another host, for tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// Search returns article titles matching query via opensearch.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Suggestion, error) {
	params := url.Values{}
	params.Set("action", "opensearch")
	params.Set("search", query)
	params.Set("limit", strconv.Itoa(maxResults))
	params.Set("namespace", "0")
	params.Set("format", "json")

	res, err := c.http.GetJSON(ctx, Backend, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, metadata.WrapError(Backend, "opensearch", err)
	}

	// Response shape: [query, [titles...], [descriptions...], [urls...]]
	var out []domain.Suggestion
	for _, title := range res.Get("1").Array() {
		if t := title.String(); t != "" {
			out = append(out, domain.Suggestion{Title: t})
		}
	}
	return out, nil
}

// PageImage returns the lead image of the best-matching article, or "" if it has none.
func (c *Client) PageImage(ctx context.Context, title string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "pageimages")
	params.Set("titles", title)
	params.Set("pithumbsize", strconv.Itoa(thumbSize))
	params.Set("redirects", "1")
	params.Set("format", "json")
	params.Set("formatversion", "2")

	res, err := c.http.GetJSON(ctx, Backend, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", metadata.WrapError(Backend, "pageimages", err)
	}

	return res.Get("query.pages.0.thumbnail.source").String(), nil
}
