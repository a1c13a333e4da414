// Package openlibrary searches the Open Library catalog for books.
package openlibrary

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/toptenapp/topten-server/internal/domain"
	"github.com/toptenapp/topten-server/internal/metadata"
)

// Backend is the rate-limit and cache key for this client.
const Backend = "openlibrary"

const (
	defaultBaseURL = "https://openlibrary.org"
	coverURLFormat = "https://covers.openlibrary.org/b/id/%d-M.jpg"
	maxResults     = 10
)

// Client is an Open Library search client. No key is required.
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

// Search returns books matching query.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Suggestion, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(maxResults))
	params.Set("fields", "title,first_publish_year,cover_i")

	res, err := c.http.GetJSON(ctx, Backend, c.baseURL+"/search.json?"+params.Encode(), nil)
	if err != nil {
		return nil, metadata.WrapError(Backend, "search", err)
	}

	var out []domain.Suggestion
	for _, doc := range res.Get("docs").Array() {
		title := doc.Get("title").String()
		if title == "" {
			continue
		}
		s := domain.Suggestion{Title: title}
		if y := doc.Get("first_publish_year").Int(); y > 0 {
			s.Year = strconv.FormatInt(y, 10)
		}
		if id := doc.Get("cover_i").Int(); id > 0 {
			s.ImageURL = fmt.Sprintf(coverURLFormat, id)
		}
		out = append(out, s)
	}
	return out, nil
}
