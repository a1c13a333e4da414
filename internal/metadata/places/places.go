// Package places geocodes place names through OpenStreetMap Nominatim.
package places

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/toptenapp/topten-server/internal/domain"
	"github.com/toptenapp/topten-server/internal/metadata"
)

// Backend is the rate-limit and cache key for this client.
// Nominatim allows one request per second; the shared limiter enforces it.
const Backend = "nominatim"

const (
	defaultBaseURL = "https://nominatim.openstreetmap.org"
	maxResults     = 10
)

// Kind narrows a search.
type Kind string

const (
	KindAny        Kind = ""
	KindRestaurant Kind = "restaurant"
)

// Client is a Nominatim search client.
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

// Search returns places matching query.
func (c *Client) Search(ctx context.Context, kind Kind, query string) ([]domain.Suggestion, error) {
	q := strings.TrimSpace(query)
	if kind == KindRestaurant {
		q += " restaurant"
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("format", "jsonv2")
	params.Set("limit", strconv.Itoa(maxResults))
	params.Set("accept-language", "en")

	res, err := c.http.GetJSON(ctx, Backend, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, metadata.WrapError(Backend, "search", err)
	}

	var out []domain.Suggestion
	for _, p := range res.Array() {
		title := p.Get("name").String()
		if title == "" {
			// display_name is "Name, City, Region, Country"; keep the head.
			title, _, _ = strings.Cut(p.Get("display_name").String(), ",")
		}
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		out = append(out, domain.Suggestion{Title: title})
	}
	return out, nil
}
