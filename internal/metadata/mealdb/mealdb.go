// Package mealdb searches TheMealDB and its sibling TheCocktailDB. Both
// services share one API shape and differ only in host and field names.
package mealdb

import (
	"context"
	"net/url"

	"github.com/toptenapp/topten-server/internal/domain"
	"github.com/toptenapp/topten-server/internal/metadata"
)

// Catalog describes one of the two databases.
type Catalog struct {
	Backend    string
	BaseURL    string
	listField  string
	titleField string
	thumbField string
}

// Catalogs. "1" is the public test key both services document for free use.
var (
	Meals = Catalog{
		Backend:    "themealdb",
		BaseURL:    "https://www.themealdb.com/api/json/v1/1",
		listField:  "meals",
		titleField: "strMeal",
		thumbField: "strMealThumb",
	}
	Cocktails = Catalog{
		Backend:    "thecocktaildb",
		BaseURL:    "https://www.thecocktaildb.com/api/json/v1/1",
		listField:  "drinks",
		titleField: "strDrink",
		thumbField: "strDrinkThumb",
	}
)

const maxResults = 10

// Client searches one catalog.
type Client struct {
	http    *metadata.HTTP
	catalog Catalog
}

// New creates a client for the given catalog.
func New(h *metadata.HTTP, catalog Catalog) *Client {
	return &Client{http: h, catalog: catalog}
}

// WithBaseURL points the client at another host, for tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.catalog.BaseURL = u
	return c
}

// Backend returns the catalog's backend name.
func (c *Client) Backend() string {
	return c.catalog.Backend
}

// Search returns dishes or drinks whose name matches query.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Suggestion, error) {
	u := c.catalog.BaseURL + "/search.php?" + url.Values{"s": {query}}.Encode()

	res, err := c.http.GetJSON(ctx, c.catalog.Backend, u, nil)
	if err != nil {
		return nil, metadata.WrapError(c.catalog.Backend, "search", err)
	}

	var out []domain.Suggestion
	for _, r := range res.Get(c.catalog.listField).Array() {
		if len(out) == maxResults {
			break
		}
		title := r.Get(c.catalog.titleField).String()
		if title == "" {
			continue
		}
		out = append(out, domain.Suggestion{
			Title:    title,
			ImageURL: r.Get(c.catalog.thumbField).String(),
		})
	}
	return out, nil
}
