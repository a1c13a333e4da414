package itunes

import (
	"context"
	"net/url"
	"strconv"

	"github.com/toptenapp/topten-server/internal/domain"
	"github.com/toptenapp/topten-server/internal/metadata"
)

const defaultLimit = 10

// Search returns music items of the given entity matching query.
func (c *Client) Search(ctx context.Context, entity Entity, query string) ([]domain.Suggestion, error) {
	params := url.Values{}
	params.Set("term", query)
	params.Set("media", "music")
	params.Set("entity", string(entity))
	params.Set("limit", strconv.Itoa(defaultLimit))

	res, err := c.http.GetJSON(ctx, Backend, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, metadata.WrapError(Backend, "search", err)
	}

	field := entity.titleField()
	results := make([]domain.Suggestion, 0, res.Get("resultCount").Int())
	for _, r := range res.Get("results").Array() {
		title := r.Get(field).String()
		if title == "" {
			continue
		}

		artwork := r.Get("artworkUrl100").String()
		if artwork == "" {
			artwork = r.Get("artworkUrl60").String()
		}

		results = append(results, domain.Suggestion{
			Title:    title,
			ImageURL: ArtworkURL(artwork),
			Year:     metadata.Year(r.Get("releaseDate").String()),
		})
	}
	return results, nil
}
