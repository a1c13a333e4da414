// Package sportsdb searches TheSportsDB for sports, teams and athletes.
package sportsdb

import (
	"context"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/toptenapp/topten-server/internal/domain"
	"github.com/toptenapp/topten-server/internal/metadata"
)

// Backend is the rate-limit and cache key for this client.
const Backend = "sportsdb"

const (
	// "3" is the public test key TheSportsDB documents for free use.
	defaultBaseURL = "https://www.thesportsdb.com/api/v1/json/3"
	maxResults     = 10
)

// Client is a TheSportsDB v1 client.
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

// SearchTeams returns teams whose name matches query.
func (c *Client) SearchTeams(ctx context.Context, query string) ([]domain.Suggestion, error) {
	res, err := c.get(ctx, "/searchteams.php", url.Values{"t": {query}})
	if err != nil {
		return nil, err
	}
	return collect(res.Get("teams"), func(r gjson.Result) domain.Suggestion {
		return domain.Suggestion{
			Title:    r.Get("strTeam").String(),
			ImageURL: firstNonEmpty(r.Get("strBadge").String(), r.Get("strTeamBadge").String()),
			Year:     r.Get("intFormedYear").String(),
		}
	}), nil
}

// SearchPlayers returns athletes whose name matches query.
func (c *Client) SearchPlayers(ctx context.Context, query string) ([]domain.Suggestion, error) {
	res, err := c.get(ctx, "/searchplayers.php", url.Values{"p": {query}})
	if err != nil {
		return nil, err
	}
	return collect(res.Get("player"), func(r gjson.Result) domain.Suggestion {
		return domain.Suggestion{
			Title:    r.Get("strPlayer").String(),
			ImageURL: firstNonEmpty(r.Get("strCutout").String(), r.Get("strThumb").String()),
			Year:     metadata.Year(r.Get("dateBorn").String()),
		}
	}), nil
}

// SearchSports filters the full sport list by case-insensitive substring.
func (c *Client) SearchSports(ctx context.Context, query string) ([]domain.Suggestion, error) {
	res, err := c.get(ctx, "/all_sports.php", nil)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	var matching []gjson.Result
	for _, r := range res.Get("sports").Array() {
		if strings.Contains(strings.ToLower(r.Get("strSport").String()), q) {
			matching = append(matching, r)
		}
	}

	out := make([]domain.Suggestion, 0, min(len(matching), maxResults))
	for _, r := range matching[:min(len(matching), maxResults)] {
		out = append(out, domain.Suggestion{
			Title:    r.Get("strSport").String(),
			ImageURL: r.Get("strSportThumb").String(),
		})
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (gjson.Result, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	res, err := c.http.GetJSON(ctx, Backend, u, nil)
	if err != nil {
		return gjson.Result{}, metadata.WrapError(Backend, strings.TrimSuffix(strings.TrimPrefix(path, "/"), ".php"), err)
	}
	return res, nil
}

// collect maps an array (null when nothing matched) into suggestions, dropping untitled rows.
func collect(arr gjson.Result, fn func(gjson.Result) domain.Suggestion) []domain.Suggestion {
	var out []domain.Suggestion
	for _, r := range arr.Array() {
		if len(out) == maxResults {
			break
		}
		s := fn(r)
		if s.Title == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
