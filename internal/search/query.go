package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/toptenapp/topten-server/internal/domain"
)

// Result limits.
const (
	DefaultLimit = 20
	MaxLimit     = 50
)

// Params configures a catalog search.
type Params struct {
	Query string
	Kinds []Kind // empty = all
	Limit int
}

// Hit is a single search result.
type Hit struct {
	Kind       Kind              `json:"kind"`
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Category   domain.Category   `json:"category"`
	Score      float64           `json:"score"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Result is the response of a search.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Search runs a text query across all kinds, returning at most limit hits.
func (s *Index) Search(ctx context.Context, q string, limit int) ([]Hit, error) {
	res, err := s.SearchParams(ctx, Params{Query: q, Limit: limit})
	if err != nil {
		return nil, err
	}
	return res.Hits, nil
}

// SearchParams executes a search. A blank query yields no hits.
func (s *Index) SearchParams(ctx context.Context, params Params) (*Result, error) {
	text := strings.TrimSpace(params.Query)
	if text == "" {
		return &Result{Query: params.Query, Hits: []Hit{}}, nil
	}

	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	req := bleve.NewSearchRequestOptions(buildQuery(text, params.Kinds), limit, 0, false)
	req.SortBy([]string{"-_score", "_id"})
	req.Fields = []string{"id", "kind", "title", "category"}
	req.Highlight = bleve.NewHighlight()
	req.Highlight.AddField("title")

	s.mu.RLock()
	res, err := s.index.SearchInContext(ctx, req)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	out := &Result{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(res.Hits)),
	}
	for _, h := range res.Hits {
		hit := Hit{Score: h.Score}
		if v, ok := h.Fields["id"].(string); ok {
			hit.ID = v
		}
		if v, ok := h.Fields["kind"].(string); ok {
			hit.Kind = Kind(v)
		}
		if v, ok := h.Fields["title"].(string); ok {
			hit.Title = v
		}
		if v, ok := h.Fields["category"].(string); ok {
			hit.Category = domain.Category(v)
		}
		if len(h.Fragments) > 0 {
			hit.Highlights = make(map[string]string)
			for field, fragments := range h.Fragments {
				if len(fragments) > 0 {
					hit.Highlights[field] = fragments[0]
				}
			}
		}
		out.Hits = append(out.Hits, hit)
	}
	return out, nil
}

// buildQuery matches titles first, then ranked items, then descriptions.
// A query that names a category also matches that category's lists.
func buildQuery(text string, kinds []Kind) query.Query {
	lower := strings.ToLower(text)

	titleMatch := bleve.NewMatchQuery(text)
	titleMatch.SetField("title")
	titleMatch.SetBoost(3.0)

	itemsMatch := bleve.NewMatchQuery(text)
	itemsMatch.SetField("items")
	itemsMatch.SetBoost(1.5)

	descMatch := bleve.NewMatchQuery(text)
	descMatch.SetField("description")

	curatorMatch := bleve.NewMatchQuery(text)
	curatorMatch.SetField("curator")
	curatorMatch.SetBoost(0.5)

	fuzzy := bleve.NewFuzzyQuery(lower)
	fuzzy.SetFuzziness(1)
	fuzzy.SetField("title")
	fuzzy.SetBoost(0.8)

	textQueries := []query.Query{titleMatch, itemsMatch, descMatch, curatorMatch, fuzzy}

	if len(lower) >= 2 {
		prefix := bleve.NewPrefixQuery(lower)
		prefix.SetField("title")
		prefix.SetBoost(0.5)
		textQueries = append(textQueries, prefix)
	}

	if c, err := domain.ParseCategory(text); err == nil {
		cq := bleve.NewTermQuery(string(c))
		cq.SetField("category")
		cq.SetBoost(2.0)
		textQueries = append(textQueries, cq)
	}

	q := query.Query(bleve.NewDisjunctionQuery(textQueries...))
	if len(kinds) == 0 {
		return q
	}

	kindQueries := make([]query.Query, len(kinds))
	for i, k := range kinds {
		kq := bleve.NewTermQuery(string(k))
		kq.SetField("kind")
		kindQueries[i] = kq
	}
	return bleve.NewConjunctionQuery(q, bleve.NewDisjunctionQuery(kindQueries...))
}
