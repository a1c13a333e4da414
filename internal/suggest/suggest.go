// Package suggest produces content suggestions for filling list slots.
// Each category routes to a public search API; curated static lists cover
// empty queries, unrouted categories and backend failures.
package suggest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/toptenapp/topten-server/internal/domain"
	"github.com/toptenapp/topten-server/internal/metrics"
	"github.com/toptenapp/topten-server/internal/store"
)

// MaxResults caps every suggestion list.
const MaxResults = 10

const (
	defaultCacheTTL = 24 * time.Hour
	defaultTimeout  = 10 * time.Second
)

// Query is one suggestion request.
type Query struct {
	Category  domain.Category
	Text      string
	ListTitle string // title of the list being edited, used for custom-category hints
}

// Cache stores backend results. *store.Store implements it.
type Cache interface {
	GetCachedSuggestions(ctx context.Context, backend, query string, ttl time.Duration) (*store.CachedSuggestions, error)
	SetCachedSuggestions(ctx context.Context, backend, query string, results []domain.Suggestion) error
}

// StaticSource provides the curated titles per category. *seed.Seed implements it.
type StaticSource interface {
	StaticSuggestions(c domain.Category) []string
}

// Options tunes the aggregator. Zero values use the defaults.
type Options struct {
	CacheTTL time.Duration
	Timeout  time.Duration
}

// Aggregator answers suggestion queries. It never returns an error:
// anything that goes wrong degrades to the static list.
type Aggregator struct {
	routes  Routes
	cache   Cache
	logger  *slog.Logger
	metrics *metrics.Metrics
	opts    Options
	group   singleflight.Group

	mu     sync.RWMutex
	static StaticSource
}

// New creates an aggregator. cache may be nil to disable caching.
func New(routes Routes, cache Cache, static StaticSource, logger *slog.Logger, m *metrics.Metrics, opts Options) *Aggregator {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Aggregator{
		routes:  routes,
		cache:   cache,
		static:  static,
		logger:  logger,
		metrics: m,
		opts:    opts,
	}
}

// SetStatic swaps the static lists, e.g. after a seed reload.
func (a *Aggregator) SetStatic(src StaticSource) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.static = src
}

// Suggest returns up to MaxResults suggestions for q.
func (a *Aggregator) Suggest(ctx context.Context, q Query) []domain.Suggestion {
	cat := EffectiveCategory(q)
	text := strings.TrimSpace(q.Text)

	if text == "" {
		return a.staticList(cat, "")
	}

	backend, ok := a.routes[cat]
	if !ok {
		a.metrics.SuggestLookup("static", "static")
		return a.staticList(cat, text)
	}

	results, err := a.lookup(ctx, backend, text)
	if err != nil {
		a.logger.Warn("suggestion backend failed, using static list",
			"backend", backend.Name(),
			"category", cat,
			"error", err,
		)
		return a.staticList(cat, text)
	}
	if len(results) == 0 {
		a.metrics.SuggestLookup(backend.Name(), "empty")
		return a.staticList(cat, text)
	}
	return Dedupe(results)
}

// lookup consults the cache, then the backend. Concurrent identical lookups share one call.
func (a *Aggregator) lookup(ctx context.Context, b Backend, text string) ([]domain.Suggestion, error) {
	key := domain.FoldTitle(text)

	if a.cache != nil {
		cached, err := a.cache.GetCachedSuggestions(ctx, b.Name(), key, a.opts.CacheTTL)
		if err != nil {
			a.logger.Debug("suggestion cache read failed", "backend", b.Name(), "error", err)
		}
		if cached != nil {
			a.metrics.SuggestLookup(b.Name(), "hit")
			return cached.Results, nil
		}
	}

	v, err, _ := a.group.Do(b.Name()+"\x00"+key, func() (any, error) {
		// Detached from the first caller so its cancellation doesn't fail the others.
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.opts.Timeout)
		defer cancel()

		start := time.Now()
		results, err := b.Search(fctx, text)
		a.metrics.SuggestBackendDuration(b.Name(), time.Since(start))
		if err != nil {
			a.metrics.SuggestLookup(b.Name(), "error")
			return nil, err
		}
		a.metrics.SuggestLookup(b.Name(), "miss")

		if a.cache != nil {
			if err := a.cache.SetCachedSuggestions(fctx, b.Name(), key, results); err != nil {
				a.logger.Warn("failed to cache suggestions", "backend", b.Name(), "error", err)
			}
		}
		return results, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return v.([]domain.Suggestion), nil
}

// staticList returns the curated titles for cat containing text (all when text is empty).
func (a *Aggregator) staticList(cat domain.Category, text string) []domain.Suggestion {
	a.mu.RLock()
	src := a.static
	a.mu.RUnlock()
	if src == nil {
		return []domain.Suggestion{}
	}
	return FilterStatic(src.StaticSuggestions(cat), text)
}

// FilterStatic keeps titles containing text, case-insensitively, up to MaxResults.
func FilterStatic(titles []string, text string) []domain.Suggestion {
	needle := domain.FoldTitle(text)
	out := make([]domain.Suggestion, 0, min(len(titles), MaxResults))
	for _, t := range titles {
		if len(out) == MaxResults {
			break
		}
		if needle == "" || strings.Contains(domain.FoldTitle(t), needle) {
			out = append(out, domain.Suggestion{Title: t})
		}
	}
	return out
}

// Dedupe drops results whose folded title was already seen and caps at MaxResults.
func Dedupe(in []domain.Suggestion) []domain.Suggestion {
	seen := make(map[string]bool, len(in))
	out := make([]domain.Suggestion, 0, min(len(in), MaxResults))
	for _, s := range in {
		if len(out) == MaxResults {
			break
		}
		k := domain.FoldTitle(s.Title)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}
