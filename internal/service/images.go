package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/toptenapp/topten-server/internal/domain"
)

// Image cache scopes.
const (
	ImageScopeList     = "list"
	ImageScopeCategory = "category"
)

// ImageCache stores resolved images. *store.Store implements it.
type ImageCache interface {
	GetCachedImage(ctx context.Context, scope, id string, ttl time.Duration) (*domain.CachedImage, error)
	SetCachedImage(ctx context.Context, scope, id string, img domain.CachedImage) error
}

// PhotoFinder returns a photo URL for a free-text query. *photos.Client implements it.
type PhotoFinder interface {
	Configured() bool
	Find(ctx context.Context, query string) (string, error)
}

// PageImager returns the lead image of an encyclopedia article. *wikipedia.Client implements it.
type PageImager interface {
	PageImage(ctx context.Context, title string) (string, error)
}

// ImageOptions configures ImageService.
type ImageOptions struct {
	TTL         time.Duration // found images; 0 keeps them forever
	NegativeTTL time.Duration // failed lookups
	Timeout     time.Duration
}

// ImageService resolves cover images for lists.
type ImageService struct {
	cache  ImageCache
	photos PhotoFinder
	wiki   PageImager
	opts   ImageOptions
	logger *slog.Logger
	group  singleflight.Group
}

// NewImageService creates an image service. Either source may be nil.
func NewImageService(cache ImageCache, photos PhotoFinder, wiki PageImager, logger *slog.Logger, opts ImageOptions) *ImageService {
	if opts.NegativeTTL <= 0 {
		opts.NegativeTTL = 24 * time.Hour
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &ImageService{
		cache:  cache,
		photos: photos,
		wiki:   wiki,
		opts:   opts,
		logger: orDiscard(logger),
	}
}

// CoverFor picks the list's cover: the user's profile image, then a photo
// for the list title, then a photo for its category. Returns "" when nothing
// resolves.
func (s *ImageService) CoverFor(ctx context.Context, list domain.TopTenList) string {
	if list.ProfileImageURI != "" {
		return list.ProfileImageURI
	}
	if u := s.resolve(ctx, ImageScopeList, list.ID, list.Title); u != "" {
		return u
	}
	return s.CategoryImage(ctx, list.Category)
}

// CategoryImage returns a representative photo for the category.
func (s *ImageService) CategoryImage(ctx context.Context, c domain.Category) string {
	return s.resolve(ctx, ImageScopeCategory, string(c), c.Meta().Label)
}

// Invalidate forgets the cached cover of a list, e.g. after a rename.
func (s *ImageService) Invalidate(ctx context.Context, listID string) {
	if s.cache == nil {
		return
	}
	// A negative entry stamped at the epoch is always stale.
	err := s.cache.SetCachedImage(ctx, ImageScopeList, listID, domain.CachedImage{
		Source:    domain.ImageSourceNone,
		FetchedAt: time.Unix(0, 0),
	})
	if err != nil {
		s.logger.Debug("failed to invalidate cover", "list_id", listID, "error", err)
	}
}

func (s *ImageService) resolve(ctx context.Context, scope, key, query string) string {
	query = strings.TrimSpace(query)
	if key == "" || query == "" {
		return ""
	}

	if img := s.cached(ctx, scope, key); img != nil {
		return img.URL
	}

	v, _, _ := s.group.Do(scope+":"+key, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.Timeout)
		defer cancel()

		img := s.lookup(lookupCtx, query)
		if s.cache != nil {
			if err := s.cache.SetCachedImage(lookupCtx, scope, key, img); err != nil {
				s.logger.Warn("failed to cache image", "scope", scope, "id", key, "error", err)
			}
		}
		return img.URL, nil
	})
	u, _ := v.(string)
	return u
}

// cached returns a hit, honoring the shorter ttl for negative entries.
func (s *ImageService) cached(ctx context.Context, scope, key string) *domain.CachedImage {
	if s.cache == nil {
		return nil
	}
	img, err := s.cache.GetCachedImage(ctx, scope, key, s.opts.TTL)
	if err != nil {
		s.logger.Debug("image cache read failed", "scope", scope, "id", key, "error", err)
		return nil
	}
	if img == nil {
		return nil
	}
	if img.URL == "" && time.Since(img.FetchedAt) > s.opts.NegativeTTL {
		return nil
	}
	return img
}

func (s *ImageService) lookup(ctx context.Context, query string) domain.CachedImage {
	if s.photos != nil && s.photos.Configured() {
		u, err := s.photos.Find(ctx, query)
		if err != nil {
			s.logger.Warn("photo search failed", "query", query, "error", err)
		} else if u != "" {
			return domain.CachedImage{URL: u, Source: domain.ImageSourcePexels}
		}
	}
	if s.wiki != nil {
		u, err := s.wiki.PageImage(ctx, query)
		if err != nil {
			s.logger.Warn("page image lookup failed", "query", query, "error", err)
		} else if u != "" {
			return domain.CachedImage{URL: u, Source: domain.ImageSourceWikipedia}
		}
	}
	return domain.CachedImage{Source: domain.ImageSourceNone}
}
