package store

import "strconv"

// Document keys.
const (
	KeyLists              = "topten:lists"
	KeyCommunityRankings  = "topten:community_rankings"
	KeyNotificationPrefs  = "prefs:notifications"
	KeyDataContribution   = "prefs:data_contribution"
	KeyDetectedLocation   = "location:detected"
	KeyFeaturedViewed     = "featured:viewed"
	imageKeyPrefix        = "image:"
	suggestCacheKeyPrefix = "suggest:cache:"
)

// ImageCacheVersion is embedded in image keys. Bumping it orphans every cached image.
const ImageCacheVersion = 2

// ImageKey builds the cache key for an image in scope ("list" or "category").
func ImageKey(scope, id string) string {
	return imageKeyPrefix + "v" + strconv.Itoa(ImageCacheVersion) + ":" + scope + ":" + id
}
