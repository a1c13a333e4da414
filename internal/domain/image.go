package domain

import "time"

// Image sources recorded on CachedImage.
const (
	ImageSourcePexels    = "pexels"
	ImageSourceWikipedia = "wikipedia"
	ImageSourceNone      = "none"
)

// CachedImage is a resolved cover image. An empty URL records a failed lookup.
type CachedImage struct {
	URL       string    `json:"url"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
}
