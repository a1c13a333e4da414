package domain

import "time"

// DetectedLocation is an approximate location derived from the public IP.
type DetectedLocation struct {
	City        string    `json:"city"`
	Region      string    `json:"region"`
	Country     string    `json:"country"`
	CountryCode string    `json:"country_code"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	DetectedAt  time.Time `json:"detected_at"`
}

// Fresh reports whether the location was detected within maxAge of now.
func (l *DetectedLocation) Fresh(now time.Time, maxAge time.Duration) bool {
	if l == nil || l.DetectedAt.IsZero() {
		return false
	}
	return now.Sub(l.DetectedAt) < maxAge
}
