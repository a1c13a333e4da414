package domain

import "time"

// NotificationPrefs holds the user's notification toggles.
type NotificationPrefs struct {
	CommunityUpdates bool `json:"community_updates"`
	FeaturedDrops    bool `json:"featured_drops"`
	WeeklyDigest     bool `json:"weekly_digest"`
}

// DefaultNotificationPrefs is used until the user changes anything.
func DefaultNotificationPrefs() NotificationPrefs {
	return NotificationPrefs{
		CommunityUpdates: true,
		FeaturedDrops:    true,
		WeeklyDigest:     false,
	}
}

// DataContribution records the anonymous-data opt-in.
type DataContribution struct {
	OptedIn   bool      `json:"opted_in"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}
