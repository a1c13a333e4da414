package domain

import "strings"

// UserCommunityRanking is the user's own ranking of a community list.
// Slots[0] is rank 1; an empty string is an unfilled slot.
type UserCommunityRanking struct {
	Slots     [MaxItems]string `json:"slots"`
	Submitted bool             `json:"submitted"`
}

// FilledCount returns the number of non-blank slots.
func (r UserCommunityRanking) FilledCount() int {
	n := 0
	for _, s := range r.Slots {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	return n
}

// SlotPoints is the score contributed by a submitted title at slot index i.
func SlotPoints(i int) int {
	return MaxItems - i
}

// CommunityItem is a candidate in a community list.
type CommunityItem struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	SeedScore int    `json:"seed_score" yaml:"seed_score"`
	ImageURL  string `json:"image_url,omitempty" yaml:"image_url"`
}

// CommunityList is a seeded list whose order is aggregated from rankings.
type CommunityList struct {
	ID          string          `json:"id" yaml:"id"`
	Title       string          `json:"title" yaml:"title"`
	Category    Category        `json:"category" yaml:"category"`
	Description string          `json:"description,omitempty" yaml:"description"`
	Items       []CommunityItem `json:"items" yaml:"items"`
}

// RankingState describes how far the user got with a community list.
type RankingState string

const (
	RankingUnranked  RankingState = "unranked"
	RankingDrafting  RankingState = "drafting"
	RankingSubmitted RankingState = "submitted"
)

// ScoredItem is a community item with its live aggregate score.
type ScoredItem struct {
	CommunityItem
	Score int `json:"score"`
	Rank  int `json:"rank"`
}
