package domain

import "time"

// MaxItems is the number of ranked positions in a list.
const MaxItems = 10

// MaxDescriptionLength bounds TopTenList.Description, counted in characters.
const MaxDescriptionLength = 120

// TopTenItem is one ranked entry of a list.
type TopTenItem struct {
	ID       string `json:"id"`
	Rank     int    `json:"rank"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url,omitempty"`
}

// TopTenList is a user-owned ranked list.
type TopTenList struct {
	ID              string       `json:"id"`
	Category        Category     `json:"category"`
	Title           string       `json:"title"`
	Description     string       `json:"description,omitempty"`
	Icon            string       `json:"icon"`
	CustomIcon      string       `json:"custom_icon,omitempty"`
	Items           []TopTenItem `json:"items"`
	ProfileImageURI string       `json:"profile_image_uri,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	IsCustom        bool         `json:"is_custom"`
}

// EffectiveIcon prefers the user-chosen icon over the category default.
func (l *TopTenList) EffectiveIcon() string {
	if l.CustomIcon != "" {
		return l.CustomIcon
	}
	return l.Icon
}

// Slots returns all ten positions in rank order. Unfilled positions are nil.
func (l *TopTenList) Slots() []*TopTenItem {
	slots := make([]*TopTenItem, MaxItems)
	for i := range l.Items {
		item := &l.Items[i]
		if item.Rank < 1 || item.Rank > MaxItems {
			continue
		}
		slots[item.Rank-1] = item
	}
	return slots
}

// Clone returns a deep copy, so callers can't mutate repository state.
func (l *TopTenList) Clone() TopTenList {
	out := *l
	out.Items = make([]TopTenItem, len(l.Items))
	copy(out.Items, l.Items)
	return out
}

// ListPatch is a shallow update of list metadata. Nil fields are left untouched.
type ListPatch struct {
	Title           *string
	Description     *string
	CustomIcon      *string
	Category        *Category
	ProfileImageURI *string
}

// Empty reports whether the patch changes nothing.
func (p ListPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.CustomIcon == nil &&
		p.Category == nil && p.ProfileImageURI == nil
}
