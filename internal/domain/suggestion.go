package domain

// Suggestion is one entry offered while filling a list slot.
type Suggestion struct {
	Title    string `json:"title"`
	ImageURL string `json:"image_url,omitempty"`
	Year     string `json:"year,omitempty"`
}
