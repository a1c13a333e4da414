package domain

// FeaturedItem is a ranked entry of an editorial list.
type FeaturedItem struct {
	Rank     int    `json:"rank" yaml:"rank"`
	Title    string `json:"title" yaml:"title"`
	ImageURL string `json:"image_url,omitempty" yaml:"image_url"`
}

// FeaturedList is a read-only curated list.
type FeaturedList struct {
	ID          string         `json:"id" yaml:"id"`
	Title       string         `json:"title" yaml:"title"`
	Category    Category       `json:"category" yaml:"category"`
	Curator     string         `json:"curator" yaml:"curator"`
	Description string         `json:"description,omitempty" yaml:"description"`
	Items       []FeaturedItem `json:"items" yaml:"items"`
}
