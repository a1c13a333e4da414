package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCategory is returned when a category label is not one of the supported values.
var ErrUnknownCategory = errors.New("unknown category")

// Category is the closed set of list categories.
type Category string

// Supported categories.
const (
	CategoryMovies      Category = "movies"
	CategoryTV          Category = "tv"
	CategoryBooks       Category = "books"
	CategoryMusic       Category = "music"
	CategoryAlbums      Category = "albums"
	CategoryArtists     Category = "artists"
	CategorySports      Category = "sports"
	CategoryAthletes    Category = "athletes"
	CategoryTeams       Category = "teams"
	CategoryFood        Category = "food"
	CategoryRecipes     Category = "recipes"
	CategoryDrinks      Category = "drinks"
	CategoryCocktails   Category = "cocktails"
	CategoryRestaurants Category = "restaurants"
	CategoryPlaces      Category = "places"
	CategoryTravel      Category = "travel"
	CategoryGames       Category = "games"
	CategoryVideoGames  Category = "video_games"
	CategoryPeople      Category = "people"
	CategoryCustom      Category = "custom"
)

// CategoryMeta is the display metadata for a category.
type CategoryMeta struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var categoryMeta = map[Category]CategoryMeta{
	CategoryMovies:      {Label: "Movies", Icon: "film", Color: "#E50914"},
	CategoryTV:          {Label: "TV Shows", Icon: "tv", Color: "#6C5CE7"},
	CategoryBooks:       {Label: "Books", Icon: "book", Color: "#8E6E53"},
	CategoryMusic:       {Label: "Music", Icon: "musical-notes", Color: "#1DB954"},
	CategoryAlbums:      {Label: "Albums", Icon: "disc", Color: "#00B894"},
	CategoryArtists:     {Label: "Artists", Icon: "mic", Color: "#E84393"},
	CategorySports:      {Label: "Sports", Icon: "trophy", Color: "#F39C12"},
	CategoryAthletes:    {Label: "Athletes", Icon: "medal", Color: "#E67E22"},
	CategoryTeams:       {Label: "Teams", Icon: "people", Color: "#D35400"},
	CategoryFood:        {Label: "Food", Icon: "restaurant", Color: "#FF6B6B"},
	CategoryRecipes:     {Label: "Recipes", Icon: "nutrition", Color: "#FF7F50"},
	CategoryDrinks:      {Label: "Drinks", Icon: "cafe", Color: "#A0522D"},
	CategoryCocktails:   {Label: "Cocktails", Icon: "wine", Color: "#C0392B"},
	CategoryRestaurants: {Label: "Restaurants", Icon: "storefront", Color: "#FD79A8"},
	CategoryPlaces:      {Label: "Places", Icon: "location", Color: "#0984E3"},
	CategoryTravel:      {Label: "Travel", Icon: "airplane", Color: "#00CEC9"},
	CategoryGames:       {Label: "Games", Icon: "dice", Color: "#A29BFE"},
	CategoryVideoGames:  {Label: "Video Games", Icon: "game-controller", Color: "#6AB04C"},
	CategoryPeople:      {Label: "People", Icon: "person", Color: "#FDCB6E"},
	CategoryCustom:      {Label: "Custom", Icon: "list", Color: "#636E72"},
}

// categoryOrder is the display order of categories.
var categoryOrder = []Category{
	CategoryMovies, CategoryTV, CategoryBooks, CategoryMusic, CategoryAlbums,
	CategoryArtists, CategorySports, CategoryAthletes, CategoryTeams, CategoryFood,
	CategoryRecipes, CategoryDrinks, CategoryCocktails, CategoryRestaurants, CategoryPlaces,
	CategoryTravel, CategoryGames, CategoryVideoGames, CategoryPeople, CategoryCustom,
}

// Categories returns all supported categories in display order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// ParseCategory normalizes s to a supported category.
// Matching is case-insensitive and accepts the display label ("Video Games") as well as the value.
func ParseCategory(s string) (Category, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, " ", "_")
	norm = strings.ReplaceAll(norm, "-", "_")

	switch norm {
	case "tv_shows", "shows":
		return CategoryTV, nil
	case "videogames":
		return CategoryVideoGames, nil
	}

	if _, ok := categoryMeta[Category(norm)]; ok {
		return Category(norm), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Valid reports whether c is a supported category.
func (c Category) Valid() bool {
	_, ok := categoryMeta[c]
	return ok
}

// Meta returns display metadata. Unsupported values get the custom category's metadata.
func (c Category) Meta() CategoryMeta {
	if meta, ok := categoryMeta[c]; ok {
		return meta
	}
	return categoryMeta[CategoryCustom]
}

// DefaultIcon returns the category's default icon.
func (c Category) DefaultIcon() string {
	return c.Meta().Icon
}

// String returns the category value.
func (c Category) String() string {
	return string(c)
}

// UnmarshalJSON decodes a category, mapping unknown persisted values to custom.
func (c *Category) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseCategory(raw)
	if err != nil {
		*c = CategoryCustom
		return nil
	}
	*c = parsed
	return nil
}

// UnmarshalYAML decodes a category from seed files. Unknown values are rejected.
func (c *Category) UnmarshalYAML(unmarshal func(any) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := ParseCategory(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
