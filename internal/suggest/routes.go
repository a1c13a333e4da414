package suggest

import (
	"context"
	"strings"

	"github.com/toptenapp/topten-server/internal/domain"
	"github.com/toptenapp/topten-server/internal/metadata/itunes"
	"github.com/toptenapp/topten-server/internal/metadata/mealdb"
	"github.com/toptenapp/topten-server/internal/metadata/openlibrary"
	"github.com/toptenapp/topten-server/internal/metadata/places"
	"github.com/toptenapp/topten-server/internal/metadata/rawg"
	"github.com/toptenapp/topten-server/internal/metadata/sportsdb"
	"github.com/toptenapp/topten-server/internal/metadata/tmdb"
	"github.com/toptenapp/topten-server/internal/metadata/wikipedia"
)

// Backend is one content-search source. Name doubles as the cache namespace,
// so two backends must never share a name.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string) ([]domain.Suggestion, error)
}

type backendFunc struct {
	name string
	fn   func(context.Context, string) ([]domain.Suggestion, error)
}

func (b backendFunc) Name() string { return b.name }

func (b backendFunc) Search(ctx context.Context, q string) ([]domain.Suggestion, error) {
	return b.fn(ctx, q)
}

// NewBackend adapts a search function.
func NewBackend(name string, fn func(context.Context, string) ([]domain.Suggestion, error)) Backend {
	return backendFunc{name: name, fn: fn}
}

// Routes maps categories to backends. Categories without an entry only use static lists.
type Routes map[domain.Category]Backend

// Clients are the backend clients routes are built from. Nil clients are skipped.
type Clients struct {
	TMDB        *tmdb.Client
	OpenLibrary *openlibrary.Client
	ITunes      *itunes.Client
	SportsDB    *sportsdb.Client
	Meals       *mealdb.Client
	Cocktails   *mealdb.Client
	RAWG        *rawg.Client
	Places      *places.Client
	Wikipedia   *wikipedia.Client
}

// DefaultRoutes wires each category to its content source.
// Keyed backends without a key are left out, so those categories fall back to static lists.
func DefaultRoutes(c Clients) Routes {
	r := Routes{}
	set := func(b Backend, cats ...domain.Category) {
		for _, cat := range cats {
			r[cat] = b
		}
	}

	if c.TMDB != nil && c.TMDB.Configured() {
		set(NewBackend("tmdb-movie", c.TMDB.SearchMovies), domain.CategoryMovies)
		set(NewBackend("tmdb-tv", c.TMDB.SearchTV), domain.CategoryTV)
	}
	if c.OpenLibrary != nil {
		set(NewBackend(openlibrary.Backend, c.OpenLibrary.Search), domain.CategoryBooks)
	}
	if c.ITunes != nil {
		set(itunesBackend(c.ITunes, itunes.EntitySong), domain.CategoryMusic)
		set(itunesBackend(c.ITunes, itunes.EntityAlbum), domain.CategoryAlbums)
		set(itunesBackend(c.ITunes, itunes.EntityArtist), domain.CategoryArtists)
	}
	if c.SportsDB != nil {
		set(NewBackend("sportsdb-sports", c.SportsDB.SearchSports), domain.CategorySports)
		set(NewBackend("sportsdb-players", c.SportsDB.SearchPlayers), domain.CategoryAthletes)
		set(NewBackend("sportsdb-teams", c.SportsDB.SearchTeams), domain.CategoryTeams)
	}
	if c.Meals != nil {
		set(NewBackend(c.Meals.Backend(), c.Meals.Search), domain.CategoryFood, domain.CategoryRecipes)
	}
	if c.Cocktails != nil {
		set(NewBackend(c.Cocktails.Backend(), c.Cocktails.Search), domain.CategoryDrinks, domain.CategoryCocktails)
	}
	if c.RAWG != nil && c.RAWG.Configured() {
		set(NewBackend(rawg.Backend, c.RAWG.Search), domain.CategoryGames, domain.CategoryVideoGames)
	}
	if c.Places != nil {
		set(placesBackend(c.Places, places.KindAny), domain.CategoryPlaces, domain.CategoryTravel)
		set(placesBackend(c.Places, places.KindRestaurant), domain.CategoryRestaurants)
	}
	if c.Wikipedia != nil {
		set(NewBackend(wikipedia.Backend, c.Wikipedia.Search), domain.CategoryPeople, domain.CategoryCustom)
	}
	return r
}

func itunesBackend(c *itunes.Client, e itunes.Entity) Backend {
	return NewBackend(itunes.Backend+"-"+string(e), func(ctx context.Context, q string) ([]domain.Suggestion, error) {
		return c.Search(ctx, e, q)
	})
}

func placesBackend(c *places.Client, k places.Kind) Backend {
	name := places.Backend
	if k != places.KindAny {
		name += "-" + string(k)
	}
	return NewBackend(name, func(ctx context.Context, q string) ([]domain.Suggestion, error) {
		return c.Search(ctx, k, q)
	})
}

// titleHints maps words in a custom list's title to the category they imply.
// Earlier entries win, so more specific words come first.
var titleHints = []struct {
	words    []string
	category domain.Category
}{
	{[]string{"video game", "videogame"}, domain.CategoryVideoGames},
	{[]string{"album"}, domain.CategoryAlbums},
	{[]string{"artist", "band", "singer", "rapper", "musician"}, domain.CategoryArtists},
	{[]string{"song", "track", "music", "tune"}, domain.CategoryMusic},
	{[]string{"movie", "film", "flick"}, domain.CategoryMovies},
	{[]string{"tv", "show", "series", "sitcom"}, domain.CategoryTV},
	{[]string{"book", "novel", "read"}, domain.CategoryBooks},
	{[]string{"athlete", "player"}, domain.CategoryAthletes},
	{[]string{"team", "club"}, domain.CategoryTeams},
	{[]string{"sport"}, domain.CategorySports},
	{[]string{"cocktail"}, domain.CategoryCocktails},
	{[]string{"drink", "beverage", "beer", "wine"}, domain.CategoryDrinks},
	{[]string{"recipe"}, domain.CategoryRecipes},
	{[]string{"restaurant", "cafe", "diner"}, domain.CategoryRestaurants},
	{[]string{"food", "dish", "meal", "snack", "dessert"}, domain.CategoryFood},
	{[]string{"trip", "travel", "vacation", "destination"}, domain.CategoryTravel},
	{[]string{"place", "city", "cities", "landmark", "country", "countries"}, domain.CategoryPlaces},
	{[]string{"game"}, domain.CategoryGames},
	{[]string{"people", "person", "hero", "heroes", "leader"}, domain.CategoryPeople},
}

// HintedCategory guesses a category from a custom list's title.
// It returns false when no hint word appears.
func HintedCategory(title string) (domain.Category, bool) {
	t := strings.ToLower(title)
	words := strings.FieldsFunc(t, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})

	for _, h := range titleHints {
		for _, hint := range h.words {
			if strings.Contains(hint, " ") {
				if strings.Contains(t, hint) {
					return h.category, true
				}
				continue
			}
			for _, w := range words {
				if w == hint || w == hint+"s" {
					return h.category, true
				}
			}
		}
	}
	return "", false
}

// EffectiveCategory applies the title hint to custom lists.
func EffectiveCategory(q Query) domain.Category {
	if q.Category != domain.CategoryCustom {
		return q.Category
	}
	if c, ok := HintedCategory(q.ListTitle); ok {
		return c
	}
	return domain.CategoryCustom
}
