// Package seed loads the bundled catalog: starter lists, community lists,
// featured lists and the static suggestion lists per category.
package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/toptenapp/topten-server/internal/domain"
)

//go:embed data/seed.yaml
var bundled []byte

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid seed")

// StarterList is a list created for every new user. Items are titles in rank order.
type StarterList struct {
	ID          string          `yaml:"id"`
	Category    domain.Category `yaml:"category"`
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	Items       []string        `yaml:"items"`
}

// ToList materializes the starter list with deterministic item ids.
func (s StarterList) ToList(now time.Time) domain.TopTenList {
	items := make([]domain.TopTenItem, 0, len(s.Items))
	for i, title := range s.Items {
		items = append(items, domain.TopTenItem{
			ID:    s.ID + "-item-" + strconv.Itoa(i+1),
			Rank:  i + 1,
			Title: title,
		})
	}
	return domain.TopTenList{
		ID:          s.ID,
		Category:    s.Category,
		Title:       s.Title,
		Description: s.Description,
		Icon:        s.Category.DefaultIcon(),
		Items:       items,
		CreatedAt:   now,
	}
}

// Seed is the decoded catalog.
type Seed struct {
	Lists       []StarterList          `yaml:"lists"`
	Community   []domain.CommunityList `yaml:"community"`
	Featured    []domain.FeaturedList  `yaml:"featured"`
	Suggestions map[string][]string    `yaml:"suggestions"`

	static map[domain.Category][]string
}

// Load decodes the bundled catalog.
func Load() (*Seed, error) {
	return Parse(bundled)
}

// MustLoad is Load for callers that treat a broken bundle as a programming error.
func MustLoad() *Seed {
	s, err := Load()
	if err != nil {
		panic(err)
	}
	return s
}

// LoadFile decodes and validates an override file.
func LoadFile(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a catalog document. Unknown fields are rejected.
func Parse(data []byte) (*Seed, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Seed
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Seed) validate() error {
	listIDs := make(map[string]bool)
	for _, l := range s.Lists {
		if err := checkID("list", l.ID, listIDs); err != nil {
			return err
		}
		if !l.Category.Valid() {
			return fmt.Errorf("%w: list %q has no category", ErrInvalid, l.ID)
		}
		if len(l.Items) > domain.MaxItems {
			return fmt.Errorf("%w: list %q has %d items", ErrInvalid, l.ID, len(l.Items))
		}
	}

	communityIDs := make(map[string]bool)
	for _, c := range s.Community {
		if err := checkID("community list", c.ID, communityIDs); err != nil {
			return err
		}
		if !c.Category.Valid() {
			return fmt.Errorf("%w: community list %q has no category", ErrInvalid, c.ID)
		}
		if len(c.Items) > domain.MaxItems {
			return fmt.Errorf("%w: community list %q has %d items", ErrInvalid, c.ID, len(c.Items))
		}
		itemIDs := make(map[string]bool)
		for _, item := range c.Items {
			if err := checkID("community item", item.ID, itemIDs); err != nil {
				return fmt.Errorf("%s: %w", c.ID, err)
			}
			if item.Title == "" {
				return fmt.Errorf("%w: community item %q has no title", ErrInvalid, item.ID)
			}
		}
	}

	featuredIDs := make(map[string]bool)
	for _, f := range s.Featured {
		if err := checkID("featured list", f.ID, featuredIDs); err != nil {
			return err
		}
		if !f.Category.Valid() {
			return fmt.Errorf("%w: featured list %q has no category", ErrInvalid, f.ID)
		}
		if len(f.Items) > domain.MaxItems {
			return fmt.Errorf("%w: featured list %q has %d items", ErrInvalid, f.ID, len(f.Items))
		}
		ranks := make(map[int]bool)
		for _, item := range f.Items {
			if item.Rank < 1 || item.Rank > domain.MaxItems || ranks[item.Rank] {
				return fmt.Errorf("%w: featured list %q has bad rank %d", ErrInvalid, f.ID, item.Rank)
			}
			ranks[item.Rank] = true
		}
	}

	s.static = make(map[domain.Category][]string, len(s.Suggestions))
	for key, titles := range s.Suggestions {
		cat, err := domain.ParseCategory(key)
		if err != nil {
			return fmt.Errorf("%w: suggestions: %w", ErrInvalid, err)
		}
		s.static[cat] = titles
	}
	return nil
}

func checkID(kind, id string, seen map[string]bool) error {
	if id == "" {
		return fmt.Errorf("%w: %s without id", ErrInvalid, kind)
	}
	if seen[id] {
		return fmt.Errorf("%w: duplicate %s id %q", ErrInvalid, kind, id)
	}
	seen[id] = true
	return nil
}

// StaticSuggestions returns the curated titles for a category.
func (s *Seed) StaticSuggestions(c domain.Category) []string {
	return s.static[c]
}

// CommunityList looks up a community list by id.
func (s *Seed) CommunityList(id string) (domain.CommunityList, bool) {
	for _, c := range s.Community {
		if c.ID == id {
			return c, true
		}
	}
	return domain.CommunityList{}, false
}

// FeaturedList looks up a featured list by id.
func (s *Seed) FeaturedList(id string) (domain.FeaturedList, bool) {
	for _, f := range s.Featured {
		if f.ID == id {
			return f, true
		}
	}
	return domain.FeaturedList{}, false
}
