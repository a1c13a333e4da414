// Package search provides full-text search over the bundled catalog
// (featured and community lists) using Bleve.
package search

import (
	"github.com/toptenapp/topten-server/internal/domain"
	"github.com/toptenapp/topten-server/internal/seed"
)

// Kind discriminates catalog documents.
type Kind string

// Document kinds.
const (
	KindFeatured  Kind = "featured"
	KindCommunity Kind = "community"
)

// Document is the unified structure indexed for every catalog list.
type Document struct {
	ID          string          `json:"id"`
	Kind        Kind            `json:"kind"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Category    domain.Category `json:"category"`
	Curator     string          `json:"curator,omitempty"`
	Items       []string        `json:"items,omitempty"`
}

// docID is unique across kinds even if a featured and a community list share an id.
func (d *Document) docID() string {
	return string(d.Kind) + "/" + d.ID
}

// ToMap converts the document to a map keyed by the mapping's field names.
func (d *Document) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"kind":       string(d.Kind),
		"title":      d.Title,
		"category":   string(d.Category),
		"item_count": len(d.Items),
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.Curator != "" {
		m["curator"] = d.Curator
	}
	if len(d.Items) > 0 {
		m["items"] = d.Items
	}
	return m
}

// FeaturedDocument builds the index document for a featured list.
func FeaturedDocument(l domain.FeaturedList) *Document {
	items := make([]string, 0, len(l.Items))
	for _, it := range l.Items {
		items = append(items, it.Title)
	}
	return &Document{
		ID:          l.ID,
		Kind:        KindFeatured,
		Title:       l.Title,
		Description: l.Description,
		Category:    l.Category,
		Curator:     l.Curator,
		Items:       items,
	}
}

// CommunityDocument builds the index document for a community list.
func CommunityDocument(l domain.CommunityList) *Document {
	items := make([]string, 0, len(l.Items))
	for _, it := range l.Items {
		items = append(items, it.Title)
	}
	return &Document{
		ID:          l.ID,
		Kind:        KindCommunity,
		Title:       l.Title,
		Description: l.Description,
		Category:    l.Category,
		Items:       items,
	}
}

// DocumentsFromSeed returns one document per featured and community list.
func DocumentsFromSeed(s *seed.Seed) []*Document {
	if s == nil {
		return nil
	}
	docs := make([]*Document, 0, len(s.Featured)+len(s.Community))
	for _, l := range s.Featured {
		docs = append(docs, FeaturedDocument(l))
	}
	for _, l := range s.Community {
		docs = append(docs, CommunityDocument(l))
	}
	return docs
}
