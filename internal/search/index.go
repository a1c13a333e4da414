package search

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/toptenapp/topten-server/internal/logger"
	"github.com/toptenapp/topten-server/internal/seed"
)

const batchSize = 500

// Index wraps an in-memory Bleve index of the catalog.
//
// All public methods are safe for concurrent use. Rebuild swaps the whole
// index under the write lock so readers never see a half-built catalog.
type Index struct {
	index  bleve.Index
	logger *slog.Logger
	mu     sync.RWMutex
}

// New creates an empty in-memory index. A nil logger discards output.
func New(log *slog.Logger) (*Index, error) {
	if log == nil {
		log = logger.Discard()
	}
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &Index{index: index, logger: log}, nil
}

// NewFromSeed creates an index populated with the seed's catalog.
func NewFromSeed(s *seed.Seed, log *slog.Logger) (*Index, error) {
	idx, err := New(log)
	if err != nil {
		return nil, err
	}
	docs := DocumentsFromSeed(s)
	if err := idx.IndexDocuments(docs); err != nil {
		_ = idx.Close()
		return nil, err
	}
	idx.logger.Info("built catalog search index", "documents", len(docs))
	return idx, nil
}

// Close releases the index.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexDocument adds or replaces a single document.
func (s *Index) IndexDocument(doc *Document) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.index.Index(doc.docID(), doc.ToMap()); err != nil {
		return fmt.Errorf("index document %s: %w", doc.docID(), err)
	}
	return nil
}

// IndexDocuments adds documents in batches.
func (s *Index) IndexDocuments(docs []*Document) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return indexBatched(s.index, docs)
}

func indexBatched(index bleve.Index, docs []*Document) error {
	if len(docs) == 0 {
		return nil
	}

	batch := index.NewBatch()
	for i, doc := range docs {
		if err := batch.Index(doc.docID(), doc.ToMap()); err != nil {
			return fmt.Errorf("add to batch: %w", err)
		}
		if (i+1)%batchSize == 0 {
			if err := index.Batch(batch); err != nil {
				return fmt.Errorf("execute batch: %w", err)
			}
			batch = index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := index.Batch(batch); err != nil {
			return fmt.Errorf("execute final batch: %w", err)
		}
	}
	return nil
}

// DeleteDocument removes a document by kind and id.
func (s *Index) DeleteDocument(kind Kind, id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := Document{Kind: kind, ID: id}
	if err := s.index.Delete(doc.docID()); err != nil {
		return fmt.Errorf("delete document %s: %w", doc.docID(), err)
	}
	return nil
}

// DocumentCount returns the number of indexed documents.
func (s *Index) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Rebuild replaces the index contents with the seed's catalog.
// The new index is built before the old one is dropped, so a failure
// leaves the previous catalog searchable.
func (s *Index) Rebuild(sd *seed.Seed) error {
	fresh, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	docs := DocumentsFromSeed(sd)
	if err := indexBatched(fresh, docs); err != nil {
		_ = fresh.Close()
		return err
	}

	s.mu.Lock()
	old := s.index
	s.index = fresh
	s.mu.Unlock()

	if err := old.Close(); err != nil {
		s.logger.Warn("failed to close previous search index", "error", err)
	}
	s.logger.Info("rebuilt catalog search index", "documents", len(docs))
	return nil
}
