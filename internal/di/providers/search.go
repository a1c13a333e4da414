package providers

import (
	"github.com/samber/do/v2"

	"github.com/toptenapp/topten-server/internal/logger"
	"github.com/toptenapp/topten-server/internal/search"
	"github.com/toptenapp/topten-server/internal/seed"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the in-memory bleve index over the seed catalog.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)
	sd := do.MustInvoke[*seed.Seed](i)

	index, err := search.NewFromSeed(sd, log.Component("search"))
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{Index: index}, nil
}
