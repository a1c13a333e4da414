package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/toptenapp/topten-server/internal/domain"
)

// CommunityRecords is the decoded rankings document.
// Entries still in the old {"orderedIds": [...]} shape land in Legacy,
// keyed by list id, for the caller to migrate.
type CommunityRecords struct {
	Rankings map[string]domain.UserCommunityRanking
	Legacy   map[string][]string
}

// LegacyRanking is the pre-slots record shape.
type LegacyRanking struct {
	OrderedIDs []string `json:"orderedIds"`
}

// Document re-encodes the records as one rankings document. Legacy entries
// keep their old shape so they can still be migrated later.
func (r CommunityRecords) Document() map[string]any {
	doc := make(map[string]any, len(r.Rankings)+len(r.Legacy))
	for listID, ids := range r.Legacy {
		doc[listID] = LegacyRanking{OrderedIDs: ids}
	}
	for listID, ranking := range r.Rankings {
		doc[listID] = ranking
	}
	return doc
}

// GetCommunityRankings decodes the rankings document, separating legacy records.
func (s *Store) GetCommunityRankings(ctx context.Context) (CommunityRecords, error) {
	out := CommunityRecords{
		Rankings: make(map[string]domain.UserCommunityRanking),
		Legacy:   make(map[string][]string),
	}
	if err := ctx.Err(); err != nil {
		return out, err
	}

	var raw map[string]json.RawMessage
	if err := s.get([]byte(KeyCommunityRankings), &raw); err != nil {
		if errors.Is(err, ErrNotFound) {
			return out, nil
		}
		return out, fmt.Errorf("get community rankings: %w", err)
	}

	for listID, entry := range raw {
		ranking, legacy, err := decodeRanking(entry)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("skipping unreadable community ranking", "list_id", listID, "error", err)
			}
			continue
		}
		if legacy != nil {
			out.Legacy[listID] = legacy
			continue
		}
		out.Rankings[listID] = ranking
	}
	return out, nil
}

// decodeRanking accepts both record shapes. A non-nil legacy slice means the
// record is in the old shape.
func decodeRanking(data json.RawMessage) (domain.UserCommunityRanking, []string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return domain.UserCommunityRanking{}, nil, err
	}

	if _, ok := fields["slots"]; !ok {
		if _, ok := fields["orderedIds"]; ok {
			var old LegacyRanking
			if err := json.Unmarshal(data, &old); err != nil {
				return domain.UserCommunityRanking{}, nil, err
			}
			if old.OrderedIDs == nil {
				old.OrderedIDs = []string{}
			}
			return domain.UserCommunityRanking{}, old.OrderedIDs, nil
		}
	}

	var ranking domain.UserCommunityRanking
	if err := json.Unmarshal(data, &ranking); err != nil {
		return domain.UserCommunityRanking{}, nil, err
	}
	return ranking, nil, nil
}

// SaveCommunityRankings replaces the rankings document.
func (s *Store) SaveCommunityRankings(ctx context.Context, rankings map[string]domain.UserCommunityRanking) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rankings == nil {
		rankings = map[string]domain.UserCommunityRanking{}
	}
	if err := s.set([]byte(KeyCommunityRankings), rankings); err != nil {
		return fmt.Errorf("save community rankings: %w", err)
	}
	return nil
}
