package match

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/skirmish/internal/platform/errors"
	"github.com/louisbranch/skirmish/internal/services/combat/storage"
	"github.com/louisbranch/skirmish/internal/services/combat/storage/filter"
)

// DefaultEventPageSize is used when a request does not name a page size.
const DefaultEventPageSize = 50

// ListEventsRequest selects journaled notifications of a match.
type ListEventsRequest struct {
	MatchID string
	// PlayerID limits the page to notifications the player received.
	PlayerID string
	// Filter is an AIP-160 expression over category, severity, actor_id,
	// target_id, seq, and occurred_at.
	Filter   string
	PageSize int
	AfterSeq int64
}

// ListEvents pages through a match journal. Closed matches stay listable.
func (mgr *Manager) ListEvents(ctx context.Context, req ListEventsRequest) (storage.ListEventsPageResult, error) {
	if mgr.store == nil {
		return storage.ListEventsPageResult{}, fmt.Errorf("event journal is not configured")
	}
	matchID := strings.TrimSpace(req.MatchID)
	if _, err := mgr.store.GetMatch(ctx, matchID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.ListEventsPageResult{}, apperrors.WithMetadata(apperrors.CodeMatchNotFound,
				fmt.Sprintf("match %q not found", matchID), map[string]string{"MatchID": matchID})
		}
		return storage.ListEventsPageResult{}, fmt.Errorf("load match: %w", err)
	}

	cond, err := filter.ParseEventFilter(req.Filter)
	if err != nil {
		return storage.ListEventsPageResult{}, apperrors.Wrap(apperrors.CodeEventFilterInvalid,
			fmt.Sprintf("invalid event filter: %v", err), err)
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = DefaultEventPageSize
	}
	return mgr.store.ListEventsPage(ctx, storage.ListEventsPageRequest{
		MatchID:      matchID,
		PageSize:     pageSize,
		AfterSeq:     req.AfterSeq,
		RecipientID:  strings.TrimSpace(req.PlayerID),
		FilterClause: cond.Clause,
		FilterParams: cond.Params,
	})
}
