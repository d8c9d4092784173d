package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/louisbranch/skirmish/internal/services/combat/storage"
)

// AppendEvents journals events in one transaction and returns them with
// their assigned sequence numbers.
func (s *Store) AppendEvents(ctx context.Context, events []storage.EventRecord) ([]storage.EventRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stored := make([]storage.EventRecord, 0, len(events))
	for _, evt := range events {
		if strings.TrimSpace(evt.MatchID) == "" {
			return nil, fmt.Errorf("match id is required")
		}
		recipients := evt.Recipients
		if recipients == nil {
			recipients = []string{}
		}
		payload, err := json.Marshal(recipients)
		if err != nil {
			return nil, fmt.Errorf("encode recipients: %w", err)
		}
		res, err := tx.ExecContext(ctx, `
INSERT INTO combat_events (match_id, category, severity, actor_id, target_id, message, recipients, occurred_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			evt.MatchID, evt.Category, evt.Severity, evt.ActorID, evt.TargetID, evt.Message,
			string(payload), toMillis(evt.OccurredAt))
		if err != nil {
			return nil, fmt.Errorf("append event: %w", err)
		}
		seq, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("event seq: %w", err)
		}
		evt.Seq = seq
		evt.OccurredAt = fromMillis(toMillis(evt.OccurredAt))
		stored = append(stored, evt)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return stored, nil
}

type listEventsPagePlan struct {
	whereClause string
	params      []any
	limitClause string
}

func buildListEventsPagePlan(req storage.ListEventsPageRequest) listEventsPagePlan {
	whereClause := "match_id = ?"
	params := []any{req.MatchID}
	if req.AfterSeq > 0 {
		whereClause += " AND seq > ?"
		params = append(params, req.AfterSeq)
	}
	if req.RecipientID != "" {
		whereClause += " AND EXISTS (SELECT 1 FROM json_each(recipients) WHERE json_each.value = ?)"
		params = append(params, req.RecipientID)
	}
	if req.FilterClause != "" {
		whereClause += " AND " + req.FilterClause
		params = append(params, req.FilterParams...)
	}
	return listEventsPagePlan{
		whereClause: whereClause,
		params:      params,
		limitClause: fmt.Sprintf("LIMIT %d", req.PageSize+1),
	}
}

// ListEventsPage returns up to PageSize events after AfterSeq.
func (s *Store) ListEventsPage(ctx context.Context, req storage.ListEventsPageRequest) (storage.ListEventsPageResult, error) {
	if err := s.ready(ctx); err != nil {
		return storage.ListEventsPageResult{}, err
	}
	if strings.TrimSpace(req.MatchID) == "" {
		return storage.ListEventsPageResult{}, fmt.Errorf("match id is required")
	}
	if req.PageSize <= 0 {
		return storage.ListEventsPageResult{}, fmt.Errorf("page size must be positive")
	}

	plan := buildListEventsPagePlan(req)
	query := fmt.Sprintf(`
SELECT seq, match_id, category, severity, actor_id, target_id, message, recipients, occurred_at
FROM combat_events
WHERE %s
ORDER BY seq ASC
%s`, plan.whereClause, plan.limitClause)

	rows, err := s.sqlDB.QueryContext(ctx, query, plan.params...)
	if err != nil {
		return storage.ListEventsPageResult{}, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []storage.EventRecord
	for rows.Next() {
		var (
			evt        storage.EventRecord
			recipients string
			occurredAt int64
		)
		if err := rows.Scan(&evt.Seq, &evt.MatchID, &evt.Category, &evt.Severity, &evt.ActorID,
			&evt.TargetID, &evt.Message, &recipients, &occurredAt); err != nil {
			return storage.ListEventsPageResult{}, fmt.Errorf("scan event: %w", err)
		}
		if err := json.Unmarshal([]byte(recipients), &evt.Recipients); err != nil {
			return storage.ListEventsPageResult{}, fmt.Errorf("decode recipients: %w", err)
		}
		evt.OccurredAt = fromMillis(occurredAt)
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return storage.ListEventsPageResult{}, fmt.Errorf("iterate events: %w", err)
	}

	result := storage.ListEventsPageResult{}
	if len(events) > req.PageSize {
		result.HasMore = true
		events = events[:req.PageSize]
	}
	result.Events = events
	if result.HasMore {
		result.NextAfterSeq = events[len(events)-1].Seq
	}
	return result, nil
}
