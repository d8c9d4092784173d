package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/skirmish/internal/services/combat/storage"
)

// PutGrowth upserts the growth counter of one summoner.
func (s *Store) PutGrowth(ctx context.Context, record storage.GrowthRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(record.MatchID) == "" || strings.TrimSpace(record.SummonerID) == "" {
		return fmt.Errorf("match id and summoner id are required")
	}
	if record.Growth < 0 {
		return fmt.Errorf("growth must be non-negative")
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO eidolon_growth (match_id, summoner_id, growth, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (match_id, summoner_id) DO UPDATE SET
    growth = excluded.growth,
    updated_at = excluded.updated_at`,
		record.MatchID, record.SummonerID, record.Growth, toMillis(record.UpdatedAt))
	if err != nil {
		return fmt.Errorf("put growth: %w", err)
	}
	return nil
}

// ListGrowth returns every growth record of a match ordered by summoner.
func (s *Store) ListGrowth(ctx context.Context, matchID string) ([]storage.GrowthRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT match_id, summoner_id, growth, updated_at
FROM eidolon_growth WHERE match_id = ?
ORDER BY summoner_id`, matchID)
	if err != nil {
		return nil, fmt.Errorf("list growth: %w", err)
	}
	defer rows.Close()

	var records []storage.GrowthRecord
	for rows.Next() {
		var (
			record    storage.GrowthRecord
			updatedAt int64
		)
		if err := rows.Scan(&record.MatchID, &record.SummonerID, &record.Growth, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan growth: %w", err)
		}
		record.UpdatedAt = fromMillis(updatedAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate growth: %w", err)
	}
	return records, nil
}

// DeleteMatchGrowth removes all growth of a match.
func (s *Store) DeleteMatchGrowth(ctx context.Context, matchID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM eidolon_growth WHERE match_id = ?`, matchID); err != nil {
		return fmt.Errorf("delete growth: %w", err)
	}
	return nil
}
