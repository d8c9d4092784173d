// Package storage defines the persistence contracts of the combat service.
//
// The engine never touches storage; the match layer writes growth and
// notifications after a dispatch returns.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// MatchRecord is the durable header of a match.
type MatchRecord struct {
	ID       string
	Ranked   bool
	Seed     int64
	Width    int
	Height   int
	OpenedAt time.Time
	ClosedAt *time.Time
}

// GrowthRecord is the persisted growth of one summoner in one match.
type GrowthRecord struct {
	MatchID    string
	SummonerID string
	Growth     int
	UpdatedAt  time.Time
}

// EventRecord is a journaled combat notification.
type EventRecord struct {
	Seq        int64
	MatchID    string
	Category   string
	Severity   string
	ActorID    string
	TargetID   string
	Message    string
	Recipients []string
	OccurredAt time.Time
}

// ListEventsPageRequest selects a page of a match journal.
type ListEventsPageRequest struct {
	MatchID  string
	PageSize int
	// AfterSeq resumes after the last sequence of the previous page.
	AfterSeq int64
	// RecipientID limits the page to events delivered to one player.
	RecipientID string
	// FilterClause and FilterParams are a pre-translated SQL condition.
	FilterClause string
	FilterParams []any
}

// ListEventsPageResult is one page of events in sequence order.
type ListEventsPageResult struct {
	Events       []EventRecord
	HasMore      bool
	NextAfterSeq int64
}

// MatchStore persists match headers.
type MatchStore interface {
	PutMatch(ctx context.Context, match MatchRecord) error
	GetMatch(ctx context.Context, id string) (MatchRecord, error)
	CloseMatch(ctx context.Context, id string, at time.Time) error
}

// GrowthStore persists bonded-creature growth scoped by match and summoner.
type GrowthStore interface {
	PutGrowth(ctx context.Context, record GrowthRecord) error
	ListGrowth(ctx context.Context, matchID string) ([]GrowthRecord, error)
	DeleteMatchGrowth(ctx context.Context, matchID string) error
}

// EventStore journals notifications.
type EventStore interface {
	AppendEvents(ctx context.Context, events []EventRecord) ([]EventRecord, error)
	ListEventsPage(ctx context.Context, req ListEventsPageRequest) (ListEventsPageResult, error)
}

// Store is everything the combat service persists.
type Store interface {
	MatchStore
	GrowthStore
	EventStore
	Close() error
}
