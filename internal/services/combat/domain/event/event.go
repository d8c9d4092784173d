// Package event defines combat notifications and the collaborators that scope
// and receive them.
package event

import (
	"slices"
	"time"

	"github.com/louisbranch/skirmish/internal/services/combat/domain/grid"
)

// Category groups notifications for filtering.
type Category string

const (
	CategoryAttack  Category = "attack"
	CategoryAbility Category = "ability"
	CategoryDeath   Category = "death"
	CategorySummon  Category = "summon"
	CategoryGrowth  Category = "growth"
)

// Severity ranks how prominently a notification should be shown.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Notification is a structured combat event scoped to a recipient list.
type Notification struct {
	MatchID    string
	Category   Category
	Severity   Severity
	ActorID    string
	TargetID   string
	Message    string
	Recipients []string
	OccurredAt time.Time
}

// Sink accepts notifications.
type Sink interface {
	Emit(Notification)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Notification)

// Emit calls f.
func (f SinkFunc) Emit(n Notification) {
	f(n)
}

// Visibility answers which players can observe a cell.
type Visibility interface {
	Observers(cell grid.Point) []string
}

// Buffer collects notifications for later delivery.
type Buffer struct {
	items []Notification
}

// Emit appends n.
func (b *Buffer) Emit(n Notification) {
	b.items = append(b.items, n)
}

// Len returns the number of buffered notifications.
func (b *Buffer) Len() int {
	return len(b.items)
}

// Drain returns buffered notifications and empties the buffer.
func (b *Buffer) Drain() []Notification {
	out := b.items
	b.items = nil
	return out
}

// Recipients merges player lists into a sorted set without empty ids.
func Recipients(lists ...[]string) []string {
	var out []string
	for _, list := range lists {
		for _, id := range list {
			if id != "" && !slices.Contains(out, id) {
				out = append(out, id)
			}
		}
	}
	slices.Sort(out)
	return out
}

// Includes reports whether the player is a recipient.
func (n Notification) Includes(playerID string) bool {
	return slices.Contains(n.Recipients, playerID)
}
