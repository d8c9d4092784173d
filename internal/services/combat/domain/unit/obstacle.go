package unit

import (
	"github.com/louisbranch/skirmish/internal/services/combat/domain/grid"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/stats"
)

// Obstacle is destructible terrain. Destroyed obstacles stay addressable.
type Obstacle struct {
	ID        string
	Position  grid.Point
	Size      stats.Size
	HP        int
	Destroyed bool
}

// Body returns the geometric view of the obstacle.
func (o *Obstacle) Body() grid.Body {
	return grid.Body{
		ID:     o.ID,
		Kind:   grid.BodyObstacle,
		Anchor: o.Position,
		Size:   o.Size.Edge(),
		Active: !o.Destroyed,
	}
}

// TakeDamage lowers HP and reports whether this hit destroyed the obstacle.
func (o *Obstacle) TakeDamage(amount int) bool {
	if o.Destroyed || amount <= 0 {
		return false
	}
	o.HP = max(0, o.HP-amount)
	if o.HP == 0 {
		o.Destroyed = true
		return true
	}
	return false
}
