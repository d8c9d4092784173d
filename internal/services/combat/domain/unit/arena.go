package unit

import (
	"fmt"
	"slices"

	"github.com/louisbranch/skirmish/internal/services/combat/domain/grid"
)

// Handle is a stable index into an arena.
type Handle int

// Arena owns every unit and obstacle in a battle. Units are addressed by
// handle or id and keep their insertion order.
type Arena struct {
	bounds     grid.Bounds
	units      []*Unit
	byID       map[string]Handle
	obstacles  []*Obstacle
	obstacleID map[string]int
}

// NewArena creates an empty arena.
func NewArena(bounds grid.Bounds) *Arena {
	return &Arena{
		bounds:     bounds,
		byID:       make(map[string]Handle),
		obstacleID: make(map[string]int),
	}
}

// Bounds returns the playable area.
func (a *Arena) Bounds() grid.Bounds {
	return a.bounds
}

// Add places a unit. The id must be unique and the footprint in bounds.
func (a *Arena) Add(u *Unit) (Handle, error) {
	if u == nil || u.ID == "" {
		return 0, fmt.Errorf("unit id is required")
	}
	if _, ok := a.byID[u.ID]; ok {
		return 0, fmt.Errorf("unit %q already exists", u.ID)
	}
	if !a.bounds.ContainsFootprint(u.Position, u.Size.Edge()) {
		return 0, fmt.Errorf("unit %q at %v is out of bounds", u.ID, u.Position)
	}
	h := Handle(len(a.units))
	a.units = append(a.units, u)
	a.byID[u.ID] = h
	return h, nil
}

// AddObstacle places an obstacle.
func (a *Arena) AddObstacle(o *Obstacle) error {
	if o == nil || o.ID == "" {
		return fmt.Errorf("obstacle id is required")
	}
	if _, ok := a.obstacleID[o.ID]; ok {
		return fmt.Errorf("obstacle %q already exists", o.ID)
	}
	if !a.bounds.ContainsFootprint(o.Position, o.Size.Edge()) {
		return fmt.Errorf("obstacle %q at %v is out of bounds", o.ID, o.Position)
	}
	a.obstacleID[o.ID] = len(a.obstacles)
	a.obstacles = append(a.obstacles, o)
	return nil
}

// Get returns the unit behind a handle.
func (a *Arena) Get(h Handle) *Unit {
	if h < 0 || int(h) >= len(a.units) {
		return nil
	}
	return a.units[h]
}

// Handle resolves a unit id.
func (a *Arena) Handle(id string) (Handle, bool) {
	h, ok := a.byID[id]
	return h, ok
}

// Unit returns the unit with id.
func (a *Arena) Unit(id string) (*Unit, bool) {
	h, ok := a.byID[id]
	if !ok {
		return nil, false
	}
	return a.units[h], true
}

// Units returns every unit in insertion order.
func (a *Arena) Units() []*Unit {
	return a.units
}

// Obstacle returns the obstacle with id.
func (a *Arena) Obstacle(id string) (*Obstacle, bool) {
	i, ok := a.obstacleID[id]
	if !ok {
		return nil, false
	}
	return a.obstacles[i], true
}

// Obstacles returns every obstacle in insertion order.
func (a *Arena) Obstacles() []*Obstacle {
	return a.obstacles
}

// Bodies returns the geometric view of every unit and obstacle.
func (a *Arena) Bodies() []grid.Body {
	bodies := make([]grid.Body, 0, len(a.units)+len(a.obstacles))
	for _, u := range a.units {
		bodies = append(bodies, u.Body())
	}
	for _, o := range a.obstacles {
		bodies = append(bodies, o.Body())
	}
	return bodies
}

// SummonsOf returns living units summoned by id.
func (a *Arena) SummonsOf(id string) []*Unit {
	var out []*Unit
	for _, u := range a.units {
		if u.Alive && u.IsSummonOf(id) {
			out = append(out, u)
		}
	}
	return out
}

// ActiveEidolon returns the living bonded creature of a summoner.
func (a *Arena) ActiveEidolon(summonerID string) (*Unit, bool) {
	for _, u := range a.units {
		if u.Alive && u.Eidolon && u.IsSummonOf(summonerID) {
			return u, true
		}
	}
	return nil, false
}

// Free reports whether a footprint fits in bounds without overlapping any
// living unit, uncleared corpse, or intact obstacle. Units in ignore are
// treated as absent.
func (a *Arena) Free(anchor grid.Point, edge int, ignore ...string) bool {
	if !a.bounds.ContainsFootprint(anchor, edge) {
		return false
	}
	for _, cell := range grid.Footprint(anchor, edge) {
		if a.blocked(cell, ignore) {
			return false
		}
	}
	return true
}

func (a *Arena) blocked(cell grid.Point, ignore []string) bool {
	for _, u := range a.units {
		if !u.Occupies() || slices.Contains(ignore, u.ID) {
			continue
		}
		if grid.Covers(u.Position, u.Size.Edge(), cell) {
			return true
		}
	}
	for _, o := range a.obstacles {
		if !o.Destroyed && grid.Covers(o.Position, o.Size.Edge(), cell) {
			return true
		}
	}
	return false
}

// CorpseAt returns an uncleared corpse covering the cell.
func (a *Arena) CorpseAt(cell grid.Point) (*Unit, bool) {
	for _, u := range a.units {
		if !u.Alive && !u.Removed && grid.Covers(u.Position, u.Size.Edge(), cell) {
			return u, true
		}
	}
	return nil, false
}
