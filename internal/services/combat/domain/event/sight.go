package event

import (
	"github.com/louisbranch/skirmish/internal/services/combat/domain/grid"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/unit"
)

// DefaultSightRadius is how far a unit sees, in Chebyshev cells.
const DefaultSightRadius = 6

// Sight is a Visibility where a player observes every cell within Radius of
// one of their living units.
type Sight struct {
	Arena  *unit.Arena
	Radius int
}

// Observers returns the owners of living units that can see the cell.
func (s Sight) Observers(cell grid.Point) []string {
	if s.Arena == nil {
		return nil
	}
	target := grid.Body{Anchor: cell, Size: 1}
	var owners []string
	for _, u := range s.Arena.Units() {
		if !u.Alive || u.OwnerID == "" {
			continue
		}
		if grid.InRange(grid.Chebyshev, u.Body(), target, s.Radius) {
			owners = append(owners, u.OwnerID)
		}
	}
	return Recipients(owners)
}
