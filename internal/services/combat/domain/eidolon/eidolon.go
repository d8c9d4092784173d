package eidolon

import (
	apperrors "github.com/louisbranch/skirmish/internal/platform/errors"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/catalog"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/condition"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/grid"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/stats"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/unit"
)

// Rules bundles the collaborators every bonded-creature operation needs.
type Rules struct {
	MatchID  string
	Registry *Registry
	Creature catalog.Summon
	Mult     stats.Multipliers
}

func (r Rules) key(summonerID string) Key {
	return Key{MatchID: r.MatchID, SummonerID: summonerID}
}

// Summon creates the summoner's bonded creature at pos. Growth already
// accumulated in the match is applied to the new instance.
func (r Rules) Summon(arena *unit.Arena, summoner *unit.Unit, id string, pos grid.Point) (*unit.Unit, error) {
	if _, ok := arena.ActiveEidolon(summoner.ID); ok {
		return nil, apperrors.WithMetadata(apperrors.CodeEidolonAlreadyActive, "eidolon already active",
			map[string]string{"SummonerID": summoner.ID})
	}
	key := r.key(summoner.ID)
	attrs := r.Creature.Base.Grow(r.Registry.Growth(key))
	size := stats.SizeFor(attrs.Total())
	if !arena.Free(pos, size.Edge()) {
		return nil, apperrors.WithMetadata(apperrors.CodePositionInvalid, "summon position is blocked",
			map[string]string{"Position": pos.String()})
	}
	r.Registry.Touch(key)

	creature := unit.New(unit.Spec{
		ID:         id,
		OwnerID:    summoner.OwnerID,
		Faction:    summoner.Faction,
		Name:       r.Creature.Name,
		Attributes: attrs,
		Position:   pos,
		Abilities:  r.Creature.Abilities,
		SummonerID: summoner.ID,
		Eidolon:    true,
	}, r.Mult)
	if _, err := arena.Add(creature); err != nil {
		return nil, apperrors.Wrap(apperrors.CodePositionInvalid, "place eidolon", err)
	}
	return creature, nil
}

// CreditKill grows a living creature by one point in every attribute and
// returns the new growth value. A larger size band is only taken when the
// grown footprint fits; see grow.
func (r Rules) CreditKill(arena *unit.Arena, creature *unit.Unit) int {
	growth := r.Registry.Credit(r.key(creature.SummonerID))
	creature.SetAttributes(creature.Attributes.Grow(1), r.Mult)
	grow(arena, creature, stats.SizeFor(creature.Attributes.Total()))
	return growth
}

// grow moves the creature toward the target band. The footprint keeps
// covering every cell it covered before, shifting its anchor up or left when
// the current anchor is blocked. When no placement fits, the largest band
// that does fit is held and the next credit tries again.
func grow(arena *unit.Arena, creature *unit.Unit, target stats.Size) {
	for size := target; size > creature.Size; size-- {
		if anchor, ok := growthAnchor(arena, creature, size.Edge()); ok {
			creature.Position = anchor
			creature.Size = size
			return
		}
	}
}

// growthAnchor returns the nearest anchor whose edge-sized footprint contains
// the creature's current footprint and is free of other bodies.
func growthAnchor(arena *unit.Arena, creature *unit.Unit, edge int) (grid.Point, bool) {
	slack := edge - creature.Size.Edge()
	for shift := 0; shift <= slack; shift++ {
		for dy := 0; dy <= shift; dy++ {
			for dx := 0; dx <= shift; dx++ {
				if max(dx, dy) != shift {
					continue
				}
				anchor := grid.Point{X: creature.Position.X - dx, Y: creature.Position.Y - dy}
				if arena.Free(anchor, edge, creature.ID) {
					return anchor, true
				}
			}
		}
	}
	return grid.Point{}, false
}

// Reset zeroes growth for the creature's summoner and returns the instance
// to base attributes and size.
func (r Rules) Reset(creature *unit.Unit) {
	r.Registry.Reset(r.key(creature.SummonerID))
	creature.SetAttributes(r.Creature.Base, r.Mult)
	creature.Size = stats.SizeFor(r.Creature.Base.Total())
}

// Guardian returns the living bonded creature that intercepts hits on
// target, if target is guarded and the creature is adjacent.
func Guardian(arena *unit.Arena, target *unit.Unit, defend condition.Result) (*unit.Unit, bool) {
	if !defend.Modifiers.BondedGuard {
		return nil, false
	}
	creature, ok := arena.ActiveEidolon(target.ID)
	if !ok {
		return nil, false
	}
	if !grid.InRange(grid.Chebyshev, target.Body(), creature.Body(), 1) {
		return nil, false
	}
	return creature, true
}

// DrainResistance moves physical protection from a creature to its caster,
// capped by what the creature has and what the caster is missing.
func DrainResistance(caster, creature *unit.Unit) (int, error) {
	amount := min(creature.Physical, caster.MissingPhysical())
	if amount <= 0 {
		return 0, apperrors.New(apperrors.CodeNothingToTransfer, "no protection to transfer")
	}
	creature.Physical -= amount
	caster.Physical += amount
	return amount, nil
}
