// Package unit models combatants, obstacles, and the arena that owns them.
package unit

import (
	"slices"

	"github.com/louisbranch/skirmish/internal/services/combat/domain/catalog"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/condition"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/damage"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/grid"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/stats"
)

// CorpseDamagePerEdge is the damage needed per footprint edge cell to clear a corpse.
const CorpseDamagePerEdge = 10

// Spec is the input used to create a unit.
type Spec struct {
	ID         string
	OwnerID    string
	Faction    string
	Name       string
	Attributes stats.Attributes
	Position   grid.Point
	// Size overrides the band derived from attributes when set.
	Size       *stats.Size
	Abilities  []catalog.Code
	Conditions []condition.ID
	SummonerID string
	Eidolon    bool
}

// Unit is a combatant on the grid.
type Unit struct {
	ID         string
	OwnerID    string
	Faction    string
	Name       string
	Attributes stats.Attributes
	Max        stats.Maxima

	HP       int
	Mana     int
	Physical int
	Magical  int

	Position   grid.Point
	Size       stats.Size
	Conditions []condition.ID
	Abilities  []catalog.Code
	Cooldowns  map[catalog.Code]int

	ActionsLeft      int
	MovesLeft        int
	BonusAttacksLeft int

	Alive bool
	// CorpseDamage accumulates hits taken after death.
	CorpseDamage int
	// Removed is set once the corpse is cleared from the grid.
	Removed bool

	// SummonerID is the unit that summoned this one, empty for ordinary units.
	SummonerID string
	Eidolon    bool
}

// New creates a living unit with full resources.
func New(spec Spec, multipliers stats.Multipliers) *Unit {
	size := stats.SizeFor(spec.Attributes.Total())
	if spec.Size != nil {
		size = *spec.Size
	}
	u := &Unit{
		ID:         spec.ID,
		OwnerID:    spec.OwnerID,
		Faction:    spec.Faction,
		Name:       spec.Name,
		Attributes: spec.Attributes,
		Max:        multipliers.Derive(spec.Attributes),
		Position:   spec.Position,
		Size:       size,
		Conditions: slices.Clone(spec.Conditions),
		Abilities:  slices.Clone(spec.Abilities),
		Cooldowns:  make(map[catalog.Code]int),
		Alive:      true,
		SummonerID: spec.SummonerID,
		Eidolon:    spec.Eidolon,
	}
	u.HP = u.Max.HP
	u.Mana = u.Max.Mana
	u.Physical = u.Max.Physical
	u.Magical = u.Max.Magical
	u.ResetTurn()
	return u
}

// ResetTurn restores per-turn counters.
func (u *Unit) ResetTurn() {
	u.ActionsLeft = 1
	u.MovesLeft = u.Attributes.Speed
	u.BonusAttacksLeft = 0
}

// Knows reports whether the unit has the ability.
func (u *Unit) Knows(code catalog.Code) bool {
	return slices.Contains(u.Abilities, code)
}

// Body returns the geometric view of the unit.
func (u *Unit) Body() grid.Body {
	return grid.Body{
		ID:      u.ID,
		Kind:    grid.BodyUnit,
		Faction: u.Faction,
		Anchor:  u.Position,
		Size:    u.Size.Edge(),
		Active:  u.Alive,
	}
}

// Occupies reports whether the unit still takes up space on the grid.
func (u *Unit) Occupies() bool {
	return u.Alive || !u.Removed
}

// IsSummonOf reports whether the unit was summoned by id.
func (u *Unit) IsSummonOf(id string) bool {
	return id != "" && u.SummonerID == id
}

// TakeDamage applies damage through the resolver and stores the result.
func (u *Unit) TakeDamage(amount int, typ damage.Type) damage.Application {
	app := damage.Apply(u.Physical, u.Magical, u.HP, amount, typ)
	u.Physical = app.After.Physical
	u.Magical = app.After.Magical
	u.HP = app.After.HP
	return app
}

// Heal restores HP up to the maximum and returns the amount restored.
func (u *Unit) Heal(amount int) int {
	if amount <= 0 || !u.Alive {
		return 0
	}
	restored := min(amount, u.Max.HP-u.HP)
	u.HP += restored
	return restored
}

// GainMana adds mana up to the maximum and returns the amount gained.
func (u *Unit) GainMana(amount int) int {
	if amount <= 0 {
		return 0
	}
	gained := min(amount, u.Max.Mana-u.Mana)
	u.Mana += gained
	return gained
}

// SpendMana removes mana, never below zero, and returns the amount spent.
func (u *Unit) SpendMana(amount int) int {
	spent := min(max(amount, 0), u.Mana)
	u.Mana -= spent
	return spent
}

// MissingPhysical is the physical protection below maximum.
func (u *Unit) MissingPhysical() int {
	return u.Max.Physical - u.Physical
}

// SetAttributes replaces the attributes and recomputes maxima, clamping
// current values into the new ranges.
func (u *Unit) SetAttributes(a stats.Attributes, multipliers stats.Multipliers) {
	u.Attributes = a
	u.Max = multipliers.Derive(a)
	u.HP = clamp(u.HP, u.Max.HP)
	u.Mana = clamp(u.Mana, u.Max.Mana)
	u.Physical = clamp(u.Physical, u.Max.Physical)
	u.Magical = clamp(u.Magical, u.Max.Magical)
}

// CorpseThreshold is the post-death damage that clears the corpse.
func (u *Unit) CorpseThreshold() int {
	return CorpseDamagePerEdge * u.Size.Edge()
}

// HitCorpse records damage against a corpse and reports whether it was cleared.
func (u *Unit) HitCorpse(amount int) bool {
	if u.Alive || u.Removed {
		return false
	}
	u.CorpseDamage += max(amount, 0)
	if u.CorpseDamage >= u.CorpseThreshold() {
		u.Removed = true
	}
	return u.Removed
}

// Cooldown returns the rounds remaining for code.
func (u *Unit) Cooldown(code catalog.Code) int {
	return u.Cooldowns[code]
}

func clamp(v, hi int) int {
	return max(0, min(v, hi))
}
