package catalog

import (
	"github.com/louisbranch/skirmish/internal/services/combat/domain/condition"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/damage"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/grid"
)

// Activation describes how an ability is triggered.
type Activation int

const (
	Active Activation = iota
	Passive
	Reactive
)

// CostTier groups mana costs.
type CostTier int

const (
	CostFree CostTier = iota
	CostLow
	CostMedium
	CostHigh
)

// Mana returns the mana spent by an ability of the tier.
func (t CostTier) Mana() int {
	switch t {
	case CostLow:
		return 2
	case CostMedium:
		return 4
	case CostHigh:
		return 6
	default:
		return 0
	}
}

// TargetKind is what the caller must point an ability at.
type TargetKind int

const (
	TargetSelf TargetKind = iota
	TargetUnit
	TargetPosition
)

// Definition is an immutable ability record.
type Definition struct {
	Code       Code
	Name       string
	Activation Activation
	Category   condition.Category
	Cost       CostTier
	Cooldown   int
	// ConsumesAction is false for free actions.
	ConsumesAction bool
	// ExecutorSpendsAction marks abilities whose executor decides how the
	// action is paid (bonus attacks); the dispatcher skips its action check.
	ExecutorSpendsAction bool
	Target               TargetKind
	// Range is measured from the caster with the Chebyshev metric.
	Range   int
	Pattern grid.Pattern
	Damage  damage.Type
	// Power is a flat amount; Scaling is the percentage of the caster's
	// scaling attribute (combat for skills and attacks, focus for spells).
	Power   int
	Scaling int
	// Applies is the condition granted to each affected unit.
	Applies   condition.ID
	Knockback int
	// Collision is the damage dealt when a pushed unit hits something.
	Collision int
}

// ManaCost is the mana required to dispatch the ability.
func (d Definition) ManaCost() int {
	return d.Cost.Mana()
}
