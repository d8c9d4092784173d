package condition

import (
	"fmt"
	"slices"
)

// Modifiers are the numeric effects active conditions contribute to one action.
type Modifiers struct {
	BonusDamage     int
	DamageReduction int
	// DodgeChance is a percentage in [0, 100].
	DodgeChance  int
	RangeBonus   int
	BonusAttacks int
	// DamageTaken is extra damage a defender suffers from each hit.
	DamageTaken int
	// Magical upgrades physical damage to magical.
	Magical     bool
	BondedGuard bool
}

// Result is the outcome of a scan.
type Result struct {
	CanPerform  bool
	BlockReason string
	BlockedBy   ID
	Modifiers   Modifiers
	// Consumed lists one-shot conditions that expire once the action resolves.
	Consumed []ID
}

// Scan evaluates active conditions against an action category. It never
// modifies its input. Unknown conditions contribute nothing.
func Scan(conditions []ID, category Category) Result {
	for _, id := range conditions {
		e, ok := effects[id]
		if !ok {
			continue
		}
		blocked := e.blocksAll && category != CategoryDefend
		if !blocked {
			blocked = slices.Contains(e.blocks, category)
		}
		if blocked {
			return Result{
				CanPerform:  false,
				BlockReason: fmt.Sprintf("%s prevents %s", id, category),
				BlockedBy:   id,
			}
		}
	}

	result := Result{CanPerform: true}
	m := &result.Modifiers
	for _, id := range conditions {
		e, ok := effects[id]
		if !ok || !slices.Contains(e.on, category) {
			continue
		}
		m.BonusDamage += e.bonusDamage
		m.DamageReduction += e.damageReduction
		m.DodgeChance += e.dodgeChance
		m.RangeBonus += e.rangeBonus
		m.BonusAttacks += e.bonusAttacks
		m.DamageTaken += e.damageTaken
		m.Magical = m.Magical || e.magical
		m.BondedGuard = m.BondedGuard || e.bondedGuard
		if e.oneShot && !slices.Contains(result.Consumed, id) {
			result.Consumed = append(result.Consumed, id)
		}
	}
	m.DodgeChance = min(m.DodgeChance, 100)
	return result
}

// Apply returns conditions with every consumed condition removed. A blocked
// scan consumes nothing.
func Apply(conditions []ID, result Result) []ID {
	if !result.CanPerform || len(result.Consumed) == 0 {
		return conditions
	}
	return slices.DeleteFunc(slices.Clone(conditions), func(id ID) bool {
		return slices.Contains(result.Consumed, id)
	})
}
