package catalog

import (
	"github.com/louisbranch/skirmish/internal/services/combat/domain/condition"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/damage"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/grid"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/stats"
)

// Catalog is a read-only lookup of ability definitions.
type Catalog struct {
	definitions map[Code]Definition
	summons     map[Code]Summon
	multipliers stats.Multipliers
}

// New builds a catalog from definitions. Later entries replace earlier ones
// with the same code.
func New(multipliers stats.Multipliers, definitions ...Definition) *Catalog {
	c := &Catalog{
		definitions: make(map[Code]Definition, len(definitions)),
		summons:     map[Code]Summon{SummonEidolon: Eidolon},
		multipliers: multipliers,
	}
	for _, def := range definitions {
		c.definitions[def.Code] = def
	}
	return c
}

// Default returns the standard catalog.
func Default() *Catalog {
	return New(stats.DefaultMultipliers(), Standard()...)
}

// Lookup returns the definition for code.
func (c *Catalog) Lookup(code Code) (Definition, bool) {
	if c == nil {
		return Definition{}, false
	}
	def, ok := c.definitions[code]
	return def, ok
}

// Summon returns the creature summoned by code.
func (c *Catalog) Summon(code Code) (Summon, bool) {
	if c == nil {
		return Summon{}, false
	}
	s, ok := c.summons[code]
	return s, ok
}

// Multipliers returns the attribute conversion rates.
func (c *Catalog) Multipliers() stats.Multipliers {
	if c == nil {
		return stats.DefaultMultipliers()
	}
	return c.multipliers
}

// Standard returns the built-in ability definitions.
func Standard() []Definition {
	enemies := grid.FilterEnemies
	return []Definition{
		{
			Code: Attack, Name: "Attack", Category: condition.CategoryAttack,
			ConsumesAction: true, ExecutorSpendsAction: true,
			Target: TargetUnit, Range: 1, Damage: damage.TypePhysical, Scaling: 100,
		},
		{
			Code: Dash, Name: "Dash", Category: condition.CategoryMove,
			Cooldown: 2, ConsumesAction: true, Target: TargetPosition, Range: 3,
		},
		{
			Code: Heal, Name: "Heal", Category: condition.CategorySpell, Cost: CostLow,
			Cooldown: 2, ConsumesAction: true, Target: TargetUnit, Range: 3,
			Pattern: grid.Pattern{Filter: grid.FilterAllies}, Power: 4, Scaling: 100,
		},
		{
			Code: Fireball, Name: "Fireball", Category: condition.CategorySpell, Cost: CostMedium,
			Cooldown: 2, ConsumesAction: true, Target: TargetPosition, Range: 6,
			Pattern: grid.Pattern{Shape: grid.ShapeSquare, Radius: 1, Travel: 6},
			Damage:  damage.TypeMagical, Power: 2, Scaling: 100,
		},
		{
			Code: Shockwave, Name: "Shockwave", Category: condition.CategorySkill, Cost: CostLow,
			Cooldown: 3, ConsumesAction: true, Target: TargetSelf,
			Pattern: grid.Pattern{Shape: grid.ShapeSelf, Radius: 1, Filter: enemies, ExcludeCaster: true},
			Damage:  damage.TypePhysical, Power: 1, Scaling: 50, Knockback: 2, Collision: 2,
		},
		{
			Code: FrostNova, Name: "Frost Nova", Category: condition.CategorySpell, Cost: CostMedium,
			Cooldown: 3, ConsumesAction: true, Target: TargetSelf,
			Pattern: grid.Pattern{Shape: grid.ShapeSelf, Radius: 2, Metric: grid.Manhattan, Filter: enemies, ExcludeCaster: true},
			Damage:  damage.TypeMagical, Power: 1, Scaling: 50, Applies: condition.Rooted,
		},
		{
			Code: PiercingShot, Name: "Piercing Shot", Category: condition.CategorySkill, Cost: CostLow,
			Cooldown: 2, ConsumesAction: true, Target: TargetPosition, Range: 5,
			Pattern: grid.Pattern{Shape: grid.ShapeLine, Length: 5, Filter: enemies, ExcludeCaster: true},
			Damage:  damage.TypePhysical, Power: 2, Scaling: 50,
		},
		{
			Code: Bless, Name: "Bless", Category: condition.CategorySpell, Cost: CostLow,
			Cooldown: 1, ConsumesAction: true, Target: TargetUnit, Range: 3,
			Pattern: grid.Pattern{Filter: grid.FilterAllies}, Applies: condition.Blessed,
		},
		{
			Code: Hex, Name: "Hex", Category: condition.CategorySpell, Cost: CostLow,
			Cooldown: 1, ConsumesAction: true, Target: TargetUnit, Range: 4,
			Pattern: grid.Pattern{Filter: enemies}, Applies: condition.Marked,
		},
		{
			Code: Guard, Name: "Guard", Activation: Reactive, Category: condition.CategorySkill,
			Cooldown: 3, Target: TargetSelf, Applies: condition.BondedGuard,
		},
		{
			Code: Swap, Name: "Swap", Category: condition.CategorySkill, Cost: CostLow,
			Cooldown: 3, ConsumesAction: true, Target: TargetUnit, Range: 4,
		},
		{
			Code: ManaDrain, Name: "Mana Drain", Category: condition.CategorySpell,
			Cooldown: 2, ConsumesAction: true, Target: TargetUnit, Range: 3,
			Pattern: grid.Pattern{Filter: enemies}, Power: 2, Scaling: 50,
		},
		{
			Code: ResistanceDrain, Name: "Resistance Drain", Category: condition.CategorySkill,
			Cooldown: 2, ConsumesAction: true, Target: TargetUnit, Range: 1,
			Pattern: grid.Pattern{Filter: grid.FilterAllies},
		},
		{
			Code: SummonEidolon, Name: "Summon Eidolon", Category: condition.CategorySpell, Cost: CostHigh,
			Cooldown: 3, ConsumesAction: true, Target: TargetPosition, Range: 2,
		},
	}
}
