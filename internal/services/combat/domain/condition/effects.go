package condition

// effect is the static contribution of a single condition.
type effect struct {
	blocksAll bool
	blocks    []Category
	// on lists the categories the modifiers below apply to.
	on              []Category
	bonusDamage     int
	damageReduction int
	dodgeChance     int
	rangeBonus      int
	bonusAttacks    int
	damageTaken     int
	magical         bool
	bondedGuard     bool
	// oneShot conditions are consumed by the first action they modify.
	oneShot bool
}

var actorCategories = []Category{CategoryAttack, CategorySkill, CategorySpell, CategoryMove}

var effects = map[ID]effect{
	Stunned:     {blocksAll: true},
	Silenced:    {blocks: []Category{CategorySpell}},
	Rooted:      {blocks: []Category{CategoryMove}},
	Disarmed:    {blocks: []Category{CategoryAttack}},
	Blessed:     {on: []Category{CategoryAttack, CategorySkill, CategorySpell}, bonusDamage: 2, oneShot: true},
	Enraged:     {on: []Category{CategoryAttack}, bonusDamage: 3},
	Frenzied:    {on: []Category{CategoryAttack}, bonusAttacks: 2},
	Hasted:      {on: []Category{CategoryAttack}, bonusAttacks: 1},
	ArcaneEdge:  {on: []Category{CategoryAttack}, magical: true},
	Fortified:   {on: []Category{CategoryDefend}, damageReduction: 2},
	Shielded:    {on: []Category{CategoryDefend}, damageReduction: 5, oneShot: true},
	Evasive:     {on: []Category{CategoryDefend}, dodgeChance: 25},
	Focused:     {on: []Category{CategoryAttack}, rangeBonus: 1},
	BondedGuard: {on: []Category{CategoryDefend}, bondedGuard: true},
	Marked:      {on: []Category{CategoryDefend}, damageTaken: 2, oneShot: true},
}
