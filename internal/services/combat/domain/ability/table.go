package ability

import "github.com/louisbranch/skirmish/internal/services/combat/domain/catalog"

// Table binds every ability code to its executor. Its length follows
// catalog.Count, so a new code without an entry is caught by the table test.
type Table [catalog.Count]Executor

// Standard returns the built-in executor bindings.
func Standard() Table {
	return Table{
		catalog.Attack:          Attack,
		catalog.Dash:            Dash,
		catalog.Heal:            Heal,
		catalog.Fireball:        Area,
		catalog.Shockwave:       Area,
		catalog.FrostNova:       Area,
		catalog.PiercingShot:    Area,
		catalog.Bless:           Enchant,
		catalog.Hex:             Enchant,
		catalog.Guard:           Enchant,
		catalog.Swap:            Swap,
		catalog.ManaDrain:       ManaDrain,
		catalog.ResistanceDrain: ResistanceDrain,
		catalog.SummonEidolon:   SummonEidolon,
	}
}
