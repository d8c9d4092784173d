// Package condition resolves how status conditions gate and modify actions.
package condition

import (
	"fmt"
	"slices"
	"strings"
)

// ID is a condition identifier.
type ID string

const (
	Stunned     ID = "stunned"
	Silenced    ID = "silenced"
	Rooted      ID = "rooted"
	Disarmed    ID = "disarmed"
	Blessed     ID = "blessed"
	Enraged     ID = "enraged"
	Frenzied    ID = "frenzied"
	Hasted      ID = "hasted"
	ArcaneEdge  ID = "arcane_edge"
	Fortified   ID = "fortified"
	Shielded    ID = "shielded"
	Evasive     ID = "evasive"
	Focused     ID = "focused"
	BondedGuard ID = "bonded_guard"
	Marked      ID = "marked"
)

// Category is the kind of action a condition is scanned against.
type Category string

const (
	CategoryAttack Category = "attack"
	CategorySkill  Category = "skill"
	CategorySpell  Category = "spell"
	CategoryMove   Category = "move"
	// CategoryDefend is scanned on the target side of an incoming hit.
	CategoryDefend Category = "defend"
)

// ParseCategory parses an action category label.
func ParseCategory(value string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(value)))
	switch c {
	case CategoryAttack, CategorySkill, CategorySpell, CategoryMove, CategoryDefend:
		return c, nil
	default:
		return "", fmt.Errorf("unknown action category %q", value)
	}
}

// ParseID parses a condition label against the effect table.
func ParseID(value string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := effects[id]; !ok {
		return "", fmt.Errorf("unknown condition %q", value)
	}
	return id, nil
}

// Known reports whether the condition has an effect entry.
func Known(id ID) bool {
	_, ok := effects[id]
	return ok
}

// Add returns conditions with id appended when it is not already present.
func Add(conditions []ID, id ID) []ID {
	if slices.Contains(conditions, id) {
		return conditions
	}
	return append(conditions, id)
}

// Remove returns conditions without id.
func Remove(conditions []ID, id ID) []ID {
	return slices.DeleteFunc(slices.Clone(conditions), func(c ID) bool { return c == id })
}

// Has reports whether id is active.
func Has(conditions []ID, id ID) bool {
	return slices.Contains(conditions, id)
}
