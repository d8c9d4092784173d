// Package catalog defines the immutable ability and summon tables.
package catalog

import (
	"fmt"
	"strings"
)

// Code identifies an ability. The set is closed; every value below Count
// must have a definition and a bound executor.
type Code int

const (
	Attack Code = iota
	Dash
	Heal
	Fireball
	Shockwave
	FrostNova
	PiercingShot
	Bless
	Hex
	Guard
	Swap
	ManaDrain
	ResistanceDrain
	SummonEidolon

	// Count is the number of ability codes.
	Count
)

var codeNames = [Count]string{
	Attack:          "attack",
	Dash:            "dash",
	Heal:            "heal",
	Fireball:        "fireball",
	Shockwave:       "shockwave",
	FrostNova:       "frost_nova",
	PiercingShot:    "piercing_shot",
	Bless:           "bless",
	Hex:             "hex",
	Guard:           "guard",
	Swap:            "swap",
	ManaDrain:       "mana_drain",
	ResistanceDrain: "resistance_drain",
	SummonEidolon:   "summon_eidolon",
}

// String returns the wire name of the code.
func (c Code) String() string {
	if !c.Valid() {
		return fmt.Sprintf("code(%d)", int(c))
	}
	return codeNames[c]
}

// Valid reports whether the code is inside the closed set.
func (c Code) Valid() bool {
	return c >= 0 && c < Count
}

// ParseCode resolves a wire name to a code.
func ParseCode(value string) (Code, error) {
	name := strings.ToLower(strings.TrimSpace(value))
	for i, n := range codeNames {
		if n == name {
			return Code(i), nil
		}
	}
	return 0, fmt.Errorf("unknown ability %q", value)
}

// Codes returns every code in declaration order.
func Codes() []Code {
	codes := make([]Code, 0, Count)
	for c := Code(0); c < Count; c++ {
		codes = append(codes, c)
	}
	return codes
}
