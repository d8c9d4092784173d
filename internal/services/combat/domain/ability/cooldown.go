package ability

import (
	"github.com/louisbranch/skirmish/internal/services/combat/domain/catalog"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/unit"
)

// Tick lowers every positive cooldown of u by exactly one round. The round
// scheduler calls it once per unit per round.
func Tick(u *unit.Unit) {
	for code, remaining := range u.Cooldowns {
		if remaining <= 1 {
			delete(u.Cooldowns, code)
			continue
		}
		u.Cooldowns[code] = remaining - 1
	}
}

// Ready reports whether u can use code as far as cooldowns go.
func Ready(u *unit.Unit, code catalog.Code) bool {
	return Remaining(u, code) == 0
}

// Remaining returns the rounds left on a cooldown.
func Remaining(u *unit.Unit, code catalog.Code) int {
	return max(u.Cooldowns[code], 0)
}

// Cooldowns returns the positive cooldowns of u keyed by ability name.
func Cooldowns(u *unit.Unit) map[string]int {
	out := make(map[string]int, len(u.Cooldowns))
	for code, remaining := range u.Cooldowns {
		if remaining > 0 {
			out[code.String()] = remaining
		}
	}
	return out
}

// ReadyAbilities lists the known abilities of u that are off cooldown.
func ReadyAbilities(u *unit.Unit) []catalog.Code {
	var out []catalog.Code
	for _, code := range u.Abilities {
		if Ready(u, code) {
			out = append(out, code)
		}
	}
	return out
}
