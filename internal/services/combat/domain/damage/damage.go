// Package damage resolves damage against a unit's protection pools and HP.
//
// Apply is the only place HP and protection values are computed from an
// incoming hit; every executor routes through it.
package damage

import "fmt"

// Type represents damage categories.
type Type int

const (
	TypePhysical Type = iota
	TypeMagical
	// TypeTrue bypasses both protection pools.
	TypeTrue
)

// String returns the wire name of the damage type.
func (t Type) String() string {
	switch t {
	case TypePhysical:
		return "physical"
	case TypeMagical:
		return "magical"
	case TypeTrue:
		return "true"
	default:
		return fmt.Sprintf("damage_type(%d)", int(t))
	}
}

// ParseType maps a wire name to a Type.
func ParseType(value string) (Type, error) {
	switch value {
	case "physical":
		return TypePhysical, nil
	case "magical":
		return TypeMagical, nil
	case "true":
		return TypeTrue, nil
	default:
		return 0, fmt.Errorf("damage type %q is not supported", value)
	}
}

// Pools is the protection/HP triple a hit is resolved against.
type Pools struct {
	Physical int
	Magical  int
	HP       int
}

// Application captures the pools after a hit and how the amount was split.
// ToHP is the excess that reached HP before clamping, so Absorbed+ToHP always
// equals the incoming amount.
type Application struct {
	Before   Pools
	After    Pools
	Absorbed int
	ToHP     int
}

// Defeated reports whether the hit left the target without HP.
func (a Application) Defeated() bool {
	return a.After.HP <= 0
}

// Apply resolves amount of the given type against the pools.
//
// Physical and magical damage drain the matching protection pool first and
// carry any excess to HP in the same call. Negative inputs are treated as
// zero; no pool is ever returned negative.
func Apply(physical, magical, hp, amount int, damageType Type) Application {
	before := Pools{Physical: nonNegative(physical), Magical: nonNegative(magical), HP: nonNegative(hp)}
	after := before
	amount = nonNegative(amount)

	absorbed := 0
	switch damageType {
	case TypePhysical:
		absorbed = min(amount, after.Physical)
		after.Physical -= absorbed
	case TypeMagical:
		absorbed = min(amount, after.Magical)
		after.Magical -= absorbed
	}

	toHP := amount - absorbed
	after.HP = nonNegative(after.HP - toHP)

	return Application{
		Before:   before,
		After:    after,
		Absorbed: absorbed,
		ToHP:     toHP,
	}
}

// ApplyToPools is Apply over a Pools value.
func ApplyToPools(pools Pools, amount int, damageType Type) Application {
	return Apply(pools.Physical, pools.Magical, pools.HP, amount, damageType)
}

// Reduce subtracts a flat reduction from an amount, flooring at zero.
func Reduce(amount, reduction int) int {
	return nonNegative(amount - reduction)
}

func nonNegative(value int) int {
	if value < 0 {
		return 0
	}
	return value
}
