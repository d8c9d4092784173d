// Package stats holds base attributes, derived maxima, and size bands.
package stats

import "fmt"

// Attributes are the six base attributes of a unit.
type Attributes struct {
	Combat     int
	Speed      int
	Focus      int
	Resistance int
	Will       int
	Vitality   int
}

// Total sums every attribute.
func (a Attributes) Total() int {
	return a.Combat + a.Speed + a.Focus + a.Resistance + a.Will + a.Vitality
}

// Grow returns the attributes with n added to each of them.
func (a Attributes) Grow(n int) Attributes {
	return Attributes{
		Combat:     a.Combat + n,
		Speed:      a.Speed + n,
		Focus:      a.Focus + n,
		Resistance: a.Resistance + n,
		Will:       a.Will + n,
		Vitality:   a.Vitality + n,
	}
}

// Validate rejects negative attributes.
func (a Attributes) Validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"combat", a.Combat}, {"speed", a.Speed}, {"focus", a.Focus},
		{"resistance", a.Resistance}, {"will", a.Will}, {"vitality", a.Vitality},
	}
	for _, f := range fields {
		if f.value < 0 {
			return fmt.Errorf("%s must be non-negative", f.name)
		}
	}
	return nil
}

// Multipliers convert attributes into derived maxima.
type Multipliers struct {
	BaseHP                int
	HPPerVitality         int
	ManaPerFocus          int
	PhysicalPerResistance int
	MagicalPerWill        int
}

// DefaultMultipliers are the standard conversion rates.
func DefaultMultipliers() Multipliers {
	return Multipliers{
		BaseHP:                10,
		HPPerVitality:         5,
		ManaPerFocus:          5,
		PhysicalPerResistance: 2,
		MagicalPerWill:        2,
	}
}

// Maxima are the derived resource ceilings of a unit.
type Maxima struct {
	HP       int
	Mana     int
	Physical int
	Magical  int
}

// Derive computes maxima from attributes.
func (m Multipliers) Derive(a Attributes) Maxima {
	return Maxima{
		HP:       m.BaseHP + m.HPPerVitality*a.Vitality,
		Mana:     m.ManaPerFocus * a.Focus,
		Physical: m.PhysicalPerResistance * a.Resistance,
		Magical:  m.MagicalPerWill * a.Will,
	}
}
