package match

import (
	"github.com/louisbranch/skirmish/internal/services/combat/domain/grid"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/unit"
)

// UnitState is a read-only copy of a unit.
type UnitState struct {
	ID               string
	OwnerID          string
	Faction          string
	Name             string
	HP               int
	MaxHP            int
	Mana             int
	MaxMana          int
	Physical         int
	Magical          int
	Position         grid.Point
	Size             string
	Alive            bool
	Removed          bool
	ActionsLeft      int
	MovesLeft        int
	BonusAttacksLeft int
	Conditions       []string
	SummonerID       string
	Eidolon          bool
	// Growth is the bonded-creature growth; zero for other units.
	Growth int
}

func stateOf(u *unit.Unit) UnitState {
	state := UnitState{
		ID:               u.ID,
		OwnerID:          u.OwnerID,
		Faction:          u.Faction,
		Name:             u.Name,
		HP:               u.HP,
		MaxHP:            u.Max.HP,
		Mana:             u.Mana,
		MaxMana:          u.Max.Mana,
		Physical:         u.Physical,
		Magical:          u.Magical,
		Position:         u.Position,
		Size:             u.Size.String(),
		Alive:            u.Alive,
		Removed:          u.Removed,
		ActionsLeft:      u.ActionsLeft,
		MovesLeft:        u.MovesLeft,
		BonusAttacksLeft: u.BonusAttacksLeft,
		SummonerID:       u.SummonerID,
		Eidolon:          u.Eidolon,
	}
	for _, c := range u.Conditions {
		state.Conditions = append(state.Conditions, string(c))
	}
	return state
}
