package ability

import (
	"fmt"
	"testing"

	"github.com/louisbranch/skirmish/internal/random"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/catalog"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/death"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/eidolon"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/event"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/grid"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/stats"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/unit"
)

type battle struct {
	arena      *unit.Arena
	session    Session
	dispatcher *Dispatcher
	events     *event.Buffer
	registry   *eidolon.Registry
}

func newBattle(t *testing.T, ranked bool, units ...*unit.Unit) *battle {
	t.Helper()
	arena := unit.NewArena(grid.Bounds{Width: 10, Height: 10})
	for _, u := range units {
		if _, err := arena.Add(u); err != nil {
			t.Fatalf("Add %s: %v", u.ID, err)
		}
	}
	cat := catalog.Default()
	registry := eidolon.NewRegistry()
	rules := eidolon.Rules{MatchID: "m1", Registry: registry, Creature: catalog.Eidolon, Mult: cat.Multipliers()}
	events := &event.Buffer{}
	next := 0
	return &battle{
		arena:      arena,
		dispatcher: NewDispatcher(cat),
		events:     events,
		registry:   registry,
		session: Session{
			MatchID: "m1",
			Arena:   arena,
			Ranked:  ranked,
			Rand:    random.New(7),
			Deaths: death.Cascade{
				MatchID:    "m1",
				Arena:      arena,
				Eidolons:   rules,
				Sink:       events,
				Visibility: event.Sight{Arena: arena, Radius: event.DefaultSightRadius},
			},
			Eidolons: rules,
			NewID: func() string {
				next++
				return fmt.Sprintf("summon-%d", next)
			},
		},
	}
}

func (b *battle) dispatch(casterID string, code catalog.Code, targetID string) Result {
	return b.dispatcher.Dispatch(b.session, Request{CasterID: casterID, Ability: code, TargetID: targetID})
}

func (b *battle) dispatchAt(casterID string, code catalog.Code, x, y int) Result {
	pos := grid.Point{X: x, Y: y}
	return b.dispatcher.Dispatch(b.session, Request{CasterID: casterID, Ability: code, Position: &pos})
}

func mkUnit(id, faction string, x, y int, attrs stats.Attributes, codes ...catalog.Code) *unit.Unit {
	return unit.New(unit.Spec{
		ID:         id,
		OwnerID:    "owner-" + faction,
		Faction:    faction,
		Attributes: attrs,
		Position:   grid.Point{X: x, Y: y},
		Abilities:  codes,
	}, stats.DefaultMultipliers())
}

func mkEidolon(id, summonerID, faction string, x, y int) *unit.Unit {
	return unit.New(unit.Spec{
		ID:         id,
		OwnerID:    "owner-" + faction,
		Faction:    faction,
		Attributes: catalog.Eidolon.Base,
		Position:   grid.Point{X: x, Y: y},
		Abilities:  catalog.Eidolon.Abilities,
		SummonerID: summonerID,
		Eidolon:    true,
	}, stats.DefaultMultipliers())
}
