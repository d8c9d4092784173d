package death

import (
	"slices"
	"testing"

	"github.com/louisbranch/skirmish/internal/services/combat/domain/catalog"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/eidolon"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/event"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/grid"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/stats"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/unit"
)

type fixedVisibility []string

func (v fixedVisibility) Observers(grid.Point) []string { return v }

type fixture struct {
	arena   *unit.Arena
	rules   eidolon.Rules
	buffer  *event.Buffer
	cascade Cascade
}

func newFixture(t *testing.T, units ...*unit.Unit) fixture {
	t.Helper()
	arena := unit.NewArena(grid.Bounds{Width: 10, Height: 10})
	for _, u := range units {
		if _, err := arena.Add(u); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	rules := eidolon.Rules{MatchID: "m1", Registry: eidolon.NewRegistry(), Creature: catalog.Eidolon, Mult: stats.DefaultMultipliers()}
	buffer := &event.Buffer{}
	return fixture{
		arena:  arena,
		rules:  rules,
		buffer: buffer,
		cascade: Cascade{
			MatchID:    "m1",
			Arena:      arena,
			Eidolons:   rules,
			Sink:       buffer,
			Visibility: fixedVisibility{"spectator"},
		},
	}
}

func mk(id, owner, faction string, x, y int) *unit.Unit {
	return unit.New(unit.Spec{ID: id, OwnerID: owner, Faction: faction, Position: grid.Point{X: x, Y: y}}, stats.DefaultMultipliers())
}

func mkEidolon(id, summoner, owner, faction string, x, y int) *unit.Unit {
	return unit.New(unit.Spec{
		ID: id, OwnerID: owner, Faction: faction, Position: grid.Point{X: x, Y: y},
		Attributes: catalog.Eidolon.Base, SummonerID: summoner, Eidolon: true,
	}, stats.DefaultMultipliers())
}

func TestKillIsIdempotent(t *testing.T) {
	victim := mk("v", "p2", "blue", 1, 1)
	f := newFixture(t, victim)

	first := f.cascade.Kill(victim, nil)
	if first.AlreadyDead || victim.Alive {
		t.Fatalf("first Kill = %+v, alive=%v", first, victim.Alive)
	}
	second := f.cascade.Kill(victim, nil)
	if !second.AlreadyDead {
		t.Fatal("second Kill should report already dead")
	}
	if f.buffer.Len() != 1 {
		t.Fatalf("notifications = %d, want 1", f.buffer.Len())
	}
}

func TestKillRecipients(t *testing.T) {
	victim := mk("v", "p2", "blue", 1, 1)
	ally := mk("a", "p3", "blue", 9, 9)
	enemy := mk("k", "p1", "red", 2, 1)
	f := newFixture(t, victim, ally, enemy)

	f.cascade.Kill(victim, enemy)
	items := f.buffer.Drain()
	if len(items) != 1 {
		t.Fatalf("notifications = %d, want 1", len(items))
	}
	n := items[0]
	if !slices.Equal(n.Recipients, []string{"p2", "p3", "spectator"}) {
		t.Fatalf("Recipients = %v, want [p2 p3 spectator]", n.Recipients)
	}
	if n.ActorID != "k" || n.TargetID != "v" || n.MatchID != "m1" || n.Category != event.CategoryDeath {
		t.Fatalf("unexpected notification: %+v", n)
	}
}

func TestKillEliminatesSummonsOneLevel(t *testing.T) {
	victim := mk("v", "p2", "blue", 1, 1)
	pet := mkEidolon("pet", "v", "p2", "blue", 2, 2)
	grandchild := mk("gc", "p2", "blue", 3, 3)
	grandchild.SummonerID = "pet"
	f := newFixture(t, victim, pet, grandchild)
	f.rules.Registry.Restore(eidolon.Key{MatchID: "m1", SummonerID: "v"}, 3)

	out := f.cascade.Kill(victim, nil)
	if !slices.Equal(out.Eliminated, []string{"pet"}) {
		t.Fatalf("Eliminated = %v, want [pet]", out.Eliminated)
	}
	if pet.Alive {
		t.Fatal("summon should be eliminated")
	}
	if !grandchild.Alive {
		t.Fatal("cascade must not recurse past one level")
	}
	if got := f.rules.Registry.Growth(eidolon.Key{MatchID: "m1", SummonerID: "v"}); got != 0 {
		t.Fatalf("growth after eliminated eidolon = %d, want 0", got)
	}
}

func TestKillCreditsEidolonKiller(t *testing.T) {
	summoner := mk("s", "p1", "red", 0, 0)
	pet := mkEidolon("pet", "s", "p1", "red", 1, 0)
	victim := mk("v", "p2", "blue", 2, 0)
	f := newFixture(t, summoner, pet, victim)

	out := f.cascade.Kill(victim, pet)
	if !out.Grew || out.KillerGrowth != 1 {
		t.Fatalf("Outcome = %+v, want growth 1", out)
	}
	if pet.Attributes.Combat != catalog.Eidolon.Base.Combat+1 {
		t.Fatalf("Combat = %d, want %d", pet.Attributes.Combat, catalog.Eidolon.Base.Combat+1)
	}
	if f.buffer.Len() != 2 {
		t.Fatalf("notifications = %d, want 2", f.buffer.Len())
	}
}

func TestKillResetsEidolonVictim(t *testing.T) {
	summoner := mk("s", "p1", "red", 0, 0)
	pet := mkEidolon("pet", "s", "p1", "red", 1, 0)
	f := newFixture(t, summoner, pet)
	f.rules.CreditKill(f.arena, pet)
	f.rules.CreditKill(f.arena, pet)

	out := f.cascade.Kill(pet, nil)
	if !out.Reset {
		t.Fatal("expected reset")
	}
	if pet.Attributes != catalog.Eidolon.Base || pet.Size != stats.SizeSmall {
		t.Fatalf("pet = %+v %v, want base small", pet.Attributes, pet.Size)
	}
	if got := f.rules.Registry.Growth(eidolon.Key{MatchID: "m1", SummonerID: "s"}); got != 0 {
		t.Fatalf("growth = %d, want 0", got)
	}
}

func TestKillWithoutCollaborators(t *testing.T) {
	victim := mk("v", "p2", "blue", 1, 1)
	f := newFixture(t, victim)
	f.cascade.Sink = nil
	f.cascade.Visibility = nil

	out := f.cascade.Kill(victim, nil)
	if out.AlreadyDead || victim.Alive || victim.HP != 0 {
		t.Fatalf("state not mutated: %+v alive=%v hp=%d", out, victim.Alive, victim.HP)
	}
}
