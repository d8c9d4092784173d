package eidolon

import (
	"errors"
	"testing"

	apperrors "github.com/louisbranch/skirmish/internal/platform/errors"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/catalog"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/condition"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/grid"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/stats"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/unit"
)

func setup(t *testing.T) (*unit.Arena, *unit.Unit, Rules) {
	t.Helper()
	arena := unit.NewArena(grid.Bounds{Width: 10, Height: 10})
	summoner := unit.New(unit.Spec{ID: "s1", OwnerID: "p1", Faction: "red", Position: grid.Point{X: 2, Y: 2}}, stats.DefaultMultipliers())
	if _, err := arena.Add(summoner); err != nil {
		t.Fatalf("Add: %v", err)
	}
	rules := Rules{MatchID: "m1", Registry: NewRegistry(), Creature: catalog.Eidolon, Mult: stats.DefaultMultipliers()}
	return arena, summoner, rules
}

func TestSummonCreatesBaseCreature(t *testing.T) {
	arena, summoner, rules := setup(t)
	creature, err := rules.Summon(arena, summoner, "e1", grid.Point{X: 3, Y: 2})
	if err != nil {
		t.Fatalf("Summon: %v", err)
	}
	if creature.Attributes != catalog.Eidolon.Base {
		t.Fatalf("Attributes = %+v, want base", creature.Attributes)
	}
	if !creature.Eidolon || creature.SummonerID != "s1" || creature.OwnerID != "p1" {
		t.Fatalf("unexpected creature identity: %+v", creature)
	}
	if _, err := rules.Summon(arena, summoner, "e2", grid.Point{X: 4, Y: 2}); apperrors.CodeOf(err) != apperrors.CodeEidolonAlreadyActive {
		t.Fatalf("second Summon error = %v, want EIDOLON_ALREADY_ACTIVE", err)
	}
}

func TestSummonBlockedPosition(t *testing.T) {
	arena, summoner, rules := setup(t)
	_, err := rules.Summon(arena, summoner, "e1", summoner.Position)
	if apperrors.CodeOf(err) != apperrors.CodePositionInvalid {
		t.Fatalf("error = %v, want POSITION_INVALID", err)
	}
}

func TestSummonBlockedLeavesRegistryUntouched(t *testing.T) {
	arena, summoner, rules := setup(t)
	if _, err := rules.Summon(arena, summoner, "e1", summoner.Position); err == nil {
		t.Fatal("expected blocked summon to fail")
	}
	if got := rules.Registry.Snapshot("m1"); len(got) != 0 {
		t.Fatalf("Snapshot = %v, want empty", got)
	}
}

func addBlocker(t *testing.T, arena *unit.Arena, id string, x, y int) *unit.Unit {
	t.Helper()
	blocker := unit.New(unit.Spec{ID: id, OwnerID: "p2", Faction: "blue", Position: grid.Point{X: x, Y: y}}, stats.DefaultMultipliers())
	if _, err := arena.Add(blocker); err != nil {
		t.Fatalf("Add %s: %v", id, err)
	}
	return blocker
}

func creditKills(arena *unit.Arena, rules Rules, creature *unit.Unit, n int) {
	for range n {
		rules.CreditKill(arena, creature)
	}
}

func TestCreditKillShiftsAnchorAroundNeighbour(t *testing.T) {
	arena, summoner, rules := setup(t)
	creature, err := rules.Summon(arena, summoner, "e1", grid.Point{X: 3, Y: 2})
	if err != nil {
		t.Fatalf("Summon: %v", err)
	}
	addBlocker(t, arena, "o1", 4, 3)

	// 30 base + 18 growth reaches the large band.
	creditKills(arena, rules, creature, 3)
	if creature.Size != stats.SizeLarge {
		t.Fatalf("Size = %v, want large", creature.Size)
	}
	// (3,2) would cover o1 and (2,2) the summoner; (3,1) is the nearest
	// anchor that still covers the old cell.
	if creature.Position != (grid.Point{X: 3, Y: 1}) {
		t.Fatalf("Position = %v, want (3,1)", creature.Position)
	}
	if !grid.Covers(creature.Position, creature.Size.Edge(), grid.Point{X: 3, Y: 2}) {
		t.Fatal("grown footprint no longer covers its previous cell")
	}
	if !arena.Free(creature.Position, creature.Size.Edge(), creature.ID) {
		t.Fatalf("grown footprint at %v overlaps another body", creature.Position)
	}
}

func TestCreditKillHoldsSizeUntilSpaceFrees(t *testing.T) {
	arena, summoner, rules := setup(t)
	creature, err := rules.Summon(arena, summoner, "e1", grid.Point{X: 9, Y: 9})
	if err != nil {
		t.Fatalf("Summon: %v", err)
	}
	blocker := addBlocker(t, arena, "o1", 8, 8)

	creditKills(arena, rules, creature, 3)
	if creature.Size != stats.SizeMedium {
		t.Fatalf("Size = %v, want medium while boxed into the corner", creature.Size)
	}
	if creature.Position != (grid.Point{X: 9, Y: 9}) {
		t.Fatalf("Position = %v, want (9,9)", creature.Position)
	}
	if got := rules.Registry.Growth(Key{MatchID: "m1", SummonerID: "s1"}); got != 3 {
		t.Fatalf("Growth = %d, want 3", got)
	}

	blocker.Alive = false
	blocker.Removed = true
	creditKills(arena, rules, creature, 1)
	if creature.Size != stats.SizeLarge {
		t.Fatalf("Size = %v, want large once space frees", creature.Size)
	}
	if creature.Position != (grid.Point{X: 8, Y: 8}) {
		t.Fatalf("Position = %v, want (8,8)", creature.Position)
	}
	if !arena.Bounds().ContainsFootprint(creature.Position, creature.Size.Edge()) {
		t.Fatal("grown footprint leaves the arena")
	}
}

func TestGrowthResetRoundTrip(t *testing.T) {
	arena, summoner, rules := setup(t)
	creature, err := rules.Summon(arena, summoner, "e1", grid.Point{X: 3, Y: 2})
	if err != nil {
		t.Fatalf("Summon: %v", err)
	}

	for i := 1; i <= 7; i++ {
		if got := rules.CreditKill(arena, creature); got != i {
			t.Fatalf("CreditKill = %d, want %d", got, i)
		}
	}
	if creature.Attributes.Combat != catalog.Eidolon.Base.Combat+7 {
		t.Fatalf("Combat = %d, want %d", creature.Attributes.Combat, catalog.Eidolon.Base.Combat+7)
	}
	// 30 base + 42 growth crosses the huge band.
	if creature.Size != stats.SizeHuge {
		t.Fatalf("Size = %v, want huge", creature.Size)
	}
	if creature.Max.HP != rules.Mult.Derive(creature.Attributes).HP {
		t.Fatalf("Max.HP = %d not recomputed", creature.Max.HP)
	}

	creature.Alive = false
	creature.Removed = true
	rules.Reset(creature)
	if creature.Size != stats.SizeSmall || creature.Attributes != catalog.Eidolon.Base {
		t.Fatalf("reset creature = %v %+v", creature.Size, creature.Attributes)
	}

	again, err := rules.Summon(arena, summoner, "e2", grid.Point{X: 3, Y: 2})
	if err != nil {
		t.Fatalf("re-Summon: %v", err)
	}
	if again.Attributes != catalog.Eidolon.Base {
		t.Fatalf("re-summoned attributes = %+v, want base", again.Attributes)
	}
	if got := rules.Registry.Growth(Key{MatchID: "m1", SummonerID: "s1"}); got != 0 {
		t.Fatalf("Growth = %d, want 0", got)
	}
}

func TestGrowthSurvivesResummonWithoutDeath(t *testing.T) {
	arena, summoner, rules := setup(t)
	rules.Registry.Restore(Key{MatchID: "m1", SummonerID: "s1"}, 2)
	creature, err := rules.Summon(arena, summoner, "e1", grid.Point{X: 3, Y: 2})
	if err != nil {
		t.Fatalf("Summon: %v", err)
	}
	if creature.Attributes.Will != catalog.Eidolon.Base.Will+2 {
		t.Fatalf("Will = %d, want %d", creature.Attributes.Will, catalog.Eidolon.Base.Will+2)
	}
}

func TestRegistryScopes(t *testing.T) {
	r := NewRegistry()
	r.Credit(Key{MatchID: "m1", SummonerID: "a"})
	r.Credit(Key{MatchID: "m1", SummonerID: "a"})
	r.Credit(Key{MatchID: "m2", SummonerID: "a"})
	if got := r.Snapshot("m1")["a"]; got != 2 {
		t.Fatalf("m1 growth = %d, want 2", got)
	}
	r.ClearMatch("m1")
	if len(r.Snapshot("m1")) != 0 {
		t.Fatal("expected m1 cleared")
	}
	if got := r.Growth(Key{MatchID: "m2", SummonerID: "a"}); got != 1 {
		t.Fatalf("m2 growth = %d, want 1", got)
	}
}

func TestGuardian(t *testing.T) {
	arena, summoner, rules := setup(t)
	creature, err := rules.Summon(arena, summoner, "e1", grid.Point{X: 3, Y: 3})
	if err != nil {
		t.Fatalf("Summon: %v", err)
	}
	guarded := condition.Scan([]condition.ID{condition.BondedGuard}, condition.CategoryDefend)
	plain := condition.Scan(nil, condition.CategoryDefend)

	if got, ok := Guardian(arena, summoner, guarded); !ok || got.ID != creature.ID {
		t.Fatalf("Guardian = %v, %v", got, ok)
	}
	if _, ok := Guardian(arena, summoner, plain); ok {
		t.Fatal("unguarded target should not be intercepted")
	}
	creature.Position = grid.Point{X: 6, Y: 6}
	if _, ok := Guardian(arena, summoner, guarded); ok {
		t.Fatal("distant creature should not intercept")
	}
}

func TestDrainResistance(t *testing.T) {
	mult := stats.DefaultMultipliers()
	tests := []struct {
		name         string
		casterPhys   int
		creaturePhys int
		want         int
		wantCode     apperrors.Code
	}{
		{name: "capped by caster missing", casterPhys: 8, creaturePhys: 10, want: 2},
		{name: "capped by creature", casterPhys: 0, creaturePhys: 3, want: 3},
		{name: "caster full", casterPhys: 10, creaturePhys: 10, wantCode: apperrors.CodeNothingToTransfer},
		{name: "creature empty", casterPhys: 0, creaturePhys: 0, wantCode: apperrors.CodeNothingToTransfer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caster := unit.New(unit.Spec{ID: "c", Attributes: stats.Attributes{Resistance: 5}}, mult)
			creature := unit.New(unit.Spec{ID: "e", Attributes: stats.Attributes{Resistance: 5}}, mult)
			caster.Physical = tt.casterPhys
			creature.Physical = tt.creaturePhys

			got, err := DrainResistance(caster, creature)
			if tt.wantCode != "" {
				var domainErr *apperrors.Error
				if !errors.As(err, &domainErr) || domainErr.Code != tt.wantCode {
					t.Fatalf("error = %v, want %s", err, tt.wantCode)
				}
				if caster.Physical != tt.casterPhys || creature.Physical != tt.creaturePhys {
					t.Fatal("failed transfer mutated state")
				}
				return
			}
			if err != nil {
				t.Fatalf("DrainResistance: %v", err)
			}
			if got != tt.want {
				t.Fatalf("transferred = %d, want %d", got, tt.want)
			}
			if caster.Physical != tt.casterPhys+tt.want || creature.Physical != tt.creaturePhys-tt.want {
				t.Fatalf("phys = %d/%d", caster.Physical, creature.Physical)
			}
		})
	}
}
