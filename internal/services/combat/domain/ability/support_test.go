package ability

import (
	"slices"
	"testing"

	apperrors "github.com/louisbranch/skirmish/internal/platform/errors"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/catalog"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/condition"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/grid"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/stats"
)

func TestHealTargetsAllies(t *testing.T) {
	caster := mkUnit("c", "red", 5, 5, stats.Attributes{Focus: 2}, catalog.Heal)
	ally := mkUnit("ally", "red", 6, 5, stats.Attributes{Vitality: 2})
	enemy := mkUnit("enemy", "blue", 4, 5, stats.Attributes{Vitality: 2})
	b := newBattle(t, false, caster, ally, enemy)
	ally.HP = 5

	if res := b.dispatch("c", catalog.Heal, "enemy"); res.ErrorCode != apperrors.CodeTargetInvalid {
		t.Fatalf("ErrorCode = %s, want TARGET_INVALID", res.ErrorCode)
	}
	res := b.dispatch("c", catalog.Heal, "ally")
	if !res.Success || res.Healing != 6 || ally.HP != 11 || res.TargetHPAfter != 11 {
		t.Fatalf("heal = %+v hp %d", res, ally.HP)
	}
}

func TestEnchantments(t *testing.T) {
	caster := mkUnit("c", "red", 5, 5, stats.Attributes{Focus: 2}, catalog.Bless, catalog.Hex)
	ally := mkUnit("ally", "red", 6, 5, stats.Attributes{})
	enemy := mkUnit("enemy", "blue", 4, 5, stats.Attributes{})
	b := newBattle(t, false, caster, ally, enemy)

	if res := b.dispatch("c", catalog.Bless, "ally"); !res.Success {
		t.Fatalf("bless failed: %s", res.Error)
	}
	if !slices.Contains(ally.Conditions, condition.Blessed) {
		t.Fatalf("ally Conditions = %v, want blessed", ally.Conditions)
	}
	caster.ResetTurn()
	if res := b.dispatch("c", catalog.Hex, "ally"); res.ErrorCode != apperrors.CodeTargetInvalid {
		t.Fatalf("hex on ally ErrorCode = %s, want TARGET_INVALID", res.ErrorCode)
	}
	if res := b.dispatch("c", catalog.Hex, "enemy"); !res.Success {
		t.Fatalf("hex failed: %s", res.Error)
	}
	if !slices.Contains(enemy.Conditions, condition.Marked) {
		t.Fatalf("enemy Conditions = %v, want marked", enemy.Conditions)
	}
}

func TestDash(t *testing.T) {
	caster := mkUnit("c", "red", 0, 0, stats.Attributes{}, catalog.Dash)
	other := mkUnit("o", "blue", 2, 2, stats.Attributes{})
	b := newBattle(t, false, caster, other)

	if res := b.dispatchAt("c", catalog.Dash, 2, 2); res.ErrorCode != apperrors.CodePositionInvalid {
		t.Fatalf("ErrorCode = %s, want POSITION_INVALID", res.ErrorCode)
	}
	if res := b.dispatchAt("c", catalog.Dash, 4, 0); res.ErrorCode != apperrors.CodeTargetOutOfRange {
		t.Fatalf("ErrorCode = %s, want TARGET_OUT_OF_RANGE", res.ErrorCode)
	}
	res := b.dispatchAt("c", catalog.Dash, 3, 1)
	if !res.Success || caster.Position != (grid.Point{X: 3, Y: 1}) {
		t.Fatalf("dash = %+v position %v", res, caster.Position)
	}

	rooted := mkUnit("r", "red", 0, 9, stats.Attributes{}, catalog.Dash)
	rooted.Conditions = []condition.ID{condition.Rooted}
	if _, err := b.arena.Add(rooted); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if res := b.dispatchAt("r", catalog.Dash, 1, 9); res.ErrorCode != apperrors.CodeActionBlocked {
		t.Fatalf("ErrorCode = %s, want ACTION_BLOCKED", res.ErrorCode)
	}
}

func TestSwap(t *testing.T) {
	caster := mkUnit("c", "red", 1, 1, stats.Attributes{Focus: 1}, catalog.Swap)
	enemy := mkUnit("e", "blue", 3, 3, stats.Attributes{})
	b := newBattle(t, false, caster, enemy)

	res := b.dispatch("c", catalog.Swap, "e")
	if !res.Success {
		t.Fatalf("swap failed: %s", res.Error)
	}
	if caster.Position != (grid.Point{X: 3, Y: 3}) || enemy.Position != (grid.Point{X: 1, Y: 1}) {
		t.Fatalf("positions = %v %v", caster.Position, enemy.Position)
	}
	if res := b.dispatch("c", catalog.Swap, "c"); res.Success {
		t.Fatal("swap with self should fail")
	}
}

func TestManaDrain(t *testing.T) {
	caster := mkUnit("c", "red", 5, 5, stats.Attributes{Focus: 2}, catalog.ManaDrain)
	enemy := mkUnit("e", "blue", 6, 5, stats.Attributes{Focus: 2})
	b := newBattle(t, false, caster, enemy)
	caster.Mana = 7

	res := b.dispatch("c", catalog.ManaDrain, "e")
	if !res.Success || res.Transferred != 3 {
		t.Fatalf("drain = %+v", res)
	}
	if caster.Mana != 10 || enemy.Mana != 7 {
		t.Fatalf("mana = %d/%d, want 10/7", caster.Mana, enemy.Mana)
	}

	caster.ResetTurn()
	delete(caster.Cooldowns, catalog.ManaDrain)
	if res := b.dispatch("c", catalog.ManaDrain, "e"); res.ErrorCode != apperrors.CodeNothingToTransfer {
		t.Fatalf("ErrorCode = %s, want NOTHING_TO_TRANSFER", res.ErrorCode)
	}
}

func TestResistanceDrain(t *testing.T) {
	caster := mkUnit("c", "red", 5, 5, stats.Attributes{Resistance: 5}, catalog.ResistanceDrain)
	pet := mkEidolon("pet", "c", "red", 6, 5)
	stranger := mkEidolon("other", "x", "red", 4, 5)
	b := newBattle(t, false, caster, pet, stranger)
	caster.Physical = 7

	if res := b.dispatch("c", catalog.ResistanceDrain, "other"); res.ErrorCode != apperrors.CodeTargetInvalid {
		t.Fatalf("ErrorCode = %s, want TARGET_INVALID", res.ErrorCode)
	}
	res := b.dispatch("c", catalog.ResistanceDrain, "pet")
	if !res.Success || res.Transferred != 3 {
		t.Fatalf("drain = %+v", res)
	}
	if caster.Physical != 10 || pet.Physical != 7 {
		t.Fatalf("physical = %d/%d, want 10/7", caster.Physical, pet.Physical)
	}

	caster.ResetTurn()
	delete(caster.Cooldowns, catalog.ResistanceDrain)
	if res := b.dispatch("c", catalog.ResistanceDrain, "pet"); res.ErrorCode != apperrors.CodeNothingToTransfer {
		t.Fatalf("ErrorCode = %s, want NOTHING_TO_TRANSFER", res.ErrorCode)
	}
}

func TestSummonEidolon(t *testing.T) {
	caster := mkUnit("c", "red", 5, 5, stats.Attributes{Focus: 2}, catalog.SummonEidolon)
	b := newBattle(t, false, caster)

	res := b.dispatchAt("c", catalog.SummonEidolon, 6, 5)
	if !res.Success || res.SummonedID != "summon-1" {
		t.Fatalf("summon = %+v", res)
	}
	creature, ok := b.arena.Unit("summon-1")
	if !ok || !creature.Eidolon || creature.SummonerID != "c" || creature.Faction != "red" {
		t.Fatalf("creature = %+v", creature)
	}
	if res.ManaSpent != 6 || caster.Mana != 4 {
		t.Fatalf("mana spent/left = %d/%d, want 6/4", res.ManaSpent, caster.Mana)
	}

	caster.ResetTurn()
	delete(caster.Cooldowns, catalog.SummonEidolon)
	caster.Mana = caster.Max.Mana
	if res := b.dispatchAt("c", catalog.SummonEidolon, 4, 5); res.ErrorCode != apperrors.CodeEidolonAlreadyActive {
		t.Fatalf("ErrorCode = %s, want EIDOLON_ALREADY_ACTIVE", res.ErrorCode)
	}
}
