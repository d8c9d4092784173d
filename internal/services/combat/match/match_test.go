package match

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	apperrors "github.com/louisbranch/skirmish/internal/platform/errors"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/ability"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/catalog"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/event"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/grid"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/stats"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/unit"
	"github.com/louisbranch/skirmish/internal/services/combat/storage/sqlite"
)

type recordingPublisher struct {
	mu    sync.Mutex
	notes []event.Notification
}

func (p *recordingPublisher) Publish(n event.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notes = append(p.notes, n)
}

func (p *recordingPublisher) all() []event.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]event.Notification(nil), p.notes...)
}

type fixture struct {
	mgr   *Manager
	store *sqlite.Store
	feed  *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "combat.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	feed := &recordingPublisher{}
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	next := 0
	mgr, err := NewManager(catalog.Default(),
		WithStore(store),
		WithPublisher(feed),
		WithClock(func() time.Time { return clock }),
		WithIDGenerator(func() string {
			next++
			return fmt.Sprintf("gen-%d", next)
		}),
	)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return &fixture{mgr: mgr, store: store, feed: feed}
}

func spec(id, faction string, x, y int, attrs stats.Attributes, codes ...catalog.Code) unit.Spec {
	return unit.Spec{
		ID:         id,
		OwnerID:    "player-" + faction,
		Faction:    faction,
		Attributes: attrs,
		Position:   grid.Point{X: x, Y: y},
		Abilities:  codes,
	}
}

func duel(matchID string, combat int) Config {
	seed := int64(7)
	return Config{
		ID:     matchID,
		Seed:   &seed,
		Width:  8,
		Height: 8,
		Units: []unit.Spec{
			spec("a", "red", 1, 1, stats.Attributes{Combat: combat}, catalog.Attack),
			spec("b", "blue", 2, 1, stats.Attributes{}, catalog.Attack),
		},
	}
}

func wantCode(t *testing.T, err error, code apperrors.Code) {
	t.Helper()
	if got := apperrors.CodeOf(err); got != code {
		t.Fatalf("code = %s (err %v), want %s", got, err, code)
	}
}

func TestOpenValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "zero size", cfg: Config{Units: duel("", 1).Units}},
		{name: "no units", cfg: Config{Width: 4, Height: 4}},
		{name: "blank unit id", cfg: Config{Width: 4, Height: 4, Units: []unit.Spec{{}}}},
		{name: "negative attribute", cfg: Config{Width: 4, Height: 4, Units: []unit.Spec{
			spec("a", "red", 0, 0, stats.Attributes{Combat: -1}),
		}}},
		{name: "out of bounds", cfg: Config{Width: 4, Height: 4, Units: []unit.Spec{
			spec("a", "red", 9, 9, stats.Attributes{}),
		}}},
		{name: "overlapping", cfg: Config{Width: 4, Height: 4, Units: []unit.Spec{
			spec("a", "red", 1, 1, stats.Attributes{}),
			spec("b", "blue", 1, 1, stats.Attributes{}),
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.mgr.Open(ctx, tt.cfg)
			wantCode(t, err, apperrors.CodeMatchInvalid)
		})
	}
}

func TestOpenGeneratesIDAndRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	matchID, err := f.mgr.Open(ctx, duel("", 1))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if matchID != "gen-1" {
		t.Fatalf("match id = %q, want gen-1", matchID)
	}
	record, err := f.store.GetMatch(ctx, matchID)
	if err != nil {
		t.Fatalf("get match record: %v", err)
	}
	if record.Seed != 7 || record.Width != 8 {
		t.Fatalf("record = %+v", record)
	}

	_, err = f.mgr.Open(ctx, duel(matchID, 1))
	wantCode(t, err, apperrors.CodeMatchExists)

	if got := f.mgr.OpenMatches(); len(got) != 1 || got[0] != matchID {
		t.Fatalf("open matches = %v, want [%s]", got, matchID)
	}
}

func TestDispatchUnknownMatch(t *testing.T) {
	f := newFixture(t)
	_, err := f.mgr.Dispatch(context.Background(), "missing", ability.Request{CasterID: "a", Ability: catalog.Attack})
	wantCode(t, err, apperrors.CodeMatchNotFound)
}

func TestDispatchJournalsAndPublishes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.mgr.Open(ctx, duel("m1", 3)); err != nil {
		t.Fatalf("open: %v", err)
	}

	res, err := f.mgr.Dispatch(ctx, "m1", ability.Request{CasterID: "a", Ability: catalog.Attack, TargetID: "b"})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if !res.Success || res.FinalDamage != 3 {
		t.Fatalf("result = %+v, want success with 3 damage", res)
	}

	notes := f.feed.all()
	if len(notes) != 1 {
		t.Fatalf("published = %d, want 1", len(notes))
	}
	note := notes[0]
	if note.Category != event.CategoryAttack || note.ActorID != "a" || note.TargetID != "b" {
		t.Fatalf("note = %+v", note)
	}
	if !note.Includes("player-red") || !note.Includes("player-blue") {
		t.Fatalf("recipients = %v, want both players", note.Recipients)
	}

	page, err := f.mgr.ListEvents(ctx, ListEventsRequest{MatchID: "m1"})
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(page.Events) != 1 || page.Events[0].Message != note.Message {
		t.Fatalf("journal = %+v, want the published note", page.Events)
	}
}

func TestDispatchFailureIsAResult(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.mgr.Open(ctx, duel("m1", 3)); err != nil {
		t.Fatalf("open: %v", err)
	}

	res, err := f.mgr.Dispatch(ctx, "m1", ability.Request{CasterID: "a", Ability: catalog.Fireball})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if res.Success || res.ErrorCode != apperrors.CodeAbilityNotKnown {
		t.Fatalf("result = %+v, want ABILITY_NOT_KNOWN failure", res)
	}
	if got := f.feed.all(); len(got) != 0 {
		t.Fatalf("published = %d, want 0", len(got))
	}
}

func TestDispatchKillOrdersNotifications(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.mgr.Open(ctx, duel("m1", 20)); err != nil {
		t.Fatalf("open: %v", err)
	}

	res, err := f.mgr.Dispatch(ctx, "m1", ability.Request{CasterID: "a", Ability: catalog.Attack, TargetID: "b"})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if !res.TargetDefeated {
		t.Fatalf("result = %+v, want defeat", res)
	}

	notes := f.feed.all()
	if len(notes) != 2 {
		t.Fatalf("published = %d, want 2", len(notes))
	}
	if notes[0].Category != event.CategoryAttack || notes[0].Severity != event.SeverityWarning {
		t.Fatalf("first = %+v, want warning attack", notes[0])
	}
	if notes[1].Category != event.CategoryDeath {
		t.Fatalf("second = %+v, want death", notes[1])
	}

	deaths, err := f.mgr.ListEvents(ctx, ListEventsRequest{MatchID: "m1", Filter: `category = "death"`})
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(deaths.Events) != 1 || deaths.Events[0].TargetID != "b" && deaths.Events[0].ActorID != "b" {
		t.Fatalf("deaths = %+v", deaths.Events)
	}

	state, err := f.mgr.GetUnit(ctx, "m1", "b")
	if err != nil {
		t.Fatalf("get unit: %v", err)
	}
	if state.Alive || state.HP != 0 {
		t.Fatalf("state = %+v, want dead", state)
	}
}

func TestListEventsErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.mgr.Open(ctx, duel("m1", 3)); err != nil {
		t.Fatalf("open: %v", err)
	}

	_, err := f.mgr.ListEvents(ctx, ListEventsRequest{MatchID: "nope"})
	wantCode(t, err, apperrors.CodeMatchNotFound)

	_, err = f.mgr.ListEvents(ctx, ListEventsRequest{MatchID: "m1", Filter: `bogus = "x"`})
	wantCode(t, err, apperrors.CodeEventFilterInvalid)

	bare, err := NewManager(nil)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if _, err := bare.ListEvents(ctx, ListEventsRequest{MatchID: "m1"}); err == nil {
		t.Fatal("expected error without a journal")
	}
}

func TestBeginTurnOncePerRound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cfg := duel("m1", 1)
	cfg.Units[0].Abilities = append(cfg.Units[0].Abilities, catalog.Dash)
	cfg.Units[0].Attributes.Speed = 2
	if _, err := f.mgr.Open(ctx, cfg); err != nil {
		t.Fatalf("open: %v", err)
	}

	pos := grid.Point{X: 1, Y: 4}
	res, err := f.mgr.Dispatch(ctx, "m1", ability.Request{CasterID: "a", Ability: catalog.Dash, Position: &pos})
	if err != nil || !res.Success {
		t.Fatalf("dash = %+v, %v", res, err)
	}
	if res.CooldownApplied != 2 {
		t.Fatalf("cooldown applied = %d, want 2", res.CooldownApplied)
	}

	cd, err := f.mgr.BeginTurn(ctx, "m1", "a", 1)
	if err != nil {
		t.Fatalf("begin turn: %v", err)
	}
	if cd.Remaining["dash"] != 1 {
		t.Fatalf("dash remaining = %d, want 1", cd.Remaining["dash"])
	}

	_, err = f.mgr.BeginTurn(ctx, "m1", "a", 1)
	wantCode(t, err, apperrors.CodeTurnAlreadyTicked)

	cd, err = f.mgr.GetCooldowns(ctx, "m1", "a")
	if err != nil {
		t.Fatalf("get cooldowns: %v", err)
	}
	if cd.Remaining["dash"] != 1 {
		t.Fatalf("dash remaining after rejected tick = %d, want 1", cd.Remaining["dash"])
	}

	cd, err = f.mgr.BeginTurn(ctx, "m1", "a", 2)
	if err != nil {
		t.Fatalf("begin turn 2: %v", err)
	}
	if _, ok := cd.Remaining["dash"]; ok {
		t.Fatalf("dash still cooling down: %v", cd.Remaining)
	}
	state, err := f.mgr.GetUnit(ctx, "m1", "a")
	if err != nil {
		t.Fatalf("get unit: %v", err)
	}
	if state.ActionsLeft != 1 || state.MovesLeft != 2 {
		t.Fatalf("actions/moves = %d/%d, want 1/2", state.ActionsLeft, state.MovesLeft)
	}
}

func TestBeginTurnErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.mgr.Open(ctx, duel("m1", 20)); err != nil {
		t.Fatalf("open: %v", err)
	}

	_, err := f.mgr.BeginTurn(ctx, "m1", "ghost", 1)
	wantCode(t, err, apperrors.CodeUnitNotFound)

	_, err = f.mgr.BeginTurn(ctx, "m1", "a", 0)
	wantCode(t, err, apperrors.CodeMatchInvalid)

	if _, err := f.mgr.Dispatch(ctx, "m1", ability.Request{CasterID: "a", Ability: catalog.Attack, TargetID: "b"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	_, err = f.mgr.BeginTurn(ctx, "m1", "b", 1)
	wantCode(t, err, apperrors.CodeCasterDefeated)
}

func TestEidolonGrowthPersistsAndClearsOnClose(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seed := int64(1)
	cfg := Config{
		ID:     "m1",
		Seed:   &seed,
		Width:  8,
		Height: 8,
		Units: []unit.Spec{
			spec("s", "red", 0, 0, stats.Attributes{Focus: 2}, catalog.SummonEidolon),
			spec("v", "blue", 3, 0, stats.Attributes{}),
		},
	}
	if _, err := f.mgr.Open(ctx, cfg); err != nil {
		t.Fatalf("open: %v", err)
	}

	at := grid.Point{X: 2, Y: 0}
	res, err := f.mgr.Dispatch(ctx, "m1", ability.Request{CasterID: "s", Ability: catalog.SummonEidolon, Position: &at})
	if err != nil || !res.Success {
		t.Fatalf("summon = %+v, %v", res, err)
	}
	creatureID := res.SummonedID
	if creatureID == "" {
		t.Fatal("summoned id is empty")
	}

	// The base creature hits for 5; the victim has 10 HP.
	for i := 0; i < 2; i++ {
		res, err = f.mgr.Dispatch(ctx, "m1", ability.Request{CasterID: creatureID, Ability: catalog.Attack, TargetID: "v"})
		if err != nil || !res.Success {
			t.Fatalf("attack %d = %+v, %v", i, res, err)
		}
		if i == 0 {
			if _, err := f.mgr.BeginTurn(ctx, "m1", creatureID, 1); err != nil {
				t.Fatalf("begin turn: %v", err)
			}
		}
	}
	if !res.TargetDefeated {
		t.Fatalf("result = %+v, want defeat", res)
	}

	state, err := f.mgr.GetUnit(ctx, "m1", creatureID)
	if err != nil {
		t.Fatalf("get unit: %v", err)
	}
	if state.Growth != 1 {
		t.Fatalf("growth = %d, want 1", state.Growth)
	}
	records, err := f.store.ListGrowth(ctx, "m1")
	if err != nil {
		t.Fatalf("list growth: %v", err)
	}
	if len(records) != 1 || records[0].SummonerID != "s" || records[0].Growth != 1 {
		t.Fatalf("growth records = %+v, want s/1", records)
	}

	if err := f.mgr.Close(ctx, "m1"); err != nil {
		t.Fatalf("close: %v", err)
	}
	records, err = f.store.ListGrowth(ctx, "m1")
	if err != nil {
		t.Fatalf("list growth: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("growth after close = %+v, want none", records)
	}

	_, err = f.mgr.Dispatch(ctx, "m1", ability.Request{CasterID: "s", Ability: catalog.Attack})
	wantCode(t, err, apperrors.CodeMatchNotFound)
	err = f.mgr.Close(ctx, "m1")
	wantCode(t, err, apperrors.CodeMatchNotFound)

	if _, err := f.mgr.ListEvents(ctx, ListEventsRequest{MatchID: "m1"}); err != nil {
		t.Fatalf("closed match journal must stay listable: %v", err)
	}
	record, err := f.store.GetMatch(ctx, "m1")
	if err != nil {
		t.Fatalf("get match: %v", err)
	}
	if record.ClosedAt == nil {
		t.Fatal("closed_at is nil")
	}
}

func TestMatchesDispatchConcurrently(t *testing.T) {
	mgr, err := NewManager(catalog.Default())
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	ctx := context.Background()
	ids := []string{"m1", "m2", "m3"}
	for _, matchID := range ids {
		if _, err := mgr.Open(ctx, duel(matchID, 1)); err != nil {
			t.Fatalf("open %s: %v", matchID, err)
		}
	}

	var wg sync.WaitGroup
	for _, matchID := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for round := 1; round <= 5; round++ {
				if _, err := mgr.BeginTurn(ctx, matchID, "a", round); err != nil {
					t.Errorf("begin turn %s/%d: %v", matchID, round, err)
				}
				if _, err := mgr.Dispatch(ctx, matchID, ability.Request{CasterID: "a", Ability: catalog.Attack, TargetID: "b"}); err != nil {
					t.Errorf("dispatch %s: %v", matchID, err)
				}
			}
		}()
		for r := 0; r < 2; r++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 10; i++ {
					if _, err := mgr.GetCooldowns(ctx, matchID, "b"); err != nil {
						t.Errorf("get cooldowns %s: %v", matchID, err)
					}
				}
			}()
		}
	}
	wg.Wait()

	for _, matchID := range ids {
		state, err := mgr.GetUnit(ctx, matchID, "b")
		if err != nil {
			t.Fatalf("get unit: %v", err)
		}
		// One attack per round for five rounds, each hitting for 1.
		if state.HP != 5 {
			t.Fatalf("%s: hp = %d, want 5", matchID, state.HP)
		}
	}
}

func TestCanceledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.mgr.Open(ctx, duel("m1", 1)); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
