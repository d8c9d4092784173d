package match

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	apperrors "github.com/louisbranch/skirmish/internal/platform/errors"
	"github.com/louisbranch/skirmish/internal/platform/id"
	"github.com/louisbranch/skirmish/internal/random"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/ability"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/catalog"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/eidolon"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/event"
	"github.com/louisbranch/skirmish/internal/services/combat/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/louisbranch/skirmish/internal/services/combat/match"

// Publisher receives notifications after they are journaled.
type Publisher interface {
	Publish(n event.Notification)
}

// Manager owns every live match of the process.
type Manager struct {
	mu      sync.RWMutex
	matches map[string]*Match

	catalog    *catalog.Catalog
	dispatcher *ability.Dispatcher
	registry   *eidolon.Registry

	store       storage.Store
	publisher   Publisher
	now         func() time.Time
	newID       func() string
	sightRadius int

	tracer     trace.Tracer
	dispatches metric.Int64Counter
	defeats    metric.Int64Counter
}

// Option configures a Manager.
type Option func(*Manager)

// WithStore persists matches, growth, and notifications.
func WithStore(store storage.Store) Option {
	return func(m *Manager) { m.store = store }
}

// WithPublisher forwards notifications to a live feed.
func WithPublisher(p Publisher) Option {
	return func(m *Manager) { m.publisher = p }
}

// WithClock overrides the notification clock.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator overrides match and summon id generation.
func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

// WithSightRadius overrides the default observation radius.
func WithSightRadius(radius int) Option {
	return func(m *Manager) { m.sightRadius = radius }
}

// NewManager builds a manager resolving abilities from cat.
func NewManager(cat *catalog.Catalog, opts ...Option) (*Manager, error) {
	if cat == nil {
		cat = catalog.Default()
	}
	m := &Manager{
		matches:     make(map[string]*Match),
		catalog:     cat,
		dispatcher:  ability.NewDispatcher(cat),
		registry:    eidolon.NewRegistry(),
		now:         time.Now,
		newID:       id.Generator(),
		sightRadius: event.DefaultSightRadius,
		tracer:      otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	meter := otel.Meter(instrumentationName)
	var err error
	m.dispatches, err = meter.Int64Counter("skirmish.combat.dispatches",
		metric.WithDescription("Abilities dispatched, by ability and outcome."))
	if err != nil {
		return nil, fmt.Errorf("create dispatch counter: %w", err)
	}
	m.defeats, err = meter.Int64Counter("skirmish.combat.defeats",
		metric.WithDescription("Units defeated or eliminated."))
	if err != nil {
		return nil, fmt.Errorf("create defeat counter: %w", err)
	}
	return m, nil
}

// Catalog returns the ability catalog.
func (mgr *Manager) Catalog() *catalog.Catalog {
	return mgr.catalog
}

// Open creates a match and returns its id.
func (mgr *Manager) Open(ctx context.Context, cfg Config) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	cfg.ID = strings.TrimSpace(cfg.ID)
	if cfg.ID == "" {
		cfg.ID = mgr.newID()
	}
	seed, err := random.ResolveSeed(cfg.Seed)
	if err != nil {
		return "", fmt.Errorf("resolve seed: %w", err)
	}

	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	if _, exists := mgr.matches[cfg.ID]; exists {
		return "", apperrors.WithMetadata(apperrors.CodeMatchExists, fmt.Sprintf("match %q already open", cfg.ID),
			map[string]string{"MatchID": cfg.ID})
	}

	m, err := build(cfg, seed, mgr.catalog, mgr.registry, mgr.sightRadius, mgr.now, mgr.newID)
	if err != nil {
		return "", err
	}

	if mgr.store != nil {
		records, err := mgr.store.ListGrowth(ctx, cfg.ID)
		if err != nil {
			return "", fmt.Errorf("restore growth: %w", err)
		}
		for _, record := range records {
			mgr.registry.Restore(eidolon.Key{MatchID: record.MatchID, SummonerID: record.SummonerID}, record.Growth)
		}
		if err := mgr.store.PutMatch(ctx, storage.MatchRecord{
			ID:       cfg.ID,
			Ranked:   cfg.Ranked,
			Seed:     seed,
			Width:    cfg.Width,
			Height:   cfg.Height,
			OpenedAt: m.openedAt,
		}); err != nil {
			return "", fmt.Errorf("persist match: %w", err)
		}
	}

	mgr.matches[cfg.ID] = m
	log.Printf("combat: opened match %s (%dx%d, %d units, ranked=%t)", cfg.ID, cfg.Width, cfg.Height, len(cfg.Units), cfg.Ranked)
	return cfg.ID, nil
}

// Get returns an open match.
func (mgr *Manager) Get(matchID string) (*Match, error) {
	mgr.mu.RLock()
	m, ok := mgr.matches[matchID]
	mgr.mu.RUnlock()
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeMatchNotFound, fmt.Sprintf("match %q not found", matchID),
			map[string]string{"MatchID": matchID})
	}
	return m, nil
}

// lock returns the match locked, or MATCH_NOT_FOUND when it is missing or
// was closed while the caller waited.
func (mgr *Manager) lock(matchID string) (*Match, error) {
	m, err := mgr.Get(matchID)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, apperrors.WithMetadata(apperrors.CodeMatchNotFound, fmt.Sprintf("match %q is closed", matchID),
			map[string]string{"MatchID": matchID})
	}
	return m, nil
}

// Dispatch resolves one ability in a match. Ability failures are reported
// in the result; the error is reserved for a missing match or a canceled
// context.
func (mgr *Manager) Dispatch(ctx context.Context, matchID string, req ability.Request) (ability.Result, error) {
	if err := ctx.Err(); err != nil {
		return ability.Result{}, err
	}
	ctx, span := mgr.tracer.Start(ctx, "combat.Dispatch", trace.WithAttributes(
		attribute.String("combat.match_id", matchID),
		attribute.String("combat.caster_id", req.CasterID),
		attribute.String("combat.ability", req.Ability.String()),
	))
	defer span.End()

	m, err := mgr.lock(matchID)
	if err != nil {
		span.SetStatus(otelcodes.Error, err.Error())
		return ability.Result{}, err
	}
	defer m.mu.Unlock()

	before := mgr.registry.Snapshot(matchID)
	res := mgr.dispatcher.Dispatch(m.session, req)
	after := mgr.registry.Snapshot(matchID)

	var notes []event.Notification
	if action, ok := m.actionNotification(res, mgr.now()); ok {
		notes = append(notes, action)
	}
	notes = append(notes, m.buffer.Drain()...)

	mgr.record(ctx, span, res)
	mgr.persistGrowth(ctx, matchID, before, after)
	mgr.deliver(ctx, notes)
	return res, nil
}

func (mgr *Manager) record(ctx context.Context, span trace.Span, res ability.Result) {
	span.SetAttributes(
		attribute.Bool("combat.success", res.Success),
		attribute.Int("combat.damage", res.Damage),
		attribute.Int("combat.defeated", len(res.Defeated)+len(res.Eliminated)),
	)
	outcome := "success"
	if !res.Success {
		outcome = string(res.ErrorKind)
		span.SetStatus(otelcodes.Error, res.Error)
		span.SetAttributes(attribute.String("combat.error_code", string(res.ErrorCode)))
	}
	mgr.dispatches.Add(ctx, 1, metric.WithAttributes(
		attribute.String("ability", res.Ability.String()),
		attribute.String("outcome", outcome),
	))
	if n := len(res.Defeated) + len(res.Eliminated); n > 0 {
		mgr.defeats.Add(ctx, int64(n))
	}
}

// persistGrowth writes the growth counters a dispatch changed.
func (mgr *Manager) persistGrowth(ctx context.Context, matchID string, before, after map[string]int) {
	if mgr.store == nil {
		return
	}
	for summonerID, growth := range after {
		if prev, ok := before[summonerID]; ok && prev == growth {
			continue
		}
		err := mgr.store.PutGrowth(ctx, storage.GrowthRecord{
			MatchID:    matchID,
			SummonerID: summonerID,
			Growth:     growth,
			UpdatedAt:  mgr.now(),
		})
		if err != nil {
			log.Printf("combat: persist growth %s/%s: %v", matchID, summonerID, err)
		}
	}
}

// deliver journals notifications and forwards them to the feed with their
// journal sequence.
func (mgr *Manager) deliver(ctx context.Context, notes []event.Notification) {
	if len(notes) == 0 {
		return
	}
	if mgr.store != nil {
		records := make([]storage.EventRecord, 0, len(notes))
		for _, n := range notes {
			records = append(records, toRecord(n))
		}
		if _, err := mgr.store.AppendEvents(ctx, records); err != nil {
			log.Printf("combat: journal %d notifications: %v", len(records), err)
		}
	}
	if mgr.publisher != nil {
		for _, n := range notes {
			mgr.publisher.Publish(n)
		}
	}
}

func toRecord(n event.Notification) storage.EventRecord {
	return storage.EventRecord{
		MatchID:    n.MatchID,
		Category:   string(n.Category),
		Severity:   string(n.Severity),
		ActorID:    n.ActorID,
		TargetID:   n.TargetID,
		Message:    n.Message,
		Recipients: n.Recipients,
		OccurredAt: n.OccurredAt,
	}
}

// Cooldowns is the cooldown view of one unit.
type Cooldowns struct {
	UnitID    string
	Remaining map[string]int
	Ready     []string
}

func cooldownsOf(unitID string, remaining map[string]int, ready []catalog.Code) Cooldowns {
	out := Cooldowns{UnitID: unitID, Remaining: remaining}
	for _, code := range ready {
		out.Ready = append(out.Ready, code.String())
	}
	return out
}

// BeginTurn starts a unit's turn for round: per-turn counters reset and
// cooldowns tick by one. A unit's turn can begin at most once per round.
func (mgr *Manager) BeginTurn(ctx context.Context, matchID, unitID string, round int) (Cooldowns, error) {
	if err := ctx.Err(); err != nil {
		return Cooldowns{}, err
	}
	m, err := mgr.lock(matchID)
	if err != nil {
		return Cooldowns{}, err
	}
	defer m.mu.Unlock()

	u, err := m.beginTurn(unitID, round)
	if err != nil {
		return Cooldowns{}, err
	}
	return cooldownsOf(u.ID, ability.Cooldowns(u), ability.ReadyAbilities(u)), nil
}

// GetCooldowns reports remaining cooldowns and ready abilities of a unit.
func (mgr *Manager) GetCooldowns(ctx context.Context, matchID, unitID string) (Cooldowns, error) {
	if err := ctx.Err(); err != nil {
		return Cooldowns{}, err
	}
	m, err := mgr.lock(matchID)
	if err != nil {
		return Cooldowns{}, err
	}
	defer m.mu.Unlock()

	u, err := m.unit(unitID)
	if err != nil {
		return Cooldowns{}, err
	}
	return cooldownsOf(u.ID, ability.Cooldowns(u), ability.ReadyAbilities(u)), nil
}

// GetUnit returns a copy of a unit's state.
func (mgr *Manager) GetUnit(ctx context.Context, matchID, unitID string) (UnitState, error) {
	if err := ctx.Err(); err != nil {
		return UnitState{}, err
	}
	m, err := mgr.lock(matchID)
	if err != nil {
		return UnitState{}, err
	}
	defer m.mu.Unlock()

	u, err := m.unit(unitID)
	if err != nil {
		return UnitState{}, err
	}
	state := stateOf(u)
	if u.Eidolon {
		state.Growth = mgr.registry.Growth(eidolon.Key{MatchID: matchID, SummonerID: u.SummonerID})
	}
	return state, nil
}

// Close removes a match and clears its growth state.
func (mgr *Manager) Close(ctx context.Context, matchID string) error {
	m, err := mgr.lock(matchID)
	if err != nil {
		return err
	}
	m.closed = true
	m.mu.Unlock()

	mgr.mu.Lock()
	delete(mgr.matches, matchID)
	mgr.mu.Unlock()

	mgr.registry.ClearMatch(matchID)
	if mgr.store != nil {
		if err := mgr.store.DeleteMatchGrowth(ctx, matchID); err != nil {
			return fmt.Errorf("clear growth: %w", err)
		}
		if err := mgr.store.CloseMatch(ctx, matchID, mgr.now()); err != nil {
			return fmt.Errorf("close match record: %w", err)
		}
	}
	log.Printf("combat: closed match %s", matchID)
	return nil
}

// OpenMatches returns the sorted ids of every open match.
func (mgr *Manager) OpenMatches() []string {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	ids := make([]string, 0, len(mgr.matches))
	for matchID := range mgr.matches {
		ids = append(ids, matchID)
	}
	slices.Sort(ids)
	return ids
}
