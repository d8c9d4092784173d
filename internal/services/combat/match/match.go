package match

import (
	"fmt"
	"strings"
	"sync"
	"time"

	apperrors "github.com/louisbranch/skirmish/internal/platform/errors"
	"github.com/louisbranch/skirmish/internal/random"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/ability"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/catalog"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/death"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/eidolon"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/event"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/grid"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/unit"
)

// Config describes a match to open.
type Config struct {
	// ID is generated when empty.
	ID     string
	Ranked bool
	// Seed is generated when nil.
	Seed      *int64
	Width     int
	Height    int
	Units     []unit.Spec
	Obstacles []unit.Obstacle
}

// Validate checks the configuration before any state is built.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return apperrors.WithMetadata(apperrors.CodeMatchInvalid,
			fmt.Sprintf("arena must have positive dimensions, got %dx%d", c.Width, c.Height),
			map[string]string{"Reason": "arena dimensions must be positive"})
	}
	if len(c.Units) == 0 {
		return apperrors.WithMetadata(apperrors.CodeMatchInvalid, "match needs at least one unit",
			map[string]string{"Reason": "at least one unit is required"})
	}
	for _, spec := range c.Units {
		if strings.TrimSpace(spec.ID) == "" {
			return apperrors.WithMetadata(apperrors.CodeMatchInvalid, "unit id is required",
				map[string]string{"Reason": "unit id is required"})
		}
		if err := spec.Attributes.Validate(); err != nil {
			return apperrors.WithMetadata(apperrors.CodeMatchInvalid,
				fmt.Sprintf("unit %s: %v", spec.ID, err),
				map[string]string{"Reason": err.Error()})
		}
	}
	return nil
}

// Match is one live battle.
type Match struct {
	mu sync.Mutex

	id       string
	ranked   bool
	seed     int64
	openedAt time.Time
	arena    *unit.Arena
	session  ability.Session
	buffer   *event.Buffer
	sight    event.Sight
	// ticked records the last round each unit's turn began in.
	ticked map[string]int
	closed bool
}

// ID returns the match id.
func (m *Match) ID() string { return m.id }

// Ranked reports whether ranked cooldown rules apply.
func (m *Match) Ranked() bool { return m.ranked }

// Seed returns the seed the match RNG was built from.
func (m *Match) Seed() int64 { return m.seed }

// build assembles the arena and session for cfg. It runs before the match is
// visible to anyone else.
func build(cfg Config, seed int64, cat *catalog.Catalog, registry *eidolon.Registry, sightRadius int, now func() time.Time, newID func() string) (*Match, error) {
	arena := unit.NewArena(grid.Bounds{Width: cfg.Width, Height: cfg.Height})
	mult := cat.Multipliers()
	for _, spec := range cfg.Units {
		u := unit.New(spec, mult)
		if !arena.Free(u.Position, u.Size.Edge()) {
			return nil, apperrors.WithMetadata(apperrors.CodeMatchInvalid,
				fmt.Sprintf("unit %s does not fit at %v", spec.ID, u.Position),
				map[string]string{"Reason": "units must fit the arena without overlapping"})
		}
		if _, err := arena.Add(u); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeMatchInvalid, fmt.Sprintf("add unit %s: %v", spec.ID, err), err)
		}
	}
	for i := range cfg.Obstacles {
		obstacle := cfg.Obstacles[i]
		if err := arena.AddObstacle(&obstacle); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeMatchInvalid, fmt.Sprintf("add obstacle %s: %v", obstacle.ID, err), err)
		}
	}

	buffer := &event.Buffer{}
	sight := event.Sight{Arena: arena, Radius: sightRadius}
	creature, ok := cat.Summon(catalog.SummonEidolon)
	if !ok {
		creature = catalog.Eidolon
	}
	rules := eidolon.Rules{
		MatchID:  cfg.ID,
		Registry: registry,
		Creature: creature,
		Mult:     mult,
	}
	m := &Match{
		id:       cfg.ID,
		ranked:   cfg.Ranked,
		seed:     seed,
		openedAt: now(),
		arena:    arena,
		buffer:   buffer,
		sight:    sight,
		ticked:   make(map[string]int),
	}
	m.session = ability.Session{
		MatchID: cfg.ID,
		Arena:   arena,
		Ranked:  cfg.Ranked,
		Rand:    random.New(seed),
		Deaths: death.Cascade{
			MatchID:    cfg.ID,
			Arena:      arena,
			Eidolons:   rules,
			Sink:       buffer,
			Visibility: sight,
			Now:        now,
		},
		Eidolons: rules,
		NewID:    newID,
	}
	return m, nil
}

// unit resolves a unit or returns UNIT_NOT_FOUND.
func (m *Match) unit(id string) (*unit.Unit, error) {
	u, ok := m.arena.Unit(id)
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeUnitNotFound, fmt.Sprintf("unit %q not found", id),
			map[string]string{"UnitID": id})
	}
	return u, nil
}

// beginTurn resets per-turn counters and ticks cooldowns once per round.
func (m *Match) beginTurn(unitID string, round int) (*unit.Unit, error) {
	if round < 1 {
		return nil, apperrors.WithMetadata(apperrors.CodeMatchInvalid, fmt.Sprintf("round must be positive, got %d", round),
			map[string]string{"Reason": "round must be positive"})
	}
	u, err := m.unit(unitID)
	if err != nil {
		return nil, err
	}
	if !u.Alive {
		return nil, apperrors.WithMetadata(apperrors.CodeCasterDefeated, fmt.Sprintf("unit %s is defeated", u.ID),
			map[string]string{"UnitID": u.ID})
	}
	if last, ok := m.ticked[u.ID]; ok && round <= last {
		return nil, apperrors.WithMetadata(apperrors.CodeTurnAlreadyTicked,
			fmt.Sprintf("unit %s already began round %d", u.ID, last),
			map[string]string{"UnitID": u.ID, "Round": fmt.Sprint(last)})
	}
	u.ResetTurn()
	ability.Tick(u)
	m.ticked[u.ID] = round
	return u, nil
}
