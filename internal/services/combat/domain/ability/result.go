// Package ability resolves dispatched abilities: lookup, cooldown and
// resource checks, execution, and post-processing.
package ability

import (
	"errors"

	apperrors "github.com/louisbranch/skirmish/internal/platform/errors"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/catalog"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/grid"
)

// Result is the uniform outcome of a dispatch. Failures carry no side
// effects; only successful results reflect mutations.
type Result struct {
	Success   bool
	Error     string
	ErrorCode apperrors.Code
	ErrorKind apperrors.Kind
	// ErrorMetadata carries the template values of the error code.
	ErrorMetadata map[string]string

	Ability  catalog.Code
	CasterID string

	// Damage and Healing are totals across every affected unit.
	Damage  int
	Healing int
	// DamageByUnit tallies damage per unit, collisions included.
	DamageByUnit map[string]int

	TargetIDs          []string
	ObstacleIDs        []string
	DestroyedObstacles []string
	Defeated           []string
	// Eliminated lists summons removed because their summoner died.
	Eliminated []string
	Dodged     []string

	// Single-target attack details.
	FinalDamage    int
	TargetHPAfter  int
	TargetDefeated bool
	CorpseRemoved  bool
	InterceptedBy  string

	ActionsConsumed     int
	ManaSpent           int
	BonusAttacksGranted int
	CooldownApplied     int
	CooldownRemaining   int
	ActionsLeft         int

	Transferred int
	SummonedID  string
	Moved       map[string]grid.Point

	Impact      *grid.Point
	Cells       []grid.Point
	Intercepted bool
}

func (r *Result) addTarget(id string) {
	for _, existing := range r.TargetIDs {
		if existing == id {
			return
		}
	}
	r.TargetIDs = append(r.TargetIDs, id)
}

func (r *Result) tally(id string, amount int) {
	if amount <= 0 {
		return
	}
	if r.DamageByUnit == nil {
		r.DamageByUnit = make(map[string]int)
	}
	r.DamageByUnit[id] += amount
	r.Damage += amount
}

func (r *Result) moved(id string, to grid.Point) {
	if r.Moved == nil {
		r.Moved = make(map[string]grid.Point)
	}
	r.Moved[id] = to
}

// failure builds the result for a rejected dispatch. Configuration defects
// are reported with a generic message.
func failure(code catalog.Code, casterID string, err error) Result {
	errCode := apperrors.CodeOf(err)
	kind := errCode.Kind()
	message := err.Error()
	var metadata map[string]string
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		metadata = appErr.Metadata
	}
	if kind == apperrors.KindConfiguration {
		message = "ability is unavailable"
		metadata = nil
	}
	return Result{
		Success:       false,
		Error:         message,
		ErrorCode:     errCode,
		ErrorKind:     kind,
		ErrorMetadata: metadata,
		Ability:       code,
		CasterID:      casterID,
	}
}
