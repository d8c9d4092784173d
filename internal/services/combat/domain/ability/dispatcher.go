package ability

import (
	"fmt"
	"log"
	"strconv"

	apperrors "github.com/louisbranch/skirmish/internal/platform/errors"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/catalog"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/unit"
)

// RankedCooldownMultiplier scales every cooldown set in a ranked session.
const RankedCooldownMultiplier = 2

// Dispatcher resolves requests against a catalog and an executor table.
type Dispatcher struct {
	catalog   *catalog.Catalog
	executors Table
}

// NewDispatcher creates a dispatcher with the standard executor table.
func NewDispatcher(cat *catalog.Catalog) *Dispatcher {
	return NewDispatcherWithTable(cat, Standard())
}

// NewDispatcherWithTable creates a dispatcher with a custom executor table.
func NewDispatcherWithTable(cat *catalog.Catalog, table Table) *Dispatcher {
	return &Dispatcher{catalog: cat, executors: table}
}

// Catalog returns the definitions the dispatcher resolves against.
func (d *Dispatcher) Catalog() *catalog.Catalog {
	return d.catalog
}

// Dispatch runs Lookup, Cooldown Check, Resource Check, Execute, and
// Post-process. Failed dispatches leave every unit unchanged.
func (d *Dispatcher) Dispatch(s Session, req Request) Result {
	def, exec, err := d.lookup(req.Ability)
	if err != nil {
		log.Printf("combat: match %s: %v", s.MatchID, err)
		return failure(req.Ability, req.CasterID, err)
	}

	caster, err := resolveCaster(s, req)
	if err != nil {
		return failure(req.Ability, req.CasterID, err)
	}

	if remaining := caster.Cooldown(def.Code); remaining > 0 {
		res := failure(def.Code, caster.ID, apperrors.WithMetadata(apperrors.CodeAbilityOnCooldown,
			fmt.Sprintf("%s is on cooldown for %d more round(s)", def.Code, remaining),
			map[string]string{"Ability": def.Code.String(), "Remaining": strconv.Itoa(remaining)}))
		res.CooldownRemaining = remaining
		res.ActionsLeft = caster.ActionsLeft
		return res
	}

	if err := checkResources(def, caster.ActionsLeft, caster.Mana); err != nil {
		res := failure(def.Code, caster.ID, err)
		res.ActionsLeft = caster.ActionsLeft
		return res
	}

	ctx := &Context{
		Session:  s,
		Caster:   caster,
		Def:      def,
		TargetID: req.TargetID,
		Position: req.Position,
	}
	res, err := exec(ctx)
	if err != nil {
		out := failure(def.Code, caster.ID, err)
		out.ActionsLeft = caster.ActionsLeft
		return out
	}

	d.postProcess(s, ctx, &res)
	return res
}

func (d *Dispatcher) lookup(code catalog.Code) (catalog.Definition, Executor, error) {
	def, ok := d.catalog.Lookup(code)
	if !code.Valid() || !ok {
		return def, nil, apperrors.WithMetadata(apperrors.CodeAbilityNotFound,
			fmt.Sprintf("ability %s has no definition", code),
			map[string]string{"Ability": code.String()})
	}
	exec := d.executors[code]
	if exec == nil {
		return def, nil, apperrors.WithMetadata(apperrors.CodeAbilityExecutorMissing,
			fmt.Sprintf("ability %s has no executor", code),
			map[string]string{"Ability": code.String()})
	}
	return def, exec, nil
}

func resolveCaster(s Session, req Request) (*unit.Unit, error) {
	caster, ok := s.Arena.Unit(req.CasterID)
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeUnitNotFound, "caster not found",
			map[string]string{"UnitID": req.CasterID})
	}
	if !caster.Alive {
		return nil, apperrors.WithMetadata(apperrors.CodeCasterDefeated, "caster is defeated",
			map[string]string{"UnitID": req.CasterID})
	}
	if !caster.Knows(req.Ability) {
		return nil, apperrors.WithMetadata(apperrors.CodeAbilityNotKnown,
			fmt.Sprintf("%s does not know %s", caster.ID, req.Ability),
			map[string]string{"Caster": caster.ID, "Ability": req.Ability.String()})
	}
	return caster, nil
}

// checkResources enforces the action and mana requirements of a definition.
func checkResources(def catalog.Definition, actionsLeft, mana int) error {
	if def.ConsumesAction && !def.ExecutorSpendsAction && actionsLeft < 1 {
		return apperrors.New(apperrors.CodeNoActionsLeft, "no actions left this turn")
	}
	if cost := def.ManaCost(); mana < cost {
		return apperrors.WithMetadata(apperrors.CodeInsufficientMana,
			fmt.Sprintf("%s needs %d mana", def.Code, cost),
			map[string]string{
				"Ability":   def.Code.String(),
				"Required":  strconv.Itoa(cost),
				"Available": strconv.Itoa(mana),
			})
	}
	return nil
}

// postProcess pays whatever the executor did not, sets the cooldown, and
// stamps the result.
func (d *Dispatcher) postProcess(s Session, ctx *Context, res *Result) {
	caster, def := ctx.Caster, ctx.Def
	if def.ConsumesAction && !def.ExecutorSpendsAction && res.ActionsConsumed == 0 {
		caster.ActionsLeft = max(caster.ActionsLeft-1, 0)
		res.ActionsConsumed = 1
	}
	if cost := def.ManaCost(); cost > 0 && res.ManaSpent == 0 {
		res.ManaSpent = caster.SpendMana(cost)
	}

	cooldown := def.Cooldown
	if s.Ranked {
		cooldown *= RankedCooldownMultiplier
	}
	if cooldown > 0 {
		caster.Cooldowns[def.Code] = cooldown
	}

	res.Success = true
	res.CooldownApplied = cooldown
	res.Ability = def.Code
	res.CasterID = caster.ID
	res.ActionsLeft = caster.ActionsLeft
}
