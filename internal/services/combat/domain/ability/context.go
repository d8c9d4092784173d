package ability

import (
	"math/rand/v2"

	apperrors "github.com/louisbranch/skirmish/internal/platform/errors"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/catalog"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/condition"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/damage"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/death"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/eidolon"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/grid"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/unit"
)

// Session is the battle state a dispatch runs against. The caller owns it
// and guarantees one dispatch at a time.
type Session struct {
	MatchID  string
	Arena    *unit.Arena
	Ranked   bool
	Rand     *rand.Rand
	Deaths   death.Cascade
	Eidolons eidolon.Rules
	NewID    func() string
}

// Request names the caster, ability, and target of a dispatch.
type Request struct {
	CasterID string
	Ability  catalog.Code
	TargetID string
	Position *grid.Point
}

// Context is what an executor receives.
type Context struct {
	Session
	Caster   *unit.Unit
	Def      catalog.Definition
	TargetID string
	Position *grid.Point
}

// Executor implements one ability. It validates before mutating: an error
// return means nothing was changed.
type Executor func(*Context) (Result, error)

// scanCaster checks the caster's conditions for the ability category.
func (c *Context) scanCaster() (condition.Result, error) {
	scan := condition.Scan(c.Caster.Conditions, c.Def.Category)
	if !scan.CanPerform {
		return scan, apperrors.WithMetadata(apperrors.CodeActionBlocked, scan.BlockReason,
			map[string]string{"Condition": string(scan.BlockedBy)})
	}
	return scan, nil
}

// finishCaster expires one-shot caster conditions used by the action.
func (c *Context) finishCaster(scan condition.Result) {
	c.Caster.Conditions = condition.Apply(c.Caster.Conditions, scan)
}

// spendUpFront pays the action and mana cost before an area resolves.
func (c *Context) spendUpFront(res *Result) {
	if c.Def.ConsumesAction && c.Caster.ActionsLeft > 0 {
		c.Caster.ActionsLeft--
		res.ActionsConsumed = 1
	}
	if cost := c.Def.ManaCost(); cost > 0 {
		res.ManaSpent = c.Caster.SpendMana(cost)
	}
}

// targetUnit resolves the requested target as a living unit.
func (c *Context) targetUnit() (*unit.Unit, error) {
	if c.TargetID == "" {
		return nil, apperrors.New(apperrors.CodeTargetRequired, "target is required")
	}
	target, ok := c.Arena.Unit(c.TargetID)
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeTargetNotFound, "target not found",
			map[string]string{"TargetID": c.TargetID})
	}
	if !target.Alive {
		return nil, apperrors.WithMetadata(apperrors.CodeTargetInvalid, "target is defeated",
			map[string]string{"TargetID": c.TargetID})
	}
	return target, nil
}

// checkFaction applies the definition's ally/enemy filter to a unit target.
func (c *Context) checkFaction(target *unit.Unit) error {
	switch c.Def.Pattern.Filter {
	case grid.FilterAllies:
		if target.Faction != c.Caster.Faction {
			return apperrors.WithMetadata(apperrors.CodeTargetInvalid, "target must be an ally",
				map[string]string{"TargetID": target.ID})
		}
	case grid.FilterEnemies:
		if target.Faction == c.Caster.Faction {
			return apperrors.WithMetadata(apperrors.CodeTargetInvalid, "target must be an enemy",
				map[string]string{"TargetID": target.ID})
		}
	}
	return nil
}

// checkRange verifies a body is within rng of the caster.
func (c *Context) checkRange(to grid.Body, rng int) error {
	if !grid.InRange(grid.Chebyshev, c.Caster.Body(), to, rng) {
		return apperrors.WithMetadata(apperrors.CodeTargetOutOfRange, "target is out of range",
			map[string]string{"TargetID": to.ID})
	}
	return nil
}

// position resolves the requested cell, in bounds and in range.
func (c *Context) position() (grid.Point, error) {
	if c.Position == nil {
		return grid.Point{}, apperrors.New(apperrors.CodeTargetRequired, "target position is required")
	}
	pos := *c.Position
	if !c.Arena.Bounds().Contains(pos) {
		return pos, apperrors.WithMetadata(apperrors.CodePositionInvalid, "position is out of bounds",
			map[string]string{"Position": pos.String()})
	}
	if err := c.checkRange(grid.Body{Anchor: pos, Size: 1}, c.Def.Range); err != nil {
		return pos, err
	}
	return pos, nil
}

// power computes the base amount of a scaled ability.
func (c *Context) power(bonus int) int {
	attr := c.Caster.Attributes.Combat
	if c.Def.Category == condition.CategorySpell {
		attr = c.Caster.Attributes.Focus
	}
	return c.Def.Power + attr*c.Def.Scaling/100 + bonus
}

// hit is the outcome of striking one living unit.
type hit struct {
	recipient *unit.Unit
	amount    int
	dodged    bool
	app       damage.Application
}

// strike resolves one hit against a living unit: defender scan, dodge,
// reduction, bonded interception, damage, and death.
func (c *Context) strike(target *unit.Unit, amount int, typ damage.Type, res *Result) hit {
	defend := condition.Scan(target.Conditions, condition.CategoryDefend)
	if chance := defend.Modifiers.DodgeChance; chance > 0 && c.Rand != nil && c.Rand.IntN(100) < chance {
		res.Dodged = append(res.Dodged, target.ID)
		return hit{recipient: target, dodged: true}
	}

	amount = damage.Reduce(amount+defend.Modifiers.DamageTaken, defend.Modifiers.DamageReduction)
	recipient := target
	if guardian, ok := eidolon.Guardian(c.Arena, target, defend); ok {
		recipient = guardian
		typ = damage.TypeTrue
		res.InterceptedBy = guardian.ID
	}

	app := recipient.TakeDamage(amount, typ)
	target.Conditions = condition.Apply(target.Conditions, defend)
	res.tally(recipient.ID, amount)
	c.checkDeath(recipient, app, res)
	return hit{recipient: recipient, amount: amount, app: app}
}

// checkDeath routes a lethal application through the death cascade.
func (c *Context) checkDeath(u *unit.Unit, app damage.Application, res *Result) {
	if !app.Defeated() || !u.Alive {
		return
	}
	out := c.Deaths.Kill(u, c.Caster)
	if out.AlreadyDead {
		return
	}
	res.Defeated = append(res.Defeated, u.ID)
	res.Eliminated = append(res.Eliminated, out.Eliminated...)
}
