package ability

import (
	apperrors "github.com/louisbranch/skirmish/internal/platform/errors"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/damage"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/grid"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/unit"
)

// attackTarget is exactly one of a living unit, a corpse, or an obstacle.
type attackTarget struct {
	living   *unit.Unit
	corpse   *unit.Unit
	obstacle *unit.Obstacle
}

func (t attackTarget) body() grid.Body {
	switch {
	case t.obstacle != nil:
		return t.obstacle.Body()
	case t.corpse != nil:
		return t.corpse.Body()
	default:
		return t.living.Body()
	}
}

// Attack is the basic melee strike. It pays with a bonus attack charge when
// one is left, otherwise with an action that may grant bonus attacks.
func Attack(c *Context) (Result, error) {
	caster := c.Caster
	if caster.BonusAttacksLeft <= 0 && caster.ActionsLeft < 1 {
		return Result{}, apperrors.New(apperrors.CodeNoActionsLeft, "no actions or bonus attacks left")
	}
	scan, err := c.scanCaster()
	if err != nil {
		return Result{}, err
	}
	target, err := c.resolveAttackTarget()
	if err != nil {
		return Result{}, err
	}
	body := target.body()
	if err := c.checkRange(body, c.Def.Range+scan.Modifiers.RangeBonus); err != nil {
		return Result{}, err
	}

	var res Result
	if caster.BonusAttacksLeft > 0 {
		caster.BonusAttacksLeft--
	} else {
		caster.ActionsLeft--
		res.ActionsConsumed = 1
		caster.BonusAttacksLeft = scan.Modifiers.BonusAttacks
		res.BonusAttacksGranted = scan.Modifiers.BonusAttacks
	}

	amount := max(1, caster.Attributes.Combat) + scan.Modifiers.BonusDamage
	typ := c.Def.Damage
	if scan.Modifiers.Magical && typ == damage.TypePhysical {
		typ = damage.TypeMagical
	}

	switch {
	case target.living != nil:
		res.addTarget(target.living.ID)
		h := c.strike(target.living, amount, typ, &res)
		res.FinalDamage = h.amount
		res.TargetHPAfter = target.living.HP
		res.TargetDefeated = !target.living.Alive
	case target.corpse != nil:
		res.addTarget(target.corpse.ID)
		res.FinalDamage = amount
		res.CorpseRemoved = target.corpse.HitCorpse(amount)
	case target.obstacle != nil:
		res.ObstacleIDs = append(res.ObstacleIDs, target.obstacle.ID)
		res.FinalDamage = amount
		if target.obstacle.TakeDamage(amount) {
			res.DestroyedObstacles = append(res.DestroyedObstacles, target.obstacle.ID)
		}
		res.TargetHPAfter = target.obstacle.HP
	}

	c.finishCaster(scan)
	return res, nil
}

func (c *Context) resolveAttackTarget() (attackTarget, error) {
	if c.TargetID == "" {
		return attackTarget{}, apperrors.New(apperrors.CodeTargetRequired, "attack target is required")
	}
	if c.TargetID == c.Caster.ID {
		return attackTarget{}, apperrors.New(apperrors.CodeTargetInvalid, "cannot attack self")
	}
	if u, ok := c.Arena.Unit(c.TargetID); ok {
		switch {
		case u.Alive:
			return attackTarget{living: u}, nil
		case !u.Removed:
			return attackTarget{corpse: u}, nil
		default:
			return attackTarget{}, apperrors.WithMetadata(apperrors.CodeTargetInvalid, "corpse already cleared",
				map[string]string{"TargetID": c.TargetID})
		}
	}
	if o, ok := c.Arena.Obstacle(c.TargetID); ok {
		if o.Destroyed {
			return attackTarget{}, apperrors.WithMetadata(apperrors.CodeTargetInvalid, "obstacle already destroyed",
				map[string]string{"TargetID": c.TargetID})
		}
		return attackTarget{obstacle: o}, nil
	}
	return attackTarget{}, apperrors.WithMetadata(apperrors.CodeTargetNotFound, "target not found",
		map[string]string{"TargetID": c.TargetID})
}
