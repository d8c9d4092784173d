package ability

import (
	apperrors "github.com/louisbranch/skirmish/internal/platform/errors"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/catalog"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/condition"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/eidolon"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/unit"
)

// Heal restores HP to an ally in range.
func Heal(c *Context) (Result, error) {
	scan, err := c.scanCaster()
	if err != nil {
		return Result{}, err
	}
	target, err := c.allyOrEnemy()
	if err != nil {
		return Result{}, err
	}

	var res Result
	res.addTarget(target.ID)
	res.Healing = target.Heal(c.power(scan.Modifiers.BonusDamage))
	res.TargetHPAfter = target.HP
	c.finishCaster(scan)
	return res, nil
}

// Enchant grants the definition's condition to the caster or a unit target.
func Enchant(c *Context) (Result, error) {
	scan, err := c.scanCaster()
	if err != nil {
		return Result{}, err
	}
	target := c.Caster
	if c.Def.Target == catalog.TargetUnit {
		if target, err = c.allyOrEnemy(); err != nil {
			return Result{}, err
		}
	}

	var res Result
	res.addTarget(target.ID)
	target.Conditions = condition.Add(target.Conditions, c.Def.Applies)
	c.finishCaster(scan)
	return res, nil
}

// ManaDrain moves mana from an enemy to the caster, capped by what the
// enemy has and what the caster can hold.
func ManaDrain(c *Context) (Result, error) {
	scan, err := c.scanCaster()
	if err != nil {
		return Result{}, err
	}
	target, err := c.allyOrEnemy()
	if err != nil {
		return Result{}, err
	}
	amount := min(c.power(scan.Modifiers.BonusDamage), target.Mana, c.Caster.Max.Mana-c.Caster.Mana)
	if amount <= 0 {
		return Result{}, apperrors.WithMetadata(apperrors.CodeNothingToTransfer, "no mana to transfer",
			map[string]string{"TargetID": target.ID})
	}

	var res Result
	res.addTarget(target.ID)
	target.SpendMana(amount)
	res.Transferred = c.Caster.GainMana(amount)
	c.finishCaster(scan)
	return res, nil
}

// ResistanceDrain moves physical protection from the caster's adjacent
// bonded creature to the caster. Partial transfers are allowed.
func ResistanceDrain(c *Context) (Result, error) {
	scan, err := c.scanCaster()
	if err != nil {
		return Result{}, err
	}
	creature, err := c.targetUnit()
	if err != nil {
		return Result{}, err
	}
	if !creature.Eidolon || !creature.IsSummonOf(c.Caster.ID) {
		return Result{}, apperrors.WithMetadata(apperrors.CodeTargetInvalid, "target must be the caster's eidolon",
			map[string]string{"TargetID": creature.ID})
	}
	if err := c.checkRange(creature.Body(), c.Def.Range); err != nil {
		return Result{}, err
	}
	amount, err := eidolon.DrainResistance(c.Caster, creature)
	if err != nil {
		return Result{}, err
	}

	var res Result
	res.addTarget(creature.ID)
	res.Transferred = amount
	c.finishCaster(scan)
	return res, nil
}

// SummonEidolon brings the caster's bonded creature into play.
func SummonEidolon(c *Context) (Result, error) {
	scan, err := c.scanCaster()
	if err != nil {
		return Result{}, err
	}
	pos, err := c.position()
	if err != nil {
		return Result{}, err
	}
	if c.NewID == nil {
		return Result{}, apperrors.New(apperrors.CodeMatchInvalid, "summon requires an id generator")
	}
	creature, err := c.Eidolons.Summon(c.Arena, c.Caster, c.NewID(), pos)
	if err != nil {
		return Result{}, err
	}

	var res Result
	res.SummonedID = creature.ID
	res.addTarget(creature.ID)
	res.Impact = &pos
	c.finishCaster(scan)
	return res, nil
}

// allyOrEnemy resolves a living unit target that satisfies the definition's
// faction filter and range.
func (c *Context) allyOrEnemy() (*unit.Unit, error) {
	target, err := c.targetUnit()
	if err != nil {
		return nil, err
	}
	if err := c.checkFaction(target); err != nil {
		return nil, err
	}
	if err := c.checkRange(target.Body(), c.Def.Range); err != nil {
		return nil, err
	}
	return target, nil
}
