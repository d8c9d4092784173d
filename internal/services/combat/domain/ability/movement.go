package ability

import (
	apperrors "github.com/louisbranch/skirmish/internal/platform/errors"
)

// Dash moves the caster to a free cell within range.
func Dash(c *Context) (Result, error) {
	scan, err := c.scanCaster()
	if err != nil {
		return Result{}, err
	}
	pos, err := c.position()
	if err != nil {
		return Result{}, err
	}
	if !c.Arena.Free(pos, c.Caster.Size.Edge(), c.Caster.ID) {
		return Result{}, apperrors.WithMetadata(apperrors.CodePositionInvalid, "destination is blocked",
			map[string]string{"Position": pos.String()})
	}

	var res Result
	c.Caster.Position = pos
	res.moved(c.Caster.ID, pos)
	res.Impact = &pos
	c.finishCaster(scan)
	return res, nil
}

// Swap exchanges positions with another living unit when both footprints fit.
func Swap(c *Context) (Result, error) {
	scan, err := c.scanCaster()
	if err != nil {
		return Result{}, err
	}
	target, err := c.targetUnit()
	if err != nil {
		return Result{}, err
	}
	if target.ID == c.Caster.ID {
		return Result{}, apperrors.New(apperrors.CodeTargetInvalid, "cannot swap with self")
	}
	if err := c.checkRange(target.Body(), c.Def.Range); err != nil {
		return Result{}, err
	}
	casterPos, targetPos := c.Caster.Position, target.Position
	ignore := []string{c.Caster.ID, target.ID}
	if !c.Arena.Free(targetPos, c.Caster.Size.Edge(), ignore...) || !c.Arena.Free(casterPos, target.Size.Edge(), ignore...) {
		return Result{}, apperrors.WithMetadata(apperrors.CodePositionInvalid, "swap footprints do not fit",
			map[string]string{"TargetID": target.ID})
	}

	var res Result
	c.Caster.Position, target.Position = targetPos, casterPos
	res.addTarget(target.ID)
	res.moved(c.Caster.ID, targetPos)
	res.moved(target.ID, casterPos)
	c.finishCaster(scan)
	return res, nil
}
