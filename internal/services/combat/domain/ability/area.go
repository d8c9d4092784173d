package ability

import (
	"github.com/louisbranch/skirmish/internal/services/combat/domain/catalog"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/condition"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/damage"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/grid"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/unit"
)

// Area resolves bursts, projectiles, and lines. Cost is paid up front, then
// every living unit in the affected cells is hit independently. Knockback
// runs after direct damage and only moves survivors.
func Area(c *Context) (Result, error) {
	scan, err := c.scanCaster()
	if err != nil {
		return Result{}, err
	}
	target := c.Caster.Position
	if c.Def.Target != catalog.TargetSelf {
		if target, err = c.position(); err != nil {
			return Result{}, err
		}
	}

	var res Result
	c.spendUpFront(&res)

	resolution := grid.Resolve(grid.Query{
		Pattern: c.Def.Pattern,
		Caster:  c.Caster.Body(),
		Target:  target,
		Bodies:  c.Arena.Bodies(),
		Bounds:  c.Arena.Bounds(),
	})
	impact := resolution.Impact
	res.Impact = &impact
	res.Cells = resolution.Cells
	res.Intercepted = resolution.Intercepted

	amount := c.power(scan.Modifiers.BonusDamage)
	var survivors []*unit.Unit
	for _, id := range resolution.Units {
		u, ok := c.Arena.Unit(id)
		if !ok || !u.Alive {
			continue
		}
		res.addTarget(id)
		h := c.strike(u, amount, c.Def.Damage, &res)
		if u.Alive {
			if c.Def.Applies != "" && !h.dodged {
				u.Conditions = condition.Add(u.Conditions, c.Def.Applies)
			}
			survivors = append(survivors, u)
		}
	}
	for _, id := range resolution.Obstacles {
		o, ok := c.Arena.Obstacle(id)
		if !ok {
			continue
		}
		res.ObstacleIDs = append(res.ObstacleIDs, id)
		if o.TakeDamage(amount) {
			res.DestroyedObstacles = append(res.DestroyedObstacles, id)
		}
	}

	if c.Def.Knockback > 0 {
		for _, u := range survivors {
			dir := grid.Step(impact, u.Position)
			if c.Def.Target == catalog.TargetSelf {
				from, to := grid.ClosestCells(grid.Chebyshev, c.Caster.Position, c.Caster.Size.Edge(), u.Position, u.Size.Edge())
				dir = grid.Step(from, to)
			}
			c.knockback(u, dir, &res)
		}
	}

	c.finishCaster(scan)
	return res, nil
}

// knockback pushes u along dir one cell at a time. Hitting a unit, an
// obstacle, or the arena edge stops the push and deals collision damage.
// Self-centred pushes point away from the caster cell nearest to u.
func (c *Context) knockback(u *unit.Unit, dir grid.Point, res *Result) {
	if dir == (grid.Point{}) || !u.Alive {
		return
	}
	edge := u.Size.Edge()
	for range c.Def.Knockback {
		next := u.Position.Add(dir)
		if c.Arena.Free(next, edge, u.ID) {
			u.Position = next
			res.moved(u.ID, next)
			continue
		}
		c.collide(u, next, edge, res)
		return
	}
}

func (c *Context) collide(u *unit.Unit, next grid.Point, edge int, res *Result) {
	amount := c.Def.Collision
	if amount <= 0 {
		return
	}
	app := u.TakeDamage(amount, damage.TypePhysical)
	res.tally(u.ID, amount)
	c.checkDeath(u, app, res)

	for _, cell := range grid.Footprint(next, edge) {
		body, ok := grid.Occupant(c.Arena.Bodies(), cell, u.ID)
		if !ok {
			continue
		}
		if body.Kind == grid.BodyObstacle {
			if o, ok := c.Arena.Obstacle(body.ID); ok {
				if o.TakeDamage(amount) {
					res.DestroyedObstacles = append(res.DestroyedObstacles, o.ID)
				}
			}
			return
		}
		if other, ok := c.Arena.Unit(body.ID); ok && other.Alive {
			res.addTarget(other.ID)
			otherApp := other.TakeDamage(amount, damage.TypePhysical)
			res.tally(other.ID, amount)
			c.checkDeath(other, otherApp, res)
		}
		return
	}
}
