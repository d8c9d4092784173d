package grid

// Query is the input to Resolve.
type Query struct {
	Pattern Pattern
	Caster  Body
	Target  Point
	Bodies  []Body
	Bounds  Bounds
}

// Resolution lists what a pattern hit.
type Resolution struct {
	// Units are the ids of active units in the affected cells, after filters.
	Units []string
	// Obstacles are the ids of intact obstacles in the affected cells.
	Obstacles   []string
	Impact      Point
	Cells       []Point
	Intercepted bool
}

// Resolve computes the impact point, affected cells, and occupants for a
// pattern. Faction filters run after geometry so interception never depends
// on who is standing in the way.
func Resolve(q Query) Resolution {
	impact := q.Target
	intercepted := false
	if q.Pattern.Traveling() {
		impact, intercepted = travel(q)
	}

	cells := affectedCells(q, impact)
	units, obstacles := occupants(q, cells)
	return Resolution{
		Units:       units,
		Obstacles:   obstacles,
		Impact:      impact,
		Cells:       cells,
		Intercepted: intercepted,
	}
}

// travel walks the projectile path. It stops on the first active body that is
// not the caster, at the nominal target, when leaving the bounds, or when the
// travel distance runs out.
func travel(q Query) (Point, bool) {
	origin := q.Caster.Anchor
	last := origin
	for _, cell := range Line(origin, q.Target, q.Pattern.Travel) {
		if !q.Bounds.Contains(cell) {
			return last, false
		}
		if q.Caster.Occupies(cell) {
			last = cell
			continue
		}
		if _, ok := Occupant(q.Bodies, cell, q.Caster.ID); ok {
			return cell, cell != q.Target
		}
		if cell == q.Target {
			return cell, false
		}
		last = cell
	}
	return last, false
}

func affectedCells(q Query, impact Point) []Point {
	p := q.Pattern
	var cells []Point
	switch p.Shape {
	case ShapePoint:
		cells = []Point{impact}
	case ShapeSquare:
		cells = burst(impact, p.Radius, p.Metric)
	case ShapeSelf:
		cells = bodyBurst(q.Caster, p.Radius, p.Metric)
	case ShapeLine:
		cells = Line(q.Caster.Anchor, q.Target, max(p.Length, 1))
	}

	inside := cells[:0]
	for _, cell := range cells {
		if q.Bounds.Contains(cell) {
			inside = append(inside, cell)
		}
	}
	return inside
}

func burst(center Point, radius int, m Metric) []Point {
	r := max(radius, 0)
	cells := make([]Point, 0, (2*r+1)*(2*r+1))
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			cell := Point{X: center.X + dx, Y: center.Y + dy}
			if m.Distance(center, cell) <= r {
				cells = append(cells, cell)
			}
		}
	}
	return cells
}

// bodyBurst is burst measured from every cell of a footprint, so a large
// caster reaches as far from its bottom and right edges as from its anchor.
// The footprint itself is included.
func bodyBurst(body Body, radius int, m Metric) []Point {
	r := max(radius, 0)
	edge := max(body.Size, 1)
	cells := make([]Point, 0, (2*r+edge)*(2*r+edge))
	for y := body.Anchor.Y - r; y < body.Anchor.Y+edge+r; y++ {
		for x := body.Anchor.X - r; x < body.Anchor.X+edge+r; x++ {
			cell := Point{X: x, Y: y}
			if FootprintDistance(m, cell, 1, body.Anchor, edge) <= r {
				cells = append(cells, cell)
			}
		}
	}
	return cells
}

func occupants(q Query, cells []Point) ([]string, []string) {
	var units, obstacles []string
	for _, body := range q.Bodies {
		if !body.Active || !touches(body, cells) {
			continue
		}
		if body.Kind == BodyObstacle {
			obstacles = append(obstacles, body.ID)
			continue
		}
		if keep(q, body) {
			units = append(units, body.ID)
		}
	}
	return units, obstacles
}

func touches(body Body, cells []Point) bool {
	for _, cell := range cells {
		if body.Occupies(cell) {
			return true
		}
	}
	return false
}

func keep(q Query, body Body) bool {
	if body.ID == q.Caster.ID {
		return !q.Pattern.ExcludeCaster && q.Pattern.Filter != FilterEnemies
	}
	switch q.Pattern.Filter {
	case FilterEnemies:
		return body.Faction != q.Caster.Faction
	case FilterAllies:
		return body.Faction == q.Caster.Faction
	default:
		return true
	}
}
