package grid

// Shape names the geometry of a targeting pattern.
type Shape int

const (
	// ShapePoint affects the target cell only.
	ShapePoint Shape = iota
	// ShapeSquare affects every cell within Radius of the impact point.
	ShapeSquare
	// ShapeLine affects Length cells walked from the caster toward the target.
	ShapeLine
	// ShapeSelf affects every cell within Radius of the caster.
	ShapeSelf
)

// String returns the shape label used in result metadata.
func (s Shape) String() string {
	switch s {
	case ShapePoint:
		return "point"
	case ShapeSquare:
		return "square"
	case ShapeLine:
		return "line"
	case ShapeSelf:
		return "self"
	default:
		return "unknown"
	}
}

// Filter restricts which units are reported after geometry is resolved.
type Filter int

const (
	FilterAny Filter = iota
	FilterEnemies
	FilterAllies
)

// Pattern describes how an ability selects cells.
//
// A pattern with Travel > 0 is a traveling projectile: it walks from the
// caster toward the target and detonates on the first obstruction. The area
// shape is then applied around the impact point.
type Pattern struct {
	Shape         Shape
	Radius        int
	Length        int
	Travel        int
	Metric        Metric
	Filter        Filter
	ExcludeCaster bool
}

// Traveling reports whether the pattern walks toward its target.
func (p Pattern) Traveling() bool {
	return p.Travel > 0
}

// BodyKind distinguishes units from terrain on the grid.
type BodyKind int

const (
	BodyUnit BodyKind = iota
	BodyObstacle
)

// Body is the geometric view of a unit or obstacle.
//
// Active is true for living units and for obstacles that are not destroyed.
type Body struct {
	ID      string
	Kind    BodyKind
	Faction string
	Anchor  Point
	Size    int
	Active  bool
}

// Occupies reports whether the body covers the cell.
func (b Body) Occupies(cell Point) bool {
	return Covers(b.Anchor, b.Size, cell)
}

// Cells returns the body's footprint.
func (b Body) Cells() []Point {
	return Footprint(b.Anchor, b.Size)
}

// Occupant returns the first active body covering the cell, skipping the
// body with the excluded id.
func Occupant(bodies []Body, cell Point, exclude string) (Body, bool) {
	for _, body := range bodies {
		if !body.Active || body.ID == exclude {
			continue
		}
		if body.Occupies(cell) {
			return body, true
		}
	}
	return Body{}, false
}

// InRange reports whether two bodies are within rng cells of each other,
// measured between the closest occupied cells.
func InRange(m Metric, from Body, to Body, rng int) bool {
	return FootprintDistance(m, from.Anchor, from.Size, to.Anchor, to.Size) <= rng
}
