// Package grid holds cell geometry and the targeting/area engine.
package grid

import "fmt"

// Point is an integer grid cell.
type Point struct {
	X int
	Y int
}

// String renders the point as "(x,y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Bounds is the playable area; valid cells are 0 <= x < Width, 0 <= y < Height.
type Bounds struct {
	Width  int
	Height int
}

// Contains reports whether the cell lies inside the bounds.
func (b Bounds) Contains(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < b.Width && p.Y < b.Height
}

// ContainsFootprint reports whether every cell of an anchored footprint lies inside.
func (b Bounds) ContainsFootprint(anchor Point, size int) bool {
	edge := max(size, 1)
	return b.Contains(anchor) && b.Contains(Point{X: anchor.X + edge - 1, Y: anchor.Y + edge - 1})
}

// Metric selects how distances are measured.
type Metric int

const (
	// Chebyshev counts diagonal steps as one (8-direction movement).
	Chebyshev Metric = iota
	// Manhattan counts orthogonal steps only.
	Manhattan
)

// Distance measures between two cells with the metric.
func (m Metric) Distance(a, b Point) int {
	dx, dy := abs(a.X-b.X), abs(a.Y-b.Y)
	if m == Manhattan {
		return dx + dy
	}
	return max(dx, dy)
}

// ChebyshevDistance is the default 8-direction distance.
func ChebyshevDistance(a, b Point) int {
	return Chebyshev.Distance(a, b)
}

// Footprint returns every cell covered by a body anchored at its top-left
// cell with the given edge size.
func Footprint(anchor Point, size int) []Point {
	edge := max(size, 1)
	cells := make([]Point, 0, edge*edge)
	for dy := 0; dy < edge; dy++ {
		for dx := 0; dx < edge; dx++ {
			cells = append(cells, Point{X: anchor.X + dx, Y: anchor.Y + dy})
		}
	}
	return cells
}

// Covers reports whether a footprint includes the cell.
func Covers(anchor Point, size int, cell Point) bool {
	edge := max(size, 1)
	return cell.X >= anchor.X && cell.X < anchor.X+edge &&
		cell.Y >= anchor.Y && cell.Y < anchor.Y+edge
}

// FootprintDistance is the smallest metric distance between any cell of two
// footprints, so large bodies are reachable from any occupied cell.
func FootprintDistance(m Metric, a Point, aSize int, b Point, bSize int) int {
	ca, cb := ClosestCells(m, a, aSize, b, bSize)
	return m.Distance(ca, cb)
}

// ClosestCells returns the nearest pair of cells between two footprints,
// preferring the first pair in row-major order on ties.
func ClosestCells(m Metric, a Point, aSize int, b Point, bSize int) (Point, Point) {
	best := -1
	var bestA, bestB Point
	for _, ca := range Footprint(a, aSize) {
		for _, cb := range Footprint(b, bSize) {
			d := m.Distance(ca, cb)
			if best < 0 || d < best {
				best, bestA, bestB = d, ca, cb
			}
		}
	}
	return bestA, bestB
}

// Step returns the unit direction from a toward b on each axis.
func Step(a, b Point) Point {
	return Point{X: sign(b.X - a.X), Y: sign(b.Y - a.Y)}
}

// Line walks from origin toward target with Bresenham's algorithm and returns
// up to limit cells, excluding the origin. A limit <= 0 walks to the target.
// The walk continues past the target along the same slope when limit exceeds
// the distance.
func Line(origin, target Point, limit int) []Point {
	dx, dy := abs(target.X-origin.X), abs(target.Y-origin.Y)
	sx, sy := sign(target.X-origin.X), sign(target.Y-origin.Y)
	if dx == 0 && dy == 0 {
		return nil
	}
	if limit <= 0 {
		limit = max(dx, dy)
	}

	cells := make([]Point, 0, limit)
	x, y := origin.X, origin.Y
	err := dx - dy
	for len(cells) < limit {
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
		cells = append(cells, Point{X: x, Y: y})
	}
	return cells
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
