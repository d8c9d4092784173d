package grid

import "testing"

func TestChebyshevRangeSymmetric(t *testing.T) {
	origin := Point{X: 5, Y: 5}
	const rng = 2
	for dx := -4; dx <= 4; dx++ {
		for dy := -4; dy <= 4; dy++ {
			cell := Point{X: origin.X + dx, Y: origin.Y + dy}
			want := max(abs(dx), abs(dy)) <= rng
			from := Body{Anchor: origin, Size: 1}
			to := Body{Anchor: cell, Size: 1}
			if got := InRange(Chebyshev, from, to, rng); got != want {
				t.Fatalf("InRange(%v -> %v) = %v, want %v", origin, cell, got, want)
			}
			if got := InRange(Chebyshev, to, from, rng); got != want {
				t.Fatalf("InRange(%v -> %v) = %v, want %v", cell, origin, got, want)
			}
		}
	}
}

func TestMetricDistance(t *testing.T) {
	tests := []struct {
		name   string
		metric Metric
		a, b   Point
		want   int
	}{
		{name: "chebyshev diagonal", metric: Chebyshev, a: Point{0, 0}, b: Point{3, 3}, want: 3},
		{name: "manhattan diagonal", metric: Manhattan, a: Point{0, 0}, b: Point{3, 3}, want: 6},
		{name: "chebyshev straight", metric: Chebyshev, a: Point{2, 1}, b: Point{2, 5}, want: 4},
		{name: "same cell", metric: Manhattan, a: Point{4, 4}, b: Point{4, 4}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.metric.Distance(tt.a, tt.b); got != tt.want {
				t.Fatalf("Distance = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFootprintDistanceUsesClosestCell(t *testing.T) {
	// A 2x2 body anchored at (0,0) covers (1,1); (3,3) is two steps away.
	if got := FootprintDistance(Chebyshev, Point{0, 0}, 2, Point{3, 3}, 1); got != 2 {
		t.Fatalf("FootprintDistance = %d, want 2", got)
	}
}

func TestFootprint(t *testing.T) {
	cells := Footprint(Point{X: 2, Y: 3}, 3)
	if len(cells) != 9 {
		t.Fatalf("len(Footprint) = %d, want 9", len(cells))
	}
	if !Covers(Point{X: 2, Y: 3}, 3, Point{X: 4, Y: 5}) {
		t.Fatal("expected far corner to be covered")
	}
	if Covers(Point{X: 2, Y: 3}, 3, Point{X: 5, Y: 5}) {
		t.Fatal("expected cell past the edge to be uncovered")
	}
	if got := len(Footprint(Point{}, 0)); got != 1 {
		t.Fatalf("len(Footprint size 0) = %d, want 1", got)
	}
}

func TestLine(t *testing.T) {
	got := Line(Point{0, 0}, Point{3, 0}, 0)
	want := []Point{{1, 0}, {2, 0}, {3, 0}}
	if len(got) != len(want) {
		t.Fatalf("len(Line) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Line[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	extended := Line(Point{0, 0}, Point{2, 2}, 4)
	if last := extended[len(extended)-1]; last != (Point{4, 4}) {
		t.Fatalf("extended line end = %v, want (4,4)", last)
	}
	if Line(Point{1, 1}, Point{1, 1}, 3) != nil {
		t.Fatal("expected nil line for identical endpoints")
	}
}

func TestBoundsContainsFootprint(t *testing.T) {
	b := Bounds{Width: 10, Height: 10}
	if !b.ContainsFootprint(Point{8, 8}, 2) {
		t.Fatal("expected 2x2 at (8,8) to fit")
	}
	if b.ContainsFootprint(Point{9, 9}, 2) {
		t.Fatal("expected 2x2 at (9,9) to overflow")
	}
}
