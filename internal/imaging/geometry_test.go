package imaging

import (
	"image"
	"testing"
)

func TestConvexHull_SquareWithInterior(t *testing.T) {
	pts := []image.Point{
		{0, 0}, {10, 0}, {10, 10}, {0, 10},
		{5, 5}, {3, 7}, {9, 2}, // interior points must vanish
	}

	hull := ConvexHull(pts)
	if len(hull) != 4 {
		t.Fatalf("hull size = %d, want 4 (%v)", len(hull), hull)
	}

	seen := map[image.Point]bool{}
	for _, p := range hull {
		seen[p] = true
	}
	for _, want := range []image.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}} {
		if !seen[want] {
			t.Errorf("hull missing corner %v", want)
		}
	}
}

func TestConvexHull_Degenerate(t *testing.T) {
	pts := []image.Point{{1, 1}, {2, 2}}
	hull := ConvexHull(pts)
	if len(hull) != 2 {
		t.Errorf("hull of 2 points = %d points, want passthrough", len(hull))
	}
}

func TestPolygonArea(t *testing.T) {
	square := []image.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if area := PolygonArea(square); area != 100 {
		t.Errorf("square area = %g, want 100", area)
	}

	triangle := []image.Point{{0, 0}, {10, 0}, {0, 10}}
	if area := PolygonArea(triangle); area != 50 {
		t.Errorf("triangle area = %g, want 50", area)
	}

	if area := PolygonArea([]image.Point{{0, 0}, {1, 1}}); area != 0 {
		t.Errorf("degenerate area = %g, want 0", area)
	}
}

func TestApproxPolygon_RectangleRing(t *testing.T) {
	// Dense ring around a rectangle outline collapses to its 4 corners.
	var ring []image.Point
	for x := 0; x <= 60; x++ {
		ring = append(ring, image.Point{X: x, Y: 0})
	}
	for y := 1; y <= 40; y++ {
		ring = append(ring, image.Point{X: 60, Y: y})
	}
	for x := 59; x >= 0; x-- {
		ring = append(ring, image.Point{X: x, Y: 40})
	}
	for y := 39; y >= 1; y-- {
		ring = append(ring, image.Point{X: 0, Y: y})
	}

	approx := approxPolygon(ring, 0.02*polygonPerimeter(ring))
	if len(approx) != 4 {
		t.Errorf("approximation has %d vertices, want 4 (%v)", len(approx), approx)
	}
}
