package imaging

import (
	"image"
	"math"
	"sort"
)

// ConvexHull returns the convex hull of a point set in counter-clockwise
// order (image coordinates, Y down), using the Andrew monotone chain
// construction. Inputs of fewer than 3 points are returned as-is.
func ConvexHull(points []image.Point) []image.Point {
	if len(points) < 3 {
		out := make([]image.Point, len(points))
		copy(out, points)
		return out
	}

	pts := make([]image.Point, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	cross := func(o, a, b image.Point) int {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	var lower []image.Point
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	var upper []image.Point
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	// Endpoints of each chain repeat in the other.
	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// PolygonArea returns the absolute shoelace area of a polygon.
func PolygonArea(poly []image.Point) float64 {
	if len(poly) < 3 {
		return 0
	}
	sum := 0.0
	for i := range poly {
		j := (i + 1) % len(poly)
		sum += float64(poly[i].X)*float64(poly[j].Y) - float64(poly[j].X)*float64(poly[i].Y)
	}
	return math.Abs(sum) / 2
}

// polygonPerimeter returns the closed-ring perimeter of a polygon.
func polygonPerimeter(poly []image.Point) float64 {
	if len(poly) < 2 {
		return 0
	}
	sum := 0.0
	for i := range poly {
		j := (i + 1) % len(poly)
		sum += pointDistance(poly[i], poly[j])
	}
	return sum
}

func pointDistance(a, b image.Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// approxPolygon simplifies a closed polygon with the Douglas-Peucker
// algorithm: vertices closer than epsilon to the chord between their
// neighbors are dropped. The ring is split at its two mutually farthest
// vertices so the open-curve recursion applies cleanly.
func approxPolygon(ring []image.Point, epsilon float64) []image.Point {
	if len(ring) < 4 {
		out := make([]image.Point, len(ring))
		copy(out, ring)
		return out
	}

	// Anchor the split at the two farthest-apart vertices.
	ai, bi := 0, 0
	best := -1.0
	for i := 0; i < len(ring); i++ {
		for j := i + 1; j < len(ring); j++ {
			if d := pointDistance(ring[i], ring[j]); d > best {
				best = d
				ai, bi = i, j
			}
		}
	}

	first := append([]image.Point{}, ring[ai:bi+1]...)
	second := append([]image.Point{}, ring[bi:]...)
	second = append(second, ring[:ai+1]...)

	simplified := douglasPeucker(first, epsilon)
	tail := douglasPeucker(second, epsilon)

	// Drop the shared endpoints when joining the halves back into a ring.
	if len(tail) > 2 {
		simplified = append(simplified, tail[1:len(tail)-1]...)
	}
	return simplified
}

func douglasPeucker(points []image.Point, epsilon float64) []image.Point {
	if len(points) < 3 {
		out := make([]image.Point, len(points))
		copy(out, points)
		return out
	}

	a := points[0]
	b := points[len(points)-1]
	maxDist := -1.0
	maxIdx := 0
	for i := 1; i < len(points)-1; i++ {
		if d := perpendicularDistance(points[i], a, b); d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}

	if maxDist <= epsilon {
		return []image.Point{a, b}
	}

	left := douglasPeucker(points[:maxIdx+1], epsilon)
	right := douglasPeucker(points[maxIdx:], epsilon)
	return append(left[:len(left)-1], right...)
}

func perpendicularDistance(p, a, b image.Point) float64 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	norm := math.Sqrt(dx*dx + dy*dy)
	if norm == 0 {
		return pointDistance(p, a)
	}
	return math.Abs(dy*float64(p.X)-dx*float64(p.Y)+float64(b.X)*float64(a.Y)-float64(b.Y)*float64(a.X)) / norm
}
