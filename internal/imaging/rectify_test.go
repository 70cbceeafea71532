package imaging

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestOrderQuad(t *testing.T) {
	// Shuffled corners of a slightly skewed quadrilateral.
	in := [4]image.Point{
		{X: 90, Y: 80},  // bottom-right
		{X: 10, Y: 12},  // top-left
		{X: 8, Y: 85},   // bottom-left
		{X: 95, Y: 10},  // top-right
	}

	got := orderQuad(in)

	want := [4]image.Point{
		{X: 10, Y: 12},
		{X: 95, Y: 10},
		{X: 90, Y: 80},
		{X: 8, Y: 85},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("corner %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSolveHomography_MapsCorners(t *testing.T) {
	src := [4][2]float64{{0, 0}, {99, 0}, {99, 49}, {0, 49}}
	dst := [4][2]float64{{10, 5}, {120, 15}, {110, 70}, {5, 60}}

	h := solveHomography(src, dst)

	for i := 0; i < 4; i++ {
		x, y := src[i][0], src[i][1]
		w := h[6]*x + h[7]*y + h[8]
		px := (h[0]*x + h[1]*y + h[2]) / w
		py := (h[3]*x + h[4]*y + h[5]) / w
		if math.Abs(px-dst[i][0]) > 1e-6 || math.Abs(py-dst[i][1]) > 1e-6 {
			t.Errorf("corner %d maps to (%g, %g), want (%g, %g)", i, px, py, dst[i][0], dst[i][1])
		}
	}
}

func TestWarpPerspective_AxisAligned(t *testing.T) {
	src := fillImage(100, 100, color.White)
	for y := 10; y < 60; y++ {
		for x := 10; x < 90; x++ {
			src.Set(x, y, color.RGBA{200, 10, 10, 255})
		}
	}

	corners := [4]image.Point{{10, 10}, {89, 10}, {89, 59}, {10, 59}}
	out := WarpPerspective(src, corners)

	if out.Bounds().Dx() != 79 || out.Bounds().Dy() != 49 {
		t.Fatalf("warped dims = %dx%d, want 79x49", out.Bounds().Dx(), out.Bounds().Dy())
	}

	c := out.NRGBAAt(out.Bounds().Dx()/2, out.Bounds().Dy()/2)
	if c.R < 150 || c.G > 60 {
		t.Errorf("warp center = %v, expected the red fill", c)
	}
}

func TestDetectQuad_FilledRectangle(t *testing.T) {
	img := fillImage(200, 200, color.White)
	for y := 30; y <= 170; y++ {
		for x := 30; x <= 170; x++ {
			img.Set(x, y, color.Black)
		}
	}

	corners, ok := DetectQuad(img)
	if !ok {
		t.Fatal("rectangle covering half the image not detected")
	}

	want := [4]image.Point{{30, 30}, {170, 30}, {170, 170}, {30, 170}}
	const tol = 8
	for i := range want {
		dx := corners[i].X - want[i].X
		dy := corners[i].Y - want[i].Y
		if dx < -tol || dx > tol || dy < -tol || dy > tol {
			t.Errorf("corner %d = %v, want %v ± %d", i, corners[i], want[i], tol)
		}
	}
}

func TestDetectQuad_None(t *testing.T) {
	if _, ok := DetectQuad(fillImage(100, 100, color.Gray{120})); ok {
		t.Error("uniform image should not yield a quadrilateral")
	}
}
