package imaging

import (
	"image"
	"testing"
)

// stepImage creates a grayscale image split into a dark left half and a
// light right half.
func stepImage(width, height, splitX int) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(20)
			if x >= splitX {
				v = 230
			}
			g.Pix[g.PixOffset(x, y)] = v
		}
	}
	return g
}

func TestSobelGradient_Step(t *testing.T) {
	g := stepImage(40, 40, 20)
	grad := SobelGradient(g)

	if grad.Width != 40 || grad.Height != 40 {
		t.Fatalf("gradient dims = %dx%d, want 40x40", grad.Width, grad.Height)
	}

	// Strong horizontal gradient at the step, none in the flat regions.
	if grad.Mag[20][19] < 400 {
		t.Errorf("magnitude at step = %g, want >= 400", grad.Mag[20][19])
	}
	if grad.Mag[20][5] != 0 {
		t.Errorf("magnitude in flat region = %g, want 0", grad.Mag[20][5])
	}
	if grad.GY[20][19] != 0 {
		t.Errorf("vertical response on vertical edge = %g, want 0", grad.GY[20][19])
	}
}

func TestCannyEdges_Step(t *testing.T) {
	g := stepImage(40, 40, 20)
	edges := CannyEdges(g, 50, 150)

	found := false
	for x := 17; x <= 22; x++ {
		if edges[20][x] {
			found = true
		}
	}
	if !found {
		t.Error("no edge detected along a hard intensity step")
	}

	if edges[20][5] || edges[20][35] {
		t.Error("edge reported in a flat region")
	}
}

func TestCannyEdges_Uniform(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 30, 30))
	for i := range g.Pix {
		g.Pix[i] = 128
	}

	edges := CannyEdges(g, 50, 150)
	for y := range edges {
		for x := range edges[y] {
			if edges[y][x] {
				t.Fatalf("uniform image produced edge at (%d,%d)", x, y)
			}
		}
	}
}
