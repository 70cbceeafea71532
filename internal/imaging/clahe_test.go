package imaging

import (
	"image"
	"testing"
)

func grayRange(g *image.Gray) (min, max uint8) {
	min, max = 255, 0
	for _, v := range g.Pix {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

func TestCLAHE_PreservesDimensions(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 100, 60))
	out := CLAHE(g, 2.0, 8)
	if out.Bounds().Dx() != 100 || out.Bounds().Dy() != 60 {
		t.Errorf("dims = %dx%d, want 100x60", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestCLAHE_ExpandsLowContrast(t *testing.T) {
	// Checkerboard of two close intensities so every tile sees the same
	// bimodal histogram. A permissive clip limit lets equalization spread
	// the two levels apart.
	g := image.NewGray(image.Rect(0, 0, 128, 128))
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			v := uint8(110)
			if (x+y)%2 == 1 {
				v = 140
			}
			g.Pix[g.PixOffset(x, y)] = v
		}
	}

	inMin, inMax := grayRange(g)
	out := CLAHE(g, 40.0, 2)
	outMin, outMax := grayRange(out)

	if int(outMax)-int(outMin) <= int(inMax)-int(inMin) {
		t.Errorf("contrast not expanded: input range %d, output range %d",
			int(inMax)-int(inMin), int(outMax)-int(outMin))
	}
}

func TestCLAHE_TightClipStaysClose(t *testing.T) {
	// With the standard clip limit 2.0 a mid-gray image must stay mid-gray;
	// aggressive remapping here would invent contrast from noise.
	g := image.NewGray(image.Rect(0, 0, 64, 64))
	for i := range g.Pix {
		g.Pix[i] = 128
	}

	out := CLAHE(g, 2.0, 8)
	for i, v := range out.Pix {
		if int(v) < 96 || int(v) > 160 {
			t.Fatalf("pixel %d remapped from 128 to %d", i, v)
		}
	}
}

func TestCLAHE_SingleTileDegenerate(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 16, 16))
	for i := range g.Pix {
		g.Pix[i] = 77
	}

	// tiles < 1 falls back to a single tile; must not panic and must keep dims.
	out := CLAHE(g, 2.0, 0)
	if out.Bounds() != g.Bounds() {
		t.Errorf("bounds changed: %v", out.Bounds())
	}
}
