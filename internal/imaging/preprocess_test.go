package imaging

import (
	"image"
	"image/color"
	"testing"
)

// fillImage creates a solid color test image.
func fillImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestToGray(t *testing.T) {
	tests := []struct {
		name string
		in   color.Color
		want uint8
		tol  int
	}{
		{"white", color.White, 255, 1},
		{"black", color.Black, 0, 1},
		{"red", color.RGBA{255, 0, 0, 255}, 76, 5},
		{"mid gray", color.Gray{128}, 128, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := ToGray(fillImage(8, 8, tt.in))
			got := int(g.Pix[g.PixOffset(4, 4)])
			if got < int(tt.want)-tt.tol || got > int(tt.want)+tt.tol {
				t.Errorf("luminance = %d, want %d ± %d", got, tt.want, tt.tol)
			}
		})
	}
}

func TestToGray_AlreadyGray(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 10, 10))
	if out := ToGray(g); out != g {
		t.Error("zero-origin *image.Gray should pass through unchanged")
	}
}

func TestInvert(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 4, 4))
	g.Pix[0] = 10
	g.Pix[5] = 200

	inv := Invert(g)
	if inv.Pix[0] != 245 || inv.Pix[5] != 55 {
		t.Errorf("Invert = %d, %d; want 245, 55", inv.Pix[0], inv.Pix[5])
	}

	back := Invert(inv)
	for i := range g.Pix {
		if back.Pix[i] != g.Pix[i] {
			t.Fatalf("double inversion changed pixel %d: %d != %d", i, back.Pix[i], g.Pix[i])
		}
	}
}

func TestPreprocess_Dimensions(t *testing.T) {
	img := fillImage(120, 90, color.White)

	gray, colorRef := Preprocess(img, false)

	if gray.Bounds().Dx() != 120 || gray.Bounds().Dy() != 90 {
		t.Errorf("gray dims = %dx%d, want 120x90", gray.Bounds().Dx(), gray.Bounds().Dy())
	}
	if colorRef != img {
		t.Error("without rectification the color reference should be the input image")
	}
}

func TestPreprocess_NoQuadSkipsRectification(t *testing.T) {
	// Uniform image has no contours at all; rectification must be a no-op.
	img := fillImage(100, 100, color.Gray{128})

	gray, colorRef := Preprocess(img, true)

	if colorRef != img {
		t.Error("missing quadrilateral should leave the image unrectified")
	}
	if gray.Bounds().Dx() != 100 || gray.Bounds().Dy() != 100 {
		t.Errorf("gray dims = %dx%d, want 100x100", gray.Bounds().Dx(), gray.Bounds().Dy())
	}
}
