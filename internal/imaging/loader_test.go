package imaging

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, width, height int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "frame.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create temp png: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, fillImage(width, height, color.White)); err != nil {
		t.Fatalf("encode temp png: %v", err)
	}
	return path
}

func TestImageCache_LoadAndDimensions(t *testing.T) {
	cache := NewImageCache()
	path := writeTestPNG(t, 64, 48)

	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Bounds().Dx() != 64 {
		t.Errorf("width = %d, want 64", img.Bounds().Dx())
	}

	// Second load must come from cache: same underlying image.
	again, err := cache.Load(path)
	if err != nil {
		t.Fatalf("cached Load failed: %v", err)
	}
	if again != img {
		t.Error("second Load returned a different decode")
	}

	w, h, err := cache.Dimensions(path)
	if err != nil || w != 64 || h != 48 {
		t.Errorf("Dimensions = %dx%d (%v), want 64x48", w, h, err)
	}
}

func TestImageCache_Missing(t *testing.T) {
	cache := NewImageCache()
	if _, err := cache.Load(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestImageCache_EvictAndClear(t *testing.T) {
	cache := NewImageCache()
	path := writeTestPNG(t, 8, 8)

	first, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cache.Evict(path)
	second, err := cache.Load(path)
	if err != nil {
		t.Fatalf("reload after Evict failed: %v", err)
	}
	if second == first {
		t.Error("Evict did not drop the cached decode")
	}

	cache.Clear()
	third, err := cache.Load(path)
	if err != nil {
		t.Fatalf("reload after Clear failed: %v", err)
	}
	if third == second {
		t.Error("Clear did not drop the cached decode")
	}
}
