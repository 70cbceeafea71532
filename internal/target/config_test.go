package target

import (
	"strings"
	"testing"
)

const validJSON = `{
  "name": "Test Target",
  "bullet_diameter_mm": 4.0,
  "black_area_diameter_mm": 60.0,
  "total_diameter_mm": 100.0,
  "rings": [
    {"ring": "10", "score": 10, "diameter_mm": 10.0},
    {"ring": "9", "score": 9, "diameter_mm": 30.0},
    {"ring": "8", "score": 8, "diameter_mm": 100.0}
  ]
}`

func TestLoad(t *testing.T) {
	cfg, err := Load(strings.NewReader(validJSON))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Name != "Test Target" {
		t.Errorf("Name = %q, want %q", cfg.Name, "Test Target")
	}
	if cfg.BulletRadiusMm() != 2.0 {
		t.Errorf("BulletRadiusMm() = %g, want 2.0", cfg.BulletRadiusMm())
	}
	if len(cfg.Rings) != 3 {
		t.Fatalf("len(Rings) = %d, want 3", len(cfg.Rings))
	}
	if cfg.Rings[0].RadiusMm() != 5.0 {
		t.Errorf("Rings[0].RadiusMm() = %g, want 5.0", cfg.Rings[0].RadiusMm())
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	if _, err := Load(strings.NewReader("{not json")); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Name:                "T",
			BulletDiameterMm:    4,
			BlackAreaDiameterMm: 60,
			TotalDiameterMm:     100,
			Rings: []Ring{
				{Name: "10", Score: 10, DiameterMm: 10},
				{Name: "9", Score: 9, DiameterMm: 30},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty name", func(c *Config) { c.Name = "" }, true},
		{"zero bullet diameter", func(c *Config) { c.BulletDiameterMm = 0 }, true},
		{"negative black area", func(c *Config) { c.BlackAreaDiameterMm = -1 }, true},
		{"zero total diameter", func(c *Config) { c.TotalDiameterMm = 0 }, true},
		{"no rings", func(c *Config) { c.Rings = nil }, true},
		{"ring empty name", func(c *Config) { c.Rings[0].Name = "" }, true},
		{"ring negative score", func(c *Config) { c.Rings[1].Score = -1 }, true},
		{"ring zero diameter", func(c *Config) { c.Rings[0].DiameterMm = 0 }, true},
		{"descending rings", func(c *Config) { c.Rings[1].DiameterMm = 5 }, true},
		{"duplicate ring diameter", func(c *Config) { c.Rings[1].DiameterMm = 10 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestBuiltins(t *testing.T) {
	names := BuiltinNames()
	if len(names) == 0 {
		t.Fatal("no builtin targets shipped")
	}

	for _, name := range names {
		cfg, err := Builtin(name)
		if err != nil {
			t.Errorf("Builtin(%q) failed: %v", name, err)
			continue
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("builtin %q does not validate: %v", name, err)
		}
	}

	if _, err := Builtin("no_such_target"); err == nil {
		t.Error("expected error for unknown builtin name")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Name != "ISSF 50m Rifle" {
		t.Errorf("Default().Name = %q, want ISSF 50m Rifle", cfg.Name)
	}
	if cfg.BulletDiameterMm != 5.6 {
		t.Errorf("Default().BulletDiameterMm = %g, want 5.6", cfg.BulletDiameterMm)
	}
}
