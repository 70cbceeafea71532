package target

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

// Ring is one scoring band on a target, defined by its outer diameter and the
// score it awards. Ring values are immutable once loaded.
type Ring struct {
	// Name is the printed label of the ring, e.g. "10", "9", "X".
	Name string `json:"ring"`

	// Score is the value awarded when a shot lands in this ring.
	Score float64 `json:"score"`

	// DiameterMm is the ring's outer diameter in millimeters.
	DiameterMm float64 `json:"diameter_mm"`
}

// RadiusMm returns the ring's outer radius in millimeters.
func (r Ring) RadiusMm() float64 {
	return r.DiameterMm / 2
}

// Config describes one target type: the bullet it is shot with, its printed
// geometry, and the ordered ring table used for scoring.
//
// Rings MUST be sorted ascending by diameter (innermost, highest-scoring ring
// first). The scorer walks the table in order and awards the first ring whose
// radius contains the shot, so a misordered table silently misscores; Load
// and Validate reject such tables before they reach the scorer.
//
// A Config is loaded once and shared read-only for the whole session. It is
// safe for concurrent use because nothing mutates it after construction.
type Config struct {
	// Name is the human-readable target designation, e.g. "ISSF 50m Rifle".
	Name string `json:"name"`

	// BulletDiameterMm is the caliber of the bullet in millimeters.
	BulletDiameterMm float64 `json:"bullet_diameter_mm"`

	// BlackAreaDiameterMm is the diameter of the target's black aiming area.
	// Calibration interprets the detected target circle as this boundary.
	BlackAreaDiameterMm float64 `json:"black_area_diameter_mm"`

	// TotalDiameterMm is the full diameter of the printed target card.
	TotalDiameterMm float64 `json:"total_diameter_mm"`

	// Rings is the scoring table, sorted ascending by DiameterMm.
	Rings []Ring `json:"rings"`
}

// BulletRadiusMm returns half the bullet diameter, used by edge scoring.
func (c *Config) BulletRadiusMm() float64 {
	return c.BulletDiameterMm / 2
}

// Validate checks the invariants the scoring core relies on. It returns a
// descriptive error for the first violation found:
//
//   - empty name or empty ring table
//   - non-positive bullet, black-area, or total diameter
//   - ring with empty name, negative score, or non-positive diameter
//   - rings not strictly ascending by diameter
//
// The core itself never re-validates; callers must reject a bad Config here,
// before any image is processed.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("target config: name must not be empty")
	}
	if c.BulletDiameterMm <= 0 {
		return fmt.Errorf("target config %q: bullet_diameter_mm must be > 0 (got %g)", c.Name, c.BulletDiameterMm)
	}
	if c.BlackAreaDiameterMm <= 0 {
		return fmt.Errorf("target config %q: black_area_diameter_mm must be > 0 (got %g)", c.Name, c.BlackAreaDiameterMm)
	}
	if c.TotalDiameterMm <= 0 {
		return fmt.Errorf("target config %q: total_diameter_mm must be > 0 (got %g)", c.Name, c.TotalDiameterMm)
	}
	if len(c.Rings) == 0 {
		return fmt.Errorf("target config %q: rings must not be empty", c.Name)
	}
	for i, ring := range c.Rings {
		if ring.Name == "" {
			return fmt.Errorf("target config %q: ring %d has empty name", c.Name, i)
		}
		if ring.Score < 0 {
			return fmt.Errorf("target config %q: ring %q has negative score %g", c.Name, ring.Name, ring.Score)
		}
		if ring.DiameterMm <= 0 {
			return fmt.Errorf("target config %q: ring %q diameter_mm must be > 0 (got %g)", c.Name, ring.Name, ring.DiameterMm)
		}
		if i > 0 && ring.DiameterMm <= c.Rings[i-1].DiameterMm {
			return fmt.Errorf("target config %q: rings must be strictly ascending by diameter_mm (%q %g follows %q %g)",
				c.Name, ring.Name, ring.DiameterMm, c.Rings[i-1].Name, c.Rings[i-1].DiameterMm)
		}
	}
	return nil
}

// Load parses a target configuration from JSON and validates it.
//
// The expected schema:
//
//	{
//	  "name": "ISSF 50m Rifle",
//	  "bullet_diameter_mm": 5.6,
//	  "black_area_diameter_mm": 112.4,
//	  "total_diameter_mm": 154.4,
//	  "rings": [{"ring": "10", "score": 10, "diameter_mm": 10.4}, ...]
//	}
//
// Rings must be pre-sorted ascending by diameter_mm; Load fails fast on a
// misordered or otherwise malformed table rather than letting the scorer
// consume it.
func Load(r io.Reader) (*Config, error) {
	var cfg Config
	dec := json.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode target config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile loads and validates a target configuration from a JSON file.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open target config: %w", err)
	}
	defer f.Close()

	cfg, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

//go:embed targets/*.json
var builtinFS embed.FS

// Builtin returns one of the target configurations shipped with the module.
// Known names: "issf_50m_rifle", "issf_10m_air_rifle", "issf_25m_pistol".
func Builtin(name string) (*Config, error) {
	f, err := builtinFS.Open("targets/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("unknown builtin target %q", name)
	}
	defer f.Close()
	return Load(f)
}

// BuiltinNames lists the shipped target configurations in sorted order.
func BuiltinNames() []string {
	entries, err := builtinFS.ReadDir("targets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		names = append(names, name[:len(name)-len(".json")])
	}
	sort.Strings(names)
	return names
}

// Default returns the ISSF 50m Rifle target, the configuration the original
// scoring sessions are run against.
func Default() *Config {
	cfg, err := Builtin("issf_50m_rifle")
	if err != nil {
		// Shipped configs are validated by tests; reaching this means the
		// binary was built with a broken embed.
		panic(err)
	}
	return cfg
}
