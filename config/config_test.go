package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/mire/rule"
	"github.com/pthm-cable/mire/sim"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rule.Cohorts != 64 {
		t.Errorf("rule.cohorts = %d, want 64", cfg.Rule.Cohorts)
	}
	if cfg.World.Size <= 0 {
		t.Errorf("world.size = %g, want positive", cfg.World.Size)
	}
	if cfg.Physics.TrailPersistence.Value != 0.938 {
		t.Errorf("trail_persistence = %f, want 0.938", cfg.Physics.TrailPersistence.Value)
	}
	if cfg.Derived.Population != int(sim.EntitiesPerUnit*cfg.World.Size) {
		t.Errorf("derived population = %d", cfg.Derived.Population)
	}
	if cfg.Derived.CanvasDim <= 0 {
		t.Error("derived canvas dimension not computed")
	}
}

func TestLoadOverridesMergeWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	override := `
world:
  size: 0.5
  boundary: wrap
physics:
  drag: { value: 0.9, min: -1.0, max: 1.0 }
`
	if err := os.WriteFile(path, []byte(override), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.World.Size != 0.5 {
		t.Errorf("world.size = %g, want 0.5", cfg.World.Size)
	}
	if cfg.World.Boundary != "wrap" {
		t.Errorf("world.boundary = %q, want wrap", cfg.World.Boundary)
	}
	if cfg.Physics.Drag.Value != 0.9 {
		t.Errorf("drag = %f, want override 0.9", cfg.Physics.Drag.Value)
	}
	// Untouched keys keep their defaults.
	if cfg.Physics.SensorGain.Value != 0.116 {
		t.Errorf("sensor_gain = %f, want default 0.116", cfg.Physics.SensorGain.Value)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"bad boundary":     "world: {size: 0.1, boundary: teleport}",
		"bad placement":    "world: {size: 0.1, placement: spiral}",
		"bad orientation":  "physics: {absolute_orientation: sideways}",
		"zero world size":  "world: {size: 0}",
		"short rule":       "rule: {centers: [{freq: [1,0,0,0], amp: [1,0,0,0]}]}",
	}
	for name, body := range cases {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: Load succeeded, want error", name)
		}
	}
}

func TestSettingsConversion(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.World.Boundary = "reset"
	cfg.World.Placement = "ring"
	cfg.Physics.AbsoluteOrientation = "radial"

	st, err := cfg.Settings()
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if st.Boundary != sim.BoundaryReset {
		t.Errorf("boundary = %v, want reset", st.Boundary)
	}
	if st.Placement != sim.PlacementRing {
		t.Errorf("placement = %v, want ring", st.Placement)
	}
	if st.AbsoluteOrientation != sim.OrientationRadial {
		t.Errorf("orientation = %v, want radial", st.AbsoluteOrientation)
	}
	if st.RuleSeed != float32(cfg.Rule.Seed) {
		t.Errorf("rule seed = %f, want %f", st.RuleSeed, cfg.Rule.Seed)
	}
	// Empty centers list leaves the rule unset so the core generates it.
	if !st.Rule.IsUnset() {
		t.Error("empty centers should convert to an unset rule")
	}
}

func TestSetRuleRoundTrips(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	generated := rule.Generate(0.42)
	cfg.SetRule(generated)

	path := filepath.Join(t.TempDir(), "saved.yaml")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load saved: %v", err)
	}
	st, err := loaded.Settings()
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if st.Rule != generated {
		t.Error("rule did not survive a save/load round trip")
	}
}
