package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Simulation.Iterations != 4 {
		t.Errorf("Iterations = %d, want 4", cfg.Simulation.Iterations)
	}
	if cfg.Simulation.DT <= 0 {
		t.Errorf("DT = %v, want positive", cfg.Simulation.DT)
	}
	if cfg.Scene.Type == "" || cfg.Scene.Bodies <= 0 {
		t.Errorf("scene defaults missing: %+v", cfg.Scene)
	}
	if cfg.Boundary != nil {
		t.Errorf("default boundary should be unset, got %+v", cfg.Boundary)
	}
	if cfg.Derived.TicksPerWindow < 1 {
		t.Errorf("TicksPerWindow = %d, want >= 1", cfg.Derived.TicksPerWindow)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	userYAML := []byte(`
simulation:
  iterations: 8

boundary:
  min_x: -10
  min_y: -10
  max_x: 10
  max_y: 10

materials:
  - name: Foam
    density: 0.2
    restitution: 0.1
    static_friction: 0.6
    dynamic_friction: 0.5
    friction_combine: minimum
`)
	if err := os.WriteFile(path, userYAML, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Simulation.Iterations != 8 {
		t.Errorf("Iterations = %d, want 8 from user file", cfg.Simulation.Iterations)
	}
	// Fields absent from the user file keep their defaults.
	if cfg.Scene.Bodies <= 0 {
		t.Errorf("Scene.Bodies lost its default: %d", cfg.Scene.Bodies)
	}
	if cfg.Boundary == nil || cfg.Boundary.MaxX != 10 {
		t.Errorf("Boundary = %+v, want user values", cfg.Boundary)
	}
	if len(cfg.Materials) != 1 || cfg.Materials[0].Name != "Foam" {
		t.Errorf("Materials = %+v", cfg.Materials)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/does/not/exist.yaml"); err == nil {
		t.Error("Load of missing file succeeded, want error")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("Load of written config: %v", err)
	}
	if again.Simulation.Iterations != cfg.Simulation.Iterations ||
		again.Scene.Type != cfg.Scene.Type {
		t.Errorf("round trip changed config: %+v vs %+v", again.Simulation, cfg.Simulation)
	}
}
