package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}

	if cfg.GA.Population != 100 || cfg.GA.Elites != 10 || cfg.GA.Generations != 100 {
		t.Errorf("unexpected GA defaults: %+v", cfg.GA)
	}
	if cfg.Simulation.Ceiling != CeilingKill {
		t.Errorf("simulation.ceiling = %q, want %q", cfg.Simulation.Ceiling, CeilingKill)
	}
	if cfg.Manual.Ceiling != CeilingClamp {
		t.Errorf("manual.ceiling = %q, want %q", cfg.Manual.Ceiling, CeilingClamp)
	}
	if cfg.Derived.GroundY != 570 {
		t.Errorf("GroundY = %v, want 570", cfg.Derived.GroundY)
	}
	if cfg.Derived.StartY != 300 {
		t.Errorf("StartY = %v, want 300", cfg.Derived.StartY)
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := []byte("ga:\n  population: 20\n  elites: 2\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.GA.Population != 20 || cfg.GA.Elites != 2 {
		t.Errorf("overlay not applied: %+v", cfg.GA)
	}
	// Untouched fields keep their defaults
	if cfg.GA.MutationSigma != 0.25 {
		t.Errorf("mutation_sigma = %v, want default 0.25", cfg.GA.MutationSigma)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero population", func(c *Config) { c.GA.Population = 0 }},
		{"single genome", func(c *Config) { c.GA.Population = 1; c.GA.Elites = 0 }},
		{"too many elites", func(c *Config) { c.GA.Elites = c.GA.Population + 1 }},
		{"negative elites", func(c *Config) { c.GA.Elites = -1 }},
		{"no generations", func(c *Config) { c.GA.Generations = 0 }},
		{"inverted gene bounds", func(c *Config) { c.GA.GeneMin = 5; c.GA.GeneMax = -5 }},
		{"mutation rate above one", func(c *Config) { c.GA.MutationRate = 1.5 }},
		{"zero spawn interval", func(c *Config) { c.Obstacle.SpawnInterval = 0 }},
		{"zero increment step", func(c *Config) { c.Difficulty.IncrementEvery = 0 }},
		{"margin too large", func(c *Config) { c.Obstacle.GapMargin = 400 }},
		{"margin below half gap", func(c *Config) { c.Obstacle.GapMargin = 10 }},
		{"unknown ceiling", func(c *Config) { c.Simulation.Ceiling = "bounce" }},
		{"unknown store", func(c *Config) { c.Store.Kind = "redis" }},
		{"zero frame cap", func(c *Config) { c.Simulation.MaxFrames = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error %v does not wrap ErrInvalid", err)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.GA.Population = 42

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load snapshot failed: %v", err)
	}
	if loaded.GA.Population != 42 {
		t.Errorf("population = %d, want 42", loaded.GA.Population)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	cfg := Default()
	cp := cfg.Clone()
	cp.GA.Population = 7
	if cfg.GA.Population == 7 {
		t.Error("Clone shares state with original")
	}
}
