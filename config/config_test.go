package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsAreSane(t *testing.T) {
	cfg := Default()

	if cfg.World.Width <= 0 || cfg.World.Height <= 0 {
		t.Errorf("world dimensions %vx%v", cfg.World.Width, cfg.World.Height)
	}
	if cfg.World.GridCellSize <= 0 {
		t.Errorf("grid cell size %v", cfg.World.GridCellSize)
	}
	if cfg.Plants.GrowthRate <= 0 || cfg.Plants.MaxPlants <= 0 {
		t.Errorf("plant config %+v", cfg.Plants)
	}
	if cfg.Creatures.BaseEnergyCost <= 0 || cfg.Creatures.MaxCreatures <= 0 {
		t.Errorf("creature config %+v", cfg.Creatures)
	}
	if cfg.Predation.BaseChance <= 0 || cfg.Predation.BaseChance > 1 {
		t.Errorf("predation base chance %v", cfg.Predation.BaseChance)
	}
	if cfg.Genetics.MutationRate <= 0 || cfg.Genetics.MutationRate > 1 {
		t.Errorf("mutation rate %v", cfg.Genetics.MutationRate)
	}
	if cfg.Evolution.ClusterThreshold < 2 {
		t.Errorf("cluster threshold %d", cfg.Evolution.ClusterThreshold)
	}
	if cfg.Scheduler.TickIntervalMs <= cfg.Scheduler.LapseIntervalMs {
		t.Errorf("time lapse interval %dms not faster than normal %dms",
			cfg.Scheduler.LapseIntervalMs, cfg.Scheduler.TickIntervalMs)
	}
	if cfg.Telemetry.WindowTicks <= 0 {
		t.Errorf("telemetry window %d", cfg.Telemetry.WindowTicks)
	}
	if cfg.Placement.StartingEnergy <= 0 || len(cfg.Placement.Costs) == 0 {
		t.Errorf("placement config %+v", cfg.Placement)
	}
}

func TestLoadOverridesOnlyGivenFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	override := []byte("plants:\n  growth_rate: 2.5\n")
	if err := os.WriteFile(path, override, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Plants.GrowthRate != 2.5 {
		t.Errorf("growth rate = %v, want 2.5", cfg.Plants.GrowthRate)
	}
	// Untouched fields keep their defaults.
	def := Default()
	if cfg.Plants.MaxPlants != def.Plants.MaxPlants {
		t.Errorf("max plants = %d, want default %d", cfg.Plants.MaxPlants, def.Plants.MaxPlants)
	}
	if cfg.Creatures.FeedRate != def.Creatures.FeedRate {
		t.Errorf("feed rate = %v, want default %v", cfg.Creatures.FeedRate, def.Creatures.FeedRate)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Plants.GrowthRate = 1.23
	cfg.World.Width = 4096

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.Plants.GrowthRate != 1.23 || back.World.Width != 4096 {
		t.Errorf("round trip lost values: %v / %v", back.Plants.GrowthRate, back.World.Width)
	}
}
