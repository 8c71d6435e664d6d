package telemetry

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/flappy/config"
)

func TestStatsLogHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.csv")

	log, err := OpenStatsLog(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := log.Write(GenerationStats{Generation: 1, BestFitness: 22, MeanFitness: 10.5, BestPassed: 0}); err != nil {
		t.Fatal(err)
	}
	if err := log.Close(); err != nil {
		t.Fatal(err)
	}

	// A second writer on the same file must not repeat the header.
	log, err = OpenStatsLog(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := log.Write(GenerationStats{Generation: 2, BestFitness: 1100, MeanFitness: 33.33, BestPassed: 1}); err != nil {
		t.Fatal(err)
	}
	log.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows:\n%s", len(lines), data)
	}
	if lines[0] != "generation,best_fitness,mean_fitness,best_obstacles_passed" {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Count(string(data), "generation,") != 1 {
		t.Errorf("header written more than once:\n%s", data)
	}

	records, err := ReadStatsLog(path)
	if err != nil {
		t.Fatalf("ReadStatsLog failed: %v", err)
	}
	if len(records) != 2 || records[1].Generation != 2 || records[1].MeanFitness != 33.33 || records[1].BestPassed != 1 {
		t.Errorf("records = %+v", records)
	}
}

func TestStatsLogReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.csv")
	if err := os.WriteFile(path, []byte("stale content\n"), 0644); err != nil {
		t.Fatal(err)
	}

	log, err := OpenStatsLog(path, true)
	if err != nil {
		t.Fatal(err)
	}
	log.Write(GenerationStats{Generation: 1})
	log.Close()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "stale") {
		t.Error("reset did not truncate the log")
	}
	if !strings.HasPrefix(string(data), "generation,") {
		t.Errorf("reset log missing header:\n%s", data)
	}
}

func TestReadStatsLogMissingOrEmpty(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadStatsLog(filepath.Join(dir, "missing.csv"))
	if !errors.Is(err, ErrNoStats) {
		t.Errorf("missing log: err = %v, want ErrNoStats", err)
	}

	empty := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(empty, nil, 0644); err != nil {
		t.Fatal(err)
	}
	_, err = ReadStatsLog(empty)
	if !errors.Is(err, ErrNoStats) {
		t.Errorf("empty log: err = %v, want ErrNoStats", err)
	}
}

func TestOutputManager(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	cfg := config.Default()
	cfg.Telemetry.LogPerf = true

	om, err := NewOutputManager(dir, cfg.Telemetry)
	if err != nil {
		t.Fatalf("NewOutputManager failed: %v", err)
	}

	if err := om.WriteConfig(cfg); err != nil {
		t.Errorf("WriteConfig: %v", err)
	}
	if err := om.WriteGeneration(GenerationStats{Generation: 1}); err != nil {
		t.Errorf("WriteGeneration: %v", err)
	}
	if err := om.WritePerf(PerfStats{}, 1); err != nil {
		t.Errorf("WritePerf: %v", err)
	}
	hof := NewHallOfFame(3)
	hof.Consider(HallEntry{Fitness: 10})
	if err := om.WriteHallOfFame(hof); err != nil {
		t.Errorf("WriteHallOfFame: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}

	for _, name := range []string{"config.yaml", cfg.Telemetry.StatsFile, "perf.csv", "hall_of_fame.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("", config.Default().Telemetry)
	if err != nil || om != nil {
		t.Fatalf("expected nil manager, got %v, %v", om, err)
	}
	// Methods are nil-safe
	if err := om.WriteGeneration(GenerationStats{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}
