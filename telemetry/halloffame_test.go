package telemetry

import (
	"path/filepath"
	"testing"

	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/neural"
)

func TestHallOfFameOrderAndCapacity(t *testing.T) {
	hof := NewHallOfFame(3)

	for i, f := range []float64{10, 50, 30, 20, 40} {
		hof.Consider(HallEntry{Genome: neural.Genome{float64(i)}, Fitness: f})
	}

	entries := hof.Entries()
	if len(entries) != 3 {
		t.Fatalf("size = %d, want 3", len(entries))
	}
	want := []float64{50, 40, 30}
	for i := range want {
		if entries[i].Fitness != want[i] {
			t.Errorf("entry %d fitness = %v, want %v", i, entries[i].Fitness, want[i])
		}
	}

	if hof.Consider(HallEntry{Genome: neural.Genome{9}, Fitness: 5}) {
		t.Error("entry below a full hall was accepted")
	}
}

func TestHallOfFameDeduplicatesGenomes(t *testing.T) {
	hof := NewHallOfFame(5)
	g := neural.Genome{1, 2, 3}

	hof.Consider(HallEntry{Genome: g, Fitness: 100, Generation: 1})
	if hof.Consider(HallEntry{Genome: g, Fitness: 100, Generation: 2}) {
		t.Error("same genome at same fitness should not change the hall")
	}
	if !hof.Consider(HallEntry{Genome: g, Fitness: 200, Generation: 3}) {
		t.Error("same genome at higher fitness should be re-ranked")
	}

	if hof.Size() != 1 {
		t.Fatalf("size = %d, want 1", hof.Size())
	}
	best, ok := hof.Best()
	if !ok || best.Fitness != 200 || best.Generation != 3 {
		t.Errorf("best = %+v", best)
	}
}

func TestHallOfFameFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir, config.Default().Telemetry)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	hof := NewHallOfFame(4)
	hof.Consider(HallEntry{Genome: neural.Genome{0.5, -1, 2}, Fitness: 3022, Frames: 22, Passed: 3, Generation: 9})
	hof.Consider(HallEntry{Genome: neural.Genome{1, 1, 1}, Fitness: 22})
	if err := om.WriteHallOfFame(hof); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadHallOfFameFromFile(filepath.Join(dir, "hall_of_fame.json"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Size() != 2 {
		t.Fatalf("size = %d, want 2", loaded.Size())
	}
	best, _ := loaded.Best()
	if best.Genome != (neural.Genome{0.5, -1, 2}) || best.Passed != 3 || best.Generation != 9 {
		t.Errorf("best = %+v", best)
	}
}
