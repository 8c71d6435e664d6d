package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartGeneration()
		pc.StartPhase(PhaseEvaluate)
		time.Sleep(200 * time.Microsecond)
		pc.StartPhase(PhaseBreed)
		time.Sleep(100 * time.Microsecond)
		pc.AddWork(100, 5000)
		pc.EndGeneration()
	}

	stats := pc.Stats()

	if stats.AvgGeneration <= 0 {
		t.Error("expected positive average generation duration")
	}
	if _, ok := stats.PhaseAvg[PhaseEvaluate]; !ok {
		t.Error("expected evaluate phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseBreed]; !ok {
		t.Error("expected breed phase to be tracked")
	}
	if stats.LivesPerSecond <= 0 || stats.FramesPerSecond <= 0 {
		t.Errorf("expected positive throughput, got %v lives/s %v frames/s", stats.LivesPerSecond, stats.FramesPerSecond)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartGeneration()
		pc.StartPhase(PhaseHooks)
		pc.EndGeneration()
	}

	if pc.sampleCount != 5 {
		t.Errorf("sampleCount = %d, want window size 5", pc.sampleCount)
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartGeneration()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(500 * time.Microsecond)
		pc.EndGeneration()
	}

	stats := pc.Stats()
	if stats.PhasePct["slow"] <= stats.PhasePct["fast"] {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", stats.PhasePct["slow"], stats.PhasePct["fast"])
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgGeneration != 0 {
		t.Error("expected zero avg duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollector_NilSafe(t *testing.T) {
	var pc *PerfCollector
	pc.StartGeneration()
	pc.StartPhase(PhaseEvaluate)
	pc.AddWork(1, 1)
	pc.EndGeneration()
}
