package telemetry

import "testing"

func types(bms []Bookmark) map[BookmarkType]bool {
	out := make(map[BookmarkType]bool)
	for _, b := range bms {
		out[b.Type] = true
	}
	return out
}

func TestBookmarkBreakthrough(t *testing.T) {
	bd := NewBookmarkDetector(5, 10)
	for g := 1; g <= 3; g++ {
		bd.Check(GenerationStats{Generation: g, BestFitness: 100, MeanFitness: 50, StdFitness: 40})
	}
	got := types(bd.Check(GenerationStats{Generation: 4, BestFitness: 500, MeanFitness: 60, StdFitness: 40}))
	if !got[BookmarkBreakthrough] {
		t.Errorf("expected breakthrough, got %v", got)
	}
}

func TestBookmarkSpeedTier(t *testing.T) {
	bd := NewBookmarkDetector(5, 10)
	tests := []struct {
		passed int
		want   bool
	}{
		{5, false},
		{10, true},
		{19, false},
		{12, false},
		{25, true},
	}
	for i, tt := range tests {
		got := types(bd.Check(GenerationStats{Generation: i + 1, MaxPassed: tt.passed, BestFitness: float64(i + 1)}))
		if got[BookmarkSpeedTier] != tt.want {
			t.Errorf("passed %d: speed tier = %v, want %v", tt.passed, got[BookmarkSpeedTier], tt.want)
		}
	}
}

func TestBookmarkMeanCollapse(t *testing.T) {
	bd := NewBookmarkDetector(5, 10)
	bd.Check(GenerationStats{Generation: 1, BestFitness: 200, MeanFitness: 100, StdFitness: 50})
	if got := types(bd.Check(GenerationStats{Generation: 2, BestFitness: 210, MeanFitness: 80, StdFitness: 50})); got[BookmarkMeanCollapse] {
		t.Error("20% drop should not fire")
	}
	if got := types(bd.Check(GenerationStats{Generation: 3, BestFitness: 220, MeanFitness: 50, StdFitness: 50})); !got[BookmarkMeanCollapse] {
		t.Error("50% drop should fire")
	}
}

func TestBookmarkStagnationFiresOnce(t *testing.T) {
	bd := NewBookmarkDetector(5, 10)
	fired := 0
	for g := 1; g <= 20; g++ {
		if types(bd.Check(GenerationStats{Generation: g, BestFitness: 100, MeanFitness: 50, StdFitness: 30}))[BookmarkStagnation] {
			fired++
			if g != 6 {
				t.Errorf("stagnation fired at generation %d, want 6", g)
			}
		}
	}
	if fired != 1 {
		t.Errorf("stagnation fired %d times, want 1", fired)
	}
}

func TestBookmarkConverged(t *testing.T) {
	bd := NewBookmarkDetector(5, 10)
	fired := 0
	for g := 1; g <= 8; g++ {
		got := types(bd.Check(GenerationStats{Generation: g, BestFitness: float64(1000 + g), MeanFitness: 1000, StdFitness: 10}))
		if got[BookmarkConverged] {
			fired++
			if g != convergedRuns {
				t.Errorf("converged fired at generation %d", g)
			}
		}
	}
	if fired != 1 {
		t.Errorf("converged fired %d times, want 1", fired)
	}
}
