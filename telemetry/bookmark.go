package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkBreakthrough BookmarkType = "fitness_breakthrough"
	BookmarkSpeedTier    BookmarkType = "speed_tier"
	BookmarkMeanCollapse BookmarkType = "mean_collapse"
	BookmarkStagnation   BookmarkType = "stagnation"
	BookmarkConverged    BookmarkType = "converged"
)

// Bookmark marks a generation worth looking at.
type Bookmark struct {
	Type        BookmarkType
	Generation  int
	Description string
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"gen", b.Generation,
		"description", b.Description,
	)
}

// convergedCV is the fitness coefficient of variation below which a
// generation counts as converged.
const (
	convergedCV   = 0.05
	convergedRuns = 5
)

// BookmarkDetector watches generation statistics for notable changes.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []GenerationStats
	historySize int
	historyIdx  int
	historyFull bool

	tierSize int // obstacles passed per speed step

	bestEver      float64
	sinceImproved int
	stagnantFired bool
	peakMean      float64
	bestTier      int
	convergedRun  int
}

// NewBookmarkDetector creates a detector with the given history size.
// tierSize is the number of obstacles passed per speed increase.
func NewBookmarkDetector(historySize, tierSize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5
	}
	if tierSize < 1 {
		tierSize = 1
	}
	return &BookmarkDetector{
		history:     make([]GenerationStats, historySize),
		historySize: historySize,
		tierSize:    tierSize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats GenerationStats) []Bookmark {
	var bookmarks []Bookmark
	for _, check := range []func(GenerationStats) *Bookmark{
		bd.checkBreakthrough,
		bd.checkSpeedTier,
		bd.checkMeanCollapse,
		bd.checkStagnation,
		bd.checkConverged,
	} {
		if b := check(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	if stats.MeanFitness > bd.peakMean {
		bd.peakMean = stats.MeanFitness
	}
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats GenerationStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []GenerationStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// checkBreakthrough fires when the best fitness is more than double the
// rolling average best.
func (bd *BookmarkDetector) checkBreakthrough(stats GenerationStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}
	bests := make([]float64, len(history))
	for i, h := range history {
		bests[i] = h.BestFitness
	}
	avg := stat.Mean(bests, nil)
	if avg <= 0 || stats.BestFitness <= avg*2 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkBreakthrough,
		Generation:  stats.Generation,
		Description: fmt.Sprintf("Best fitness %.0f is %.1fx the rolling average (%.0f)", stats.BestFitness, stats.BestFitness/avg, avg),
	}
}

// checkSpeedTier fires the first time any agent reaches a new speed step.
func (bd *BookmarkDetector) checkSpeedTier(stats GenerationStats) *Bookmark {
	tier := stats.MaxPassed / bd.tierSize
	if tier <= bd.bestTier {
		return nil
	}
	bd.bestTier = tier
	return &Bookmark{
		Type:        BookmarkSpeedTier,
		Generation:  stats.Generation,
		Description: fmt.Sprintf("An agent passed %d obstacles, reaching speed tier %d", stats.MaxPassed, tier),
	}
}

// checkMeanCollapse fires when mean fitness falls more than 30% below its
// recent peak. The peak resets after firing.
func (bd *BookmarkDetector) checkMeanCollapse(stats GenerationStats) *Bookmark {
	if bd.peakMean == 0 {
		return nil
	}
	drop := 1 - stats.MeanFitness/bd.peakMean
	if drop <= 0.30 {
		return nil
	}
	oldPeak := bd.peakMean
	bd.peakMean = stats.MeanFitness
	return &Bookmark{
		Type:        BookmarkMeanCollapse,
		Generation:  stats.Generation,
		Description: fmt.Sprintf("Mean fitness fell %.0f%% from peak %.0f to %.0f", drop*100, oldPeak, stats.MeanFitness),
	}
}

// checkStagnation fires once per streak of historySize generations without
// a new best.
func (bd *BookmarkDetector) checkStagnation(stats GenerationStats) *Bookmark {
	if stats.BestFitness > bd.bestEver {
		bd.bestEver = stats.BestFitness
		bd.sinceImproved = 0
		bd.stagnantFired = false
		return nil
	}
	bd.sinceImproved++
	if bd.stagnantFired || bd.sinceImproved < bd.historySize {
		return nil
	}
	bd.stagnantFired = true
	return &Bookmark{
		Type:        BookmarkStagnation,
		Generation:  stats.Generation,
		Description: fmt.Sprintf("No improvement on best fitness %.0f for %d generations", bd.bestEver, bd.sinceImproved),
	}
}

// checkConverged fires once after convergedRuns consecutive generations
// with a fitness CV under convergedCV.
func (bd *BookmarkDetector) checkConverged(stats GenerationStats) *Bookmark {
	if stats.MeanFitness <= 0 || stats.StdFitness/stats.MeanFitness >= convergedCV {
		bd.convergedRun = 0
		return nil
	}
	bd.convergedRun++
	if bd.convergedRun != convergedRuns {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkConverged,
		Generation:  stats.Generation,
		Description: fmt.Sprintf("Population converged: fitness CV under %.2f for %d generations", convergedCV, convergedRuns),
	}
}
