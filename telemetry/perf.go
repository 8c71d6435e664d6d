package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one generation of the evolution loop.
const (
	PhaseEvaluate = "evaluate"
	PhaseHooks    = "hooks"
	PhaseBreed    = "breed" // selection and reproduction
)

var phaseOrder = []string{PhaseEvaluate, PhaseHooks, PhaseBreed}

// PerfSample holds timing data for a single generation.
type PerfSample struct {
	Duration time.Duration
	Lives    int
	Frames   int
	Phases   map[string]time.Duration
}

// PerfCollector tracks generation timing over a rolling window.
type PerfCollector struct {
	windowSize  int
	samples     []PerfSample
	writeIndex  int
	sampleCount int
	current     PerfSample
	start       time.Time
	phaseStart  time.Time
	lastPhase   string
}

// NewPerfCollector creates a new performance collector averaging over
// windowSize generations.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 10
	}
	return &PerfCollector{
		windowSize: windowSize,
		samples:    make([]PerfSample, windowSize),
	}
}

// StartGeneration begins timing a new generation.
func (p *PerfCollector) StartGeneration() {
	if p == nil {
		return
	}
	p.start = time.Now()
	p.current = PerfSample{Phases: make(map[string]time.Duration)}
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	if p == nil {
		return
	}
	now := time.Now()
	if p.lastPhase != "" {
		p.current.Phases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// AddWork records simulated lives and frames for throughput.
func (p *PerfCollector) AddWork(lives, frames int) {
	if p == nil {
		return
	}
	p.current.Lives += lives
	p.current.Frames += frames
}

// EndGeneration finishes timing and records the sample.
func (p *PerfCollector) EndGeneration() {
	if p == nil {
		return
	}
	now := time.Now()
	if p.lastPhase != "" {
		p.current.Phases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.current.Duration = now.Sub(p.start)

	p.samples[p.writeIndex] = p.current
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgGeneration time.Duration
	MinGeneration time.Duration
	MaxGeneration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total generation time
	PhasePct map[string]float64

	LivesPerSecond  float64
	FramesPerSecond float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	var total time.Duration
	var minDur, maxDur time.Duration
	var lives, frames int
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.Duration
		lives += s.Lives
		frames += s.Frames

		if i == 0 || s.Duration < minDur {
			minDur = s.Duration
		}
		if s.Duration > maxDur {
			maxDur = s.Duration
		}
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avg := total / time.Duration(p.sampleCount)

	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	var livesPerSec, framesPerSec float64
	if total > 0 {
		livesPerSec = float64(lives) / total.Seconds()
		framesPerSec = float64(frames) / total.Seconds()
	}

	return PerfStats{
		AvgGeneration:   avg,
		MinGeneration:   minDur,
		MaxGeneration:   maxDur,
		PhaseAvg:        phaseAvg,
		PhasePct:        phasePct,
		LivesPerSecond:  livesPerSec,
		FramesPerSecond: framesPerSec,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_gen_ms", s.AvgGeneration.Milliseconds(),
		"min_gen_ms", s.MinGeneration.Milliseconds(),
		"max_gen_ms", s.MaxGeneration.Milliseconds(),
		"lives_per_sec", int(s.LivesPerSecond),
		"frames_per_sec", int(s.FramesPerSecond),
	}

	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Generation   int     `csv:"generation"`
	AvgGenMS     int64   `csv:"avg_gen_ms"`
	MinGenMS     int64   `csv:"min_gen_ms"`
	MaxGenMS     int64   `csv:"max_gen_ms"`
	LivesPerSec  float64 `csv:"lives_per_sec"`
	FramesPerSec float64 `csv:"frames_per_sec"`
	EvaluatePct  float64 `csv:"evaluate_pct"`
	HooksPct     float64 `csv:"hooks_pct"`
	BreedPct     float64 `csv:"breed_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(generation int) PerfStatsCSV {
	return PerfStatsCSV{
		Generation:   generation,
		AvgGenMS:     s.AvgGeneration.Milliseconds(),
		MinGenMS:     s.MinGeneration.Milliseconds(),
		MaxGenMS:     s.MaxGeneration.Milliseconds(),
		LivesPerSec:  s.LivesPerSecond,
		FramesPerSec: s.FramesPerSecond,
		EvaluatePct:  s.PhasePct[PhaseEvaluate],
		HooksPct:     s.PhasePct[PhaseHooks],
		BreedPct:     s.PhasePct[PhaseBreed],
	}
}
