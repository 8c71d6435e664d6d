package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/flappy/config"
)

// ErrNoStats reports a statistics log that is missing or has no records.
var ErrNoStats = errors.New("no statistics recorded")

// StatsLog is the append-only per-generation statistics log. The header
// row is written only when the file starts out empty.
type StatsLog struct {
	path          string
	file          *os.File
	headerWritten bool
}

// OpenStatsLog opens (or creates) the log at path for appending. With
// reset, any previous content is discarded first.
func OpenStatsLog(path string, reset bool) (*StatsLog, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if reset {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening stats log: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat stats log: %w", err)
	}
	return &StatsLog{path: path, file: f, headerWritten: info.Size() > 0}, nil
}

// Path returns the log file path.
func (l *StatsLog) Path() string { return l.path }

// Write appends one generation record.
func (l *StatsLog) Write(stats GenerationStats) error {
	records := []GenerationStats{stats}

	if !l.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, l.file); err != nil {
			return fmt.Errorf("writing stats: %w", err)
		}
		l.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, l.file); err != nil {
		return fmt.Errorf("writing stats: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (l *StatsLog) Close() error {
	return l.file.Close()
}

// ReadStatsLog loads every record from the log at path. A missing or empty
// log returns an error wrapping ErrNoStats.
func ReadStatsLog(path string) ([]GenerationStats, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrNoStats, path)
		}
		return nil, fmt.Errorf("opening stats log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat stats log: %w", err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrNoStats, path)
	}

	var records []GenerationStats
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("parsing stats log: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s has no records", ErrNoStats, path)
	}
	return records, nil
}

// OutputManager handles the training run's output directory.
type OutputManager struct {
	dir      string
	cfg      config.TelemetryConfig
	statsLog *StatsLog
	perfFile *os.File

	perfHeaderWritten bool
}

// NewOutputManager creates the output directory and opens the stats log.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string, cfg config.TelemetryConfig) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir, cfg: cfg}

	log, err := OpenStatsLog(filepath.Join(dir, cfg.StatsFile), cfg.ResetLog)
	if err != nil {
		return nil, err
	}
	om.statsLog = log

	if cfg.LogPerf {
		f, err := os.Create(filepath.Join(dir, "perf.csv"))
		if err != nil {
			om.statsLog.Close()
			return nil, fmt.Errorf("creating perf.csv: %w", err)
		}
		om.perfFile = f
	}

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteGeneration appends a record to the statistics log.
func (om *OutputManager) WriteGeneration(stats GenerationStats) error {
	if om == nil {
		return nil
	}
	return om.statsLog.Write(stats)
}

// WritePerf appends a performance record to perf.csv if enabled.
func (om *OutputManager) WritePerf(stats PerfStats, generation int) error {
	if om == nil || om.perfFile == nil {
		return nil
	}

	records := []PerfStatsCSV{stats.ToCSV(generation)}

	if !om.perfHeaderWritten {
		if err := gocsv.Marshal(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
		om.perfHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.perfFile); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteJSON writes v as indented JSON to name inside the output directory.
func (om *OutputManager) WriteJSON(name string, v any) error {
	if om == nil {
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(om.dir, name), data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// WriteHallOfFame saves the hall of fame as JSON.
func (om *OutputManager) WriteHallOfFame(hof *HallOfFame) error {
	if om == nil || hof == nil {
		return nil
	}
	return om.WriteJSON("hall_of_fame.json", hof.Entries())
}

// StatsPath returns the statistics log path.
func (om *OutputManager) StatsPath() string {
	if om == nil {
		return ""
	}
	return om.statsLog.Path()
}

// Path joins name onto the output directory.
func (om *OutputManager) Path(name string) string {
	if om == nil {
		return ""
	}
	return filepath.Join(om.dir, name)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error

	if om.statsLog != nil {
		if err := om.statsLog.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if om.perfFile != nil {
		if err := om.perfFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
