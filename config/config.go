// Package config provides configuration loading and access for the trainer and playback.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// CeilingPolicy decides what happens when the agent touches the top of the screen.
type CeilingPolicy string

const (
	// CeilingKill clamps the agent and ends its life (headless training).
	CeilingKill CeilingPolicy = "kill"
	// CeilingClamp clamps the agent and zeroes its velocity (interactive play).
	CeilingClamp CeilingPolicy = "clamp"
)

// Config holds all configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Agent      AgentConfig      `yaml:"agent"`
	Obstacle   ObstacleConfig   `yaml:"obstacle"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Simulation SimulationConfig `yaml:"simulation"`
	Manual     ManualConfig     `yaml:"manual"`
	GA         GAConfig         `yaml:"ga"`
	Eval       EvalConfig       `yaml:"eval"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Audio      AudioConfig      `yaml:"audio"`
	Store      StoreConfig      `yaml:"store"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings. The playfield is the screen.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// WorldConfig holds playfield layout.
type WorldConfig struct {
	GroundHeight float64 `yaml:"ground_height"`
}

// PhysicsConfig holds per-frame motion constants.
type PhysicsConfig struct {
	Gravity     float64 `yaml:"gravity"`      // Added to vertical velocity every frame
	JumpImpulse float64 `yaml:"jump_impulse"` // Vertical velocity set on a jump (negative = up)
}

// AgentConfig holds the agent's body and spawn point.
type AgentConfig struct {
	StartX float64 `yaml:"start_x"`
	Size   float64 `yaml:"size"`
}

// ObstacleConfig holds pipe-pair geometry and spawn cadence.
type ObstacleConfig struct {
	Gap           float64 `yaml:"gap"`            // Vertical clearance between pillars
	PipeWidth     float64 `yaml:"pipe_width"`     // Pillar width
	SpawnInterval int     `yaml:"spawn_interval"` // Frames between spawns
	GapMargin     int     `yaml:"gap_margin"`     // Min distance of gap center from top and ground
	SpawnOnStart  bool    `yaml:"spawn_on_start"` // Pre-spawn one obstacle at life start
}

// DifficultyConfig holds the speed schedule.
type DifficultyConfig struct {
	BaseSpeed      float64 `yaml:"base_speed"`
	IncrementEvery int     `yaml:"increment_every"` // Obstacles passed per speed step
	Increment      float64 `yaml:"increment"`
	MaxSpeed       float64 `yaml:"max_speed"`
}

// SimulationConfig holds headless run parameters.
type SimulationConfig struct {
	MaxFrames int           `yaml:"max_frames"` // Hard cap per life
	PassBonus float64       `yaml:"pass_bonus"` // Fitness per obstacle passed
	Ceiling   CeilingPolicy `yaml:"ceiling"`
}

// ManualConfig holds interactive-play parameters.
type ManualConfig struct {
	Ceiling   CeilingPolicy `yaml:"ceiling"`
	PassScore int           `yaml:"pass_score"` // Score per obstacle passed in the HUD
}

// GAConfig holds genetic algorithm parameters.
type GAConfig struct {
	Population    int     `yaml:"population"`
	Generations   int     `yaml:"generations"`
	Elites        int     `yaml:"elites"`
	MutationRate  float64 `yaml:"mutation_rate"`  // Probability a child genome gets one gene perturbed
	MutationSigma float64 `yaml:"mutation_sigma"` // Stddev of gaussian perturbation
	GeneMin       float64 `yaml:"gene_min"`
	GeneMax       float64 `yaml:"gene_max"`
	InitRange     float64 `yaml:"init_range"` // Initial genes drawn from [-init_range, init_range]
}

// EvalConfig holds fitness evaluation parameters.
type EvalConfig struct {
	Workers int `yaml:"workers"` // 0 = runtime.NumCPU()
}

// TelemetryConfig holds output file names and logging options.
type TelemetryConfig struct {
	StatsFile      string `yaml:"stats_file"`
	ChartFile      string `yaml:"chart_file"`
	ChampionFile   string `yaml:"champion_file"`
	ResetLog       bool   `yaml:"reset_log"`
	HallOfFameSize int    `yaml:"hall_of_fame_size"`
	LogPerf        bool   `yaml:"log_perf"`
	PerfWindow     int    `yaml:"perf_window"` // Generations averaged by the perf collector
}

// AudioConfig holds sound effect settings.
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Volume     float64 `yaml:"volume"`
	SampleRate int     `yaml:"sample_rate"`
}

// StoreConfig selects the run archive backend.
type StoreConfig struct {
	Kind string `yaml:"kind"` // memory or sqlite
	Path string `yaml:"path"`
}

// DerivedConfig holds values computed from other config values.
type DerivedConfig struct {
	GroundY float64 // Screen.Height - World.GroundHeight
	StartY  float64 // Screen.Height / 2
	GapHalf float64 // Obstacle.Gap / 2
	ScreenW float64
	ScreenH float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults. Panics if they do not parse,
// which can only happen if defaults.yaml itself is broken.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Clone returns a deep copy. Config holds no reference types, so a value copy suffices.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Finalize validates c and recomputes derived values. Call it after editing
// a loaded config in code.
func (c *Config) Finalize() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// Validate checks that the configuration describes a runnable game and GA.
func (c *Config) Validate() error {
	fail := func(field, format string, args ...any) error {
		return fmt.Errorf("%w: %s: %s", ErrInvalid, field, fmt.Sprintf(format, args...))
	}

	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fail("screen", "dimensions must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if c.Screen.TargetFPS <= 0 {
		return fail("screen.target_fps", "must be positive, got %d", c.Screen.TargetFPS)
	}
	if c.World.GroundHeight < 0 || c.World.GroundHeight >= float64(c.Screen.Height) {
		return fail("world.ground_height", "must be in [0, %d), got %v", c.Screen.Height, c.World.GroundHeight)
	}
	if c.Agent.Size <= 0 {
		return fail("agent.size", "must be positive, got %v", c.Agent.Size)
	}
	if c.Obstacle.Gap <= 0 || c.Obstacle.PipeWidth <= 0 {
		return fail("obstacle", "gap and pipe_width must be positive")
	}
	if c.Obstacle.SpawnInterval <= 0 {
		return fail("obstacle.spawn_interval", "must be positive, got %d", c.Obstacle.SpawnInterval)
	}
	playable := c.Screen.Height - int(c.World.GroundHeight)
	if c.Obstacle.GapMargin < 0 || playable-2*c.Obstacle.GapMargin < 0 {
		return fail("obstacle.gap_margin", "%d leaves no room for a gap center in %d pixels", c.Obstacle.GapMargin, playable)
	}
	if float64(c.Obstacle.GapMargin) < c.Obstacle.Gap/2 {
		return fail("obstacle.gap_margin", "must be at least half the gap (%v)", c.Obstacle.Gap/2)
	}
	if c.Difficulty.IncrementEvery <= 0 {
		return fail("difficulty.increment_every", "must be positive, got %d", c.Difficulty.IncrementEvery)
	}
	if c.Difficulty.BaseSpeed < 0 || c.Difficulty.MaxSpeed < c.Difficulty.BaseSpeed {
		return fail("difficulty", "need 0 <= base_speed <= max_speed, got %v and %v", c.Difficulty.BaseSpeed, c.Difficulty.MaxSpeed)
	}
	if c.Difficulty.Increment < 0 {
		return fail("difficulty.increment", "must not be negative, got %v", c.Difficulty.Increment)
	}
	if c.Simulation.MaxFrames <= 0 {
		return fail("simulation.max_frames", "must be positive, got %d", c.Simulation.MaxFrames)
	}
	if c.Simulation.PassBonus < 0 {
		return fail("simulation.pass_bonus", "must not be negative, got %v", c.Simulation.PassBonus)
	}
	if err := validCeiling("simulation.ceiling", c.Simulation.Ceiling); err != nil {
		return err
	}
	if err := validCeiling("manual.ceiling", c.Manual.Ceiling); err != nil {
		return err
	}
	if c.GA.Population < 2 {
		return fail("ga.population", "tournament selection needs at least 2 genomes, got %d", c.GA.Population)
	}
	if c.GA.Generations < 1 {
		return fail("ga.generations", "must be at least 1, got %d", c.GA.Generations)
	}
	if c.GA.Elites < 0 || c.GA.Elites > c.GA.Population {
		return fail("ga.elites", "must be in [0, %d], got %d", c.GA.Population, c.GA.Elites)
	}
	if c.GA.MutationRate < 0 || c.GA.MutationRate > 1 {
		return fail("ga.mutation_rate", "must be a probability, got %v", c.GA.MutationRate)
	}
	if c.GA.MutationSigma < 0 {
		return fail("ga.mutation_sigma", "must not be negative, got %v", c.GA.MutationSigma)
	}
	if c.GA.GeneMin >= c.GA.GeneMax {
		return fail("ga.gene_min", "must be below gene_max, got [%v, %v]", c.GA.GeneMin, c.GA.GeneMax)
	}
	if c.GA.InitRange < 0 {
		return fail("ga.init_range", "must not be negative, got %v", c.GA.InitRange)
	}
	if c.Eval.Workers < 0 {
		return fail("eval.workers", "must not be negative, got %d", c.Eval.Workers)
	}
	switch c.Store.Kind {
	case "memory", "sqlite":
	default:
		return fail("store.kind", "unknown backend %q", c.Store.Kind)
	}
	return nil
}

func validCeiling(field string, p CeilingPolicy) error {
	switch p {
	case CeilingKill, CeilingClamp:
		return nil
	}
	return fmt.Errorf("%w: %s: unknown policy %q", ErrInvalid, field, p)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW = float64(c.Screen.Width)
	c.Derived.ScreenH = float64(c.Screen.Height)
	c.Derived.GroundY = c.Derived.ScreenH - c.World.GroundHeight
	c.Derived.StartY = float64(c.Screen.Height / 2)
	c.Derived.GapHalf = c.Obstacle.Gap / 2
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
