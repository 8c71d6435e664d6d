package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/pthm-cable/flappy/audio"
	"github.com/pthm-cable/flappy/chart"
	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/evolution"
	"github.com/pthm-cable/flappy/game"
	"github.com/pthm-cable/flappy/playback"
	"github.com/pthm-cable/flappy/renderer"
	"github.com/pthm-cable/flappy/store"
	"github.com/pthm-cable/flappy/telemetry"
	"github.com/pthm-cable/flappy/terminal"
)

// bookmarkHistory is the number of generations the bookmark detector
// averages over.
const bookmarkHistory = 10

type flags struct {
	configPath  string
	mode        string
	seed        int64
	outputDir   string
	generations int
	workers     int
	renderer    string
	champion    string
	store       string
	db          string
	mute        bool
}

func main() {
	var f flags
	flag.StringVar(&f.configPath, "config", "", "Path to config.yaml (empty = use defaults)")
	flag.StringVar(&f.mode, "mode", "train", "train, play, manual, or chart")
	flag.Int64Var(&f.seed, "seed", 0, "RNG seed (0 = time-based)")
	flag.StringVar(&f.outputDir, "output-dir", "output", "Directory for the stats log, chart, and champion")
	flag.IntVar(&f.generations, "generations", 0, "Generation budget (0 = use config)")
	flag.IntVar(&f.workers, "workers", -1, "Evaluation workers (-1 = use config, 0 = NumCPU)")
	flag.StringVar(&f.renderer, "renderer", "raylib", "Playback backend: raylib, term, or none")
	flag.StringVar(&f.champion, "champion", "", "Champion JSON to play (empty = <output-dir>/champion file, then store)")
	flag.StringVar(&f.store, "store", "", "Run archive backend: memory or sqlite (empty = use config)")
	flag.StringVar(&f.db, "db", "", "SQLite database path (empty = use config)")
	flag.BoolVar(&f.mute, "mute", false, "Disable sound effects")
	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(f); err != nil {
		slog.Error("flappy failed", "mode", f.mode, "error", err)
		os.Exit(1)
	}
}

func run(f flags) error {
	if err := config.Init(f.configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()
	if f.generations > 0 {
		cfg.GA.Generations = f.generations
	}
	if f.workers >= 0 {
		cfg.Eval.Workers = f.workers
	}
	if f.store != "" {
		cfg.Store.Kind = f.store
	}
	if f.db != "" {
		cfg.Store.Path = f.db
	}
	if f.mute {
		cfg.Audio.Enabled = false
	}
	if err := cfg.Finalize(); err != nil {
		return err
	}

	if f.seed == 0 {
		f.seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch f.mode {
	case "train":
		return train(ctx, cfg, f)
	case "play":
		return play(ctx, cfg, f)
	case "manual":
		_, err := runPlayback(ctx, cfg, f.renderer, playback.Options{Mode: playback.ModeManual, Seed: f.seed})
		return err
	case "chart":
		return renderChart(filepath.Join(f.outputDir, cfg.Telemetry.StatsFile), filepath.Join(f.outputDir, cfg.Telemetry.ChartFile))
	default:
		return fmt.Errorf("unknown mode %q", f.mode)
	}
}

func train(ctx context.Context, cfg *config.Config, f flags) (err error) {
	om, err := telemetry.NewOutputManager(f.outputDir, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := om.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := om.WriteConfig(cfg); err != nil {
		return err
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	runRec := store.NewRun(f.seed, cfg.GA.Population, cfg.GA.Generations)
	if err := st.SaveRun(ctx, runRec); err != nil {
		return err
	}

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	engine, err := evolution.New(cfg, evolution.Options{Seed: f.seed, Perf: perf})
	if err != nil {
		return err
	}
	hof := telemetry.NewHallOfFame(cfg.Telemetry.HallOfFameSize)
	bookmarks := telemetry.NewBookmarkDetector(bookmarkHistory, cfg.Difficulty.IncrementEvery)

	engine.OnGeneration(func(ctx context.Context, r *evolution.GenerationReport) error {
		r.Stats.LogStats()
		for _, b := range bookmarks.Check(r.Stats) {
			b.LogBookmark()
		}
		if err := om.WriteGeneration(r.Stats); err != nil {
			return err
		}
		if err := st.SaveGeneration(ctx, runRec.ID, r.Stats); err != nil {
			return err
		}

		best := r.Results[r.Stats.BestIndex]
		hof.Consider(telemetry.HallEntry{
			Genome:     r.Population[r.Stats.BestIndex],
			Fitness:    best.Fitness,
			Frames:     best.Frames,
			Passed:     best.Passed,
			Generation: r.Generation,
		})
		if r.Improved {
			slog.Info("new champion", "champion", r.Champion)
			if err := st.SaveChampion(ctx, runRec.ID, r.Champion); err != nil {
				return err
			}
		}

		if cfg.Telemetry.LogPerf && r.Generation > 1 {
			ps := perf.Stats()
			ps.LogStats()
			if err := om.WritePerf(ps, r.Generation); err != nil {
				return err
			}
		}
		return nil
	})

	slog.Info("starting training",
		"run", runRec.ID,
		"seed", f.seed,
		"population", cfg.GA.Population,
		"generations", cfg.GA.Generations,
		"workers", engine.Workers(),
	)

	champ, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	if err := om.WriteJSON(cfg.Telemetry.ChampionFile, champ); err != nil {
		return err
	}
	if err := om.WriteHallOfFame(hof); err != nil {
		return err
	}

	fmt.Printf("Best genome: %s\n", champ.Genome)
	fmt.Printf("Best fitness: %.0f (generation %d, %d obstacles passed)\n", champ.Fitness, champ.Generation, champ.Passed)

	if om != nil {
		if err := renderChart(om.StatsPath(), om.Path(cfg.Telemetry.ChartFile)); err != nil {
			return err
		}
	}

	if f.renderer == "none" {
		return nil
	}
	_, err = runPlayback(ctx, cfg, f.renderer, playback.Options{
		Mode:       playback.ModeAuto,
		Genome:     champ.Genome,
		Generation: champ.Generation,
		Seed:       f.seed,
	})
	return err
}

func play(ctx context.Context, cfg *config.Config, f flags) error {
	champ, err := loadChampion(ctx, cfg, f)
	if err != nil {
		return err
	}
	slog.Info("playing champion", "champion", champ)

	_, err = runPlayback(ctx, cfg, f.renderer, playback.Options{
		Mode:       playback.ModeAuto,
		Genome:     champ.Genome,
		Generation: champ.Generation,
		Seed:       f.seed,
	})
	return err
}

// loadChampion reads the -champion file, else the champion in the output
// directory, else the latest champion in the archive.
func loadChampion(ctx context.Context, cfg *config.Config, f flags) (evolution.Champion, error) {
	var champ evolution.Champion

	path := f.champion
	if path == "" {
		path = filepath.Join(f.outputDir, cfg.Telemetry.ChampionFile)
	}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, &champ); err != nil {
			return champ, fmt.Errorf("parsing %s: %w", path, err)
		}
		return champ, nil
	}
	if f.champion != "" || !errors.Is(err, os.ErrNotExist) {
		return champ, fmt.Errorf("reading champion: %w", err)
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return champ, err
	}
	defer st.Close()

	runID, champ, ok, err := st.LatestChampion(ctx)
	if err != nil {
		return champ, err
	}
	if !ok {
		return champ, fmt.Errorf("no champion in %s or the %s store; train first", path, cfg.Store.Kind)
	}
	slog.Info("loaded champion from store", "run", runID)
	return champ, nil
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	st, err := store.NewStore(cfg.Store.Kind, cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Init(ctx); err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Store.Kind, err)
	}
	return st, nil
}

func renderChart(statsPath, chartPath string) error {
	err := chart.Render(statsPath, chartPath)
	if errors.Is(err, telemetry.ErrNoStats) {
		slog.Warn("no statistics to chart", "path", statsPath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	slog.Info("chart written", "path", chartPath)
	return nil
}

// runPlayback opens a backend and drives one playback session. Panics from
// the backend are returned as errors so deferred cleanup still runs.
func runPlayback(ctx context.Context, cfg *config.Config, backendName string, opts playback.Options) (res game.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("playback panic: %v", r)
		}
	}()

	backend, err := newBackend(cfg, backendName)
	if err != nil {
		return res, err
	}
	defer backend.Close()

	if cfg.Audio.Enabled {
		sm := audio.NewSoundManager(cfg.Audio)
		if err := sm.Initialize(); err != nil {
			slog.Warn("audio unavailable", "error", err)
		} else {
			defer sm.Close()
			opts.Sounds = sm
		}
	}

	res, err = playback.NewRunner(cfg, backend, opts).Run(ctx)
	if err == nil {
		slog.Info("playback finished", "mode", opts.Mode.String(), "fitness", res.Fitness, "passed", res.Passed)
	}
	return res, err
}

func newBackend(cfg *config.Config, name string) (playback.Backend, error) {
	switch name {
	case "raylib":
		return renderer.NewWindow(cfg), nil
	case "term":
		return terminal.New(cfg)
	default:
		return nil, fmt.Errorf("unknown renderer %q", name)
	}
}
