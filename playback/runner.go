package playback

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/game"
	"github.com/pthm-cable/flappy/neural"
	"github.com/pthm-cable/flappy/scene"
)

// Options configures a Runner.
type Options struct {
	Mode       Mode
	Genome     neural.Genome // ignored in manual mode
	Generation int           // shown in the HUD when > 0
	Seed       int64
	Sounds     Sounds // nil = silent
}

// Runner plays lives until the player quits.
type Runner struct {
	cfg     *config.Config
	backend Backend
	opts    Options

	scene    *scene.Scene
	sim      *game.Simulation
	lives    int
	gameOver bool
}

// NewRunner creates a runner drawing through backend.
func NewRunner(cfg *config.Config, backend Backend, opts Options) *Runner {
	if opts.Sounds == nil {
		opts.Sounds = silent{}
	}
	r := &Runner{
		cfg:     cfg,
		backend: backend,
		opts:    opts,
		scene:   scene.New(),
	}
	r.restart()
	return r
}

func (r *Runner) restart() {
	simOpts := game.Options{
		Ceiling: r.cfg.Simulation.Ceiling,
		Events:  true,
	}
	if r.opts.Mode == ModeManual {
		simOpts.Ceiling = r.cfg.Manual.Ceiling
		simOpts.Manual = true
		simOpts.MaxFrames = math.MaxInt32
	}

	rng := rand.New(rand.NewSource(r.opts.Seed + int64(r.lives)))
	r.sim = game.NewSimulation(r.cfg, r.opts.Genome, rng, simOpts)
	r.lives++
	r.gameOver = false
	r.scene.Reset()
	r.scene.Sync(r.sim.Agent(), r.sim.Obstacles())
}

// View builds the view for the current frame.
func (r *Runner) View() View {
	res := r.sim.Result()
	return View{
		Scene:      r.scene,
		Mode:       r.opts.Mode,
		Agent:      r.sim.Agent(),
		Decision:   r.sim.LastDecision(),
		Score:      r.sim.Score(r.cfg.Manual.PassScore),
		Fitness:    res.Fitness,
		Generation: r.opts.Generation,
		Speed:      r.sim.Speed(),
		GameOver:   r.gameOver,
	}
}

// Lives returns how many lives have been started.
func (r *Runner) Lives() int { return r.lives }

// Run presents frames until the player quits or ctx is cancelled, and
// returns the result of the last life.
func (r *Runner) Run(ctx context.Context) (game.Result, error) {
	for {
		if err := ctx.Err(); err != nil {
			return r.sim.Result(), err
		}

		in, err := r.backend.Present(r.View())
		if err != nil {
			return r.sim.Result(), fmt.Errorf("presenting frame: %w", err)
		}
		if in.Quit {
			return r.sim.Result(), nil
		}

		if r.gameOver {
			if in.Restart {
				r.restart()
			}
			continue
		}

		if r.opts.Mode == ModeManual && in.Jump {
			r.sim.RequestJump()
		}
		r.sim.Step()
		for _, ev := range r.sim.Drain() {
			r.opts.Sounds.Play(ev.Kind)
		}
		r.scene.Sync(r.sim.Agent(), r.sim.Obstacles())

		if !r.sim.Alive() {
			r.gameOver = true
			slog.Info("life over", "mode", r.opts.Mode.String(), "result", r.sim.Result(), "life", r.lives)
		}
	}
}
