package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/conway-evolved/model"
	"github.com/sheikhrachel/conway-evolved/utils"
)

var (
	errQuit     = errors.New("quit requested")
	errFinished = errors.New("generation limit reached")
)

// Game is the driver around a grid: it owns the grid, feeds it user input,
// steps it on a fixed cadence and renders the result.
type Game struct {
	config   utils.Config
	grid     *model.Grid
	pool     *model.GridPool
	renderer *model.TerminalRenderer
	stats    *utils.Stats
	rng      *rand.Rand
	out      io.Writer

	running        bool
	generation     int
	stagnantCount  int
	lastRestartGen int
	lastFrameTime  time.Time
	flips          int // liveness changes since the last frame
	notice         string
}

// newGame builds a game from config. Interactive games start empty and paused,
// others start running on a seeded set of patterns.
func newGame(config utils.Config, out io.Writer) (*Game, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "[newGame]")
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &Game{
		config:        config,
		renderer:      &model.TerminalRenderer{Out: out},
		stats:         utils.NewStats(),
		rng:           rand.New(rand.NewSource(seed)),
		out:           out,
		running:       !config.Interactive,
		lastFrameTime: time.Now(),
	}
	if config.UseMemoryPool {
		g.pool = model.NewGridPool()
	}

	if err := g.newGrid(); err != nil {
		return nil, err
	}
	if !config.Interactive {
		g.grid.ResetWithInterestingPatterns(config.RandomDensity, config.MarkedFraction, g.rng)
	}
	return g, nil
}

// newGrid replaces the current grid with an empty one, recycling the old one through the pool
func (g *Game) newGrid() error {
	var (
		grid *model.Grid
		err  error
	)
	if g.pool != nil {
		grid, err = g.pool.Get(g.config.Rows, g.config.Columns)
	} else {
		grid, err = model.NewGrid(g.config.Rows, g.config.Columns)
	}
	if err != nil {
		return errors.Wrap(err, "[newGrid]")
	}

	model.GridToPool(g.grid, g.pool)
	grid.OnChange(func(int, int, bool) { g.flips++ })
	g.grid = grid
	return nil
}

// Run drives the game until ctx is cancelled, the user quits or the
// generation limit is reached. Commands from the ticker and from input are
// funneled into a single goroutine, so the grid is never touched concurrently.
func (g *Game) Run(ctx context.Context, in io.Reader) error {
	eg, ctx := errgroup.WithContext(ctx)
	cmds := make(chan command)

	eg.Go(func() error {
		return tick(ctx, g.config.TickInterval(), cmds)
	})
	if g.config.Interactive && in != nil {
		lines := scanLines(ctx.Done(), in)
		eg.Go(func() error {
			return readCommands(ctx, lines, cmds)
		})
	}
	eg.Go(func() error {
		g.show(g.status())
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case cmd := <-cmds:
				if err := g.apply(cmd); err != nil {
					return err
				}
			}
		}
	})

	err := eg.Wait()
	if errors.Is(err, errQuit) || errors.Is(err, errFinished) {
		return nil
	}
	return err
}

// tick requests a generation every interval
func tick(ctx context.Context, interval time.Duration, cmds chan<- command) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			select {
			case <-ctx.Done():
				return ctx.Err()
			case cmds <- command{kind: cmdTick}:
			}
		}
	}
}

// apply executes a single command against the grid
func (g *Game) apply(cmd command) error {
	switch cmd.kind {
	case cmdTick:
		if !g.running {
			return nil
		}
		return g.advance()
	case cmdStep:
		return g.advance()
	case cmdToggle:
		if _, err := g.grid.Toggle(cmd.row, cmd.col); err != nil {
			g.reject(err)
		}
	case cmdMark:
		if err := g.grid.SetTag(cmd.row, cmd.col, model.TagMarked); err != nil {
			g.reject(err)
		}
	case cmdRun:
		g.running = true
	case cmdPause:
		g.running = false
	case cmdClear:
		g.running = false
		g.grid.Clear()
	case cmdQuit:
		return errQuit
	case cmdInvalid:
		g.reject(cmd.err)
	}
	g.show(g.status())
	return nil
}

// reject reports a bad command without touching the grid
func (g *Game) reject(err error) {
	g.notice = err.Error()
	utils.Logf("rejected command: %v", err)
}

// advance steps the grid one generation, renders it and applies the restart policy
func (g *Game) advance() error {
	frameStart := time.Now()

	g.flips = 0
	g.grid.Step()
	g.generation++

	livingCells, isStagnant := g.updateGameState(frameStart)
	g.lastFrameTime = frameStart

	if isStagnant {
		g.stagnantCount++
	} else {
		g.stagnantCount = 0
	}

	g.show(g.status())

	if g.config.MaxGenerations > 0 && g.generation >= g.config.MaxGenerations {
		fmt.Fprintf(g.out, "\n🏁 Reached maximum generations limit (%d)\n", g.config.MaxGenerations)
		return errFinished
	}

	if g.config.Interactive {
		return nil
	}

	shouldRestart, restartReason := checkRestartConditions(livingCells, g.stagnantCount, g.generation, g.config)
	switch {
	case shouldRestart && g.config.AutoRestart:
		fmt.Fprintf(g.out, "🔄 Restarting due to %s...\n", restartReason)
		return g.restart()
	case g.stagnantCount >= 2 && g.stagnantCount < g.config.StagnationThreshold:
		// Inject some life to try to break the stagnation
		g.grid.InjectRandomLife(g.config.InjectionCount, g.rng)
	}
	return nil
}

// restart swaps in a freshly seeded grid
func (g *Game) restart() error {
	if err := g.newGrid(); err != nil {
		return err
	}
	g.grid.ResetWithInterestingPatterns(g.config.RandomDensity, g.config.MarkedFraction, g.rng)
	g.lastRestartGen = g.generation
	g.stagnantCount = 0
	g.stats.Reset()
	utils.Logf("restarted at generation %d with %d living cells", g.generation, g.grid.CountLivingCells())
	return nil
}

func (g *Game) status() string {
	switch {
	case g.grid.CountLivingCells() == 0:
		return "Extinct"
	case g.stagnantCount > 0:
		return fmt.Sprintf("Stagnant (%d)", g.stagnantCount)
	case g.running:
		return "Running"
	default:
		return "Paused"
	}
}

// show redraws the screen
func (g *Game) show(status string) {
	g.renderer.Clear()
	displayGameStatus(g.out, g.generation, status, g.grid, g.stats, g.lastRestartGen, g.flips)
	if g.notice != "" {
		fmt.Fprintf(g.out, "! %s\n", g.notice)
		g.notice = ""
	}
	g.renderer.Display(g.grid)
	if g.config.Interactive {
		fmt.Fprintln(g.out, commandHelp)
	}
}
