package main

import (
	"fmt"
	"io"
	"time"

	"github.com/sheikhrachel/conway-evolved/model"
	"github.com/sheikhrachel/conway-evolved/utils"
)

// refreshEvery forces a restart after this many generations in auto mode
const refreshEvery = 200

// displayGameInfo shows the initial game information
func displayGameInfo(w io.Writer, config utils.Config, grid *model.Grid) {
	fmt.Fprintf(w, "Features: Memory Pool: %v, Interactive: %v, Tick: %v\n",
		config.UseMemoryPool, config.Interactive, config.TickInterval())
	fmt.Fprintf(w, "Grid: %dx%d | Initial living cells: %d | Marked: %d\n",
		grid.Rows(), grid.Columns(), grid.CountLivingCells(), grid.CountTagged(model.TagMarked))
	fmt.Fprintln(w, "Press Ctrl+C to exit gracefully")
	fmt.Fprintln(w)
}

// updateGameState records the current generation in the stats and the grid history.
// It returns the number of living cells and whether the grid has stagnated.
func (g *Game) updateGameState(frameStart time.Time) (int, bool) {
	livingCells := g.grid.CountLivingCells()

	frameDuration := frameStart.Sub(g.lastFrameTime)
	g.stats.Update(g.generation, livingCells, frameDuration)
	g.stats.SurvivorCells = g.grid.CountTagged(model.TagSurvivor)
	g.stats.BoundingBoxSize = g.grid.GetBoundingBoxSize()

	isStagnant := g.grid.IsStagnant()
	g.grid.UpdateHistory()

	return livingCells, isStagnant
}

// displayGameStatus shows the current game status
func displayGameStatus(
	w io.Writer,
	generation int,
	status string,
	grid *model.Grid,
	stats *utils.Stats,
	lastRestartGen int,
	flips int,
) {
	livingCells := grid.CountLivingCells()
	density := float64(livingCells) / float64(grid.Rows()*grid.Columns()) * 100

	fmt.Fprintf(w, "Gen: %d | Living: %d | Density: %.1f%% | Status: %s | Bounding box: %d cells\n",
		generation, livingCells, density, status, grid.GetBoundingBoxSize())

	mean, stdDev := stats.PopulationSpread()
	fmt.Fprintf(w, "Performance: %.1f gen/sec | Avg Pop: %.1f (σ %.1f) | Survivors: %d | Flips: %d | Runtime: %.1fs\n",
		stats.GenerationsPerSecond, mean, stdDev, stats.SurvivorCells, flips, time.Since(stats.StartTime).Seconds())

	if generation > lastRestartGen {
		fmt.Fprintf(w, "Generations since restart: %d\n", generation-lastRestartGen)
	}
	fmt.Fprintln(w)
}

// checkRestartConditions determines if the game should restart
func checkRestartConditions(
	livingCells, stagnantCount, generation int,
	config utils.Config,
) (bool, string) {
	if livingCells == 0 {
		return true, "extinction"
	}
	if config.StagnationThreshold > 0 && stagnantCount >= config.StagnationThreshold {
		return true, "stagnation detected"
	}
	if generation > 0 && generation%refreshEvery == 0 {
		return true, "periodic refresh"
	}
	return false, ""
}

// printFinalStats summarizes the run on exit
func printFinalStats(w io.Writer, g *Game) {
	fmt.Fprintf(w, "Final stats: %d generations in %.1f seconds\n",
		g.generation, time.Since(g.stats.StartTime).Seconds())
	fmt.Fprintf(w, "Average: %.1f gen/sec, %.1f avg population\n",
		g.stats.GenerationsPerSecond, g.stats.AveragePopulation)
}
