package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikhrachel/conway-evolved/model"
	"github.com/sheikhrachel/conway-evolved/utils"
)

func muteLogger(t *testing.T) {
	t.Helper()
	original := utils.Logf
	utils.SetLogger(nil)
	t.Cleanup(func() { utils.Logf = original })
}

func interactiveConfig() utils.Config {
	c := utils.DefaultConfig()
	c.Rows, c.Columns = 5, 5
	c.Interactive = true
	c.TickIntervalMS = 60_000
	c.MaxGenerations = 0
	c.Seed = 1
	return c
}

func newTestGame(t *testing.T, c utils.Config) (*Game, *bytes.Buffer) {
	t.Helper()
	muteLogger(t)
	var out bytes.Buffer
	g, err := newGame(c, &out)
	require.NoError(t, err)
	return g, &out
}

func TestNewGame(t *testing.T) {
	g, _ := newTestGame(t, interactiveConfig())
	assert.False(t, g.running)
	assert.Equal(t, 0, g.grid.CountLivingCells())

	auto := utils.DefaultConfig()
	auto.Seed = 3
	g, _ = newTestGame(t, auto)
	assert.True(t, g.running)
	assert.Positive(t, g.grid.CountLivingCells())

	bad := utils.DefaultConfig()
	bad.Rows = 0
	_, err := newGame(bad, &bytes.Buffer{})
	assert.True(t, errors.Is(err, utils.ErrInvalidConfig))
}

func TestGame_ApplyCommands(t *testing.T) {
	g, out := newTestGame(t, interactiveConfig())

	for _, cmd := range []command{
		{kind: cmdToggle, row: 2, col: 1},
		{kind: cmdToggle, row: 2, col: 2},
		{kind: cmdToggle, row: 2, col: 3},
		{kind: cmdMark, row: 2, col: 2},
	} {
		require.NoError(t, g.apply(cmd))
	}
	assert.Equal(t, 3, g.grid.CountLivingCells())
	assert.Equal(t, 3, g.flips)

	// Paused: ticks are ignored, explicit steps are not
	require.NoError(t, g.apply(command{kind: cmdTick}))
	assert.Equal(t, 0, g.generation)

	require.NoError(t, g.apply(command{kind: cmdStep}))
	assert.Equal(t, 1, g.generation)
	assert.Equal(t, 4, g.flips)
	assert.True(t, g.grid.IsAlive(1, 2))
	assert.True(t, g.grid.IsAlive(3, 2))
	c, err := g.grid.Get(2, 2)
	require.NoError(t, err)
	assert.Equal(t, model.TagSurvivor, c.Tag)

	require.NoError(t, g.apply(command{kind: cmdRun}))
	require.NoError(t, g.apply(command{kind: cmdTick}))
	assert.Equal(t, 2, g.generation)

	require.NoError(t, g.apply(command{kind: cmdClear}))
	assert.False(t, g.running)
	assert.Equal(t, 0, g.grid.CountLivingCells())

	assert.Contains(t, out.String(), commandHelp)
	assert.True(t, errors.Is(g.apply(command{kind: cmdQuit}), errQuit))
}

func TestGame_RejectsBadCoordinates(t *testing.T) {
	g, out := newTestGame(t, interactiveConfig())

	require.NoError(t, g.apply(command{kind: cmdToggle, row: 9, col: 0}))
	require.NoError(t, g.apply(command{kind: cmdMark, row: 0, col: -1}))
	assert.Equal(t, 0, g.grid.CountLivingCells())
	assert.Contains(t, out.String(), "coordinate out of bounds")
	assert.Empty(t, g.notice)

	require.NoError(t, g.apply(command{kind: cmdInvalid, err: errUnknownCommand}))
	assert.Contains(t, out.String(), "! unknown command")
}

func TestGame_MaxGenerations(t *testing.T) {
	c := interactiveConfig()
	c.MaxGenerations = 2
	g, out := newTestGame(t, c)

	require.NoError(t, g.apply(command{kind: cmdStep}))
	assert.True(t, errors.Is(g.apply(command{kind: cmdStep}), errFinished))
	assert.Contains(t, out.String(), "Reached maximum generations limit (2)")
}

func TestGame_AutoRestartOnExtinction(t *testing.T) {
	c := utils.DefaultConfig()
	c.Rows, c.Columns = 12, 12
	c.Seed = 5
	c.RandomDensity = 0
	g, out := newTestGame(t, c)

	g.grid.Clear()
	require.NoError(t, g.grid.SetAlive(0, 0, true))

	require.NoError(t, g.apply(command{kind: cmdTick}))
	assert.Equal(t, 1, g.lastRestartGen)
	assert.Contains(t, out.String(), "Restarting due to extinction")
	assert.Positive(t, g.grid.CountLivingCells())
}

func TestCheckRestartConditions(t *testing.T) {
	c := utils.DefaultConfig()

	restart, reason := checkRestartConditions(0, 0, 5, c)
	assert.True(t, restart)
	assert.Equal(t, "extinction", reason)

	restart, reason = checkRestartConditions(10, c.StagnationThreshold, 5, c)
	assert.True(t, restart)
	assert.Equal(t, "stagnation detected", reason)

	restart, reason = checkRestartConditions(10, 0, refreshEvery, c)
	assert.True(t, restart)
	assert.Equal(t, "periodic refresh", reason)

	restart, _ = checkRestartConditions(10, 1, 7, c)
	assert.False(t, restart)
}

func TestGame_RunInteractive(t *testing.T) {
	g, _ := newTestGame(t, interactiveConfig())

	in := strings.NewReader("t 2 1\nt 2 2\nt 2 3\nnonsense\ns\nq\n")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, g.Run(ctx, in))
	assert.Equal(t, 1, g.generation)
	for _, row := range []int{1, 2, 3} {
		assert.True(t, g.grid.IsAlive(row, 2), "row %d", row)
	}
	assert.Equal(t, 3, g.grid.CountLivingCells())
}

func TestGame_RunUntilLimit(t *testing.T) {
	c := utils.DefaultConfig()
	c.Rows, c.Columns = 10, 10
	c.TickIntervalMS = 1
	c.MaxGenerations = 3
	c.Seed = 11
	g, _ := newTestGame(t, c)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, g.Run(ctx, nil))
	assert.Equal(t, 3, g.generation)
}

func TestGame_RunCancelled(t *testing.T) {
	g, _ := newTestGame(t, interactiveConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := g.Run(ctx, strings.NewReader(""))
	assert.True(t, errors.Is(err, context.Canceled))
}
