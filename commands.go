package main

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type commandKind int

const (
	cmdTick commandKind = iota
	cmdStep
	cmdToggle
	cmdMark
	cmdRun
	cmdPause
	cmdClear
	cmdQuit
	cmdInvalid
)

// command is a unit of work for the goroutine that owns the grid
type command struct {
	kind     commandKind
	row, col int
	err      error
}

var errUnknownCommand = errors.New("unknown command")

const commandHelp = "Commands: t <row> <col> toggle | m <row> <col> mark | s step | r run | p pause | c clear | q quit"

// parseCommand turns one line of user input into a command
func parseCommand(line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, errors.Wrap(errUnknownCommand, "[parseCommand] empty input")
	}

	var kind commandKind
	switch strings.ToLower(fields[0]) {
	case "t", "toggle":
		kind = cmdToggle
	case "m", "mark":
		kind = cmdMark
	case "s", "step":
		kind = cmdStep
	case "r", "run", "start":
		kind = cmdRun
	case "p", "pause", "stop":
		kind = cmdPause
	case "c", "clear":
		kind = cmdClear
	case "q", "quit", "exit":
		kind = cmdQuit
	default:
		return command{}, errors.Wrapf(errUnknownCommand, "[parseCommand] %q", fields[0])
	}

	if kind != cmdToggle && kind != cmdMark {
		return command{kind: kind}, nil
	}

	if len(fields) != 3 {
		return command{}, errors.Errorf("[parseCommand] %s expects <row> <col>, got %q", fields[0], line)
	}
	row, err := strconv.Atoi(fields[1])
	if err != nil {
		return command{}, errors.Wrapf(err, "[parseCommand] bad row %q", fields[1])
	}
	col, err := strconv.Atoi(fields[2])
	if err != nil {
		return command{}, errors.Wrapf(err, "[parseCommand] bad column %q", fields[2])
	}
	return command{kind: kind, row: row, col: col}, nil
}

// scanLines reads r line by line on its own goroutine. The channel is closed at EOF
// or once done is closed. A goroutine blocked inside a Read of r can only
// notice done after that Read returns.
func scanLines(done <-chan struct{}, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case <-done:
				return
			case lines <- scanner.Text():
			}
		}
	}()
	return lines
}

// readCommands forwards parsed input to the grid owner until input ends or ctx is done
func readCommands(ctx context.Context, lines <-chan string, cmds chan<- command) error {
	for {
		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			line = l
		}

		cmd, err := parseCommand(line)
		if err != nil {
			cmd = command{kind: cmdInvalid, err: err}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmds <- cmd:
		}
	}
}
