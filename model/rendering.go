package model

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	gridPosBlock = "██"
	gridPosEmpty = "  "

	ansiBlue      = "\033[34m"
	ansiCyan      = "\033[36m"
	ansiReset     = "\033[0m"
	ansiClearHome = "\033[H\033[2J"
)

// TerminalRenderer implements basic terminal rendering
type TerminalRenderer struct {
	Out io.Writer
}

func (r *TerminalRenderer) out() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}

// Display renders the grid to the terminal. Marked cells are drawn in cyan, survivors in blue.
func (r *TerminalRenderer) Display(g *Grid) {
	var sb strings.Builder
	for v := range g.All() {
		switch {
		case !v.Alive:
			sb.WriteString(gridPosEmpty)
		case v.Tag == TagSurvivor:
			sb.WriteString(ansiBlue + gridPosBlock + ansiReset)
		case v.Tag == TagMarked:
			sb.WriteString(ansiCyan + gridPosBlock + ansiReset)
		default:
			sb.WriteString(gridPosBlock)
		}
		if v.Col == g.Columns()-1 {
			sb.WriteByte('\n')
		}
	}
	if _, err := io.WriteString(r.out(), sb.String()); err != nil {
		fmt.Fprintln(os.Stderr, "Error rendering grid:", err)
	}
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear() {
	if _, err := io.WriteString(r.out(), ansiClearHome); err != nil {
		fmt.Fprintln(os.Stderr, "Error clearing terminal:", err)
	}
}
