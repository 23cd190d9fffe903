package render

import (
	"fmt"
	"io"

	"github.com/ppiankov/audiencepan/internal/source"
)

// TerminalRenderer writes posts as indented text blocks.
type TerminalRenderer struct {
	w     io.Writer
	color bool
}

// NewTerminal creates a terminal renderer. Set color=true for ANSI colors.
func NewTerminal(w io.Writer, color bool) *TerminalRenderer {
	return &TerminalRenderer{w: w, color: color}
}

// Append writes one post block.
func (r *TerminalRenderer) Append(src source.Source, p source.Post) error {
	_, err := fmt.Fprintf(r.w, "%s\n  Score: %d  %s\n", r.bold(p.Title), p.Score, r.dim("r/"+src.Name))
	if err != nil {
		return err
	}
	if p.URL != "" {
		if _, err := fmt.Fprintf(r.w, "  %s\n", r.dim(p.URL)); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(r.w)
	return err
}

// ANSI helpers, no-op when color=false.

func (r *TerminalRenderer) bold(s string) string {
	if !r.color {
		return s
	}
	return "\033[1m" + s + "\033[0m"
}

func (r *TerminalRenderer) dim(s string) string {
	if !r.color {
		return s
	}
	return "\033[2m" + s + "\033[0m"
}
