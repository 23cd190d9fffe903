// Package notify reports the outcome of user actions on the terminal.
package notify

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

// Notifier writes one line per notification.
type Notifier struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
}

// New creates a notifier writing to w.
func New(w io.Writer, color bool) *Notifier {
	return &Notifier{w: w, color: color}
}

// Success reports a completed action.
func (n *Notifier) Success(msg string) {
	n.write("\033[32m", "OK", msg)
}

// Error reports a failed action.
func (n *Notifier) Error(msg string) {
	n.write("\033[31m", "ERROR", msg)
}

func (n *Notifier) write(color, tag, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.color {
		_, _ = fmt.Fprintf(n.w, "%s[%s]\033[0m %s\n", color, tag, msg)
		return
	}
	_, _ = fmt.Fprintf(n.w, "[%s] %s\n", tag, msg)
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// UseColor decides whether output to w gets ANSI colors.
func UseColor(w io.Writer, enabled, noColor bool) bool {
	if noColor || !enabled {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return IsTerminal(w)
}
