// Package logging builds the application's slog logger: a readable
// single-line format with component and operation prefixes and secret masking.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/ppiankov/audiencepan/internal/privacy"
)

// New creates a logger writing to w at the given level. Attribute values and
// messages matching any redact pattern are masked.
func New(w io.Writer, level string, redact []*regexp.Regexp) *slog.Logger {
	return slog.New(NewReadableHandler(w, ParseLevel(level), redact))
}

// ParseLevel maps debug, info, warn, and error to slog levels. Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ReadableHandler writes records as
//
//	[15:04:05.000] LEVEL [component] (op): message | key=value, key=value
type ReadableHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	group  string
	redact []*regexp.Regexp
}

// NewReadableHandler creates a handler writing to w.
func NewReadableHandler(w io.Writer, level slog.Leveler, redact []*regexp.Regexp) *ReadableHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &ReadableHandler{mu: &sync.Mutex{}, w: w, level: level, redact: redact}
}

func (h *ReadableHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *ReadableHandler) Handle(_ context.Context, r slog.Record) error {
	var component, op string
	var parts []string

	collect := func(a slog.Attr) {
		switch a.Key {
		case "component":
			component = a.Value.String()
		case "op":
			op = a.Value.String()
		default:
			parts = append(parts, h.formatAttr(a))
		}
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		collect(a)
		return true
	})

	var b strings.Builder
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	fmt.Fprintf(&b, "[%s] %s", ts.Format("15:04:05.000"), formatLevel(r.Level))
	if component != "" {
		fmt.Fprintf(&b, " [%s]", component)
	}
	if op != "" {
		fmt.Fprintf(&b, " (%s)", op)
	}
	b.WriteString(": ")
	b.WriteString(privacy.Apply(r.Message, h.redact))
	if len(parts) > 0 {
		b.WriteString(" | ")
		b.WriteString(strings.Join(parts, ", "))
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *ReadableHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (h *ReadableHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	if h.group != "" {
		next.group = h.group + "." + name
	} else {
		next.group = name
	}
	return &next
}

func (h *ReadableHandler) formatAttr(a slog.Attr) string {
	val := a.Value.Resolve()
	var s string
	switch {
	case val.Kind() == slog.KindDuration:
		s = val.Duration().Round(time.Millisecond).String()
	case a.Key == "error":
		s = fmt.Sprintf("%q", val.String())
	default:
		s = val.String()
	}
	return a.Key + "=" + privacy.Apply(s, h.redact)
}

func formatLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
