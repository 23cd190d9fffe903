// Package render turns loaded posts and audience listings into terminal,
// HTML, Markdown, or JSON output. Post renderers write each post as soon as it
// is appended, so output grows while a load cycle is still running.
package render

import (
	"fmt"
	"io"

	"github.com/ppiankov/audiencepan/internal/source"
)

const (
	FormatTerminal = "terminal"
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Formats lists the accepted --format values.
var Formats = []string{FormatTerminal, FormatHTML, FormatMarkdown, FormatJSON}

// New returns the post renderer for format.
func New(format string, w io.Writer, color bool) (source.Sink, error) {
	switch format {
	case FormatTerminal, "":
		return NewTerminal(w, color), nil
	case FormatHTML:
		return NewHTML(w), nil
	case FormatMarkdown, "md":
		return NewMarkdown(w), nil
	case FormatJSON:
		return NewJSON(w), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want terminal, html, markdown, or json)", format)
	}
}
