package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/audiencepan/internal/source"
)

// MarkdownRenderer writes posts as Markdown sections.
type MarkdownRenderer struct {
	w io.Writer
}

// NewMarkdown creates a Markdown renderer.
func NewMarkdown(w io.Writer) *MarkdownRenderer {
	return &MarkdownRenderer{w: w}
}

var mdEscaper = strings.NewReplacer(`\`, `\\`, "[", `\[`, "]", `\]`, "*", `\*`, "_", `\_`, "`", "\\`")

// Percent-encodes what would end an angle-bracket link destination.
var mdURLEscaper = strings.NewReplacer("<", "%3C", ">", "%3E", "\n", "%0A", "\r", "%0D")

// Append writes one post section.
func (r *MarkdownRenderer) Append(src source.Source, p source.Post) error {
	if _, err := fmt.Fprintf(r.w, "### %s\n\nScore: %d · r/%s\n\n", mdEscaper.Replace(p.Title), p.Score, src.Name); err != nil {
		return err
	}
	if p.URL != "" {
		if _, err := fmt.Fprintf(r.w, "[Read More](<%s>)\n\n", mdURLEscaper.Replace(p.URL)); err != nil {
			return err
		}
	}
	return nil
}
