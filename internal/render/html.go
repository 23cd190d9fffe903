package render

import (
	"fmt"
	"html"
	"io"

	"github.com/ppiankov/audiencepan/internal/source"
)

// HTMLRenderer writes each post as a post-card element, the same markup the
// web page appends to its posts container.
type HTMLRenderer struct {
	w io.Writer
}

// NewHTML creates an HTML renderer.
func NewHTML(w io.Writer) *HTMLRenderer {
	return &HTMLRenderer{w: w}
}

// Append writes one post-card div. Title and URL are escaped.
func (r *HTMLRenderer) Append(src source.Source, p source.Post) error {
	_, err := fmt.Fprintf(r.w, `<div class="post-card" data-source="%s">
    <h3>%s</h3>
    <p>Score: %d</p>
    <a href="%s" target="_blank" rel="noopener">Read More</a>
</div>
`,
		html.EscapeString(src.Name),
		html.EscapeString(p.Title),
		p.Score,
		html.EscapeString(p.URL),
	)
	return err
}
