package render

import (
	"encoding/json"
	"io"

	"github.com/ppiankov/audiencepan/internal/source"
)

type jsonPost struct {
	Source string `json:"source"`
	Title  string `json:"title"`
	Score  int    `json:"score"`
	URL    string `json:"url,omitempty"`
}

// JSONRenderer writes one JSON object per line.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSON creates a JSON lines renderer.
func NewJSON(w io.Writer) *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(w)}
}

// Append writes one post object followed by a newline.
func (r *JSONRenderer) Append(src source.Source, p source.Post) error {
	return r.enc.Encode(jsonPost{
		Source: src.Name,
		Title:  p.Title,
		Score:  p.Score,
		URL:    p.URL,
	})
}
