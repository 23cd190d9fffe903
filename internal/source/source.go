// Package source loads posts for an ordered list of sources, one source at a
// time, pacing requests to stay under the backend's rate limit.
package source

import "context"

// Source names one feed to poll, e.g. a subreddit.
type Source struct {
	Name string `json:"name"`
}

// Post is a single item returned by the posts API.
type Post struct {
	Title string `json:"title"`
	Score int    `json:"score"`
	URL   string `json:"url"`
}

// Result is the outcome of loading one source: its posts or the failure.
type Result struct {
	Source Source
	Posts  []Post
	Err    error
}

// PostFetcher retrieves the posts published for a single source.
type PostFetcher interface {
	Posts(ctx context.Context, name string) ([]Post, error)
}

// Sink receives posts as they arrive. Implementations append one visible
// element per call and never reorder earlier output.
type Sink interface {
	Append(src Source, p Post) error
}

// Names builds a source list from plain names, preserving order and duplicates.
func Names(names ...string) []Source {
	sources := make([]Source, 0, len(names))
	for _, n := range names {
		sources = append(sources, Source{Name: n})
	}
	return sources
}
