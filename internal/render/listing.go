package render

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/ppiankov/audiencepan/internal/audience"
)

// Subreddits writes search results, one per line, with grouped subscriber counts.
func Subreddits(w io.Writer, infos []audience.SubredditInfo) {
	if len(infos) == 0 {
		fmt.Fprintln(w, "No subreddits found.")
		return
	}
	for _, in := range infos {
		title := in.Title
		if title == "" {
			title = in.Name
		}
		fmt.Fprintf(w, "  r/%-24s %12s subscribers  %s\n", in.Name, humanize.Comma(int64(in.Subscribers)), title)
	}
}

// Audiences writes saved audiences, one per line.
func Audiences(w io.Writer, list []audience.Audience) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No audiences found.")
		return
	}
	for _, a := range list {
		line := fmt.Sprintf("  %-28s", a.Name)
		if a.Subreddit != "" {
			line += fmt.Sprintf(" r/%-20s", a.Subreddit)
		}
		if a.Subscribers > 0 {
			line += fmt.Sprintf(" %12s subscribers", humanize.Comma(int64(a.Subscribers)))
		}
		if a.Theme != "" || a.Topic != "" {
			line += fmt.Sprintf("  [%s/%s]", a.Theme, a.Topic)
		}
		fmt.Fprintln(w, line)
	}
}

// Cards writes the visible audience cards and a count of hidden ones.
func Cards(w io.Writer, visible []audience.Card, total int) {
	for _, c := range visible {
		fmt.Fprintf(w, "  %s  %s\n", c.Title, c.Subreddit)
	}
	if hidden := total - len(visible); hidden > 0 {
		fmt.Fprintf(w, "  (%d of %d cards hidden)\n", hidden, total)
	}
	if total == 0 {
		fmt.Fprintln(w, "No audience cards on page.")
	}
}
