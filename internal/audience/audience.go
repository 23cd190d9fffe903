// Package audience holds the records exchanged with the audiences API and the
// client-side checks applied before they are sent.
package audience

import (
	"errors"
	"strings"
)

var (
	ErrInterestsRequired = errors.New("interests are required")
	ErrNoSubreddits      = errors.New("at least one subreddit is required")
)

// Audience is a saved group of subreddits.
type Audience struct {
	ID          int    `json:"id,omitempty"`
	Name        string `json:"name"`
	Subreddit   string `json:"subreddit,omitempty"`
	Description string `json:"description,omitempty"`
	Subscribers int    `json:"subscribers,omitempty"`
	Category    string `json:"category,omitempty"`
	Theme       string `json:"theme,omitempty"`
	Topic       string `json:"topic,omitempty"`
}

// SubredditInfo describes a subreddit as returned by search and fetch-subreddit.
type SubredditInfo struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Subscribers int    `json:"subscribers"`
}

// Card is one audience card shown on a listing page.
type Card struct {
	Title     string
	Subreddit string
}

// BulkSubreddit is one selected subreddit in a bulk save.
type BulkSubreddit struct {
	Name        string `json:"name"`
	Subscribers int    `json:"subscribers"`
	Description string `json:"description"`
}

// BulkRequest saves several subreddits as one audience under shared interests.
type BulkRequest struct {
	Interests  string          `json:"interests"`
	Subreddits []BulkSubreddit `json:"subreddits"`
}

// Validate reports why the request must not be sent.
func (r BulkRequest) Validate() error {
	if strings.TrimSpace(r.Interests) == "" {
		return ErrInterestsRequired
	}
	if len(r.Subreddits) == 0 {
		return ErrNoSubreddits
	}
	return nil
}

// FromInfo converts search results into bulk entries.
func FromInfo(infos []SubredditInfo) []BulkSubreddit {
	out := make([]BulkSubreddit, 0, len(infos))
	for _, in := range infos {
		out = append(out, BulkSubreddit{
			Name:        in.Name,
			Subscribers: in.Subscribers,
			Description: in.Description,
		})
	}
	return out
}
