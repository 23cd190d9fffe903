// Package search narrows audience listings on the client side.
package search

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ppiankov/audiencepan/internal/audience"
)

// Match is a card and whether it stays visible under the current query.
type Match struct {
	Card    audience.Card
	Visible bool
}

// Filter marks each card visible when its title or subreddit contains query,
// ignoring case. An empty query shows every card. Order is preserved.
func Filter(cards []audience.Card, query string) []Match {
	q := strings.ToLower(query)
	out := make([]Match, 0, len(cards))
	for _, c := range cards {
		visible := strings.Contains(strings.ToLower(c.Title), q) ||
			strings.Contains(strings.ToLower(c.Subreddit), q)
		out = append(out, Match{Card: c, Visible: visible})
	}
	return out
}

// Visible returns only the cards that are shown.
func Visible(matches []Match) []audience.Card {
	var cards []audience.Card
	for _, m := range matches {
		if m.Visible {
			cards = append(cards, m.Card)
		}
	}
	return cards
}

// ApplyFilterLink sets the first parameter of a filter link's query string on
// current, keeping every other parameter current already has.
func ApplyFilterLink(current, href string) (string, error) {
	cur, err := url.Parse(current)
	if err != nil {
		return "", fmt.Errorf("parse current url: %w", err)
	}
	link, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parse filter link: %w", err)
	}

	raw := link.RawQuery
	if raw == "" {
		return "", fmt.Errorf("filter link %q has no query", href)
	}
	pair, _, _ := strings.Cut(raw, "&")
	key, value, _ := strings.Cut(pair, "=")
	key, err = url.QueryUnescape(key)
	if err != nil || key == "" {
		return "", fmt.Errorf("filter link %q: bad parameter", href)
	}
	value, err = url.QueryUnescape(value)
	if err != nil {
		return "", fmt.Errorf("filter link %q: bad value: %w", href, err)
	}

	q := cur.Query()
	q.Set(key, value)
	cur.RawQuery = q.Encode()
	return cur.String(), nil
}
