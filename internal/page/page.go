// Package page extracts the data the web application embeds in its
// server-rendered HTML: the source list, the CSRF token, and listing cards.
package page

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ppiankov/audiencepan/internal/audience"
	"github.com/ppiankov/audiencepan/internal/source"
)

const (
	sourceListSelector = "#subreddit-list"
	sourceListAttr     = "data-subreddits"
	csrfSelector       = `meta[name="csrf-token"]`
	audienceCardSel    = ".audience-card"
	subredditCardSel   = ".subreddit-card"
	filterLinkSel      = ".filter-section a"
)

var (
	ErrNoSourceList = errors.New("page: no #subreddit-list element with data-subreddits")
	ErrNoCSRFToken  = errors.New("page: no csrf-token meta tag")
)

// Parse reads an HTML document.
func Parse(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// Sources decodes the JSON list of {name} objects the page embeds in
// #subreddit-list[data-subreddits]. Order and duplicates are preserved;
// entries without a name are skipped.
func Sources(doc *goquery.Document) ([]source.Source, error) {
	raw, ok := doc.Find(sourceListSelector).First().Attr(sourceListAttr)
	if !ok {
		return nil, ErrNoSourceList
	}

	var entries []source.Source
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("page: decode %s: %w", sourceListAttr, err)
	}

	sources := make([]source.Source, 0, len(entries))
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		sources = append(sources, source.Source{Name: name})
	}
	return sources, nil
}

// CSRFToken returns the content of the csrf-token meta tag.
func CSRFToken(doc *goquery.Document) (string, error) {
	token, ok := doc.Find(csrfSelector).First().Attr("content")
	if !ok || strings.TrimSpace(token) == "" {
		return "", ErrNoCSRFToken
	}
	return strings.TrimSpace(token), nil
}

// AudienceCards returns every .audience-card with its heading and subreddit text.
func AudienceCards(doc *goquery.Document) []audience.Card {
	var cards []audience.Card
	doc.Find(audienceCardSel).Each(func(_ int, s *goquery.Selection) {
		cards = append(cards, audience.Card{
			Title:     strings.TrimSpace(s.Find("h3").First().Text()),
			Subreddit: strings.TrimSpace(s.Find(".subreddit").First().Text()),
		})
	})
	return cards
}

// SubredditCards returns the selectable .subreddit-card elements of a search
// result page. A subscriber count that does not parse is reported as 0.
func SubredditCards(doc *goquery.Document) []audience.BulkSubreddit {
	var subs []audience.BulkSubreddit
	doc.Find(subredditCardSel).Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(s.AttrOr("data-subreddit", ""))
		if name == "" {
			return
		}
		subscribers, err := strconv.Atoi(strings.TrimSpace(s.AttrOr("data-subscribers", "")))
		if err != nil {
			subscribers = 0
		}
		subs = append(subs, audience.BulkSubreddit{
			Name:        name,
			Subscribers: subscribers,
			Description: s.AttrOr("data-description", ""),
		})
	})
	return subs
}

// FilterLinks returns the hrefs of the listing page's filter links.
func FilterLinks(doc *goquery.Document) []string {
	var links []string
	doc.Find(filterLinkSel).Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && href != "" {
			links = append(links, href)
		}
	})
	return links
}
