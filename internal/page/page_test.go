package page

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dashboardHTML = `<!doctype html>
<html>
<head>
  <meta name="csrf-token" content="  tok-42 ">
</head>
<body>
  <div id="subreddit-list" data-subreddits='[{"name":"golang"},{"name":"rust"},{"name":""},{"name":"golang"}]'></div>
  <div class="filter-section">
    <a href="/audiences/saved?theme=tech">Tech</a>
    <a href="/audiences/saved?topic=ops">Ops</a>
    <a>no href</a>
  </div>
  <div class="audience-card"><h3> Gophers </h3><span class="subreddit">r/golang</span></div>
  <div class="audience-card"><h3>Crabs</h3><span class="subreddit">r/rust</span></div>
  <div class="subreddit-card" data-subreddit="devops" data-subscribers="1200" data-description="DevOps talk"></div>
  <div class="subreddit-card" data-subreddit="sre" data-subscribers="n/a"></div>
  <div class="subreddit-card" data-subscribers="5"></div>
</body>
</html>`

func mustParse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestSources(t *testing.T) {
	doc := mustParse(t, dashboardHTML)

	sources, err := Sources(doc)
	require.NoError(t, err)
	require.Len(t, sources, 3)
	assert.Equal(t, "golang", sources[0].Name)
	assert.Equal(t, "rust", sources[1].Name)
	assert.Equal(t, "golang", sources[2].Name)
}

func TestSources_Missing(t *testing.T) {
	doc := mustParse(t, `<html><body><div id="other"></div></body></html>`)
	_, err := Sources(doc)
	assert.ErrorIs(t, err, ErrNoSourceList)
}

func TestSources_InvalidJSON(t *testing.T) {
	doc := mustParse(t, `<div id="subreddit-list" data-subreddits="not json"></div>`)
	_, err := Sources(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data-subreddits")
}

func TestCSRFToken(t *testing.T) {
	token, err := CSRFToken(mustParse(t, dashboardHTML))
	require.NoError(t, err)
	assert.Equal(t, "tok-42", token)

	_, err = CSRFToken(mustParse(t, `<html><head></head></html>`))
	assert.ErrorIs(t, err, ErrNoCSRFToken)
}

func TestAudienceCards(t *testing.T) {
	cards := AudienceCards(mustParse(t, dashboardHTML))
	require.Len(t, cards, 2)
	assert.Equal(t, "Gophers", cards[0].Title)
	assert.Equal(t, "r/golang", cards[0].Subreddit)
	assert.Equal(t, "Crabs", cards[1].Title)
}

func TestSubredditCards(t *testing.T) {
	subs := SubredditCards(mustParse(t, dashboardHTML))
	require.Len(t, subs, 2)
	assert.Equal(t, "devops", subs[0].Name)
	assert.Equal(t, 1200, subs[0].Subscribers)
	assert.Equal(t, "DevOps talk", subs[0].Description)
	assert.Equal(t, "sre", subs[1].Name)
	assert.Equal(t, 0, subs[1].Subscribers)
}

func TestFilterLinks(t *testing.T) {
	links := FilterLinks(mustParse(t, dashboardHTML))
	assert.Equal(t, []string{"/audiences/saved?theme=tech", "/audiences/saved?topic=ops"}, links)
}
