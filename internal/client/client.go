// Package client talks to the audiences web application's JSON endpoints.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ppiankov/audiencepan/internal/audience"
	"github.com/ppiankov/audiencepan/internal/source"
)

const (
	userAgent       = "audiencepan/1.0"
	csrfHeader      = "X-CSRF-TOKEN"
	defaultRedirect = "/dashboard"
	maxErrorBody    = 64 << 10
)

// Client is a JSON-over-HTTP client for one server.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	cookie  string
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

// WithSessionCookie sends the raw Cookie header value on every request.
func WithSessionCookie(cookie string) Option {
	return func(c *Client) { c.cookie = strings.TrimSpace(cookie) }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q: host is required", baseURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	c := &Client{
		baseURL: u,
		http:    &http.Client{},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(slog.String("component", "client"))
	return c, nil
}

// BaseURL returns the server root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

type postsResponse struct {
	Posts *[]source.Post `json:"posts"`
}

// Posts returns the posts of one source from GET /api/posts/{name}.
func (c *Client) Posts(ctx context.Context, name string) ([]source.Post, error) {
	const op = "get posts"
	if err := checkSegment(name); err != nil {
		return nil, &InputError{Op: op, Err: err}
	}

	resp, err := c.do(ctx, op, http.MethodGet, "/api/posts/"+url.PathEscape(name), nil, nil, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(op, resp); err != nil {
		return nil, err
	}

	var out postsResponse
	if err := decodeJSON(op, resp.Body, &out); err != nil {
		return nil, err
	}
	if out.Posts == nil {
		return nil, &ParseError{Op: op, Err: errors.New(`missing "posts" field`)}
	}
	return *out.Posts, nil
}

// SearchAudiences searches subreddits via GET /api/audiences/search.
// An empty query returns no results without a request.
func (c *Client) SearchAudiences(ctx context.Context, query string) ([]audience.SubredditInfo, error) {
	const op = "search audiences"
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	resp, err := c.do(ctx, op, http.MethodGet, "/api/audiences/search", url.Values{"q": {query}}, nil, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(op, resp); err != nil {
		return nil, err
	}

	var out []audience.SubredditInfo
	if err := decodeJSON(op, resp.Body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveAudience stores one audience via POST /api/audiences/save.
func (c *Client) SaveAudience(ctx context.Context, a audience.Audience) error {
	const op = "save audience"
	return c.postNoContent(ctx, op, "/api/audiences/save", a, nil)
}

// FetchSubreddit looks up one subreddit via GET /audience/fetch-subreddit.
func (c *Client) FetchSubreddit(ctx context.Context, name string) (audience.SubredditInfo, error) {
	const op = "fetch subreddit"
	name = strings.TrimSpace(name)
	if name == "" {
		return audience.SubredditInfo{}, &InputError{Op: op, Err: fmt.Errorf("%w: name is required", ErrInvalidName)}
	}

	resp, err := c.do(ctx, op, http.MethodGet, "/audience/fetch-subreddit", url.Values{"name": {name}}, nil, nil)
	if err != nil {
		return audience.SubredditInfo{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(op, resp); err != nil {
		return audience.SubredditInfo{}, err
	}

	var info audience.SubredditInfo
	if err := decodeJSON(op, resp.Body, &info); err != nil {
		return audience.SubredditInfo{}, err
	}
	return info, nil
}

// SaveSubreddit stores a fetched subreddit via POST /audience/save.
func (c *Client) SaveSubreddit(ctx context.Context, info audience.SubredditInfo) error {
	const op = "save subreddit"
	return c.postNoContent(ctx, op, "/audience/save", info, nil)
}

type bulkResponse struct {
	Redirect string `json:"redirect"`
	Error    string `json:"error"`
}

// BulkSave stores several subreddits as one audience via POST /api/audiences/bulk
// and returns the page the server wants the user to go to next. The request is
// validated first; an invalid request is never sent.
func (c *Client) BulkSave(ctx context.Context, req audience.BulkRequest, csrfToken string) (string, error) {
	const op = "bulk save"
	if err := req.Validate(); err != nil {
		return "", err
	}
	if strings.TrimSpace(csrfToken) == "" {
		return "", &InputError{Op: op, Err: errors.New("csrf token is required")}
	}

	header := http.Header{csrfHeader: {csrfToken}}
	resp, err := c.do(ctx, op, http.MethodPost, "/api/audiences/bulk", nil, req, header)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(op, resp); err != nil {
		return "", err
	}

	var out bulkResponse
	if err := decodeJSON(op, resp.Body, &out); err != nil {
		return "", err
	}
	if out.Redirect == "" {
		return defaultRedirect, nil
	}
	return out.Redirect, nil
}

// ListFilter narrows ListAudiences. Empty fields are not sent.
type ListFilter struct {
	Search   string
	Theme    string
	Topic    string
	Category string
}

func (f ListFilter) values() url.Values {
	v := url.Values{}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.Theme != "" {
		v.Set("theme", f.Theme)
	}
	if f.Topic != "" {
		v.Set("topic", f.Topic)
	}
	if f.Category != "" {
		v.Set("category", f.Category)
	}
	return v
}

// ListAudiences returns saved audiences matching f via GET /api/audiences/.
func (c *Client) ListAudiences(ctx context.Context, f ListFilter) ([]audience.Audience, error) {
	const op = "list audiences"
	resp, err := c.do(ctx, op, http.MethodGet, "/api/audiences/", f.values(), nil, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(op, resp); err != nil {
		return nil, err
	}

	var out []audience.Audience
	if err := decodeJSON(op, resp.Body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Page fetches a server-rendered HTML page. path may carry its own query string.
func (c *Client) Page(ctx context.Context, path string) (*goquery.Document, error) {
	const op = "get page"
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("%s: parse path %q: %w", op, path, err)
	}

	resp, err := c.do(ctx, op, http.MethodGet, ref.EscapedPath(), ref.Query(), nil, http.Header{"Accept": {"text/html"}})
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(op, resp); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &ParseError{Op: op, Err: err}
	}
	return doc, nil
}

func (c *Client) postNoContent(ctx context.Context, op, path string, body any, header http.Header) error {
	resp, err := c.do(ctx, op, http.MethodPost, path, nil, body, header)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(op, resp); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// checkSegment rejects names that path cleaning would drop or collapse.
func checkSegment(name string) error {
	switch strings.TrimSpace(name) {
	case "":
		return fmt.Errorf("%w: name is required", ErrInvalidName)
	case ".", "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// endpoint joins an already escaped path onto the base URL.
func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL.JoinPath(path)
	u.RawQuery = query.Encode()
	return u.String()
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body any, header http.Header) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(b)
	}

	target := c.endpoint(path, query)
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("User-Agent", userAgent)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}
	for k, vs := range header {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", slog.String("op", op), slog.String("url", target), slog.Any("error", err))
		return nil, &NetworkError{Op: op, Err: err}
	}
	c.log.Debug("request done",
		slog.String("op", op),
		slog.String("url", target),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)
	return resp, nil
}

type errorBody struct {
	Error string `json:"error"`
}

func checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	se := &ServerError{Op: op, Status: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil && len(data) > 0 {
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil {
			se.Message = eb.Error
		}
	}
	return se
}

func decodeJSON(op string, r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return &ParseError{Op: op, Err: err}
	}
	return nil
}
