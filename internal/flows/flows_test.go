package flows

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/audiencepan/internal/audience"
	"github.com/ppiankov/audiencepan/internal/client"
)

type fakeAPI struct {
	saveErr      error
	fetchInfo    audience.SubredditInfo
	fetchErr     error
	saveSubErr   error
	bulkRedirect string
	bulkErr      error

	calls []string
	saved audience.SubredditInfo
}

func (a *fakeAPI) SaveAudience(_ context.Context, _ audience.Audience) error {
	a.calls = append(a.calls, "save")
	return a.saveErr
}

func (a *fakeAPI) FetchSubreddit(_ context.Context, name string) (audience.SubredditInfo, error) {
	a.calls = append(a.calls, "fetch:"+name)
	return a.fetchInfo, a.fetchErr
}

func (a *fakeAPI) SaveSubreddit(_ context.Context, info audience.SubredditInfo) error {
	a.calls = append(a.calls, "save-subreddit")
	a.saved = info
	return a.saveSubErr
}

func (a *fakeAPI) BulkSave(_ context.Context, _ audience.BulkRequest, _ string) (string, error) {
	a.calls = append(a.calls, "bulk")
	return a.bulkRedirect, a.bulkErr
}

type recorder struct {
	successes []string
	errors    []string
}

func (r *recorder) Success(msg string) { r.successes = append(r.successes, msg) }
func (r *recorder) Error(msg string)   { r.errors = append(r.errors, msg) }

func newTestFlows(api *fakeAPI) (*Flows, *recorder) {
	rec := &recorder{}
	return New(api, rec, slog.New(slog.NewTextHandler(io.Discard, nil))), rec
}

func TestSaveAudience(t *testing.T) {
	api := &fakeAPI{}
	f, rec := newTestFlows(api)

	require.NoError(t, f.SaveAudience(context.Background(), audience.Audience{Name: "Gophers"}))
	assert.Equal(t, []string{msgAudienceSaved}, rec.successes)
	assert.Empty(t, rec.errors)
}

func TestSaveAudience_Failure(t *testing.T) {
	api := &fakeAPI{saveErr: &client.ServerError{Op: "save audience", Status: http.StatusInternalServerError}}
	f, rec := newTestFlows(api)

	err := f.SaveAudience(context.Background(), audience.Audience{Name: "Gophers"})
	require.Error(t, err)
	assert.Equal(t, []string{msgAudienceSaveFailed}, rec.errors)
	assert.Empty(t, rec.successes)
}

func TestSaveSubreddit(t *testing.T) {
	api := &fakeAPI{fetchInfo: audience.SubredditInfo{Name: "golang", Title: "Go", Subscribers: 10}}
	f, rec := newTestFlows(api)

	require.NoError(t, f.SaveSubreddit(context.Background(), "golang"))
	assert.Equal(t, []string{"fetch:golang", "save-subreddit"}, api.calls)
	assert.Equal(t, "Go", api.saved.Title)
	assert.Equal(t, []string{msgSubredditSaved}, rec.successes)
}

func TestSaveSubreddit_Errors(t *testing.T) {
	tests := []struct {
		name      string
		api       *fakeAPI
		wantMsg   string
		wantCalls []string
	}{
		{
			name:      "fetch fails",
			api:       &fakeAPI{fetchErr: &client.NetworkError{Op: "fetch subreddit", Err: errors.New("refused")}},
			wantMsg:   msgSubredditError,
			wantCalls: []string{"fetch:golang"},
		},
		{
			name:      "server message",
			api:       &fakeAPI{saveSubErr: &client.ServerError{Status: 400, Message: "Already saved"}},
			wantMsg:   "Already saved",
			wantCalls: []string{"fetch:golang", "save-subreddit"},
		},
		{
			name:      "server without message",
			api:       &fakeAPI{saveSubErr: &client.ServerError{Status: 500}},
			wantMsg:   msgSubredditSaveFailed,
			wantCalls: []string{"fetch:golang", "save-subreddit"},
		},
		{
			name:      "parse failure",
			api:       &fakeAPI{saveSubErr: &client.ParseError{Op: "save", Err: errors.New("eof")}},
			wantMsg:   msgSubredditError,
			wantCalls: []string{"fetch:golang", "save-subreddit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, rec := newTestFlows(tt.api)
			require.Error(t, f.SaveSubreddit(context.Background(), "golang"))
			assert.Equal(t, []string{tt.wantMsg}, rec.errors)
			assert.Equal(t, tt.wantCalls, tt.api.calls)
		})
	}
}

func TestBulkSave(t *testing.T) {
	api := &fakeAPI{bulkRedirect: "/audiences/3"}
	f, rec := newTestFlows(api)

	redirect, err := f.BulkSave(context.Background(), audience.BulkRequest{
		Interests:  "devops",
		Subreddits: []audience.BulkSubreddit{{Name: "devops"}},
	}, "tok")
	require.NoError(t, err)
	assert.Equal(t, "/audiences/3", redirect)
	assert.Equal(t, []string{msgAudienceSaved}, rec.successes)
}

func TestBulkSave_EmptyInterestsRejectedBeforeRequest(t *testing.T) {
	api := &fakeAPI{}
	f, rec := newTestFlows(api)

	_, err := f.BulkSave(context.Background(), audience.BulkRequest{
		Subreddits: []audience.BulkSubreddit{{Name: "devops"}},
	}, "tok")
	assert.ErrorIs(t, err, audience.ErrInterestsRequired)
	assert.Empty(t, api.calls, "no request may be made")
	assert.Equal(t, []string{msgBulkInvalid}, rec.errors)
}

func TestBulkSave_NoSubredditsRejected(t *testing.T) {
	api := &fakeAPI{}
	f, _ := newTestFlows(api)

	_, err := f.BulkSave(context.Background(), audience.BulkRequest{Interests: "go"}, "tok")
	assert.ErrorIs(t, err, audience.ErrNoSubreddits)
	assert.Empty(t, api.calls)
}

func TestBulkSave_Failures(t *testing.T) {
	req := audience.BulkRequest{Interests: "go", Subreddits: []audience.BulkSubreddit{{Name: "golang"}}}

	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{name: "server message", err: &client.ServerError{Status: 400, Message: "Missing required data"}, wantMsg: "Missing required data"},
		{name: "server no message", err: &client.ServerError{Status: 502}, wantMsg: msgBulkFailed},
		{name: "other", err: errors.New("bulk save: csrf token is required"), wantMsg: "bulk save: csrf token is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, rec := newTestFlows(&fakeAPI{bulkErr: tt.err})
			_, err := f.BulkSave(context.Background(), req, "tok")
			require.Error(t, err)
			assert.Equal(t, []string{tt.wantMsg}, rec.errors)
		})
	}
}
