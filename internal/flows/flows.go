// Package flows runs the save actions a user triggers and reports their
// outcome through a notifier.
package flows

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ppiankov/audiencepan/internal/audience"
	"github.com/ppiankov/audiencepan/internal/client"
)

const (
	msgAudienceSaved       = "Audience saved successfully!"
	msgAudienceSaveFailed  = "Error saving audience. Please try again."
	msgSubredditSaved      = "Subreddit saved successfully!"
	msgSubredditSaveFailed = "Failed to save subreddit"
	msgSubredditError      = "Error saving subreddit"
	msgBulkInvalid         = "Please enter interests and select subreddits"
	msgBulkFailed          = "Failed to save audience"
)

// API is the subset of the server client the flows need.
type API interface {
	SaveAudience(ctx context.Context, a audience.Audience) error
	FetchSubreddit(ctx context.Context, name string) (audience.SubredditInfo, error)
	SaveSubreddit(ctx context.Context, info audience.SubredditInfo) error
	BulkSave(ctx context.Context, req audience.BulkRequest, csrfToken string) (string, error)
}

// Notifier shows the outcome of an action.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Flows wires the API to user-facing notifications.
type Flows struct {
	api    API
	notify Notifier
	log    *slog.Logger
}

// New creates the save flows.
func New(api API, n Notifier, log *slog.Logger) *Flows {
	if log == nil {
		log = slog.Default()
	}
	return &Flows{api: api, notify: n, log: log.With(slog.String("component", "flows"))}
}

// SaveAudience stores one audience.
func (f *Flows) SaveAudience(ctx context.Context, a audience.Audience) error {
	if err := f.api.SaveAudience(ctx, a); err != nil {
		f.log.Error("save audience failed", slog.String("op", "save"), slog.Any("error", err))
		f.notify.Error(msgAudienceSaveFailed)
		return err
	}
	f.notify.Success(msgAudienceSaved)
	return nil
}

// SaveSubreddit looks a subreddit up and stores it as an audience.
func (f *Flows) SaveSubreddit(ctx context.Context, name string) error {
	info, err := f.api.FetchSubreddit(ctx, name)
	if err != nil {
		f.log.Error("fetch subreddit failed",
			slog.String("op", "save-subreddit"),
			slog.String("subreddit", name),
			slog.Any("error", err),
		)
		f.notify.Error(msgSubredditError)
		return err
	}

	if err := f.api.SaveSubreddit(ctx, info); err != nil {
		f.log.Error("save subreddit failed",
			slog.String("op", "save-subreddit"),
			slog.String("subreddit", name),
			slog.Any("error", err),
		)
		var se *client.ServerError
		switch {
		case errors.As(err, &se) && se.Message != "":
			f.notify.Error(se.Message)
		case errors.As(err, &se):
			f.notify.Error(msgSubredditSaveFailed)
		default:
			f.notify.Error(msgSubredditError)
		}
		return err
	}

	f.notify.Success(msgSubredditSaved)
	return nil
}

// BulkSave stores the selected subreddits as one audience and returns where
// the server redirects to. Invalid input is reported without a request.
func (f *Flows) BulkSave(ctx context.Context, req audience.BulkRequest, csrfToken string) (string, error) {
	if err := req.Validate(); err != nil {
		f.notify.Error(msgBulkInvalid)
		return "", err
	}

	redirect, err := f.api.BulkSave(ctx, req, csrfToken)
	if err != nil {
		f.log.Error("bulk save failed",
			slog.String("op", "bulk"),
			slog.Int("count", len(req.Subreddits)),
			slog.Any("error", err),
		)
		var se *client.ServerError
		switch {
		case errors.As(err, &se) && se.Message != "":
			f.notify.Error(se.Message)
		case errors.As(err, &se):
			f.notify.Error(msgBulkFailed)
		default:
			f.notify.Error(err.Error())
		}
		return "", err
	}

	f.notify.Success(msgAudienceSaved)
	return redirect, nil
}
