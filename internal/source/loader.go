package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// PacingInterval is the fixed wait between two consecutive source requests.
const PacingInterval = 1000 * time.Millisecond

// Summary reports what one load cycle did.
type Summary struct {
	CycleID string
	Sources int      // sources processed
	Posts   int      // posts appended to the sink
	Failed  []string // names of sources that failed, in order
}

// Loader runs load cycles: every source is requested in order with exactly
// one pacing interval between consecutive requests and no overlap.
type Loader struct {
	fetcher  PostFetcher
	log      *slog.Logger
	interval time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
	onResult func(Result)
}

// NewLoader creates a loader that fetches through f and logs through log.
func NewLoader(f PostFetcher, log *slog.Logger) (*Loader, error) {
	if f == nil {
		return nil, errors.New("loader: post fetcher is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Loader{
		fetcher:  f,
		log:      log.With(slog.String("component", "loader")),
		interval: PacingInterval,
		sleep:    sleepContext,
	}, nil
}

// OnResult registers a callback invoked once per source after it is processed.
func (l *Loader) OnResult(fn func(Result)) {
	l.onResult = fn
}

// Load requests posts for each source in order and appends them to sink as
// they arrive. A failing source is logged and skipped; it never stops the
// cycle. Only context cancellation ends a cycle early.
func (l *Loader) Load(ctx context.Context, sources []Source, sink Sink) (Summary, error) {
	if len(sources) == 0 {
		return Summary{}, errors.New("loader: at least one source is required")
	}
	if sink == nil {
		return Summary{}, errors.New("loader: sink is required")
	}

	sum := Summary{CycleID: uuid.NewString()}
	log := l.log.With(slog.String("cycle", sum.CycleID))
	log.Debug("load cycle started", slog.Int("count", len(sources)))

	for i, src := range sources {
		if i > 0 {
			if err := l.sleep(ctx, l.interval); err != nil {
				return sum, err
			}
		}

		res, appended := l.loadOne(ctx, src, sink)
		sum.Sources++
		sum.Posts += appended

		if res.Err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return sum, ctxErr
			}
			sum.Failed = append(sum.Failed, src.Name)
			log.Warn("load posts failed",
				slog.String("op", "load"),
				slog.String("source", src.Name),
				slog.Any("error", res.Err),
			)
		} else {
			log.Debug("loaded posts",
				slog.String("source", src.Name),
				slog.Int("count", appended),
			)
		}

		if l.onResult != nil {
			l.onResult(res)
		}
	}

	log.Info("load cycle finished",
		slog.Int("sources", sum.Sources),
		slog.Int("posts", sum.Posts),
		slog.Int("failed", len(sum.Failed)),
	)
	return sum, nil
}

func (l *Loader) loadOne(ctx context.Context, src Source, sink Sink) (Result, int) {
	res := Result{Source: src}

	posts, err := l.fetcher.Posts(ctx, src.Name)
	if err != nil {
		res.Err = err
		return res, 0
	}

	appended := 0
	for _, p := range posts {
		if err := sink.Append(src, p); err != nil {
			res.Err = fmt.Errorf("render post: %w", err)
			res.Posts = posts[:appended]
			return res, appended
		}
		appended++
	}
	res.Posts = posts
	return res, appended
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
