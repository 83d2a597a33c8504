package reddit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/owobot-dev/owobot/pkg/metrics"
)

const pageSize = 25

// maxWalkDepth bounds how far into a listing the random walk may go.
const maxWalkDepth = 999

// ErrLewdDetected means every reachable candidate was NSFW while the
// requester's NSFW mode is off.
var ErrLewdDetected = errors.New("only nsfw posts available")

// ErrNoPosts means the subreddit has no submissions at all.
var ErrNoPosts = errors.New("subreddit has no posts")

// ErrSubredditForbidden means the subreddit is banned, quarantined or private.
var ErrSubredditForbidden = errors.New("subreddit is forbidden")

// ErrSubredditNotFound means no subreddit with that name exists.
var ErrSubredditNotFound = errors.New("subreddit does not exist")

// ErrRateLimited means Reddit throttled the request.
var ErrRateLimited = errors.New("reddit rate limited the request")

// Fetcher selects posts from subreddit listings.
type Fetcher struct {
	lister Lister
	log    *slog.Logger
	intn   func(n int) int
}

// NewFetcher builds a fetcher over the given lister.
func NewFetcher(lister Lister, log *slog.Logger) *Fetcher {
	if log == nil {
		log = slog.Default()
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	return &Fetcher{
		lister: lister,
		log:    log,
		intn:   rng.Intn,
	}
}

// Fetch walks the subreddit's /new listing to a random depth and returns the
// post landed on. When the requester disallows NSFW content the walk steps
// back through the final page until it finds a safe post, failing with
// ErrLewdDetected when none is reachable.
func (f *Fetcher) Fetch(ctx context.Context, subreddit string, nsfwAllowed bool) (*Post, error) {
	started := time.Now()

	post, err := f.fetch(ctx, subreddit, nsfwAllowed)
	if err != nil {
		metrics.RecordFetchError("reddit", fetchErrorReason(err))
		return nil, err
	}

	metrics.RecordFetch("reddit", time.Since(started))
	return post, nil
}

// FetchRandom picks a subreddit uniformly from the implicit pool, widened
// with the explicit pool when the requester's NSFW mode is on, and fetches
// from it.
func (f *Fetcher) FetchRandom(ctx context.Context, nsfwAllowed bool) (*Post, error) {
	pool := ImplicitSubreddits
	if nsfwAllowed {
		pool = append(append([]string(nil), ImplicitSubreddits...), ExplicitSubreddits...)
	}

	subreddit := pool[f.intn(len(pool))]

	f.log.Debug("picked random subreddit", slog.String("subreddit", subreddit))

	return f.Fetch(ctx, subreddit, nsfwAllowed)
}

func (f *Fetcher) fetch(ctx context.Context, subreddit string, nsfwAllowed bool) (*Post, error) {
	target := f.intn(maxWalkDepth)

	var (
		page  []Post
		after string
		seen  int
	)

	for {
		batch, next, err := f.lister.ListNew(ctx, subreddit, after, pageSize)
		if err != nil {
			return nil, fmt.Errorf("list r/%s: %w", subreddit, err)
		}

		if len(batch) == 0 {
			break
		}

		page = batch
		seen += len(batch)

		if seen >= target || next == "" {
			break
		}
		after = next
	}

	if len(page) == 0 {
		return nil, fmt.Errorf("r/%s: %w", subreddit, ErrNoPosts)
	}

	for i := len(page) - 1; i >= 0; i-- {
		candidate := page[i]
		if candidate.Over18 && !nsfwAllowed {
			continue
		}

		return &candidate, nil
	}

	return nil, ErrLewdDetected
}

func fetchErrorReason(err error) string {
	switch {
	case errors.Is(err, ErrLewdDetected):
		return "lewd_detected"
	case errors.Is(err, ErrNoPosts):
		return "no_posts"
	case errors.Is(err, ErrSubredditForbidden):
		return "forbidden"
	case errors.Is(err, ErrSubredditNotFound):
		return "not_found"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	default:
		return "upstream"
	}
}
