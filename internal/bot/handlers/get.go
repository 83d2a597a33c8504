package handlers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/owobot-dev/owobot/internal/booru"
	errs "github.com/owobot-dev/owobot/internal/errors"
	"github.com/owobot-dev/owobot/internal/reddit"
	"github.com/owobot-dev/owobot/internal/transport"
)

const (
	sendAttempts   = 5
	sendRetryDelay = time.Second
)

const redditUnconfiguredHint = "Reddit commands are disabled: the bot is running without Reddit API credentials."

const (
	subredditBannedMsg  = "This subreddit is banned."
	subredditMissingMsg = "There is no such subreddit."
	redditOverheatedMsg = "I'm overheating! Try again a bit later."
)

// picture is one fetched image together with its caption arguments.
type picture struct {
	fileURL string
	caption []any
}

// GetInfo explains how to request pictures from a subreddit.
func (s *Set) GetInfo(ctx context.Context, req *Request) error {
	return s.reply(ctx, req, "GetStatus")
}

// GetSub fetches the newest picture from the requested subreddit.
func (s *Set) GetSub(ctx context.Context, req *Request) error {
	if s.deps.Reddit == nil {
		return s.deps.Client.SendText(ctx, req.Msg.ChatID, redditUnconfiguredHint)
	}

	return s.sendFetched(ctx, req, "ReturnPic", func(ctx context.Context) (*picture, error) {
		post, err := s.deps.Reddit.Fetch(ctx, req.Arg, req.NSFW())
		if err != nil {
			return nil, err
		}
		return s.redditPicture(req, post), nil
	})
}

// RandomReddit fetches a picture from a random popular subreddit.
func (s *Set) RandomReddit(ctx context.Context, req *Request) error {
	if s.deps.Reddit == nil {
		return s.deps.Client.SendText(ctx, req.Msg.ChatID, redditUnconfiguredHint)
	}

	return s.sendFetched(ctx, req, "ReturnPic", func(ctx context.Context) (*picture, error) {
		post, err := s.deps.Reddit.FetchRandom(ctx, req.NSFW())
		if err != nil {
			return nil, err
		}
		return s.redditPicture(req, post), nil
	})
}

// RandomBooru fetches a random imageboard picture.
func (s *Set) RandomBooru(ctx context.Context, req *Request) error {
	return s.sendFetched(ctx, req, "ReturnPicBooru", func(ctx context.Context) (*picture, error) {
		image, err := s.deps.Booru.Fetch(ctx, req.NSFW())
		if err != nil {
			return nil, err
		}
		return &picture{
			fileURL: image.URL,
			caption: []any{image.Rating, image.URL},
		}, nil
	})
}

func (s *Set) redditPicture(req *Request, post *reddit.Post) *picture {
	return &picture{
		fileURL: post.URL,
		caption: []any{post.Subreddit, post.Title, s.yesNo(req, post.Over18), post.URL, post.Permalink},
	}
}

// sendFetched delivers a fetched picture, fetching a replacement when
// Telegram rejects the file and retrying transient failures with a delay.
func (s *Set) sendFetched(ctx context.Context, req *Request, captionKey string, fetch func(ctx context.Context) (*picture, error)) error {
	_ = s.deps.Client.Typing(ctx, req.Msg.ChatID)

	pic, err := fetch(ctx)
	if err != nil {
		return s.mapFetchError(ctx, req, err)
	}

	var lastErr error
	for attempt := 0; attempt < sendAttempts; attempt++ {
		lastErr = s.deps.Client.SendPhoto(ctx, req.Msg.ChatID, pic.fileURL, s.caption(req, captionKey, pic.caption...))
		if lastErr == nil {
			return nil
		}

		if errors.Is(lastErr, transport.ErrBadRequest) {
			s.deps.Log.Debug("telegram rejected picture, fetching another",
				slog.String("url", pic.fileURL), slog.Any("error", lastErr))

			pic, err = fetch(ctx)
			if err != nil {
				return s.mapFetchError(ctx, req, err)
			}
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sendRetryDelay):
		}
	}

	return lastErr
}

// mapFetchError turns fetch failures into their user-facing replies. Lewd
// rejections and the Reddit listing statuses answer the user directly; anything
// else bubbles up as a content error for the central handler.
func (s *Set) mapFetchError(ctx context.Context, req *Request, err error) error {
	switch {
	case errors.Is(err, reddit.ErrLewdDetected), errors.Is(err, booru.ErrLewdDetected):
		return s.reply(ctx, req, "LewdDetected", req.Msg.Text)
	case errors.Is(err, reddit.ErrSubredditForbidden):
		return s.deps.Client.SendText(ctx, req.Msg.ChatID, subredditBannedMsg)
	case errors.Is(err, reddit.ErrSubredditNotFound):
		return s.deps.Client.SendText(ctx, req.Msg.ChatID, subredditMissingMsg)
	case errors.Is(err, reddit.ErrRateLimited):
		return s.deps.Client.SendText(ctx, req.Msg.ChatID, redditOverheatedMsg)
	default:
		return errs.NewContentError("picture fetch", err)
	}
}

func (s *Set) caption(req *Request, key string, args ...any) string {
	if req.Group() && s.deps.Catalog.HasKey(key+"_Chat") {
		key += "_Chat"
		args = append([]any{req.Name()}, args...)
	}

	return s.deps.Catalog.Format(req.Locale(), key, args...)
}

func (s *Set) yesNo(req *Request, v bool) string {
	key := "No"
	if v {
		key = "Yes"
	}

	return s.deps.Catalog.T(req.Locale(), key)
}
