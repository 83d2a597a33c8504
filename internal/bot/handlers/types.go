// Package handlers implements the bot's command handlers.
package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/owobot-dev/owobot/internal/booru"
	"github.com/owobot-dev/owobot/internal/counter"
	"github.com/owobot-dev/owobot/internal/domain"
	"github.com/owobot-dev/owobot/internal/i18n"
	"github.com/owobot-dev/owobot/internal/reddit"
	"github.com/owobot-dev/owobot/internal/repository"
	"github.com/owobot-dev/owobot/internal/transport"
)

// RedditFetcher selects posts from Reddit listings.
type RedditFetcher interface {
	Fetch(ctx context.Context, subreddit string, nsfwAllowed bool) (*reddit.Post, error)
	FetchRandom(ctx context.Context, nsfwAllowed bool) (*reddit.Post, error)
}

// BooruFetcher draws random images from imageboards.
type BooruFetcher interface {
	Fetch(ctx context.Context, nsfwAllowed bool) (*booru.Image, error)
}

// Deps carries everything the handlers need.
type Deps struct {
	Client  transport.Client
	Catalog *i18n.Catalog
	Users   repository.UserRepository
	Chats   repository.ChatRepository
	Reddit  RedditFetcher
	Booru   BooruFetcher
	Counter *counter.Store
	Version string
	// StartedAt anchors the uptime shown by the status handler.
	StartedAt time.Time
	Log       *slog.Logger
}

// Set groups all command handlers over shared dependencies.
type Set struct {
	deps Deps
}

// New builds the handler set.
func New(deps Deps) *Set {
	if deps.Log == nil {
		deps.Log = slog.Default()
	}

	return &Set{deps: deps}
}

// Request is one classified command together with the resolved preference
// records. Chat is nil in private conversations.
type Request struct {
	Msg  transport.Message
	Arg  string
	User *domain.User
	Chat *domain.Chat
}

// Group reports whether the command arrived from a group chat.
func (r *Request) Group() bool {
	return r.Chat != nil
}

// NSFW returns the effective NSFW mode. Group settings override personal ones.
func (r *Request) NSFW() bool {
	if r.Chat != nil {
		return r.Chat.Nsfw
	}

	return r.User.Nsfw
}

// Locale returns the reply language for the requester.
func (r *Request) Locale() string {
	return r.User.Language
}

// Name returns how the requester should be addressed in group replies.
func (r *Request) Name() string {
	if r.Msg.Username != "" {
		return "@" + r.Msg.Username
	}

	return r.Msg.FirstName
}

// reply renders key for private chats or key_Chat for groups, prepending the
// requester's name to the arguments in the group case.
func (s *Set) reply(ctx context.Context, req *Request, key string, args ...any) error {
	if req.Group() && s.deps.Catalog.HasKey(key+"_Chat") {
		key += "_Chat"
		args = append([]any{req.Name()}, args...)
	}

	text := s.deps.Catalog.Format(req.Locale(), key, args...)

	return s.deps.Client.SendText(ctx, req.Msg.ChatID, text)
}

func (s *Set) switchWord(req *Request, on bool) string {
	key := "OffSwitch"
	if on {
		key = "OnSwitch"
	}

	return s.deps.Catalog.T(req.Locale(), key)
}
