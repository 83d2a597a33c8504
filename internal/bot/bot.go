// Package bot wires the Telegram transport, the dispatcher and the handlers.
package bot

import (
	"context"
	"log/slog"

	"github.com/owobot-dev/owobot/internal/bot/handlers"
	"github.com/owobot-dev/owobot/internal/counter"
	errs "github.com/owobot-dev/owobot/internal/errors"
	"github.com/owobot-dev/owobot/internal/profile"
	"github.com/owobot-dev/owobot/internal/ratelimit"
	"github.com/owobot-dev/owobot/internal/transport"
	"github.com/owobot-dev/owobot/internal/worker"
	"github.com/owobot-dev/owobot/pkg/config"
)

// Bot runs the update loop: inbound messages go through the middleware chain
// into the dispatcher, each on a pooled goroutine.
type Bot struct {
	transport *transport.Bot
	pool      *worker.Pool
	dispatch  DispatchFunc
	log       *slog.Logger
}

// New assembles the bot from its parts.
func New(
	cfg config.Config,
	log *slog.Logger,
	tb *transport.Bot,
	resolver *profile.Resolver,
	ctr *counter.Store,
	set *handlers.Set,
	limiter ratelimit.Limiter,
) *Bot {
	errHandler := errs.NewHandler(log, cfg.Sentry.Enabled)
	dispatcher := NewDispatcher(tb, resolver, ctr, set, log)

	dispatch := Chain(dispatcher.Dispatch,
		RecoveryMiddleware(log, errHandler, tb),
		ErrorHandlingMiddleware(errHandler, tb),
		LoggingMiddleware(log),
		RateLimitMiddleware(limiter, cfg.RateLimit.PerUser, cfg.RateLimit.Window, tb, errHandler, log),
		MetricsMiddleware(tb.Me),
	)

	return &Bot{
		transport: tb,
		pool:      worker.NewPool(cfg.Bot.FetchSlots, log),
		dispatch:  dispatch,
		log:       log,
	}
}

// Run starts long polling and blocks until ctx is canceled. In-flight
// handlers are drained before returning.
func (b *Bot) Run(ctx context.Context) {
	b.transport.OnMessage(func(msg transport.Message) {
		if err := b.pool.Submit(ctx, func(ctx context.Context) error {
			return b.dispatch(ctx, msg)
		}); err != nil {
			b.log.Warn("dropping update, submission failed", slog.Any("error", err))
		}
	})

	go func() {
		<-ctx.Done()
		b.log.Info("stopping telegram bot...")
		b.transport.Stop()
	}()

	b.transport.Start()
	b.pool.Wait()
}
