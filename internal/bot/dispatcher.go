package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/owobot-dev/owobot/internal/bot/handlers"
	"github.com/owobot-dev/owobot/internal/counter"
	"github.com/owobot-dev/owobot/internal/domain"
	"github.com/owobot-dev/owobot/internal/profile"
	"github.com/owobot-dev/owobot/internal/transport"
	"github.com/owobot-dev/owobot/pkg/metrics"
)

// DispatchFunc processes one inbound message end to end.
type DispatchFunc func(ctx context.Context, msg transport.Message) error

// Middleware wraps a DispatchFunc with additional behavior.
type Middleware func(DispatchFunc) DispatchFunc

// Chain applies middlewares so the first one listed runs outermost.
func Chain(fn DispatchFunc, middlewares ...Middleware) DispatchFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		fn = middlewares[i](fn)
	}

	return fn
}

// Dispatcher classifies messages, resolves preference records, counts
// actioned requests and routes to the matching handler.
type Dispatcher struct {
	client   transport.Client
	resolver *profile.Resolver
	counter  *counter.Store
	set      *handlers.Set
	log      *slog.Logger
}

// NewDispatcher wires the dispatcher.
func NewDispatcher(client transport.Client, resolver *profile.Resolver, ctr *counter.Store, set *handlers.Set, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		client:   client,
		resolver: resolver,
		counter:  ctr,
		set:      set,
		log:      log,
	}
}

// Dispatch handles one message. Group commands that require an @mention are
// dropped silently when the mention is absent, producing no reply and no
// count.
func (d *Dispatcher) Dispatch(ctx context.Context, msg transport.Message) error {
	cmd := Classify(msg.Text, d.client.Me())
	group := domain.IsGroup(msg.ChatID)

	if cmd.Kind == KindNone {
		return nil
	}

	if group && !cmd.Mentioned && (cmd.Gated() || cmd.Kind == KindUnknown) {
		return nil
	}

	if cmd.Kind == KindEcho {
		return d.client.SendText(ctx, msg.ChatID, cmd.Arg)
	}

	user, err := d.resolver.User(ctx, msg.SenderID)
	if err != nil {
		return err
	}

	req := &handlers.Request{
		Msg:  msg,
		Arg:  cmd.Arg,
		User: user,
	}

	if group {
		chat, err := d.resolver.Chat(ctx, msg.ChatID)
		if err != nil {
			return err
		}
		req.Chat = chat
	}

	if _, err := d.counter.Increment(); err != nil {
		d.log.Error("failed to bump request counter", slog.Any("error", err))
	}
	metrics.RecordRequestServed()

	return d.route(ctx, cmd.Kind, req)
}

func (d *Dispatcher) route(ctx context.Context, kind Kind, req *handlers.Request) error {
	switch kind {
	case KindStart:
		return d.set.Start(ctx, req)
	case KindInfo:
		return d.set.Info(ctx, req)
	case KindStatus:
		return d.set.Status(ctx, req)
	case KindLanguageInfo:
		return d.set.LanguageInfo(ctx, req)
	case KindSetLanguage:
		return d.set.SetLanguage(ctx, req)
	case KindGetInfo:
		return d.set.GetInfo(ctx, req)
	case KindGetSub:
		return d.set.GetSub(ctx, req)
	case KindNsfwStatus:
		return d.set.NsfwStatus(ctx, req)
	case KindSetNsfw:
		return d.set.SetNsfw(ctx, req)
	case KindRandomReddit:
		return d.set.RandomReddit(ctx, req)
	case KindRandomBooru:
		return d.set.RandomBooru(ctx, req)
	case KindUnknown:
		return d.set.Unknown(ctx, req)
	default:
		return fmt.Errorf("unhandled command kind %q", kind)
	}
}
