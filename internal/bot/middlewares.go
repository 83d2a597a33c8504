package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	errs "github.com/owobot-dev/owobot/internal/errors"
	"github.com/owobot-dev/owobot/internal/ratelimit"
	"github.com/owobot-dev/owobot/internal/transport"
	"github.com/owobot-dev/owobot/pkg/logger"
	"github.com/owobot-dev/owobot/pkg/metrics"
)

// RecoveryMiddleware catches panics, reports them centrally and notifies the user.
func RecoveryMiddleware(log *slog.Logger, errHandler *errs.Handler, client transport.Client) Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next DispatchFunc) DispatchFunc {
		return func(ctx context.Context, msg transport.Message) (err error) {
			ctx = logger.ContextWithCorrelationID(ctx)

			defer func() {
				if r := recover(); r != nil {
					log.Error("panic recovered in dispatch",
						slog.Any("panic", r),
						slog.String("stack", string(debug.Stack())),
					)

					userMsg, _ := errHandler.Handle(ctx, fmt.Errorf("panic recovered: %v", r))
					if userMsg != "" {
						if sendErr := client.SendText(ctx, msg.ChatID, userMsg); sendErr != nil {
							log.Error("failed to notify user about panic", slog.Any("error", sendErr))
						}
					}

					err = nil
				}
			}()

			return next(ctx, msg)
		}
	}
}

// ErrorHandlingMiddleware centralizes error reporting and user messaging.
func ErrorHandlingMiddleware(errHandler *errs.Handler, client transport.Client) Middleware {
	return func(next DispatchFunc) DispatchFunc {
		return func(ctx context.Context, msg transport.Message) error {
			err := next(ctx, msg)
			if err == nil {
				return nil
			}

			userMsg, _ := errHandler.Handle(ctx, err)
			if userMsg != "" {
				_ = client.SendText(ctx, msg.ChatID, userMsg)
			}

			return nil
		}
	}
}

// LoggingMiddleware logs basic telemetry about processed messages.
func LoggingMiddleware(log *slog.Logger) Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next DispatchFunc) DispatchFunc {
		return func(ctx context.Context, msg transport.Message) error {
			started := time.Now()

			err := next(ctx, msg)

			log.Info("update processed",
				slog.String("correlation_id", logger.CorrelationIDFromContext(ctx)),
				slog.Int64("chat_id", msg.ChatID),
				slog.Int64("sender_id", msg.SenderID),
				slog.Duration("duration", time.Since(started)),
				slog.Bool("failed", err != nil),
			)

			return err
		}
	}
}

// MetricsMiddleware records per-command counters and latency.
func MetricsMiddleware(botUsername func() string) Middleware {
	return func(next DispatchFunc) DispatchFunc {
		return func(ctx context.Context, msg transport.Message) error {
			cmd := Classify(msg.Text, botUsername())
			if cmd.Kind == KindNone {
				return next(ctx, msg)
			}

			started := time.Now()

			err := next(ctx, msg)

			status := "ok"
			if err != nil {
				status = "error"
			}
			metrics.RecordCommand(cmd.Kind.String(), status, time.Since(started))

			return err
		}
	}
}

// RateLimitMiddleware drops messages from users that exceed the per-user
// command budget, telling them once per denied message.
func RateLimitMiddleware(limiter ratelimit.Limiter, limit int, window time.Duration, client transport.Client, errHandler *errs.Handler, log *slog.Logger) Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next DispatchFunc) DispatchFunc {
		return func(ctx context.Context, msg transport.Message) error {
			if !strings.HasPrefix(strings.TrimSpace(msg.Text), "/") {
				return next(ctx, msg)
			}

			result, err := limiter.Check(ctx, ratelimit.UserKey(msg.SenderID), limit, window)
			if err != nil {
				if err != ratelimit.ErrLimitExceeded {
					log.Warn("rate limiter unavailable, letting message through", slog.Any("error", err))
					return next(ctx, msg)
				}

				retryAfter := int(time.Until(result.ResetAt).Seconds()) + 1
				userMsg, _ := errHandler.Handle(ctx, errs.NewRateLimitError(retryAfter))
				if userMsg != "" {
					_ = client.SendText(ctx, msg.ChatID, userMsg)
				}

				return nil
			}

			return next(ctx, msg)
		}
	}
}
