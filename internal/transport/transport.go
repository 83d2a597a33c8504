// Package transport abstracts the Telegram delivery layer so handlers can be
// tested without the network.
package transport

import (
	"context"
	"errors"
)

// ErrBadRequest indicates Telegram rejected the payload itself, for example
// a photo URL it cannot fetch. Retrying the same payload is pointless.
var ErrBadRequest = errors.New("telegram rejected the request")

// Message is the inbound update slice the bot acts on.
type Message struct {
	ChatID    int64
	SenderID  int64
	Username  string
	FirstName string
	Text      string
}

// Client sends outbound replies and answers chat queries.
type Client interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendPhoto(ctx context.Context, chatID int64, url, caption string) error
	ChatAdmins(ctx context.Context, chatID int64) ([]int64, error)
	Me() string
	Typing(ctx context.Context, chatID int64) error
}
