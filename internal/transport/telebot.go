package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
	tele "gopkg.in/telebot.v3"

	"github.com/owobot-dev/owobot/pkg/config"
)

// Bot wraps a telebot long-polling bot and implements Client.
type Bot struct {
	bot *tele.Bot
	log *slog.Logger
}

// NewBot constructs the Telegram bot, optionally routing traffic through the
// configured HTTP or SOCKS5 proxy.
func NewBot(cfg config.Config, log *slog.Logger) (*Bot, error) {
	httpClient, err := buildHTTPClient(cfg.Proxy)
	if err != nil {
		return nil, err
	}

	pollTimeout := cfg.Bot.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 10 * time.Second
	}

	b, err := tele.NewBot(tele.Settings{
		Token:  cfg.Bot.Token,
		Poller: &tele.LongPoller{Timeout: pollTimeout},
		Client: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &Bot{bot: b, log: log}, nil
}

func buildHTTPClient(cfg config.ProxyConfig) (*http.Client, error) {
	if !cfg.Enabled() {
		return http.DefaultClient, nil
	}

	addr := net.JoinHostPort(cfg.Address, cfg.Port)

	switch cfg.Type {
	case "HTTP":
		proxyURL, err := url.Parse("http://" + addr)
		if err != nil {
			return nil, fmt.Errorf("parse proxy address: %w", err)
		}

		return &http.Client{
			Transport: &http.Transport{Proxy: http.ProxyURL(proxyURL)},
		}, nil
	case "SOCKS5":
		dialer, err := proxy.SOCKS5("tcp", addr, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("create socks5 dialer: %w", err)
		}

		transport := &http.Transport{}
		if contextDialer, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = contextDialer.DialContext
		} else {
			transport.DialContext = func(_ context.Context, network, address string) (net.Conn, error) {
				return dialer.Dial(network, address)
			}
		}

		return &http.Client{Transport: transport}, nil
	default:
		return nil, fmt.Errorf("unsupported proxy type %q", cfg.Type)
	}
}

// OnMessage registers fn for every inbound text message.
func (b *Bot) OnMessage(fn func(Message)) {
	b.bot.Handle(tele.OnText, func(c tele.Context) error {
		msg := c.Message()
		if msg == nil || msg.Sender == nil || msg.Chat == nil {
			return nil
		}

		fn(Message{
			ChatID:    msg.Chat.ID,
			SenderID:  msg.Sender.ID,
			Username:  msg.Sender.Username,
			FirstName: msg.Sender.FirstName,
			Text:      msg.Text,
		})
		return nil
	})
}

// Start begins long polling and blocks until Stop is called.
func (b *Bot) Start() {
	b.bot.Start()
}

// Stop terminates long polling.
func (b *Bot) Stop() {
	b.bot.Stop()
}

// Me returns the bot's username.
func (b *Bot) Me() string {
	if b.bot.Me == nil {
		return ""
	}

	return b.bot.Me.Username
}

// SendText delivers a plain text reply to the chat.
func (b *Bot) SendText(_ context.Context, chatID int64, text string) error {
	_, err := b.bot.Send(tele.ChatID(chatID), text)
	return wrapSendError(err)
}

// SendPhoto delivers a photo by URL with a caption.
func (b *Bot) SendPhoto(_ context.Context, chatID int64, url, caption string) error {
	photo := &tele.Photo{File: tele.FromURL(url), Caption: caption}

	_, err := b.bot.Send(tele.ChatID(chatID), photo)
	return wrapSendError(err)
}

// ChatAdmins returns the user ids of the chat's administrators.
func (b *Bot) ChatAdmins(_ context.Context, chatID int64) ([]int64, error) {
	admins, err := b.bot.AdminsOf(&tele.Chat{ID: chatID})
	if err != nil {
		return nil, fmt.Errorf("fetch chat admins: %w", err)
	}

	ids := make([]int64, 0, len(admins))
	for _, member := range admins {
		if member.User != nil {
			ids = append(ids, member.User.ID)
		}
	}

	return ids, nil
}

// Typing shows the "typing" chat action while a fetch is in flight.
func (b *Bot) Typing(_ context.Context, chatID int64) error {
	return b.bot.Notify(tele.ChatID(chatID), tele.Typing)
}

func wrapSendError(err error) error {
	if err == nil {
		return nil
	}

	var teleErr *tele.Error
	if errors.As(err, &teleErr) && teleErr.Code == http.StatusBadRequest {
		return fmt.Errorf("%w: %s", ErrBadRequest, teleErr.Description)
	}

	return err
}
