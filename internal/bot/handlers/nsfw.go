package handlers

import (
	"context"

	errs "github.com/owobot-dev/owobot/internal/errors"
)

// NsfwStatus shows whether NSFW mode is on for the requester or chat.
func (s *Set) NsfwStatus(ctx context.Context, req *Request) error {
	return s.reply(ctx, req, "NsfwStatus", s.switchWord(req, req.NSFW()))
}

// SetNsfw flips NSFW mode. In groups only chat administrators may change the
// setting and it applies to everyone in the chat.
func (s *Set) SetNsfw(ctx context.Context, req *Request) error {
	var enable bool
	switch req.Arg {
	case "on":
		enable = true
	case "off":
		enable = false
	default:
		return s.reply(ctx, req, "NsfwSettingException")
	}

	if req.Group() {
		admin, err := s.senderIsAdmin(ctx, req)
		if err != nil {
			return err
		}
		if !admin {
			text := s.deps.Catalog.Format(req.Locale(), "NsfwSettingException_NotEnoughRights_Chat", req.Name())
			return s.deps.Client.SendText(ctx, req.Msg.ChatID, text)
		}

		if err := s.deps.Chats.SetNsfw(ctx, req.Chat.ID, enable); err != nil {
			return err
		}
		req.Chat.Nsfw = enable
	} else {
		if err := s.deps.Users.SetNsfw(ctx, req.User.ID, enable); err != nil {
			return err
		}
		req.User.Nsfw = enable
	}

	key := "SetNsfwOff"
	if enable {
		key = "SetNsfwOn"
	}

	return s.reply(ctx, req, key)
}

func (s *Set) senderIsAdmin(ctx context.Context, req *Request) (bool, error) {
	admins, err := s.deps.Client.ChatAdmins(ctx, req.Msg.ChatID)
	if err != nil {
		return false, errs.NewExternalAPIError("telegram", err)
	}

	for _, id := range admins {
		if id == req.Msg.SenderID {
			return true, nil
		}
	}

	return false, nil
}
