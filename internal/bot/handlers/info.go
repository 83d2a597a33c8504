package handlers

import "context"

// Info lists every command the bot understands.
func (s *Set) Info(ctx context.Context, req *Request) error {
	return s.reply(ctx, req, "Info")
}
