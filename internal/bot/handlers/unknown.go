package handlers

import "context"

// Unknown answers slash commands the bot does not recognize.
func (s *Set) Unknown(ctx context.Context, req *Request) error {
	return s.reply(ctx, req, "UnknownCommand")
}
