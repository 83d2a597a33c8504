package handlers

import "context"

// Start greets the requester, by @username in groups and by first name in
// private chats.
func (s *Set) Start(ctx context.Context, req *Request) error {
	name := req.Msg.FirstName
	if req.Group() {
		name = req.Name()
	}
	if name == "" {
		name = "User"
	}

	return s.reply(ctx, req, "Start", name)
}
