package domain

import "time"

// DefaultLanguage is the locale assigned to users on first contact.
const DefaultLanguage = "en-US"

// User holds per-sender preferences, created lazily on first message.
type User struct {
	ID        int64
	Nsfw      bool
	Language  string
	CreatedAt time.Time
}

// Chat holds group-level preferences. Rows exist only for group chats
// (negative identifiers); private chats resolve everything from User.
type Chat struct {
	ID        int64
	Nsfw      bool
	CreatedAt time.Time
}

// NewUser returns a User with the defaults applied at registration time.
func NewUser(id int64) *User {
	return &User{
		ID:        id,
		Nsfw:      false,
		Language:  DefaultLanguage,
		CreatedAt: time.Now().UTC(),
	}
}

// NewChat returns a Chat with the defaults applied at registration time.
func NewChat(id int64) *Chat {
	return &Chat{
		ID:        id,
		Nsfw:      false,
		CreatedAt: time.Now().UTC(),
	}
}

// IsGroup reports whether the chat identifier denotes a group or channel.
// Telegram assigns negative identifiers to groups and positive ones to
// private conversations; the rest of the bot relies on this convention.
func IsGroup(chatID int64) bool {
	return chatID < 0
}
