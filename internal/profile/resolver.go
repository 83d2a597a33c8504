// Package profile resolves user and chat preference records, creating them
// with defaults on first contact.
package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/owobot-dev/owobot/internal/domain"
	"github.com/owobot-dev/owobot/internal/repository"
)

// Resolver loads preference records, lazily creating missing ones.
type Resolver struct {
	users repository.UserRepository
	chats repository.ChatRepository
}

// NewResolver builds a resolver over the given repositories.
func NewResolver(users repository.UserRepository, chats repository.ChatRepository) *Resolver {
	return &Resolver{
		users: users,
		chats: chats,
	}
}

// User returns the preference record for id, creating one with defaults
// when the user has never been seen. Creation races resolve to a single
// row, so concurrent first contacts all observe the same record.
func (r *Resolver) User(ctx context.Context, id int64) (*domain.User, error) {
	user, err := r.users.FindByID(ctx, id)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("resolve user %d: %w", id, err)
	}

	if err := r.users.Create(ctx, domain.NewUser(id)); err != nil {
		return nil, fmt.Errorf("create user %d: %w", id, err)
	}

	user, err = r.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload user %d: %w", id, err)
	}

	return user, nil
}

// Chat returns the preference record for a group chat, creating one with
// defaults when the chat has never been seen.
func (r *Resolver) Chat(ctx context.Context, id int64) (*domain.Chat, error) {
	chat, err := r.chats.FindByID(ctx, id)
	if err == nil {
		return chat, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("resolve chat %d: %w", id, err)
	}

	if err := r.chats.Create(ctx, domain.NewChat(id)); err != nil {
		return nil, fmt.Errorf("create chat %d: %w", id, err)
	}

	chat, err = r.chats.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload chat %d: %w", id, err)
	}

	return chat, nil
}
