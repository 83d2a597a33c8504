package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/owobot-dev/owobot/internal/domain"
)

// ChatRepository defines persistence operations for group chats.
type ChatRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Chat, error)
	Create(ctx context.Context, chat *domain.Chat) error
	SetNsfw(ctx context.Context, id int64, nsfw bool) error
}

type chatRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewChatRepository creates a new SQL-backed chat repository.
func NewChatRepository(db *sql.DB, log *slog.Logger) ChatRepository {
	return &chatRepository{
		db:  db,
		log: log,
	}
}

// FindByID retrieves a chat by its Telegram identifier.
func (r *chatRepository) FindByID(ctx context.Context, id int64) (*domain.Chat, error) {
	const query = `
		SELECT id, nsfw, created_at
		FROM chats
		WHERE id = $1
	`

	row := r.db.QueryRowContext(ctx, query, id)

	var chat domain.Chat
	if err := row.Scan(&chat.ID, &chat.Nsfw, &chat.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		r.logError("failed to fetch chat", id, err)
		return nil, fmt.Errorf("select chat: %w", err)
	}

	return &chat, nil
}

// Create persists a new chat record, ignoring duplicates.
func (r *chatRepository) Create(ctx context.Context, chat *domain.Chat) error {
	const query = `
		INSERT INTO chats (id, nsfw, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, chat.ID, chat.Nsfw, chat.CreatedAt); err != nil {
		r.logError("failed to create chat", chat.ID, err)
		return fmt.Errorf("insert chat: %w", err)
	}

	return nil
}

// SetNsfw updates the chat's NSFW setting.
func (r *chatRepository) SetNsfw(ctx context.Context, id int64, nsfw bool) error {
	const query = `UPDATE chats SET nsfw = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, nsfw); err != nil {
		r.logError("failed to update chat nsfw", id, err)
		return fmt.Errorf("update chat nsfw: %w", err)
	}

	return nil
}

func (r *chatRepository) logError(msg string, id int64, err error) {
	if r.log != nil {
		r.log.Error(msg, slog.Int64("chat_id", id), slog.Any("error", err))
	}
}
