// Package repository holds SQL-backed persistence for users and chats.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/owobot-dev/owobot/internal/domain"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// UserRepository defines persistence operations for users.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	SetNsfw(ctx context.Context, id int64, nsfw bool) error
	SetLanguage(ctx context.Context, id int64, language string) error
}

type userRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewUserRepository creates a new SQL-backed user repository.
func NewUserRepository(db *sql.DB, log *slog.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log,
	}
}

// FindByID retrieves a user by their Telegram identifier.
func (r *userRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
		SELECT id, nsfw, language, created_at
		FROM users
		WHERE id = $1
	`

	row := r.db.QueryRowContext(ctx, query, id)

	var user domain.User
	if err := row.Scan(&user.ID, &user.Nsfw, &user.Language, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		r.logError("failed to fetch user", id, err)
		return nil, fmt.Errorf("select user: %w", err)
	}

	return &user, nil
}

// Create persists a new user record. Inserting an existing id is a no-op so
// concurrent first contacts from the same user do not fail.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
		INSERT INTO users (id, nsfw, language, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, user.ID, user.Nsfw, user.Language, user.CreatedAt); err != nil {
		r.logError("failed to create user", user.ID, err)
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// SetNsfw updates the user's NSFW preference.
func (r *userRepository) SetNsfw(ctx context.Context, id int64, nsfw bool) error {
	const query = `UPDATE users SET nsfw = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, nsfw); err != nil {
		r.logError("failed to update user nsfw", id, err)
		return fmt.Errorf("update user nsfw: %w", err)
	}

	return nil
}

// SetLanguage updates the user's language preference.
func (r *userRepository) SetLanguage(ctx context.Context, id int64, language string) error {
	const query = `UPDATE users SET language = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, language); err != nil {
		r.logError("failed to update user language", id, err)
		return fmt.Errorf("update user language: %w", err)
	}

	return nil
}

func (r *userRepository) logError(msg string, id int64, err error) {
	if r.log != nil {
		r.log.Error(msg, slog.Int64("user_id", id), slog.Any("error", err))
	}
}
