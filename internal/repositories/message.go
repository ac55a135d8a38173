package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/gw-bulletin/internal/logger"
	"github.com/sbilibin2017/gw-bulletin/internal/models"
)

type MessageReadRepository struct {
	db *sqlx.DB
}

func NewMessageReadRepository(db *sqlx.DB) *MessageReadRepository {
	return &MessageReadRepository{db: db}
}

// GetByID returns the message with the given id, or nil when no such row exists.
func (r *MessageReadRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MessageDB, error) {
	const query = `
		SELECT id, user_id, channel_id, content, created_at, updated_at
		FROM messages
		WHERE id = $1
	`

	var message models.MessageDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &message, query, id)

	logger.Log.Infow("query",
		"sql", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &message, nil
}

// List returns all messages.
func (r *MessageReadRepository) List(ctx context.Context) ([]models.MessageDB, error) {
	const query = `
		SELECT id, user_id, channel_id, content, created_at, updated_at
		FROM messages
		ORDER BY created_at
	`

	messages := []models.MessageDB{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db), &messages, query)

	logger.Log.Infow("query",
		"sql", strings.Join(strings.Fields(query), " "),
		"result", len(messages),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return messages, nil
}

type MessageWriteRepository struct {
	db *sqlx.DB
}

func NewMessageWriteRepository(db *sqlx.DB) *MessageWriteRepository {
	return &MessageWriteRepository{db: db}
}

// Save inserts a new message and returns the generated id. The foreign keys
// report a vanished author or channel as ErrUserMissing / ErrChannelMissing.
func (r *MessageWriteRepository) Save(ctx context.Context, userID, channelID uuid.UUID, content string) (uuid.UUID, error) {
	const query = `
		INSERT INTO messages (user_id, channel_id, content)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id uuid.UUID
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &id, query, userID, channelID, content)

	logger.Log.Infow("query",
		"sql", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, channelID},
		"result", id,
		"error", err,
	)

	if err != nil {
		return uuid.Nil, translateError(err)
	}

	return id, nil
}

// Update replaces the message content.
// Returns ErrNotFound when the id does not exist.
func (r *MessageWriteRepository) Update(ctx context.Context, id uuid.UUID, content string) error {
	const query = `
		UPDATE messages
		SET content = $1, updated_at = NOW()
		WHERE id = $2
	`

	res, err := executor(ctx, r.db).ExecContext(ctx, query, content, id)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("query",
		"sql", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes the message with the given id.
func (r *MessageWriteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM messages WHERE id = $1`

	res, err := executor(ctx, r.db).ExecContext(ctx, query, id)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("query",
		"sql", query,
		"args", []any{id},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
