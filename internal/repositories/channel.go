package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/gw-bulletin/internal/logger"
	"github.com/sbilibin2017/gw-bulletin/internal/models"
)

type ChannelReadRepository struct {
	db *sqlx.DB
}

func NewChannelReadRepository(db *sqlx.DB) *ChannelReadRepository {
	return &ChannelReadRepository{db: db}
}

// GetByID returns the channel with the given id, or nil when no such row exists.
func (r *ChannelReadRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ChannelDB, error) {
	const query = `
		SELECT id, name, owner_id, created_at, updated_at
		FROM channels
		WHERE id = $1
	`

	var channel models.ChannelDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &channel, query, id)

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

	return &channel, nil
}

// List returns all channels.
func (r *ChannelReadRepository) List(ctx context.Context) ([]models.ChannelDB, error) {
	const query = `
		SELECT id, name, owner_id, created_at, updated_at
		FROM channels
		ORDER BY created_at
	`

	channels := []models.ChannelDB{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db), &channels, query)

	logger.Log.Infow("query",
		"sql", strings.Join(strings.Fields(query), " "),
		"result", len(channels),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return channels, nil
}

type ChannelWriteRepository struct {
	db *sqlx.DB
}

func NewChannelWriteRepository(db *sqlx.DB) *ChannelWriteRepository {
	return &ChannelWriteRepository{db: db}
}

// Save inserts a new channel and returns the generated id. The owner foreign
// key doubles as the existence check: ErrUserMissing when the owner does not
// exist, ErrDuplicate when the name is taken.
func (r *ChannelWriteRepository) Save(ctx context.Context, name string, ownerID uuid.UUID) (uuid.UUID, error) {
	const query = `
		INSERT INTO channels (name, owner_id)
		VALUES ($1, $2)
		RETURNING id
	`

	var id uuid.UUID
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &id, query, name, ownerID)

	logger.Log.Infow("query",
		"sql", strings.Join(strings.Fields(query), " "),
		"args", []any{name, ownerID},
		"result", id,
		"error", err,
	)

	if err != nil {
		return uuid.Nil, translateError(err)
	}

	return id, nil
}

// Update changes only the supplied fields. At least one field must be supplied.
func (r *ChannelWriteRepository) Update(ctx context.Context, id uuid.UUID, name *string, ownerID *uuid.UUID) error {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 3)

	if name != nil {
		args = append(args, *name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if ownerID != nil {
		args = append(args, *ownerID)
		sets = append(sets, fmt.Sprintf("owner_id = $%d", len(args)))
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE channels SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	res, err := executor(ctx, r.db).ExecContext(ctx, query, args...)
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
		return translateError(err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes the channel with the given id.
// Returns ErrReferenced when subscriptions or messages still point at it.
func (r *ChannelWriteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM channels WHERE id = $1`

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
		return translateDeleteError(err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
