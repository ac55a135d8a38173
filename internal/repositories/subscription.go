package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/gw-bulletin/internal/logger"
)

type SubscriptionReadRepository struct {
	db *sqlx.DB
}

func NewSubscriptionReadRepository(db *sqlx.DB) *SubscriptionReadRepository {
	return &SubscriptionReadRepository{db: db}
}

// Exists reports whether the (userID, channelID) membership edge is present.
func (r *SubscriptionReadRepository) Exists(ctx context.Context, userID, channelID uuid.UUID) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM subscriptions
			WHERE user_id = $1 AND channel_id = $2
		)
	`

	var exists bool
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &exists, query, userID, channelID)

	logger.Log.Infow("query",
		"sql", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, channelID},
		"result", exists,
		"error", err,
	)

	if err != nil {
		return false, err
	}

	return exists, nil
}

type SubscriptionWriteRepository struct {
	db *sqlx.DB
}

func NewSubscriptionWriteRepository(db *sqlx.DB) *SubscriptionWriteRepository {
	return &SubscriptionWriteRepository{db: db}
}

// Save inserts a membership edge. The foreign keys double as the existence
// checks (ErrUserMissing, ErrChannelMissing); the composite primary key
// rejects a repeat subscribe with ErrDuplicate.
func (r *SubscriptionWriteRepository) Save(ctx context.Context, userID, channelID uuid.UUID) error {
	const query = `
		INSERT INTO subscriptions (user_id, channel_id)
		VALUES ($1, $2)
	`

	_, err := executor(ctx, r.db).ExecContext(ctx, query, userID, channelID)

	logger.Log.Infow("query",
		"sql", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, channelID},
		"error", err,
	)

	return translateError(err)
}

// Delete removes a membership edge.
// Returns ErrNotFound when the pair does not exist.
func (r *SubscriptionWriteRepository) Delete(ctx context.Context, userID, channelID uuid.UUID) error {
	const query = `
		DELETE FROM subscriptions
		WHERE user_id = $1 AND channel_id = $2
	`

	res, err := executor(ctx, r.db).ExecContext(ctx, query, userID, channelID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("query",
		"sql", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, channelID},
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
