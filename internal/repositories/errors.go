package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/gw-bulletin/internal/middlewares"
)

// Storage-level outcomes surfaced to the service layer. Services translate
// these into their own API errors.
var (
	// ErrNotFound is returned when a write affects zero rows.
	ErrNotFound = errors.New("row not found")
	// ErrDuplicate is returned on a unique constraint violation.
	ErrDuplicate = errors.New("duplicate row")
	// ErrUserMissing is returned when a write references a user that does not exist.
	ErrUserMissing = errors.New("referenced user does not exist")
	// ErrChannelMissing is returned when a write references a channel that does not exist.
	ErrChannelMissing = errors.New("referenced channel does not exist")
	// ErrReferenced is returned when a delete is blocked by rows that still
	// reference the target.
	ErrReferenced = errors.New("row still referenced")
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// translateError maps postgres constraint violations to storage-level
// outcomes. The constraint name identifies which referenced entity was
// missing, so creates need no prior existence check: the insert itself is
// the single constrained write.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case uniqueViolation:
		return ErrDuplicate
	case foreignKeyViolation:
		switch pgErr.ConstraintName {
		case "channels_owner_id_fkey", "subscriptions_user_id_fkey", "messages_user_id_fkey":
			return ErrUserMissing
		case "subscriptions_channel_id_fkey", "messages_channel_id_fkey":
			return ErrChannelMissing
		}
	}

	return err
}

// translateDeleteError maps a foreign key violation raised by a DELETE to
// ErrReferenced. On a delete the violated constraint lives on the referencing
// table, so the constraint name does not identify a missing entity the way it
// does for inserts.
func translateDeleteError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return ErrReferenced
	}

	return err
}

// executor returns the per-request transaction when one is installed,
// falling back to the connection pool.
func executor(ctx context.Context, db *sqlx.DB) sqlx.ExtContext {
	if tx := middlewares.GetTxFromContext(ctx); tx != nil {
		return tx
	}
	return db
}
