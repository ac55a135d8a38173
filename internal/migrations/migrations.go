package migrations

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/gw-bulletin/internal/logger"
)

// statements are applied in order at startup. Each one is idempotent,
// so repeated boots converge on the same schema.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		username TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
		CONSTRAINT users_username_key UNIQUE (username)
	)`,
	`CREATE TABLE IF NOT EXISTS channels (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		owner_id UUID NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
		CONSTRAINT channels_name_key UNIQUE (name),
		CONSTRAINT channels_owner_id_fkey FOREIGN KEY (owner_id) REFERENCES users (id)
	)`,
	`CREATE TABLE IF NOT EXISTS subscriptions (
		user_id UUID NOT NULL,
		channel_id UUID NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		CONSTRAINT subscriptions_pkey PRIMARY KEY (user_id, channel_id),
		CONSTRAINT subscriptions_user_id_fkey FOREIGN KEY (user_id) REFERENCES users (id),
		CONSTRAINT subscriptions_channel_id_fkey FOREIGN KEY (channel_id) REFERENCES channels (id)
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL,
		channel_id UUID NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
		CONSTRAINT messages_user_id_fkey FOREIGN KEY (user_id) REFERENCES users (id),
		CONSTRAINT messages_channel_id_fkey FOREIGN KEY (channel_id) REFERENCES channels (id)
	)`,
	`CREATE INDEX IF NOT EXISTS messages_channel_id_idx ON messages (channel_id)`,
	`CREATE INDEX IF NOT EXISTS subscriptions_channel_id_idx ON subscriptions (channel_id)`,
}

// Apply runs all schema statements against the database.
func Apply(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			logger.Log.Errorw("migration failed",
				"statement", strings.Join(strings.Fields(stmt), " "),
				"error", err,
			)
			return err
		}
	}
	return nil
}
