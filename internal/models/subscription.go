package models

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionDB represents a membership edge between a user and a channel.
// The (user_id, channel_id) pair is the composite primary key.
type SubscriptionDB struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ChannelID uuid.UUID `json:"channel_id" db:"channel_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
