package models

import (
	"time"

	"github.com/google/uuid"
)

// MessageDB represents a message posted to a channel.
type MessageDB struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ChannelID uuid.UUID `json:"channel_id" db:"channel_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// MessageEvent is the payload published to Kafka when a message is created.
type MessageEvent struct {
	MessageID string `json:"message_id"`
	UserID    string `json:"user_id"`
	ChannelID string `json:"channel_id"`
	Timestamp int64  `json:"timestamp"`
	Operation string `json:"operation"`
}
