package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/gw-bulletin/internal/logger"
	"github.com/sbilibin2017/gw-bulletin/internal/models"
	"github.com/sbilibin2017/gw-bulletin/internal/repositories"
)

var (
	ErrMessageNotFound = errors.New("message not found")
	ErrNotSubscribed   = errors.New("user not subscribed to this channel")
)

// MessageReader defines read-only operations for messages.
type MessageReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.MessageDB, error)
	List(ctx context.Context) ([]models.MessageDB, error)
}

// MessageWriter defines write operations for messages.
type MessageWriter interface {
	Save(ctx context.Context, userID, channelID uuid.UUID, content string) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, content string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubscriptionReader checks membership edges.
type SubscriptionReader interface {
	Exists(ctx context.Context, userID, channelID uuid.UUID) (bool, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// MessageService handles message CRUD and event publishing. Creating a
// message requires an active subscription of the author to the channel; this
// service is the only path that creates messages.
type MessageService struct {
	reader      MessageReader
	writer      MessageWriter
	subs        SubscriptionReader
	kafkaWriter KafkaWriter
}

// NewMessageService creates a new MessageService.
// kafkaWriter may be nil; events are then skipped.
func NewMessageService(reader MessageReader, writer MessageWriter, subs SubscriptionReader, kafkaWriter KafkaWriter) *MessageService {
	return &MessageService{
		reader:      reader,
		writer:      writer,
		subs:        subs,
		kafkaWriter: kafkaWriter,
	}
}

// publishEvent publishes a message lifecycle event to Kafka.
func (svc *MessageService) publishEvent(ctx context.Context, event models.MessageEvent) {
	if svc.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "message_id", event.MessageID)
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal message event", "message_id", event.MessageID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.MessageID),
		Value: data,
	}

	if err := svc.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish message event", "message_id", event.MessageID, "error", err)
	} else {
		logger.Log.Infow("Message event published", "message_id", event.MessageID, "operation", event.Operation)
	}
}

// Create posts a message to a channel on behalf of userID. The subscription
// check runs on the same transaction as the insert when one is installed on
// the request, so it cannot be raced.
func (svc *MessageService) Create(ctx context.Context, userID, channelID uuid.UUID, content string) (uuid.UUID, error) {
	subscribed, err := svc.subs.Exists(ctx, userID, channelID)
	if err != nil {
		logger.Log.Errorw("failed to check subscription", "user_id", userID, "channel_id", channelID, "err", err)
		return uuid.Nil, err
	}
	if !subscribed {
		logger.Log.Errorw("user not subscribed", "user_id", userID, "channel_id", channelID)
		return uuid.Nil, ErrNotSubscribed
	}

	id, err := svc.writer.Save(ctx, userID, channelID, content)
	switch {
	case errors.Is(err, repositories.ErrUserMissing):
		return uuid.Nil, ErrUserNotFound
	case errors.Is(err, repositories.ErrChannelMissing):
		return uuid.Nil, ErrChannelNotFound
	case err != nil:
		logger.Log.Errorw("failed to save message", "err", err)
		return uuid.Nil, err
	}

	svc.publishEvent(ctx, models.MessageEvent{
		MessageID: id.String(),
		UserID:    userID.String(),
		ChannelID: channelID.String(),
		Timestamp: time.Now().Unix(),
		Operation: "create",
	})

	return id, nil
}

// List returns all messages.
func (svc *MessageService) List(ctx context.Context) ([]models.MessageDB, error) {
	messages, err := svc.reader.List(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list messages", "err", err)
		return nil, err
	}
	return messages, nil
}

// Get returns the message with the given id.
func (svc *MessageService) Get(ctx context.Context, id uuid.UUID) (*models.MessageDB, error) {
	message, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get message", "id", id, "err", err)
		return nil, err
	}
	if message == nil {
		return nil, ErrMessageNotFound
	}
	return message, nil
}

// Update replaces the message content. An update with no content supplied
// fails without touching storage.
func (svc *MessageService) Update(ctx context.Context, id uuid.UUID, content *string) error {
	if content == nil {
		return ErrEmptyUpdate
	}

	err := svc.writer.Update(ctx, id, *content)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrMessageNotFound
	}
	if err != nil {
		logger.Log.Errorw("failed to update message", "id", id, "err", err)
		return err
	}
	return nil
}

// Delete removes the message with the given id.
func (svc *MessageService) Delete(ctx context.Context, id uuid.UUID) error {
	err := svc.writer.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrMessageNotFound
	}
	if err != nil {
		logger.Log.Errorw("failed to delete message", "id", id, "err", err)
		return err
	}
	return nil
}
