package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-bulletin/internal/logger"
	"github.com/sbilibin2017/gw-bulletin/internal/models"
	"github.com/sbilibin2017/gw-bulletin/internal/repositories"
)

var (
	ErrChannelNotFound      = errors.New("channel not found")
	ErrChannelReferenced    = errors.New("channel has dependent records")
	ErrChannelAlreadyExists = errors.New("channel name already exists")
	ErrOwnerNotFound        = errors.New("owner not found")
	ErrAlreadySubscribed    = errors.New("already subscribed to this channel")
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// ChannelReader defines read-only operations for channels.
type ChannelReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.ChannelDB, error)
	List(ctx context.Context) ([]models.ChannelDB, error)
}

// ChannelWriter defines write operations for channels.
type ChannelWriter interface {
	Save(ctx context.Context, name string, ownerID uuid.UUID) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, name *string, ownerID *uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubscriptionWriter defines write operations for membership edges.
type SubscriptionWriter interface {
	Save(ctx context.Context, userID, channelID uuid.UUID) error
	Delete(ctx context.Context, userID, channelID uuid.UUID) error
}

// ChannelCache caches channel records.
type ChannelCache interface {
	Get(ctx context.Context, id uuid.UUID) (*models.ChannelDB, error)
	Set(ctx context.Context, channel *models.ChannelDB) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ChannelService handles channel CRUD and subscriptions.
type ChannelService struct {
	reader ChannelReader
	writer ChannelWriter
	subs   SubscriptionWriter
	cache  ChannelCache
}

// NewChannelService creates a new ChannelService instance.
// cache may be nil; reads then always go to storage.
func NewChannelService(reader ChannelReader, writer ChannelWriter, subs SubscriptionWriter, cache ChannelCache) *ChannelService {
	return &ChannelService{
		reader: reader,
		writer: writer,
		subs:   subs,
		cache:  cache,
	}
}

// Create inserts a new channel owned by ownerID and returns its id.
// A missing owner is reported by the insert's foreign key, a taken name by
// the unique index.
func (svc *ChannelService) Create(ctx context.Context, name string, ownerID uuid.UUID) (uuid.UUID, error) {
	id, err := svc.writer.Save(ctx, name, ownerID)
	switch {
	case errors.Is(err, repositories.ErrUserMissing):
		logger.Log.Errorw("channel owner does not exist", "owner_id", ownerID)
		return uuid.Nil, ErrOwnerNotFound
	case errors.Is(err, repositories.ErrDuplicate):
		logger.Log.Errorw("channel name already exists", "name", name)
		return uuid.Nil, ErrChannelAlreadyExists
	case err != nil:
		logger.Log.Errorw("failed to save channel", "err", err)
		return uuid.Nil, err
	}

	return id, nil
}

// List returns all channels.
func (svc *ChannelService) List(ctx context.Context) ([]models.ChannelDB, error) {
	channels, err := svc.reader.List(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list channels", "err", err)
		return nil, err
	}
	return channels, nil
}

// Get returns the channel with the given id, serving from the cache when
// possible. Cache failures fall through to storage.
func (svc *ChannelService) Get(ctx context.Context, id uuid.UUID) (*models.ChannelDB, error) {
	if svc.cache != nil {
		if cached, err := svc.cache.Get(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	channel, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get channel", "id", id, "err", err)
		return nil, err
	}
	if channel == nil {
		return nil, ErrChannelNotFound
	}

	if svc.cache != nil {
		if err := svc.cache.Set(ctx, channel); err != nil {
			logger.Log.Errorw("failed to cache channel", "id", id, "err", err)
		}
	}

	return channel, nil
}

// Update changes only the supplied fields and invalidates the cache entry.
func (svc *ChannelService) Update(ctx context.Context, id uuid.UUID, name *string, ownerID *uuid.UUID) error {
	if name == nil && ownerID == nil {
		return ErrEmptyUpdate
	}

	err := svc.writer.Update(ctx, id, name, ownerID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return ErrChannelNotFound
	case errors.Is(err, repositories.ErrUserMissing):
		return ErrOwnerNotFound
	case errors.Is(err, repositories.ErrDuplicate):
		return ErrChannelAlreadyExists
	case err != nil:
		logger.Log.Errorw("failed to update channel", "id", id, "err", err)
		return err
	}

	svc.invalidate(ctx, id)
	return nil
}

// Delete removes the channel and invalidates the cache entry. A channel
// with subscribers or messages cannot be deleted.
func (svc *ChannelService) Delete(ctx context.Context, id uuid.UUID) error {
	err := svc.writer.Delete(ctx, id)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return ErrChannelNotFound
	case errors.Is(err, repositories.ErrReferenced):
		return ErrChannelReferenced
	case err != nil:
		logger.Log.Errorw("failed to delete channel", "id", id, "err", err)
		return err
	}

	svc.invalidate(ctx, id)
	return nil
}

// Subscribe adds a membership edge. The insert's foreign keys report a
// missing user or channel; a repeat subscribe hits the composite primary key.
func (svc *ChannelService) Subscribe(ctx context.Context, userID, channelID uuid.UUID) error {
	err := svc.subs.Save(ctx, userID, channelID)
	switch {
	case errors.Is(err, repositories.ErrUserMissing):
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrChannelMissing):
		return ErrChannelNotFound
	case errors.Is(err, repositories.ErrDuplicate):
		return ErrAlreadySubscribed
	case err != nil:
		logger.Log.Errorw("failed to subscribe", "user_id", userID, "channel_id", channelID, "err", err)
		return err
	}
	return nil
}

// Unsubscribe removes a membership edge.
func (svc *ChannelService) Unsubscribe(ctx context.Context, userID, channelID uuid.UUID) error {
	err := svc.subs.Delete(ctx, userID, channelID)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrSubscriptionNotFound
	}
	if err != nil {
		logger.Log.Errorw("failed to unsubscribe", "user_id", userID, "channel_id", channelID, "err", err)
		return err
	}
	return nil
}

// invalidate drops the cache entry for id. It runs before the surrounding
// transaction commits, so a concurrent Get can re-cache the old row; such an
// entry lives at most until its TTL expires.
func (svc *ChannelService) invalidate(ctx context.Context, id uuid.UUID) {
	if svc.cache == nil {
		return
	}
	if err := svc.cache.Delete(ctx, id); err != nil {
		logger.Log.Errorw("failed to invalidate channel cache", "id", id, "err", err)
	}
}
