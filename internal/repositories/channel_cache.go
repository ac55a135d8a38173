package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sbilibin2017/gw-bulletin/internal/logger"
	"github.com/sbilibin2017/gw-bulletin/internal/models"
)

// ChannelCacheRepository provides cached channel records using Redis.
type ChannelCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration duration for cached channels
}

// NewChannelCacheRepository creates a new repository instance with the given TTL.
func NewChannelCacheRepository(client *redis.Client, expiration time.Duration) *ChannelCacheRepository {
	return &ChannelCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func channelCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("channel:%s", id)
}

// Get fetches a cached channel. Returns (nil, nil) on a cache miss.
func (r *ChannelCacheRepository) Get(ctx context.Context, id uuid.UUID) (*models.ChannelDB, error) {
	key := channelCacheKey(id)

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		logger.Log.Infow("cache get",
			"key", key,
			"error", err,
		)
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var channel models.ChannelDB
	if err := json.Unmarshal([]byte(val), &channel); err != nil {
		logger.Log.Errorw("cache entry corrupt", "key", key, "error", err)
		return nil, err
	}

	logger.Log.Infow("cache get",
		"key", key,
		"result", "hit",
	)

	return &channel, nil
}

// Set caches a channel record with expiration.
func (r *ChannelCacheRepository) Set(ctx context.Context, channel *models.ChannelDB) error {
	key := channelCacheKey(channel.ID)

	data, err := json.Marshal(channel)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, key, data, r.exp).Err()

	logger.Log.Infow("cache set",
		"key", key,
		"error", err,
	)

	return err
}

// Delete drops a channel from the cache. Called after updates and deletes so
// readers never see a stale record past the write.
func (r *ChannelCacheRepository) Delete(ctx context.Context, id uuid.UUID) error {
	key := channelCacheKey(id)

	err := r.client.Del(ctx, key).Err()

	logger.Log.Infow("cache delete",
		"key", key,
		"error", err,
	)

	return err
}
