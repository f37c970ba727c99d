package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vladimiradmaev/footprint-helper/internal/logger"
)

// DefaultTTL drops navigation state of inactive chats
const DefaultTTL = 24 * time.Hour

// RedisManager manages user states using Redis, so pending analyses
// survive a bot restart
type RedisManager struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisManager wraps a connected client. A non-positive ttl uses DefaultTTL.
func NewRedisManager(client *redis.Client, ttl time.Duration) *RedisManager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisManager{client: client, ttl: ttl}
}

func stateKey(userID int64) string {
	return fmt.Sprintf("footprint:tg:%d:state", userID)
}

func tempKey(userID int64) string {
	return fmt.Sprintf("footprint:tg:%d:temp", userID)
}

// SetUserState sets the state for a user with TTL
func (m *RedisManager) SetUserState(userID int64, state string) {
	ctx := context.Background()
	if err := m.client.Set(ctx, stateKey(userID), state, m.ttl).Err(); err != nil {
		logger.Warn("Failed to save user state", "telegram_id", userID, "error", err)
	}
}

// GetUserState gets the state for a user
func (m *RedisManager) GetUserState(userID int64) string {
	ctx := context.Background()
	state, err := m.client.Get(ctx, stateKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return None
	}
	if err != nil {
		logger.Warn("Failed to read user state", "telegram_id", userID, "error", err)
		return None
	}
	return state
}

// ClearUserState clears the state for a user
func (m *RedisManager) ClearUserState(userID int64) {
	ctx := context.Background()
	m.client.Del(ctx, stateKey(userID))
}

// SetTempData stores one field of the user's temporary data hash
func (m *RedisManager) SetTempData(userID int64, key, value string) {
	ctx := context.Background()
	pipe := m.client.TxPipeline()
	pipe.HSet(ctx, tempKey(userID), key, value)
	pipe.Expire(ctx, tempKey(userID), m.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn("Failed to save temp data", "telegram_id", userID, "key", key, "error", err)
	}
}

// GetTempData gets temporary data for a user
func (m *RedisManager) GetTempData(userID int64, key string) (string, bool) {
	ctx := context.Background()
	value, err := m.client.HGet(ctx, tempKey(userID), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		logger.Warn("Failed to read temp data", "telegram_id", userID, "key", key, "error", err)
		return "", false
	}
	return value, true
}

// TakeTempData reads and deletes one field in a MULTI/EXEC block, so a
// repeated confirmation finds nothing
func (m *RedisManager) TakeTempData(userID int64, key string) (string, bool) {
	ctx := context.Background()
	pipe := m.client.TxPipeline()
	get := pipe.HGet(ctx, tempKey(userID), key)
	pipe.HDel(ctx, tempKey(userID), key)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		logger.Warn("Failed to take temp data", "telegram_id", userID, "key", key, "error", err)
		return "", false
	}
	value, err := get.Result()
	if err != nil {
		return "", false
	}
	return value, true
}

// ClearTempData clears all temporary data for a user
func (m *RedisManager) ClearTempData(userID int64) {
	ctx := context.Background()
	m.client.Del(ctx, tempKey(userID))
}
