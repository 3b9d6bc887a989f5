package redis

import (
	redis_models "Wordspy/models/redis"
	redis_utils "Wordspy/services/redis/utils"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionTTL is the coarse leak guard on stored sessions. It is not a
// gameplay timeout; abandoned games simply age out.
const SessionTTL = 24 * time.Hour

// RedisClient handles Redis operations
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client instance. URL-style addresses
// ("redis://...") go through redis.ParseURL; anything else is treated as a
// plain host:port. A bad address is an error, never a panic: the caller
// decides whether running without Redis is acceptable.
func NewRedisClient(addr string, db int) (*RedisClient, error) {
	var client *redis.Client
	if strings.Contains(addr, "://") {
		log.Println("Connecting to remote Redis...")
		opt, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("error parsing Redis URL %q: %v", addr, err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		})
	}
	return &RedisClient{
		client: client,
		ctx:    context.Background(),
	}, nil
}

// SaveGameSession stores a serialized game session in Redis
// Key format: "game:{roomId}"
// TTL: 24 hours
func (rc *RedisClient) SaveGameSession(session *redis_models.GameSession) error {
	key := redis_utils.FormatGameKey(session.RoomID)
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("error marshaling session data: %v", err)
	}
	return rc.client.Set(rc.ctx, key, data, SessionTTL).Err()
}

// GetGameSession retrieves a game session from Redis
// Key format: "game:{roomId}"
// Returns (nil, nil) when the key does not exist.
func (rc *RedisClient) GetGameSession(roomID string) (*redis_models.GameSession, error) {
	key := redis_utils.FormatGameKey(roomID)
	data, err := rc.client.Get(rc.ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting session data: %v", err)
	}

	var session redis_models.GameSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("error unmarshaling session data: %v", err)
	}
	return &session, nil
}

// DeleteGameSession removes a game session from Redis
// Key format: "game:{roomId}"
func (rc *RedisClient) DeleteGameSession(roomID string) error {
	key := redis_utils.FormatGameKey(roomID)
	if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
		return fmt.Errorf("error deleting session data: %v", err)
	}
	return nil
}

// CleanupKeys removes the specified keys from Redis
func (rc *RedisClient) CleanupKeys(keys []string) error {
	for _, key := range keys {
		if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to cleanup Redis key %s: %v", key, err)
		}
	}
	return nil
}
