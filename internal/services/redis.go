package services

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// EventsChannel is the pub/sub channel change events are published on.
// Consumers subscribe here and re-fetch whatever they care about; events
// carry no payload beyond their kind.
const EventsChannel = "encho:events"

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// PublishEvent publishes an event kind on the shared events channel.
// Best-effort: absent or unreachable Redis surfaces as an error the caller
// may log and drop.
func PublishEvent(ctx context.Context, kind string) error {
	if RedisClient == nil {
		return fmt.Errorf("redis client not initialized")
	}
	return RedisClient.Publish(ctx, EventsChannel, kind).Err()
}

// SubscribeEvents returns a subscription on the events channel. Used by
// read-model consumers that invalidate on coarse-grained event kinds.
func SubscribeEvents(ctx context.Context) *redis.PubSub {
	return RedisClient.Subscribe(ctx, EventsChannel)
}
