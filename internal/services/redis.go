package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

const bookingUpdatesChannel = "booking:updates"

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

// BookingUpdate is the event published whenever a booking changes state
type BookingUpdate struct {
	BookingID  uint                   `json:"bookingId"`
	Reference  string                 `json:"reference"`
	Status     string                 `json:"status"`
	UserID     uint                   `json:"userId"`
	OperatorID *uint                  `json:"operatorId,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
	Timestamp  int64                  `json:"timestamp"`
}

// PublishBookingUpdate publishes a booking state change to Redis pub/sub so
// every API instance can fan it out to its own WebSocket clients.
func PublishBookingUpdate(ctx context.Context, update BookingUpdate) error {
	update.Timestamp = time.Now().Unix()

	data, err := json.Marshal(update)
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, bookingUpdatesChannel, data).Err()
}

// SubscribeBookingUpdates subscribes to the booking updates channel and
// returns the message stream.
func SubscribeBookingUpdates(ctx context.Context) *redis.PubSub {
	return RedisClient.Subscribe(ctx, bookingUpdatesChannel)
}

// CacheAdminStats stores the admin dashboard stats payload for a short TTL
func CacheAdminStats(ctx context.Context, stats map[string]interface{}) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return RedisClient.Set(ctx, "admin:stats", data, time.Minute).Err()
}

// GetCachedAdminStats retrieves the cached dashboard stats, if any
func GetCachedAdminStats(ctx context.Context) (map[string]interface{}, error) {
	data, err := RedisClient.Get(ctx, "admin:stats").Result()
	if err != nil {
		return nil, err
	}

	var stats map[string]interface{}
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return nil, err
	}

	return stats, nil
}

// InvalidateAdminStats drops the cached dashboard stats after a mutation
func InvalidateAdminStats(ctx context.Context) {
	RedisClient.Del(ctx, "admin:stats")
}
