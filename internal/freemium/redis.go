package freemium

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"alcyxob/fitclub/internal/config"
)

// NewRedisClient connects and pings. It returns nil when Redis cannot be
// reached, so callers fall back to the memory ledger.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
