package infra

import (
	"log"

	"github.com/redis/go-redis/v9"

	"subgate/internal/config"
)

// InitRedis returns nil when REDIS_URL is unset; presence tracking then falls
// back to its no-op implementation.
func InitRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("invalid REDIS_URL, presence tracking disabled: %v", err)
		return nil
	}

	return redis.NewClient(opts)
}
