package cache

import (
	"context"
	"time"

	"marketing-api/pkg/config"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init connects to Redis when an address is configured. Returns nil client
// semantics otherwise: the analytics cache middleware becomes a no-op.
func Init(cfg *config.CacheConfig) error {
	if cfg.Addr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return err
	}

	client = rdb
	return nil
}

// Get returns the Redis client, or nil when caching is disabled
func Get() *redis.Client {
	return client
}

// Close releases the Redis connection
func Close() error {
	if client == nil {
		return nil
	}
	return client.Close()
}
