package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedis crea el cliente a partir de REDIS_URL y valida la conexión al arrancar.
func NewRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
