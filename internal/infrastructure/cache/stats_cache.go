package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/LeaGuevara01/node-sub001/internal/application/dto"
	"github.com/LeaGuevara01/node-sub001/internal/application/purchase"
)

// StatsKey clave de las estadísticas de compras.
const StatsKey = "purchases:stats"

var _ purchase.StatsCache = (*StatsCache)(nil)

// StatsCache guarda la respuesta de estadísticas serializada en JSON con TTL.
// Toda escritura de compras la invalida.
type StatsCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewStatsCache construye la caché. ttl <= 0 deja la clave sin expiración.
func NewStatsCache(rdb redis.Cmdable, ttl time.Duration) *StatsCache {
	return &StatsCache{rdb: rdb, ttl: ttl}
}

func (c *StatsCache) Get(ctx context.Context) (*dto.PurchaseStatsResponse, bool, error) {
	raw, err := c.rdb.Get(ctx, StatsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var out dto.PurchaseStatsResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		// Entrada corrupta: se trata como miss y se recalcula.
		return nil, false, nil
	}
	return &out, true, nil
}

func (c *StatsCache) Set(ctx context.Context, stats *dto.PurchaseStatsResponse) error {
	b, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, StatsKey, b, c.ttl).Err()
}

func (c *StatsCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, StatsKey).Err()
}
