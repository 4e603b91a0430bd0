package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeaGuevara01/node-sub001/internal/application/dto"
)

func TestStatsCache_UnreachableRedisReportsError(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()
	c := NewStatsCache(rdb, time.Minute)

	stats, found, err := c.Get(context.Background())
	assert.Error(t, err)
	assert.False(t, found)
	assert.Nil(t, stats)
	assert.Error(t, c.Invalidate(context.Background()))
}

// Requiere un Redis real: REDIS_TEST_URL=redis://localhost:6379/15
func TestStatsCache_RoundTrip(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL no configurada")
	}
	ctx := context.Background()
	rdb, err := NewRedis(ctx, url)
	require.NoError(t, err)
	defer rdb.Close()
	c := NewStatsCache(rdb, time.Minute)
	require.NoError(t, c.Invalidate(ctx))

	_, found, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	in := &dto.PurchaseStatsResponse{
		BySupplier:    []dto.SupplierStatDTO{{SupplierID: 1, SupplierName: "Agro", Count: 2, Total: decimal.RequireFromString("150.50")}},
		ByStatus:      []dto.StatusStatDTO{{Status: "Received", Count: 2, Total: decimal.RequireFromString("150.50")}},
		MonthlyTotals: []dto.MonthlyTotalDTO{{Month: "2024-03", Count: 2, Total: decimal.RequireFromString("150.50")}},
	}
	require.NoError(t, c.Set(ctx, in))

	got, found, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Agro", got.BySupplier[0].SupplierName)
	assert.True(t, in.BySupplier[0].Total.Equal(got.BySupplier[0].Total))
	assert.Equal(t, "2024-03", got.MonthlyTotals[0].Month)

	require.NoError(t, c.Invalidate(ctx))
	_, found, err = c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, found)
}
