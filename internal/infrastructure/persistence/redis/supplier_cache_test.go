package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bell24h/supplierrisk/internal/config"
	"github.com/bell24h/supplierrisk/internal/domain/models"
	"github.com/bell24h/supplierrisk/pkg/logger"
)

func setupCache(t *testing.T) (*SupplierCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewSupplierCache(client, time.Minute, logger.NewNoopLogger()), mr
}

func TestSupplierCache_MissReturnsNil(t *testing.T) {
	cache, _ := setupCache(t)

	profile, err := cache.GetSupplier(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, profile)
}

func TestSupplierCache_SetGetInvalidate(t *testing.T) {
	ctx := context.Background()
	cache, mr := setupCache(t)

	in := &models.SupplierProfile{
		ID:            "sup-1",
		Name:          "Acme",
		QualityScore:  81,
		DeliveryStats: &models.DeliveryStats{OnTimePercentage: 97},
	}
	require.NoError(t, cache.SetSupplier(ctx, in))
	assert.True(t, mr.Exists("supplier:profile:sup-1"))
	assert.Equal(t, time.Minute, mr.TTL("supplier:profile:sup-1"))

	out, err := cache.GetSupplier(ctx, "sup-1")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "Acme", out.Name)
	assert.Equal(t, 81.0, out.QualityScore)
	assert.Equal(t, 97.0, out.DeliveryStats.OnTimePercentage)

	require.NoError(t, cache.InvalidateSupplier(ctx, "sup-1"))
	assert.False(t, mr.Exists("supplier:profile:sup-1"))
}

func TestSupplierCache_Expiry(t *testing.T) {
	ctx := context.Background()
	cache, mr := setupCache(t)

	require.NoError(t, cache.SetSupplier(ctx, &models.SupplierProfile{ID: "sup-2"}))
	mr.FastForward(2 * time.Minute)

	out, err := cache.GetSupplier(ctx, "sup-2")
	assert.NoError(t, err)
	assert.Nil(t, out)
}

func TestSupplierCache_CorruptEntryEvicted(t *testing.T) {
	ctx := context.Background()
	cache, mr := setupCache(t)

	require.NoError(t, mr.Set("supplier:profile:bad", "{not json"))
	out, err := cache.GetSupplier(ctx, "bad")
	assert.NoError(t, err)
	assert.Nil(t, out)
	assert.False(t, mr.Exists("supplier:profile:bad"))
}

func TestSupplierCache_BackendDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	cache := NewSupplierCache(client, time.Minute, logger.NewNoopLogger())
	mr.Close()

	_, err = cache.GetSupplier(context.Background(), "sup-1")
	assert.Error(t, err)
}

func TestRedisConnection_HealthCheck(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	conn, err := NewRedisConnection(context.Background(), &config.RedisConfig{Addresses: []string{mr.Addr()}}, logger.NewNoopLogger())
	require.NoError(t, err)
	health, err := conn.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, true, health["connected"])
	assert.NoError(t, conn.Close())
}
