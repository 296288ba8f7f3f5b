package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bell24h/supplierrisk/internal/domain/models"
	"github.com/bell24h/supplierrisk/internal/domain/service"
	"github.com/bell24h/supplierrisk/pkg/constants"
	"github.com/bell24h/supplierrisk/pkg/logger"
)

// SupplierCache is the Redis implementation of service.SupplierCache.
// Profiles are stored as JSON under supplier:profile:<id>.
type SupplierCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	log    logger.Logger
}

var _ service.SupplierCache = (*SupplierCache)(nil)

// NewSupplierCache creates a new SupplierCache. A non-positive ttl selects the default.
func NewSupplierCache(client redis.UniversalClient, ttl time.Duration, log logger.Logger) *SupplierCache {
	if ttl <= 0 {
		ttl = constants.DefaultSupplierCacheTTL
	}
	return &SupplierCache{client: client, ttl: ttl, log: log.WithComponent("SupplierCache")}
}

func supplierKey(supplierID string) string {
	return constants.SupplierCacheKeyPrefix + supplierID
}

// GetSupplier returns (nil, nil) on a miss. Undecodable entries are evicted and treated as a miss.
func (c *SupplierCache) GetSupplier(ctx context.Context, supplierID string) (*models.SupplierProfile, error) {
	data, err := c.client.Get(ctx, supplierKey(supplierID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var profile models.SupplierProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		c.log.Warn(ctx, "Evicting corrupt supplier cache entry",
			logger.String("supplier_id", supplierID),
			logger.Err(err),
		)
		_ = c.client.Del(ctx, supplierKey(supplierID)).Err()
		return nil, nil
	}
	return &profile, nil
}

func (c *SupplierCache) SetSupplier(ctx context.Context, profile *models.SupplierProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, supplierKey(profile.ID), data, c.ttl).Err()
}

func (c *SupplierCache) InvalidateSupplier(ctx context.Context, supplierID string) error {
	return c.client.Del(ctx, supplierKey(supplierID)).Err()
}
