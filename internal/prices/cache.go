package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachedRepository is a read-through Redis cache in front of a Repository.
// The price tables change a few times a day at most and do not vary within a
// calculation, so a short TTL is safe. Cache failures fall back to the
// database and are never surfaced as lookup faults.
type CachedRepository struct {
	inner  Repository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedRepository(inner Repository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedRepository {
	return &CachedRepository{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedRepository) FuelPricesByProduct(ctx context.Context, product string) ([]FuelPrice, error) {
	key := fmt.Sprintf("prices:fuel:%s", product)

	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var rows []FuelPrice
		if err := json.Unmarshal(data, &rows); err == nil {
			return rows, nil
		}
	}

	rows, err := c.inner.FuelPricesByProduct(ctx, product)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, rows)
	return rows, nil
}

func (c *CachedRepository) ContractPriceByRoute(ctx context.Context, route string) (*ContractPrice, error) {
	key := fmt.Sprintf("prices:contract:%s", route)

	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		// A cached JSON null is a remembered no-match.
		var row *ContractPrice
		if err := json.Unmarshal(data, &row); err == nil {
			return row, nil
		}
	}

	row, err := c.inner.ContractPriceByRoute(ctx, route)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, row)
	return row, nil
}

func (c *CachedRepository) store(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Debug("price cache write failed", zap.String("key", key), zap.Error(err))
	}
}
