package repository

import (
	"context"
	"encoding/json"
	"time"

	"b2bdesk/internal/domain/entities"
	"b2bdesk/internal/infrastructure/logger"
	"b2bdesk/internal/usecase/interfaces"

	"github.com/redis/go-redis/v9"
)

const (
	productKeyPrefix  = "catalog:product:"
	productListKey    = "catalog:products"
	customerKeyPrefix = "catalog:customer:"
	customerListKey   = "catalog:customers"

	defaultCatalogCacheTTL = 5 * time.Minute
)

var cacheLog = logger.WithComponent("catalog-cache")

// CachedProductRepository decorates a product repository with a Redis
// read-through cache. Cache failures degrade to the underlying repository;
// they are logged, never surfaced.

type CachedProductRepository struct {
	inner interfaces.IProductRepository
	rdb   *redis.Client
	ttl   time.Duration
}

var _ interfaces.IProductRepository = (*CachedProductRepository)(nil)

func NewCachedProductRepository(inner interfaces.IProductRepository, rdb *redis.Client) *CachedProductRepository {
	return &CachedProductRepository{inner: inner, rdb: rdb, ttl: defaultCatalogCacheTTL}
}

func (r *CachedProductRepository) Create(ctx context.Context, p entities.Product) (entities.Product, error) {
	created, err := r.inner.Create(ctx, p)
	if err != nil {
		return entities.Product{}, err
	}
	// The list snapshot is stale after any write.
	if err := r.rdb.Del(ctx, productListKey).Err(); err != nil {
		cacheLog.Warn().Err(err).Msg("product list invalidation failed")
	}
	return created, nil
}

func (r *CachedProductRepository) GetByID(ctx context.Context, id string) (entities.Product, error) {
	key := productKeyPrefix + id
	if raw, err := r.rdb.Get(ctx, key).Bytes(); err == nil {
		var p entities.Product
		if err := json.Unmarshal(raw, &p); err == nil {
			return p, nil
		}
	} else if err != redis.Nil {
		cacheLog.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	p, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return entities.Product{}, err
	}
	if p.ID != "" {
		r.set(ctx, key, p)
	}
	return p, nil
}

func (r *CachedProductRepository) List(ctx context.Context) ([]entities.Product, error) {
	if raw, err := r.rdb.Get(ctx, productListKey).Bytes(); err == nil {
		var products []entities.Product
		if err := json.Unmarshal(raw, &products); err == nil {
			return products, nil
		}
	} else if err != redis.Nil {
		cacheLog.Warn().Err(err).Str("key", productListKey).Msg("cache read failed")
	}

	products, err := r.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	r.set(ctx, productListKey, products)
	return products, nil
}

func (r *CachedProductRepository) set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		cacheLog.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// CachedCustomerRepository is the customer-side twin. Customer lookups sit on
// the invoice hot path (interstate check), so they benefit the most from the
// cache.

type CachedCustomerRepository struct {
	inner interfaces.ICustomerRepository
	rdb   *redis.Client
	ttl   time.Duration
}

var _ interfaces.ICustomerRepository = (*CachedCustomerRepository)(nil)

func NewCachedCustomerRepository(inner interfaces.ICustomerRepository, rdb *redis.Client) *CachedCustomerRepository {
	return &CachedCustomerRepository{inner: inner, rdb: rdb, ttl: defaultCatalogCacheTTL}
}

func (r *CachedCustomerRepository) Create(ctx context.Context, c entities.Customer) (entities.Customer, error) {
	created, err := r.inner.Create(ctx, c)
	if err != nil {
		return entities.Customer{}, err
	}
	if err := r.rdb.Del(ctx, customerListKey).Err(); err != nil {
		cacheLog.Warn().Err(err).Msg("customer list invalidation failed")
	}
	return created, nil
}

func (r *CachedCustomerRepository) GetByID(ctx context.Context, id string) (entities.Customer, error) {
	key := customerKeyPrefix + id
	if raw, err := r.rdb.Get(ctx, key).Bytes(); err == nil {
		var c entities.Customer
		if err := json.Unmarshal(raw, &c); err == nil {
			return c, nil
		}
	} else if err != redis.Nil {
		cacheLog.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	c, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return entities.Customer{}, err
	}
	if c.ID != "" {
		r.set(ctx, key, c)
	}
	return c, nil
}

func (r *CachedCustomerRepository) List(ctx context.Context) ([]entities.Customer, error) {
	if raw, err := r.rdb.Get(ctx, customerListKey).Bytes(); err == nil {
		var customers []entities.Customer
		if err := json.Unmarshal(raw, &customers); err == nil {
			return customers, nil
		}
	} else if err != redis.Nil {
		cacheLog.Warn().Err(err).Str("key", customerListKey).Msg("cache read failed")
	}

	customers, err := r.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	r.set(ctx, customerListKey, customers)
	return customers, nil
}

func (r *CachedCustomerRepository) set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		cacheLog.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
