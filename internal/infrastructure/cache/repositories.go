package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/trading-system/backend/internal/domain/catalog"
	"github.com/trading-system/backend/internal/domain/pricing"
	"github.com/trading-system/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// readThrough loads key from the store, falling back to load on a miss.
// Store failures are logged and never fail the read.
func readThrough[T any](ctx context.Context, store Store, key string, ttl time.Duration, load func() (*T, error)) (*T, error) {
	if data, ok, err := store.Get(ctx, key); err != nil {
		logger.L(ctx).Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			return &v, nil
		}
		_ = store.Delete(ctx, key)
	}

	v, err := load()
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(v); err == nil {
		if err := store.Set(ctx, key, data, ttl); err != nil {
			logger.L(ctx).Warn("Cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return v, nil
}

func articleKey(id uuid.UUID) string {
	return "article:" + id.String()
}

func priceListKey(id uuid.UUID) string {
	return "price_list:" + id.String()
}

// CachedArticleRepository decorates a catalog.ArticleRepository with a read-through cache.
// Entries expire by TTL only.
type CachedArticleRepository struct {
	inner catalog.ArticleRepository
	store Store
	ttl   time.Duration
}

// NewCachedArticleRepository creates a new CachedArticleRepository
func NewCachedArticleRepository(inner catalog.ArticleRepository, store Store, ttl time.Duration) *CachedArticleRepository {
	return &CachedArticleRepository{inner: inner, store: store, ttl: ttl}
}

// FindByID returns the cached snapshot or loads it
func (r *CachedArticleRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Article, error) {
	return readThrough(ctx, r.store, articleKey(id), r.ttl, func() (*catalog.Article, error) {
		return r.inner.FindByID(ctx, id)
	})
}

// FindByIDs serves hits from the cache and loads the rest in one call
func (r *CachedArticleRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Article, error) {
	out := make(map[uuid.UUID]*catalog.Article, len(ids))
	var missing []uuid.UUID
	for _, id := range ids {
		data, ok, err := r.store.Get(ctx, articleKey(id))
		if err != nil || !ok {
			missing = append(missing, id)
			continue
		}
		var a catalog.Article
		if json.Unmarshal(data, &a) != nil {
			missing = append(missing, id)
			continue
		}
		out[id] = &a
	}
	if len(missing) == 0 {
		return out, nil
	}

	loaded, err := r.inner.FindByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, a := range loaded {
		out[id] = a
		if data, err := json.Marshal(a); err == nil {
			if err := r.store.Set(ctx, articleKey(id), data, r.ttl); err != nil {
				logger.L(ctx).Warn("Cache write failed", zap.String("key", articleKey(id)), zap.Error(err))
			}
		}
	}
	return out, nil
}

// CachedPriceListRepository caches price lists by ID. FindCurrent always hits the inner repository.
type CachedPriceListRepository struct {
	inner pricing.PriceListRepository
	store Store
	ttl   time.Duration
}

// NewCachedPriceListRepository creates a new CachedPriceListRepository
func NewCachedPriceListRepository(inner pricing.PriceListRepository, store Store, ttl time.Duration) *CachedPriceListRepository {
	return &CachedPriceListRepository{inner: inner, store: store, ttl: ttl}
}

// FindByID returns the cached list or loads it
func (r *CachedPriceListRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.PriceList, error) {
	return readThrough(ctx, r.store, priceListKey(id), r.ttl, func() (*pricing.PriceList, error) {
		return r.inner.FindByID(ctx, id)
	})
}

// FindCurrent delegates to the inner repository
func (r *CachedPriceListRepository) FindCurrent(ctx context.Context, filter pricing.CurrentListFilter) ([]*pricing.PriceList, error) {
	return r.inner.FindCurrent(ctx, filter)
}

// Save writes through and evicts the cached copy
func (r *CachedPriceListRepository) Save(ctx context.Context, list *pricing.PriceList) error {
	if err := r.inner.Save(ctx, list); err != nil {
		return err
	}
	if err := r.store.Delete(ctx, priceListKey(list.ID)); err != nil {
		logger.L(ctx).Warn("Cache eviction failed", zap.String("price_list_id", list.ID.String()), zap.Error(err))
	}
	return nil
}
