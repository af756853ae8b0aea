package repositories

import (
	"context"

	"github.com/builderhome/backend/internal/logger"
	"github.com/builderhome/backend/internal/models"
)

// userStoreReader is the store-backed point lookup behind the cache.
type userStoreReader interface {
	GetByID(ctx context.Context, id int64) (*models.UserDB, error)
}

// userCacheStore is the cache side of the decorator.
type userCacheStore interface {
	GetByID(ctx context.Context, id int64) (*models.UserDB, error)
	Set(ctx context.Context, user *models.UserDB) error
}

// CachedUserReader serves user lookups for the auth middleware from Redis
// with a store fallback. Cache faults degrade to store reads; they never
// fail a request.
type CachedUserReader struct {
	cache userCacheStore
	store userStoreReader
}

func NewCachedUserReader(cache userCacheStore, store userStoreReader) *CachedUserReader {
	return &CachedUserReader{cache: cache, store: store}
}

// GetByID returns the cached user when present, otherwise reads the store
// and populates the cache on a hit.
func (r *CachedUserReader) GetByID(ctx context.Context, id int64) (*models.UserDB, error) {
	user, err := r.cache.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("user cache read failed, falling back to store", "id", id, "error", err)
	} else if user != nil {
		return user, nil
	}

	user, err = r.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user != nil {
		if err := r.cache.Set(ctx, user); err != nil {
			logger.Log.Errorw("user cache populate failed", "id", id, "error", err)
		}
	}

	return user, nil
}
