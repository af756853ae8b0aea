package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/builderhome/backend/internal/logger"
	"github.com/builderhome/backend/internal/models"
)

// UserCacheRepository caches user records in Redis for the auth middleware.
// The cached copy goes through the JSON tags of UserDB, so it never carries
// the password hash or reset-token state. Every password, profile or delete
// mutation invalidates the entry.
type UserCacheRepository struct {
	client *redis.Client
	exp    time.Duration
}

// NewUserCacheRepository creates a new cache repository with the given TTL.
func NewUserCacheRepository(client *redis.Client, expiration time.Duration) *UserCacheRepository {
	return &UserCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func userCacheKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

// GetByID returns the cached user, or nil on a miss.
func (r *UserCacheRepository) GetByID(ctx context.Context, id int64) (*models.UserDB, error) {
	key := userCacheKey(id)

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		logger.Log.Errorw("user cache get failed", "key", key, "error", err)
		return nil, err
	}

	var user models.UserDB
	if err := json.Unmarshal([]byte(val), &user); err != nil {
		logger.Log.Errorw("user cache decode failed", "key", key, "error", err)
		return nil, err
	}

	return &user, nil
}

// Set stores the user under its id with the configured TTL.
func (r *UserCacheRepository) Set(ctx context.Context, user *models.UserDB) error {
	key := userCacheKey(user.ID)

	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, key, data, r.exp).Err()

	logger.Log.Infow("user cache set", "key", key, "error", err)
	return err
}

// Invalidate drops the cached entry for the user.
func (r *UserCacheRepository) Invalidate(ctx context.Context, id int64) error {
	key := userCacheKey(id)
	err := r.client.Del(ctx, key).Err()

	logger.Log.Infow("user cache invalidate", "key", key, "error", err)
	return err
}
