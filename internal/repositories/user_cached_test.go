package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/builderhome/backend/internal/models"
)

func TestCachedUserReader_GetByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{ID: 1, Username: "gary"}

	t.Run("cache hit skips the store", func(t *testing.T) {
		cache := NewMockuserCacheStore(ctrl)
		store := NewMockuserStoreReader(ctrl)

		cache.EXPECT().GetByID(gomock.Any(), int64(1)).Return(user, nil)

		got, err := NewCachedUserReader(cache, store).GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("cache miss falls back and populates", func(t *testing.T) {
		cache := NewMockuserCacheStore(ctrl)
		store := NewMockuserStoreReader(ctrl)

		cache.EXPECT().GetByID(gomock.Any(), int64(1)).Return(nil, nil)
		store.EXPECT().GetByID(gomock.Any(), int64(1)).Return(user, nil)
		cache.EXPECT().Set(gomock.Any(), user).Return(nil)

		got, err := NewCachedUserReader(cache, store).GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("cache failure degrades to the store", func(t *testing.T) {
		cache := NewMockuserCacheStore(ctrl)
		store := NewMockuserStoreReader(ctrl)

		cache.EXPECT().GetByID(gomock.Any(), int64(1)).Return(nil, errors.New("redis down"))
		store.EXPECT().GetByID(gomock.Any(), int64(1)).Return(user, nil)
		cache.EXPECT().Set(gomock.Any(), user).Return(errors.New("redis down"))

		got, err := NewCachedUserReader(cache, store).GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("absent user is not cached", func(t *testing.T) {
		cache := NewMockuserCacheStore(ctrl)
		store := NewMockuserStoreReader(ctrl)

		cache.EXPECT().GetByID(gomock.Any(), int64(42)).Return(nil, nil)
		store.EXPECT().GetByID(gomock.Any(), int64(42)).Return(nil, nil)

		got, err := NewCachedUserReader(cache, store).GetByID(context.Background(), 42)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		cache := NewMockuserCacheStore(ctrl)
		store := NewMockuserStoreReader(ctrl)

		cache.EXPECT().GetByID(gomock.Any(), int64(1)).Return(nil, nil)
		store.EXPECT().GetByID(gomock.Any(), int64(1)).Return(nil, errors.New("db down"))

		_, err := NewCachedUserReader(cache, store).GetByID(context.Background(), 1)
		assert.Error(t, err)
	})
}
