package services

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/builderhome/backend/internal/models"
)

func TestUserService_GetUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reader := NewMockUserListReader(ctrl)
	svc := NewUserService(reader, NewMockProfileWriter(ctrl), nil)

	t.Run("user found", func(t *testing.T) {
		reader.EXPECT().
			GetWithInfoByID(gomock.Any(), int64(1)).
			Return(&models.UserWithInfo{UserDB: models.UserDB{ID: 1, Username: "gary"}}, nil)

		user, err := svc.GetUser(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "gary", user.Username)
	})

	t.Run("unknown user", func(t *testing.T) {
		reader.EXPECT().GetWithInfoByID(gomock.Any(), int64(42)).Return(nil, nil)

		_, err := svc.GetUser(context.Background(), 42)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	current := &models.UserDB{ID: 1, Username: "gary", Email: "gary@example.com"}
	linkedin := "in/gary"

	t.Run("empty account fields keep current values", func(t *testing.T) {
		reader := NewMockUserListReader(ctrl)
		writer := NewMockProfileWriter(ctrl)
		cache := NewMockUserCache(ctrl)
		svc := NewUserService(reader, writer, cache)

		upd := models.UserInfoUpdate{LinkedIn: &linkedin}

		reader.EXPECT().GetByID(gomock.Any(), int64(1)).Return(current, nil)
		writer.EXPECT().UpdateAccount(gomock.Any(), int64(1), "gary", "gary@example.com").Return(nil)
		writer.EXPECT().UpdateInfo(gomock.Any(), int64(1), upd).Return(nil)
		cache.EXPECT().Invalidate(gomock.Any(), int64(1)).Return(nil)

		require.NoError(t, svc.UpdateProfile(context.Background(), 1, "", "", upd))
	})

	t.Run("account fields overwrite", func(t *testing.T) {
		reader := NewMockUserListReader(ctrl)
		writer := NewMockProfileWriter(ctrl)
		svc := NewUserService(reader, writer, nil)

		reader.EXPECT().GetByID(gomock.Any(), int64(1)).Return(current, nil)
		writer.EXPECT().UpdateAccount(gomock.Any(), int64(1), "garry", "garry@example.com").Return(nil)
		writer.EXPECT().UpdateInfo(gomock.Any(), int64(1), models.UserInfoUpdate{}).Return(nil)

		require.NoError(t, svc.UpdateProfile(context.Background(), 1, "garry", "garry@example.com", models.UserInfoUpdate{}))
	})

	t.Run("unknown user", func(t *testing.T) {
		reader := NewMockUserListReader(ctrl)
		svc := NewUserService(reader, NewMockProfileWriter(ctrl), nil)

		reader.EXPECT().GetByID(gomock.Any(), int64(42)).Return(nil, nil)

		err := svc.UpdateProfile(context.Background(), 42, "x", "x@example.com", models.UserInfoUpdate{})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("delete invalidates the cache", func(t *testing.T) {
		writer := NewMockProfileWriter(ctrl)
		cache := NewMockUserCache(ctrl)
		svc := NewUserService(NewMockUserListReader(ctrl), writer, cache)

		writer.EXPECT().Delete(gomock.Any(), int64(1)).Return(nil)
		cache.EXPECT().Invalidate(gomock.Any(), int64(1)).Return(nil)

		require.NoError(t, svc.DeleteUser(context.Background(), 1))
	})

	t.Run("store failure propagates", func(t *testing.T) {
		writer := NewMockProfileWriter(ctrl)
		svc := NewUserService(NewMockUserListReader(ctrl), writer, nil)

		writer.EXPECT().Delete(gomock.Any(), int64(1)).Return(errors.New("db down"))

		assert.Error(t, svc.DeleteUser(context.Background(), 1))
	})
}
