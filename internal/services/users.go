package services

import (
	"context"

	"github.com/builderhome/backend/internal/logger"
	"github.com/builderhome/backend/internal/models"
)

// UserListReader defines the reads the profile service needs.
type UserListReader interface {
	GetByID(ctx context.Context, id int64) (*models.UserDB, error)
	GetArchitects(ctx context.Context) ([]models.UserWithInfo, error)
	GetWithInfoByID(ctx context.Context, id int64) (*models.UserWithInfo, error)
}

// ProfileWriter defines the profile and account mutations.
type ProfileWriter interface {
	UpdateAccount(ctx context.Context, id int64, username, email string) error
	UpdateInfo(ctx context.Context, id int64, upd models.UserInfoUpdate) error
	Delete(ctx context.Context, id int64) error
}

// UserService handles the user listing, detail, profile-update and deletion
// operations.
type UserService struct {
	reader UserListReader
	writer ProfileWriter
	cache  UserCache
}

// NewUserService creates a new UserService. cache may be nil.
func NewUserService(reader UserListReader, writer ProfileWriter, cache UserCache) *UserService {
	return &UserService{
		reader: reader,
		writer: writer,
		cache:  cache,
	}
}

func (s *UserService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		logger.Log.Errorw("failed to invalidate user cache", "user_id", userID, "error", err)
	}
}

// ListArchitects returns all users carrying the architect role.
func (s *UserService) ListArchitects(ctx context.Context) ([]models.UserWithInfo, error) {
	return s.reader.GetArchitects(ctx)
}

// GetUser returns a user with its profile row.
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.UserWithInfo, error) {
	user, err := s.reader.GetWithInfoByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile updates the account columns and the allow-listed profile
// fields of a user.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, username, email string, upd models.UserInfoUpdate) error {
	user, err := s.reader.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if username == "" {
		username = user.Username
	}
	if email == "" {
		email = user.Email
	}

	if err := s.writer.UpdateAccount(ctx, id, username, email); err != nil {
		logger.Log.Errorw("failed to update account", "user_id", id, "error", err)
		return err
	}

	if err := s.writer.UpdateInfo(ctx, id, upd); err != nil {
		logger.Log.Errorw("failed to update profile", "user_id", id, "error", err)
		return err
	}

	s.invalidateCache(ctx, id)
	return nil
}

// DeleteUser removes the account. Project and image cleanup belongs to the
// project collaborator.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.writer.Delete(ctx, id); err != nil {
		logger.Log.Errorw("failed to delete user", "user_id", id, "error", err)
		return err
	}

	s.invalidateCache(ctx, id)
	return nil
}
