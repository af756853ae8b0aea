package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/builderhome/backend/internal/models"
	"github.com/builderhome/backend/internal/password"
	"github.com/builderhome/backend/internal/resettoken"
)

const testHashCost = 4

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestAuthService(t *testing.T, ctrl *gomock.Controller, opts ...AuthOpt) (*AuthService, *MockUserReader, *MockUserWriter, *MockJWTGenerator) {
	t.Helper()

	reader := NewMockUserReader(ctrl)
	writer := NewMockUserWriter(ctrl)
	jwtGen := NewMockJWTGenerator(ctrl)

	base := []AuthOpt{
		WithHashCost(testHashCost),
		WithNow(func() time.Time { return fixedNow }),
	}
	svc := NewAuthService(reader, writer, jwtGen, append(base, opts...)...)
	return svc, reader, writer, jwtGen
}

func TestAuthService_Signup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, reader, writer, jwtGen := newTestAuthService(t, ctrl)

	writer.EXPECT().
		Save(gomock.Any(), "gary", "gary@example.com", gomock.Any(), "user").
		DoAndReturn(func(_ context.Context, _, _, hash, _ string) (int64, error) {
			assert.True(t, password.Compare("longenough1", hash))
			return int64(7), nil
		})
	jwtGen.EXPECT().Generate(gomock.Any(), int64(7)).Return("jwt-token", nil)
	reader.EXPECT().GetByID(gomock.Any(), int64(7)).
		Return(&models.UserDB{ID: 7, Username: "gary", Email: "gary@example.com", Role: "user"}, nil)

	token, user, err := svc.Signup(context.Background(), "gary", "gary@example.com", "longenough1", "user")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
	assert.Equal(t, int64(7), user.ID)
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hash, err := password.Hash("longenough1", testHashCost)
	require.NoError(t, err)

	tests := []struct {
		name        string
		email       string
		password    string
		mockSetup   func(reader *MockUserReader, jwtGen *MockJWTGenerator)
		expectedErr error
	}{
		{
			name:     "successful login",
			email:    "gary@example.com",
			password: "longenough1",
			mockSetup: func(reader *MockUserReader, jwtGen *MockJWTGenerator) {
				reader.EXPECT().GetByEmail(gomock.Any(), "gary@example.com").
					Return(&models.UserDB{ID: 1, Email: "gary@example.com", PasswordHash: hash}, nil)
				jwtGen.EXPECT().Generate(gomock.Any(), int64(1)).Return("jwt-token", nil)
			},
		},
		{
			name:        "missing email",
			email:       "",
			password:    "longenough1",
			mockSetup:   func(*MockUserReader, *MockJWTGenerator) {},
			expectedErr: ErrMissingCredentials,
		},
		{
			name:        "missing password",
			email:       "gary@example.com",
			password:    "",
			mockSetup:   func(*MockUserReader, *MockJWTGenerator) {},
			expectedErr: ErrMissingCredentials,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "longenough1",
			mockSetup: func(reader *MockUserReader, _ *MockJWTGenerator) {
				reader.EXPECT().GetByEmail(gomock.Any(), "nobody@example.com").Return(nil, nil)
			},
			expectedErr: ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "gary@example.com",
			password: "wrongpassword",
			mockSetup: func(reader *MockUserReader, _ *MockJWTGenerator) {
				reader.EXPECT().GetByEmail(gomock.Any(), "gary@example.com").
					Return(&models.UserDB{ID: 1, Email: "gary@example.com", PasswordHash: hash}, nil)
			},
			expectedErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, reader, _, jwtGen := newTestAuthService(t, ctrl)
			tt.mockSetup(reader, jwtGen)

			token, user, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Empty(t, token)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "jwt-token", token)
			require.NotNil(t, user)
		})
	}
}

func TestAuthService_ForgotPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{ID: 3, Email: "gary@example.com"}

	t.Run("reset secret stored hashed and mailed in plaintext", func(t *testing.T) {
		svc, reader, writer, _ := newTestAuthService(t, ctrl)
		email := NewMockEmailSender(ctrl)
		WithEmailSender(email)(svc)

		var storedHash string
		reader.EXPECT().GetByEmail(gomock.Any(), "gary@example.com").Return(user, nil)
		writer.EXPECT().
			SetResetToken(gomock.Any(), int64(3), gomock.Any(), fixedNow.Add(resettoken.TTL)).
			DoAndReturn(func(_ context.Context, _ int64, tokenHash string, _ time.Time) error {
				storedHash = tokenHash
				return nil
			})
		email.EXPECT().
			Send(gomock.Any(), "gary@example.com", "Your password reset token (Valid for 10min)", gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _, message string) error {
				// The mail carries the plaintext secret; the store holds only its hash.
				parts := strings.Split(message, "/")
				secret := strings.Fields(parts[len(parts)-1])[0]
				assert.Equal(t, storedHash, resettoken.HashSecret(secret))
				assert.NotContains(t, message, storedHash)
				return nil
			})

		require.NoError(t, svc.ForgotPassword(context.Background(), "gary@example.com"))
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, reader, _, _ := newTestAuthService(t, ctrl)

		reader.EXPECT().GetByEmail(gomock.Any(), "nobody@example.com").Return(nil, nil)

		err := svc.ForgotPassword(context.Background(), "nobody@example.com")
		assert.ErrorIs(t, err, ErrNoUserWithEmail)
	})

	t.Run("delivery failure rolls the reset state back", func(t *testing.T) {
		svc, reader, writer, _ := newTestAuthService(t, ctrl)
		email := NewMockEmailSender(ctrl)
		WithEmailSender(email)(svc)

		reader.EXPECT().GetByEmail(gomock.Any(), "gary@example.com").Return(user, nil)
		writer.EXPECT().SetResetToken(gomock.Any(), int64(3), gomock.Any(), gomock.Any()).Return(nil)
		email.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("smtp down"))
		writer.EXPECT().ClearResetToken(gomock.Any(), int64(3)).Return(nil)

		err := svc.ForgotPassword(context.Background(), "gary@example.com")
		assert.ErrorIs(t, err, ErrEmailDelivery)
	})

	t.Run("a second request overwrites the first secret", func(t *testing.T) {
		svc, reader, writer, _ := newTestAuthService(t, ctrl)
		email := NewMockEmailSender(ctrl)
		WithEmailSender(email)(svc)

		var hashes []string
		reader.EXPECT().GetByEmail(gomock.Any(), "gary@example.com").Return(user, nil).Times(2)
		writer.EXPECT().
			SetResetToken(gomock.Any(), int64(3), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, tokenHash string, _ time.Time) error {
				hashes = append(hashes, tokenHash)
				return nil
			}).Times(2)
		email.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

		require.NoError(t, svc.ForgotPassword(context.Background(), "gary@example.com"))
		require.NoError(t, svc.ForgotPassword(context.Background(), "gary@example.com"))

		require.Len(t, hashes, 2)
		assert.NotEqual(t, hashes[0], hashes[1])
	})
}

func TestAuthService_ValidateResetToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("valid secret resolves the user", func(t *testing.T) {
		svc, reader, _, _ := newTestAuthService(t, ctrl)

		reader.EXPECT().
			GetByResetTokenHash(gomock.Any(), resettoken.HashSecret("aabbccdd"), fixedNow).
			Return(&models.UserDB{ID: 3}, nil)

		user, err := svc.ValidateResetToken(context.Background(), "aabbccdd")
		require.NoError(t, err)
		assert.Equal(t, int64(3), user.ID)
	})

	t.Run("wrong and expired secrets share one error", func(t *testing.T) {
		svc, reader, _, _ := newTestAuthService(t, ctrl)

		reader.EXPECT().
			GetByResetTokenHash(gomock.Any(), gomock.Any(), fixedNow).
			Return(nil, nil).Times(2)

		_, err := svc.ValidateResetToken(context.Background(), "wrongsecret")
		wrongErr := err
		_, err = svc.ValidateResetToken(context.Background(), "expiredsecret")
		assert.ErrorIs(t, wrongErr, ErrResetTokenInvalid)
		assert.Equal(t, wrongErr, err)
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{ID: 3, Email: "gary@example.com"}

	t.Run("successful reset", func(t *testing.T) {
		svc, reader, writer, jwtGen := newTestAuthService(t, ctrl)
		cache := NewMockUserCache(ctrl)
		WithUserCache(cache)(svc)

		reader.EXPECT().
			GetByResetTokenHash(gomock.Any(), resettoken.HashSecret("aabbccdd"), fixedNow).
			Return(user, nil)
		writer.EXPECT().
			UpdatePassword(gomock.Any(), int64(3), gomock.Any(), fixedNow).
			DoAndReturn(func(_ context.Context, _ int64, hash string, _ time.Time) error {
				assert.True(t, password.Compare("longenough2", hash))
				return nil
			})
		cache.EXPECT().Invalidate(gomock.Any(), int64(3)).Return(nil)
		jwtGen.EXPECT().Generate(gomock.Any(), int64(3)).Return("fresh-token", nil)

		token, err := svc.ResetPassword(context.Background(), "aabbccdd", "longenough2", "longenough2")
		require.NoError(t, err)
		assert.Equal(t, "fresh-token", token)
	})

	t.Run("invalid secret", func(t *testing.T) {
		svc, reader, _, _ := newTestAuthService(t, ctrl)

		reader.EXPECT().GetByResetTokenHash(gomock.Any(), gomock.Any(), fixedNow).Return(nil, nil)

		_, err := svc.ResetPassword(context.Background(), "deadbeef", "longenough2", "longenough2")
		assert.ErrorIs(t, err, ErrResetTokenInvalid)
	})

	t.Run("confirmation mismatch leaves the credential untouched", func(t *testing.T) {
		svc, reader, _, _ := newTestAuthService(t, ctrl)

		reader.EXPECT().GetByResetTokenHash(gomock.Any(), gomock.Any(), fixedNow).Return(user, nil)

		_, err := svc.ResetPassword(context.Background(), "aabbccdd", "longenough2", "different")
		assert.ErrorIs(t, err, ErrPasswordMismatch)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	oldHash, err := password.Hash("longenough1", testHashCost)
	require.NoError(t, err)
	user := &models.UserDB{ID: 5, PasswordHash: oldHash}

	t.Run("successful change", func(t *testing.T) {
		svc, reader, writer, jwtGen := newTestAuthService(t, ctrl)
		cache := NewMockUserCache(ctrl)
		WithUserCache(cache)(svc)

		reader.EXPECT().GetByID(gomock.Any(), int64(5)).Return(user, nil)
		writer.EXPECT().
			UpdatePassword(gomock.Any(), int64(5), gomock.Any(), fixedNow).
			Return(nil)
		cache.EXPECT().Invalidate(gomock.Any(), int64(5)).Return(nil)
		jwtGen.EXPECT().Generate(gomock.Any(), int64(5)).Return("fresh-token", nil)

		token, err := svc.ChangePassword(context.Background(), 5, "longenough1", "longenough2", "longenough2")
		require.NoError(t, err)
		assert.Equal(t, "fresh-token", token)
	})

	t.Run("wrong old password", func(t *testing.T) {
		svc, reader, _, _ := newTestAuthService(t, ctrl)

		reader.EXPECT().GetByID(gomock.Any(), int64(5)).Return(user, nil)

		_, err := svc.ChangePassword(context.Background(), 5, "wrongpassword", "longenough2", "longenough2")
		assert.ErrorIs(t, err, ErrOldPasswordIncorrect)
	})

	t.Run("confirmation mismatch", func(t *testing.T) {
		svc, reader, _, _ := newTestAuthService(t, ctrl)

		reader.EXPECT().GetByID(gomock.Any(), int64(5)).Return(user, nil)

		_, err := svc.ChangePassword(context.Background(), 5, "longenough1", "longenough2", "different")
		assert.ErrorIs(t, err, ErrPasswordMismatch)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, reader, _, _ := newTestAuthService(t, ctrl)

		reader.EXPECT().GetByID(gomock.Any(), int64(42)).Return(nil, nil)

		_, err := svc.ChangePassword(context.Background(), 42, "longenough1", "longenough2", "longenough2")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
