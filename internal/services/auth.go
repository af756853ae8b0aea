package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/builderhome/backend/internal/logger"
	"github.com/builderhome/backend/internal/models"
	"github.com/builderhome/backend/internal/password"
	"github.com/builderhome/backend/internal/resettoken"
)

// Error variables. Handlers map these to status codes and the exact outward
// messages; lookups that must not leak account existence share one error.
var (
	ErrMissingCredentials   = errors.New("email or password missing")
	ErrInvalidCredentials   = errors.New("incorrect email or password")
	ErrNoUserWithEmail      = errors.New("no user with that email address")
	ErrEmailDelivery        = errors.New("error sending the reset email")
	ErrResetTokenInvalid    = errors.New("reset token is invalid or has expired")
	ErrPasswordMismatch     = errors.New("password confirmation does not match password")
	ErrOldPasswordIncorrect = errors.New("old password is incorrect")
	ErrUserNotFound         = errors.New("user not found")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByID(ctx context.Context, id int64) (*models.UserDB, error)
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
	GetByUsernameOrEmail(ctx context.Context, username, email *string) (*models.UserDB, error)
	GetByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, username, email, passwordHash, role string) (int64, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string, changedAt time.Time) error
	SetResetToken(ctx context.Context, id int64, tokenHash string, expiresAt time.Time) error
	ClearResetToken(ctx context.Context, id int64) error
}

// JWTGenerator defines an interface for issuing bearer tokens.
type JWTGenerator interface {
	Generate(ctx context.Context, userID int64) (string, error)
}

// EmailSender delivers transactional mail. Failure propagates to the caller.
type EmailSender interface {
	Send(ctx context.Context, to, subject, message string) error
}

// UserCache invalidates cached user records after mutations.
type UserCache interface {
	Invalidate(ctx context.Context, id int64) error
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// AuthService orchestrates credential issuance and the password lifecycle.
type AuthService struct {
	reader UserReader
	writer UserWriter
	jwt    JWTGenerator

	email        EmailSender
	cache        UserCache
	kafkaWriter  KafkaWriter
	hashCost     int
	resetTTL     time.Duration
	resetURLBase string
	now          func() time.Time
}

// AuthOpt configures an AuthService.
type AuthOpt func(*AuthService)

// WithEmailSender sets the mail collaborator used by ForgotPassword.
func WithEmailSender(email EmailSender) AuthOpt {
	return func(s *AuthService) { s.email = email }
}

// WithUserCache sets the cache invalidated on password mutations.
func WithUserCache(cache UserCache) AuthOpt {
	return func(s *AuthService) { s.cache = cache }
}

// WithKafkaWriter sets the writer for best-effort auth events.
func WithKafkaWriter(w KafkaWriter) AuthOpt {
	return func(s *AuthService) { s.kafkaWriter = w }
}

// WithHashCost overrides the bcrypt work factor.
func WithHashCost(cost int) AuthOpt {
	return func(s *AuthService) { s.hashCost = cost }
}

// WithResetTTL overrides the reset-secret lifetime.
func WithResetTTL(ttl time.Duration) AuthOpt {
	return func(s *AuthService) { s.resetTTL = ttl }
}

// WithResetURLBase sets the base URL embedded in reset mail.
func WithResetURLBase(base string) AuthOpt {
	return func(s *AuthService) { s.resetURLBase = base }
}

// WithNow fixes the clock, for tests.
func WithNow(now func() time.Time) AuthOpt {
	return func(s *AuthService) { s.now = now }
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter, jwt JWTGenerator, opts ...AuthOpt) *AuthService {
	s := &AuthService{
		reader:       reader,
		writer:       writer,
		jwt:          jwt,
		hashCost:     password.DefaultCost,
		resetTTL:     resettoken.TTL,
		resetURLBase: "http://localhost:3000/reset_password",
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// publishAuthEvent publishes an auth lifecycle event to Kafka, best effort.
func (s *AuthService) publishAuthEvent(ctx context.Context, event string, userID int64) {
	if s.kafkaWriter == nil {
		return
	}

	data, err := json.Marshal(map[string]interface{}{
		"event":     event,
		"user_id":   userID,
		"timestamp": s.now().Unix(),
	})
	if err != nil {
		logger.Log.Errorw("failed to marshal auth event", "event", event, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(userID, 10)),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish auth event", "event", event, "user_id", userID, "error", err)
	}
}

func (s *AuthService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		logger.Log.Errorw("failed to invalidate user cache", "user_id", userID, "error", err)
	}
}

// Signup creates a new account and immediately issues a token for it.
// Validation (uniqueness, password length, confirmation) runs upstream in
// ValidateSignup; the confirmation field never reaches this method.
func (s *AuthService) Signup(ctx context.Context, username, email, plainPassword, role string) (string, *models.UserDB, error) {
	hash, err := password.Hash(plainPassword, s.hashCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "error", err)
		return "", nil, err
	}

	id, err := s.writer.Save(ctx, username, email, hash, role)
	if err != nil {
		logger.Log.Errorw("failed to save user", "username", username, "error", err)
		return "", nil, err
	}

	token, err := s.jwt.Generate(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "user_id", id, "error", err)
		return "", nil, err
	}

	user, err := s.reader.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to load created user", "user_id", id, "error", err)
		return "", nil, err
	}

	s.publishAuthEvent(ctx, "user_registered", id)

	return token, user, nil
}

// Login authenticates by email and password and returns a token with the
// user record. Unknown email and wrong password collapse into one error.
func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (string, *models.UserDB, error) {
	if email == "" || plainPassword == "" {
		return "", nil, ErrMissingCredentials
	}

	user, err := s.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to get user", "error", err)
		return "", nil, err
	}
	if user == nil || !password.Compare(plainPassword, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwt.Generate(ctx, user.ID)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "user_id", user.ID, "error", err)
		return "", nil, err
	}

	return token, user, nil
}

// ForgotPassword creates a reset secret for the account, overwriting any
// prior one, and mails a reset link. When the mail cannot be delivered the
// secret is undeliverable, so the reset state is rolled back.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to get user", "error", err)
		return err
	}
	if user == nil {
		return ErrNoUserWithEmail
	}

	secret, tokenHash, err := resettoken.NewSecret()
	if err != nil {
		logger.Log.Errorw("failed to generate reset secret", "error", err)
		return err
	}

	expiresAt := s.now().Add(s.resetTTL)
	if err := s.writer.SetResetToken(ctx, user.ID, tokenHash, expiresAt); err != nil {
		logger.Log.Errorw("failed to store reset token", "user_id", user.ID, "error", err)
		return err
	}

	resetURL := fmt.Sprintf("%s/%s", s.resetURLBase, secret)
	message := fmt.Sprintf(
		"Forgot Your Password? Submit a Request with your new Password and password confirmation to: %s\nIf You didn't forget your password, please ignore this email",
		resetURL,
	)

	if err := s.email.Send(ctx, user.Email, "Your password reset token (Valid for 10min)", message); err != nil {
		// The secret never reached the user; best-effort rollback.
		if clearErr := s.writer.ClearResetToken(ctx, user.ID); clearErr != nil {
			logger.Log.Errorw("failed to clear reset token after send failure", "user_id", user.ID, "error", clearErr)
		}
		return ErrEmailDelivery
	}

	return nil
}

// ValidateResetToken resolves a plaintext reset secret to its user. Wrong
// and expired secrets are indistinguishable to the caller.
func (s *AuthService) ValidateResetToken(ctx context.Context, secret string) (*models.UserDB, error) {
	tokenHash := resettoken.HashSecret(secret)

	user, err := s.reader.GetByResetTokenHash(ctx, tokenHash, s.now())
	if err != nil {
		logger.Log.Errorw("failed to look up reset token", "error", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrResetTokenInvalid
	}

	return user, nil
}

// ResetPassword consumes a reset secret: it replaces the credential, clears
// the reset state in the same statement, and issues a fresh token.
func (s *AuthService) ResetPassword(ctx context.Context, secret, plainPassword, confirmation string) (string, error) {
	user, err := s.ValidateResetToken(ctx, secret)
	if err != nil {
		return "", err
	}

	if plainPassword != confirmation {
		return "", ErrPasswordMismatch
	}

	hash, err := password.Hash(plainPassword, s.hashCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "error", err)
		return "", err
	}

	if err := s.writer.UpdatePassword(ctx, user.ID, hash, s.now()); err != nil {
		logger.Log.Errorw("failed to update password", "user_id", user.ID, "error", err)
		return "", err
	}

	s.invalidateCache(ctx, user.ID)
	s.publishAuthEvent(ctx, "password_changed", user.ID)

	token, err := s.jwt.Generate(ctx, user.ID)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "user_id", user.ID, "error", err)
		return "", err
	}

	return token, nil
}

// ChangePassword replaces the credential of an authenticated user after
// verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword, confirmation string) (string, error) {
	user, err := s.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "user_id", userID, "error", err)
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	if !password.Compare(oldPassword, user.PasswordHash) {
		return "", ErrOldPasswordIncorrect
	}

	if newPassword != confirmation {
		return "", ErrPasswordMismatch
	}

	hash, err := password.Hash(newPassword, s.hashCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "error", err)
		return "", err
	}

	if err := s.writer.UpdatePassword(ctx, user.ID, hash, s.now()); err != nil {
		logger.Log.Errorw("failed to update password", "user_id", user.ID, "error", err)
		return "", err
	}

	s.invalidateCache(ctx, user.ID)
	s.publishAuthEvent(ctx, "password_changed", user.ID)

	token, err := s.jwt.Generate(ctx, user.ID)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "user_id", user.ID, "error", err)
		return "", err
	}

	return token, nil
}
