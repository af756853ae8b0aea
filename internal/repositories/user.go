package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/builderhome/backend/internal/logger"
	"github.com/builderhome/backend/internal/middlewares"
	"github.com/builderhome/backend/internal/models"
)

const userColumns = `id, username, email, role, password_hash,
	password_changed_at, password_reset_token, password_reset_expires_at,
	created_at, updated_at`

// UserReadRepository provides point lookups over the users table.
type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByID returns the user with the given id, or nil when absent.
func (r *UserReadRepository) GetByID(ctx context.Context, id int64) (*models.UserDB, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, id)

	logger.Log.Infow("user lookup",
		"query", strings.Join(strings.Fields(query), " "),
		"id", id,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns the user with the given email, or nil when absent.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, email)

	logger.Log.Infow("user lookup",
		"query", strings.Join(strings.Fields(query), " "),
		"email", email,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsernameOrEmail returns the first user matching either value. A nil
// argument skips that column. Used by the signup uniqueness pre-check.
func (r *UserReadRepository) GetByUsernameOrEmail(ctx context.Context, username, email *string) (*models.UserDB, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE ($1::VARCHAR IS NOT NULL AND username = $1)
		   OR ($2::VARCHAR IS NOT NULL AND email = $2)
		LIMIT 1`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, username, email)

	logger.Log.Infow("user lookup",
		"query", strings.Join(strings.Fields(query), " "),
		"username", username,
		"email", email,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByResetTokenHash returns the user holding an unexpired reset token with
// the given hash, or nil. Expired and unknown hashes are indistinguishable.
func (r *UserReadRepository) GetByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*models.UserDB, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE password_reset_token = $1 AND password_reset_expires_at > $2
		LIMIT 1`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, tokenHash, now)

	logger.Log.Infow("reset token lookup",
		"query", strings.Join(strings.Fields(query), " "),
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetArchitects lists users with the architect role together with their
// profile rows.
func (r *UserReadRepository) GetArchitects(ctx context.Context) ([]models.UserWithInfo, error) {
	query := `SELECT u.id, u.username, u.email, u.role, u.password_hash,
			u.password_changed_at, u.password_reset_token, u.password_reset_expires_at,
			u.created_at, u.updated_at,
			ui.linkedin, ui.instagram, ui.rating
		FROM users u
		LEFT JOIN user_information ui ON u.id = ui.user_id
		WHERE u.role = $1
		ORDER BY u.id`

	var users []models.UserWithInfo
	err := r.db.SelectContext(ctx, &users, query, "architect")

	logger.Log.Infow("architect listing",
		"query", strings.Join(strings.Fields(query), " "),
		"count", len(users),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return users, nil
}

// GetWithInfoByID returns the user joined with its profile row, or nil.
func (r *UserReadRepository) GetWithInfoByID(ctx context.Context, id int64) (*models.UserWithInfo, error) {
	query := `SELECT u.id, u.username, u.email, u.role, u.password_hash,
			u.password_changed_at, u.password_reset_token, u.password_reset_expires_at,
			u.created_at, u.updated_at,
			ui.linkedin, ui.instagram, ui.rating
		FROM users u
		LEFT JOIN user_information ui ON u.id = ui.user_id
		WHERE u.id = $1
		LIMIT 1`

	var user models.UserWithInfo
	err := r.db.GetContext(ctx, &user, query, id)

	logger.Log.Infow("user detail lookup",
		"query", strings.Join(strings.Fields(query), " "),
		"id", id,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UserWriteRepository performs mutations on the users and user_information
// tables. Every method runs a single statement; when the request carries a
// transaction in its context, statements join it.
type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

func (r *UserWriteRepository) ext(ctx context.Context) sqlx.ExtContext {
	if tx := middlewares.GetTxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Save inserts a new user together with an empty profile row and returns the
// assigned id. The CTE keeps the two inserts in one atomic statement.
func (r *UserWriteRepository) Save(ctx context.Context, username, email, passwordHash, role string) (int64, error) {
	query := `WITH u AS (
			INSERT INTO users (username, email, password_hash, role, created_at, updated_at)
			VALUES ($1, $2, $3, $4, NOW(), NOW())
			RETURNING id
		)
		INSERT INTO user_information (user_id)
		SELECT id FROM u
		RETURNING user_id`

	var id int64
	err := sqlx.GetContext(ctx, r.ext(ctx), &id, query, username, email, passwordHash, role)

	logger.Log.Infow("user insert",
		"query", strings.Join(strings.Fields(query), " "),
		"username", username,
		"email", email,
		"role", role,
		"error", err,
	)

	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdatePassword replaces the credential, clears any outstanding reset state
// and stamps password_changed_at, all in one statement.
func (r *UserWriteRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string, changedAt time.Time) error {
	query := `UPDATE users
		SET password_hash = $1,
		    password_reset_token = NULL,
		    password_reset_expires_at = NULL,
		    password_changed_at = $2,
		    updated_at = NOW()
		WHERE id = $3`

	_, err := r.ext(ctx).ExecContext(ctx, query, passwordHash, changedAt, id)

	logger.Log.Infow("password update",
		"query", strings.Join(strings.Fields(query), " "),
		"id", id,
		"error", err,
	)

	return err
}

// SetResetToken stores the hash and expiry of a new reset secret,
// overwriting any prior reset state for the user.
func (r *UserWriteRepository) SetResetToken(ctx context.Context, id int64, tokenHash string, expiresAt time.Time) error {
	query := `UPDATE users
		SET password_reset_token = $1,
		    password_reset_expires_at = $2,
		    updated_at = NOW()
		WHERE id = $3`

	_, err := r.ext(ctx).ExecContext(ctx, query, tokenHash, expiresAt, id)

	logger.Log.Infow("reset token set",
		"query", strings.Join(strings.Fields(query), " "),
		"id", id,
		"expires_at", expiresAt,
		"error", err,
	)

	return err
}

// ClearResetToken drops both reset fields. Used when the reset mail could
// not be delivered.
func (r *UserWriteRepository) ClearResetToken(ctx context.Context, id int64) error {
	query := `UPDATE users
		SET password_reset_token = NULL,
		    password_reset_expires_at = NULL,
		    updated_at = NOW()
		WHERE id = $1`

	_, err := r.ext(ctx).ExecContext(ctx, query, id)

	logger.Log.Infow("reset token clear",
		"query", strings.Join(strings.Fields(query), " "),
		"id", id,
		"error", err,
	)

	return err
}

// UpdateAccount changes the username and email of a user.
func (r *UserWriteRepository) UpdateAccount(ctx context.Context, id int64, username, email string) error {
	query := `UPDATE users
		SET username = $1, email = $2, updated_at = NOW()
		WHERE id = $3`

	_, err := r.ext(ctx).ExecContext(ctx, query, username, email, id)

	logger.Log.Infow("account update",
		"query", strings.Join(strings.Fields(query), " "),
		"id", id,
		"username", username,
		"email", email,
		"error", err,
	)

	return err
}

// UpdateInfo applies the non-nil fields of upd to the user's profile row.
// Column names come from the fixed allow-list here, never from the request,
// and values always go through placeholders. A fully nil update is a no-op.
func (r *UserWriteRepository) UpdateInfo(ctx context.Context, id int64, upd models.UserInfoUpdate) error {
	var set []string
	var args []interface{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.LinkedIn != nil {
		add("linkedin", *upd.LinkedIn)
	}
	if upd.Instagram != nil {
		add("instagram", *upd.Instagram)
	}
	if upd.Rating != nil {
		add("rating", *upd.Rating)
	}

	if len(set) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE user_information SET %s WHERE user_id = $%d`,
		strings.Join(set, ", "), len(args))

	_, err := r.ext(ctx).ExecContext(ctx, query, args...)

	logger.Log.Infow("profile update",
		"query", query,
		"id", id,
		"fields", len(set),
		"error", err,
	)

	return err
}

// Delete removes the user's profile row and the user row. The delete route
// wraps the request in a transaction so both go away together.
func (r *UserWriteRepository) Delete(ctx context.Context, id int64) error {
	ext := r.ext(ctx)

	queries := []string{
		`DELETE FROM user_information WHERE user_id = $1`,
		`DELETE FROM users WHERE id = $1`,
	}

	for _, query := range queries {
		if _, err := ext.ExecContext(ctx, query, id); err != nil {
			logger.Log.Errorw("user delete failed",
				"query", query,
				"id", id,
				"error", err,
			)
			return err
		}
	}

	logger.Log.Infow("user deleted", "id", id)
	return nil
}
