package repositories

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/builderhome/backend/internal/middlewares"
	"github.com/builderhome/backend/internal/models"
)

var userRowColumns = []string{
	"id", "username", "email", "role", "password_hash",
	"password_changed_at", "password_reset_token", "password_reset_expires_at",
	"created_at", "updated_at",
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func userRow(mock sqlmock.Sqlmock, id int64, username, email string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(userRowColumns).
		AddRow(id, username, email, "user", "$2a$12$hash", nil, nil, nil, now, now)
}

func TestUserReadRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserReadRepository(db)

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = ?").
			WithArgs(int64(1)).
			WillReturnRows(userRow(mock, 1, "gary", "gary@example.com"))

		user, err := repo.GetByID(context.Background(), 1)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "gary", user.Username)
	})

	t.Run("absent", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = ?").
			WithArgs(int64(42)).
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetByID(context.Background(), 42)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserReadRepository_GetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserReadRepository(db)

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email = ?").
			WithArgs("gary@example.com").
			WillReturnRows(userRow(mock, 1, "gary", "gary@example.com"))

		user, err := repo.GetByEmail(context.Background(), "gary@example.com")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, int64(1), user.ID)
	})

	t.Run("absent", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email = ?").
			WithArgs("nobody@example.com").
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetByEmail(context.Background(), "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserReadRepository_GetByResetTokenHash(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserReadRepository(db)

	now := time.Now()

	t.Run("unexpired token resolves", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE password_reset_token = (.+) AND password_reset_expires_at > (.+)").
			WithArgs("somesha256hash", now).
			WillReturnRows(userRow(mock, 3, "gary", "gary@example.com"))

		user, err := repo.GetByResetTokenHash(context.Background(), "somesha256hash", now)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, int64(3), user.ID)
	})

	// The query filters expired tokens, so expired and unknown hashes both
	// come back as no rows.
	t.Run("expired or unknown token", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE password_reset_token = (.+) AND password_reset_expires_at > (.+)").
			WithArgs("expiredhash", now).
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetByResetTokenHash(context.Background(), "expiredhash", now)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserReadRepository_GetArchitects(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserReadRepository(db)

	now := time.Now()
	columns := append(append([]string{}, userRowColumns...), "linkedin", "instagram", "rating")
	rows := sqlmock.NewRows(columns).
		AddRow(1, "gary", "gary@example.com", "architect", "$2a$12$hash", nil, nil, nil, now, now, "in/gary", nil, 4.5).
		AddRow(2, "ann", "ann@example.com", "architect", "$2a$12$hash", nil, nil, nil, now, now, nil, nil, nil)

	mock.ExpectQuery("SELECT (.+) FROM users u LEFT JOIN user_information ui ON (.+) WHERE u.role = ?").
		WithArgs("architect").
		WillReturnRows(rows)

	users, err := repo.GetArchitects(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "gary", users[0].Username)
	require.NotNil(t, users[0].LinkedIn)
	assert.Equal(t, "in/gary", *users[0].LinkedIn)
	assert.Nil(t, users[1].LinkedIn)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepository_Save(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)

	mock.ExpectQuery("WITH u AS (.+) INSERT INTO user_information (.+) RETURNING user_id$").
		WithArgs("gary", "gary@example.com", "$2a$12$hash", "user").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(7)))

	id, err := repo.Save(context.Background(), "gary", "gary@example.com", "$2a$12$hash", "user")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepository_UpdatePassword(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)

	changedAt := time.Now()

	// One statement replaces the hash, clears the reset state and stamps
	// password_changed_at.
	mock.ExpectExec("UPDATE users SET password_hash = (.+) password_reset_token = NULL, (.+) password_changed_at = (.+) WHERE id = ?").
		WithArgs("$2a$12$newhash", changedAt, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdatePassword(context.Background(), 3, "$2a$12$newhash", changedAt)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepository_ResetTokenLifecycle(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)

	expiresAt := time.Now().Add(10 * time.Minute)

	mock.ExpectExec("UPDATE users SET password_reset_token = (.+) password_reset_expires_at = (.+) WHERE id = ?").
		WithArgs("somesha256hash", expiresAt, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetResetToken(context.Background(), 3, "somesha256hash", expiresAt))

	mock.ExpectExec("UPDATE users SET password_reset_token = NULL, (.+) WHERE id = ?").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ClearResetToken(context.Background(), 3))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepository_UpdateInfo(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)

	linkedin := "in/gary"
	rating := 4.5

	t.Run("builds only the allow-listed columns", func(t *testing.T) {
		mock.ExpectExec(`UPDATE user_information SET linkedin = \$1, rating = \$2 WHERE user_id = \$3`).
			WithArgs("in/gary", 4.5, int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateInfo(context.Background(), 1, models.UserInfoUpdate{
			LinkedIn: &linkedin,
			Rating:   &rating,
		})
		require.NoError(t, err)
	})

	t.Run("all-nil update is a no-op", func(t *testing.T) {
		err := repo.UpdateInfo(context.Background(), 1, models.UserInfoUpdate{})
		require.NoError(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepository_DeleteJoinsRequestTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM user_information WHERE user_id = ?").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM users WHERE id = ?").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, repo.Delete(r.Context(), 1))
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodDelete, "/1", nil)
	w := httptest.NewRecorder()

	middlewares.TxMiddleware(db)(handler).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
