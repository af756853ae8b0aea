package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/builderhome/backend/internal/models"
)

func setupRedisContainer(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	}

	container, err := tc.GenericContainer(context.Background(), tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(context.Background()) })

	host, _ := container.Host(context.Background())
	port, _ := container.MappedPort(context.Background(), "6379")

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%d", host, port.Int())})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() { client.Close() })

	return client
}

func TestUserCacheRepository(t *testing.T) {
	client := setupRedisContainer(t)
	repo := NewUserCacheRepository(client, time.Minute)
	ctx := context.Background()

	resetToken := "somesha256hash"
	user := &models.UserDB{
		ID:                 1,
		Username:           "gary",
		Email:              "gary@example.com",
		Role:               "user",
		PasswordHash:       "$2a$12$secret",
		PasswordResetToken: &resetToken,
	}

	t.Run("miss returns nil", func(t *testing.T) {
		got, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("roundtrip strips secrets", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, user))

		got, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "gary", got.Username)

		// The cached copy goes through JSON tags: the hash and reset state
		// never reach Redis.
		assert.Empty(t, got.PasswordHash)
		assert.Nil(t, got.PasswordResetToken)

		raw, err := client.Get(ctx, "user:1").Result()
		require.NoError(t, err)
		assert.NotContains(t, raw, "$2a$12$secret")
		assert.NotContains(t, raw, resetToken)
	})

	t.Run("invalidate drops the entry", func(t *testing.T) {
		require.NoError(t, repo.Invalidate(ctx, 1))

		got, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
