package redis_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/dukex/flowcheck/pkg/cache/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) (*redis.Cache, context.Context) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping Redis container test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	t.Cleanup(cancel)

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	testcontainers.CleanupContainer(t, container)

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	c, err := redis.NewCache(ctx, slog.Default(), fmt.Sprintf("redis://%s/0", endpoint))
	require.NoError(t, err)

	t.Cleanup(func() { _ = c.Close() })

	return c, ctx
}

func TestCache_SetGet(t *testing.T) {
	c, ctx := setupRedis(t)

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "report", []byte(`{"score":100}`), time.Minute))

	value, ok, err := c.Get(ctx, "report")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"score":100}`, string(value))
}

func TestNewCache_InvalidURL(t *testing.T) {
	_, err := redis.NewCache(context.Background(), slog.Default(), "not-a-url")

	assert.ErrorContains(t, err, "invalid redis url")
}
