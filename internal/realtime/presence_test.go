//go:build integration

package realtime

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisPresenceStore(t *testing.T) {
	ctx := context.Background()
	client := setupRedisClient(t, ctx)
	presenceStore := NewRedisPresenceStore(client)

	statuses, err := presenceStore.Statuses(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, statuses)

	require.NoError(t, presenceStore.SetStatus(ctx, "driver-1", StatusOnline))
	require.NoError(t, presenceStore.SetStatus(ctx, "driver-2", StatusAway))
	require.NoError(t, presenceStore.SetStatus(ctx, "driver-2", StatusBusy))

	statuses, err = presenceStore.Statuses(ctx, []string{"driver-1", "driver-2", "driver-3"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"driver-1": "online",
		"driver-2": "busy",
		"driver-3": "offline",
	}, statuses)

	ttl, err := client.TTL(ctx, presenceKeyPrefix+"driver-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl.Seconds(), float64(0))

	require.NoError(t, presenceStore.SetStatus(ctx, "driver-1", StatusOffline))
	statuses, err = presenceStore.Statuses(ctx, []string{"driver-1"})
	require.NoError(t, err)
	assert.Equal(t, "offline", statuses["driver-1"])
}

func setupRedisClient(t *testing.T, ctx context.Context) *redis.Client {
	req := testcontainers.ContainerRequest{
		Image:        "redis:7",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForLog("Ready to accept connections"),
			wait.ForListeningPort("6379/tcp"),
		),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Fatal(err)
	}

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}
