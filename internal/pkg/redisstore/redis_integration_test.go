//go:build integration

package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mintly/mintly-api/internal/config"
	"github.com/mintly/mintly-api/internal/domain"
)

func setupRedis(t *testing.T) redis.UniversalClient {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)
	pool.MaxWait = time.Minute

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })

	var rdb redis.UniversalClient
	err = pool.Retry(func() error {
		var err error
		rdb, err = Connect(context.Background(), &config.RedisConfig{Addr: resource.GetHostPort("6379/tcp")})
		return err
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	return rdb
}

func TestIdempotencyStore(t *testing.T) {
	rdb := setupRedis(t)
	store := NewIdempotencyStore(rdb, time.Minute*10)
	ctx := context.Background()

	entry := domain.IdempotentResponse{
		Key:    "key-1",
		Method: "POST",
		Path:   "/rpc/process_payment_secure",
	}

	_, reserved, err := store.Reserve(ctx, entry)
	require.NoError(t, err)
	require.True(t, reserved)

	held, reserved, err := store.Reserve(ctx, entry)
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.True(t, held.Pending())

	done := entry
	done.Status = 200
	done.Body = `"b6f5c1c8-5a0e-4a4e-9a53-8f3f0a8f1f10"`
	require.NoError(t, store.Complete(ctx, done))

	held, reserved, err = store.Reserve(ctx, entry)
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.Equal(t, 200, held.Status)
	assert.Equal(t, done.Body, held.Body)

	ttl, err := rdb.TTL(ctx, keyPrefix+"key-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, domain.IdempotencyPendingTimeout)
}

func TestIdempotencyStore_Release(t *testing.T) {
	rdb := setupRedis(t)
	store := NewIdempotencyStore(rdb, time.Minute)
	ctx := context.Background()
	entry := domain.IdempotentResponse{Key: "key-2", Method: "POST", Path: "/rpc/transfer_funds_secure"}

	_, reserved, err := store.Reserve(ctx, entry)
	require.NoError(t, err)
	require.True(t, reserved)
	require.NoError(t, store.Release(ctx, "key-2"))

	_, reserved, err = store.Reserve(ctx, entry)
	require.NoError(t, err)
	assert.True(t, reserved)
}
