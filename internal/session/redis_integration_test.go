//go:build integration

package session

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	redismodule "github.com/testcontainers/testcontainers-go/modules/redis"

	"reportfilter/internal/report"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := redismodule.Run(ctx, "redis:8.4.0-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	opt, err := redis.ParseURL(uri)
	require.NoError(t, err)

	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())

	return client
}

func TestRedisStore_Contract(t *testing.T) {
	testStoreContract(t, NewRedisStore(setupRedis(t), time.Hour))
}

func TestRedisStore_TTL(t *testing.T) {
	client := setupRedis(t)
	store := NewRedisStore(client, time.Minute)
	ctx := context.Background()

	sess, err := store.Open(ctx, report.ReportBOQ)
	require.NoError(t, err)

	ttl, err := client.TTL(ctx, key(sess.ID)).Result()
	require.NoError(t, err)
	assert.InDelta(t, time.Minute.Seconds(), ttl.Seconds(), 2)

	require.NoError(t, client.Expire(ctx, key(sess.ID), 5*time.Second).Err())
	_, err = store.SetValue(ctx, sess.ID, report.FilterProject, "PROJ-0001")
	require.NoError(t, err)

	ttl, err = client.TTL(ctx, key(sess.ID)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 30*time.Second)

	fields, err := client.HGetAll(ctx, key(sess.ID)).Result()
	require.NoError(t, err)
	assert.Equal(t, report.ReportBOQ, fields["_report"])
	assert.Equal(t, "PROJ-0001", fields["v:project"])
}

func TestRedisStore_SetValueDoesNotResurrect(t *testing.T) {
	client := setupRedis(t)
	store := NewRedisStore(client, time.Minute)
	ctx := context.Background()

	_, err := store.SetValue(ctx, "gone", report.FilterProject, "PROJ-0001")
	assert.ErrorIs(t, err, ErrNotFound)

	exists, err := client.Exists(ctx, key("gone")).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}
