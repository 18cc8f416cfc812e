package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groupbuy/internal/config/configs"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), configs.Redis{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisLockerContention(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()
	first := NewRedisLocker(client, time.Minute)
	second := NewRedisLocker(client, time.Minute)

	lock, err := first.Lock(ctx, "groupbuy:payment-sweep")
	require.NoError(t, err)
	assert.True(t, mr.Exists("lock:groupbuy:payment-sweep"))
	assert.Equal(t, time.Minute, mr.TTL("lock:groupbuy:payment-sweep"))

	_, err = second.Lock(ctx, "groupbuy:payment-sweep")
	require.ErrorIs(t, err, ErrLockHeld)

	// other jobs are not blocked
	other, err := second.Lock(ctx, "groupbuy:lifecycle-sweep")
	require.NoError(t, err)
	require.NoError(t, other.Unlock(ctx))

	require.NoError(t, lock.Unlock(ctx))
	assert.False(t, mr.Exists("lock:groupbuy:payment-sweep"))

	lock, err = second.Lock(ctx, "groupbuy:payment-sweep")
	require.NoError(t, err)
	require.NoError(t, lock.Unlock(ctx))
}

func TestRedisLockerUnlockKeepsForeignLock(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()
	locker := NewRedisLocker(client, time.Minute)

	stale, err := locker.Lock(ctx, "groupbuy:lifecycle-sweep")
	require.NoError(t, err)

	// the first holder outlives its ttl and another instance takes over
	mr.FastForward(2 * time.Minute)
	current, err := locker.Lock(ctx, "groupbuy:lifecycle-sweep")
	require.NoError(t, err)
	owner, err := mr.Get("lock:groupbuy:lifecycle-sweep")
	require.NoError(t, err)

	require.NoError(t, stale.Unlock(ctx))
	got, err := mr.Get("lock:groupbuy:lifecycle-sweep")
	require.NoError(t, err)
	assert.Equal(t, owner, got)

	require.NoError(t, current.Unlock(ctx))
	assert.False(t, mr.Exists("lock:groupbuy:lifecycle-sweep"))
}

func TestNewRedisClientUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), configs.Redis{Addr: addr})
	require.Error(t, err)
}
