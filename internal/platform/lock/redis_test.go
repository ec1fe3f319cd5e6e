package lock

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/erp_lite/internal/core/ports/gateways"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLocker(client), mr
}

func TestTryLock_Exclusive(t *testing.T) {
	l, _ := newTestLocker(t)
	ctx := context.Background()

	lease, acquired, err := l.TryLock(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)
	require.NotNil(t, lease)

	second, acquired, err := l.TryLock(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	assert.False(t, acquired)
	assert.Nil(t, second)

	require.NoError(t, lease.Release(ctx))

	_, acquired, err = l.TryLock(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestTryLock_ExpiresAfterTTL(t *testing.T) {
	l, mr := newTestLocker(t)
	ctx := context.Background()

	_, acquired, err := l.TryLock(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	mr.FastForward(2 * time.Minute)

	_, acquired, err = l.TryLock(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestUnlock_DoesNotReleaseForeignLock(t *testing.T) {
	l, mr := newTestLocker(t)
	ctx := context.Background()

	stale, acquired, err := l.TryLock(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	mr.FastForward(2 * time.Minute)
	_, acquired, err = l.TryLock(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	require.NoError(t, stale.Release(ctx))
	assert.True(t, mr.Exists("sweep"))
}

func TestRefresh_ExtendsHeldLock(t *testing.T) {
	l, mr := newTestLocker(t)
	ctx := context.Background()

	lease, acquired, err := l.TryLock(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	mr.FastForward(45 * time.Second)
	require.NoError(t, lease.Refresh(ctx, time.Minute))
	mr.FastForward(45 * time.Second)

	assert.True(t, mr.Exists("sweep"))
	_, acquired, err = l.TryLock(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	assert.False(t, acquired)
}

func TestRefresh_LostLock(t *testing.T) {
	l, mr := newTestLocker(t)
	ctx := context.Background()

	stale, acquired, err := l.TryLock(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, stale.Refresh(ctx, time.Minute), gateways.ErrLockLost)

	_, acquired, err = l.TryLock(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)
	assert.ErrorIs(t, stale.Refresh(ctx, time.Minute), gateways.ErrLockLost)
	assert.Equal(t, time.Minute, mr.TTL("sweep"))
}

func TestTryLock_RedisDown(t *testing.T) {
	l, mr := newTestLocker(t)
	mr.Close()

	lease, acquired, err := l.TryLock(context.Background(), "sweep", time.Minute)
	assert.Error(t, err)
	assert.False(t, acquired)
	assert.Nil(t, lease)
}
