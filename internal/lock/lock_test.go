package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	l, err := NewRedisLocker(mr.Addr(), "", "test:lock", time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l, mr
}

func TestRedisLocker_SecondAcquireIsLocked(t *testing.T) {
	l, _ := newTestLocker(t)
	ctx := context.Background()

	release, err := l.Acquire(ctx, "inv-1", "ana")
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "inv-1", "ion")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLocked))
	var locked *LockedError
	require.ErrorAs(t, err, &locked)
	assert.Equal(t, "ana", locked.Owner)

	// 其他清册不受影响
	otherRelease, err := l.Acquire(ctx, "inv-2", "ion")
	require.NoError(t, err)
	require.NoError(t, otherRelease(ctx))

	require.NoError(t, release(ctx))
	release, err = l.Acquire(ctx, "inv-1", "ion")
	require.NoError(t, err)
	require.NoError(t, release(ctx))
}

func TestRedisLocker_StaleReleaseKeepsNewHolder(t *testing.T) {
	l, mr := newTestLocker(t)
	ctx := context.Background()

	stale, err := l.Acquire(ctx, "inv-1", "ana")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = l.Acquire(ctx, "inv-1", "ion")
	require.NoError(t, err)

	// 过期租约的释放不能删除新持有者的锁
	require.NoError(t, stale(ctx))
	_, err = l.Acquire(ctx, "inv-1", "maria")
	assert.ErrorIs(t, err, ErrLocked)
}

func TestRedisLocker_RequiresAddr(t *testing.T) {
	l, err := NewRedisLocker("", "", "", time.Minute)
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestNoopLocker(t *testing.T) {
	release, err := NoopLocker{}.Acquire(context.Background(), "inv-1", "ana")
	require.NoError(t, err)
	assert.NoError(t, release(context.Background()))
}
