package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock 手动推进的时钟
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestTokenBucketAllow(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	tb := newTokenBucket(60, 2, clock.Now) // 每秒1个，容量2

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow(), "桶已空")

	clock.Advance(time.Second)
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())

	clock.Advance(time.Hour)
	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow(), "填充不超过容量")
}

func TestNewTokenBucketDefaultCapacity(t *testing.T) {
	tb := NewTokenBucket(10, 0)
	assert.Equal(t, 5, tb.limiter.Burst())

	tb = NewTokenBucket(1, 0)
	assert.Equal(t, 1, tb.limiter.Burst())
}

func TestTokenBucketWait(t *testing.T) {
	tb := NewTokenBucket(6000, 1) // 每秒100个
	require.True(t, tb.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, tb.Wait(ctx))
}

func TestTokenBucketWaitCancelled(t *testing.T) {
	tb := NewTokenBucket(1, 1)
	require.True(t, tb.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, tb.Wait(ctx), context.DeadlineExceeded)

	// 取消的等待归还令牌预约，不会让后续请求排得更远
	assert.InDelta(t, 0, tb.limiter.TokensAt(time.Now()), 0.01)
}

func TestTokenBucketWaitZeroRate(t *testing.T) {
	tb := NewTokenBucket(0, 1)
	require.True(t, tb.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, tb.Wait(ctx), context.DeadlineExceeded)
}

func TestKeyedLimiter(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	l := NewKeyedLimiter(60, 1, time.Minute)
	l.now = clock.Now
	l.lastScan = clock.Now()

	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"), "不同 key 互不影响")
	assert.Equal(t, 2, l.Len())

	clock.Advance(2 * time.Minute)
	assert.True(t, l.Allow("a"))
	assert.Equal(t, 1, l.Len(), "空闲的 b 被回收")
}
