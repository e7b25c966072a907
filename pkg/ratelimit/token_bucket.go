package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// TokenBucket 令牌桶限流器，按 QPM 配置，时钟可替换
type TokenBucket struct {
	limiter *rate.Limiter
	now     func() time.Time
}

// NewTokenBucket 创建一个新的令牌桶限流器
func NewTokenBucket(qpm int, capacity int) *TokenBucket {
	return newTokenBucket(qpm, capacity, time.Now)
}

func newTokenBucket(qpm int, capacity int, now func() time.Time) *TokenBucket {
	// 如果未指定容量，设置为QPM的一半
	if capacity <= 0 {
		capacity = qpm / 2
		if capacity <= 0 {
			capacity = 1
		}
	}

	return &TokenBucket{
		limiter: rate.NewLimiter(rate.Limit(float64(qpm)/60.0), capacity), // 转换为每秒速率，初始填满
		now:     now,
	}
}

// Allow 判断是否允许通过一个请求，消耗一个令牌
func (tb *TokenBucket) Allow() bool {
	return tb.limiter.AllowN(tb.now(), 1)
}

// Wait 等待直到有令牌可用；速率为0时一直等到 ctx 结束
func (tb *TokenBucket) Wait(ctx context.Context) error {
	now := tb.now()
	r := tb.limiter.ReserveN(now, 1)
	if !r.OK() {
		<-ctx.Done()
		return ctx.Err()
	}

	delay := r.DelayFrom(now)
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		r.CancelAt(tb.now())
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// KeyedLimiter 按客户端标识分别限流
type KeyedLimiter struct {
	qpm      int
	capacity int
	idleTTL  time.Duration
	now      func() time.Time

	mu       sync.Mutex
	buckets  map[string]*keyedBucket
	lastScan time.Time
}

type keyedBucket struct {
	bucket   *TokenBucket
	lastSeen time.Time
}

// NewKeyedLimiter 每个 key 一个令牌桶，空闲超过 idleTTL 的桶会被回收
func NewKeyedLimiter(qpm, capacity int, idleTTL time.Duration) *KeyedLimiter {
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	return &KeyedLimiter{
		qpm:      qpm,
		capacity: capacity,
		idleTTL:  idleTTL,
		now:      time.Now,
		buckets:  make(map[string]*keyedBucket),
		lastScan: time.Now(),
	}
}

// Allow 判断 key 对应的请求是否放行
func (l *KeyedLimiter) Allow(key string) bool {
	l.mu.Lock()
	now := l.now()
	if now.Sub(l.lastScan) > l.idleTTL {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > l.idleTTL {
				delete(l.buckets, k)
			}
		}
		l.lastScan = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &keyedBucket{bucket: newTokenBucket(l.qpm, l.capacity, l.now)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	l.mu.Unlock()

	return b.bucket.Allow()
}

// Len 当前跟踪的 key 数
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
