// Package freemium records which devices have used the free trial analysis.
package freemium

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Ledger is the single-use record of the freemium trial, keyed by device id.
type Ledger interface {
	// MarkUsed records the device and reports whether this call was the first.
	MarkUsed(ctx context.Context, deviceID string) (bool, error)
	HasUsed(ctx context.Context, deviceID string) (bool, error)
}

const keyPrefix = "freemium_used:"

// RedisLedger stores marks as keys with a TTL.
type RedisLedger struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisLedger(rdb *redis.Client, ttl time.Duration) *RedisLedger {
	return &RedisLedger{rdb: rdb, ttl: ttl}
}

func (l *RedisLedger) MarkUsed(ctx context.Context, deviceID string) (bool, error) {
	return l.rdb.SetNX(ctx, keyPrefix+deviceID, time.Now().UTC().Format(time.RFC3339), l.ttl).Result()
}

func (l *RedisLedger) HasUsed(ctx context.Context, deviceID string) (bool, error) {
	n, err := l.rdb.Exists(ctx, keyPrefix+deviceID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemoryLedger is the fallback when Redis is disabled or unreachable.
type MemoryLedger struct {
	mu   sync.Mutex
	used map[string]time.Time
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{used: make(map[string]time.Time)}
}

func (l *MemoryLedger) MarkUsed(_ context.Context, deviceID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.used[deviceID]; ok {
		return false, nil
	}
	l.used[deviceID] = time.Now().UTC()
	return true, nil
}

func (l *MemoryLedger) HasUsed(_ context.Context, deviceID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.used[deviceID]
	return ok, nil
}
