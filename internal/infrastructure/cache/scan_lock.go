package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ScanLock serializes the expiry scan across processes. TryAcquire returns
// true for exactly one caller per key until Release or expiry.
type ScanLock interface {
	// TryAcquire attempts to take the lock for the given TTL without blocking
	TryAcquire(ctx context.Context, ttl time.Duration) (bool, error)
	// Release frees the lock
	Release(ctx context.Context) error
}

const scanLockKey = "stock:expiry_scan:lock"

// RedisScanLock implements ScanLock on Redis SETNX, suitable for deployments
// running more than one instance against the same database
type RedisScanLock struct {
	client *redis.Client
	key    string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisScanLock creates a Redis-backed scan lock
func NewRedisScanLock(cfg RedisConfig) (*RedisScanLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisScanLock{client: client, key: scanLockKey}, nil
}

// NewRedisScanLockWithClient creates a scan lock with an existing Redis client
func NewRedisScanLockWithClient(client *redis.Client) *RedisScanLock {
	return &RedisScanLock{client: client, key: scanLockKey}
}

// TryAcquire takes the lock with SETNX; exactly one caller wins per TTL window
func (l *RedisScanLock) TryAcquire(ctx context.Context, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire scan lock: %w", err)
	}
	return ok, nil
}

// Release frees the lock
func (l *RedisScanLock) Release(ctx context.Context) error {
	return l.client.Del(ctx, l.key).Err()
}

// Close closes the underlying Redis client
func (l *RedisScanLock) Close() error {
	return l.client.Close()
}

var _ ScanLock = (*RedisScanLock)(nil)

// LocalScanLock implements ScanLock in process memory for single-instance
// deployments without Redis
type LocalScanLock struct {
	mu   sync.Mutex
	held bool
}

// NewLocalScanLock creates an in-process scan lock
func NewLocalScanLock() *LocalScanLock {
	return &LocalScanLock{}
}

// TryAcquire takes the lock if it is free. The TTL is ignored; the lock is
// held until Release.
func (l *LocalScanLock) TryAcquire(_ context.Context, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

// Release frees the lock
func (l *LocalScanLock) Release(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held = false
	return nil
}

var _ ScanLock = (*LocalScanLock)(nil)
