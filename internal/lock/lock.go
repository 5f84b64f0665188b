package lock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLocked 清册正被其他会话编辑
var ErrLocked = errors.New("inventory locked")

// LockedError 携带当前持有者
type LockedError struct {
	Key   string
	Owner string
}

func (e *LockedError) Error() string {
	if e.Owner == "" {
		return "inventarul este blocat de o altă sesiune de editare; încercați din nou mai târziu"
	}
	return fmt.Sprintf("inventarul este blocat de utilizatorul %s; încercați din nou mai târziu", e.Owner)
}

func (e *LockedError) Unwrap() error { return ErrLocked }

// Release 释放锁
type Release func(ctx context.Context) error

// Locker 清册编辑锁
type Locker interface {
	Acquire(ctx context.Context, key, owner string) (Release, error)
}

// NoopLocker 未配置 Redis 时使用，总是成功
type NoopLocker struct{}

func (NoopLocker) Acquire(context.Context, string, string) (Release, error) {
	return func(context.Context) error { return nil }, nil
}

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker 基于 SET NX PX 的租约锁
type RedisLocker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisLocker 创建 Redis 锁
func NewRedisLocker(addr, password, prefix string, ttl time.Duration) (*RedisLocker, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("lock redis addr is required")
	}
	if ttl <= 0 {
		return nil, errors.New("lock ttl must be positive")
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "archivist:lock"
	}
	return &RedisLocker{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		prefix: prefix,
		ttl:    ttl,
	}, nil
}

// Acquire 获取锁；已被占用时返回 *LockedError
func (l *RedisLocker) Acquire(ctx context.Context, key, owner string) (Release, error) {
	redisKey := l.prefix + ":" + key
	token := owner + "|" + uuid.NewString()

	ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		current, _ := l.client.Get(ctx, redisKey).Result()
		holder, _, _ := strings.Cut(current, "|")
		return nil, &LockedError{Key: key, Owner: holder}
	}

	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil {
			return fmt.Errorf("failed to release lock %s: %w", key, err)
		}
		return nil
	}, nil
}

// Ping 检查 Redis 连接
func (l *RedisLocker) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// Close 关闭连接
func (l *RedisLocker) Close() error {
	return l.client.Close()
}
