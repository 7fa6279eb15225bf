package idempotency

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Guard serializes work on a key across instances.
type Guard interface {
	// Acquire reports false when another holder already owns the key.
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// releaseScript deletes the lock only while it still holds our token, so a
// holder whose TTL ran out cannot free a lock someone else took since.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisGuard struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string

	mu     sync.Mutex
	tokens map[string]string
}

func NewRedisGuard(rdb *redis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{rdb: rdb, ttl: ttl, prefix: "checkout:", tokens: map[string]string{}}
}

func (g *RedisGuard) Key(key string) string {
	return g.prefix + key
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (bool, error) {
	token := uuid.NewString()
	ok, err := g.rdb.SetNX(ctx, g.Key(key), token, g.ttl).Result()
	if err != nil {
		return false, err
	}
	if ok {
		g.mu.Lock()
		g.tokens[key] = token
		g.mu.Unlock()
	}
	return ok, nil
}

// Release is a no-op for keys this guard does not hold.
func (g *RedisGuard) Release(ctx context.Context, key string) error {
	g.mu.Lock()
	token, ok := g.tokens[key]
	delete(g.tokens, key)
	g.mu.Unlock()
	if !ok {
		return nil
	}
	return releaseScript.Run(ctx, g.rdb, []string{g.Key(key)}, token).Err()
}

// NoopGuard always grants the key. Used when Redis is not configured.
type NoopGuard struct{}

func (NoopGuard) Acquire(context.Context, string) (bool, error) { return true, nil }
func (NoopGuard) Release(context.Context, string) error         { return nil }

// New picks the Redis guard when a client is available.
func New(rdb *redis.Client, ttl time.Duration) Guard {
	if rdb == nil {
		return NoopGuard{}
	}
	return NewRedisGuard(rdb, ttl)
}
