// Package kvstore – Redis-backed store.
//
// The Redis store makes admission counters and dedup fingerprints correct
// across multiple worker processes. The compare-and-increment primitive runs
// as a short Lua script so the limit check and the increment are one atomic
// server-side operation; insert-if-absent maps directly onto SET NX.
package kvstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrWithLimitScript atomically increments KEYS[1] unless the result would
// exceed ARGV[1], setting ARGV[2] ms TTL on creation only. Returns
// {admitted, count}.
var incrWithLimitScript = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[1]) or "0")
local limit = tonumber(ARGV[1])
if current + 1 > limit then
  return {0, current}
end
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return {1, count}
`)

// RedisStore is a Store backed by a shared Redis instance.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing go-redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// DialRedis connects to Redis and verifies the connection with a ping.
func DialRedis(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return NewRedisStore(client), nil
}

// IncrWithLimit implements Store via the server-side Lua script.
func (r *RedisStore) IncrWithLimit(ctx context.Context, key string, limit int64, ttl time.Duration) (bool, int64, error) {
	res, err := incrWithLimitScript.Run(ctx, r.client, []string{key}, limit, ttl.Milliseconds()).Int64Slice()
	if err != nil {
		return false, 0, err
	}
	if len(res) != 2 {
		return false, 0, redis.Nil
	}
	return res[0] == 1, res[1], nil
}

// SetNX implements Store via SET key 1 NX PX. Redis only applies the TTL
// when the key is created, so an existing fingerprint's window is never
// extended by repeat attempts.
func (r *RedisStore) SetNX(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, key, 1, ttl).Result()
}

// Close releases the underlying client connections.
func (r *RedisStore) Close() error { return r.client.Close() }
