package otpinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/passport/pkg/iam/otp"
	"github.com/redis/go-redis/v9"
)

// RedisRepository stores each challenge under one key. SETNX gives
// insert-if-absent, GETDEL gives single use, and the key TTL gives expiry.
type RedisRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisRepository creates the store. A zero ttl keeps keys until consumed.
func NewRedisRepository(rdb *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{rdb: rdb, ttl: ttl}
}

func redisKey(scopeKey string, purpose otp.Purpose) string {
	return fmt.Sprintf("otp:%s:%s", purpose, scopeKey)
}

var deleteIfSame = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if v and cjson.decode(v).id == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`)

func (r *RedisRepository) InsertIfAbsent(ctx context.Context, c *otp.Challenge) (*otp.Challenge, bool, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, false, otp.ErrStoreFailed(err).WithDetail("op", "marshal")
	}

	key := redisKey(c.ScopeKey, c.Purpose)
	for range 3 {
		ok, err := r.rdb.SetNX(ctx, key, data, r.ttl).Result()
		if err != nil {
			return nil, false, otp.ErrStoreFailed(err).WithDetail("op", "setnx")
		}
		if ok {
			stored := *c
			return &stored, true, nil
		}

		existing, err := r.get(ctx, key)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return existing, false, nil
		}
		// Expired or consumed between SETNX and GET; try again.
	}
	return nil, false, otp.ErrStoreFailed(nil).WithDetail("op", "setnx").WithDetail("reason", "contended key")
}

func (r *RedisRepository) Find(ctx context.Context, scopeKey string, purpose otp.Purpose) (*otp.Challenge, error) {
	return r.get(ctx, redisKey(scopeKey, purpose))
}

func (r *RedisRepository) Take(ctx context.Context, scopeKey string, purpose otp.Purpose) (*otp.Challenge, error) {
	data, err := r.rdb.GetDel(ctx, redisKey(scopeKey, purpose)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, otp.ErrStoreFailed(err).WithDetail("op", "getdel")
	}
	return decode(data)
}

func (r *RedisRepository) Delete(ctx context.Context, c *otp.Challenge) error {
	if err := deleteIfSame.Run(ctx, r.rdb, []string{redisKey(c.ScopeKey, c.Purpose)}, c.ID).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return otp.ErrStoreFailed(err).WithDetail("op", "delete")
	}
	return nil
}

func (r *RedisRepository) get(ctx context.Context, key string) (*otp.Challenge, error) {
	data, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, otp.ErrStoreFailed(err).WithDetail("op", "get")
	}
	return decode(data)
}

func decode(data []byte) (*otp.Challenge, error) {
	var c otp.Challenge
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, otp.ErrStoreFailed(err).WithDetail("op", "unmarshal")
	}
	return &c, nil
}
