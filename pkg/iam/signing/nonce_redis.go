package signing

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisNonceStore keeps one key per nonce with the window as TTL.
type RedisNonceStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisNonceStore(rdb *redis.Client) *RedisNonceStore {
	return &RedisNonceStore{rdb: rdb, prefix: "sign:nonce:"}
}

func (s *RedisNonceStore) Remember(ctx context.Context, nonce string, ttl time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, s.prefix+nonce, 1, ttl).Result()
}
