package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// BlacklistRedis revokes JWTs by jti until they would have expired
// anyway; Redis drops the key at that point on its own.
type BlacklistRedis struct {
	rdb *redis.Client
}

func NewBlacklistRedis(rdb *redis.Client) *BlacklistRedis {
	return &BlacklistRedis{rdb: rdb}
}

func blacklistKey(jti string) string { return "token:blacklist:" + jti }

func (r *BlacklistRedis) AddToken(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, blacklistKey(jti), "1", ttl).Err()
}

func (r *BlacklistRedis) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := r.rdb.Exists(ctx, blacklistKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
