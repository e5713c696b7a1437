package redisad

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"hbnb_web/internal/adapters/observability"
	"hbnb_web/internal/domain"
)

// UserInfoCache caches user display fields (name, email, admin flag) keyed
// by user id. It stands in for the original client's user_info entry: a read
// cache only, never consulted for authorization.
type UserInfoCache struct {
	c   *redis.Client
	ttl time.Duration
}

func New(addr, pass string, db int, ttl time.Duration) *UserInfoCache {
	return &UserInfoCache{
		c:   redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		ttl: ttl,
	}
}

func key(userID string) string { return "userinfo:" + userID }

func (u *UserInfoCache) Get(ctx context.Context, userID string) (*domain.UserInfo, error) {
	v, err := u.c.Get(ctx, key(userID)).Bytes()
	if err == redis.Nil {
		observability.ObserveCache("userinfo", "miss")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var info domain.UserInfo
	if err := json.Unmarshal(v, &info); err != nil {
		// stale or corrupt entry: treat as a miss
		observability.ObserveCache("userinfo", "miss")
		return nil, nil
	}
	observability.ObserveCache("userinfo", "hit")
	return &info, nil
}

func (u *UserInfoCache) Set(ctx context.Context, info domain.UserInfo) error {
	b, err := json.Marshal(info)
	if err != nil {
		return err
	}
	observability.ObserveCache("userinfo", "set")
	return u.c.Set(ctx, key(info.ID), b, u.ttl).Err()
}

func (u *UserInfoCache) Del(ctx context.Context, userID string) error {
	observability.ObserveCache("userinfo", "del")
	return u.c.Del(ctx, key(userID)).Err()
}
