package auth

import (
	"context"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/souqly/storefront-go/internal/types"
)

const redisKeyPrefix = "storefront:"

// RedisStore keeps the token slot in Redis so several processes share one login
type RedisStore struct {
	rdb *goredis.Client
	key string
}

// NewRedisStore creates a Redis-backed token store for the given slot
func NewRedisStore(rdb *goredis.Client, slot string) *RedisStore {
	if slot == "" {
		slot = types.DefaultTokenSlot
	}
	return &RedisStore{rdb: rdb, key: redisKeyPrefix + slot}
}

// NewRedisClient parses a redis:// URL into a client
func NewRedisClient(redisURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse redis URL")
	}
	return goredis.NewClient(opts), nil
}

// Key returns the Redis key holding the token
func (r *RedisStore) Key() string {
	return r.key
}

func (r *RedisStore) Load(ctx context.Context) (string, error) {
	token, err := r.rdb.Get(ctx, r.key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "failed to load token from redis")
	}
	return token, nil
}

func (r *RedisStore) Save(ctx context.Context, token string) error {
	if err := r.rdb.Set(ctx, r.key, token, 0).Err(); err != nil {
		return errors.Wrap(err, "failed to save token to redis")
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.key).Err(); err != nil {
		return errors.Wrap(err, "failed to clear token in redis")
	}
	return nil
}
