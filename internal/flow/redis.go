package flow

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "memotheque:flow:"

// RedisStore 多实例部署时共享导航状态
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore { return &RedisStore{rdb: rdb} }

func (s *RedisStore) Get(ctx context.Context, token string) (State, error) {
	b, err := s.rdb.Get(ctx, redisKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return Initial(), nil
	}
	if err != nil {
		return Initial(), err
	}
	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		return Initial(), err
	}
	return st, nil
}

func (s *RedisStore) Put(ctx context.Context, token string, st State, ttl time.Duration) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, redisKeyPrefix+token, b, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, redisKeyPrefix+token).Err()
}
