package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/yourname/sleepdiary/internal"
)

type RedisStore struct {
	client *redis.Client
	prefix string
	logger internal.Logger
}

func NewRedisStore(addr, password string, db int, logger internal.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Errorf("storage: redis ping %s: %v", addr, err)
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return newRedisStore(client, "sleepdiary:", logger), nil
}

func newRedisStore(client *redis.Client, prefix string, logger internal.Logger) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, logger: logger}
}

func (r *RedisStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		r.logger.Errorf("storage: redis get %s: %v", key, err)
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return val, true, nil
}

func (r *RedisStore) SetItem(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		r.logger.Errorf("storage: redis set %s: %v", key, err)
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisStore) RemoveItem(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		r.logger.Errorf("storage: redis del %s: %v", key, err)
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

var _ KeyValueStore = (*RedisStore)(nil)
