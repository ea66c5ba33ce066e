package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type RedisStorage struct {
	Connection *redis.Client
}

func NewRedisStorage(ctx context.Context, addr string) (*RedisStorage, error) {
	conn := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := conn.Ping(ctx).Err(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &RedisStorage{Connection: conn}, nil
}

func (that *RedisStorage) Close() error {
	return that.Connection.Close()
}
