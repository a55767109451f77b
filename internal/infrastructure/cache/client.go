package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Client contrato mínimo de cache que consume el rate limiter. Permite
// sustituir Redis por un fake en tests.
type Client interface {
	GetInt(ctx context.Context, key string) (int, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Incr(ctx context.Context, key string) error
}

// ErrCacheMiss se devuelve cuando la clave no existe en el cache.
var ErrCacheMiss = redis.Nil

// RedisClient implementación de Client sobre Redis.
type RedisClient struct {
	rdb *redis.Client
}

// NewRedisClient crea el cliente y valida la conexión con un PING.
func NewRedisClient(addr string) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return &RedisClient{rdb: rdb}, nil
}

// GetInt recupera un contador. Devuelve ErrCacheMiss si la clave no existe.
func (c *RedisClient) GetInt(ctx context.Context, key string) (int, error) {
	n, err := c.rdb.Get(ctx, key).Int()
	if err == redis.Nil {
		return 0, ErrCacheMiss
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Set define un valor con expiración.
func (c *RedisClient) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return c.rdb.Set(ctx, key, value, expiration).Err()
}

// Incr incrementa un contador.
func (c *RedisClient) Incr(ctx context.Context, key string) error {
	return c.rdb.Incr(ctx, key).Err()
}
