package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the shared session store connection
type RedisClient struct{ *redis.Client }

// NewRedis creates a client; it does not connect until first use
func NewRedis(addr, pass string, db int) *RedisClient {
	return &RedisClient{redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     pass,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})}
}

// Ping checks the connection
func (c *RedisClient) Ping(ctx context.Context) error { return c.Client.Ping(ctx).Err() }
