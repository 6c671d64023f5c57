package common

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client

// InitRedisClient connects to REDIS_CONN_STRING. Without it Redis stays
// disabled and the upload index runs without a cache.
func InitRedisClient() error {
	connString := os.Getenv("REDIS_CONN_STRING")
	if connString == "" {
		RedisEnabled = false
		SysLog("REDIS_CONN_STRING not set, Redis is not enabled")
		return nil
	}
	opt, err := redis.ParseURL(connString)
	if err != nil {
		RedisEnabled = false
		return fmt.Errorf("parse Redis connection string: %w", err)
	}
	RDB = redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := RDB.Ping(ctx).Result(); err != nil {
		RedisEnabled = false
		return fmt.Errorf("Redis ping test failed: %w", err)
	}
	RedisEnabled = true
	SysLog("Redis is enabled")
	return nil
}
