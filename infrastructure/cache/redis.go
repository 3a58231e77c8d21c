package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"trending-videos/infrastructure/logger"
)

// NewCache connects to redis and verifies the connection with a PING
func NewCache(ctx context.Context, addr, username, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		logger.GetLogger().WithField("error", err).WithField("addr", addr).Error("Cannot connect to redis")
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return client, nil
}
