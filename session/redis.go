package session

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
)

// RedisManager keeps sessions in Redis with a per-key TTL, so expiry needs
// no sweeper and sessions survive process restarts.
type RedisManager struct {
	client *redis.Client
}

func NewRedisManager(client *redis.Client) *RedisManager {
	return &RedisManager{client: client}
}

func sessionKey(token string) string {
	return "sess:" + token
}

func (m *RedisManager) Create(ctx context.Context, userID uint) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	if err := m.client.Set(ctx, sessionKey(token), uint64(userID), TTL).Err(); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}
	return token, nil
}

func (m *RedisManager) UserID(ctx context.Context, token string) (uint, error) {
	val, err := m.client.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt session value: %w", err)
	}
	return uint(id), nil
}

func (m *RedisManager) Destroy(ctx context.Context, token string) error {
	return m.client.Del(ctx, sessionKey(token)).Err()
}
