package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/vladimiradmaev/glucose-diary/internal/config"
)

// RedisManager manages user sessions using Redis
type RedisManager struct {
	client *redis.Client
	ttl    time.Duration
}

var _ StateManager = (*RedisManager)(nil)

// NewRedisManager creates a new Redis-based state manager
func NewRedisManager(cfg config.RedisConfig) (*RedisManager, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisManagerWithClient(client, cfg.StateTTL), nil
}

// NewRedisManagerWithClient wraps an existing client. Sessions expire after
// ttl of inactivity.
func NewRedisManagerWithClient(client *redis.Client, ttl time.Duration) *RedisManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisManager{client: client, ttl: ttl}
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("user:%d:session", userID)
}

// Get returns the session of a user
func (m *RedisManager) Get(ctx context.Context, userID int64) (Session, error) {
	data, err := m.client.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{Step: None}, nil
	}
	if err != nil {
		return Session{Step: None}, fmt.Errorf("failed to load session: %w", err)
	}

	var session Session
	if err := sonic.Unmarshal(data, &session); err != nil {
		return Session{Step: None}, fmt.Errorf("failed to decode session: %w", err)
	}
	if session.Step == "" {
		session.Step = None
	}
	return session, nil
}

// Save stores the session of a user and refreshes its TTL
func (m *RedisManager) Save(ctx context.Context, userID int64, session Session) error {
	if session.Step == "" {
		session.Step = None
	}
	data, err := sonic.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return m.client.Set(ctx, sessionKey(userID), data, m.ttl).Err()
}

// Clear removes the session of a user
func (m *RedisManager) Clear(ctx context.Context, userID int64) error {
	return m.client.Del(ctx, sessionKey(userID)).Err()
}

// Close closes the Redis connection
func (m *RedisManager) Close() error {
	return m.client.Close()
}
