package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmanalytics/miniapp/internal/model"
)

// Redis keys.
const (
	usersKey        = "dm:users"
	accountsKey     = "dm:accounts"
	accountsSeenKey = "dm:accounts:seen"
	analyticsKey    = "dm:analytics"
	syncLogsKey     = "dm:sync:logs"
)

// Redis is a Store backed by a Redis server, so several dev backends can
// share one dataset.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to redisURL and verifies the connection.
func NewRedis(ctx context.Context, redisURL string) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Connection pool settings
	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Redis{client: client}, nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Ping checks Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// GetUser loads one user record.
func (r *Redis) GetUser(ctx context.Context, telegramID int64) (*User, error) {
	data, err := r.client.HGet(ctx, usersKey, strconv.FormatInt(telegramID, 10)).Bytes()
	if err == redis.Nil {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis hget failed: %w", err)
	}

	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("decode user %d: %w", telegramID, err)
	}
	return &u, nil
}

// CreateUser inserts the user with HSETNX so concurrent creates cannot clobber.
func (r *Redis) CreateUser(ctx context.Context, u *User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	created, err := r.client.HSetNX(ctx, usersKey, strconv.FormatInt(u.TelegramID, 10), data).Result()
	if err != nil {
		return fmt.Errorf("redis hsetnx failed: %w", err)
	}
	if !created {
		return ErrUserExists
	}

	for _, acc := range u.Accounts {
		added, err := r.client.SAdd(ctx, accountsSeenKey, acc.AccountName).Result()
		if err != nil {
			return fmt.Errorf("redis sadd failed: %w", err)
		}
		if added == 1 {
			if err := r.client.RPush(ctx, accountsKey, acc.AccountName).Err(); err != nil {
				return fmt.Errorf("redis rpush failed: %w", err)
			}
		}
	}
	return nil
}

// ListUsers returns all users ordered by telegram id.
func (r *Redis) ListUsers(ctx context.Context) ([]*User, error) {
	values, err := r.client.HVals(ctx, usersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hvals failed: %w", err)
	}

	users := make([]*User, 0, len(values))
	for _, raw := range values {
		var u User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			// Corrupted entry - skip it
			continue
		}
		users = append(users, &u)
	}
	sortUsers(users)
	return users, nil
}

// ListAccounts returns the known account names in first-seen order.
func (r *Redis) ListAccounts(ctx context.Context) ([]string, error) {
	names, err := r.client.LRange(ctx, accountsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange failed: %w", err)
	}
	return names, nil
}

// AddAnalytics appends submitted links in one pipeline.
func (r *Redis) AddAnalytics(ctx context.Context, items []model.AnalyticsItem) error {
	if len(items) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(items))
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("encode analytics item: %w", err)
		}
		values = append(values, data)
	}

	if err := r.client.RPush(ctx, analyticsKey, values...).Err(); err != nil {
		return fmt.Errorf("redis rpush failed: %w", err)
	}
	return nil
}

// CountAnalytics returns how many links were submitted.
func (r *Redis) CountAnalytics(ctx context.Context) (int64, error) {
	n, err := r.client.LLen(ctx, analyticsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis llen failed: %w", err)
	}
	return n, nil
}

// ResetLogs clears the sync log.
func (r *Redis) ResetLogs(ctx context.Context) error {
	return r.client.Del(ctx, syncLogsKey).Err()
}

// AppendLog adds one sync log line.
func (r *Redis) AppendLog(ctx context.Context, line string) error {
	return r.client.RPush(ctx, syncLogsKey, line).Err()
}

// Logs returns the sync log lines.
func (r *Redis) Logs(ctx context.Context) ([]string, error) {
	lines, err := r.client.LRange(ctx, syncLogsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange failed: %w", err)
	}
	return lines, nil
}
