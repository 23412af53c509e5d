package review

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisQueue stores review entries as a Redis list, newest pushed left so
// reviewers pop from the right in submission order
type RedisQueue struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisQueue creates a review queue on the given Redis client
func NewRedisQueue(client *redis.Client, key string, ttl time.Duration) *RedisQueue {
	if key == "" {
		key = "qualgate:reviews"
	}
	return &RedisQueue{client: client, key: key, ttl: ttl}
}

// Enqueue pushes the JSON-encoded entry and refreshes the list TTL
func (q *RedisQueue) Enqueue(ctx context.Context, entry Entry) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("marshal review entry: %w", err)
	}

	if err := q.client.LPush(ctx, q.key, data).Err(); err != nil {
		return "", fmt.Errorf("enqueue review entry: %w", err)
	}
	if q.ttl > 0 {
		// Best effort: an expiry failure leaves the entry queued, which is fine.
		_ = q.client.Expire(ctx, q.key, q.ttl).Err()
	}
	return entry.ID, nil
}

// Pending returns up to limit entries, oldest first
func (q *RedisQueue) Pending(ctx context.Context, limit int) ([]Entry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	raw, err := q.client.LRange(ctx, q.key, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("read review queue: %w", err)
	}

	// LPush stores newest first; reverse to submission order.
	entries := make([]Entry, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var e Entry
		if err := json.Unmarshal([]byte(raw[i]), &e); err != nil {
			return nil, fmt.Errorf("decode review entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
