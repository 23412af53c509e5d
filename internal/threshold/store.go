package threshold

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/qualgate/qualgate/internal/model"
)

// StaticStore holds threshold overrides in memory. Used for tests and for
// configurations loaded once at startup.
type StaticStore struct {
	mu        sync.RWMutex
	overrides map[string][]model.ConfidenceThreshold
}

// NewStaticStore creates an empty static store
func NewStaticStore() *StaticStore {
	return &StaticStore{overrides: make(map[string][]model.ConfidenceThreshold)}
}

// Put replaces the overrides for one scope
func (s *StaticStore) Put(scope model.ThresholdScope, scopeID string, overrides []model.ConfidenceThreshold) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[storeKey(scope, scopeID)] = overrides
}

// Overrides returns the overrides for a scope; missing scopes yield none
func (s *StaticStore) Overrides(ctx context.Context, scope model.ThresholdScope, scopeID string) ([]model.ConfidenceThreshold, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overrides[storeKey(scope, scopeID)], nil
}

// RedisStore reads threshold overrides from Redis, one JSON document per
// scope
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a store on the given Redis client
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "qualgate:thresholds"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Overrides fetches and decodes a scope's overrides. A missing key means
// no overrides; any other failure is a configuration error.
func (s *RedisStore) Overrides(ctx context.Context, scope model.ThresholdScope, scopeID string) ([]model.ConfidenceThreshold, error) {
	data, err := s.client.Get(ctx, s.prefix+":"+storeKey(scope, scopeID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s thresholds: %w", scope, err)
	}

	var overrides []model.ConfidenceThreshold
	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("decode %s thresholds: %w", scope, err)
	}
	return overrides, nil
}

func storeKey(scope model.ThresholdScope, scopeID string) string {
	if scopeID == "" {
		return string(scope)
	}
	return string(scope) + ":" + scopeID
}
