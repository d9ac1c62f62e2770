package cache

import (
	"context"
	"time"
)

// NoOpCache is a cache implementation that does nothing.
// Used when Redis is not configured or unreachable: every lookup misses.
type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) GetQuestions(ctx context.Context, key string) ([]string, error) {
	return nil, nil
}

func (c *NoOpCache) SetQuestions(ctx context.Context, key string, questions []string, ttl time.Duration) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}
