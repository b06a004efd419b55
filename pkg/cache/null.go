package cache

import (
	"context"
	"time"
)

// NullCache never stores anything: every Get is a miss and every Set is
// dropped. It backs --no-cache runs and keeps the pipeline free of nil
// checks.
type NullCache struct{}

// NewNullCache returns the disabled cache backend.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get always reports a miss.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set drops the entry.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete does nothing.
func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close does nothing.
func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)
