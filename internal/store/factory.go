package store

import (
	"context"
	"fmt"
)

// NewStore creates a store based on the given store type.
// Supported types: "memory", "redis".
func NewStore(ctx context.Context, storeType, redisAddr string, redisDB int) (Store, error) {
	switch storeType {
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		s := NewRedisStore(redisAddr, "", redisDB)
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", redisAddr, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported store type: %s", storeType)
	}
}
