package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Bla9k/font-and-flare-design-sub000/internal/gacha"
)

// maxTxRetries bounds optimistic retries when another writer touches the same player.
const maxTxRetries = 32

// RedisStore keeps pity as JSON under one key per player.
// Update uses WATCH/MULTI so concurrent writers across processes never interleave.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a store backed by Redis.
func NewRedisStore(addr, password string, db int) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisStoreWithClient(rdb, "gacha:pity:")
}

// NewRedisStoreWithClient wraps an existing client; keys are prefix+player.
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) key(player string) string { return s.prefix + player }

func (s *RedisStore) Get(ctx context.Context, player string) (gacha.PityState, error) {
	if player == "" {
		return gacha.PityState{}, ErrEmptyPlayer
	}
	return read(ctx, s.client, s.key(player))
}

func (s *RedisStore) Update(ctx context.Context, player string, fn UpdateFunc) error {
	if player == "" {
		return ErrEmptyPlayer
	}
	key := s.key(player)
	txf := func(tx *redis.Tx) error {
		cur, err := read(ctx, tx, key)
		if err != nil {
			return err
		}
		next, err := fn(cur)
		if err != nil {
			return err
		}
		b, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode pity: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, b, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("redis pity update for %q: too much contention", player)
}

func (s *RedisStore) Close() error { return s.client.Close() }

// getter is the part of *redis.Client and *redis.Tx that read needs.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func read(ctx context.Context, c getter, key string) (gacha.PityState, error) {
	b, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return gacha.PityState{}, nil
	}
	if err != nil {
		return gacha.PityState{}, fmt.Errorf("redis get %s: %w", key, err)
	}
	var st gacha.PityState
	if err := json.Unmarshal(b, &st); err != nil {
		return gacha.PityState{}, fmt.Errorf("decode pity %s: %w", key, err)
	}
	return st, nil
}
