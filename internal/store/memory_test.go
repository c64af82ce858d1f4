package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bla9k/font-and-flare-design-sub000/internal/gacha"
)

func bump(s gacha.PityState) (gacha.PityState, error) {
	return gacha.Advance(s, gacha.TierCommon), nil
}

func TestMemoryStoreUnknownPlayerStartsAtZero(t *testing.T) {
	s := NewMemoryStore()
	st, err := s.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, gacha.PityState{}, st)
}

func TestMemoryStoreUpdate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Update(ctx, "p1", bump))
	require.NoError(t, s.Update(ctx, "p1", bump))

	st, err := s.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, st.Pulls)
	assert.Equal(t, 2, st.Since(gacha.TierEpic))

	other, err := s.Get(ctx, "p2")
	require.NoError(t, err)
	assert.Zero(t, other.Pulls)
}

func TestMemoryStoreUpdateErrorKeepsState(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Update(ctx, "p1", bump))

	boom := errors.New("boom")
	err := s.Update(ctx, "p1", func(st gacha.PityState) (gacha.PityState, error) {
		st.Pulls = 99
		return st, boom
	})
	require.ErrorIs(t, err, boom)

	st, _ := s.Get(ctx, "p1")
	assert.Equal(t, 1, st.Pulls)
}

func TestMemoryStoreEmptyPlayer(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyPlayer)
	assert.ErrorIs(t, s.Update(context.Background(), "", bump), ErrEmptyPlayer)
}

func TestMemoryStoreCanceledContext(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Update(ctx, "p1", bump), context.Canceled)
}

func TestMemoryStoreConcurrentUpdatesAreSerialized(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	const workers, each = 8, 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < each; j++ {
				_ = s.Update(ctx, "p1", bump)
			}
		}()
	}
	wg.Wait()

	st, err := s.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, workers*each, st.Pulls)
}

func TestNewStore(t *testing.T) {
	s, err := NewStore(context.Background(), "memory", "", 0)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = NewStore(context.Background(), "postgres", "", 0)
	assert.Error(t, err)
}
