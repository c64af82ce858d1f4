package store

import (
	"context"
	"errors"

	"github.com/Bla9k/font-and-flare-design-sub000/internal/gacha"
)

// ErrEmptyPlayer is returned when a player id is blank.
var ErrEmptyPlayer = errors.New("player id is required")

// UpdateFunc receives the current pity and returns the state to persist.
// Returning an error leaves the stored state untouched.
type UpdateFunc func(gacha.PityState) (gacha.PityState, error)

// Store persists pity per player.
// Implementations must be thread-safe; Update calls for the same player are serialized.
type Store interface {
	// Get returns the player's pity. Unknown players start from the zero state.
	Get(ctx context.Context, player string) (gacha.PityState, error)

	// Update runs fn against the current state and stores its result atomically.
	Update(ctx context.Context, player string, fn UpdateFunc) error

	// Close releases any resources held by the store.
	Close() error
}
