package gacha

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// RandomSource abstract

type RandomSource interface {
	Float64() float64 // [0, 1)
}

// crypto random : default generation method
type cryptoRNG struct{}

func (cryptoRNG) Float64() float64 {
	// Read 53bit random => [0, 1)
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		// back to math/rand/v2
		return rand.Float64()
	}

	u := binary.BigEndian.Uint64(buf[:]) >> 11 // 53 bits
	return float64(u) / (1 << 53)
}

func DefaultRNG() RandomSource { return cryptoRNG{} }

// Replicable RNG (e.g. Monte Carlo)
type seededRNG struct{ r *rand.Rand }

func NewSeededRNG(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) Float64() float64 { return s.r.Float64() }

// NewKeyedRNG derives a replicable stream from a string key, e.g. "player:banner:salt".
// The same key and stream always yield the same sequence.
func NewKeyedRNG(key string, stream uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(xxhash.Sum64String(key), stream))}
}

// SequenceRNG replays fixed values, cycling when exhausted. Used to script draws in tests.
type SequenceRNG struct {
	Values []float64
	next   int
}

func NewSequenceRNG(values ...float64) *SequenceRNG {
	return &SequenceRNG{Values: values}
}

func (s *SequenceRNG) Float64() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.next%len(s.Values)]
	s.next++
	return v
}

// Calls reports how many values have been consumed.
func (s *SequenceRNG) Calls() int { return s.next }
