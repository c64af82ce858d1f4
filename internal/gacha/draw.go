package gacha

import "errors"

var ErrInvalidProb = errors.New("invalid probability p; must be 0..1")

// featuredOdds is the chance that a pull with a featured intersection lands on a featured item.
const featuredOdds = 0.5

// Draw under p, return if it is hit
// p <=0 => no hit. p>= 1 => must hit. otherwise, rng.Float64() < p
func Draw(p float64, rng RandomSource) (bool, error) {
	if err := validateProb(p); err != nil {
		return false, err
	}
	if p <= 0 {
		return false, nil
	}
	if p >= 1 {
		return true, nil
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	return rng.Float64() < p, nil
}

// pickIndex maps one uniform draw onto [0, n).
func pickIndex(n int, rng RandomSource) int {
	if n <= 1 {
		return 0
	}
	i := int(rng.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
