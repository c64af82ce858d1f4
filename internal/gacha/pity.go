package gacha

// PityThresholds holds the hard pity per tier; 0 means the tier carries no guarantee.
// A threshold of 90 makes the 90th pull since the last hit the guaranteeing one.
type PityThresholds [NumTiers]int

// DefaultPityThresholds guarantees an EPIC within 90 pulls and a RARE within 10.
func DefaultPityThresholds() PityThresholds {
	return PityThresholds{TierRare: 10, TierEpic: 90}
}

// PityState counts pulls since the last result at or above each tier.
// It is passed and returned by value; the engine never mutates a caller's copy.
type PityState struct {
	Counters [NumTiers]int `json:"counters"`
	Pulls    int           `json:"pulls"` // lifetime pulls, informational
}

// Since returns the counter for tier t.
func (s PityState) Since(t Tier) int {
	if !t.Valid() {
		return 0
	}
	return s.Counters[t]
}

// ShouldForce is true when the next pull is the one that must reach tier t.
func ShouldForce(s PityState, th PityThresholds, t Tier) bool {
	if !t.Valid() || th[t] <= 0 {
		return false
	}
	return s.Counters[t] >= th[t]-1
}

// ForcedTier returns the highest tier whose guarantee triggers on the next pull.
func ForcedTier(s PityState, th PityThresholds) (Tier, bool) {
	for t := TierEpic; t >= TierCommon; t-- {
		if ShouldForce(s, th, t) {
			return t, true
		}
	}
	return TierCommon, false
}

// Advance records one pull that produced resolved:
// every counter increments, then every tier <= resolved resets to 0.
func Advance(s PityState, resolved Tier) PityState {
	out := s
	out.Pulls++
	for t := range out.Counters {
		out.Counters[t]++
	}
	return clearThrough(out, resolved)
}

// clearThrough zeroes counters for tiers <= t without counting a pull.
func clearThrough(s PityState, t Tier) PityState {
	for i := TierCommon; i <= t && i <= TierEpic; i++ {
		s.Counters[i] = 0
	}
	return s
}
