package gacha

import (
	"errors"
	"fmt"
)

// Easing specifies how the weight ramps up as we approach pity.
type Easing string

const (
	EaseLinear     Easing = "linear"
	EaseOutQuad    Easing = "easeOutQuad"
	EaseInOutCubic Easing = "easeInOutCubic"
)

var ErrSoftPityConfig = errors.New("invalid soft pity config")

// SoftPity defines the ramp for one tier before its hard pity.
// Example: pity=90, StartAt=74, Target=0.5 → from counter 74 up to 89 the tier's
// probability ramps from its base rate to 50%.
type SoftPity struct {
	StartAt int     `json:"start_at" yaml:"start_at"`
	Target  float64 `json:"target" yaml:"target"` // probability at counter (pity-1), in (0,1)
	Easing  Easing  `json:"easing,omitempty" yaml:"easing,omitempty"`
}

// SoftPityTable holds an optional ramp per tier.
type SoftPityTable [NumTiers]*SoftPity

// Validate checks the ramp against its tier's hard pity.
func (c *SoftPity) Validate(pity int) error {
	if c == nil {
		return nil
	}
	if pity <= 1 {
		return fmt.Errorf("%w: hard pity %d leaves no room to ramp", ErrSoftPityConfig, pity)
	}
	if !(c.Target > 0 && c.Target < 1) {
		return fmt.Errorf("%w: target must be in (0,1)", ErrSoftPityConfig)
	}
	// Ramp ends at (pity-1). StartAt must be < (pity-1) to have room to ramp.
	if c.StartAt < 0 || c.StartAt >= pity-1 {
		return fmt.Errorf("%w: start_at must satisfy 0 <= start_at < %d", ErrSoftPityConfig, pity-1)
	}
	switch c.Easing {
	case "", EaseLinear, EaseOutQuad, EaseInOutCubic:
	default:
		return fmt.Errorf("%w: unknown easing %q", ErrSoftPityConfig, c.Easing)
	}
	return nil
}

// Validate checks every configured ramp against the thresholds.
func (st SoftPityTable) Validate(th PityThresholds) error {
	for t, c := range st {
		if c == nil {
			continue
		}
		if Tier(t) == TierCommon {
			return fmt.Errorf("%w: common has no soft pity", ErrSoftPityConfig)
		}
		if err := c.Validate(th[t]); err != nil {
			return fmt.Errorf("%s: %w", Tier(t), err)
		}
	}
	return nil
}

func ease(e Easing, t float64) float64 {
	switch e {
	case EaseOutQuad:
		// f(t) = 1 - (1 - t)^2
		return 1 - (1-t)*(1-t)
	case EaseInOutCubic:
		// accelerate then decelerate
		if t < 0.5 {
			return 4 * t * t * t
		}
		return 1 - (-2*t+2)*(-2*t+2)*(-2*t+2)/2
	default:
		return t
	}
}

// rampWeight returns the tier weight for the given counter:
// base before StartAt, then eased toward Target*WeightTotal at counter (pity-1).
func (c *SoftPity) rampWeight(base float64, count, pity int) float64 {
	if c == nil || count < c.StartAt {
		return base
	}
	end := pity - 1
	length := float64(end - c.StartAt)
	if length <= 0 {
		return base
	}
	t := float64(count-c.StartAt) / length
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	target := c.Target * WeightTotal
	return base + (target-base)*ease(c.Easing, t)
}

// ApplySoftPity raises ramping tiers for the current counters, paying from COMMON
// down to the floor. Higher tiers are served first. The total is preserved.
func ApplySoftPity(w TierWeights, s PityState, th PityThresholds, soft SoftPityTable, floor float64) TierWeights {
	out := w
	for t := TierEpic; t > TierCommon; t-- {
		c := soft[t]
		if c == nil || th[t] <= 1 {
			continue
		}
		want := c.rampWeight(w[t], s.Counters[t], th[t])
		if want <= out[t] {
			continue
		}
		common := clampCommon(out[TierCommon]-(want-out[t]), out[TierCommon], floor)
		out[t] += out[TierCommon] - common
		out[TierCommon] = common
	}
	return out
}
