package gacha

import "math"

// TierWeights is the probability mass per tier on a 100-point scale.
// It is a value type: every operation returns a fresh table.
type TierWeights [NumTiers]float64

const (
	// WeightTotal is the scale every table is normalized to.
	WeightTotal = 100.0
	// DefaultCommonFloor is the lowest COMMON weight a boost may push to.
	DefaultCommonFloor = 10.0
)

// nominalBoostSplit is used when a boost hits a table with no upper-tier mass at all.
var nominalBoostSplit = TierWeights{0, 15, 4, 1}

// BaseWeights returns the default 80/15/4/1 table.
func BaseWeights() TierWeights {
	return TierWeights{80, 15, 4, 1}
}

func (w TierWeights) Sum() float64 {
	var s float64
	for _, v := range w {
		s += v
	}
	return s
}

// Normalize rescales to WeightTotal. Negative or non-finite entries count as zero;
// a table with no positive mass falls back to BaseWeights.
func (w TierWeights) Normalize() TierWeights {
	var out TierWeights
	for t, v := range w {
		if isFinite(v) && v > 0 {
			out[t] = v
		}
	}
	s := out.Sum()
	if s <= 0 {
		return BaseWeights()
	}
	if s == WeightTotal {
		return out
	}
	k := WeightTotal / s
	for t := range out {
		out[t] *= k
	}
	return out
}

// Rates returns the per-tier probability in [0,1].
func (w TierWeights) Rates() [NumTiers]float64 {
	n := w.Normalize()
	var out [NumTiers]float64
	for t, v := range n {
		out[t] = v / WeightTotal
	}
	return out
}

// ApplyBoost redistributes mass toward the upper tiers using DefaultCommonFloor.
func ApplyBoost(base TierWeights, boost float64) TierWeights {
	return ApplyBoostWithFloor(base, boost, DefaultCommonFloor)
}

// ApplyBoostWithFloor implements the boost rule:
//   - boost <= 1 (or non-finite) returns base unchanged.
//   - every tier above COMMON gains weight*(boost-1); COMMON pays for the total gain
//     but never drops below floor (or below its own base weight, if that is lower).
//   - if the upper tiers carry no mass, the gain follows nominalBoostSplit.
//   - the upper tiers are then rescaled uniformly so the table sums to WeightTotal.
func ApplyBoostWithFloor(base TierWeights, boost, floor float64) TierWeights {
	if !isFinite(boost) || boost <= 1 {
		return base
	}
	w := base.Normalize()
	m := boost - 1

	var gain TierWeights
	if upperMass(w) <= 0 {
		for t := TierUncommon; t <= TierEpic; t++ {
			gain[t] = nominalBoostSplit[t] * m
		}
	} else {
		for t := TierUncommon; t <= TierEpic; t++ {
			gain[t] = w[t] * m
		}
	}

	out := w
	for t := TierUncommon; t <= TierEpic; t++ {
		out[t] += gain[t]
	}
	out[TierCommon] = clampCommon(w[TierCommon]-gain.Sum(), w[TierCommon], floor)
	return fillUpper(out)
}

func upperMass(w TierWeights) float64 {
	return w[TierUncommon] + w[TierRare] + w[TierEpic]
}

// clampCommon keeps COMMON at or above min(floor, base).
func clampCommon(v, base, floor float64) float64 {
	floor = math.Max(0, math.Min(floor, WeightTotal))
	lower := math.Min(floor, base)
	if v < lower {
		return lower
	}
	return v
}

// fillUpper rescales the upper tiers so that together with COMMON the table sums to WeightTotal.
func fillUpper(w TierWeights) TierWeights {
	target := WeightTotal - w[TierCommon]
	up := upperMass(w)
	if up <= 0 || target <= 0 {
		w[TierCommon] = WeightTotal
		w[TierUncommon], w[TierRare], w[TierEpic] = 0, 0, 0
		return w
	}
	k := target / up
	for t := TierUncommon; t <= TierEpic; t++ {
		w[t] *= k
	}
	return w
}
