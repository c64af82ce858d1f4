package gacha

import "time"

// Config holds the engine rules that do not change per pull.
type Config struct {
	Thresholds  PityThresholds
	SoftPity    SoftPityTable
	CommonFloor float64
}

// DefaultConfig returns hard pity 90/10, no soft pity and the default COMMON floor.
func DefaultConfig() Config {
	return Config{
		Thresholds:  DefaultPityThresholds(),
		CommonFloor: DefaultCommonFloor,
	}
}

// Validate checks the soft pity ramps against the hard thresholds.
func (c Config) Validate() error {
	return c.SoftPity.Validate(c.Thresholds)
}

// PullOutcome is the result of one pull.
type PullOutcome struct {
	Item        CatalogItem `json:"item"`
	Tier        Tier        `json:"tier"`
	WasFeatured bool        `json:"was_featured"`
	Forced      bool        `json:"forced,omitempty"` // granted by hard pity
}

// Engine resolves pulls. It keeps no per-player state: pity comes in and goes out by value,
// so one Engine may serve many callers as long as its RandomSource is safe for them.
type Engine struct {
	cfg Config
	rng RandomSource
}

// NewEngine builds an engine. A nil rng uses DefaultRNG.
func NewEngine(cfg Config, rng RandomSource) *Engine {
	if rng == nil {
		rng = DefaultRNG()
	}
	return &Engine{cfg: cfg, rng: rng}
}

func (e *Engine) Config() Config { return e.cfg }

// EffectiveWeights returns the table a pull would draw from: boosted by an active banner,
// then shaped by soft pity for the given state.
func (e *Engine) EffectiveWeights(state PityState, weights TierWeights, banner *Banner, now time.Time) TierWeights {
	w := weights
	if banner.IsActive(now) {
		w = ApplyBoostWithFloor(w, banner.Boost, e.cfg.CommonFloor)
	}
	w = w.Normalize()
	return ApplySoftPity(w, state, e.cfg.Thresholds, e.cfg.SoftPity, e.cfg.CommonFloor)
}

// ResolveOne performs a single pull:
//  1. weights are boosted by the banner if it is active at now;
//  2. a triggered hard pity picks the tier, highest first;
//  3. otherwise one uniform draw walks the cumulative weights from EPIC down;
//  4. an empty tier falls back to lower tiers, then higher ones;
//  5. featured items in the candidate set win a fair coin flip;
//  6. pity advances by the tier actually granted.
//
// The input state is never modified; the updated copy is returned.
func (e *Engine) ResolveOne(state PityState, pool TierPool, weights TierWeights, banner *Banner, now time.Time) (PullOutcome, PityState, error) {
	if err := banner.Validate(); err != nil {
		return PullOutcome{}, state, err
	}
	if !banner.IsActive(now) {
		banner = nil
	}

	tier, forced := ForcedTier(state, e.cfg.Thresholds)
	if !forced {
		tier = selectTier(e.EffectiveWeights(state, weights, banner, now), e.rng)
	}

	got, cands := candidates(pool, tier)
	if len(cands) == 0 {
		return PullOutcome{}, state, &NoCandidatesError{Tier: tier}
	}
	idx, featured := pickFrom(cands, banner.featuredSet(), e.rng)

	out := PullOutcome{
		Item:        cands[idx],
		Tier:        got,
		WasFeatured: featured,
		Forced:      forced && got == tier,
	}
	return out, Advance(state, got), nil
}

// selectTier maps one uniform draw onto the cumulative intervals, highest tier first.
func selectTier(w TierWeights, rng RandomSource) Tier {
	total := w.Sum()
	if total <= 0 {
		return TierCommon
	}
	x := rng.Float64() * total
	var acc float64
	for t := TierEpic; t >= TierCommon; t-- {
		acc += w[t]
		if x < acc {
			return t
		}
	}
	// x == total only through float rounding
	return TierCommon
}

// candidates returns the first non-empty tier walking down from t, then up.
func candidates(pool TierPool, t Tier) (Tier, []CatalogItem) {
	for i := t; i >= TierCommon; i-- {
		if len(pool[i]) > 0 {
			return i, pool[i]
		}
	}
	for i := t + 1; i <= TierEpic; i++ {
		if len(pool[i]) > 0 {
			return i, pool[i]
		}
	}
	return t, nil
}

// pickFrom chooses an index in cands. If some candidates are featured, a fair coin
// decides whether the pick is restricted to them.
func pickFrom(cands []CatalogItem, featured map[string]struct{}, rng RandomSource) (int, bool) {
	var hits []int
	for i, it := range cands {
		if _, ok := featured[it.ID]; ok {
			hits = append(hits, i)
		}
	}
	if len(hits) > 0 {
		if won, _ := Draw(featuredOdds, rng); won {
			return hits[pickIndex(len(hits), rng)], true
		}
	}
	i := pickIndex(len(cands), rng)
	_, isFeatured := featured[cands[i].ID]
	return i, isFeatured
}
