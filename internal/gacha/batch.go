package gacha

import "time"

// BatchFloor is the minimum tier a batch guarantees somewhere in its results.
const BatchFloor = TierUncommon

// ResolveBatch runs n pulls in order, threading pity from one to the next.
// If none of the n results reaches BatchFloor, the last one is replaced by a fresh pick
// from the BatchFloor-or-higher pool (same featured coin as a single pull). The check
// runs once, after all n pulls. With no such candidates the batch is returned as drawn.
//
// n <= 0 yields an empty batch and the unchanged state. On error the input state is returned.
func (e *Engine) ResolveBatch(n int, state PityState, pool TierPool, weights TierWeights, banner *Banner, now time.Time) ([]PullOutcome, PityState, error) {
	if n <= 0 {
		return nil, state, nil
	}
	outs := make([]PullOutcome, 0, n)
	cur := state
	for i := 0; i < n; i++ {
		o, next, err := e.ResolveOne(cur, pool, weights, banner, now)
		if err != nil {
			return nil, state, err
		}
		outs = append(outs, o)
		cur = next
	}

	if reachedFloor(outs) {
		return outs, cur, nil
	}
	if !banner.IsActive(now) {
		banner = nil
	}
	if o, ok := e.guaranteePick(pool, banner); ok {
		outs[n-1] = o
		// the granted reward satisfies the guarantees it reaches
		cur = clearThrough(cur, o.Tier)
	}
	return outs, cur, nil
}

func reachedFloor(outs []PullOutcome) bool {
	for _, o := range outs {
		if o.Tier >= BatchFloor {
			return true
		}
	}
	return false
}

// guaranteePick draws uniformly from every item at BatchFloor or above.
func (e *Engine) guaranteePick(pool TierPool, banner *Banner) (PullOutcome, bool) {
	var (
		cands []CatalogItem
		tiers []Tier
	)
	for t := TierEpic; t >= BatchFloor; t-- {
		for _, it := range pool[t] {
			cands = append(cands, it)
			tiers = append(tiers, t)
		}
	}
	if len(cands) == 0 {
		return PullOutcome{}, false
	}
	idx, featured := pickFrom(cands, banner.featuredSet(), e.rng)
	return PullOutcome{Item: cands[idx], Tier: tiers[idx], WasFeatured: featured}, true
}
