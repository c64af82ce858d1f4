package gacha

import (
	"math"
	"sort"
	"time"
)

// TrialGoal selects what the simulation measures per trial.
type TrialGoal string

const (
	// Pulls until the first result at or above SimParams.Target.
	GoalFirstTier TrialGoal = "first_tier"
	// Pulls until the first featured result at or above SimParams.Target.
	GoalFirstFeatured TrialGoal = "first_featured"
	// Given a fixed budget, count results at or above SimParams.Target.
	GoalFixedBudget TrialGoal = "fixed_budget"
)

// DefaultMaxPulls caps open-ended goals when the pool can never satisfy them.
const DefaultMaxPulls = 10000

// SimParams describes the mechanics for one simulation run.
type SimParams struct {
	Config  Config
	Weights TierWeights
	Pool    TierPool
	Banner  *Banner
	Now     time.Time

	Target    Tier      // tier the goal measures; zero value is COMMON
	Cushion   PityState // carry-over pity when entering this banner
	BatchSize int       // pulls per request; >1 enables the batch guarantee
	MaxPulls  int       // cap for open-ended goals; <=0 means DefaultMaxPulls
}

// SimBudget controls the number of pulls used in GoalFixedBudget.
type SimBudget struct {
	NumDraws int // number of pulls in one trial
}

// Stats summarizes simulation results.
type Stats struct {
	Mean   float64
	Var    float64
	StdDev float64
	P50    float64
	P90    float64
	P99    float64
	// Optional: raw samples if caller needs histograms/exports
	Samples []int `json:"-"`
}

// Report bundles the goal metric with observed rates over every simulated pull.
type Report struct {
	Stats        Stats
	TierRates    [NumTiers]float64 // share of all pulls per tier
	FeaturedRate float64           // share of all pulls that were featured
	Pulls        int               // total pulls simulated
}

// calcStats computes mean/variance/percentiles for integer samples.
func calcStats(xs []int) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	var sum float64
	for _, v := range xs {
		sum += float64(v)
	}
	mean := sum / float64(n)

	// variance (population)
	var acc float64
	for _, v := range xs {
		d := float64(v) - mean
		acc += d * d
	}
	variance := acc / float64(n)

	cp := append([]int(nil), xs...)
	sort.Ints(cp)
	percentile := func(p float64) float64 {
		if n == 1 || p <= 0 {
			return float64(cp[0])
		}
		if p >= 1 {
			return float64(cp[n-1])
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return float64(cp[i])
		}
		return float64(cp[i])*(1-f) + float64(cp[i+1])*f
	}

	return Stats{
		Mean:    mean,
		Var:     variance,
		StdDev:  math.Sqrt(variance),
		P50:     percentile(0.50),
		P90:     percentile(0.90),
		P99:     percentile(0.99),
		Samples: xs,
	}
}

// tally accumulates outcome counts across trials.
type tally struct {
	tiers    [NumTiers]int
	featured int
	pulls    int
}

func (t *tally) add(o PullOutcome) {
	t.tiers[o.Tier]++
	if o.WasFeatured {
		t.featured++
	}
	t.pulls++
}

func (p SimParams) matches(goal TrialGoal, o PullOutcome) bool {
	if o.Tier < p.Target {
		return false
	}
	if goal == GoalFirstFeatured {
		return o.WasFeatured
	}
	return true
}

// simulateOne returns the primary metric for one trial depending on the goal.
func simulateOne(e *Engine, p SimParams, goal TrialGoal, budget *SimBudget, tl *tally) (int, error) {
	batch := p.BatchSize
	if batch <= 0 {
		batch = 1
	}
	limit := p.MaxPulls
	if limit <= 0 {
		limit = DefaultMaxPulls
	}
	if goal == GoalFixedBudget {
		if budget == nil || budget.NumDraws <= 0 {
			return 0, nil
		}
		limit = budget.NumDraws
	}

	state := p.Cushion
	pulls, count := 0, 0
	for pulls < limit {
		n := batch
		if rem := limit - pulls; n > rem {
			n = rem
		}
		outs, next, err := pullN(e, n, state, p)
		if err != nil {
			return 0, err
		}
		state = next
		for _, o := range outs {
			pulls++
			tl.add(o)
			if !p.matches(goal, o) {
				continue
			}
			if goal != GoalFixedBudget {
				return pulls, nil
			}
			count++
		}
	}
	if goal == GoalFixedBudget {
		return count, nil
	}
	return limit, nil
}

// pullN resolves one request of n pulls: a lone pull skips the batch guarantee,
// larger requests go through ResolveBatch and get it.
func pullN(e *Engine, n int, state PityState, p SimParams) ([]PullOutcome, PityState, error) {
	if n > 1 {
		return e.ResolveBatch(n, state, p.Pool, p.Weights, p.Banner, p.Now)
	}
	o, next, err := e.ResolveOne(state, p.Pool, p.Weights, p.Banner, p.Now)
	if err != nil {
		return nil, state, err
	}
	return []PullOutcome{o}, next, nil
}

// RunMonteCarlo repeats trials and returns summary stats.
// goal determines what metric is recorded per trial. A nil rng uses DefaultRNG.
func RunMonteCarlo(p SimParams, goal TrialGoal, trials int, budget *SimBudget, rng RandomSource) (Report, error) {
	if trials <= 0 {
		return Report{}, nil
	}
	if err := p.Config.Validate(); err != nil {
		return Report{}, err
	}
	e := NewEngine(p.Config, rng)
	var tl tally
	samples := make([]int, trials)
	for i := 0; i < trials; i++ {
		v, err := simulateOne(e, p, goal, budget, &tl)
		if err != nil {
			return Report{}, err
		}
		samples[i] = v
	}
	rep := Report{Stats: calcStats(samples), Pulls: tl.pulls}
	if tl.pulls > 0 {
		for t, c := range tl.tiers {
			rep.TierRates[t] = float64(c) / float64(tl.pulls)
		}
		rep.FeaturedRate = float64(tl.featured) / float64(tl.pulls)
	}
	return rep, nil
}
