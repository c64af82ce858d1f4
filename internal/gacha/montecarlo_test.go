package gacha

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonteCarloFirstEpicBoundedByPity(t *testing.T) {
	p := SimParams{
		Config:  DefaultConfig(),
		Weights: BaseWeights(),
		Pool:    scenarioPool(),
		Target:  TierEpic,
	}
	rep, err := RunMonteCarlo(p, GoalFirstTier, 2000, nil, NewSeededRNG(42))
	require.NoError(t, err)
	for _, v := range rep.Stats.Samples {
		require.LessOrEqual(t, v, 90)
		require.GreaterOrEqual(t, v, 1)
	}
	// plain 1% would average ~63 capped at 90; anything far outside means broken pity
	assert.Greater(t, rep.Stats.Mean, 30.0)
	assert.Less(t, rep.Stats.Mean, 70.0)
	assert.LessOrEqual(t, rep.Stats.P99, 90.0)
}

func TestMonteCarloFixedBudgetRates(t *testing.T) {
	cfg := Config{CommonFloor: DefaultCommonFloor}
	p := SimParams{
		Config:  cfg,
		Weights: BaseWeights(),
		Pool:    scenarioPool(),
		Target:  TierRare,
	}
	rep, err := RunMonteCarlo(p, GoalFixedBudget, 200, &SimBudget{NumDraws: 500}, NewSeededRNG(7))
	require.NoError(t, err)
	assert.Equal(t, 100000, rep.Pulls)
	assert.InDelta(t, 0.80, rep.TierRates[TierCommon], 0.01)
	assert.InDelta(t, 0.15, rep.TierRates[TierUncommon], 0.01)
	assert.InDelta(t, 0.05*500, rep.Stats.Mean, 2.5)
}

func TestMonteCarloFirstFeaturedCapped(t *testing.T) {
	banner := &Banner{ID: "none", FeaturedIDs: []string{"missing"}, Permanent: true}
	p := SimParams{
		Config:   DefaultConfig(),
		Weights:  BaseWeights(),
		Pool:     scenarioPool(),
		Banner:   banner,
		Target:   TierEpic,
		MaxPulls: 50,
	}
	rep, err := RunMonteCarlo(p, GoalFirstFeatured, 5, nil, NewSeededRNG(1))
	require.NoError(t, err)
	assert.Equal(t, 50.0, rep.Stats.Mean)
	assert.Zero(t, rep.FeaturedRate)
}

func TestMonteCarloBatchGuarantee(t *testing.T) {
	p := SimParams{
		Config:    Config{CommonFloor: DefaultCommonFloor},
		Weights:   TierWeights{100, 0, 0, 0},
		Pool:      scenarioPool(),
		Target:    TierUncommon,
		BatchSize: 10,
	}
	rep, err := RunMonteCarlo(p, GoalFirstTier, 50, nil, NewSeededRNG(3))
	require.NoError(t, err)
	assert.Equal(t, 10.0, rep.Stats.Mean)
	assert.Equal(t, 10.0, rep.Stats.P99)
}

func TestCalcStats(t *testing.T) {
	s := calcStats([]int{1, 2, 3, 4})
	assert.InDelta(t, 2.5, s.Mean, eps)
	assert.InDelta(t, 1.25, s.Var, eps)
	assert.InDelta(t, 2.5, s.P50, eps)
	assert.Equal(t, Stats{}, calcStats(nil))
	assert.Zero(t, mustReport(t).Pulls)
}

func mustReport(t *testing.T) Report {
	t.Helper()
	rep, err := RunMonteCarlo(SimParams{}, GoalFirstTier, 0, nil, nil)
	require.NoError(t, err)
	return rep
}
