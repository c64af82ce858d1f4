package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bla9k/font-and-flare-design-sub000/internal/gacha"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/game"
)

var (
	simTrials    int
	simGoal      string
	simTarget    string
	simBudget    int
	simBatch     int
	simMaxPulls  int
	simOverrides game.Overrides
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <banner>",
	Short: "Estimate pull costs with Monte Carlo trials",
	Long: `Run repeated trials against a banner and summarize the results.

Goals:
  first_tier      pulls until the first result at or above --target
  first_featured  pulls until the first featured result at or above --target
  fixed_budget    results at or above --target within --budget pulls`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := printer(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		t, err := now()
		if err != nil {
			return err
		}
		target, err := gacha.ParseTier(simTarget)
		if err != nil {
			return fmt.Errorf("--target: %w", err)
		}
		goal := gacha.TrialGoal(simGoal)
		switch goal {
		case gacha.GoalFirstTier, gacha.GoalFirstFeatured, gacha.GoalFixedBudget:
		default:
			return fmt.Errorf("unknown goal %q", simGoal)
		}

		setup, err := loadBanner(cmd.Context(), args[0], simOverrides)
		if err != nil {
			return err
		}
		params := gacha.SimParams{
			Config:    setup.params.Engine,
			Weights:   setup.params.Weights,
			Pool:      setup.pool,
			Banner:    &setup.banner,
			Now:       t,
			Target:    target,
			BatchSize: simBatch,
			MaxPulls:  simMaxPulls,
		}
		rep, err := gacha.RunMonteCarlo(params, goal, simTrials, &gacha.SimBudget{NumDraws: simBudget}, rng())
		if err != nil {
			return err
		}
		return p.Report(rep, goal, simTrials)
	},
}

func init() {
	simulateCmd.Flags().IntVar(&simTrials, "trials", 10000, "Number of trials")
	simulateCmd.Flags().StringVar(&simGoal, "goal", string(gacha.GoalFirstTier), "first_tier, first_featured or fixed_budget")
	simulateCmd.Flags().StringVar(&simTarget, "target", "epic", "Tier the goal measures (common, uncommon, rare, epic or R/SR/SSR/UR)")
	simulateCmd.Flags().IntVar(&simBudget, "budget", 100, "Pulls per trial for fixed_budget")
	simulateCmd.Flags().IntVar(&simBatch, "batch", 1, "Pulls per request; 10 models ten-pulls with their guarantee")
	simulateCmd.Flags().IntVar(&simMaxPulls, "max-pulls", gacha.DefaultMaxPulls, "Cap for open-ended goals")
	apply := overrideFlags(simulateCmd, &simOverrides)
	simulateCmd.PreRun = func(*cobra.Command, []string) { apply() }
	rootCmd.AddCommand(simulateCmd)
}
