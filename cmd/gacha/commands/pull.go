package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/Bla9k/font-and-flare-design-sub000/internal/cli"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/gacha"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/game"
)

var (
	pullCount     int
	pullStatePath string
	pullOverrides game.Overrides
)

var pullCmd = &cobra.Command{
	Use:   "pull <banner>",
	Short: "Resolve pulls on a banner",
	Long: `Resolve one or more pulls. With --state the pity counters are read from
and written back to a JSON file, so repeated runs behave like one player.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if pullCount < 1 {
			return fmt.Errorf("--count must be at least 1")
		}
		p, err := printer(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		t, err := now()
		if err != nil {
			return err
		}
		setup, err := loadBanner(cmd.Context(), args[0], pullOverrides)
		if err != nil {
			return err
		}
		if !setup.banner.IsActive(t) {
			return fmt.Errorf("banner %s is not active at %s", args[0], t.Format("2006-01-02 15:04"))
		}
		state, err := readState(pullStatePath)
		if err != nil {
			return err
		}

		e := gacha.NewEngine(setup.params.Engine, rng())
		var outs []gacha.PullOutcome
		if pullCount == 1 {
			var o gacha.PullOutcome
			o, state, err = e.ResolveOne(state, setup.pool, setup.params.Weights, &setup.banner, t)
			outs = []gacha.PullOutcome{o}
		} else {
			outs, state, err = e.ResolveBatch(pullCount, state, setup.pool, setup.params.Weights, &setup.banner, t)
		}
		if err != nil {
			return err
		}
		if err := writeState(pullStatePath, state); err != nil {
			return err
		}
		return p.Outcomes(cli.PullView{
			Banner:   args[0],
			Outcomes: outs,
			Pity:     state,
			Cost:     setup.params.Token.TokensForDraws(pullCount),
			Token:    setup.params.Token.Name,
		})
	},
}

func readState(path string) (gacha.PityState, error) {
	var st gacha.PityState
	if path == "" {
		return st, nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(b, &st); err != nil {
		return st, fmt.Errorf("%s: %w", path, err)
	}
	return st, nil
}

func writeState(path string, st gacha.PityState) error {
	if path == "" {
		return nil
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

func init() {
	pullCmd.Flags().IntVarP(&pullCount, "count", "n", 1, "Number of pulls; more than one applies the batch guarantee")
	pullCmd.Flags().StringVar(&pullStatePath, "state", "", "JSON file holding pity counters across runs")
	apply := overrideFlags(pullCmd, &pullOverrides)
	pullCmd.PreRun = func(*cobra.Command, []string) { apply() }
	rootCmd.AddCommand(pullCmd)
}
