package commands

import (
	"github.com/spf13/cobra"

	"github.com/Bla9k/font-and-flare-design-sub000/internal/cli"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/game"
)

var bannersCmd = &cobra.Command{
	Use:   "banners",
	Short: "List configured banners",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := printer(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		t, err := now()
		if err != nil {
			return err
		}
		all, err := game.NewLoader(rulesDir).LoadAll()
		if err != nil {
			return err
		}
		rows := make([]cli.BannerRow, 0, len(all))
		for _, id := range game.SortedIDs(all) {
			r := all[id]
			rows = append(rows, cli.BannerRow{
				ID:       id,
				Name:     r.Banner.Name,
				Active:   r.Banner.IsActive(t),
				Boost:    r.Banner.Boost,
				Featured: r.Banner.FeaturedIDs,
				Weights:  r.Params.Weights,
				Pity:     r.Params.Engine.Thresholds,
			})
		}
		return p.Banners(rows)
	},
}

func init() {
	rootCmd.AddCommand(bannersCmd)
}
