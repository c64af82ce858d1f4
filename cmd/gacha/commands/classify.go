package commands

import (
	"github.com/spf13/cobra"

	"github.com/Bla9k/font-and-flare-design-sub000/internal/cli"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/gacha"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/game"
)

var classifyBanner string

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Show the tier of every catalog item",
	Long: `Classify the catalog with the thresholds of the default rules, or of
one banner when --banner is given. With a banner, its featured items are marked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := printer(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		raw, params, err := game.NewLoader(rulesDir).Resolve(classifyBanner, game.Overrides{})
		if err != nil {
			return err
		}
		items, err := loadItems(cmd.Context())
		if err != nil {
			return err
		}
		var banner *gacha.Banner
		if classifyBanner != "" {
			b := game.BannerFromRaw(classifyBanner, raw)
			banner = &b
		}
		out := make([]cli.ClassifiedItem, 0, len(items))
		for _, it := range items {
			out = append(out, cli.ClassifiedItem{
				ID:       it.ID,
				Score:    it.Score,
				Category: it.Category,
				Tier:     params.Classifier.Classify(it),
				Featured: banner.IsFeatured(it.ID),
			})
		}
		return p.Classified(out)
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyBanner, "banner", "", "Use this banner's classifier thresholds")
	rootCmd.AddCommand(classifyCmd)
}
