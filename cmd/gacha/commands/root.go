package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Bla9k/font-and-flare-design-sub000/internal/catalog"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/cli"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/gacha"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/game"
)

var (
	// Global flags
	rulesDir    string
	catalogPath string
	format      string
	at          string
	seed        uint64
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gacha",
	Short: "Inspect and simulate gacha banners offline",
	Long: `gacha resolves pulls against a local catalog export and rules directory,
without a running server.

Examples:
  gacha banners --rules rules
  gacha classify --catalog catalog.yaml
  gacha pull spring --count 10 --state pity.json
  gacha simulate spring --goal first_tier --target epic --trials 20000 --seed 7`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rulesDir, "rules", "rules", "Rules directory holding default.yaml and banners/")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "catalog.yaml", "Catalog export (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "table", "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&at, "at", "", "Evaluate banners at this RFC 3339 time instead of now")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "Seed for replayable draws; 0 uses crypto randomness")
}

func printer(w io.Writer) (cli.Printer, error) {
	f, err := cli.ParseFormat(format)
	if err != nil {
		return cli.Printer{}, err
	}
	return cli.Printer{W: w, Format: f}, nil
}

func now() (time.Time, error) {
	if at == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return time.Time{}, fmt.Errorf("--at: %w", err)
	}
	return t, nil
}

func rng() gacha.RandomSource {
	if seed == 0 {
		return gacha.DefaultRNG()
	}
	return gacha.NewSeededRNG(seed)
}

func loadItems(ctx context.Context) ([]gacha.CatalogItem, error) {
	return catalog.NewFileSource(catalogPath).Items(ctx)
}

// bannerSetup is everything a pull or simulation needs for one banner.
type bannerSetup struct {
	banner gacha.Banner
	params game.EngineParams
	pool   gacha.TierPool
}

func loadBanner(ctx context.Context, id string, o game.Overrides) (bannerSetup, error) {
	raw, params, err := game.NewLoader(rulesDir).Resolve(id, o)
	if err != nil {
		return bannerSetup{}, err
	}
	items, err := loadItems(ctx)
	if err != nil {
		return bannerSetup{}, err
	}
	b := game.BannerFromRaw(id, raw)
	pool := gacha.BuildTierPool(items, params.Classifier)
	return bannerSetup{
		banner: b,
		params: params,
		pool:   gacha.FilterCategories(pool, b.Categories),
	}, nil
}

// overrideFlags registers the rule overrides shared by pull and simulate.
func overrideFlags(cmd *cobra.Command, o *game.Overrides) func() {
	var (
		boost, floor float64
		epic, rare   int
	)
	cmd.Flags().Float64Var(&boost, "boost", 0, "Override the banner boost")
	cmd.Flags().Float64Var(&floor, "common-floor", 0, "Override the COMMON floor")
	cmd.Flags().IntVar(&epic, "epic-pity", 0, "Override the EPIC hard pity")
	cmd.Flags().IntVar(&rare, "rare-pity", 0, "Override the RARE hard pity")
	// only flags the user actually set become overrides
	return func() {
		if cmd.Flags().Changed("boost") {
			o.Boost = &boost
		}
		if cmd.Flags().Changed("common-floor") {
			o.CommonFloor = &floor
		}
		if cmd.Flags().Changed("epic-pity") {
			o.EpicPity = &epic
		}
		if cmd.Flags().Changed("rare-pity") {
			o.RarePity = &rare
		}
	}
}
