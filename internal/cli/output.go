// Package cli renders engine results for the command-line tool.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/Bla9k/font-and-flare-design-sub000/internal/gacha"
)

// OutputFormat specifies the output format for CLI commands
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Printer writes results in one format.
type Printer struct {
	W      io.Writer
	Format OutputFormat
}

func (p Printer) structured(v any) (bool, error) {
	switch p.Format {
	case FormatJSON:
		enc := json.NewEncoder(p.W)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(p.W)
		defer enc.Close()
		enc.SetIndent(2)
		return true, enc.Encode(v)
	case FormatTable:
		return false, nil
	default:
		return true, fmt.Errorf("unsupported format: %s", p.Format)
	}
}

// PullView is what the pull command prints.
type PullView struct {
	Banner   string              `json:"banner" yaml:"banner"`
	Outcomes []gacha.PullOutcome `json:"outcomes" yaml:"outcomes"`
	Pity     gacha.PityState     `json:"pity" yaml:"pity"`
	Cost     int                 `json:"cost" yaml:"cost"`
	Token    string              `json:"token,omitempty" yaml:"token,omitempty"`
}

// Outcomes prints one row per pull.
func (p Printer) Outcomes(v PullView) error {
	if done, err := p.structured(v); done {
		return err
	}
	table := tablewriter.NewWriter(p.W)
	table.Header("#", "Item", "Tier", "Featured", "Pity", "Title")
	for i, o := range v.Outcomes {
		title := o.Item.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		_ = table.Append(
			strconv.Itoa(i+1),
			o.Item.ID,
			o.Tier.Label(),
			yesNo(o.WasFeatured),
			yesNo(o.Forced),
			title,
		)
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(p.W, "pulls=%d since_epic=%d since_rare=%d cost=%d %s\n",
		v.Pity.Pulls, v.Pity.Since(gacha.TierEpic), v.Pity.Since(gacha.TierRare), v.Cost, v.Token)
	return err
}

// Report prints a Monte Carlo summary.
func (p Printer) Report(rep gacha.Report, goal gacha.TrialGoal, trials int) error {
	if done, err := p.structured(map[string]any{
		"goal":          goal,
		"trials":        trials,
		"stats":         rep.Stats,
		"tier_rates":    rep.TierRates,
		"featured_rate": rep.FeaturedRate,
		"pulls":         rep.Pulls,
	}); done {
		return err
	}
	stats := tablewriter.NewWriter(p.W)
	stats.Header("Goal", "Trials", "Mean", "StdDev", "P50", "P90", "P99")
	_ = stats.Append(
		string(goal),
		strconv.Itoa(trials),
		ff(rep.Stats.Mean),
		ff(rep.Stats.StdDev),
		ff(rep.Stats.P50),
		ff(rep.Stats.P90),
		ff(rep.Stats.P99),
	)
	if err := stats.Render(); err != nil {
		return err
	}

	rates := tablewriter.NewWriter(p.W)
	rates.Header("Tier", "Observed")
	for _, t := range gacha.AllTiers() {
		_ = rates.Append(t.Label(), pct(rep.TierRates[t]))
	}
	_ = rates.Append("featured", pct(rep.FeaturedRate))
	return rates.Render()
}

// ClassifiedItem pairs an item with its tier.
type ClassifiedItem struct {
	ID       string     `json:"id" yaml:"id"`
	Score    *float64   `json:"score,omitempty" yaml:"score,omitempty"`
	Category string     `json:"category,omitempty" yaml:"category,omitempty"`
	Tier     gacha.Tier `json:"tier" yaml:"tier"`
	Featured bool       `json:"featured,omitempty" yaml:"featured,omitempty"`
}

// Classified prints every item with its tier, then per-tier totals.
func (p Printer) Classified(items []ClassifiedItem) error {
	if done, err := p.structured(items); done {
		return err
	}
	table := tablewriter.NewWriter(p.W)
	table.Header("Item", "Score", "Category", "Tier", "Featured")
	var counts [gacha.NumTiers]int
	for _, it := range items {
		s := "-"
		if it.Score != nil {
			s = ff(*it.Score)
		}
		counts[it.Tier]++
		feat := ""
		if it.Featured {
			feat = "*"
		}
		_ = table.Append(it.ID, s, it.Category, it.Tier.Label(), feat)
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(p.W, "R=%d SR=%d SSR=%d UR=%d\n", counts[0], counts[1], counts[2], counts[3])
	return err
}

// BannerRow is one line of the banners listing.
type BannerRow struct {
	ID       string               `json:"id" yaml:"id"`
	Name     string               `json:"name" yaml:"name"`
	Active   bool                 `json:"active" yaml:"active"`
	Boost    float64              `json:"boost,omitempty" yaml:"boost,omitempty"`
	Featured []string             `json:"featured,omitempty" yaml:"featured,omitempty"`
	Weights  gacha.TierWeights    `json:"weights" yaml:"weights"`
	Pity     gacha.PityThresholds `json:"pity" yaml:"pity"`
}

// Banners prints the banner listing.
func (p Printer) Banners(rows []BannerRow) error {
	if done, err := p.structured(rows); done {
		return err
	}
	table := tablewriter.NewWriter(p.W)
	table.Header("Banner", "Name", "Active", "Boost", "Featured", "R/SR/SSR/UR", "Pity SSR/UR")
	for _, b := range rows {
		_ = table.Append(
			b.ID,
			b.Name,
			yesNo(b.Active),
			ff(b.Boost),
			strconv.Itoa(len(b.Featured)),
			fmt.Sprintf("%s/%s/%s/%s", ff(b.Weights[0]), ff(b.Weights[1]), ff(b.Weights[2]), ff(b.Weights[3])),
			fmt.Sprintf("%d/%d", b.Pity[gacha.TierRare], b.Pity[gacha.TierEpic]),
		)
	}
	return table.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

func ff(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func pct(v float64) string { return strconv.FormatFloat(v*100, 'f', 3, 64) + "%" }
