package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Bla9k/font-and-flare-design-sub000/internal/gacha"
)

func sampleView() PullView {
	return PullView{
		Banner: "spring",
		Outcomes: []gacha.PullOutcome{
			{Item: gacha.CatalogItem{ID: "5114", Title: "Dune"}, Tier: gacha.TierEpic, WasFeatured: true},
			{Item: gacha.CatalogItem{ID: "21"}, Tier: gacha.TierCommon},
		},
		Pity:  gacha.Advance(gacha.Advance(gacha.PityState{}, gacha.TierEpic), gacha.TierCommon),
		Cost:  320,
		Token: "Star Stone",
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("yaml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestOutcomesTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Printer{W: &buf, Format: FormatTable}.Outcomes(sampleView()))
	out := buf.String()
	assert.Contains(t, out, "5114")
	assert.Contains(t, out, "UR")
	assert.Contains(t, out, "Dune")
	assert.Contains(t, out, "pulls=2 since_epic=1")
	assert.Contains(t, out, "cost=320 Star Stone")
}

func TestOutcomesJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Printer{W: &buf, Format: FormatJSON}.Outcomes(sampleView()))

	var got PullView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleView(), got)
	assert.Contains(t, buf.String(), `"tier": "epic"`)
}

func TestClassifiedYAML(t *testing.T) {
	var buf bytes.Buffer
	s := 8.7
	items := []ClassifiedItem{{ID: "a", Score: &s, Tier: gacha.TierEpic}}
	require.NoError(t, Printer{W: &buf, Format: FormatYAML}.Classified(items))

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "epic", got[0]["tier"])
}

func TestClassifiedTableCounts(t *testing.T) {
	var buf bytes.Buffer
	items := []ClassifiedItem{
		{ID: "a", Tier: gacha.TierCommon},
		{ID: "b", Tier: gacha.TierCommon},
		{ID: "c", Tier: gacha.TierRare, Featured: true},
	}
	require.NoError(t, Printer{W: &buf, Format: FormatTable}.Classified(items))
	assert.Contains(t, buf.String(), "R=2 SR=0 SSR=1 UR=0")
	assert.Contains(t, strings.ToUpper(buf.String()), "FEATURED")
	assert.Contains(t, buf.String(), "*")
}

func TestReportTable(t *testing.T) {
	var buf bytes.Buffer
	rep := gacha.Report{
		Stats:        gacha.Stats{Mean: 62.5, P50: 60, P90: 80, P99: 90},
		TierRates:    [gacha.NumTiers]float64{0.8, 0.15, 0.04, 0.01},
		FeaturedRate: 0.005,
		Pulls:        1000,
	}
	require.NoError(t, Printer{W: &buf, Format: FormatTable}.Report(rep, gacha.GoalFirstTier, 16))
	out := buf.String()
	assert.Contains(t, out, "62.50")
	assert.Contains(t, out, "80.000%")
	assert.Contains(t, out, "featured")
}

func TestUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Printer{W: &buf, Format: "xml"}.Banners(nil))
}
