package game

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bla9k/font-and-flare-design-sub000/internal/gacha"
)

const defaultYAML = `
version: "2026.10"
weights: {common: 80, uncommon: 15, rare: 4, epic: 1}
pity: {rare: 10, epic: 90}
soft:
  epic: {start_at: 74, target: 0.3, easing: easeOutQuad}
tokens: {name: Star Stone, per_draw: 160, per_ten_draw: 1440}
`

const springYAML = `
version: "2026.10-spring"
pity: {epic: 80}
banner:
  name: Spring Showcase
  featured: ["5114", "9253"]
  boost: 2.5
  ends_at: 2026-11-01T00:00:00Z
  categories: [action, sci-fi]
tokens: {per_ten_draw: 1400}
`

func writeRules(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "banners"), 0o755))
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestLoadMergedBannerOverridesDefault(t *testing.T) {
	dir := writeRules(t, map[string]string{"default.yaml": defaultYAML, "banners/spring.yaml": springYAML})
	l := NewLoader(dir)

	raw, err := l.LoadMerged("spring")
	require.NoError(t, err)
	assert.Equal(t, "2026.10-spring", raw.Version)
	require.NotNil(t, raw.Pity)
	assert.Equal(t, 80, *raw.Pity.Epic)
	assert.Equal(t, 10, *raw.Pity.Rare, "untouched default survives")
	assert.Equal(t, 1400, *raw.Tokens.PerTenDraw)
	assert.Equal(t, 160, *raw.Tokens.PerDraw)
	assert.Equal(t, "Star Stone", raw.Tokens.Name)
	require.NotNil(t, raw.Soft["epic"])
}

func TestLoadMergedUnknownBanner(t *testing.T) {
	dir := writeRules(t, map[string]string{"default.yaml": defaultYAML})
	_, err := NewLoader(dir).LoadMerged("winter")
	assert.True(t, errors.Is(err, ErrUnknownBanner))

	_, err = NewLoader(dir).LoadMerged("../default")
	assert.Error(t, err)
}

func TestLoadMergedCachesUntilInvalidate(t *testing.T) {
	dir := writeRules(t, map[string]string{"default.yaml": defaultYAML, "banners/spring.yaml": springYAML})
	l := NewLoader(dir)
	_, err := l.LoadMerged("spring")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "banners", "spring.yaml"), []byte("version: v2\n"), 0o644))
	raw, _ := l.LoadMerged("spring")
	assert.Equal(t, "2026.10-spring", raw.Version)

	l.Invalidate()
	raw, _ = l.LoadMerged("spring")
	assert.Equal(t, "v2", raw.Version)
}

func TestResolveNormalizes(t *testing.T) {
	dir := writeRules(t, map[string]string{"default.yaml": defaultYAML, "banners/spring.yaml": springYAML})
	raw, p, err := NewLoader(dir).Resolve("spring", Overrides{})
	require.NoError(t, err)

	assert.Equal(t, gacha.BaseWeights(), p.Weights)
	assert.Equal(t, 80, p.Engine.Thresholds[gacha.TierEpic])
	assert.Equal(t, 10, p.Engine.Thresholds[gacha.TierRare])
	require.NotNil(t, p.Engine.SoftPity[gacha.TierEpic])
	assert.Equal(t, gacha.EaseOutQuad, p.Engine.SoftPity[gacha.TierEpic].Easing)
	assert.Equal(t, 1400, p.Token.TokensForDraws(10))

	b := BannerFromRaw("spring", raw)
	assert.Equal(t, "Spring Showcase", b.Name)
	assert.Equal(t, 2.5, b.Boost)
	assert.Equal(t, []string{"5114", "9253"}, b.FeaturedIDs)
	assert.True(t, b.IsActive(time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)))
	assert.False(t, b.IsActive(time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)))
}

func TestResolveOverrides(t *testing.T) {
	dir := writeRules(t, map[string]string{"default.yaml": defaultYAML, "banners/spring.yaml": springYAML})
	boost, pity := 4.0, 50
	raw, p, err := NewLoader(dir).Resolve("spring", Overrides{Boost: &boost, EpicPity: &pity})
	require.NoError(t, err)
	assert.Equal(t, 50, p.Engine.Thresholds[gacha.TierEpic])
	assert.Equal(t, 4.0, *raw.Banner.Boost)
}

func TestResolveStartPct(t *testing.T) {
	dir := writeRules(t, map[string]string{"default.yaml": `
pity: {epic: 90}
soft:
  epic: {start_pct: 0.8, target: 0.5}
`})
	_, p, err := NewLoader(dir).Resolve("", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, 72, p.Engine.SoftPity[gacha.TierEpic].StartAt)
}

func TestValidateRawAggregates(t *testing.T) {
	neg, bad, zero := -1.0, 1.5, 0
	floor := 120.0
	cfg := RawConfig{
		Weights:     &WeightsCfg{Common: &neg},
		CommonFloor: &floor,
		Soft:        map[string]*SoftCfg{"epic": {Target: &bad}, "mythic": {}},
		Banner:      &BannerConfig{Boost: &neg, Featured: []string{" "}},
		Tokens:      &TokenConfig{PerDraw: &zero},
	}
	err := ValidateRaw(cfg)
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{
		"weights.common",
		"common_floor",
		"soft.epic.target must be in (0,1)",
		"soft.epic.start_at or start_pct is required",
		"soft.mythic: unknown tier",
		"banner.boost",
		"banner.featured[0]",
	} {
		assert.True(t, strings.Contains(msg, want), "missing %q in %s", want, msg)
	}
	assert.NotContains(t, msg, "tokens")
}

func TestLoadAll(t *testing.T) {
	dir := writeRules(t, map[string]string{
		"default.yaml":        defaultYAML,
		"banners/spring.yaml": springYAML,
		"banners/standard.yaml": `
banner: {name: Standard, permanent: true}
`,
		"banners/notes.txt": "ignored",
	})
	all, err := NewLoader(dir).LoadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"spring", "standard"}, SortedIDs(all))
	assert.True(t, all["standard"].Banner.Permanent)
	assert.Equal(t, 90, all["standard"].Params.Engine.Thresholds[gacha.TierEpic])
}

func TestLoadAllReportsInvalidBanner(t *testing.T) {
	dir := writeRules(t, map[string]string{
		"default.yaml":     defaultYAML,
		"banners/bad.yaml": "banner: {boost: -3}\n",
	})
	_, err := NewLoader(dir).LoadAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "banner bad")

	var ib *gacha.InvalidBannerConfigError
	require.True(t, errors.As(err, &ib), "got %T", err)
	assert.Equal(t, "bad", ib.BannerID)
	assert.Equal(t, "boost", ib.Field)
}

func TestResolveTokenBundle(t *testing.T) {
	dir := writeRules(t, map[string]string{
		"default.yaml": "tokens: {name: Gem, per_draw: 100, per_n_draw: 450, n: 5}\n",
	})
	_, p, err := NewLoader(dir).Resolve("", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, 450, p.Token.PerNDraw)
	assert.Equal(t, 5, p.Token.N)
	assert.Equal(t, 650, p.Token.TokensForDraws(7))
}

func TestValidateRawTokenBundle(t *testing.T) {
	n, one, neg := 5, 1, -1
	err := ValidateRaw(RawConfig{Tokens: &TokenConfig{N: &n}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be set together")

	err = ValidateRaw(RawConfig{Tokens: &TokenConfig{PerNDraw: &neg, N: &one}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tokens.per_n_draw must be >= 0")
	assert.Contains(t, err.Error(), "tokens.n must be >= 2")
}

func TestFileWatcherSeesWrites(t *testing.T) {
	dir := writeRules(t, map[string]string{"default.yaml": defaultYAML})
	l := NewLoader(dir)
	changed := make(chan string, 8)
	fw := WatchLoader(l, func(p string) { changed <- p }, nil)
	require.NoError(t, fw.Start())
	defer fw.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "banners", "fresh.yaml"), []byte("version: x\n"), 0o644))
	select {
	case p := <-changed:
		assert.Equal(t, "fresh.yaml", filepath.Base(p))
	case <-time.After(5 * time.Second):
		t.Fatal("no change event")
	}
}
