// resolve.go
package game

import (
	"fmt"
	"math"
	"sort"

	"github.com/Bla9k/font-and-flare-design-sub000/internal/gacha"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/token"
)

// Overrides carries per-invocation tweaks (CLI flags) applied after the YAML layers.
type Overrides struct {
	Boost       *float64
	CommonFloor *float64
	EpicPity    *int
	RarePity    *int
}

// EngineParams is the normalized rule set for one banner.
type EngineParams struct {
	Weights    gacha.TierWeights
	Engine     gacha.Config
	Classifier gacha.Classifier
	Token      token.Token
	Version    string // effective config version for tracing
}

// BannerRules pairs a banner with the rules it runs under.
type BannerRules struct {
	Banner gacha.Banner
	Params EngineParams
}

// Resolve merges default → banner → overrides into engine params.
func (l *Loader) Resolve(banner string, o Overrides) (RawConfig, EngineParams, error) {
	raw, err := l.LoadMerged(banner)
	if err != nil {
		return RawConfig{}, EngineParams{}, err
	}
	raw = applyOverrides(raw, o)
	// boost problems surface as the engine's typed banner error
	b := BannerFromRaw(banner, raw)
	if err := b.Validate(); err != nil {
		return raw, EngineParams{}, err
	}
	if err := ValidateRaw(raw); err != nil {
		return raw, EngineParams{}, err
	}
	p, err := Normalize(raw)
	if err != nil {
		return raw, EngineParams{}, err
	}
	return raw, p, nil
}

// LoadAll resolves every banner file under the banners directory.
func (l *Loader) LoadAll() (map[string]BannerRules, error) {
	names, err := l.BannerIDs()
	if err != nil {
		return nil, err
	}
	out := make(map[string]BannerRules, len(names))
	for _, id := range names {
		raw, p, err := l.Resolve(id, Overrides{})
		if err != nil {
			return nil, fmt.Errorf("banner %s: %w", id, err)
		}
		out[id] = BannerRules{Banner: BannerFromRaw(id, raw), Params: p}
	}
	return out, nil
}

// SortedIDs returns banner ids in lexical order.
func SortedIDs(m map[string]BannerRules) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func applyOverrides(raw RawConfig, o Overrides) RawConfig {
	if o.Boost != nil {
		b := BannerConfig{}
		if raw.Banner != nil {
			b = *raw.Banner
		}
		b.Boost = o.Boost
		raw.Banner = &b
	}
	if o.CommonFloor != nil {
		raw.CommonFloor = o.CommonFloor
	}
	if o.EpicPity != nil || o.RarePity != nil {
		pc := PityCfg{}
		if raw.Pity != nil {
			pc = *raw.Pity
		}
		if o.EpicPity != nil {
			pc.Epic = o.EpicPity
		}
		if o.RarePity != nil {
			pc.Rare = o.RarePity
		}
		raw.Pity = &pc
	}
	return raw
}

// Normalize turns a validated RawConfig into EngineParams, filling engine defaults.
func Normalize(raw RawConfig) (EngineParams, error) {
	p := EngineParams{
		Weights:    gacha.BaseWeights(),
		Engine:     gacha.DefaultConfig(),
		Classifier: gacha.DefaultClassifier(),
		Version:    raw.Version,
	}

	if w := raw.Weights; w != nil {
		set := func(t gacha.Tier, v *float64) {
			if v != nil {
				p.Weights[t] = *v
			}
		}
		set(gacha.TierCommon, w.Common)
		set(gacha.TierUncommon, w.Uncommon)
		set(gacha.TierRare, w.Rare)
		set(gacha.TierEpic, w.Epic)
		p.Weights = p.Weights.Normalize()
	}

	if pc := raw.Pity; pc != nil {
		set := func(t gacha.Tier, v *int) {
			if v != nil {
				p.Engine.Thresholds[t] = *v
			}
		}
		set(gacha.TierUncommon, pc.Uncommon)
		set(gacha.TierRare, pc.Rare)
		set(gacha.TierEpic, pc.Epic)
	}
	if raw.CommonFloor != nil {
		p.Engine.CommonFloor = *raw.CommonFloor
	}

	for name, sc := range raw.Soft {
		if sc == nil {
			continue
		}
		t, err := gacha.ParseTier(name)
		if err != nil {
			return EngineParams{}, fmt.Errorf("soft.%s: %w", name, err)
		}
		if sc.Target == nil {
			return EngineParams{}, fmt.Errorf("soft.%s.target is required", name)
		}
		pity := p.Engine.Thresholds[t]
		startAt := 0
		switch {
		case sc.StartAt != nil:
			startAt = *sc.StartAt
		case sc.StartPct != nil:
			startAt = int(math.Ceil(*sc.StartPct * float64(pity)))
			if startAt >= pity-1 {
				startAt = pity - 2
			}
		}
		p.Engine.SoftPity[t] = &gacha.SoftPity{
			StartAt: startAt,
			Target:  *sc.Target,
			Easing:  gacha.Easing(sc.Easing),
		}
	}
	if err := p.Engine.Validate(); err != nil {
		return EngineParams{}, err
	}

	if c := raw.Classifier; c != nil {
		if c.Epic != nil {
			p.Classifier.Epic = *c.Epic
		}
		if c.Rare != nil {
			p.Classifier.Rare = *c.Rare
		}
		if c.Uncommon != nil {
			p.Classifier.Uncommon = *c.Uncommon
		}
		if c.MissingScore != nil {
			p.Classifier.MissingScore = *c.MissingScore
		}
		if err := p.Classifier.Validate(); err != nil {
			return EngineParams{}, err
		}
	}

	if tc := raw.Tokens; tc != nil {
		p.Token.Name = tc.Name
		if tc.PerDraw != nil {
			p.Token.PerDraw = *tc.PerDraw
		}
		if tc.PerTenDraw != nil {
			p.Token.PerTenDraw = *tc.PerTenDraw
		}
		if tc.PerNDraw != nil {
			p.Token.PerNDraw = *tc.PerNDraw
		}
		if tc.N != nil {
			p.Token.N = *tc.N
		}
	}
	return p, nil
}

// BannerFromRaw builds the engine banner; a missing banner section yields a plain banner.
func BannerFromRaw(id string, raw RawConfig) gacha.Banner {
	b := gacha.Banner{ID: id, Name: id}
	bc := raw.Banner
	if bc == nil {
		return b
	}
	if bc.Name != "" {
		b.Name = bc.Name
	}
	b.FeaturedIDs = append([]string(nil), bc.Featured...)
	if bc.Boost != nil {
		b.Boost = *bc.Boost
	}
	b.EndsAt = bc.EndsAt
	b.Permanent = bc.Permanent
	b.Categories = append([]string(nil), bc.Categories...)
	return b
}
