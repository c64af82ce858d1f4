package game

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Bla9k/font-and-flare-design-sub000/internal/gacha"
)

// ValidateRaw checks semantic constraints of a RawConfig.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	// weights
	if w := cfg.Weights; w != nil {
		var total float64
		for name, v := range map[string]*float64{"common": w.Common, "uncommon": w.Uncommon, "rare": w.Rare, "epic": w.Epic} {
			if v == nil {
				continue
			}
			if *v < 0 || math.IsNaN(*v) || math.IsInf(*v, 0) {
				errs = append(errs, fmt.Sprintf("weights.%s must be a finite number >= 0", name))
				continue
			}
			total += *v
		}
		if total <= 0 {
			errs = append(errs, "weights must carry positive total mass")
		}
	}

	// pity
	if p := cfg.Pity; p != nil {
		for name, v := range map[string]*int{"uncommon": p.Uncommon, "rare": p.Rare, "epic": p.Epic} {
			if v != nil && *v < 0 {
				errs = append(errs, fmt.Sprintf("pity.%s must be >= 0 (0 disables it)", name))
			}
		}
	}

	if cfg.CommonFloor != nil && (*cfg.CommonFloor < 0 || *cfg.CommonFloor > gacha.WeightTotal) {
		errs = append(errs, "common_floor must be in [0,100]")
	}

	// soft
	for name, sc := range cfg.Soft {
		if sc == nil {
			continue
		}
		t, err := gacha.ParseTier(name)
		if err != nil {
			errs = append(errs, fmt.Sprintf("soft.%s: unknown tier", name))
			continue
		}
		if t == gacha.TierCommon {
			errs = append(errs, "soft.common is not allowed")
		}
		if sc.Target == nil {
			errs = append(errs, fmt.Sprintf("soft.%s.target is required", name))
		} else if *sc.Target <= 0 || *sc.Target >= 1 {
			errs = append(errs, fmt.Sprintf("soft.%s.target must be in (0,1)", name))
		}
		if sc.StartAt == nil && sc.StartPct == nil {
			errs = append(errs, fmt.Sprintf("soft.%s.start_at or start_pct is required", name))
		}
		if sc.StartPct != nil && (*sc.StartPct < 0 || *sc.StartPct > 1) {
			errs = append(errs, fmt.Sprintf("soft.%s.start_pct must be in [0,1]", name))
		}
		switch gacha.Easing(sc.Easing) {
		case "", gacha.EaseLinear, gacha.EaseOutQuad, gacha.EaseInOutCubic:
		default:
			errs = append(errs, fmt.Sprintf("soft.%s.easing must be one of: linear, easeOutQuad, easeInOutCubic", name))
		}
	}

	// classifier
	if c := cfg.Classifier; c != nil {
		d := gacha.DefaultClassifier()
		pick := func(v *float64, def float64) float64 {
			if v != nil {
				return *v
			}
			return def
		}
		u, r, e := pick(c.Uncommon, d.Uncommon), pick(c.Rare, d.Rare), pick(c.Epic, d.Epic)
		if !(u <= r && r <= e) {
			errs = append(errs, "classifier cutoffs must satisfy uncommon <= rare <= epic")
		}
	}

	// banner
	if b := cfg.Banner; b != nil {
		if b.Boost != nil && *b.Boost < 0 {
			errs = append(errs, "banner.boost must be >= 0")
		}
		for i, id := range b.Featured {
			if strings.TrimSpace(id) == "" {
				errs = append(errs, fmt.Sprintf("banner.featured[%d] must not be empty", i))
			}
		}
	}

	// tokens (optional)
	if cfg.Tokens != nil {
		if cfg.Tokens.PerDraw != nil && *cfg.Tokens.PerDraw < 0 {
			errs = append(errs, "tokens.per_draw must be >= 0")
		}
		if cfg.Tokens.PerTenDraw != nil && *cfg.Tokens.PerTenDraw < 0 {
			errs = append(errs, "tokens.per_ten_draw must be >= 0")
		}
		if cfg.Tokens.PerNDraw != nil && *cfg.Tokens.PerNDraw < 0 {
			errs = append(errs, "tokens.per_n_draw must be >= 0")
		}
		if (cfg.Tokens.PerNDraw != nil) != (cfg.Tokens.N != nil) {
			errs = append(errs, "tokens.per_n_draw and tokens.n must be set together")
		} else if cfg.Tokens.N != nil && *cfg.Tokens.N < 2 {
			errs = append(errs, "tokens.n must be >= 2")
		}
	}

	if len(errs) > 0 {
		sort.Strings(errs)
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
