package gacha

import (
	"fmt"
	"strings"
)

// Tier is a reward rarity bucket. Higher values are rarer.
type Tier int

const (
	TierCommon Tier = iota
	TierUncommon
	TierRare
	TierEpic
)

// NumTiers is the number of rarity tiers.
const NumTiers = 4

// AllTiers returns every tier from lowest to highest.
func AllTiers() []Tier {
	return []Tier{TierCommon, TierUncommon, TierRare, TierEpic}
}

func (t Tier) Valid() bool { return t >= TierCommon && t <= TierEpic }

func (t Tier) String() string {
	switch t {
	case TierEpic:
		return "epic"
	case TierRare:
		return "rare"
	case TierUncommon:
		return "uncommon"
	case TierCommon:
		return "common"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Label returns the short banner label (R/SR/SSR/UR).
func (t Tier) Label() string {
	switch t {
	case TierEpic:
		return "UR"
	case TierRare:
		return "SSR"
	case TierUncommon:
		return "SR"
	default:
		return "R"
	}
}

// ParseTier accepts both the long names and the R/SR/SSR/UR labels, case-insensitive.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "common", "r":
		return TierCommon, nil
	case "uncommon", "sr":
		return TierUncommon, nil
	case "rare", "ssr":
		return TierRare, nil
	case "epic", "ur":
		return TierEpic, nil
	}
	return TierCommon, fmt.Errorf("unknown tier %q", s)
}

func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid tier %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *Tier) UnmarshalText(b []byte) error {
	v, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Classifier thresholds a quality score into a tier.
// Cutoffs are inclusive lower bounds; a missing score classifies as MissingScore.
type Classifier struct {
	Epic         float64
	Rare         float64
	Uncommon     float64
	MissingScore float64
}

// DefaultClassifier uses the 8.5 / 8.0 / 7.0 cutoffs.
func DefaultClassifier() Classifier {
	return Classifier{Epic: 8.5, Rare: 8.0, Uncommon: 7.0, MissingScore: 0}
}

// Classify maps an item to exactly one tier.
func (c Classifier) Classify(item CatalogItem) Tier {
	score := c.MissingScore
	if item.Score != nil && isFinite(*item.Score) {
		score = *item.Score
	}
	switch {
	case score >= c.Epic:
		return TierEpic
	case score >= c.Rare:
		return TierRare
	case score >= c.Uncommon:
		return TierUncommon
	default:
		return TierCommon
	}
}

// Validate checks the cutoffs ascend.
func (c Classifier) Validate() error {
	if !(c.Uncommon <= c.Rare && c.Rare <= c.Epic) {
		return fmt.Errorf("classifier cutoffs must ascend: uncommon=%v rare=%v epic=%v", c.Uncommon, c.Rare, c.Epic)
	}
	return nil
}
