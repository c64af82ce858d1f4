// types.go
package game

import "time"

// Raw config loaded from YAML; pointer fields distinguish "unset" from zero so layers merge.
type RawConfig struct {
	Version     string              `yaml:"version"`
	Weights     *WeightsCfg         `yaml:"weights,omitempty"`
	Pity        *PityCfg            `yaml:"pity,omitempty"`
	Soft        map[string]*SoftCfg `yaml:"soft,omitempty"` // keyed by tier name
	Classifier  *ClassifierCfg      `yaml:"classifier,omitempty"`
	CommonFloor *float64            `yaml:"common_floor,omitempty"`
	Banner      *BannerConfig       `yaml:"banner,omitempty"`
	Tokens      *TokenConfig        `yaml:"tokens,omitempty"`
	Notes       string              `yaml:"notes,omitempty"`
}

type WeightsCfg struct {
	Common   *float64 `yaml:"common"`
	Uncommon *float64 `yaml:"uncommon"`
	Rare     *float64 `yaml:"rare"`
	Epic     *float64 `yaml:"epic"`
}

// PityCfg holds hard pity per tier; 0 disables the guarantee.
type PityCfg struct {
	Uncommon *int `yaml:"uncommon,omitempty"`
	Rare     *int `yaml:"rare,omitempty"`
	Epic     *int `yaml:"epic,omitempty"`
}

type SoftCfg struct {
	StartAt  *int     `yaml:"start_at,omitempty"`
	StartPct *float64 `yaml:"start_pct,omitempty"` // used when start_at is absent
	Target   *float64 `yaml:"target,omitempty"`
	Easing   string   `yaml:"easing,omitempty"`
}

type ClassifierCfg struct {
	Epic         *float64 `yaml:"epic"`
	Rare         *float64 `yaml:"rare"`
	Uncommon     *float64 `yaml:"uncommon"`
	MissingScore *float64 `yaml:"missing_score,omitempty"`
}

type BannerConfig struct {
	Name       string     `yaml:"name,omitempty"`
	Featured   []string   `yaml:"featured,omitempty"`
	Boost      *float64   `yaml:"boost,omitempty"`
	EndsAt     *time.Time `yaml:"ends_at,omitempty"`
	Permanent  bool       `yaml:"permanent,omitempty"`
	Categories []string   `yaml:"categories,omitempty"`
}

type TokenConfig struct {
	Name       string `yaml:"name,omitempty"`
	PerDraw    *int   `yaml:"per_draw"`
	PerTenDraw *int   `yaml:"per_ten_draw"`
	PerNDraw   *int   `yaml:"per_n_draw,omitempty"` // bundle price for N pulls; replaces per_ten_draw
	N          *int   `yaml:"n,omitempty"`
}
