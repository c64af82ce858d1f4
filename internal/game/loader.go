package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

var ErrUnknownBanner = errors.New("unknown banner")

// Paths helper for default/banner files.
type Paths struct {
	BaseDir string // base directory, e.g., /opt/app/rules
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "default.yaml")
}
func (p Paths) BannerDir() string {
	return filepath.Join(p.BaseDir, "banners")
}
func (p Paths) BannerPath(banner string) string {
	return filepath.Join(p.BannerDir(), banner+".yaml")
}

// Loader reads YAML configs and merges default → banner.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawConfig // key: banner id
}

// NewLoader creates a config loader with the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawConfig),
	}
}

func (l *Loader) Paths() Paths { return l.paths }

// LoadMerged loads and merges default → banner. An empty banner id returns the defaults.
// It returns the merged RawConfig (without normalization).
func (l *Loader) LoadMerged(banner string) (RawConfig, error) {
	l.mu.RLock()
	if cfg, ok := l.cache[banner]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	defCfg, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawConfig{}, fmt.Errorf("read default: %w", err)
	}
	merged := defCfg
	if banner != "" {
		if strings.ContainsAny(banner, `/\`) || banner == "." || banner == ".." {
			return RawConfig{}, fmt.Errorf("invalid banner id %q", banner)
		}
		path := l.paths.BannerPath(banner)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, fmt.Errorf("%w: %s", ErrUnknownBanner, banner)
		}
		bannerCfg, err := readYAML(path)
		if err != nil {
			return RawConfig{}, fmt.Errorf("read banner %s: %w", banner, err)
		}
		merged = mergeRaw(defCfg, bannerCfg)
	}

	l.mu.Lock()
	l.cache[banner] = merged
	l.mu.Unlock()
	return merged, nil
}

// BannerIDs lists the banner files present on disk, sorted.
func (l *Loader) BannerIDs() ([]string, error) {
	entries, err := os.ReadDir(l.paths.BannerDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".yaml"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Invalidate clears loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
}

// readYAML loads a YAML file into RawConfig. Missing files return zero cfg, no error.
func readYAML(path string) (RawConfig, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, nil
		}
		return RawConfig{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, err
	}
	return cfg, nil
}

// mergeRaw performs a deep merge: 'b' overrides 'a' where non-zero/non-nil.
// For slices (e.g., Featured), 'b' replaces 'a' if provided.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}
	if b.CommonFloor != nil {
		out.CommonFloor = b.CommonFloor
	}

	// weights
	switch {
	case out.Weights == nil && b.Weights != nil:
		c := *b.Weights
		out.Weights = &c
	case out.Weights != nil && b.Weights != nil:
		c := *out.Weights
		overrideF(&c.Common, b.Weights.Common)
		overrideF(&c.Uncommon, b.Weights.Uncommon)
		overrideF(&c.Rare, b.Weights.Rare)
		overrideF(&c.Epic, b.Weights.Epic)
		out.Weights = &c
	}

	// pity
	switch {
	case out.Pity == nil && b.Pity != nil:
		c := *b.Pity
		out.Pity = &c
	case out.Pity != nil && b.Pity != nil:
		c := *out.Pity
		overrideI(&c.Uncommon, b.Pity.Uncommon)
		overrideI(&c.Rare, b.Pity.Rare)
		overrideI(&c.Epic, b.Pity.Epic)
		out.Pity = &c
	}

	// soft: per tier, banner entry replaces the default entry
	if len(b.Soft) > 0 {
		soft := make(map[string]*SoftCfg, len(a.Soft)+len(b.Soft))
		for k, v := range a.Soft {
			soft[k] = v
		}
		for k, v := range b.Soft {
			soft[k] = v
		}
		out.Soft = soft
	}

	// classifier
	switch {
	case out.Classifier == nil && b.Classifier != nil:
		c := *b.Classifier
		out.Classifier = &c
	case out.Classifier != nil && b.Classifier != nil:
		c := *out.Classifier
		overrideF(&c.Epic, b.Classifier.Epic)
		overrideF(&c.Rare, b.Classifier.Rare)
		overrideF(&c.Uncommon, b.Classifier.Uncommon)
		overrideF(&c.MissingScore, b.Classifier.MissingScore)
		out.Classifier = &c
	}

	// banner
	switch {
	case out.Banner == nil && b.Banner != nil:
		c := *b.Banner
		out.Banner = &c
	case out.Banner != nil && b.Banner != nil:
		c := *out.Banner
		if b.Banner.Name != "" {
			c.Name = b.Banner.Name
		}
		if len(b.Banner.Featured) > 0 {
			c.Featured = append([]string(nil), b.Banner.Featured...)
		}
		overrideF(&c.Boost, b.Banner.Boost)
		if b.Banner.EndsAt != nil {
			c.EndsAt = b.Banner.EndsAt
		}
		if b.Banner.Permanent {
			c.Permanent = true
		}
		if len(b.Banner.Categories) > 0 {
			c.Categories = append([]string(nil), b.Banner.Categories...)
		}
		out.Banner = &c
	}

	// tokens
	switch {
	case out.Tokens == nil && b.Tokens != nil:
		c := *b.Tokens
		out.Tokens = &c
	case out.Tokens != nil && b.Tokens != nil:
		c := *out.Tokens
		if b.Tokens.Name != "" {
			c.Name = b.Tokens.Name
		}
		overrideI(&c.PerDraw, b.Tokens.PerDraw)
		overrideI(&c.PerTenDraw, b.Tokens.PerTenDraw)
		out.Tokens = &c
	}

	return out
}

func overrideF(dst **float64, v *float64) {
	if v != nil {
		*dst = v
	}
}

func overrideI(dst **int, v *int) {
	if v != nil {
		*dst = v
	}
}
