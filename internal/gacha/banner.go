package gacha

import (
	"time"
)

// Banner is a read-only promotional configuration.
//   - FeaturedIDs get the 50/50 preference inside whatever tier a pull resolves to.
//   - Boost > 1 moves mass from COMMON to the upper tiers (see ApplyBoost).
//   - Categories, if set, restrict the candidate pool to those catalog categories.
//   - A banner is active until EndsAt, or forever when Permanent is set.
type Banner struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name,omitempty" yaml:"name,omitempty"`
	FeaturedIDs []string   `json:"featured_ids,omitempty" yaml:"featured_ids,omitempty"`
	Boost       float64    `json:"boost,omitempty" yaml:"boost,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty" yaml:"ends_at,omitempty"`
	Permanent   bool       `json:"permanent,omitempty" yaml:"permanent,omitempty"`
	Categories  []string   `json:"categories,omitempty" yaml:"categories,omitempty"`
}

// IsActive evaluates expiry against a caller-supplied clock snapshot.
// A banner with neither EndsAt nor Permanent never expires.
func (b *Banner) IsActive(now time.Time) bool {
	if b == nil {
		return false
	}
	if b.Permanent || b.EndsAt == nil {
		return true
	}
	return now.Before(*b.EndsAt)
}

// Validate only rejects a negative (or non-finite) boost.
// Unknown or empty featured ids are not errors; they degrade to no featured candidates.
func (b *Banner) Validate() error {
	if b == nil {
		return nil
	}
	if !isFinite(b.Boost) {
		return &InvalidBannerConfigError{BannerID: b.ID, Field: "boost", Reason: "must be a finite number"}
	}
	if b.Boost < 0 {
		return &InvalidBannerConfigError{BannerID: b.ID, Field: "boost", Reason: "must not be negative"}
	}
	return nil
}

// featuredSet returns the featured ids as a lookup set.
func (b *Banner) featuredSet() map[string]struct{} {
	if b == nil || len(b.FeaturedIDs) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(b.FeaturedIDs))
	for _, id := range b.FeaturedIDs {
		set[id] = struct{}{}
	}
	return set
}

// IsFeatured reports whether id is promoted by this banner.
func (b *Banner) IsFeatured(id string) bool {
	if b == nil {
		return false
	}
	for _, f := range b.FeaturedIDs {
		if f == id {
			return true
		}
	}
	return false
}

// FilterCategories narrows a pool to items whose category is in cats.
// An empty cats list returns the pool unchanged.
func FilterCategories(pool TierPool, cats []string) TierPool {
	if len(cats) == 0 {
		return pool
	}
	allowed := make(map[string]struct{}, len(cats))
	for _, c := range cats {
		allowed[c] = struct{}{}
	}
	var out TierPool
	for t, items := range pool {
		for _, it := range items {
			if _, ok := allowed[it.Category]; ok {
				out[t] = append(out[t], it)
			}
		}
	}
	return out
}
