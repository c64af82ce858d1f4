package gacha

// CatalogItem is one reward-eligible entry handed over by a catalog adapter.
// Display fields are carried through untouched.
type CatalogItem struct {
	ID          string   `json:"id" yaml:"id"`
	Score       *float64 `json:"score,omitempty" yaml:"score,omitempty"`
	Category    string   `json:"category,omitempty" yaml:"category,omitempty"`
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	ImageURL    string   `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// TierPool holds the classified candidates for every tier.
type TierPool [NumTiers][]CatalogItem

// BuildTierPool classifies items once. Input order is preserved inside each tier.
func BuildTierPool(items []CatalogItem, c Classifier) TierPool {
	var pool TierPool
	for _, it := range items {
		t := c.Classify(it)
		pool[t] = append(pool[t], it)
	}
	return pool
}

// Len returns the number of items across all tiers.
func (p TierPool) Len() int {
	n := 0
	for _, items := range p {
		n += len(items)
	}
	return n
}

// Counts returns per-tier sizes.
func (p TierPool) Counts() [NumTiers]int {
	var out [NumTiers]int
	for t, items := range p {
		out[t] = len(items)
	}
	return out
}
