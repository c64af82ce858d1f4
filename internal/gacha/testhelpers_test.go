package gacha

import "fmt"

func score(v float64) *float64 { return &v }

// makeItems builds n items with ids "<prefix>-<i>" and the given score.
func makeItems(prefix string, n int, s float64) []CatalogItem {
	out := make([]CatalogItem, n)
	for i := range out {
		out[i] = CatalogItem{ID: fmt.Sprintf("%s-%d", prefix, i), Score: score(s), Category: "anime"}
	}
	return out
}

// scenarioPool is 1000 COMMON, 150 UNCOMMON, 40 RARE, 10 EPIC.
func scenarioPool() TierPool {
	var items []CatalogItem
	items = append(items, makeItems("c", 1000, 6.0)...)
	items = append(items, makeItems("u", 150, 7.5)...)
	items = append(items, makeItems("r", 40, 8.2)...)
	items = append(items, makeItems("e", 10, 9.1)...)
	return BuildTierPool(items, DefaultClassifier())
}

func ids(items []CatalogItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
