package service

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/Bla9k/font-and-flare-design-sub000/internal/catalog"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/gacha"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/game"
)

// BannerState is one banner with its rules and the pool it draws from.
type BannerState struct {
	game.BannerRules
	Pool gacha.TierPool
}

// Snapshot is an immutable view of the catalog and rules. It is swapped whole on reload.
type Snapshot struct {
	ETag       string
	Banners    map[string]*BannerState
	IDs        []string // sorted banner ids
	Items      int      // catalog size after dedupe
	Categories []string
	LoadedAt   time.Time
}

// buildSnapshot classifies items once per banner, using that banner's thresholds
// and category filter.
func buildSnapshot(items []gacha.CatalogItem, rules map[string]game.BannerRules, now time.Time) *Snapshot {
	s := &Snapshot{
		Banners:    make(map[string]*BannerState, len(rules)),
		IDs:        game.SortedIDs(rules),
		Items:      len(items),
		Categories: catalog.Categories(items),
		LoadedAt:   now,
	}
	for id, r := range rules {
		pool := gacha.BuildTierPool(items, r.Params.Classifier)
		pool = gacha.FilterCategories(pool, r.Banner.Categories)
		s.Banners[id] = &BannerState{BannerRules: r, Pool: pool}
	}
	s.ETag = etag(items, rules, s.IDs)
	return s
}

// etag covers every item field that changes classification or category filtering,
// plus the resolved rules.
func etag(items []gacha.CatalogItem, rules map[string]game.BannerRules, ids []string) string {
	h := xxhash.New()
	var buf [8]byte
	for _, it := range items {
		_, _ = h.WriteString(it.ID)
		_, _ = h.Write([]byte{0})
		if it.Score == nil {
			_, _ = h.Write([]byte{0})
		} else {
			_, _ = h.Write([]byte{1})
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(*it.Score))
			_, _ = h.Write(buf[:])
		}
		_, _ = h.WriteString(it.Category)
		_, _ = h.Write([]byte{0})
	}
	for _, id := range ids {
		// rules are plain data; marshal errors cannot happen
		b, _ := json.Marshal(rules[id])
		_, _ = h.Write(b)
	}
	return fmt.Sprintf(`W/"%016x"`, h.Sum64())
}

// TagAt extends ETag with which banners are active at now, so a banner passing
// its end time yields a new tag.
func (s *Snapshot) TagAt(now time.Time) string {
	h := xxhash.New()
	_, _ = h.WriteString(s.ETag)
	for _, id := range s.IDs {
		active := byte(0)
		if s.Banners[id].Banner.IsActive(now) {
			active = 1
		}
		_, _ = h.WriteString(id)
		_, _ = h.Write([]byte{0, active})
	}
	return fmt.Sprintf(`W/"%016x"`, h.Sum64())
}

// Empty reports whether no banner has a single candidate.
func (s *Snapshot) Empty() bool {
	if s == nil {
		return true
	}
	for _, b := range s.Banners {
		if b.Pool.Len() > 0 {
			return false
		}
	}
	return true
}
