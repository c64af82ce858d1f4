package gacha

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBannerIsActive(t *testing.T) {
	now := fixedNow
	later := now.Add(24 * time.Hour)
	earlier := now.Add(-time.Minute)

	var nilBanner *Banner
	assert.False(t, nilBanner.IsActive(now))
	assert.True(t, (&Banner{ID: "open"}).IsActive(now))
	assert.True(t, (&Banner{ID: "perm", Permanent: true, EndsAt: &earlier}).IsActive(now))
	assert.True(t, (&Banner{ID: "live", EndsAt: &later}).IsActive(now))
	assert.False(t, (&Banner{ID: "done", EndsAt: &earlier}).IsActive(now))
	assert.False(t, (&Banner{ID: "edge", EndsAt: &now}).IsActive(now))
}

func TestBannerValidate(t *testing.T) {
	assert.NoError(t, (&Banner{ID: "ok"}).Validate())
	assert.NoError(t, (&Banner{ID: "ok", Boost: 0.5}).Validate())
	assert.NoError(t, (&Banner{ID: "ok", FeaturedIDs: []string{}}).Validate())
	assert.Error(t, (&Banner{ID: "neg", Boost: -0.1}).Validate())
	assert.Error(t, (&Banner{ID: "nan", Boost: math.NaN()}).Validate())
}

func TestFilterCategories(t *testing.T) {
	var pool TierPool
	pool[TierEpic] = []CatalogItem{{ID: "a", Category: "mecha"}, {ID: "b", Category: "romance"}}
	pool[TierCommon] = []CatalogItem{{ID: "c", Category: "mecha"}}

	got := FilterCategories(pool, []string{"mecha"})
	assert.Equal(t, []string{"a"}, ids(got[TierEpic]))
	assert.Equal(t, []string{"c"}, ids(got[TierCommon]))
	assert.Equal(t, pool, FilterCategories(pool, nil))
}

func TestBannerIsFeatured(t *testing.T) {
	b := &Banner{ID: "b", FeaturedIDs: []string{"x"}}
	assert.True(t, b.IsFeatured("x"))
	assert.False(t, b.IsFeatured("y"))
}
