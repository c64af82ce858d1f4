package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bla9k/font-and-flare-design-sub000/internal/gacha"
)

const yamlDoc = `
items:
  - id: "5114"
    score: 9.1
    category: action
    title: Fullmetal Alchemist
  - id: "9253"
    score: 9.07
    category: sci-fi
  - id: "5114"
    score: 1.0
    category: duplicate
  - id: "42"
    category: comedy
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestFileSourceYAML(t *testing.T) {
	src := NewFileSource(writeFile(t, "catalog.yaml", yamlDoc))
	items, err := src.Items(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Fullmetal Alchemist", items[0].Title)
	assert.Equal(t, "action", items[0].Category, "first occurrence wins")
	assert.Nil(t, items[2].Score)

	pool := gacha.BuildTierPool(items, gacha.DefaultClassifier())
	assert.Len(t, pool[gacha.TierEpic], 2)
	assert.Len(t, pool[gacha.TierCommon], 1)
}

func TestFileSourceJSONList(t *testing.T) {
	body := `[{"id":"1","score":7.2,"category":"drama"},{"id":"2","score":8.1}]`
	items, err := NewFileSource(writeFile(t, "catalog.json", body)).Items(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.InDelta(t, 7.2, *items[0].Score, 1e-9)
}

func TestFileSourceMissing(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.yaml")).Items(context.Background())
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFileSourceCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFileSource("unused").Items(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDedupeRejectsEmptyID(t *testing.T) {
	_, err := Static{{ID: "a"}, {ID: "  "}}.Items(context.Background())
	assert.ErrorIs(t, err, ErrEmptyID)
}

func TestCategories(t *testing.T) {
	got := Categories([]gacha.CatalogItem{{Category: "a"}, {Category: ""}, {Category: "b"}, {Category: "a"}})
	assert.Equal(t, []string{"a", "b"}, got)
}
