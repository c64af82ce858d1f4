// Package catalog supplies reward-eligible items to the engine.
// It reads an already-exported listing; it never talks to the upstream catalog API.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Bla9k/font-and-flare-design-sub000/internal/gacha"
)

var ErrEmptyID = errors.New("catalog item without id")

// Source hands over a finite, deduplicated item list.
type Source interface {
	Items(ctx context.Context) ([]gacha.CatalogItem, error)
}

// Static serves a fixed slice. Handy for tests and embedded catalogs.
type Static []gacha.CatalogItem

func (s Static) Items(context.Context) ([]gacha.CatalogItem, error) {
	return Dedupe(s)
}

// fileDoc is the on-disk layout. A bare list of items is accepted as well.
type fileDoc struct {
	Items []gacha.CatalogItem `yaml:"items"`
}

// FileSource reads a YAML or JSON export from disk on every call.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (f *FileSource) Items(ctx context.Context) ([]gacha.CatalogItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	items, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", f.Path, err)
	}
	return Dedupe(items)
}

// Parse decodes either `{items: [...]}` or a top-level list.
func Parse(b []byte) ([]gacha.CatalogItem, error) {
	var doc fileDoc
	if err := yaml.Unmarshal(b, &doc); err == nil && doc.Items != nil {
		return doc.Items, nil
	}
	var list []gacha.CatalogItem
	if err := yaml.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Dedupe drops repeated ids, keeping the first occurrence, and trims ids.
// An empty id is an error since pulls report items by id.
func Dedupe(items []gacha.CatalogItem) ([]gacha.CatalogItem, error) {
	seen := make(map[string]struct{}, len(items))
	out := make([]gacha.CatalogItem, 0, len(items))
	for i, it := range items {
		it.ID = strings.TrimSpace(it.ID)
		if it.ID == "" {
			return nil, fmt.Errorf("item %d: %w", i, ErrEmptyID)
		}
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	return out, nil
}

// Categories lists the distinct categories in first-seen order.
func Categories(items []gacha.CatalogItem) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, it := range items {
		if it.Category == "" {
			continue
		}
		if _, ok := seen[it.Category]; ok {
			continue
		}
		seen[it.Category] = struct{}{}
		out = append(out, it.Category)
	}
	return out
}
