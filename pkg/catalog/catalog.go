package catalog

import (
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
)

// Catalog is a thread-safe, position addressed list of items.
type Catalog struct {
	path  string
	items []Item
	index *Index
	gen   uint64
	mu    sync.RWMutex
}

// Stats reports the catalog contents
type Stats struct {
	Items      int
	Categories int
	Indexed    int
	Path       string
}

// New creates a catalog holding items. Items are normalized; an item with an
// empty display name is an error.
func New(items []Item) (*Catalog, error) {
	normalized := make([]Item, 0, len(items))
	for i, it := range items {
		n, err := normalize(it)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		normalized = append(normalized, n)
	}
	return &Catalog{
		items: normalized,
		index: NewIndex(normalized),
	}, nil
}

// Open loads a catalog from a file. The path is kept for [Catalog.Reload].
func Open(path string) (*Catalog, error) {
	items, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Catalog{
		path:  path,
		items: items,
		index: NewIndex(items),
	}, nil
}

// Reload re-reads the file the catalog was opened from. The current items are
// kept when loading fails.
func (c *Catalog) Reload() error {
	c.mu.RLock()
	path := c.path
	c.mu.RUnlock()

	if path == "" {
		return fmt.Errorf("catalog was not opened from a file")
	}
	items, err := Load(path)
	if err != nil {
		return err
	}
	c.swap(items)
	log.Debugf("Reloaded catalog %s: %d items", path, len(items))
	return nil
}

// Replace swaps the catalog contents.
func (c *Catalog) Replace(items []Item) error {
	normalized := make([]Item, 0, len(items))
	for i, it := range items {
		n, err := normalize(it)
		if err != nil {
			return fmt.Errorf("item %d: %w", i+1, err)
		}
		normalized = append(normalized, n)
	}
	c.swap(normalized)
	return nil
}

// Add appends an item.
func (c *Catalog) Add(it Item) error {
	n, err := normalize(it)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, n)
	c.index.add(indexKey(n), len(c.items)-1)
	c.gen++
	return nil
}

func (c *Catalog) swap(items []Item) {
	index := NewIndex(items)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	c.index = index
	c.gen++
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// At returns the item at position i.
func (c *Catalog) At(i int) Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items[i]
}

// Snapshot returns a copy of all items, consistent with a single point in time.
func (c *Catalog) Snapshot() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// Versioned returns a copy of all items with the generation they belong to.
// The generation changes whenever items are added or replaced.
func (c *Catalog) Versioned() ([]Item, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items), c.gen
}

// WithPrefixAt is [Catalog.WithPrefix] for callers holding items of
// generation gen. It reports false when the catalog has changed since.
func (c *Catalog) WithPrefixAt(prefix string, gen uint64) ([]int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if gen != c.gen {
		return nil, false
	}
	return c.index.WithPrefix(prefix), true
}

// WithPrefix returns the positions of items whose transliteration (or name,
// when there is none) starts with prefix, case-insensitively.
func (c *Catalog) WithPrefix(prefix string) []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index.WithPrefix(prefix)
}

// Path returns the file the catalog was opened from, if any.
func (c *Catalog) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.path
}

// GetStats returns current catalog statistics
func (c *Catalog) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	categories := make(map[string]struct{})
	for _, it := range c.items {
		if it.Category != "" {
			categories[it.Category] = struct{}{}
		}
	}
	return Stats{
		Items:      len(c.items),
		Categories: len(categories),
		Indexed:    c.index.Len(),
		Path:       c.path,
	}
}
