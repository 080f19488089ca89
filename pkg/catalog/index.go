package catalog

import (
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Index maps lowercased transliterations to catalog positions. Items without
// a transliteration are keyed by their lowercased display name.
type Index struct {
	trie *patricia.Trie
	size int
}

// NewIndex builds an index over items.
func NewIndex(items []Item) *Index {
	idx := &Index{trie: patricia.NewTrie()}
	for pos, it := range items {
		idx.add(indexKey(it), pos)
	}
	log.Debugf("Indexed %d items", idx.size)
	return idx
}

func indexKey(it Item) string {
	if it.Transliterated != "" {
		return strings.ToLower(it.Transliterated)
	}
	return strings.ToLower(it.Name)
}

func (idx *Index) add(key string, pos int) {
	k := patricia.Prefix(key)
	if existing := idx.trie.Get(k); existing != nil {
		idx.trie.Set(k, append(existing.([]int), pos))
	} else {
		idx.trie.Insert(k, []int{pos})
	}
	idx.size++
}

// WithPrefix returns the ascending positions of items whose key starts with
// prefix. The lookup is case-insensitive.
func (idx *Index) WithPrefix(prefix string) []int {
	var positions []int
	err := idx.trie.VisitSubtree(patricia.Prefix(strings.ToLower(prefix)), func(_ patricia.Prefix, item patricia.Item) error {
		positions = append(positions, item.([]int)...)
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting index subtree: %v", err)
		return nil
	}
	slices.Sort(positions)
	return positions
}

// Len returns the number of indexed items.
func (idx *Index) Len() int {
	return idx.size
}
