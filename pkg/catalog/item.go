/*
Package catalog holds the items presented by a view and loads them from files.

An item is identified by its display name and carries a precomputed Latin
transliteration, a category code and the phonetic initials of its name.
Catalog files come in three formats, detected by extension:

	.toml           [[item]] tables
	.msgpack, .bin  msgpack array of {n, t, c, i, id} maps
	.tsv, .txt      name<TAB>transliterated<TAB>category<TAB>initials

Text catalogs have no quoting, so fields with tabs or line breaks, and
initials with commas, can only be saved as TOML or msgpack. Item IDs are not
stored in text catalogs.

A TOML catalog looks like:

	[[item]]
	id = "org.example.browser"
	name = "浏览器"
	transliterated = "liulanqi"
	category = "Internet"
	initials = ["l", "l", "q"]

All loaded strings are NFC-normalized. Items without initials get a fallback
built from the first rune of each word of the transliteration.
*/
package catalog

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/bastiangx/appsort/internal/utils"
	"github.com/bastiangx/appsort/pkg/match"
	"github.com/bastiangx/appsort/pkg/order"
)

// ErrEmptyName is returned for items without a display name.
var ErrEmptyName = errors.New("item has an empty display name")

// ErrTextField is returned when an item cannot be written as a text catalog
// line: a field holds a tab or line break, or an initial holds a comma.
var ErrTextField = errors.New("field cannot be stored in a text catalog")

// Item is one entry of a catalog.
type Item struct {
	ID             string   `toml:"id,omitempty" msgpack:"id,omitempty"`
	Name           string   `toml:"name" msgpack:"n"`
	Transliterated string   `toml:"transliterated,omitempty" msgpack:"t"`
	Category       string   `toml:"category,omitempty" msgpack:"c,omitempty"`
	Initials       []string `toml:"initials,omitempty" msgpack:"i,omitempty"`
}

// Keys returns the fields read by the comparator.
func (it Item) Keys() order.Keys {
	return order.Keys{
		Transliterated: it.Transliterated,
		Name:           it.Name,
		Category:       it.Category,
	}
}

// Candidate returns the fields read by the filter predicate.
func (it Item) Candidate() match.Candidate {
	return match.Candidate{
		Name:           it.Name,
		Transliterated: it.Transliterated,
		Initials:       it.Initials,
	}
}

// SortField returns the value of the field that drives ordering in mode.
func (it Item) SortField(mode order.Mode) string {
	if order.FieldFor(mode) == order.FieldCategory {
		return it.Category
	}
	return it.Transliterated
}

// normalize puts an item in the canonical form used by the catalog.
func normalize(it Item) (Item, error) {
	it.Name = norm.NFC.String(strings.TrimSpace(it.Name))
	if it.Name == "" {
		return it, ErrEmptyName
	}
	it.Transliterated = norm.NFC.String(strings.TrimSpace(it.Transliterated))
	it.Category = norm.NFC.String(strings.TrimSpace(it.Category))
	it.ID = strings.TrimSpace(it.ID)

	initials := it.Initials[:0:0]
	for _, s := range it.Initials {
		if s = norm.NFC.String(strings.TrimSpace(s)); s != "" {
			initials = append(initials, s)
		}
	}
	if len(initials) == 0 {
		src := it.Transliterated
		if src == "" {
			src = it.Name
		}
		initials = WordInitials(src)
	}
	it.Initials = initials
	return it, nil
}

// WordInitials returns the lowercased first rune of every word in s.
// Words are split on spaces and the separators '_', '-', '.', '/'.
func WordInitials(s string) []string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || utils.IsSeparator(r)
	})
	out := make([]string, 0, len(words))
	for _, w := range words {
		for _, r := range w {
			out = append(out, string(unicode.ToLower(r)))
			break
		}
	}
	return out
}
