// Package order implements the ordering relation used to present items either
// alphabetically (by their Latin transliteration) or grouped by category.
//
// The alphabetic relation is built as a chain of small stages. Each stage looks
// at a pair of items and either decides their order or passes to the next one.
// See [IsLess] for the full chain.
package order

import (
	"fmt"
	"strings"
)

// Mode selects which item field drives ordering.
type Mode int

const (
	// Alphabetic orders by transliteration with the mixed-script tie-breaks.
	Alphabetic Mode = iota
	// Category orders by the externally supplied category code.
	Category
)

// Field identifies an item field that can be used as the sort key.
type Field int

const (
	FieldTransliterated Field = iota
	FieldCategory
)

// FieldFor returns the sort field used by mode.
func FieldFor(mode Mode) Field {
	if mode == Category {
		return FieldCategory
	}
	return FieldTransliterated
}

// ModeFor is the inverse of [FieldFor].
func ModeFor(field Field) Mode {
	if field == FieldCategory {
		return Category
	}
	return Alphabetic
}

// String returns the role name of the field.
func (f Field) String() string {
	switch f {
	case FieldTransliterated:
		return "transliterated"
	case FieldCategory:
		return "category"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

func (m Mode) String() string {
	switch m {
	case Alphabetic:
		return "alphabetic"
	case Category:
		return "category"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts the names printed by [Mode.String] plus a few short forms
// used on the command line.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "alphabetic", "alpha", "a", "transliterated":
		return Alphabetic, nil
	case "category", "cat", "c":
		return Category, nil
	default:
		return Alphabetic, fmt.Errorf("unknown ordering mode %q", s)
	}
}
