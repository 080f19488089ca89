package order

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Keys are the fields of an item the comparator reads.
type Keys struct {
	Transliterated string
	Name           string
	Category       string

	// folded caches the case folded Category for one sort pass.
	folded   string
	isFolded bool
}

// foldedCategory returns the case folded category, computing it when the
// keys were not prepared by [SortStable].
func (k Keys) foldedCategory() string {
	if k.isFolded {
		return k.folded
	}
	return cases.Fold().String(k.Category)
}

// Verdict is the outcome of a single stage.
type Verdict int

const (
	// Pass means the stage does not apply to the pair.
	Pass Verdict = iota
	// Before means a sorts ahead of b.
	Before
	// After means b sorts ahead of a.
	After
	// Tie means the pair is equal and no later stage should run.
	Tie
)

func (v Verdict) String() string {
	switch v {
	case Pass:
		return "pass"
	case Before:
		return "before"
	case After:
		return "after"
	case Tie:
		return "tie"
	default:
		return "unknown"
	}
}

// Stage is one named step of the comparison chain.
type Stage struct {
	Name   string
	Decide func(a, b Keys) Verdict
}

var (
	alphabeticStages = []Stage{
		{Name: "section", Decide: sectionStage},
		{Name: "match-class", Decide: matchClassStage},
		{Name: "case", Decide: caseStage},
		{Name: "lexical", Decide: lexicalStage},
	}
	categoryStages = []Stage{
		{Name: "category", Decide: categoryStage},
	}
)

// Stages returns the chain used for mode, in evaluation order.
func Stages(mode Mode) []Stage {
	if mode == Category {
		return slices.Clone(categoryStages)
	}
	return slices.Clone(alphabeticStages)
}

// Compare runs the chain for mode and returns -1 when a sorts first, 1 when
// b sorts first and 0 when they are equivalent.
func Compare(a, b Keys, mode Mode) int {
	chain := alphabeticStages
	if mode == Category {
		chain = categoryStages
	}
	for _, st := range chain {
		switch st.Decide(a, b) {
		case Before:
			return -1
		case After:
			return 1
		case Tie:
			return 0
		}
	}
	return 0
}

// IsLess reports whether a sorts strictly before b under mode.
//
// In Alphabetic mode the chain is:
//
//   - section: the uppercased first runes of the transliterations differ
//     (an empty transliteration counts as rune 0).
//   - match-class: inside one section, an item whose display name starts with
//     the section letter goes ahead of one whose display name does not.
//   - case: inside one class, when the raw first runes differ only by case the
//     lowercase one goes first. This inverts the usual code point order.
//   - lexical: byte-wise comparison of the raw transliterations.
//
// In Category mode the category codes are compared with Unicode case folding.
// Equivalent items keep their input order when sorted with [SortStable].
func IsLess(a, b Keys, mode Mode) bool {
	return Compare(a, b, mode) < 0
}

// SortStable sorts s in place under mode, keeping the input order of
// equivalent elements.
func SortStable[T any](s []T, key func(T) Keys, mode Mode) {
	ks := make([]Keys, len(s))
	perm := make([]int, len(s))
	fold := cases.Fold()
	for i, v := range s {
		ks[i] = key(v)
		if mode == Category {
			ks[i].folded, ks[i].isFolded = fold.String(ks[i].Category), true
		}
		perm[i] = i
	}
	slices.SortStableFunc(perm, func(x, y int) int {
		return Compare(ks[x], ks[y], mode)
	})
	sorted := make([]T, len(s))
	for i, j := range perm {
		sorted[i] = s[j]
	}
	copy(s, sorted)
}

// SectionRune returns the uppercased first rune of s, or 0 when s is empty.
func SectionRune(s string) rune {
	return unicode.ToUpper(firstRune(s))
}

func firstRune(s string) rune {
	if s == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func sectionStage(a, b Keys) Verdict {
	la, lb := SectionRune(a.Transliterated), SectionRune(b.Transliterated)
	switch {
	case la == lb:
		return Pass
	case la < lb:
		return Before
	default:
		return After
	}
}

// matchClassStage expects both items to share a section.
func matchClassStage(a, b Keys) Verdict {
	ma := SectionRune(a.Transliterated) == SectionRune(a.Name)
	mb := SectionRune(b.Transliterated) == SectionRune(b.Name)
	switch {
	case ma == mb:
		return Pass
	case ma:
		return Before
	default:
		return After
	}
}

func caseStage(a, b Keys) Verdict {
	if SectionRune(a.Transliterated) == 0 {
		return Pass
	}
	ra, rb := firstRune(a.Transliterated), firstRune(b.Transliterated)
	if ra == rb {
		return Pass
	}
	la, lb := unicode.IsLower(ra), unicode.IsLower(rb)
	switch {
	case la == lb:
		return Pass
	case la:
		return Before
	default:
		return After
	}
}

func lexicalStage(a, b Keys) Verdict {
	return verdictOf(strings.Compare(a.Transliterated, b.Transliterated))
}

func categoryStage(a, b Keys) Verdict {
	return verdictOf(strings.Compare(a.foldedCategory(), b.foldedCategory()))
}

func verdictOf(c int) Verdict {
	switch {
	case c < 0:
		return Before
	case c > 0:
		return After
	default:
		return Tie
	}
}
