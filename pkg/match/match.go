// Package match decides whether an item is accepted by a user search pattern.
//
// A pattern is tried against the display name, then the transliteration, then
// the phonetic initials joined with [InitialsSeparator]. The initials are
// searched as one string, so "q,n" finds the initials of "Quick Notes" while
// "qn" does not. All syntaxes are case-insensitive and an empty pattern
// accepts every item.
package match

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/bastiangx/appsort/internal/utils"
)

// InitialsSeparator joins phonetic initials into the searchable string.
const InitialsSeparator = ","

// Syntax selects how the pattern text is interpreted.
type Syntax int

const (
	// FixedString is plain substring search.
	FixedString Syntax = iota
	// Wildcard supports *, ? and [...] classes anywhere in the subject.
	Wildcard
	// RegExp is RE2 syntax.
	RegExp
	// Fuzzy accepts subjects containing the pattern runes in order.
	Fuzzy
)

func (s Syntax) String() string {
	switch s {
	case FixedString:
		return "fixed"
	case Wildcard:
		return "wildcard"
	case RegExp:
		return "regexp"
	case Fuzzy:
		return "fuzzy"
	default:
		return fmt.Sprintf("syntax(%d)", int(s))
	}
}

// ParseSyntax accepts the names printed by [Syntax.String].
func ParseSyntax(s string) (Syntax, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fixed", "fixedstring", "substring":
		return FixedString, nil
	case "wildcard", "glob":
		return Wildcard, nil
	case "regexp", "regex", "re":
		return RegExp, nil
	case "fuzzy":
		return Fuzzy, nil
	default:
		return FixedString, fmt.Errorf("unknown pattern syntax %q", s)
	}
}

// Pattern is an immutable search pattern.
type Pattern struct {
	Text   string
	Syntax Syntax
}

// Candidate carries the fields the predicate reads from an item.
type Candidate struct {
	Name           string
	Transliterated string
	Initials       []string
}

// JoinInitials builds the searchable initials string.
func JoinInitials(initials []string) string {
	return strings.Join(initials, InitialsSeparator)
}

// Matcher is a compiled [Pattern]. It is safe for concurrent use.
type Matcher struct {
	pattern Pattern
	match   func(subject string) bool
}

// Compile prepares p for repeated matching. When the pattern text is invalid
// for its syntax the returned matcher rejects every subject and the error is
// reported alongside it.
func Compile(p Pattern) (*Matcher, error) {
	m := &Matcher{pattern: p}
	if p.Text == "" {
		m.match = func(string) bool { return true }
		return m, nil
	}

	switch p.Syntax {
	case Wildcard:
		re, err := regexp.Compile("(?i)" + wildcardToRegexp(p.Text))
		if err != nil {
			m.match = func(string) bool { return false }
			return m, fmt.Errorf("invalid wildcard pattern %q: %w", p.Text, err)
		}
		m.match = re.MatchString
	case RegExp:
		re, err := regexp.Compile("(?i)" + p.Text)
		if err != nil {
			m.match = func(string) bool { return false }
			return m, fmt.Errorf("invalid regular expression %q: %w", p.Text, err)
		}
		m.match = re.MatchString
	case Fuzzy:
		text := p.Text
		m.match = func(subject string) bool {
			return len(fuzzy.Find(text, []string{subject})) > 0
		}
	default:
		text := p.Text
		m.match = func(subject string) bool {
			return utils.StringContainsIgnoreCase(subject, text)
		}
	}
	return m, nil
}

// Pattern returns the pattern m was compiled from.
func (m *Matcher) Pattern() Pattern {
	return m.pattern
}

// Match reports whether subject matches the pattern.
func (m *Matcher) Match(subject string) bool {
	return m.match(subject)
}

// Accepts reports whether any of the candidate's searchable fields match.
func (m *Matcher) Accepts(c Candidate) bool {
	if m.pattern.Text == "" {
		return true
	}
	return m.match(c.Name) ||
		m.match(c.Transliterated) ||
		m.match(JoinInitials(c.Initials))
}

// Accepts compiles p and applies it to c. Prefer [Compile] when filtering
// many items with the same pattern.
func Accepts(c Candidate, p Pattern) bool {
	m, _ := Compile(p)
	return m.Accepts(c)
}

// wildcardToRegexp converts shell-style wildcards to an unanchored regexp.
// A class opened with "[!" is negated.
func wildcardToRegexp(pattern string) string {
	var b strings.Builder
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteByte('.')
		case '[':
			end := classEnd(runes, i)
			if end < 0 {
				b.WriteString(`\[`)
				continue
			}
			class := runes[i+1 : end]
			b.WriteByte('[')
			if len(class) > 0 && class[0] == '!' {
				b.WriteByte('^')
				class = class[1:]
			}
			for _, c := range class {
				if c == '\\' || c == '[' || c == '^' {
					b.WriteByte('\\')
				}
				b.WriteRune(c)
			}
			b.WriteByte(']')
			i = end
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}

// classEnd returns the index of the "]" closing the class opened at start,
// or -1. A "]" right after "[" or "[!" is a literal member.
func classEnd(runes []rune, start int) int {
	j := start + 1
	if j < len(runes) && runes[j] == '!' {
		j++
	}
	if j < len(runes) && runes[j] == ']' {
		j++
	}
	for ; j < len(runes); j++ {
		if runes[j] == ']' {
			return j
		}
	}
	return -1
}
