package match

import (
	"testing"
)

var quickNotes = Candidate{
	Name:           "Quick Notes",
	Transliterated: "Quick Notes",
	Initials:       []string{"q", "n"},
}

var browser = Candidate{
	Name:           "浏览器",
	Transliterated: "liulanqi",
	Initials:       []string{"l", "l", "q"},
}

func TestAccepts(t *testing.T) {
	testCases := []struct {
		candidate   Candidate
		pattern     Pattern
		expected    bool
		description string
	}{
		// empty pattern
		{quickNotes, Pattern{}, true, "Empty pattern accepts"},
		{browser, Pattern{Syntax: RegExp}, true, "Empty regexp accepts"},

		// fixed string
		{quickNotes, Pattern{Text: "notes"}, true, "Case-insensitive name match"},
		{quickNotes, Pattern{Text: "NOTES"}, true, "Uppercase pattern"},
		{browser, Pattern{Text: "浏览"}, true, "Non-Latin name match"},
		{browser, Pattern{Text: "LIULAN"}, true, "Transliteration match"},
		{browser, Pattern{Text: "xyz"}, false, "No field matches"},

		// initials are one comma-joined string
		{quickNotes, Pattern{Text: "qn"}, false, "Initials without separator do not match"},
		{quickNotes, Pattern{Text: "q,n"}, true, "Joined initials match"},
		{quickNotes, Pattern{Text: "Q,N"}, true, "Joined initials are case-insensitive"},
		{browser, Pattern{Text: "l,l,q"}, true, "Initials of a non-Latin name"},
		{browser, Pattern{Text: "l,q"}, true, "Initials substring"},

		// wildcard
		{quickNotes, Pattern{Text: "qu*no", Syntax: Wildcard}, true, "Star wildcard"},
		{quickNotes, Pattern{Text: "q?ick", Syntax: Wildcard}, true, "Question wildcard"},
		{quickNotes, Pattern{Text: "[pq]uick", Syntax: Wildcard}, true, "Class wildcard"},
		{quickNotes, Pattern{Text: "[!q]uick", Syntax: Wildcard}, false, "Negated class wildcard"},
		{quickNotes, Pattern{Text: "n.tes", Syntax: Wildcard}, false, "Dot is literal in wildcard"},

		// regexp
		{quickNotes, Pattern{Text: "^quick", Syntax: RegExp}, true, "Anchored regexp"},
		{quickNotes, Pattern{Text: "^notes", Syntax: RegExp}, false, "Anchored regexp mismatch"},
		{browser, Pattern{Text: "^l,l", Syntax: RegExp}, true, "Regexp over initials"},
		{quickNotes, Pattern{Text: "(", Syntax: RegExp}, false, "Invalid regexp rejects"},

		// fuzzy
		{quickNotes, Pattern{Text: "qnts", Syntax: Fuzzy}, true, "Fuzzy subsequence"},
		{browser, Pattern{Text: "lnq", Syntax: Fuzzy}, true, "Fuzzy transliteration"},
		{quickNotes, Pattern{Text: "zz", Syntax: Fuzzy}, false, "Fuzzy mismatch"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			if got := Accepts(tc.candidate, tc.pattern); got != tc.expected {
				t.Errorf("Accepts(%q, %q/%s) = %v, expected %v",
					tc.candidate.Name, tc.pattern.Text, tc.pattern.Syntax, got, tc.expected)
			}
		})
	}
}

func TestCompileReportsInvalidPatterns(t *testing.T) {
	m, err := Compile(Pattern{Text: "a(b", Syntax: RegExp})
	if err == nil {
		t.Fatal("expected error for invalid regexp")
	}
	if m == nil || m.Match("a(b") {
		t.Error("invalid pattern should compile to a matcher that rejects everything")
	}

	if _, err := Compile(Pattern{Text: "[abc", Syntax: Wildcard}); err != nil {
		t.Errorf("unterminated class should be literal, got %v", err)
	}
}

func TestWildcardToRegexp(t *testing.T) {
	testCases := map[string]string{
		"a*b":    "a.*b",
		"a?b":    "a.b",
		"[ab]c":  "[ab]c",
		"[!ab]":  "[^ab]",
		"[^a]":   `[\^a]`,
		"[abc":   `\[abc`,
		"a.b":    `a\.b`,
		"[]a]":   "[]a]",
		"(x)":    `\(x\)`,
		"日本*語": "日本.*語",
	}

	for in, expected := range testCases {
		if got := wildcardToRegexp(in); got != expected {
			t.Errorf("wildcardToRegexp(%q) = %q, expected %q", in, got, expected)
		}
	}
}

func TestParseSyntax(t *testing.T) {
	for _, s := range []Syntax{FixedString, Wildcard, RegExp, Fuzzy} {
		got, err := ParseSyntax(s.String())
		if err != nil || got != s {
			t.Errorf("ParseSyntax(%q) = %s, %v", s.String(), got, err)
		}
	}
	if _, err := ParseSyntax("sql"); err == nil {
		t.Error("expected error for unknown syntax")
	}
}
