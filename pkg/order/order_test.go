package order

import (
	"fmt"
	"testing"
)

func keys(name, transliterated string) Keys {
	return Keys{Name: name, Transliterated: transliterated}
}

func TestIsLessAlphabetic(t *testing.T) {
	testCases := []struct {
		a, b        Keys
		less        bool
		description string
	}{
		{keys("Apple", "apple"), keys("Berry", "berry"), true, "Different sections"},
		{keys("Berry", "berry"), keys("Apple", "apple"), false, "Different sections reversed"},
		{keys("#1", "apple"), keys("@2", "Apple"), true, "Lowercase-led transliteration first"},
		{keys("@2", "Apple"), keys("#1", "apple"), false, "Uppercase-led transliteration second"},
		{keys("Alpha", "alpha"), keys("α-test", "alpha"), true, "Letter-led display name first"},
		{keys("α-test", "alpha"), keys("Alpha", "alpha"), false, "Script-led display name second"},
		{keys("Abc", "abc"), keys("Abd", "abd"), true, "Same class falls to lexical"},
		{keys("Abd", "abd"), keys("Abc", "abc"), false, "Same class lexical reversed"},
		{keys("浏览器", "liulanqi"), keys("文件", "wenjian"), true, "Both script-led order by transliteration"},
		{keys("Files", "files"), keys("Files", "files"), false, "Identical items are not less"},
		{keys("?", ""), keys("Apple", "apple"), true, "Empty transliteration sorts first"},
		{keys("Apple", "apple"), keys("?", ""), false, "Empty transliteration never after"},
		{keys("?", ""), keys("!", ""), false, "Two empty transliterations tie"},
		{keys("Écran", "ecran"), keys("Editor", "editor"), false, "Diacritic display does not match section"},
		{keys("éditeur", "éditeur"), keys("Édition", "Édition"), true, "Uppercase-normalized match on diacritics"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			if got := IsLess(tc.a, tc.b, Alphabetic); got != tc.less {
				t.Errorf("IsLess(%+v, %+v) = %v, expected %v", tc.a, tc.b, got, tc.less)
			}
		})
	}
}

func TestIsLessCategory(t *testing.T) {
	testCases := []struct {
		a, b        string
		less        bool
		description string
	}{
		{"Chat", "Internet", true, "Ascending"},
		{"internet", "Chat", false, "Ascending reversed"},
		{"games", "Games", false, "Case-insensitive tie"},
		{"Games", "games", false, "Case-insensitive tie reversed"},
		{"", "Office", true, "Empty category first"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			a := Keys{Category: tc.a, Transliterated: "zzz"}
			b := Keys{Category: tc.b, Transliterated: "aaa"}
			if got := IsLess(a, b, Category); got != tc.less {
				t.Errorf("IsLess(%q, %q) = %v, expected %v", tc.a, tc.b, got, tc.less)
			}
		})
	}
}

func TestStages(t *testing.T) {
	x := keys("α-test", "alpha")
	y := keys("Alpha", "alpha")

	testCases := []struct {
		stage       func(a, b Keys) Verdict
		a, b        Keys
		expected    Verdict
		description string
	}{
		{sectionStage, x, y, Pass, "section passes inside one section"},
		{sectionStage, keys("A", "a"), keys("B", "b"), Before, "section decides across sections"},
		{matchClassStage, x, y, After, "match-class puts matching item first"},
		{matchClassStage, y, y, Pass, "match-class passes on same class"},
		{caseStage, keys("#", "apple"), keys("@", "Apple"), Before, "case puts lowercase first"},
		{caseStage, keys("#", "apple"), keys("@", "apricot"), Pass, "case passes on equal raw runes"},
		{caseStage, keys("#", ""), keys("@", ""), Pass, "case passes on sentinel"},
		{lexicalStage, keys("#", "abc"), keys("@", "abc"), Tie, "lexical ties on equal strings"},
		{lexicalStage, keys("#", "Abc"), keys("@", "abc"), Before, "lexical is byte-wise"},
		{categoryStage, Keys{Category: "ÉDITION"}, Keys{Category: "édition"}, Tie, "category folds case"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			if got := tc.stage(tc.a, tc.b); got != tc.expected {
				t.Errorf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestStageChains(t *testing.T) {
	testCases := []struct {
		mode     Mode
		expected []string
	}{
		{Alphabetic, []string{"section", "match-class", "case", "lexical"}},
		{Category, []string{"category"}},
	}
	for _, tc := range testCases {
		chain := Stages(tc.mode)
		names := make([]string, len(chain))
		for i, st := range chain {
			names[i] = st.Name
		}
		if fmt.Sprint(names) != fmt.Sprint(tc.expected) {
			t.Errorf("%s: expected stages %v, got %v", tc.mode, tc.expected, names)
		}

		// running the returned chain by hand agrees with Compare
		items := sample()
		for _, a := range items {
			for _, b := range items {
				got := 0
			chain:
				for _, st := range chain {
					switch st.Decide(a, b) {
					case Before:
						got = -1
						break chain
					case After:
						got = 1
						break chain
					case Tie:
						break chain
					}
				}
				if want := Compare(a, b, tc.mode); got != want {
					t.Fatalf("%s: chain gives %d for %+v, %+v; Compare gives %d", tc.mode, got, a, b, want)
				}
			}
		}
	}
}

func TestSortStablePreparesFoldedCategory(t *testing.T) {
	in := []Keys{{Category: "Édition"}, {Category: "chat"}, {Category: "ÉDITION"}, {Category: "CHAT"}}
	SortStable(in, func(k Keys) Keys { return k }, Category)
	expected := []string{"chat", "CHAT", "Édition", "ÉDITION"}
	for i, k := range in {
		if k.Category != expected[i] {
			t.Fatalf("expected %v at %d, got %q", expected[i], i, k.Category)
		}
		if k.isFolded {
			t.Errorf("caller keys must not be modified: %+v", k)
		}
	}
}

func TestModeFieldRoundTrip(t *testing.T) {
	for _, m := range []Mode{Alphabetic, Category} {
		if got := ModeFor(FieldFor(m)); got != m {
			t.Errorf("ModeFor(FieldFor(%s)) = %s", m, got)
		}
	}
	if FieldFor(Alphabetic).String() != "transliterated" {
		t.Errorf("unexpected role name %q", FieldFor(Alphabetic))
	}
	if FieldFor(Category).String() != "category" {
		t.Errorf("unexpected role name %q", FieldFor(Category))
	}
}

func TestParseMode(t *testing.T) {
	for in, expected := range map[string]Mode{
		"alphabetic": Alphabetic,
		"Alpha":      Alphabetic,
		" category ": Category,
		"cat":        Category,
	} {
		got, err := ParseMode(in)
		if err != nil || got != expected {
			t.Errorf("ParseMode(%q) = %s, %v", in, got, err)
		}
	}
	if _, err := ParseMode("size"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

// sample mixes every tie-break situation the chain distinguishes.
func sample() []Keys {
	names := []string{"Apple", "apple", "α-test", "#tag", "Éclair", "浏览器", "", "Zed"}
	trans := []string{"apple", "Apple", "alpha", "tag", "eclair", "liulanqi", "", "zed", "Alpha"}
	cats := []string{"Office", "office", "Games", ""}

	var out []Keys
	for i, n := range names {
		if n == "" {
			n = "?"
		}
		for j, tr := range trans {
			out = append(out, Keys{Name: n, Transliterated: tr, Category: cats[(i+j)%len(cats)]})
		}
	}
	return out
}

func TestStrictWeakOrdering(t *testing.T) {
	items := sample()
	for _, mode := range []Mode{Alphabetic, Category} {
		t.Run(mode.String(), func(t *testing.T) {
			less := func(a, b Keys) bool { return IsLess(a, b, mode) }
			equiv := func(a, b Keys) bool { return !less(a, b) && !less(b, a) }

			for _, a := range items {
				if less(a, a) {
					t.Fatalf("irreflexivity broken for %+v", a)
				}
				for _, b := range items {
					if less(a, b) && less(b, a) {
						t.Fatalf("asymmetry broken for %+v and %+v", a, b)
					}
					for _, c := range items {
						if less(a, b) && less(b, c) && !less(a, c) {
							t.Fatalf("transitivity broken for %+v < %+v < %+v", a, b, c)
						}
						if equiv(a, b) && equiv(b, c) && !equiv(a, c) {
							t.Fatalf("equivalence not transitive for %+v, %+v, %+v", a, b, c)
						}
					}
				}
			}
		})
	}
}

func TestSortStable(t *testing.T) {
	type tagged struct {
		k   Keys
		tag int
	}

	var in []tagged
	for _, k := range sample() {
		in = append(in, tagged{k: k, tag: len(in)})
		// duplicate every item to exercise ties
		in = append(in, tagged{k: k, tag: len(in)})
	}

	for _, mode := range []Mode{Alphabetic, Category} {
		first := append([]tagged(nil), in...)
		second := append([]tagged(nil), in...)
		SortStable(first, func(x tagged) Keys { return x.k }, mode)
		SortStable(second, func(x tagged) Keys { return x.k }, mode)

		for i := range first {
			if first[i].tag != second[i].tag {
				t.Fatalf("%s: sorting twice differs at %d", mode, i)
			}
			if i > 0 && IsLess(first[i].k, first[i-1].k, mode) {
				t.Fatalf("%s: not sorted at %d", mode, i)
			}
			if i > 0 && Compare(first[i-1].k, first[i].k, mode) == 0 && first[i-1].tag > first[i].tag {
				t.Fatalf("%s: equal items swapped at %d", mode, i)
			}
		}
	}
}

func BenchmarkIsLess(b *testing.B) {
	items := sample()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x := items[i%len(items)]
		y := items[(i*7+3)%len(items)]
		IsLess(x, y, Alphabetic)
	}
}

func ExampleIsLess() {
	x := Keys{Name: "α-test", Transliterated: "alpha"}
	y := Keys{Name: "Alpha", Transliterated: "alpha"}
	fmt.Println(IsLess(y, x, Alphabetic), IsLess(x, y, Alphabetic))
	// Output: true false
}
