package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bastiangx/appsort/pkg/catalog"
	"github.com/bastiangx/appsort/pkg/match"
	"github.com/bastiangx/appsort/pkg/order"
	"github.com/bastiangx/appsort/pkg/view"
)

func newHandler(t *testing.T, input string) (*InputHandler, *view.View, *bytes.Buffer) {
	t.Helper()
	cat, err := catalog.New([]catalog.Item{
		{Name: "Quick Notes", Transliterated: "Quick Notes", Category: "Office", Initials: []string{"q", "n"}},
		{Name: "Terminal", Transliterated: "terminal", Category: "System"},
		{Name: "浏览器", Transliterated: "liulanqi", Category: "Internet"},
		{Name: "Files", Transliterated: "files", Category: "System"},
	})
	if err != nil {
		t.Fatal(err)
	}
	v := view.New(cat)
	var out bytes.Buffer
	h := NewInputHandlerWithIO(v, nil, match.FixedString, 2, true, strings.NewReader(input), &out)
	return h, v, &out
}

func TestCommands(t *testing.T) {
	testCases := []struct {
		input       string
		contains    []string
		description string
	}{
		{"q,n\n", []string{"Quick Notes", "1 items"}, "Pattern prints matching rows"},
		{":clear\n", []string{"Files", "浏览器", "... 2 more", "4 items"}, "Limit truncates output"},
		{":mode category\n", []string{"mode: category (sorted by category)", "Internet"}, "Mode switch"},
		{":sections\n", []string{"sections: F L Q T"}, "Section keys"},
		{":goto term\n", []string{"3. ", "Terminal"}, "Goto prefix"},
		{":syntax regexp\n^f\n", []string{"syntax: regexp", "Files"}, "Syntax switch"},
		{"zzz\n", []string{"No items match 'zzz'"}, "No match"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			h, _, out := newHandler(t, tc.input)
			if err := h.Start(); err != nil {
				t.Fatalf("Start: %v", err)
			}
			for _, s := range tc.contains {
				if !strings.Contains(out.String(), s) {
					t.Errorf("output missing %q:\n%s", s, out.String())
				}
			}
		})
	}
}

func TestCommandsChangeView(t *testing.T) {
	h, v, _ := newHandler(t, ":mode c\n:syntax fuzzy\nfls\n:quit\nterminal\n")
	if err := h.Start(); err != nil {
		t.Fatal(err)
	}
	if v.Mode() != order.Category {
		t.Errorf("expected category mode, got %s", v.Mode())
	}
	if p := v.Pattern(); p.Text != "fls" || p.Syntax != match.Fuzzy {
		t.Errorf("input after :quit should be ignored, pattern is %+v", p)
	}
	if v.Len() != 1 || v.At(0).Name != "Files" {
		t.Errorf("unexpected rows %v", v.Rows())
	}
	if h.requestCount != 4 {
		t.Errorf("expected 4 handled lines, got %d", h.requestCount)
	}
}

func TestSectionHeader(t *testing.T) {
	testCases := []struct {
		field    string
		mode     order.Mode
		expected string
	}{
		{"liulanqi", order.Alphabetic, "L"},
		{"Office", order.Category, "Office"},
		{"", order.Category, "-"},
	}
	for _, tc := range testCases {
		if got := sectionHeader(tc.field, tc.mode); got != tc.expected {
			t.Errorf("sectionHeader(%q, %s) = %q, expected %q", tc.field, tc.mode, got, tc.expected)
		}
	}
}
