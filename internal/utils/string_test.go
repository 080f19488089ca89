package utils

import "testing"

func TestStringContainsIgnoreCase(t *testing.T) {
	testCases := []struct {
		s, substr string
		expected  bool
	}{
		{"Quick Notes", "notes", true},
		{"Quick Notes", "QUICK", true},
		{"Quick Notes", "", true},
		{"Über", "über", true},
		{"Quick Notes", "qn", false},
	}
	for _, tc := range testCases {
		if got := StringContainsIgnoreCase(tc.s, tc.substr); got != tc.expected {
			t.Errorf("StringContainsIgnoreCase(%q, %q) = %v", tc.s, tc.substr, got)
		}
	}
}

func TestHasPrefixIgnoreCase(t *testing.T) {
	if !HasPrefixIgnoreCase("LiuLanQi", "liu") {
		t.Error("expected case-insensitive prefix match")
	}
	if HasPrefixIgnoreCase("liulanqi", "lan") {
		t.Error("unexpected prefix match")
	}
}

func TestFormatWithCommas(t *testing.T) {
	testCases := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		65535:    "65,535",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
	}
	for n, expected := range testCases {
		if got := FormatWithCommas(n); got != expected {
			t.Errorf("FormatWithCommas(%d) = %q, expected %q", n, got, expected)
		}
	}
}
