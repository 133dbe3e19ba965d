package core

import "testing"

func TestExtractEmoji(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"🍕", "🍕"},
		{"pizza 🍕 time", "🍕"},
		{"👨‍👩‍👧 family", "👨‍👩‍👧"},
		{"👍🏽", "👍🏽"},
		{"🛍️", "🛍️"},
		{"🇯🇵", "🇯🇵"},
		{"abc", "a"},
		{"  x", "x"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := ExtractEmoji(tc.in); got != tc.want {
			t.Fatalf("ExtractEmoji(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
