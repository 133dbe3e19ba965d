package core

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

const combiningKeycap = '⃣'

// ExtractEmoji returns the first grapheme cluster of input that renders as an
// emoji. When none is found it falls back to the first grapheme cluster, so a
// user typing "X marks" gets "X". Clusters keep ZWJ sequences, skin tones and
// variation selectors intact.
func ExtractEmoji(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	first := ""
	gr := uniseg.NewGraphemes(input)
	for gr.Next() {
		cluster := gr.Str()
		if first == "" && strings.TrimSpace(cluster) != "" {
			first = cluster
		}
		if isPictographic(gr.Runes()) {
			return cluster
		}
	}
	return first
}

func isPictographic(runes []rune) bool {
	for _, r := range runes {
		if r == combiningKeycap {
			return true
		}
		if r >= 0xA9 && unicode.Is(unicode.So, r) {
			return true
		}
	}
	return false
}
