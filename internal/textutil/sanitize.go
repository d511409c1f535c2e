// Package textutil guards terminal output against hostile text. File
// names end up verbatim in the diff header, and a crafted name could
// otherwise smuggle escape sequences or bidi overrides into the display.
package textutil

import "strings"

var invisibleRuneLabels = map[rune]string{
	0x200B: "⟪ZWSP⟫",
	0x200E: "⟪LRM⟫",
	0x200F: "⟪RLM⟫",
	0x202A: "⟪LRE⟫",
	0x202B: "⟪RLE⟫",
	0x202C: "⟪PDF⟫",
	0x202D: "⟪LRO⟫",
	0x202E: "⟪RLO⟫",
	0x2066: "⟪LRI⟫",
	0x2067: "⟪RLI⟫",
	0x2068: "⟪FSI⟫",
	0x2069: "⟪PDI⟫",
	0xFEFF: "⟪BOM⟫",
}

// SanitizeFileName replaces control characters and invisible formatting
// runes so a file name cannot alter the terminal state when echoed.
func SanitizeFileName(name string) string {
	for _, r := range name {
		if needsReplacement(r) {
			return rewrite(name)
		}
	}
	return name
}

func needsReplacement(r rune) bool {
	if _, ok := invisibleRuneLabels[r]; ok {
		return true
	}
	return (r >= 0 && r < 0x20) || r == 0x7f
}

func rewrite(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case invisibleRuneLabels[r] != "":
			b.WriteString(invisibleRuneLabels[r])
		case r == '\t', r == '\n', r == '\r':
			b.WriteByte(' ')
		case r < 0x20 || r == 0x7f:
			b.WriteByte('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
