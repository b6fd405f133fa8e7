package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// maxTitleRunes bounds sanitized title fragments so archive directory names
// stay well under common path limits.
const maxTitleRunes = 100

// fallbackTitle is used when sanitization would otherwise produce an empty
// fragment.
const fallbackTitle = "untitled"

// SanitizeTitle converts a title into a directory-name fragment: NFC
// normalization, removal of path-illegal and control characters, truncation
// to 100 runes, and trimming of surrounding whitespace plus trailing dots and
// spaces. Never returns an empty string.
func SanitizeTitle(title string) string {
	title = norm.NFC.String(title)
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return -1
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, title)

	runes := []rune(cleaned)
	if len(runes) > maxTitleRunes {
		runes = runes[:maxTitleRunes]
	}
	out := strings.TrimSpace(string(runes))
	out = strings.TrimRight(out, ". ")
	if out == "" {
		return fallbackTitle
	}
	return out
}
