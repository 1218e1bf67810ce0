package validators

import (
	"strings"
	"unicode"
)

const maxSlugLen = 80

// SanitizeString trims whitespace, drops control characters and cuts the
// result to maxLen runes. A maxLen of zero means no limit.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(input))

	if maxLen <= 0 {
		return cleaned
	}
	runes := []rune(cleaned)
	if len(runes) <= maxLen {
		return cleaned
	}
	return strings.TrimSpace(string(runes[:maxLen]))
}

// NormalizeSlug lowercases and trims a slug taken from a path parameter.
func NormalizeSlug(input string) string {
	return strings.ToLower(SanitizeString(input, maxSlugLen))
}
