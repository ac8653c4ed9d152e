package slack

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxSectionText is the Block Kit limit for a section text object.
const maxSectionText = 3000

// NormalizeChannelName normalizes a string to be a valid Slack channel name
// Slack allows: lowercase letters, numbers, hyphens, underscores, and non-ASCII characters
// Slack prohibits: uppercase (Latin), spaces, slashes, periods, commas, and special symbols
func NormalizeChannelName(name string) string {
	name = strings.ReplaceAll(name, " ", "-")

	var result strings.Builder
	result.Grow(len(name))

	for _, r := range name {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_':
			result.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			result.WriteRune(unicode.ToLower(r))
		case r > 127 && !isProhibitedSymbol(r):
			result.WriteRune(r)
		}
	}

	return result.String()
}

// isProhibitedSymbol checks if a non-ASCII character is prohibited in Slack channel names
func isProhibitedSymbol(r rune) bool {
	switch r {
	case '。', '、', '！', '？', '・', '「', '」':
		return true
	}
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// truncateToMaxBytes cuts s to at most maxBytes bytes without splitting a
// UTF-8 sequence, ending it with "…" when anything was cut.
func truncateToMaxBytes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	const ellipsis = "…"
	limit := maxBytes - len(ellipsis)
	if limit <= 0 {
		return ""
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit] + ellipsis
}
