package index

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// snippetContext is the number of bytes kept on each side of the match.
const snippetContext = 100

var whitespaceRuns = regexp.MustCompile(`\s+`)

// Snippet extracts a human-readable excerpt around the earliest query
// term occurrence in the text. The earliest offset always wins, even when
// a later term would match more text.
//
// Query terms are its whitespace-separated words; terms shorter than two
// characters are ignored. Matching is case-insensitive. When no term
// occurs at all, the first 200 characters are returned instead, with a
// trailing ellipsis if the text is longer.
func Snippet(text, query string) string {
	textLower := strings.ToLower(text)

	matchPos := -1
	matchLen := 0
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if utf8.RuneCountInString(term) < 2 {
			continue
		}
		pos := strings.Index(textLower, term)
		if pos >= 0 && (matchPos == -1 || pos < matchPos) {
			matchPos = pos
			matchLen = len(term)
		}
	}

	if matchPos == -1 {
		return headSnippet(text)
	}

	start := matchPos - snippetContext
	if start < 0 {
		start = 0
	}
	end := matchPos + matchLen + snippetContext
	if end > len(text) {
		end = len(text)
	}
	start, end = alignToRunes(text, start, end)

	snippet := strings.TrimSpace(text[start:end])
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(text) {
		snippet += "..."
	}
	return whitespaceRuns.ReplaceAllString(snippet, " ")
}

// headSnippet is the no-match fallback: the first 2×context characters,
// trimmed. Whitespace is left as-is on this path.
func headSnippet(text string) string {
	limit := 2 * snippetContext
	if len(text) <= limit {
		return strings.TrimSpace(text)
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return strings.TrimSpace(text[:limit]) + "..."
}

// alignToRunes nudges byte offsets onto UTF-8 rune boundaries so the
// window never splits a character.
func alignToRunes(text string, start, end int) (int, int) {
	for start < len(text) && !utf8.RuneStart(text[start]) {
		start++
	}
	for end > start && end < len(text) && !utf8.RuneStart(text[end]) {
		end--
	}
	return start, end
}
