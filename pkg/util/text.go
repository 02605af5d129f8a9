package util

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	separatorRun = regexp.MustCompile(`[_-]+`)
	nonSlugRun   = regexp.MustCompile(`[^a-z0-9]+`)
)

// TitleCase turns identifiers such as "depends-on" or "pull_request" into
// "Depends On" and "Pull Request".
func TitleCase(s string) string {
	s = separatorRun.ReplaceAllString(s, " ")
	var b strings.Builder
	b.Grow(len(s))
	start := true
	for _, r := range s {
		if start && !unicode.IsSpace(r) {
			b.WriteRune(unicode.ToUpper(r))
			start = false
			continue
		}
		if unicode.IsSpace(r) {
			start = true
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// Slugify lowercases s and collapses every run of characters outside
// [a-z0-9] into a single dash, trimming dashes at both ends.
func Slugify(s string) string {
	s = nonSlugRun.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}

// Truncate shortens s to at most max runes, marking the cut with an ellipsis.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max-1])) + "…"
}
