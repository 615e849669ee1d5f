// Package sanitize normalizes free-text form input before validation.
package sanitize

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// strict strips every HTML element and attribute. Shared and safe for
// concurrent use.
var strict = bluemonday.StrictPolicy()

// Text strips HTML, decodes the entities bluemonday escaped, collapses
// runs of whitespace and trims the result. maxLen <= 0 means unbounded.
func Text(input string, maxLen int) string {
	s := strict.Sanitize(input)
	s = html.UnescapeString(s)
	s = collapseWhitespace(s)
	if maxLen > 0 && len(s) > maxLen {
		s = s[:maxLen]
	}
	return strings.TrimSpace(s)
}

// Email lowercases and trims an email address. No HTML stripping:
// addresses that need it fail validation anyway.
func Email(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// Message preserves line breaks but otherwise behaves like Text.
func Message(input string, maxLen int) string {
	lines := strings.Split(input, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(collapseInline(html.UnescapeString(strict.Sanitize(line))), " \t")
	}
	s := strings.Join(lines, "\n")
	s = strings.Trim(s, "\n")
	if maxLen > 0 && len(s) > maxLen {
		s = s[:maxLen]
	}
	return strings.TrimSpace(s)
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// collapseInline collapses horizontal whitespace only.
func collapseInline(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if r != '\n' && unicode.IsSpace(r) {
			if !inSpace {
				b.WriteRune(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
