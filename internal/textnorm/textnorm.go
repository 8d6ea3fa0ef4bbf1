// Package textnorm cleans text read from the transaction grid before it is
// written to the export.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
)

// Placeholders are UI strings the banking site renders inside otherwise empty
// fields. They are never real data.
var Placeholders = []string{"Add a category", "Uncategorized", "Transaction memo"}

var placeholderRe = buildPlaceholderRe(Placeholders)

func buildPlaceholderRe(phrases []string) *regexp.Regexp {
	quoted := make([]string, 0, len(phrases))
	for _, p := range phrases {
		quoted = append(quoted, regexp.QuoteMeta(p))
	}
	return regexp.MustCompile(`(?i)` + strings.Join(quoted, "|"))
}

// Normalize collapses whitespace runs to a single space, removes placeholder
// phrases case-insensitively and trims the result. Empty input yields "".
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = collapseSpaces(s)
	// A removal can join two spaces or splice a new placeholder together,
	// so repeat until nothing changes. Each pass only shrinks s.
	for {
		next := collapseSpaces(placeholderRe.ReplaceAllString(s, ""))
		if next == s {
			break
		}
		s = next
	}
	return strings.TrimSpace(s)
}

func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return b.String()
}
