// Package sanitize neutralizes untrusted text before it reaches an HTML
// context or a predicate literal.
package sanitize

import "strings"

// The ampersand is left alone so escaping is idempotent: text that went
// through HTML once comes out unchanged the second time.
var htmlReplacer = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// HTML escapes the characters that can open a tag or break out of an
// attribute value.
func HTML(s string) string {
	if s == "" {
		return ""
	}
	return htmlReplacer.Replace(s)
}

// OptionalHTML is HTML for nullable values.
func OptionalHTML(s *string) *string {
	if s == nil {
		return nil
	}
	v := HTML(*s)
	return &v
}

// Genres trims and escapes every entry, dropping the ones left empty.
func Genres(genres []string) []string {
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, HTML(g))
		}
	}
	return out
}
