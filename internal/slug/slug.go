// Package slug derives URL-safe article identifiers from titles. A slug is
// computed once at creation time and never regenerated on update.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// đ has no combining-mark decomposition, so NFD stripping leaves it behind.
var replacer = strings.NewReplacer("đ", "d", "Đ", "d")

// Make lowercases the title, strips diacritics, and collapses every run of
// non-alphanumeric characters into a single hyphen. Titles that slugify
// identically are a conflict for the caller to handle, not to disambiguate.
func Make(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, replacer.Replace(title))
	if err != nil {
		s = title
	}

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
