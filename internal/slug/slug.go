// Package slug derives unique, URL-safe product identifiers from display names.
package slug

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fallback is the base used when a name normalizes to nothing.
const Fallback = "product"

var (
	// ErrEmpty is returned when a slug is empty.
	ErrEmpty = errors.New("slug must not be empty")

	// ErrFormat is returned when a slug does not match the required pattern.
	ErrFormat = errors.New("slug must contain only lowercase alphanumeric characters and hyphens, and must not start or end with a hyphen")

	// pattern matches a single lowercase alphanumeric character or a string
	// of lowercase alphanumeric characters and hyphens that does not start or
	// end with a hyphen.
	pattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9\-]*[a-z0-9])?$`)

	nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)
)

// ValidateFormat checks that s conforms to the slug format. It does NOT check
// uniqueness; that is the caller's existence check plus the unique index on
// products.slug.
func ValidateFormat(s string) error {
	if s == "" {
		return ErrEmpty
	}
	if !pattern.MatchString(s) {
		return ErrFormat
	}
	return nil
}

// Normalize lowercases name, folds accented letters to ASCII and collapses
// every run of non-alphanumeric characters into a single hyphen. Leading and
// trailing hyphens are stripped. The result may be empty.
func Normalize(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	s := strings.ToLower(folded)
	s = nonAlnumRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
