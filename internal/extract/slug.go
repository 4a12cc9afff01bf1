package extract

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify folds a title to an ASCII kebab-case slug. Vietnamese diacritics
// are stripped via Unicode decomposition; đ has no combining form and is
// replaced explicitly.
func Slugify(title string) string {
	folded, _, err := transform.String(deaccent, strings.ToLower(title))
	if err != nil {
		folded = strings.ToLower(title)
	}
	folded = strings.NewReplacer("đ", "d", "ð", "d").Replace(folded)

	var b strings.Builder
	prevDash := true
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// UniqueSlug appends a second-resolution timestamp so repeated extractions
// of the same title never collide on the store's unique slug key.
func UniqueSlug(title string, now time.Time) string {
	return Slugify(title) + "-" + now.Format("20060102150405")
}
