package extract

import (
	"strings"
	"unicode"

	"sports_crawler/internal/config"
)

// NameFilter is the plausibility gate for regex-extracted team names. The
// match patterns are deliberately permissive so they catch names they have
// never seen; this filter is the main false-positive guard. Thresholds come
// from configuration so they stay independently testable and tunable.
type NameFilter struct {
	minLength int
	maxWords  int
	denylist  []string
}

func NewNameFilter(cfg config.MatchConfig) *NameFilter {
	return &NameFilter{
		minLength: cfg.MinNameLength,
		maxWords:  cfg.MaxNameWords,
		denylist:  cfg.NameDenylist,
	}
}

// Valid reports whether name plausibly identifies a team: long enough,
// not too many words, contains a letter, not purely numeric, and neither
// equal to nor abutting a denylisted boilerplate phrase.
func (f *NameFilter) Valid(name string) bool {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < f.minLength {
		return false
	}

	lower := strings.ToLower(name)
	for _, phrase := range f.denylist {
		if lower == phrase ||
			strings.HasPrefix(lower, phrase+" ") ||
			strings.HasSuffix(lower, " "+phrase) {
			return false
		}
	}

	if len(strings.Fields(name)) > f.maxWords {
		return false
	}

	stripped := strings.Map(func(r rune) rune {
		if r == ' ' || r == '.' || r == '-' {
			return -1
		}
		return r
	}, name)
	if stripped != "" && isDigitsOnly(stripped) {
		return false
	}

	for _, r := range name {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func isDigitsOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
