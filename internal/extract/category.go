package extract

import (
	"strings"

	"sports_crawler/internal/config"
)

// Classifier maps free text to the fixed category taxonomy by keyword
// containment. This is a flat lookup, not a trained model: precision is
// bounded by keyword coverage, which is an accepted limitation.
type Classifier struct {
	rules       []config.CategoryRule
	defaultID   int64
	tagKeywords []string
	maxTags     int
}

func NewClassifier(cfg config.ClassifierConfig) *Classifier {
	// Matching is lowercase; rule keywords from YAML may carry any casing.
	rules := make([]config.CategoryRule, len(cfg.Rules))
	for i, r := range cfg.Rules {
		rules[i] = config.CategoryRule{
			Keyword:    strings.ToLower(r.Keyword),
			CategoryID: r.CategoryID,
		}
	}

	return &Classifier{
		rules:       rules,
		defaultID:   cfg.DefaultCategory,
		tagKeywords: cfg.TagKeywords,
		maxTags:     cfg.MaxTags,
	}
}

// Classify lowercases the concatenation of all given text fields and
// returns the category of the first matching keyword, or the default.
func (c *Classifier) Classify(texts ...string) int64 {
	haystack := strings.ToLower(strings.Join(texts, " "))
	for _, rule := range c.rules {
		if strings.Contains(haystack, rule.Keyword) {
			return rule.CategoryID
		}
	}
	return c.defaultID
}

// Tags scans title and body for the configured tag keywords, preserving the
// keyword's canonical casing, capped at MaxTags.
func (c *Classifier) Tags(title, body string) []string {
	haystack := strings.ToLower(title + " " + body)
	var tags []string
	for _, kw := range c.tagKeywords {
		if strings.Contains(haystack, strings.ToLower(kw)) {
			tags = append(tags, kw)
			if len(tags) >= c.maxTags {
				break
			}
		}
	}
	return tags
}

// TournamentDetector resolves a tournament name from surrounding text by
// scanning a known-tournament list, with a generic fallback value.
type TournamentDetector struct {
	known    []string
	fallback string
}

func NewTournamentDetector(known []string, fallback string) *TournamentDetector {
	return &TournamentDetector{known: known, fallback: fallback}
}

func (d *TournamentDetector) Detect(texts ...string) string {
	haystack := strings.ToLower(strings.Join(texts, " "))
	for _, name := range d.known {
		if strings.Contains(haystack, strings.ToLower(name)) {
			return name
		}
	}
	return d.fallback
}
