package vnexpress

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"sports_crawler/internal/domain"
	"sports_crawler/internal/extract"
	"sports_crawler/internal/fetch"
)

const (
	MatchSourceID   = "vnexpress_matches"
	MatchSourceName = "VnExpress Lịch Thi Đấu"
)

var matchContainerSelectors = []string{
	".schedule-table", ".match-list", ".fixture-list",
	".list-match", "table.schedule", ".match-schedule",
	`[class*="schedule"]`, `[class*="fixture"]`, `[class*="match-list"]`,
}

// scheduleKeywords gate which listed articles are worth an extra page fetch.
// Only titles hinting at fixture content trigger a follow-up request; this
// bounds the fetch count, it is not a correctness filter.
var scheduleKeywords = []string{
	"lịch thi đấu", "lịch đấu", "fixture", "schedule",
	"vs", "đấu", "gặp", "match", "premier league",
	"ngoại hạng anh", "vòng", "round", "lịch", "vòng đấu",
}

// MatchSource infers fixtures from the VnExpress schedule page. Three
// routes run over the same page and their outputs are merged: structured
// containers, listed article titles (following the link only when the title
// passes the keyword gate), and the whole page text as a last resort.
type MatchSource struct {
	fetcher    *fetch.Fetcher
	extractor  *extract.MatchExtractor
	baseURL    string
	tournament string // tournament attributed to pairs found on the base page
	logger     *slog.Logger
}

func NewMatchSource(baseURL, tournament string, fetcher *fetch.Fetcher, extractor *extract.MatchExtractor, logger *slog.Logger) *MatchSource {
	return &MatchSource{
		fetcher:    fetcher,
		extractor:  extractor,
		baseURL:    baseURL,
		tournament: tournament,
		logger:     logger.With("source", MatchSourceID),
	}
}

func (s *MatchSource) ID() string   { return MatchSourceID }
func (s *MatchSource) Name() string { return MatchSourceName }

// FetchMatches runs all extraction routes and returns up to limit
// candidates, deduplicated by case-insensitive team pair.
func (s *MatchSource) FetchMatches(ctx context.Context, limit int) ([]domain.MatchCandidate, error) {
	doc, err := s.fetcher.Document(ctx, s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule page: %w", err)
	}

	var candidates []domain.MatchCandidate

	fromContainers := s.containerRoute(doc)
	candidates = append(candidates, fromContainers...)

	fromListings := s.listingRoute(ctx, doc, limit)
	candidates = append(candidates, fromListings...)

	var fromPage []domain.MatchCandidate
	if len(candidates) < limit {
		fromPage = s.extractor.FromText(doc.Text(), s.tournament)
		candidates = append(candidates, fromPage...)
	}

	candidates = dedupeByPair(candidates)
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	s.logger.Info("extracted fixtures",
		"containers", len(fromContainers),
		"listings", len(fromListings),
		"page_text", len(fromPage),
		"unique", len(candidates),
	)
	return candidates, nil
}

// containerRoute pattern-extracts the text of every schedule-looking
// container on the page.
func (s *MatchSource) containerRoute(doc *goquery.Document) []domain.MatchCandidate {
	containers := extract.First(doc, matchContainerSelectors...)
	if containers == nil {
		return nil
	}

	var out []domain.MatchCandidate
	containers.Each(func(_ int, c *goquery.Selection) {
		out = append(out, s.extractor.FromText(c.Text(), s.tournament)...)
	})
	return out
}

// listingRoute pattern-extracts each listed article title, and follows the
// link to extract from the linked page body only when the title contains a
// schedule keyword.
func (s *MatchSource) listingRoute(ctx context.Context, doc *goquery.Document, limit int) []domain.MatchCandidate {
	items := extract.First(doc, listingItemSelectors...)
	if items == nil {
		return nil
	}

	var out []domain.MatchCandidate
	items.EachWithBreak(func(_ int, item *goquery.Selection) bool {
		titleTag := extract.FirstIn(item, listingTitleSelectors...)
		if titleTag == nil {
			return true
		}
		titleTag = titleTag.First()

		title := extract.CleanText(titleTag.Text())
		href, _ := titleTag.Attr("href")
		href = s.absolutizeMatch(href)
		if title == "" || href == "" {
			return true
		}

		out = append(out, s.extractor.FromText(title, s.tournament)...)
		if len(out) >= limit {
			return false
		}

		if hasScheduleKeyword(title) {
			linked, err := s.fetcher.Document(ctx, href)
			if err != nil {
				s.logger.Debug("skip linked page", "url", href, "error", err)
				return true
			}
			out = append(out, s.extractor.FromText(linked.Text(), "")...)
		}
		return len(out) < limit
	})
	return out
}

func (s *MatchSource) absolutizeMatch(href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "/") {
		base := s.baseURL
		if i := strings.Index(base, "//"); i >= 0 {
			if j := strings.Index(base[i+2:], "/"); j >= 0 {
				base = base[:i+2+j]
			}
		}
		return base + href
	}
	if strings.HasPrefix(href, "http") {
		return href
	}
	return ""
}

func hasScheduleKeyword(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range scheduleKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func dedupeByPair(candidates []domain.MatchCandidate) []domain.MatchCandidate {
	seen := make(map[string]struct{}, len(candidates))
	var out []domain.MatchCandidate
	for _, c := range candidates {
		if c.HomeTeamName == "" || c.AwayTeamName == "" {
			continue
		}
		key := c.PairKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
