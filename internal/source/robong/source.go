package robong

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"sports_crawler/internal/domain"
	"sports_crawler/internal/extract"
	"sports_crawler/internal/fetch"
)

const (
	SourceID   = "robong"
	SourceName = "Robong Match API"
)

// Config holds the feed endpoint and the calendar window queried around
// the current day.
type Config struct {
	BaseURL    string
	DaysBefore int
	DaysAfter  int
}

// Source reads the structured schedule feed. Unlike the HTML sources it
// needs no pattern extraction: competitions and matches arrive as explicit
// objects and are converted directly to the common candidate shape.
type Source struct {
	fetcher    *fetch.Fetcher
	classifier *extract.Classifier
	baseURL    string
	daysBefore int
	daysAfter  int
	now        func() time.Time
	logger     *slog.Logger
}

func New(cfg Config, fetcher *fetch.Fetcher, classifier *extract.Classifier, logger *slog.Logger) *Source {
	return &Source{
		fetcher:    fetcher,
		classifier: classifier,
		baseURL:    cfg.BaseURL,
		daysBefore: cfg.DaysBefore,
		daysAfter:  cfg.DaysAfter,
		now:        time.Now,
		logger:     logger.With("source", SourceID),
	}
}

func (s *Source) ID() string   { return SourceID }
func (s *Source) Name() string { return SourceName }

// FetchMatches queries the feed once per calendar day across the configured
// window and merges the results. A failed or malformed day yields an empty
// batch for that date, never an error for the whole run.
func (s *Source) FetchMatches(ctx context.Context, limit int) ([]domain.MatchCandidate, error) {
	var candidates []domain.MatchCandidate

	day := s.now().AddDate(0, 0, -s.daysBefore)
	end := s.now().AddDate(0, 0, s.daysAfter)
	for !day.After(end) {
		dayMatches := s.fetchDay(ctx, day)
		candidates = append(candidates, dayMatches...)
		day = day.AddDate(0, 0, 1)
	}

	candidates = dedupe(candidates)
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].MatchDate.Before(candidates[j].MatchDate)
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	s.logger.Info("fetched fixtures from feed", "count", len(candidates))
	return candidates, nil
}

func (s *Source) fetchDay(ctx context.Context, day time.Time) []domain.MatchCandidate {
	dateStr := day.Format("02-01-2006")
	url := fmt.Sprintf("%s?sport_type=football&date=%s&type=schedule&state=", s.baseURL, dateStr)

	body, err := s.fetcher.Get(ctx, url)
	if err != nil {
		s.logger.Warn("feed request failed", "date", dateStr, "error", err)
		return nil
	}

	var resp scheduleResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		s.logger.Warn("malformed feed payload", "date", dateStr, "error", err)
		return nil
	}
	if !resp.Status {
		s.logger.Warn("feed returned status=false", "date", dateStr)
		return nil
	}

	var out []domain.MatchCandidate
	for _, comp := range resp.Result {
		tournament := comp.Name
		if tournament == "" {
			tournament = comp.ShortName
		}
		for _, m := range comp.Matches {
			if c, ok := s.convert(m, tournament); ok {
				out = append(out, c)
			}
		}
	}

	s.logger.Debug("parsed feed day", "date", dateStr, "matches", len(out))
	return out
}

func (s *Source) convert(m feedMatch, tournament string) (domain.MatchCandidate, bool) {
	home := firstNonEmpty(m.HomeTeam.Name, m.HomeTeam.ShortName)
	away := firstNonEmpty(m.AwayTeam.Name, m.AwayTeam.ShortName)
	if home == "" || away == "" {
		s.logger.Warn("feed match missing team name", "tournament", tournament)
		return domain.MatchCandidate{}, false
	}

	kickoff := s.now()
	if m.MatchTime > 0 {
		kickoff = time.Unix(m.MatchTime, 0)
	}

	return domain.MatchCandidate{
		HomeTeamName:   home,
		AwayTeamName:   away,
		HomeTeamCode:   m.HomeTeam.ShortName,
		AwayTeamCode:   m.AwayTeam.ShortName,
		HomeTeamLogo:   m.HomeTeam.Logo,
		AwayTeamLogo:   m.AwayTeam.Logo,
		MatchDate:      kickoff,
		TournamentName: tournament,
		CategoryID:     s.classifier.Classify(tournament),
		Status:         mapStatus(m.StatusText),
	}, true
}

// mapStatus folds the feed's status_text into the four-value status enum.
func mapStatus(statusText string) domain.MatchStatus {
	switch strings.ToLower(statusText) {
	case "live":
		return domain.MatchLive
	case "finished":
		return domain.MatchFinished
	case "cancelled":
		return domain.MatchCancelled
	default: // "pending" and anything unknown
		return domain.MatchScheduled
	}
}

// dedupe collapses identical (home, away, kickoff-minute) entries; the same
// fixture shows up on adjacent day queries around midnight boundaries.
func dedupe(candidates []domain.MatchCandidate) []domain.MatchCandidate {
	seen := make(map[string]struct{}, len(candidates))
	var out []domain.MatchCandidate
	for _, c := range candidates {
		key := c.PairKey() + "|" + c.MatchDate.Format("2006-01-02 15:04")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
