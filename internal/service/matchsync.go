package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"sports_crawler/internal/config"
	"sports_crawler/internal/domain"
)

// MatchSyncService merges fixture candidates from every registered source,
// resolves their teams and reconciles them against the store. A candidate
// whose ordered team pair already has a fixture within the dedup window is
// treated as the same real-world match and skipped.
type MatchSyncService struct {
	sources []MatchSource
	teams   TeamStore
	matches MatchStore
	state   CrawlStateStore
	cfg     config.MatchConfig
	logger  *slog.Logger
	limit   int
	now     func() time.Time
}

func NewMatchSyncService(
	sources []MatchSource,
	teams TeamStore,
	matches MatchStore,
	state CrawlStateStore,
	cfg config.MatchConfig,
	logger *slog.Logger,
	limit int,
) *MatchSyncService {
	return &MatchSyncService{
		sources: sources,
		teams:   teams,
		matches: matches,
		state:   state,
		cfg:     cfg,
		logger:  logger,
		limit:   limit,
		now:     time.Now,
	}
}

func (s *MatchSyncService) Sync(ctx context.Context) (*domain.MatchSyncStats, error) {
	startTime := time.Now()
	stats := &domain.MatchSyncStats{Source: "matches"}

	candidates := s.collect(ctx, stats)
	candidates = s.dedupeBatch(candidates)
	candidates = s.filterWindow(candidates)

	s.logger.Info("reconciling fixture candidates", "count", len(candidates))

	for _, cand := range candidates {
		stats.Crawled++

		saved, err := s.reconcile(ctx, cand)
		switch {
		case errors.Is(err, domain.ErrStoreUnavailable):
			s.logger.Error("store unavailable, skipping candidate",
				"home", cand.HomeTeamName, "away", cand.AwayTeamName)
			stats.Errors++
		case err != nil:
			s.logger.Error("reconcile failed",
				"home", cand.HomeTeamName, "away", cand.AwayTeamName, "error", err)
			stats.Errors++
		case !saved:
			stats.Skipped++
		default:
			stats.Saved++
		}
	}

	if err := s.updateState(ctx, stats); err != nil {
		s.logger.Warn("update crawl state failed", "error", err)
	}

	stats.Duration = time.Since(startTime)
	s.logger.Info("match sync completed",
		"crawled", stats.Crawled,
		"saved", stats.Saved,
		"skipped", stats.Skipped,
		"errors", stats.Errors,
		"duration", stats.Duration,
	)
	return stats, nil
}

// collect gathers candidates from all sources. One source failing does not
// abort the run; its candidates are simply absent this cycle.
func (s *MatchSyncService) collect(ctx context.Context, stats *domain.MatchSyncStats) []domain.MatchCandidate {
	var all []domain.MatchCandidate
	for _, src := range s.sources {
		cands, err := src.FetchMatches(ctx, s.limit)
		if err != nil {
			s.logger.Warn("match source failed", "source", src.ID(), "error", err)
			stats.Errors++
			continue
		}
		s.logger.Info("match source fetched", "source", src.ID(), "candidates", len(cands))
		all = append(all, cands...)
	}
	return all
}

// dedupeBatch keeps the first candidate per ordered team pair. Sources with
// structured dates come first in configuration, so the richer candidate wins.
func (s *MatchSyncService) dedupeBatch(candidates []domain.MatchCandidate) []domain.MatchCandidate {
	seen := make(map[string]struct{}, len(candidates))
	out := candidates[:0]
	for _, cand := range candidates {
		key := cand.PairKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, cand)
	}
	return out
}

// filterWindow drops candidates whose kickoff falls outside the configured
// day window. Inferred dates always land inside the window, so candidates
// carrying the fallback kickoff pass unconditionally.
func (s *MatchSyncService) filterWindow(candidates []domain.MatchCandidate) []domain.MatchCandidate {
	now := s.now()
	from := now.AddDate(0, 0, -s.cfg.DaysBefore).Truncate(24 * time.Hour)
	to := now.AddDate(0, 0, s.cfg.DaysAfter+1).Truncate(24 * time.Hour)

	out := candidates[:0]
	for _, cand := range candidates {
		if !cand.DateInferred && (cand.MatchDate.Before(from) || !cand.MatchDate.Before(to)) {
			continue
		}
		out = append(out, cand)
	}
	return out
}

func (s *MatchSyncService) reconcile(ctx context.Context, cand domain.MatchCandidate) (bool, error) {
	homeID, err := s.teams.GetOrCreate(ctx, domain.Team{
		Name:    cand.HomeTeamName,
		Code:    optional(cand.HomeTeamCode),
		LogoURL: optional(cand.HomeTeamLogo),
	})
	if err != nil {
		return false, err
	}
	awayID, err := s.teams.GetOrCreate(ctx, domain.Team{
		Name:    cand.AwayTeamName,
		Code:    optional(cand.AwayTeamCode),
		LogoURL: optional(cand.AwayTeamLogo),
	})
	if err != nil {
		return false, err
	}

	exists, err := s.matches.Exists(ctx, homeID, awayID, cand.MatchDate, s.cfg.DedupWindow)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	status := cand.Status
	if status == "" {
		status = domain.MatchScheduled
	}

	_, err = s.matches.Insert(ctx, &domain.Match{
		HomeTeamID:     homeID,
		AwayTeamID:     awayID,
		CategoryID:     cand.CategoryID,
		TournamentName: cand.TournamentName,
		MatchDate:      cand.MatchDate,
		Venue:          cand.Venue,
		Status:         status,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *MatchSyncService) updateState(ctx context.Context, stats *domain.MatchSyncStats) error {
	state, err := s.state.Get(ctx, stats.Source)
	if err != nil {
		return err
	}
	state.SourceID = stats.Source
	state.LastCrawledAt = time.Now()
	state.TotalSaved += int64(stats.Saved)
	return s.state.Update(ctx, state)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
