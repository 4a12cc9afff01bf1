package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"sports_crawler/internal/config"
	"sports_crawler/internal/domain"
	"sports_crawler/internal/service/mocks"
)

type MatchSyncTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	source  *mocks.MockMatchSource
	teams   *mocks.MockTeamStore
	matches *mocks.MockMatchStore
	state   *mocks.MockCrawlStateStore

	service *MatchSyncService
	cfg     config.MatchConfig
	now     time.Time
}

func (s *MatchSyncTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.source = mocks.NewMockMatchSource(s.ctrl)
	s.teams = mocks.NewMockTeamStore(s.ctrl)
	s.matches = mocks.NewMockMatchStore(s.ctrl)
	s.state = mocks.NewMockCrawlStateStore(s.ctrl)

	s.cfg = config.Default().Matches
	s.now = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s.source.EXPECT().ID().Return("test-matches").AnyTimes()
	s.source.EXPECT().Name().Return("Test Matches").AnyTimes()

	s.service = NewMatchSyncService(
		[]MatchSource{s.source},
		s.teams,
		s.matches,
		s.state,
		s.cfg,
		logger,
		50,
	)
	s.service.now = func() time.Time { return s.now }
}

func (s *MatchSyncTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestMatchSyncTestSuite(t *testing.T) {
	suite.Run(t, new(MatchSyncTestSuite))
}

func (s *MatchSyncTestSuite) expectStateUpdate() {
	s.state.EXPECT().Get(gomock.Any(), "matches").Return(&domain.CrawlState{SourceID: "matches"}, nil)
	s.state.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
}

func (s *MatchSyncTestSuite) candidate(home, away string, kickoff time.Time) domain.MatchCandidate {
	return domain.MatchCandidate{
		HomeTeamName:   home,
		AwayTeamName:   away,
		MatchDate:      kickoff,
		TournamentName: "Premier League",
		CategoryID:     1,
		Status:         domain.MatchScheduled,
	}
}

func (s *MatchSyncTestSuite) TestSync_SavesNewMatch() {
	ctx := context.Background()
	kickoff := time.Date(2025, 1, 15, 20, 0, 0, 0, time.UTC)
	cand := s.candidate("Man City", "Liverpool", kickoff)

	s.source.EXPECT().FetchMatches(ctx, 50).Return([]domain.MatchCandidate{cand}, nil)

	s.teams.EXPECT().GetOrCreate(ctx, domain.Team{Name: "Man City"}).Return(int64(1), nil)
	s.teams.EXPECT().GetOrCreate(ctx, domain.Team{Name: "Liverpool"}).Return(int64(2), nil)
	s.matches.EXPECT().Exists(ctx, int64(1), int64(2), kickoff, s.cfg.DedupWindow).Return(false, nil)
	s.matches.EXPECT().Insert(ctx, &domain.Match{
		HomeTeamID:     1,
		AwayTeamID:     2,
		CategoryID:     1,
		TournamentName: "Premier League",
		MatchDate:      kickoff,
		Status:         domain.MatchScheduled,
	}).Return(int64(10), nil)

	s.expectStateUpdate()

	stats, err := s.service.Sync(ctx)

	s.NoError(err)
	s.Equal(1, stats.Crawled)
	s.Equal(1, stats.Saved)
	s.Equal(0, stats.Skipped)
}

func (s *MatchSyncTestSuite) TestSync_SkipsWithinDedupWindow() {
	ctx := context.Background()
	kickoff := time.Date(2025, 1, 15, 20, 0, 0, 0, time.UTC)
	cand := s.candidate("Man City", "Liverpool", kickoff)

	s.source.EXPECT().FetchMatches(ctx, 50).Return([]domain.MatchCandidate{cand}, nil)

	s.teams.EXPECT().GetOrCreate(ctx, gomock.Any()).Return(int64(1), nil)
	s.teams.EXPECT().GetOrCreate(ctx, gomock.Any()).Return(int64(2), nil)
	s.matches.EXPECT().Exists(ctx, int64(1), int64(2), kickoff, s.cfg.DedupWindow).Return(true, nil)

	s.expectStateUpdate()

	stats, err := s.service.Sync(ctx)

	s.NoError(err)
	s.Equal(1, stats.Crawled)
	s.Equal(0, stats.Saved)
	s.Equal(1, stats.Skipped)
}

func (s *MatchSyncTestSuite) TestSync_IntraBatchPairDedup() {
	ctx := context.Background()
	kickoff := time.Date(2025, 1, 15, 20, 0, 0, 0, time.UTC)

	// Same pair reported twice, case differing; only the first survives.
	cands := []domain.MatchCandidate{
		s.candidate("Man City", "Liverpool", kickoff),
		s.candidate("MAN CITY", "LIVERPOOL", kickoff.Add(30*time.Minute)),
	}

	s.source.EXPECT().FetchMatches(ctx, 50).Return(cands, nil)

	s.teams.EXPECT().GetOrCreate(ctx, domain.Team{Name: "Man City"}).Return(int64(1), nil)
	s.teams.EXPECT().GetOrCreate(ctx, domain.Team{Name: "Liverpool"}).Return(int64(2), nil)
	s.matches.EXPECT().Exists(ctx, int64(1), int64(2), kickoff, s.cfg.DedupWindow).Return(false, nil)
	s.matches.EXPECT().Insert(ctx, gomock.Any()).Return(int64(10), nil)

	s.expectStateUpdate()

	stats, err := s.service.Sync(ctx)

	s.NoError(err)
	s.Equal(1, stats.Crawled)
	s.Equal(1, stats.Saved)
}

func (s *MatchSyncTestSuite) TestSync_DropsKickoffOutsideWindow() {
	ctx := context.Background()

	outside := s.candidate("Arsenal", "Chelsea", s.now.AddDate(0, 0, 7))
	inferred := s.candidate("Barca", "Real Madrid", s.now.AddDate(0, 0, 1))
	inferred.DateInferred = true

	s.source.EXPECT().FetchMatches(ctx, 50).Return([]domain.MatchCandidate{outside, inferred}, nil)

	s.teams.EXPECT().GetOrCreate(ctx, domain.Team{Name: "Barca"}).Return(int64(3), nil)
	s.teams.EXPECT().GetOrCreate(ctx, domain.Team{Name: "Real Madrid"}).Return(int64(4), nil)
	s.matches.EXPECT().Exists(ctx, int64(3), int64(4), inferred.MatchDate, s.cfg.DedupWindow).Return(false, nil)
	s.matches.EXPECT().Insert(ctx, gomock.Any()).Return(int64(11), nil)

	s.expectStateUpdate()

	stats, err := s.service.Sync(ctx)

	s.NoError(err)
	s.Equal(1, stats.Crawled)
	s.Equal(1, stats.Saved)
}

func (s *MatchSyncTestSuite) TestSync_SourceFailureCounted() {
	ctx := context.Background()

	s.source.EXPECT().FetchMatches(ctx, 50).Return(nil, errors.New("feed unavailable"))

	s.expectStateUpdate()

	stats, err := s.service.Sync(ctx)

	s.NoError(err)
	s.Equal(0, stats.Crawled)
	s.Equal(1, stats.Errors)
}

func (s *MatchSyncTestSuite) TestSync_TeamCodesAndLogosForwarded() {
	ctx := context.Background()
	kickoff := time.Date(2025, 1, 15, 20, 0, 0, 0, time.UTC)

	cand := s.candidate("Man City", "Liverpool", kickoff)
	cand.HomeTeamCode = "MCI"
	cand.HomeTeamLogo = "https://cdn.example.com/mci.png"

	s.source.EXPECT().FetchMatches(ctx, 50).Return([]domain.MatchCandidate{cand}, nil)

	mci := "MCI"
	logo := "https://cdn.example.com/mci.png"
	s.teams.EXPECT().GetOrCreate(ctx, domain.Team{Name: "Man City", Code: &mci, LogoURL: &logo}).Return(int64(1), nil)
	s.teams.EXPECT().GetOrCreate(ctx, domain.Team{Name: "Liverpool"}).Return(int64(2), nil)
	s.matches.EXPECT().Exists(ctx, int64(1), int64(2), kickoff, s.cfg.DedupWindow).Return(false, nil)
	s.matches.EXPECT().Insert(ctx, gomock.Any()).Return(int64(10), nil)

	s.expectStateUpdate()

	stats, err := s.service.Sync(ctx)

	s.NoError(err)
	s.Equal(1, stats.Saved)
}
