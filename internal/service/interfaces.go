package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"sports_crawler/internal/domain"
)

// ArticleSource lists detail-page references from an upstream site and
// extracts one article candidate per fetched page.
type ArticleSource interface {
	ID() string
	Name() string
	ListArticles(ctx context.Context, limit int) ([]domain.ArticleRef, error)
	FetchArticle(ctx context.Context, ref domain.ArticleRef) (*domain.Article, error)
}

// MatchSource produces fixture candidates; implementations cover both the
// text-heuristic HTML routes and the structured JSON feed, converging on
// the same candidate shape.
type MatchSource interface {
	ID() string
	Name() string
	FetchMatches(ctx context.Context, limit int) ([]domain.MatchCandidate, error)
}

type ArticleStore interface {
	Insert(ctx context.Context, article *domain.Article) (int64, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

type TagStore interface {
	GetOrCreate(ctx context.Context, tag domain.Tag) (int64, error)
	LinkToArticle(ctx context.Context, articleID int64, tagIDs []int64) error
}

type TeamStore interface {
	GetOrCreate(ctx context.Context, team domain.Team) (int64, error)
}

type MatchStore interface {
	Exists(ctx context.Context, homeTeamID, awayTeamID int64, kickoff time.Time, window time.Duration) (bool, error)
	Insert(ctx context.Context, match *domain.Match) (int64, error)
}

type CrawlStateStore interface {
	Get(ctx context.Context, sourceID string) (*domain.CrawlState, error)
	Update(ctx context.Context, state *domain.CrawlState) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, article *domain.Article) error
	Close() error
}
