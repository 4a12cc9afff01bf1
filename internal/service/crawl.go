package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sports_crawler/internal/domain"
)

// CrawlService runs the article pipeline for one source: list the front
// page, fetch and extract each detail page, deduplicate by slug, commit
// article and tags atomically, publish. Items are processed sequentially
// and no single failure aborts the batch.
type CrawlService struct {
	source    ArticleSource
	articles  ArticleStore
	tags      TagStore
	state     CrawlStateStore
	txManager TransactionManager
	publisher Publisher
	logger    *slog.Logger
	limit     int
}

func NewCrawlService(
	source ArticleSource,
	articles ArticleStore,
	tags TagStore,
	state CrawlStateStore,
	txManager TransactionManager,
	publisher Publisher,
	logger *slog.Logger,
	limit int,
) *CrawlService {
	return &CrawlService{
		source:    source,
		articles:  articles,
		tags:      tags,
		state:     state,
		txManager: txManager,
		publisher: publisher,
		logger:    logger.With("source", source.ID()),
		limit:     limit,
	}
}

func (s *CrawlService) Crawl(ctx context.Context) (*domain.CrawlStats, error) {
	startTime := time.Now()
	s.logger.Info("starting crawl", "source_name", s.source.Name(), "limit", s.limit)

	refs, err := s.source.ListArticles(ctx, s.limit)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	stats := &domain.CrawlStats{Source: s.source.ID()}
	seenSlugs := make(map[string]struct{})

	for _, ref := range refs {
		stats.Crawled++

		article, err := s.source.FetchArticle(ctx, ref)
		if err != nil {
			s.logger.Warn("article extraction failed", "url", ref.URL, "error", err)
			stats.Errors++
			continue
		}

		// Intra-batch: identical slug means the same page was extracted
		// twice within this run.
		if _, dup := seenSlugs[article.Slug]; dup {
			stats.Skipped++
			continue
		}
		seenSlugs[article.Slug] = struct{}{}

		switch saved, err := s.saveArticle(ctx, article); {
		case errors.Is(err, domain.ErrStoreUnavailable):
			s.logger.Error("store unavailable, skipping item", "slug", article.Slug)
			stats.Errors++
		case err != nil:
			s.logger.Error("save failed", "slug", article.Slug, "error", err)
			stats.Errors++
		case !saved:
			stats.Skipped++
		default:
			stats.Saved++
			s.publish(ctx, article)
		}
	}

	if err := s.updateState(ctx, stats); err != nil {
		s.logger.Warn("update crawl state failed", "error", err)
	}

	stats.Duration = time.Since(startTime)
	s.logger.Info("crawl completed",
		"crawled", stats.Crawled,
		"saved", stats.Saved,
		"skipped", stats.Skipped,
		"errors", stats.Errors,
		"duration", stats.Duration,
	)
	return stats, nil
}

// saveArticle commits the article and its tag links in one transaction.
// A false return with nil error means duplicate-skip.
func (s *CrawlService) saveArticle(ctx context.Context, article *domain.Article) (bool, error) {
	exists, err := s.articles.ExistsBySlug(ctx, article.Slug)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		articleID, err := s.articles.Insert(txCtx, article)
		if err != nil {
			return err
		}
		article.ID = articleID

		tagIDs := make([]int64, 0, len(article.Tags))
		for _, tag := range article.Tags {
			tagID, err := s.tags.GetOrCreate(txCtx, tag)
			if err != nil {
				return fmt.Errorf("tag %q: %w", tag.Name, err)
			}
			tagIDs = append(tagIDs, tagID)
		}
		return s.tags.LinkToArticle(txCtx, article.ID, tagIDs)
	})
	if errors.Is(err, domain.ErrDuplicate) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *CrawlService) publish(ctx context.Context, article *domain.Article) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, article); err != nil {
		s.logger.Warn("publish failed", "slug", article.Slug, "error", err)
	}
}

func (s *CrawlService) updateState(ctx context.Context, stats *domain.CrawlStats) error {
	state, err := s.state.Get(ctx, s.source.ID())
	if err != nil {
		return err
	}
	state.SourceID = s.source.ID()
	state.LastCrawledAt = time.Now()
	state.TotalSaved += int64(stats.Saved)
	return s.state.Update(ctx, state)
}
